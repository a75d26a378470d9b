package autosize

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/ankurkotwal/autosize/autosize/common"
)

// FitRequestJSON is the body of a fit request
type FitRequestJSON struct {
	Text        string              `json:"text"`
	Annotations []common.Annotation `json:"annotations,omitempty"`
	// Style names a configured text style. FontName and LineHeight override it.
	Style       string          `json:"style,omitempty"`
	FontName    string          `json:"fontName,omitempty"`
	LineHeight  float64         `json:"lineHeight,omitempty"`
	StyleSize   common.FontSize `json:"styleFontSize"`
	FontSize    common.FontSize `json:"fontSize"`
	MinFontSize common.FontSize `json:"minFontSize"`
	// Pixels. Zero is unbounded, negative is rejected.
	MaxWidth      float64                       `json:"maxWidth"`
	MaxHeight     float64                       `json:"maxHeight"`
	SoftWrap      *bool                         `json:"softWrap,omitempty"`
	MaxLines      int                           `json:"maxLines,omitempty"`
	Overflow      common.Overflow               `json:"overflow"`
	InlineContent map[string]common.Placeholder `json:"inlineContent,omitempty"`
}

// FitResponseJSON is the result of a fit request
type FitResponseJSON struct {
	Strategy     string              `json:"strategy"`
	FontSize     common.FontSize     `json:"fontSize"`
	Overflow     bool                `json:"overflow"`
	Measurements int                 `json:"measurements"`
	Trace        []common.Step       `json:"trace"`
	Lines        []common.LayoutLine `json:"lines"`
	Log          []*common.LogEntry  `json:"log"`
}

type server struct {
	config     *common.Config
	measurer   *common.FaceMeasurer
	strategies []Strategy
}

// GetServer builds the router from the configuration file
func GetServer(debugMode bool, configFile string) (*gin.Engine, string, error) {
	config, err := common.LoadConfig(configFile)
	if err != nil {
		return nil, "", err
	}
	if debugMode {
		config.DebugOutput = true
	}
	if config.DebugOutput {
		common.NewLog().Dbg("%s", common.YamlObjectAsString(config, "Config"))
	}

	if !debugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	if debugMode {
		pprof.Register(router)
	}

	s := &server{
		config:     config,
		measurer:   common.NewFaceMeasurer(config),
		strategies: LoadStrategies(config),
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"app":        config.AppName,
			"version":    config.Version,
			"strategies": s.strategies,
		})
	})
	router.GET("/styles", func(c *gin.Context) {
		c.JSON(http.StatusOK, config.TextStyles)
	})
	router.POST("/api/:strategy", s.handleFit)
	router.GET("/preview/:strategy", s.handlePreview)
	if debugMode {
		router.GET("/test/:strategy", s.handleTest)
	}

	// Run on port 8080 unless PORT varilable specified
	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "8080"
	}
	return router, fmt.Sprintf(":%s", port), nil
}

// ToFitRequest resolves the body into a request using the configured styles
func (r *FitRequestJSON) ToFitRequest(config *common.Config) (*common.FitRequest, error) {
	if r.MaxWidth < 0 || r.MaxHeight < 0 {
		return nil, fmt.Errorf("negative box %vx%v", r.MaxWidth, r.MaxHeight)
	}
	style := common.Style{}
	if len(r.Style) != 0 {
		var found bool
		style, found = config.TextStyle(r.Style)
		if !found {
			return nil, fmt.Errorf("unknown style %s", r.Style)
		}
	}
	if len(r.FontName) != 0 {
		style.FontName = r.FontName
	}
	if r.LineHeight > 0 {
		style.LineHeight = r.LineHeight
	}
	if r.StyleSize.IsSpecified() {
		style.FontSize = r.StyleSize
	}
	softWrap := true
	if r.SoftWrap != nil {
		softWrap = *r.SoftWrap
	}
	return &common.FitRequest{
		Text:          common.AnnotatedText{Text: r.Text, Annotations: r.Annotations},
		Style:         style,
		FontSize:      r.FontSize,
		MinFontSize:   r.MinFontSize,
		Constraints:   common.BoxConstraints(r.MaxWidth, r.MaxHeight),
		SoftWrap:      softWrap,
		MaxLines:      r.MaxLines,
		Overflow:      r.Overflow,
		InlineContent: r.InlineContent,
	}, nil
}

func (s *server) strategy(c *gin.Context, log *common.Logger) (Strategy, bool) {
	label := c.Param("strategy")
	strategy, found := FindStrategy(s.strategies, label)
	if !found {
		log.Err("unknown strategy %s", label)
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown strategy %s", label),
			"log": log.Snapshot()})
	}
	return strategy, found
}

// solve runs the strategy and writes the error response if it fails
func (s *server) solve(c *gin.Context, strategy Strategy, req *common.FitRequest,
	log *common.Logger) (common.Outcome, bool) {
	outcome, err := strategy.Solver.Solve(req, s.measurer)
	if err != nil {
		status := http.StatusInternalServerError
		var unitErr *common.IncompatibleUnitError
		if errors.As(err, &unitErr) {
			status = http.StatusUnprocessableEntity
		}
		log.Err("%s solve failed. %v", strategy.Label, err)
		c.JSON(status, gin.H{"error": err.Error(), "log": log.Snapshot()})
		return outcome, false
	}
	if s.config.DebugOutput {
		log.Dbg("%s resolved %s after %d measurements", strategy.Label,
			outcome.FontSize(), outcome.Measurements())
	}
	if outcome.Overflow {
		log.Msg("%s: text still overflows at %s", strategy.Label, outcome.FontSize())
	}
	return outcome, true
}

func (s *server) handleFit(c *gin.Context) {
	log := common.NewLog()
	strategy, found := s.strategy(c, log)
	if !found {
		return
	}
	var body FitRequestJSON
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Err("Error parsing request - %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "log": log.Snapshot()})
		return
	}
	req, err := body.ToFitRequest(s.config)
	if err != nil {
		log.Err("Error in request - %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "log": log.Snapshot()})
		return
	}
	outcome, ok := s.solve(c, strategy, req, log)
	if !ok {
		return
	}
	layout := s.measurer.Measure(req.Input(outcome.FontSize()))
	c.JSON(http.StatusOK, FitResponseJSON{
		Strategy:     strategy.Label,
		FontSize:     outcome.FontSize(),
		Overflow:     outcome.Overflow,
		Measurements: outcome.Measurements(),
		Trace:        outcome.Trace,
		Lines:        layout.Lines,
		Log:          log.Snapshot(),
	})
}

// previewRequest builds a request from query parameters, defaulting to the
// demo request
func (s *server) previewRequest(c *gin.Context) (*common.FitRequest, error) {
	demo := s.config.Demo
	body := FitRequestJSON{
		Text:        c.DefaultQuery("text", demo.Text),
		Style:       c.DefaultQuery("style", demo.Style),
		MinFontSize: demo.MinFontSize,
		MaxWidth:    float64(s.config.Preview.Box.W),
		MaxHeight:   float64(s.config.Preview.Box.H),
		MaxLines:    demo.MaxLines,
	}
	for param, dim := range map[string]*float64{"w": &body.MaxWidth, "h": &body.MaxHeight} {
		if v, found := c.GetQuery(param); found {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid %s %q", param, v)
			}
			*dim = float64(n)
		}
	}
	if v, found := c.GetQuery("min"); found {
		size, err := common.ParseFontSize(v)
		if err != nil {
			return nil, err
		}
		body.MinFontSize = size
	}
	if v, found := c.GetQuery("size"); found {
		size, err := common.ParseFontSize(v)
		if err != nil {
			return nil, err
		}
		body.FontSize = size
	}
	if v, found := c.GetQuery("maxLines"); found {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid maxLines %q: %w", v, err)
		}
		body.MaxLines = n
	}
	if v, found := c.GetQuery("softWrap"); found {
		wrap, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid softWrap %q: %w", v, err)
		}
		body.SoftWrap = &wrap
	}
	if v, found := c.GetQuery("overflow"); found {
		if err := body.Overflow.UnmarshalText([]byte(v)); err != nil {
			return nil, err
		}
	}
	return body.ToFitRequest(s.config)
}

func (s *server) sendPreview(c *gin.Context, req *common.FitRequest, log *common.Logger) {
	strategy, found := s.strategy(c, log)
	if !found {
		return
	}
	outcome, ok := s.solve(c, strategy, req, log)
	if !ok {
		return
	}
	preview := s.config.Preview
	preview.Box = common.Dimensions2d{W: int(req.Constraints.MaxWidth),
		H: int(req.Constraints.MaxHeight)}
	imgBytes, err := common.RenderPreview(req, outcome, s.measurer, &preview)
	if err != nil {
		log.Err("jpeg encode failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(),
			"log": log.Snapshot()})
		return
	}
	c.Header("X-Font-Size", outcome.FontSize().String())
	c.Data(http.StatusOK, "image/jpeg", imgBytes.Bytes())
}

func (s *server) handlePreview(c *gin.Context) {
	log := common.NewLog()
	req, err := s.previewRequest(c)
	if err == nil && !isBounded(req.Constraints) {
		err = errors.New("preview needs a bounded box")
	}
	if limit := s.config.Preview.MaxBox; err == nil &&
		(req.Constraints.MaxWidth > float64(limit.W) || req.Constraints.MaxHeight > float64(limit.H)) {
		err = fmt.Errorf("preview box is larger than %dx%d", limit.W, limit.H)
	}
	if err != nil {
		log.Err("Error in preview request - %s", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "log": log.Snapshot()})
		return
	}
	s.sendPreview(c, req, log)
}

// handleTest renders the demo request, ignoring query parameters
func (s *server) handleTest(c *gin.Context) {
	log := common.NewLog()
	demo := s.config.Demo
	body := FitRequestJSON{
		Text:        demo.Text,
		Style:       demo.Style,
		MinFontSize: demo.MinFontSize,
		MaxWidth:    float64(s.config.Preview.Box.W),
		MaxHeight:   float64(s.config.Preview.Box.H),
		MaxLines:    demo.MaxLines,
	}
	req, err := body.ToFitRequest(s.config)
	if err != nil {
		log.Err("Error in demo request - %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(),
			"log": log.Snapshot()})
		return
	}
	s.sendPreview(c, req, log)
}

func isBounded(c common.Constraints) bool {
	return c.MaxWidth > 0 && c.MaxHeight > 0 &&
		c.MaxWidth < common.Unbounded && c.MaxHeight < common.Unbounded
}

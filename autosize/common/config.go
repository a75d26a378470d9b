package common

// Config contains all the configuration data for the app
type Config struct {
	AppName     string `yaml:"AppName"`
	Version     string `yaml:"Version"`
	DebugOutput bool   `yaml:"DebugOutput"`

	FontsDir    string   `yaml:"FontsDir"` // Empty uses the built-in Go fonts only
	DefaultFont string   `yaml:"DefaultFont"`
	PixelsPerSp float64  `yaml:"PixelsPerSp"`
	EmBase      FontSize `yaml:"EmBase"`

	CacheSize       int     `yaml:"CacheSize"`
	BisectPrecision float64 `yaml:"BisectPrecision"`

	Preview    PreviewData `yaml:"Preview"`
	Demo       DemoData    `yaml:"Demo"`
	TextStyles []Style     `yaml:"TextStyles"`
}

// PreviewData contains necessary data to draw previews
type PreviewData struct {
	Box              Dimensions2d `yaml:"Box"`
	MaxBox           Dimensions2d `yaml:"MaxBox"` // Largest box a preview may ask for
	BackgroundColour string       `yaml:"BackgroundColour"`
	TextColour       string       `yaml:"TextColour"`
	JpgQuality       int          `yaml:"JpgQuality"`
}

// DemoData is the request the debug test endpoints render
type DemoData struct {
	Text        string   `yaml:"Text"`
	Style       string   `yaml:"Style"`
	MinFontSize FontSize `yaml:"MinFontSize"`
	MaxLines    int      `yaml:"MaxLines"`
}

// Dimensions2d contains width and height
type Dimensions2d struct {
	W int `yaml:"w"` // Width
	H int `yaml:"h"` // Height
}

// TextStyle returns the configured style called name
func (c *Config) TextStyle(name string) (Style, bool) {
	for _, style := range c.TextStyles {
		if style.Name == name {
			return style, true
		}
	}
	return Style{}, false
}

// DefaultConfig returns the configuration used when no file overrides it
func DefaultConfig() *Config {
	return &Config{
		AppName:         "AutoSize",
		Version:         "1.0",
		DefaultFont:     FontGoRegular,
		PixelsPerSp:     1,
		EmBase:          DefaultFontSize,
		CacheSize:       256,
		BisectPrecision: 0.1,
		Preview: PreviewData{
			Box:              Dimensions2d{W: 150, H: 150},
			MaxBox:           Dimensions2d{W: 2048, H: 2048},
			BackgroundColour: "#111111",
			TextColour:       "#A1A151",
			JpgQuality:       90,
		},
		Demo: DemoData{
			Text:        "Lorem ipsum dolor sit amet",
			Style:       "H2",
			MinFontSize: Sp(8),
			MaxLines:    1,
		},
		TextStyles: []Style{
			{Name: "H1", FontName: FontGoBold, FontSize: Sp(64)},
			{Name: "H2", FontName: FontGoBold, FontSize: Sp(54)},
			{Name: "H3", FontName: FontGoBold, FontSize: Sp(46)},
			{Name: "H4", FontName: FontGoBold, FontSize: Sp(36)},
			{Name: "Body", FontName: FontGoRegular, FontSize: Sp(12)},
			{Name: "P1", FontName: FontGoRegular, FontSize: Sp(20)},
			{Name: "P2", FontName: FontGoRegular, FontSize: Sp(14)},
			{Name: "P3", FontName: FontGoRegular, FontSize: Sp(10)},
		},
	}
}

package common

import (
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const ellipsis = "…"

// Smallest face size handed to freetype
const minFacePixels = 1.0 / 64

// FaceMeasurer is the measurement oracle backed by truetype faces. It is safe
// for concurrent use.
type FaceMeasurer struct {
	FontsDir    string
	DefaultFont string
	PixelsPerSp float64
	EmBase      FontSize // The size 1em resolves to, in sp

	mu    sync.Mutex
	faces *FontFaceCache
}

// NewFaceMeasurer returns a measurer using the font settings of config
func NewFaceMeasurer(config *Config) *FaceMeasurer {
	return &FaceMeasurer{
		FontsDir:    config.FontsDir,
		DefaultFont: config.DefaultFont,
		PixelsPerSp: config.PixelsPerSp,
		EmBase:      config.EmBase,
		faces:       NewFontFaceCache(config.CacheSize),
	}
}

func (m *FaceMeasurer) pixelsPerSp() float64 {
	if m.PixelsPerSp <= 0 {
		return 1
	}
	return m.PixelsPerSp
}

// Pixels converts a font size to pixels
func (m *FaceMeasurer) Pixels(size FontSize) float64 {
	if size.Unit == UnitEm {
		base := m.EmBase
		if base.Unit != UnitSp {
			base = DefaultFontSize
		}
		return size.Value * base.Value * m.pixelsPerSp()
	}
	return size.Value * m.pixelsPerSp()
}

// Placeholder dimensions in em are relative to the font size being measured
func (m *FaceMeasurer) placeholderPixels(size FontSize, fontPixels float64) float64 {
	if size.Unit == UnitEm {
		return size.Value * fontPixels
	}
	return size.Value * m.pixelsPerSp()
}

// Face returns the face for style. Caller holds m.mu.
func (m *FaceMeasurer) face(style Style) (font.Face, float64) {
	if m.faces == nil {
		m.faces = NewFontFaceCache(DefaultFaceCacheSize)
	}
	px := math.Max(m.Pixels(style.FontSize), minFacePixels)
	name := style.FontName
	if len(name) == 0 {
		name = m.DefaultFont
	}
	if len(name) == 0 {
		name = FontGoRegular
	}
	face, err := m.faces.LoadFont(m.FontsDir, name, px)
	if err != nil {
		// The built-in font always loads
		face, err = m.faces.LoadFont("", FontGoRegular, px)
		if err != nil {
			panic(err)
		}
	}
	return face, px
}

// WithFace calls fn with the face the measurer uses for style. fn must not
// keep the face.
func (m *FaceMeasurer) WithFace(style Style, fn func(face font.Face)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	face, _ := m.face(style)
	fn(face)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenSpace
	tokenNewline
	tokenPlaceholder
)

type token struct {
	kind   tokenKind
	text   string
	width  float64
	height float64
}

func (m *FaceMeasurer) tokenize(face font.Face, fontPixels float64,
	in MeasureInput) []token {
	var tokens []token
	text := in.Text
	placeholders := in.Placeholders
	pi := 0
	i := 0
	for i < len(text) {
		if pi < len(placeholders) && placeholders[pi].Start <= i {
			p := placeholders[pi]
			pi++
			if p.Start < i || p.End > len(text) {
				continue
			}
			tokens = append(tokens, token{
				kind:   tokenPlaceholder,
				text:   text[p.Start:p.End],
				width:  m.placeholderPixels(p.Width, fontPixels),
				height: m.placeholderPixels(p.Height, fontPixels),
			})
			i = p.End
			continue
		}
		next := len(text)
		if pi < len(placeholders) {
			next = placeholders[pi].Start
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\n' {
			tokens = append(tokens, token{kind: tokenNewline})
			i += size
			continue
		}
		space := unicode.IsSpace(r)
		j := i
		for j < next {
			r2, s2 := utf8.DecodeRuneInString(text[j:])
			if r2 == '\n' || unicode.IsSpace(r2) != space {
				break
			}
			j += s2
		}
		kind := tokenWord
		if space {
			kind = tokenSpace
		}
		tokens = append(tokens, token{
			kind:  kind,
			text:  text[i:j],
			width: toFloat(font.MeasureString(face, text[i:j])),
		})
		i = j
	}
	return tokens
}

type lineBuf struct {
	text   strings.Builder
	width  float64
	height float64
	items  int
	soft   bool // Started by wrapping
}

// lineBreaker lays tokens out in lines, wrapping greedily when wrap is set.
// Spaces only count once they are followed by content on the same line.
type lineBreaker struct {
	wrap         bool
	maxWidth     float64
	lineHeight   float64
	lines        []*lineBuf
	cur          *lineBuf
	pendingText  string
	pendingWidth float64
}

func newLineBreaker(wrap bool, maxWidth float64, lineHeight float64) *lineBreaker {
	b := &lineBreaker{wrap: wrap, maxWidth: maxWidth, lineHeight: lineHeight}
	b.cur = &lineBuf{height: lineHeight}
	return b
}

func (b *lineBreaker) newLine(soft bool) {
	b.lines = append(b.lines, b.cur)
	b.cur = &lineBuf{height: b.lineHeight, soft: soft}
	b.pendingText = ""
	b.pendingWidth = 0
}

func (b *lineBreaker) space(t token) {
	b.pendingText += t.text
	b.pendingWidth += t.width
}

// add places content, wrapping first if it does not fit
func (b *lineBreaker) add(text string, width float64, height float64) {
	if b.wrap && b.cur.items > 0 &&
		b.cur.width+b.pendingWidth+width > b.maxWidth {
		b.newLine(true)
	}
	if b.cur.items > 0 || !b.cur.soft {
		b.cur.text.WriteString(b.pendingText)
		b.cur.width += b.pendingWidth
	}
	b.pendingText = ""
	b.pendingWidth = 0
	b.cur.text.WriteString(text)
	b.cur.width += width
	b.cur.height = math.Max(b.cur.height, height)
	b.cur.items++
}

func (b *lineBreaker) finish() []*lineBuf {
	b.lines = append(b.lines, b.cur)
	return b.lines
}

// Measure implements Measurer
func (m *FaceMeasurer) Measure(in MeasureInput) MeasurementResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	face, px := m.face(in.Style)
	metrics := face.Metrics()
	lineHeight := toFloat(metrics.Height)
	if in.Style.LineHeight > 0 {
		lineHeight *= in.Style.LineHeight
	}
	maxWidth := in.Constraints.MaxWidth
	maxHeight := in.Constraints.MaxHeight
	wrap := in.SoftWrap && !math.IsInf(maxWidth, 1)

	breaker := newLineBreaker(wrap, maxWidth, lineHeight)
	for _, t := range m.tokenize(face, px, in) {
		switch t.kind {
		case tokenNewline:
			breaker.newLine(false)
		case tokenSpace:
			breaker.space(t)
		case tokenWord:
			if wrap && t.width > maxWidth {
				// Too wide for any line, break between runes
				for _, r := range t.text {
					adv, _ := face.GlyphAdvance(r)
					breaker.add(string(r), toFloat(adv), lineHeight)
				}
				continue
			}
			breaker.add(t.text, t.width, lineHeight)
		case tokenPlaceholder:
			breaker.add(t.text, t.width, t.height)
		}
	}
	all := breaker.finish()

	result := MeasurementResult{LineHeight: lineHeight, Ascent: toFloat(metrics.Ascent)}
	visible := len(all)
	if in.MaxLines > 0 && visible > in.MaxLines {
		visible = in.MaxLines
		result.DidExceedMaxLines = true
	}
	shown := all[:visible]
	if in.Overflow == OverflowVisible {
		shown = all
	}
	for _, line := range all[:visible] {
		result.Height += line.height
		if line.width > result.Width {
			result.Width = line.width
		}
		if line.width > maxWidth {
			result.DidOverflowWidth = true
		}
	}
	result.DidOverflowHeight = result.DidExceedMaxLines || result.Height > maxHeight
	result.HasVisualOverflow = result.DidOverflowWidth || result.DidOverflowHeight
	result.LineCount = visible

	result.Lines = make([]LayoutLine, 0, len(shown))
	for _, line := range shown {
		result.Lines = append(result.Lines,
			LayoutLine{Text: line.text.String(), Width: line.width})
	}
	if in.Overflow == OverflowEllipsis && result.HasVisualOverflow && len(result.Lines) > 0 {
		last := &result.Lines[len(result.Lines)-1]
		*last = ellipsize(face, last.Text, maxWidth)
	}
	return result
}

// ellipsize drops runes from the end of text until it fits maxWidth with an
// ellipsis appended
func ellipsize(face font.Face, text string, maxWidth float64) LayoutLine {
	runes := []rune(strings.TrimRightFunc(text, unicode.IsSpace))
	for n := len(runes); n >= 0; n-- {
		candidate := strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + ellipsis
		width := toFloat(font.MeasureString(face, candidate))
		if width <= maxWidth || n == 0 {
			return LayoutLine{Text: candidate, Width: width}
		}
	}
	return LayoutLine{Text: ellipsis}
}

package common

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultFontSize is used when neither the style nor the request set a size
var DefaultFontSize = Sp(14)

// Unbounded is used for a constraint axis without a limit
var Unbounded = math.Inf(1)

// Style - the text style a size search runs against
type Style struct {
	Name       string   `yaml:"Name" json:"name,omitempty"`
	FontName   string   `yaml:"FontName" json:"fontName,omitempty"`
	FontSize   FontSize `yaml:"FontSize" json:"fontSize"`
	LineHeight float64  `yaml:"LineHeight" json:"lineHeight,omitempty"` // Multiplier of the face height
}

// WithFontSize returns a copy of the style using size
func (s Style) WithFontSize(size FontSize) Style {
	s.FontSize = size
	return s
}

// Annotation tags the byte range [Start, End) of a text with an item
type Annotation struct {
	Tag   string `json:"tag,omitempty"`
	Item  string `json:"item"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// AnnotatedText is text content with optional annotations. Annotations whose
// item names an inline content entry become placeholders.
type AnnotatedText struct {
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// PlainText returns text without annotations
func PlainText(text string) AnnotatedText {
	return AnnotatedText{Text: text}
}

// Key returns the identity of the text
func (t AnnotatedText) Key() string {
	if len(t.Annotations) == 0 {
		return t.Text
	}
	var b strings.Builder
	b.WriteString(t.Text)
	for _, a := range t.Annotations {
		fmt.Fprintf(&b, "\x00%s:%s:%d:%d", a.Tag, a.Item, a.Start, a.End)
	}
	return b.String()
}

// Placeholder - the size of inline content. Em sizes scale with the font size
// the text is measured at.
type Placeholder struct {
	Width  FontSize `json:"width"`
	Height FontSize `json:"height"`
}

// PlaceholderRange is a placeholder standing in for bytes [Start, End) of the
// text
type PlaceholderRange struct {
	Placeholder
	Start int
	End   int
}

// ResolvePlaceholders returns the placeholders for annotations whose item is
// found in inlineContent, ordered by start. Overlapping or out of range
// annotations are dropped.
func ResolvePlaceholders(text AnnotatedText,
	inlineContent map[string]Placeholder) []PlaceholderRange {
	if len(inlineContent) == 0 {
		return nil
	}
	var ranges []PlaceholderRange
	for _, a := range text.Annotations {
		content, found := inlineContent[a.Item]
		if !found {
			continue
		}
		if a.Start < 0 || a.End > len(text.Text) || a.Start >= a.End {
			continue
		}
		ranges = append(ranges, PlaceholderRange{Placeholder: content,
			Start: a.Start, End: a.End})
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})
	filtered := ranges[:0]
	end := 0
	for _, r := range ranges {
		if r.Start < end {
			continue
		}
		filtered = append(filtered, r)
		end = r.End
	}
	return filtered
}

// Constraints - the layout box in pixels
type Constraints struct {
	MaxWidth  float64
	MaxHeight float64
}

// BoxConstraints returns constraints for a box. Non positive values are
// treated as unbounded.
func BoxConstraints(width, height float64) Constraints {
	c := Constraints{MaxWidth: width, MaxHeight: height}
	if width <= 0 {
		c.MaxWidth = Unbounded
	}
	if height <= 0 {
		c.MaxHeight = Unbounded
	}
	return c
}

// Key returns the identity of the constraints
func (c Constraints) Key() string {
	return fmt.Sprintf("%gx%g", c.MaxWidth, c.MaxHeight)
}

// Overflow is the policy for text not fitting its box
type Overflow int

const (
	// OverflowClip - cut off what does not fit
	OverflowClip Overflow = iota
	// OverflowVisible - draw past the box
	OverflowVisible
	// OverflowEllipsis - end the last visible line with an ellipsis
	OverflowEllipsis
)

var overflowNames = map[Overflow]string{
	OverflowClip:     "clip",
	OverflowVisible:  "visible",
	OverflowEllipsis: "ellipsis",
}

func (o Overflow) String() string {
	return overflowNames[o]
}

// MarshalText implements encoding.TextMarshaler
func (o Overflow) MarshalText() ([]byte, error) {
	name, found := overflowNames[o]
	if !found {
		return nil, fmt.Errorf("unknown overflow %d", int(o))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Overflow) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*o = OverflowClip
		return nil
	}
	for overflow, n := range overflowNames {
		if n == name {
			*o = overflow
			return nil
		}
	}
	return fmt.Errorf("unknown overflow %q", string(text))
}

// FitRequest holds everything a size search needs. It is not modified by the
// solvers.
type FitRequest struct {
	Text          AnnotatedText
	Style         Style
	FontSize      FontSize // Overrides Style.FontSize when specified
	MinFontSize   FontSize
	Constraints   Constraints
	SoftWrap      bool
	MaxLines      int // 0 is unlimited
	Overflow      Overflow
	InlineContent map[string]Placeholder
}

// StartSize returns the size a search starts from: the explicit override,
// else the style size, else DefaultFontSize. It fails with an
// *IncompatibleUnitError when that size and MinFontSize differ in unit kind.
// A start below the minimum is raised to the minimum.
func (r *FitRequest) StartSize() (FontSize, error) {
	start := r.FontSize
	if !start.IsSpecified() {
		start = r.Style.FontSize
	}
	if !start.IsSpecified() {
		start = DefaultFontSize
	}
	if err := CheckUnits(start, r.MinFontSize); err != nil {
		return FontSize{}, err
	}
	return MaxSize(start, r.MinFontSize), nil
}

// Key identifies the request for memoisation: the text and constraints
// identity plus everything else that changes the measurement.
func (r *FitRequest) Key() string {
	var b strings.Builder
	b.WriteString(r.Text.Key())
	fmt.Fprintf(&b, "\x00%s\x00%s\x00%s/%s/%s/%g\x00%t/%d/%s",
		r.Constraints.Key(), r.FontSize, r.MinFontSize, r.Style.FontSize,
		r.Style.FontName, r.Style.LineHeight, r.SoftWrap, r.MaxLines, r.Overflow)
	names := make([]string, 0, len(r.InlineContent))
	for name := range r.InlineContent {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := r.InlineContent[name]
		fmt.Fprintf(&b, "\x00%s=%sx%s", name, p.Width, p.Height)
	}
	return b.String()
}

// Input returns the oracle input for measuring the request at size
func (r *FitRequest) Input(size FontSize) MeasureInput {
	return MeasureInput{
		Text:         r.Text.Text,
		Style:        r.Style.WithFontSize(size),
		Constraints:  r.Constraints,
		SoftWrap:     r.SoftWrap,
		MaxLines:     r.MaxLines,
		Overflow:     r.Overflow,
		Placeholders: ResolvePlaceholders(r.Text, r.InlineContent),
	}
}

// MeasureInput is one question to the measurement oracle
type MeasureInput struct {
	Text         string
	Style        Style
	Constraints  Constraints
	SoftWrap     bool
	MaxLines     int
	Overflow     Overflow
	Placeholders []PlaceholderRange
}

// LayoutLine is one laid out line
type LayoutLine struct {
	Text  string  `json:"text"`
	Width float64 `json:"width"`
}

// MeasurementResult is the oracle's answer
type MeasurementResult struct {
	HasVisualOverflow bool
	DidOverflowWidth  bool
	DidOverflowHeight bool
	DidExceedMaxLines bool
	LineCount         int
	Width             float64
	Height            float64
	LineHeight        float64
	Ascent            float64
	Lines             []LayoutLine
}

// Measurer measures text. Implementations must be deterministic and safe for
// concurrent use.
type Measurer interface {
	Measure(in MeasureInput) MeasurementResult
}

// MeasureFunc adapts a function to a Measurer
type MeasureFunc func(in MeasureInput) MeasurementResult

// Measure calls f(in)
func (f MeasureFunc) Measure(in MeasureInput) MeasurementResult {
	return f(in)
}

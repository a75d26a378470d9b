package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is the kind of a font size magnitude.
type Unit int

const (
	// UnitUnspecified marks a font size that was not given
	UnitUnspecified Unit = iota
	// UnitSp - scaled pixels
	UnitSp
	// UnitEm - relative to the inherited font size
	UnitEm
)

// String returns the suffix used for the unit in text form
func (u Unit) String() string {
	switch u {
	case UnitSp:
		return "sp"
	case UnitEm:
		return "em"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *Unit) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "sp":
		*u = UnitSp
	case "em":
		*u = UnitEm
	case "":
		*u = UnitUnspecified
	default:
		return fmt.Errorf("unknown font size unit %q", string(text))
	}
	return nil
}

// IncompatibleUnitError is returned when the size a search starts from and the
// minimum size it may shrink to are of different unit kinds.
type IncompatibleUnitError struct {
	Start Unit
	Min   Unit
}

func (e *IncompatibleUnitError) Error() string {
	return fmt.Sprintf("calculated font size (style + fontSize) %s should have the same type as minFontSize %s",
		unitLabel(e.Start), unitLabel(e.Min))
}

func unitLabel(u Unit) string {
	if u == UnitUnspecified {
		return "unspecified"
	}
	return u.String()
}

// FontSize is a magnitude tagged with its unit kind.
type FontSize struct {
	Value float64
	Unit  Unit
}

// Sp returns a font size in scaled pixels
func Sp(v float64) FontSize { return FontSize{Value: v, Unit: UnitSp} }

// Em returns a font size relative to the inherited font size
func Em(v float64) FontSize { return FontSize{Value: v, Unit: UnitEm} }

// IsSpecified is false for the zero FontSize
func (f FontSize) IsSpecified() bool { return f.Unit != UnitUnspecified }

func (f FontSize) String() string {
	if !f.IsSpecified() {
		return "unspecified"
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64) + f.Unit.String()
}

// MarshalText implements encoding.TextMarshaler. Unspecified sizes marshal to
// an empty string.
func (f FontSize) MarshalText() ([]byte, error) {
	if !f.IsSpecified() {
		return []byte{}, nil
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *FontSize) UnmarshalText(text []byte) error {
	size, err := ParseFontSize(string(text))
	if err != nil {
		return err
	}
	*f = size
	return nil
}

// ParseFontSize parses strings such as "54sp" or "1.5em". An empty string is
// the unspecified size.
func ParseFontSize(value string) (FontSize, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return FontSize{}, nil
	}
	for _, suf := range []struct {
		s string
		u Unit
	}{{"sp", UnitSp}, {"em", UnitEm}} {
		if strings.HasSuffix(v, suf.s) {
			num := strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return FontSize{}, fmt.Errorf("invalid font size %q: %w", value, err)
			}
			if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
				return FontSize{}, fmt.Errorf("invalid font size %q", value)
			}
			return FontSize{Value: f, Unit: suf.u}, nil
		}
	}
	return FontSize{}, fmt.Errorf("font size %q is missing a unit (sp or em)", value)
}

// CheckUnits returns an *IncompatibleUnitError when start and min differ in
// unit kind.
func CheckUnits(start, min FontSize) error {
	if start.Unit != min.Unit {
		return &IncompatibleUnitError{Start: start.Unit, Min: min.Unit}
	}
	return nil
}

func mustMatch(a, b FontSize) {
	if err := CheckUnits(a, b); err != nil {
		panic(err)
	}
}

// Values are kept to four decimals so repeated steps land on decimal sizes.
func roundValue(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// Less reports f < o. Panics if the units differ.
func (f FontSize) Less(o FontSize) bool {
	mustMatch(f, o)
	return f.Value < o.Value
}

// LessOrEqual reports f <= o. Panics if the units differ.
func (f FontSize) LessOrEqual(o FontSize) bool {
	mustMatch(f, o)
	return f.Value <= o.Value
}

// Minus returns f reduced by delta of the same unit.
func (f FontSize) Minus(delta float64) FontSize {
	return FontSize{Value: roundValue(f.Value - delta), Unit: f.Unit}
}

// MaxSize returns the larger of a and b. Panics if the units differ.
func MaxSize(a, b FontSize) FontSize {
	if a.Less(b) {
		return b
	}
	return a
}

// LerpSize interpolates linearly between start and stop. Panics if the units
// differ.
func LerpSize(start, stop FontSize, fraction float64) FontSize {
	mustMatch(start, stop)
	v := start.Value + (stop.Value-start.Value)*fraction
	return FontSize{Value: roundValue(v), Unit: start.Unit}
}

// MidSize returns the midpoint of a and b. Panics if the units differ.
func MidSize(a, b FontSize) FontSize {
	mustMatch(a, b)
	return FontSize{Value: (a.Value + b.Value) / 2, Unit: a.Unit}
}

package common

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in      string
		want    FontSize
		wantErr bool
	}{
		{in: "54sp", want: Sp(54)},
		{in: " 1.5em ", want: Em(1.5)},
		{in: "12.25SP", want: Sp(12.25)},
		{in: "", want: FontSize{}},
		{in: "12", wantErr: true},
		{in: "12px", wantErr: true},
		{in: "abcsp", wantErr: true},
		{in: "-1sp", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFontSize(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseFontSize(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFontSize(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFontSize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFontSize_String(t *testing.T) {
	if s := Sp(21.8).String(); s != "21.8sp" {
		t.Errorf("Expected 21.8sp, got %s", s)
	}
	if s := Em(2).String(); s != "2em" {
		t.Errorf("Expected 2em, got %s", s)
	}
	if s := (FontSize{}).String(); s != "unspecified" {
		t.Errorf("Expected unspecified, got %s", s)
	}
}

func TestFontSize_Text(t *testing.T) {
	type holder struct {
		Size FontSize `json:"size" yaml:"size"`
		Min  FontSize `json:"min" yaml:"min"`
	}
	in := holder{Size: Sp(54), Min: Em(0.5)}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(data) != `{"size":"54sp","min":"0.5em"}` {
		t.Errorf("Unexpected json %s", data)
	}
	var out holder
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if out != in {
		t.Errorf("json round trip = %v, want %v", out, in)
	}

	var fromYaml holder
	if err := yaml.Unmarshal([]byte("size: 64sp\nmin: 8sp\n"), &fromYaml); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if fromYaml.Size != Sp(64) || fromYaml.Min != Sp(8) {
		t.Errorf("Unexpected yaml sizes %v", fromYaml)
	}

	if err := json.Unmarshal([]byte(`{"size":"10pt"}`), &out); err == nil {
		t.Error("Expected error for unknown unit")
	}
}

func TestCheckUnits(t *testing.T) {
	if err := CheckUnits(Sp(10), Sp(1)); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	err := CheckUnits(Sp(10), Em(1))
	var unitErr *IncompatibleUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("Expected IncompatibleUnitError, got %v", err)
	}
	if unitErr.Start != UnitSp || unitErr.Min != UnitEm {
		t.Errorf("Unexpected units %v", unitErr)
	}
	if unitErr.Error() == "" {
		t.Error("Expected message")
	}
}

func TestFontSize_MismatchPanics(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*IncompatibleUnitError); !ok {
			t.Errorf("Expected IncompatibleUnitError panic, got %v", r)
		}
	}()
	Sp(10).Less(Em(1))
}

func TestFontSize_Arithmetic(t *testing.T) {
	if !Sp(8).Less(Sp(9)) || Sp(9).Less(Sp(9)) || !Sp(9).LessOrEqual(Sp(9)) {
		t.Error("Unexpected comparison")
	}
	if got := MaxSize(Sp(3), Sp(7)); got != Sp(7) {
		t.Errorf("MaxSize = %v", got)
	}
	if got := MidSize(Em(1), Em(2)); got != Em(1.5) {
		t.Errorf("MidSize = %v", got)
	}
	if got := LerpSize(Sp(54), Sp(8), 0.1); got != Sp(49.4) {
		t.Errorf("LerpSize = %v, want 49.4sp", got)
	}
	if got := LerpSize(Sp(54), Sp(8), 1); got != Sp(8) {
		t.Errorf("LerpSize = %v, want 8sp", got)
	}
	// 20 decrements of 0.2 land on 18, not 17.999...
	if got := Sp(22).Minus(0.2 * 20); got != Sp(18) {
		t.Errorf("Minus = %v, want 18sp", got)
	}
	if got := Sp(22).Minus(0.2); math.Abs(got.Value-21.8) > 1e-9 {
		t.Errorf("Minus = %v, want 21.8sp", got)
	}
}

func TestUnit_Text(t *testing.T) {
	var u Unit
	if err := u.UnmarshalText([]byte("em")); err != nil || u != UnitEm {
		t.Errorf("Unexpected unit %v, err %v", u, err)
	}
	if err := u.UnmarshalText([]byte("pt")); err == nil {
		t.Error("Expected error for pt")
	}
	if text, _ := UnitSp.MarshalText(); string(text) != "sp" {
		t.Errorf("Unexpected text %s", text)
	}
}

package lerp

import (
	"errors"
	"math"
	"testing"

	"github.com/ankurkotwal/autosize/autosize/common"
)

// Overflows above fit and records every size asked about
type thresholdMeasurer struct {
	fit   float64
	sizes []float64
}

func (m *thresholdMeasurer) Measure(in common.MeasureInput) common.MeasurementResult {
	size := in.Style.FontSize.Value
	m.sizes = append(m.sizes, size)
	return common.MeasurementResult{HasVisualOverflow: size > m.fit+1e-9, LineCount: 1}
}

func request(start, min common.FontSize) *common.FitRequest {
	return &common.FitRequest{
		Text:        common.PlainText("Lorem ipsum dolor sit amet"),
		Style:       common.Style{Name: "H2", FontSize: start},
		MinFontSize: min,
		Constraints: common.BoxConstraints(150, 150),
		SoftWrap:    true,
		MaxLines:    1,
	}
}

func TestSolve_FloorReached(t *testing.T) {
	m := &thresholdMeasurer{fit: 12}
	outcome, err := (&Solver{}).Solve(request(common.Sp(54), common.Sp(8)), m)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	want := []float64{54, 49.4, 44.8, 40.2, 35.6, 31, 26.4, 21.8, 17.2, 12.6, 8}
	if len(m.sizes) != len(want) {
		t.Fatalf("Expected %d measurements, got %v", len(want), m.sizes)
	}
	for i := range want {
		if math.Abs(m.sizes[i]-want[i]) > 1e-9 {
			t.Errorf("Candidate %d = %v, want %v", i, m.sizes[i], want[i])
		}
	}
	if outcome.FontSize() != common.Sp(8) {
		t.Errorf("Expected 8sp, got %v", outcome.FontSize())
	}
	if outcome.Overflow {
		t.Error("8sp fits, expected no overflow")
	}
	if outcome.Style.Name != "H2" {
		t.Errorf("Expected the request style, got %v", outcome.Style)
	}
}

func TestSolve_StopsAtFirstFit(t *testing.T) {
	m := &thresholdMeasurer{fit: 40}
	outcome, _ := (&Solver{}).Solve(request(common.Sp(54), common.Sp(8)), m)
	if outcome.FontSize() != common.Sp(35.6) {
		t.Errorf("Expected 35.6sp, got %v", outcome.FontSize())
	}
	if outcome.Measurements() != 5 {
		t.Errorf("Expected 5 measurements, got %d", outcome.Measurements())
	}
}

func TestSolve_FitsAtStart(t *testing.T) {
	m := &thresholdMeasurer{fit: 100}
	outcome, _ := (&Solver{}).Solve(request(common.Sp(54), common.Sp(8)), m)
	if outcome.FontSize() != common.Sp(54) || outcome.Measurements() != 1 {
		t.Errorf("Expected 54sp after 1 measurement, got %v after %d",
			outcome.FontSize(), outcome.Measurements())
	}
}

func TestSolve_NeverFits(t *testing.T) {
	m := &thresholdMeasurer{fit: 0.5}
	outcome, err := (&Solver{}).Solve(request(common.Em(3), common.Em(1)), m)
	if err != nil {
		t.Fatalf("Floor exhaustion is not an error: %v", err)
	}
	if outcome.FontSize() != common.Em(1) || !outcome.Overflow {
		t.Errorf("Expected overflowing 1em, got %v overflow %v", outcome.FontSize(),
			outcome.Overflow)
	}
	if outcome.Measurements() != Steps+1 {
		t.Errorf("Expected %d measurements, got %d", Steps+1, outcome.Measurements())
	}
}

func TestSolve_StartAtMinimum(t *testing.T) {
	m := &thresholdMeasurer{fit: 1}
	outcome, _ := (&Solver{}).Solve(request(common.Sp(8), common.Sp(8)), m)
	if outcome.FontSize() != common.Sp(8) || outcome.Measurements() != 1 {
		t.Errorf("Expected 8sp after 1 measurement, got %v after %d",
			outcome.FontSize(), outcome.Measurements())
	}
}

func TestSolve_IncompatibleUnits(t *testing.T) {
	m := &thresholdMeasurer{fit: 12}
	_, err := (&Solver{}).Solve(request(common.Sp(54), common.Em(0.5)), m)
	var unitErr *common.IncompatibleUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("Expected IncompatibleUnitError, got %v", err)
	}
	if len(m.sizes) != 0 {
		t.Errorf("Expected no measurements, got %v", m.sizes)
	}
}

func TestSolve_Properties(t *testing.T) {
	for _, fit := range []float64{0, 8, 9.5, 12, 20, 33.3, 49.4, 53.9, 54, 80} {
		m := &thresholdMeasurer{fit: fit}
		req := request(common.Sp(54), common.Sp(8))
		outcome, _ := (&Solver{}).Solve(req, m)
		size := outcome.FontSize().Value
		if size < 8 || size > 54 {
			t.Errorf("fit %v: size %v outside [8, 54]", fit, size)
		}
		for i := 1; i < len(m.sizes); i++ {
			if m.sizes[i] >= m.sizes[i-1] {
				t.Errorf("fit %v: candidates not descending %v", fit, m.sizes)
			}
		}
		if fit >= 8 {
			if size > fit+1e-9 {
				t.Errorf("fit %v: size %v overflows", fit, size)
			}
			// Within one step of the boundary
			if fit <= 54 && fit-size > 4.6+1e-9 {
				t.Errorf("fit %v: size %v more than a step away", fit, size)
			}
		}
		again, _ := (&Solver{}).Solve(req, &thresholdMeasurer{fit: fit})
		if again.FontSize() != outcome.FontSize() {
			t.Errorf("fit %v: not idempotent %v vs %v", fit, again.FontSize(),
				outcome.FontSize())
		}
	}
}

func BenchmarkSolve(b *testing.B) {
	req := request(common.Sp(54), common.Sp(8))
	solver := &Solver{}
	for n := 0; n < b.N; n++ {
		solver.Solve(req, &thresholdMeasurer{fit: 12})
	}
}

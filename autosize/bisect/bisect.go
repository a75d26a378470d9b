package bisect

import (
	"github.com/ankurkotwal/autosize/autosize/common"
)

// DefaultPrecision is the interval width, in the request's unit, at which the
// search stops
const DefaultPrecision = 0.1

// Solver bisects [minimum, start] on the overflow outcome of each measurement.
// It assumes that a smaller font size never overflows more than a larger one.
type Solver struct {
	Precision float64
}

// GetStrategyInfo returns the info needed to register the strategy
func GetStrategyInfo() (string, string, common.Solver) {
	return "bisect", "Binary search between the minimum and the start size",
		&Solver{Precision: DefaultPrecision}
}

// Solve implements common.Solver. The result is the largest size confirmed
// not to overflow, or the minimum when none was.
func (s *Solver) Solve(req *common.FitRequest, m common.Measurer) (common.Outcome, error) {
	start, err := req.StartSize()
	if err != nil {
		return common.Outcome{}, err
	}
	precision := s.Precision
	if precision <= 0 {
		precision = DefaultPrecision
	}

	var outcome common.Outcome
	bottom := req.MinFontSize
	top := start
	lastValid := req.MinFontSize
	confirmed := false
	accept := func(size common.FontSize) {
		if !confirmed || lastValid.Less(size) {
			lastValid = size
		}
		confirmed = true
	}

	size := start
	result := outcome.Measure(req, m, size)
	for top.Value-bottom.Value > precision {
		if result.HasVisualOverflow {
			top = common.MidSize(bottom, top)
			size = top
		} else {
			accept(size)
			bottom = common.MidSize(bottom, top)
			size = bottom
		}
		result = outcome.Measure(req, m, size)
	}
	if !result.HasVisualOverflow {
		accept(size)
	}

	outcome.Style = req.Style.WithFontSize(lastValid)
	outcome.Overflow = !confirmed
	return outcome, nil
}

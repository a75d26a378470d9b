package lerp

import (
	"github.com/ankurkotwal/autosize/autosize/common"
)

// Steps is the number of interpolation steps between the start and the
// minimum size
const Steps = 10

// Solver walks from the start size to the minimum size in equal steps and
// stops at the first size that does not overflow. It evaluates at most
// Steps+1 sizes and may settle on the minimum even when a size between two
// steps would fit.
type Solver struct{}

// GetStrategyInfo returns the info needed to register the strategy
func GetStrategyInfo() (string, string, common.Solver) {
	return "lerp", "Linear interpolation from the start size to the minimum in 10 steps",
		&Solver{}
}

// Solve implements common.Solver
func (s *Solver) Solve(req *common.FitRequest, m common.Measurer) (common.Outcome, error) {
	start, err := req.StartSize()
	if err != nil {
		return common.Outcome{}, err
	}

	var outcome common.Outcome
	size := start
	result := outcome.Measure(req, m, size)
	for step := 1; result.HasVisualOverflow && step <= Steps &&
		req.MinFontSize.Less(size); step++ {
		size = common.LerpSize(start, req.MinFontSize, float64(step)/Steps)
		result = outcome.Measure(req, m, size)
	}

	outcome.Style = req.Style.WithFontSize(size)
	outcome.Overflow = result.HasVisualOverflow
	return outcome, nil
}

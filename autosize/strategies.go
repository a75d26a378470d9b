package autosize

import (
	"github.com/ankurkotwal/autosize/autosize/bisect"
	"github.com/ankurkotwal/autosize/autosize/common"
	"github.com/ankurkotwal/autosize/autosize/lerp"
	"github.com/ankurkotwal/autosize/autosize/shrink"
)

// StrategyInfo is the info needed to serve a strategy
// Returns:
//   * Strategy label
//   * User friendly description
//   * Solver implementing the strategy
type StrategyInfo func() (string, string, common.Solver)

// StrategiesInfo lists the strategies served
var StrategiesInfo []StrategyInfo = []StrategyInfo{shrink.GetStrategyInfo,
	lerp.GetStrategyInfo, bisect.GetStrategyInfo}

// Strategy is a configured solver
type Strategy struct {
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Solver      common.Solver `json:"-"`
}

// LoadStrategies configures every strategy in StrategiesInfo. Pure solvers
// are memoised per request key, the reactive solver gets its own tracker.
func LoadStrategies(config *common.Config) []Strategy {
	strategies := make([]Strategy, 0, len(StrategiesInfo))
	for _, getStrategyInfo := range StrategiesInfo {
		label, description, solver := getStrategyInfo()
		switch s := solver.(type) {
		case *shrink.Solver:
			s.Tracker = shrink.NewTracker(config.CacheSize)
		case *bisect.Solver:
			if config.BisectPrecision > 0 {
				s.Precision = config.BisectPrecision
			}
		}
		if _, reactive := solver.(*shrink.Solver); !reactive && config.CacheSize > 0 {
			solver = common.NewCachedSolver(solver, config.CacheSize)
		}
		strategies = append(strategies, Strategy{Label: label,
			Description: description, Solver: solver})
	}
	return strategies
}

// FindStrategy returns the strategy called label
func FindStrategy(strategies []Strategy, label string) (Strategy, bool) {
	for _, s := range strategies {
		if s.Label == label {
			return s, true
		}
	}
	return Strategy{}, false
}

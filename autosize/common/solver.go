package common

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// Solver finds a font size at which a request's text fits its box
type Solver interface {
	Solve(req *FitRequest, m Measurer) (Outcome, error)
}

// Step is one measurement made during a search
type Step struct {
	Size        FontSize `json:"size"`
	HasOverflow bool     `json:"overflow"`
}

// Outcome - the resolved style for the rendering layer plus how it was found.
// Overflow is set when the resolved size could not be confirmed to fit, which
// happens when a search exhausts at the minimum size.
type Outcome struct {
	Style    Style
	Trace    []Step
	Overflow bool
}

// FontSize returns the resolved size
func (o Outcome) FontSize() FontSize {
	return o.Style.FontSize
}

// Measurements returns the number of oracle calls made
func (o Outcome) Measurements() int {
	return len(o.Trace)
}

// Measure asks m about req at size and records the step
func (o *Outcome) Measure(req *FitRequest, m Measurer, size FontSize) MeasurementResult {
	result := m.Measure(req.Input(size))
	o.Trace = append(o.Trace, Step{Size: size, HasOverflow: result.HasVisualOverflow})
	return result
}

// CachedSolver memoises a pure solver per FitRequest.Key. A new key restarts
// the search. Safe for concurrent use.
type CachedSolver struct {
	Solver Solver

	mu    sync.Mutex
	cache *lru.Cache
}

// NewCachedSolver wraps solver with an LRU holding up to maxEntries outcomes
func NewCachedSolver(solver Solver, maxEntries int) *CachedSolver {
	return &CachedSolver{Solver: solver, cache: lru.New(maxEntries)}
}

// Solve returns the remembered outcome for req or runs the wrapped solver
func (c *CachedSolver) Solve(req *FitRequest, m Measurer) (Outcome, error) {
	key := req.Key()
	c.mu.Lock()
	if v, found := c.cache.Get(key); found {
		c.mu.Unlock()
		return v.(Outcome), nil
	}
	c.mu.Unlock()

	outcome, err := c.Solver.Solve(req, m)
	if err != nil {
		return outcome, err
	}
	c.mu.Lock()
	c.cache.Add(key, outcome)
	c.mu.Unlock()
	return outcome, nil
}

// Len returns the number of remembered outcomes
func (c *CachedSolver) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

package shrink

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/ankurkotwal/autosize/autosize/common"
)

// Decrement is how much the size drops after each overflowing render
const Decrement = 0.2

// DefaultMaxTexts bounds the texts a tracker remembers when no size is given
const DefaultMaxTexts = 256

// Tracker keeps the in-progress size of each text across render events.
// State is keyed by text identity so unrelated texts never observe each
// other's size. It restarts from the start size when the constraints, the
// start or the minimum size of a text change. The least recently rendered
// texts are forgotten once the tracker is full.
type Tracker struct {
	mu     sync.Mutex
	states *lru.Cache
}

type state struct {
	constraints string
	start       common.FontSize
	min         common.FontSize
	size        common.FontSize
	decrements  int
}

// NewTracker returns an empty tracker remembering up to maxTexts texts
func NewTracker(maxTexts int) *Tracker {
	if maxTexts <= 0 {
		maxTexts = DefaultMaxTexts
	}
	return &Tracker{states: lru.New(maxTexts)}
}

// Caller holds t.mu
func (t *Tracker) stateFor(req *common.FitRequest) (*state, error) {
	start, err := req.StartSize()
	if err != nil {
		return nil, err
	}
	key := req.Text.Key()
	constraints := req.Constraints.Key()
	var st *state
	if v, found := t.states.Get(key); found {
		st = v.(*state)
	}
	if st == nil || st.constraints != constraints || st.start != start ||
		st.min != req.MinFontSize {
		st = &state{
			constraints: constraints,
			start:       start,
			min:         req.MinFontSize,
			size:        start,
		}
		t.states.Add(key, st)
	}
	return st, nil
}

// Size returns the size the text of req should be rendered with next
func (t *Tracker) Size(req *common.FitRequest) (common.FontSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, err := t.stateFor(req)
	if err != nil {
		return common.FontSize{}, err
	}
	return st.size, nil
}

// OnLayout is the render callback for a render of req at rendered. When the
// render overflowed and the size is still above the minimum it lowers the size
// and reports that another render is needed. At the minimum an overflow is
// accepted. A render at a size other than the current one changes nothing and
// asks for a render at the current size.
func (t *Tracker) OnLayout(req *common.FitRequest, rendered common.FontSize,
	result common.MeasurementResult) (common.FontSize, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, err := t.stateFor(req)
	if err != nil {
		return common.FontSize{}, false, err
	}
	if rendered != st.size {
		return st.size, true, nil
	}
	if !result.HasVisualOverflow || !st.min.Less(st.size) {
		return st.size, false, nil
	}
	st.decrements++
	// Derived from the start to avoid accumulating float error
	st.size = common.MaxSize(st.start.Minus(Decrement*float64(st.decrements)), st.min)
	return st.size, true, nil
}

// Forget drops the state of the text of req
func (t *Tracker) Forget(req *common.FitRequest) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states.Remove(req.Text.Key())
}

// Len returns the number of texts tracked
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states.Len()
}

var sharedTracker = NewTracker(DefaultMaxTexts)

// Solver drives render events against the oracle until the tracker settles.
// Every intermediate size is one render. Solving a settled text again renders
// once at the settled size.
type Solver struct {
	Tracker *Tracker
}

// GetStrategyInfo returns the info needed to register the strategy
func GetStrategyInfo() (string, string, common.Solver) {
	return "shrink", "Shrink by 0.2 after every render that overflows",
		&Solver{Tracker: sharedTracker}
}

// Solve implements common.Solver
func (s *Solver) Solve(req *common.FitRequest, m common.Measurer) (common.Outcome, error) {
	tracker := s.Tracker
	if tracker == nil {
		tracker = sharedTracker
	}
	size, err := tracker.Size(req)
	if err != nil {
		return common.Outcome{}, err
	}

	var outcome common.Outcome
	for {
		result := outcome.Measure(req, m, size)
		next, again, err := tracker.OnLayout(req, size, result)
		if err != nil {
			return common.Outcome{}, err
		}
		if !again {
			outcome.Overflow = result.HasVisualOverflow
			break
		}
		size = next
	}
	outcome.Style = req.Style.WithFontSize(size)
	return outcome, nil
}

package generation

import "errors"

// State is the phase of a candidate walk.
type State int

const (
	// StatePending means no candidate has been tried yet.
	StatePending State = iota
	// StateTrying means the candidate at Index is being attempted.
	StateTrying
	// StateSucceeded is terminal: the candidate at Index answered.
	StateSucceeded
	// StateExhausted is terminal: every candidate failed.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateTrying:
		return "trying"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Walk tracks an ordered pass over candidate models:
//
//	Pending -> Trying(0) -> Trying(1) -> ... -> Succeeded | Exhausted
//
// Transitions that do not apply to the current state are ignored. A Walk
// is not safe for concurrent use; one Walk serves one request.
type Walk struct {
	candidates []string
	state      State
	index      int
	failures   []error
}

// NewWalk creates a pending walk over candidates. The slice is copied.
func NewWalk(candidates []string) *Walk {
	return &Walk{candidates: append([]string(nil), candidates...)}
}

// Start moves Pending to Trying(0), or straight to Exhausted when there
// are no candidates.
func (w *Walk) Start() State {
	if w.state != StatePending {
		return w.state
	}
	if len(w.candidates) == 0 {
		w.state = StateExhausted
		return w.state
	}
	w.state = StateTrying
	w.index = 0
	return w.state
}

// Current returns the candidate being tried. It is empty unless the walk
// is Trying or Succeeded.
func (w *Walk) Current() string {
	if w.state != StateTrying && w.state != StateSucceeded {
		return ""
	}
	return w.candidates[w.index]
}

// Succeed moves Trying(i) to Succeeded.
func (w *Walk) Succeed() State {
	if w.state == StateTrying {
		w.state = StateSucceeded
	}
	return w.state
}

// Fail records err for the current candidate and moves Trying(i) to
// Trying(i+1), or to Exhausted after the last candidate.
func (w *Walk) Fail(err error) State {
	if w.state != StateTrying {
		return w.state
	}
	w.failures = append(w.failures, err)
	if w.index+1 < len(w.candidates) {
		w.index++
		return w.state
	}
	w.state = StateExhausted
	return w.state
}

// State returns the current state.
func (w *Walk) State() State {
	return w.state
}

// Index returns the position of the current candidate.
func (w *Walk) Index() int {
	return w.index
}

// Done reports whether the walk reached a terminal state.
func (w *Walk) Done() bool {
	return w.state == StateSucceeded || w.state == StateExhausted
}

// Attempts returns how many candidates have been tried so far, including
// the current one.
func (w *Walk) Attempts() int {
	switch w.state {
	case StatePending:
		return 0
	case StateExhausted:
		return len(w.failures)
	default:
		return w.index + 1
	}
}

// Err joins the recorded candidate failures. It is nil when nothing failed.
func (w *Walk) Err() error {
	return errors.Join(w.failures...)
}

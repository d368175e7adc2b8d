package pipeline

// Tracker records a stage's position in Idle → Streaming → Draining → Done.
// Transitions only move forward.
type Tracker struct {
	state State
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Advance moves to s if s is later than the current state.
func (t *Tracker) Advance(s State) {
	if s > t.state {
		t.state = s
	}
}

// Done reports whether the stage has finished.
func (t *Tracker) Done() bool {
	return t.state == StateDone
}

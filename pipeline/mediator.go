package pipeline

// Result is what a mediator returns on every pull: either a batch of units,
// possibly empty, or the end-of-stream marker.
type Result struct {
	Units       Units
	EndOfStream bool
}

// Data wraps units in a Result.
func Data(u Units) Result {
	return Result{Units: u}
}

// EndOfStream is the Result returned once a producer is exhausted and drained.
func EndOfStream() Result {
	return Result{EndOfStream: true}
}

// Mediator exposes a producer's staged output in one element type.
type Mediator interface {
	// Type returns the negotiated element type.
	Type() ElementType
	// Next drains everything the producer has staged. It returns the
	// end-of-stream Result only when nothing is staged and the producer is
	// exhausted; otherwise it returns data immediately, possibly empty.
	Next() Result
}

// readFunc is a producer's read entry point for one element type.
type readFunc func(t ElementType) Result

type mediator struct {
	typ  ElementType
	read readFunc
}

func (m *mediator) Type() ElementType { return m.typ }
func (m *mediator) Next() Result      { return m.read(m.typ) }

package pipeline

import "fmt"

// ElementType describes how staged bytes are reinterpreted for a consumer.
type ElementType int

const (
	// Byte is one raw byte per unit.
	Byte ElementType = iota + 1
	// Char is one byte per unit, widened to a rune in 0..255.
	Char
	// Short is two bytes per unit, big-endian.
	Short
)

// AllTypes lists every element type in the default advertising order.
var AllTypes = []ElementType{Byte, Char, Short}

// String returns the lower-case name of the element type.
func (t ElementType) String() string {
	switch t {
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Short:
		return "short"
	default:
		return fmt.Sprintf("element_type(%d)", int(t))
	}
}

// Width returns the number of raw bytes one unit of t occupies.
func (t ElementType) Width() int {
	switch t {
	case Byte, Char:
		return 1
	case Short:
		return 2
	default:
		return 0
	}
}

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	return t == Byte || t == Char || t == Short
}

// MarshalText encodes t by name, so run results read "byte" rather than 1.
func (t ElementType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid element type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (t *ElementType) UnmarshalText(b []byte) error {
	v, err := ParseElementType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseElementType parses the name produced by String.
func ParseElementType(s string) (ElementType, error) {
	for _, t := range AllTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown element type %q", s)
}

// Kind is the capability descriptor of a stage.
type Kind int

const (
	// KindSource reads from an external byte source and has no upstream.
	KindSource Kind = iota + 1
	// KindTransform consumes from upstream and produces for downstream.
	KindTransform
	// KindSink writes to an external byte sink and has no downstream.
	KindSink
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindTransform:
		return "transform"
	case KindSink:
		return "sink"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is the execution state of a stage.
type State int

const (
	// StateIdle means Execute has not been called yet.
	StateIdle State = iota
	// StateStreaming means the stage is moving data.
	StateStreaming
	// StateDraining means upstream is exhausted and staged output is being pushed out.
	StateDraining
	// StateDone means upstream is exhausted and nothing is left to push.
	StateDone
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

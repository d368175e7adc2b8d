package pipeline

import (
	"context"
	"io"
)

// Stage is one unit of work in a chain.
type Stage interface {
	// Name identifies the stage in logs and errors.
	Name() string
	// Kind returns the capability descriptor of the stage.
	Kind() Kind
	// State returns the current execution state.
	State() State
	// Execute performs one pull/drain cycle. For a source it runs the whole
	// input through the chain.
	Execute(ctx context.Context) error
}

// Producer is a stage with an output side.
type Producer interface {
	Stage
	// OutputTypes lists the element types the stage can hand out, in priority order.
	OutputTypes() []ElementType
	// Mediator returns an accessor to the stage's staged output in type t.
	Mediator(t ElementType) (Mediator, error)
	// SetConsumer sets the stage Execute pushes to.
	SetConsumer(c Stage) error
}

// Consumer is a stage with an input side.
type Consumer interface {
	Stage
	// InputTypes lists the element types the stage accepts, in priority order.
	InputTypes() []ElementType
	// SetMediator installs the accessor the stage reads through.
	SetMediator(m Mediator) error
}

// Transform is a stage in the middle of a chain.
type Transform interface {
	Producer
	Consumer
}

// Source is the head of a chain. It reads from an external byte source.
type Source interface {
	Producer
	SetInput(r io.Reader) error
}

// Sink is the tail of a chain. It writes to an external byte sink.
type Sink interface {
	Consumer
	SetOutput(w io.Writer) error
}

package pipeline

import (
	"context"
	"slices"

	"github.com/kbukum/bytepipe/buffer"
	"github.com/kbukum/bytepipe/errors"
)

// Outlet is the output side of a producer: its staging buffer, its
// end-of-stream state and the downstream stage it pushes to. Stage
// implementations embed one and expose it through the Producer methods.
type Outlet struct {
	owner     string
	types     []ElementType
	buf       *buffer.Buffer
	exhausted bool
	next      Stage
}

// NewOutlet creates an outlet for the stage named owner that advertises
// types in the given order.
func NewOutlet(owner string, capacity int, types ...ElementType) *Outlet {
	return &Outlet{
		owner: owner,
		types: types,
		buf:   buffer.New(capacity),
	}
}

// OutputTypes returns the advertised element types.
func (o *Outlet) OutputTypes() []ElementType {
	return slices.Clone(o.types)
}

// Mediator returns an accessor bound to this outlet's read entry point.
func (o *Outlet) Mediator(t ElementType) (Mediator, error) {
	if !slices.Contains(o.types, t) {
		return nil, errors.PipelineConstruction(
			o.owner + " cannot produce " + t.String()).
			WithDetails(map[string]any{"stage": o.owner, "element_type": t.String()})
	}
	return &mediator{typ: t, read: o.read}, nil
}

// SetConsumer sets the stage Drain pushes to.
func (o *Outlet) SetConsumer(c Stage) error {
	if c == nil {
		return errors.InvalidArgument("consumer").WithDetail("stage", o.owner)
	}
	o.next = c
	return nil
}

// Consumer returns the downstream stage, or nil before wiring.
func (o *Outlet) Consumer() Stage {
	return o.next
}

// Push stages p for the consumer.
func (o *Outlet) Push(p []byte) error {
	return o.buf.Append(p, len(p))
}

// Finish marks the producer as exhausted. Nothing may be pushed afterwards.
func (o *Outlet) Finish() {
	o.exhausted = true
}

// Exhausted reports whether Finish has been called.
func (o *Outlet) Exhausted() bool {
	return o.exhausted
}

// Pending reports whether staged bytes are waiting for the consumer.
func (o *Outlet) Pending() bool {
	return !o.buf.IsEmpty()
}

// Drain calls Execute on the consumer until nothing is staged. The first
// consumer failure is returned unchanged.
func (o *Outlet) Drain(ctx context.Context) error {
	for o.Pending() {
		if err := o.execNext(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close pushes out anything still staged, then calls the consumer once more
// so it observes end of stream. It must follow Finish.
func (o *Outlet) Close(ctx context.Context) error {
	if err := o.Drain(ctx); err != nil {
		return err
	}
	return o.execNext(ctx)
}

func (o *Outlet) execNext(ctx context.Context) error {
	if o.next == nil {
		return errors.PipelineConstruction(o.owner+" has no consumer").
			WithDetail("stage", o.owner)
	}
	return o.next.Execute(ctx)
}

// read is the producer's read entry point behind every mediator.
func (o *Outlet) read(t ElementType) Result {
	if o.buf.IsEmpty() && o.exhausted {
		return EndOfStream()
	}
	switch t {
	case Char:
		return Data(CharUnits(o.buf.ExtractChars()))
	case Short:
		return Data(ShortUnits(o.buf.ExtractShorts()))
	default:
		return Data(ByteUnits(o.buf.ExtractBytes()))
	}
}

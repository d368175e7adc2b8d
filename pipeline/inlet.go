package pipeline

import (
	"slices"

	"github.com/kbukum/bytepipe/errors"
)

// Inlet is the input side of a consumer: the element types it accepts and
// the mediator installed during wiring.
type Inlet struct {
	owner   string
	accepts []ElementType
	med     Mediator
}

// NewInlet creates an inlet for the stage named owner that accepts types in
// the given order.
func NewInlet(owner string, types ...ElementType) *Inlet {
	return &Inlet{owner: owner, accepts: types}
}

// InputTypes returns the accepted element types.
func (in *Inlet) InputTypes() []ElementType {
	return slices.Clone(in.accepts)
}

// SetMediator installs m. Its type must be one the inlet accepts.
func (in *Inlet) SetMediator(m Mediator) error {
	if m == nil {
		return errors.InvalidArgument("mediator").WithDetail("stage", in.owner)
	}
	if !slices.Contains(in.accepts, m.Type()) {
		return errors.PipelineConstruction(in.owner + " does not accept " + m.Type().String()).
			WithDetails(map[string]any{"stage": in.owner, "element_type": m.Type().String()})
	}
	in.med = m
	return nil
}

// Type returns the negotiated element type, or 0 before wiring.
func (in *Inlet) Type() ElementType {
	if in.med == nil {
		return 0
	}
	return in.med.Type()
}

// Next pulls from upstream and expands the batch into raw bytes. eos is
// true once upstream is exhausted and drained.
func (in *Inlet) Next() (data []byte, eos bool, err error) {
	if in.med == nil {
		return nil, false, errors.PipelineConstruction(in.owner+" has no upstream").
			WithDetail("stage", in.owner)
	}
	res := in.med.Next()
	if res.EndOfStream {
		return nil, true, nil
	}
	if res.Units == nil {
		return []byte{}, false, nil
	}
	return res.Units.Bytes(), false, nil
}

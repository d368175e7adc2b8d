package pipeline

import (
	"strings"

	"github.com/kbukum/bytepipe/errors"
)

// Negotiate selects the element type for one edge: the first type in the
// producer's order that the consumer also accepts. It fails with
// PIPELINE_CONSTRUCTION_ERROR when the lists share nothing.
func Negotiate(produces, accepts []ElementType) (ElementType, error) {
	for _, p := range produces {
		for _, a := range accepts {
			if p == a {
				return p, nil
			}
		}
	}
	return 0, errors.PipelineConstruction("no common element type").
		WithDetails(map[string]any{
			"produces": typeNames(produces),
			"accepts":  typeNames(accepts),
		})
}

// Connect negotiates the edge p → c and wires it: c reads through a
// mediator bound to p's output and p pushes to c.
func Connect(p Producer, c Consumer) (ElementType, error) {
	if p == nil || c == nil {
		return 0, errors.InvalidArgument("stage")
	}
	t, err := Negotiate(p.OutputTypes(), c.InputTypes())
	if err != nil {
		appErr := errors.Wrap(err)
		return 0, appErr.WithDetails(map[string]any{"producer": p.Name(), "consumer": c.Name()})
	}
	if err := wire(p, c, t); err != nil {
		return 0, err
	}
	return t, nil
}

// wire installs a mediator of type t on c and points p at c.
func wire(p Producer, c Consumer, t ElementType) error {
	m, err := p.Mediator(t)
	if err != nil {
		return err
	}
	if err := c.SetMediator(m); err != nil {
		return err
	}
	return p.SetConsumer(c)
}

func typeNames(types []ElementType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/logger"
)

// Edge is one negotiated producer → consumer link.
type Edge struct {
	From string      `json:"from"`
	To   string      `json:"to"`
	Type ElementType `json:"type"`
}

// Chain is a wired, runnable list of stages.
type Chain struct {
	stages []Stage
	edges  []Edge
	log    *logger.Logger
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	log *logger.Logger
}

// WithLogger sets the logger used for wiring and run diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(o *buildOptions) { o.log = l }
}

// Build wires stages into a chain, binding the head to src and the tail to
// dst. The first stage must be a Source, the last a Sink and every stage in
// between a Transform. All edges are negotiated before anything is wired, so
// a negotiation failure leaves the stages untouched.
func Build(stages []Stage, src io.Reader, dst io.Writer, opts ...Option) (*Chain, error) {
	o := &buildOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	log := o.log.WithComponent("chain")

	if len(stages) < 2 {
		return nil, errors.PipelineConstruction("a chain needs at least a source and a sink").
			WithDetail("stages", len(stages))
	}
	if src == nil {
		return nil, errors.InvalidArgument("source stream")
	}
	if dst == nil {
		return nil, errors.InvalidArgument("sink stream")
	}

	head, tail, err := checkRoles(stages)
	if err != nil {
		return nil, err
	}

	edges := make([]Edge, 0, len(stages)-1)
	for i := 0; i < len(stages)-1; i++ {
		p := stages[i].(Producer)
		c := stages[i+1].(Consumer)
		t, err := Negotiate(p.OutputTypes(), c.InputTypes())
		if err != nil {
			log.Error("Type negotiation failed", logger.Fields(
				"producer", p.Name(), "consumer", c.Name(), logger.FieldStageIndex, i,
			))
			return nil, errors.Wrap(err).WithDetails(map[string]any{
				"producer": p.Name(), "consumer": c.Name(), "edge": i,
			})
		}
		edges = append(edges, Edge{From: p.Name(), To: c.Name(), Type: t})
	}

	for i, e := range edges {
		if err := wire(stages[i].(Producer), stages[i+1].(Consumer), e.Type); err != nil {
			return nil, err
		}
		log.Debug("Edge wired", logger.Fields(
			"producer", e.From, "consumer", e.To, logger.FieldElementType, e.Type.String(),
		))
	}

	if err := head.SetInput(src); err != nil {
		return nil, err
	}
	if err := tail.SetOutput(dst); err != nil {
		return nil, err
	}

	return &Chain{stages: stages, edges: edges, log: log}, nil
}

// checkRoles verifies the kind and interfaces of every position.
func checkRoles(stages []Stage) (Source, Sink, error) {
	last := len(stages) - 1
	for i, s := range stages {
		if s == nil {
			return nil, nil, errors.PipelineConstruction(fmt.Sprintf("stage %d is nil", i)).
				WithDetail("index", i)
		}
		var want Kind
		var ok bool
		switch i {
		case 0:
			want = KindSource
			_, ok = s.(Source)
		case last:
			want = KindSink
			_, ok = s.(Sink)
		default:
			want = KindTransform
			_, ok = s.(Transform)
		}
		if s.Kind() != want || !ok {
			return nil, nil, errors.PipelineConstruction(
				fmt.Sprintf("stage %q at position %d must be a %s", s.Name(), i, want)).
				WithDetails(map[string]any{"stage": s.Name(), "index": i, "kind": s.Kind().String()})
		}
	}
	return stages[0].(Source), stages[last].(Sink), nil
}

// Stages returns the wired stages in order.
func (c *Chain) Stages() []Stage {
	return c.stages
}

// Edges returns the negotiated edges in order.
func (c *Chain) Edges() []Edge {
	return c.edges
}

// Run executes the chain from its source until the input is exhausted or
// the first failure. Output already written is not rolled back.
func (c *Chain) Run(ctx context.Context) error {
	log := c.log.WithContext(ctx)
	start := time.Now()
	log.Info("Pipeline run started", logger.Fields("stages", len(c.stages)))

	if err := c.stages[0].Execute(ctx); err != nil {
		log.Error("Pipeline run failed", logger.MergeWithError(
			logger.DurationFields("run", time.Since(start)), err))
		return err
	}

	log.Info("Pipeline run finished", logger.DurationFields("run", time.Since(start)))
	return nil
}

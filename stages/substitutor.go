package stages

import (
	"context"

	"github.com/kbukum/bytepipe/logger"
	"github.com/kbukum/bytepipe/pipeline"
	"github.com/kbukum/bytepipe/substitution"
)

// Substitutor is the transform stage. Each Execute pulls whatever upstream
// has staged, replaces every byte through its table and drains the result.
type Substitutor struct {
	*pipeline.Inlet
	*pipeline.Outlet
	pipeline.Tracker

	name  string
	table *substitution.Table
	deps  Deps
	log   *logger.Logger
}

var _ pipeline.Transform = (*Substitutor)(nil)

// NewSubstitutor creates a substitutor named name with the identity table.
func NewSubstitutor(name string, deps Deps) *Substitutor {
	deps = deps.withDefaults()
	return &Substitutor{
		Inlet:  pipeline.NewInlet(name, pipeline.AllTypes...),
		Outlet: pipeline.NewOutlet(name, 0, pipeline.AllTypes...),
		name:   name,
		table:  substitution.Identity(),
		deps:   deps,
		log:    deps.Log.WithComponent(name),
	}
}

func (s *Substitutor) Name() string        { return s.name }
func (s *Substitutor) Kind() pipeline.Kind { return pipeline.KindTransform }

// Table returns the substitution table in use.
func (s *Substitutor) Table() *substitution.Table { return s.table }

// SetTable replaces the substitution table.
func (s *Substitutor) SetTable(t *substitution.Table) {
	if t != nil {
		s.table = t
	}
}

// Configure loads table_file from a parameter file and reads the table it names.
func (s *Substitutor) Configure(path string) error {
	p, err := LoadTableParams(path)
	if err != nil {
		s.log.Error("Invalid substitutor parameters", logger.MergeWithError(logger.Fields(logger.FieldFile, path), err))
		return err
	}
	t, err := substitution.Load(p.TableFile)
	if err != nil {
		s.log.Error("Invalid substitution table", logger.MergeWithError(logger.Fields(logger.FieldFile, p.TableFile), err))
		return err
	}
	s.table = t
	s.log.Debug("Substitution table loaded", logger.Fields(logger.FieldFile, p.TableFile, "mapped", t.Changed()))
	return nil
}

// Execute performs one pull/drain cycle. On end of stream it pushes out
// whatever is still staged and passes end of stream on.
func (s *Substitutor) Execute(ctx context.Context) error {
	data, eos, err := s.Next()
	if err != nil {
		return err
	}

	if eos {
		s.Finish()
		s.Advance(pipeline.StateDraining)
		if err := s.Close(ctx); err != nil {
			return err
		}
		s.Advance(pipeline.StateDone)
		return nil
	}

	s.Advance(pipeline.StateStreaming)
	if len(data) == 0 {
		return nil
	}
	s.table.Apply(data)
	s.deps.Recorder.RecordBytes(ctx, s.name, len(data))
	if err := s.Push(data); err != nil {
		return err
	}
	return s.Drain(ctx)
}

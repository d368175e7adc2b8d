package manager

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/bytepipe/component"
	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/fileio"
	"github.com/kbukum/bytepipe/logger"
	"github.com/kbukum/bytepipe/observability"
	"github.com/kbukum/bytepipe/pipeline"
	"github.com/kbukum/bytepipe/stages"
)

// Manager builds and runs chains from configuration.
type Manager struct {
	registry *Registry
	metrics  *observability.Metrics
	log      *logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger passed to every stage and component.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMetrics sets the instruments runs and stages record to.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// New creates a manager resolving stages through reg.
func New(reg *Registry, opts ...Option) *Manager {
	m := &Manager{registry: reg}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = DefaultRegistry()
	}
	if m.log == nil {
		m.log = logger.Nop()
	}
	return m
}

// Registry returns the stage registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Result summarizes a finished run.
type Result struct {
	RunID    string          `json:"run_id"`
	Edges    []pipeline.Edge `json:"edges,omitempty"`
	BytesIn  int64           `json:"bytes_in"`
	BytesOut int64           `json:"bytes_out"`
	Digest   string          `json:"blake3,omitempty"`
	Duration time.Duration   `json:"duration"`
}

// Run executes one pipeline run: it creates and configures every stage,
// opens the input and output files, builds the chain and runs it. The files
// are closed whether the run succeeds or fails. cfg must be validated.
// The returned Result is non-nil even on failure.
func (m *Manager) Run(ctx context.Context, cfg *Config) (*Result, error) {
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	res := &Result{RunID: runID}

	ctx = logger.ContextWithRunID(ctx, runID)
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)
	observability.SetSpanAttribute(ctx, observability.AttrStageCount, len(cfg.Stages))

	log := m.log.WithContext(ctx).WithComponent("manager")
	start := time.Now()

	err := m.run(ctx, cfg, res)
	res.Duration = time.Since(start)
	m.finish(ctx, res, err, log)
	return res, err
}

func (m *Manager) run(ctx context.Context, cfg *Config, res *Result) error {
	chainStages, err := m.Assemble(ctx, cfg.Stages)
	if err != nil {
		return err
	}

	comps := component.NewRegistry(m.log)
	in := fileio.NewInputFile(cfg.InputFile, m.log)
	out := fileio.NewOutputFile(cfg.OutputFile, m.log)
	if err := comps.Register(in); err != nil {
		return errors.Wrap(err)
	}
	if err := comps.Register(out); err != nil {
		return errors.Wrap(err)
	}

	runErr := comps.StartAll(ctx)
	if runErr == nil {
		runErr = m.execute(ctx, chainStages, in, out, res)
	}

	stopErr := comps.StopAll(ctx)
	res.BytesIn = in.BytesRead()
	res.BytesOut = out.BytesWritten()
	res.Digest = out.Digest()

	if runErr != nil {
		return runErr
	}
	if stopErr != nil {
		return errors.Wrap(stopErr)
	}
	return nil
}

func (m *Manager) execute(ctx context.Context, chainStages []pipeline.Stage, in *fileio.InputFile, out *fileio.OutputFile, res *Result) error {
	buildCtx, span := observability.StartSpan(ctx, observability.SpanPipelineBuild)
	chain, err := pipeline.Build(chainStages, in.Reader(), out.Writer(), pipeline.WithLogger(m.log))
	observability.SetSpanError(buildCtx, err)
	span.End()
	if err != nil {
		return err
	}
	res.Edges = chain.Edges()
	return chain.Run(ctx)
}

// Assemble creates every stage through the registry and configures it from
// its parameter file. Stage instances are named after their type; repeated
// types get a "#n" suffix.
func (m *Manager) Assemble(ctx context.Context, specs []StageSpec) ([]pipeline.Stage, error) {
	deps := stages.Deps{Log: m.log}
	if m.metrics != nil {
		deps.Recorder = m.metrics
	}

	seen := make(map[string]int, len(specs))
	out := make([]pipeline.Stage, 0, len(specs))
	for i, spec := range specs {
		entry, err := m.registry.Lookup(spec.Name)
		if err != nil {
			return nil, errors.Wrap(err).WithDetail("index", i)
		}
		seen[entry.Name]++
		instance := entry.Name
		if n := seen[entry.Name]; n > 1 {
			instance = instance + "#" + strconv.Itoa(n)
		}

		s, err := m.registry.Create(spec.Name, instance, deps)
		if err != nil {
			return nil, errors.Wrap(err).WithDetail("index", i)
		}
		if err := m.configure(ctx, s, spec.Config); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *Manager) configure(ctx context.Context, s pipeline.Stage, path string) error {
	c, ok := s.(stages.Configurable)
	if !ok {
		return nil
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanStageConfigure)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrStage, s.Name())

	if err := c.Configure(path); err != nil {
		observability.SetSpanError(ctx, err)
		return errors.Wrap(err).WithDetail("stage", s.Name())
	}
	return nil
}

func (m *Manager) finish(ctx context.Context, res *Result, err error, log *logger.Logger) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	if m.metrics != nil {
		m.metrics.RecordRun(ctx, status, res.Duration)
		if err != nil {
			m.metrics.RecordError(ctx, string(errors.CodeOf(err)))
		}
	}

	observability.SetSpanAttribute(ctx, observability.AttrStatus, status)
	observability.SetSpanAttribute(ctx, observability.AttrBytesIn, res.BytesIn)
	observability.SetSpanAttribute(ctx, observability.AttrBytesOut, res.BytesOut)
	if res.Digest != "" {
		observability.SetSpanAttribute(ctx, observability.AttrDigest, res.Digest)
	}

	fields := logger.Fields(
		logger.FieldStatus, status,
		"bytes_in", res.BytesIn,
		"bytes_out", res.BytesOut,
		logger.FieldDuration, res.Duration.Milliseconds(),
	)
	if err != nil {
		observability.SetSpanError(ctx, err)
		fields[logger.FieldError] = err.Error()
		fields["code"] = string(errors.CodeOf(err))
		log.Error("Run failed", fields)
		return
	}
	fields["blake3"] = res.Digest
	log.Info("Run complete", fields)
}

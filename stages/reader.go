package stages

import (
	"context"
	"io"

	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/fileio"
	"github.com/kbukum/bytepipe/logger"
	"github.com/kbukum/bytepipe/pipeline"
)

// FileReader is the source stage. Each Execute reads the whole bound input
// in BufferSize reads and drains every read through the chain.
type FileReader struct {
	*pipeline.Outlet
	pipeline.Tracker

	name   string
	params ChunkParams
	in     io.Reader
	deps   Deps
	log    *logger.Logger
}

var _ pipeline.Source = (*FileReader)(nil)

// NewFileReader creates a reader named name. It must be configured before it runs.
func NewFileReader(name string, deps Deps) *FileReader {
	deps = deps.withDefaults()
	return &FileReader{
		Outlet: pipeline.NewOutlet(name, 0, pipeline.AllTypes...),
		name:   name,
		deps:   deps,
		log:    deps.Log.WithComponent(name),
	}
}

func (r *FileReader) Name() string        { return r.name }
func (r *FileReader) Kind() pipeline.Kind { return pipeline.KindSource }

// Params returns the loaded parameters.
func (r *FileReader) Params() ChunkParams { return r.params }

// Configure loads buffer_size and compression from a parameter file.
func (r *FileReader) Configure(path string) error {
	p, err := LoadChunkParams(path)
	if err != nil {
		r.log.Error("Invalid reader parameters", logger.MergeWithError(logger.Fields(logger.FieldFile, path), err))
		return err
	}
	r.SetParams(p)
	return nil
}

// SetParams sets the parameters directly.
func (r *FileReader) SetParams(p ChunkParams) {
	r.params = p
}

// SetInput binds the byte source.
func (r *FileReader) SetInput(in io.Reader) error {
	if in == nil {
		return errors.InvalidArgument("input stream").WithDetail("stage", r.name)
	}
	r.in = in
	return nil
}

// Execute runs the input through the chain. Cancellation is checked between
// reads; output already drained stays written.
func (r *FileReader) Execute(ctx context.Context) error {
	if r.in == nil {
		return errors.InvalidStream(r.name, "input")
	}
	if r.params.BufferSize <= 0 {
		return errors.PipelineConstruction(r.name+" is not configured").WithDetail("stage", r.name)
	}

	src, err := fileio.NewReader(r.params.codec(), r.in)
	if err != nil {
		return errors.IORead(r.name, err)
	}
	defer src.Close()

	r.Advance(pipeline.StateStreaming)
	log := r.log.WithContext(ctx)
	log.Debug("Reading input", logger.Fields(KeyBufferSize, r.params.BufferSize, KeyCompression, r.params.Compression))

	buf := make([]byte, r.params.BufferSize)
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return errors.Canceled(err).WithDetail("stage", r.name)
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			total += n
			r.deps.Recorder.RecordBytes(ctx, r.name, n)
			if err := r.Push(buf[:n]); err != nil {
				return err
			}
			if err := r.Drain(ctx); err != nil {
				return err
			}
		}
		if readErr == io.EOF || (n == 0 && readErr == nil) {
			break
		}
		if readErr != nil {
			return errors.IORead(r.name, readErr)
		}
	}

	r.Finish()
	r.Advance(pipeline.StateDraining)
	if err := r.Close(ctx); err != nil {
		return err
	}
	r.Advance(pipeline.StateDone)
	log.Debug("Input exhausted", logger.Fields(logger.FieldBytes, total))
	return nil
}

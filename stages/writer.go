package stages

import (
	"context"
	"io"

	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/fileio"
	"github.com/kbukum/bytepipe/logger"
	"github.com/kbukum/bytepipe/pipeline"
)

// FileWriter is the sink stage. Each Execute pulls whatever upstream has
// staged and writes it to the bound output in BufferSize chunks.
type FileWriter struct {
	*pipeline.Inlet
	pipeline.Tracker

	name    string
	params  ChunkParams
	out     io.Writer
	enc     io.WriteCloser
	written int
	deps    Deps
	log     *logger.Logger
}

var _ pipeline.Sink = (*FileWriter)(nil)

// NewFileWriter creates a writer named name. It must be configured before it runs.
func NewFileWriter(name string, deps Deps) *FileWriter {
	deps = deps.withDefaults()
	return &FileWriter{
		Inlet: pipeline.NewInlet(name, pipeline.AllTypes...),
		name:  name,
		deps:  deps,
		log:   deps.Log.WithComponent(name),
	}
}

func (w *FileWriter) Name() string        { return w.name }
func (w *FileWriter) Kind() pipeline.Kind { return pipeline.KindSink }

// Params returns the loaded parameters.
func (w *FileWriter) Params() ChunkParams { return w.params }

// Written returns the number of bytes handed to the output, before compression.
func (w *FileWriter) Written() int { return w.written }

// Configure loads buffer_size and compression from a parameter file.
func (w *FileWriter) Configure(path string) error {
	p, err := LoadChunkParams(path)
	if err != nil {
		w.log.Error("Invalid writer parameters", logger.MergeWithError(logger.Fields(logger.FieldFile, path), err))
		return err
	}
	w.SetParams(p)
	return nil
}

// SetParams sets the parameters directly.
func (w *FileWriter) SetParams(p ChunkParams) {
	w.params = p
}

// SetOutput binds the byte sink.
func (w *FileWriter) SetOutput(out io.Writer) error {
	if out == nil {
		return errors.InvalidArgument("output stream").WithDetail("stage", w.name)
	}
	w.out = out
	w.enc = nil
	return nil
}

// Execute performs one pull/write cycle. An empty pull writes nothing; end
// of stream flushes the output codec.
func (w *FileWriter) Execute(ctx context.Context) error {
	if w.out == nil {
		return errors.InvalidStream(w.name, "output")
	}
	if w.params.BufferSize <= 0 {
		return errors.PipelineConstruction(w.name+" is not configured").WithDetail("stage", w.name)
	}

	data, eos, err := w.Next()
	if err != nil {
		return err
	}
	if eos {
		return w.finish(ctx)
	}

	w.Advance(pipeline.StateStreaming)
	if len(data) == 0 {
		return nil
	}
	enc, err := w.encoder()
	if err != nil {
		return err
	}

	for off := 0; off < len(data); off += w.params.BufferSize {
		end := min(off+w.params.BufferSize, len(data))
		n, err := enc.Write(data[off:end])
		if err == nil && n < end-off {
			err = io.ErrShortWrite
		}
		if err != nil {
			return errors.IOWrite(w.name, err)
		}
		w.written += n
	}
	w.deps.Recorder.RecordBytes(ctx, w.name, len(data))
	return nil
}

func (w *FileWriter) encoder() (io.WriteCloser, error) {
	if w.enc != nil {
		return w.enc, nil
	}
	enc, err := fileio.NewWriter(w.params.codec(), w.out)
	if err != nil {
		return nil, errors.IOWrite(w.name, err)
	}
	w.enc = enc
	return enc, nil
}

func (w *FileWriter) finish(ctx context.Context) error {
	if w.Done() {
		return nil
	}
	w.Advance(pipeline.StateDraining)
	enc, err := w.encoder()
	if err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return errors.IOWrite(w.name, err)
	}
	w.Advance(pipeline.StateDone)
	w.log.WithContext(ctx).Debug("Output complete", logger.Fields(logger.FieldBytes, w.written))
	return nil
}

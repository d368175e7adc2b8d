package fileio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/kbukum/bytepipe/component"
	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/logger"
)

// InputFile opens a file for reading as a lifecycle component.
type InputFile struct {
	path string
	f    *os.File
	read atomic.Int64
	log  *logger.Logger
}

// ensure InputFile satisfies component.Component.
var _ component.Component = (*InputFile)(nil)

// NewInputFile creates an input file component for path.
func NewInputFile(path string, log *logger.Logger) *InputFile {
	if log == nil {
		log = logger.Nop()
	}
	return &InputFile{path: path, log: log.WithComponent("input_file")}
}

// Name returns the component name.
func (in *InputFile) Name() string { return "input_file" }

// Path returns the file path.
func (in *InputFile) Path() string { return in.path }

// Start opens the file.
func (in *InputFile) Start(_ context.Context) error {
	f, err := os.Open(in.path)
	if err != nil {
		return errors.New(errors.ErrCodeIORead, "cannot open input file").
			WithDetail("file", in.path).WithCause(err)
	}
	in.f = f
	in.log.Debug("Input file opened", logger.Fields(logger.FieldFile, in.path))
	return nil
}

// Stop closes the file.
func (in *InputFile) Stop(_ context.Context) error {
	if in.f == nil {
		return nil
	}
	err := in.f.Close()
	in.f = nil
	in.log.Debug("Input file closed", logger.Fields(logger.FieldFile, in.path, logger.FieldBytes, in.read.Load()))
	return err
}

// Health reports whether the file is open.
func (in *InputFile) Health(_ context.Context) component.Health {
	if in.f == nil {
		return component.Health{Name: in.Name(), Status: component.StatusUnhealthy, Message: "not open"}
	}
	return component.Health{Name: in.Name(), Status: component.StatusHealthy}
}

// Describe returns summary information for the run report.
func (in *InputFile) Describe() component.Description {
	return component.Description{Name: "Input", Type: "file", Details: in.path}
}

// Reader returns the open file, or nil before Start.
func (in *InputFile) Reader() io.Reader {
	if in.f == nil {
		return nil
	}
	return &countingReader{r: in.f, n: &in.read}
}

// BytesRead returns the number of bytes read so far.
func (in *InputFile) BytesRead() int64 {
	return in.read.Load()
}

func (in *InputFile) String() string {
	return fmt.Sprintf("input_file(%s)", in.path)
}

type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

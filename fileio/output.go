package fileio

import (
	"context"
	"encoding/hex"
	"io"
	"os"
	"sync/atomic"

	"github.com/zeebo/blake3"

	"github.com/kbukum/bytepipe/component"
	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/logger"
)

// OutputFile creates a file for writing as a lifecycle component and hashes
// everything written to it.
type OutputFile struct {
	path    string
	f       *os.File
	hasher  *blake3.Hasher
	w       io.Writer
	written atomic.Int64
	digest  string
	log     *logger.Logger
}

// ensure OutputFile satisfies component.Component.
var _ component.Component = (*OutputFile)(nil)

// NewOutputFile creates an output file component for path.
func NewOutputFile(path string, log *logger.Logger) *OutputFile {
	if log == nil {
		log = logger.Nop()
	}
	return &OutputFile{path: path, log: log.WithComponent("output_file")}
}

// Name returns the component name.
func (out *OutputFile) Name() string { return "output_file" }

// Path returns the file path.
func (out *OutputFile) Path() string { return out.path }

// Start creates or truncates the file.
func (out *OutputFile) Start(_ context.Context) error {
	f, err := os.Create(out.path)
	if err != nil {
		return errors.New(errors.ErrCodeIOWrite, "cannot create output file").
			WithDetail("file", out.path).WithCause(err)
	}
	out.f = f
	out.hasher = blake3.New()
	out.w = io.MultiWriter(f, out.hasher)
	out.digest = ""
	out.log.Debug("Output file created", logger.Fields(logger.FieldFile, out.path))
	return nil
}

// Stop syncs and closes the file and records its digest.
func (out *OutputFile) Stop(_ context.Context) error {
	if out.f == nil {
		return nil
	}
	syncErr := out.f.Sync()
	closeErr := out.f.Close()
	out.digest = hex.EncodeToString(out.hasher.Sum(nil))
	out.f = nil
	out.w = nil

	out.log.Debug("Output file closed", logger.Fields(
		logger.FieldFile, out.path, logger.FieldBytes, out.written.Load(), "blake3", out.digest,
	))
	if closeErr != nil {
		return errors.IOWrite(out.Name(), closeErr).WithDetail("file", out.path)
	}
	if syncErr != nil {
		return errors.IOWrite(out.Name(), syncErr).WithDetail("file", out.path)
	}
	return nil
}

// Health reports whether the file is open.
func (out *OutputFile) Health(_ context.Context) component.Health {
	if out.f == nil {
		return component.Health{Name: out.Name(), Status: component.StatusUnhealthy, Message: "not open"}
	}
	return component.Health{Name: out.Name(), Status: component.StatusHealthy}
}

// Describe returns summary information for the run report.
func (out *OutputFile) Describe() component.Description {
	return component.Description{Name: "Output", Type: "file", Details: out.path}
}

// Writer returns the open file, or nil before Start.
func (out *OutputFile) Writer() io.Writer {
	if out.w == nil {
		return nil
	}
	return writerFunc(func(p []byte) (int, error) {
		n, err := out.w.Write(p)
		out.written.Add(int64(n))
		return n, err
	})
}

// BytesWritten returns the number of bytes written so far.
func (out *OutputFile) BytesWritten() int64 {
	return out.written.Load()
}

// Digest returns the hex BLAKE3 digest of the file content, available after Stop.
func (out *OutputFile) Digest() string {
	return out.digest
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

package stages

import (
	"context"

	"github.com/kbukum/bytepipe/logger"
)

// Default stage names.
const (
	ReaderName      = "reader"
	SubstitutorName = "substitutor"
	WriterName      = "writer"
)

// Configurable is implemented by stages that load parameters from a file.
type Configurable interface {
	Configure(path string) error
}

// Recorder receives per-stage byte counts.
type Recorder interface {
	RecordBytes(ctx context.Context, stage string, n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordBytes(context.Context, string, int) {}

// Deps are the collaborators passed to every stage constructor.
type Deps struct {
	Log      *logger.Logger
	Recorder Recorder
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	return d
}

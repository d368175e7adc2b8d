package pipeline

import (
	"bytes"
	"context"
	"io"

	"github.com/kbukum/bytepipe/errors"
)

type fakeSource struct {
	*Outlet
	Tracker
	name  string
	chunk int
	in    io.Reader
}

func newFakeSource(name string, chunk int, types ...ElementType) *fakeSource {
	return &fakeSource{Outlet: NewOutlet(name, chunk, types...), name: name, chunk: chunk}
}

func (s *fakeSource) Name() string { return s.name }
func (s *fakeSource) Kind() Kind   { return KindSource }

func (s *fakeSource) SetInput(r io.Reader) error {
	s.in = r
	return nil
}

func (s *fakeSource) Execute(ctx context.Context) error {
	if s.in == nil {
		return errors.InvalidStream(s.name, "input")
	}
	s.Advance(StateStreaming)
	buf := make([]byte, s.chunk)
	for {
		n, err := s.in.Read(buf)
		if n > 0 {
			if pushErr := s.Push(buf[:n]); pushErr != nil {
				return pushErr
			}
			if drainErr := s.Drain(ctx); drainErr != nil {
				return drainErr
			}
		}
		if err == io.EOF || (n == 0 && err == nil) {
			break
		}
		if err != nil {
			return errors.IORead(s.name, err)
		}
	}
	s.Finish()
	s.Advance(StateDraining)
	if err := s.Close(ctx); err != nil {
		return err
	}
	s.Advance(StateDone)
	return nil
}

type fakeTransform struct {
	*Inlet
	*Outlet
	Tracker
	name string
	fn   func([]byte) []byte
}

func newFakeTransform(name string, in, out []ElementType, fn func([]byte) []byte) *fakeTransform {
	return &fakeTransform{
		Inlet:  NewInlet(name, in...),
		Outlet: NewOutlet(name, 16, out...),
		name:   name,
		fn:     fn,
	}
}

func (t *fakeTransform) Name() string { return t.name }
func (t *fakeTransform) Kind() Kind   { return KindTransform }

func (t *fakeTransform) Execute(ctx context.Context) error {
	data, eos, err := t.Next()
	if err != nil {
		return err
	}
	if eos {
		t.Finish()
		t.Advance(StateDraining)
		if err := t.Close(ctx); err != nil {
			return err
		}
		t.Advance(StateDone)
		return nil
	}
	t.Advance(StateStreaming)
	if t.fn != nil {
		data = t.fn(data)
	}
	if err := t.Push(data); err != nil {
		return err
	}
	return t.Drain(ctx)
}

type fakeSink struct {
	*Inlet
	Tracker
	name    string
	out     io.Writer
	calls   int
	eosSeen int
	failOn  int
}

func newFakeSink(name string, types ...ElementType) *fakeSink {
	return &fakeSink{Inlet: NewInlet(name, types...), name: name}
}

func (s *fakeSink) Name() string { return s.name }
func (s *fakeSink) Kind() Kind   { return KindSink }

func (s *fakeSink) SetOutput(w io.Writer) error {
	s.out = w
	return nil
}

func (s *fakeSink) Execute(context.Context) error {
	s.calls++
	if s.failOn > 0 && s.calls == s.failOn {
		return errors.IOWrite(s.name, io.ErrShortWrite)
	}
	data, eos, err := s.Next()
	if err != nil {
		return err
	}
	if eos {
		s.eosSeen++
		s.Advance(StateDone)
		return nil
	}
	s.Advance(StateStreaming)
	_, err = s.out.Write(data)
	return err
}

// mislabeled reports a kind that does not match its interfaces.
type mislabeled struct {
	*fakeSink
	kind Kind
}

func (m *mislabeled) Kind() Kind { return m.kind }

func upper(p []byte) []byte {
	return bytes.ToUpper(p)
}

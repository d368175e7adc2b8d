package stages

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/fileio"
	"github.com/kbukum/bytepipe/pipeline"
	"github.com/kbukum/bytepipe/substitution"
)

// chunkRecorder records the size of every Write.
type chunkRecorder struct {
	bytes.Buffer
	sizes []int
}

func (c *chunkRecorder) Write(p []byte) (int, error) {
	c.sizes = append(c.sizes, len(p))
	return c.Buffer.Write(p)
}

// failingWriter accepts limit writes and fails afterwards.
type failingWriter struct {
	bytes.Buffer
	limit int
	calls int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	if f.calls > f.limit {
		return 0, fmt.Errorf("disk full")
	}
	return f.Buffer.Write(p)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("device error") }

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingRecorder) RecordBytes(_ context.Context, stage string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	c.counts[stage] += n
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newChain(t *testing.T, readSize, writeSize int, table *substitution.Table, deps Deps) (*FileReader, *Substitutor, *FileWriter) {
	t.Helper()
	r := NewFileReader(ReaderName, deps)
	r.SetParams(ChunkParams{BufferSize: readSize})
	s := NewSubstitutor(SubstitutorName, deps)
	s.SetTable(table)
	w := NewFileWriter(WriterName, deps)
	w.SetParams(ChunkParams{BufferSize: writeSize})
	return r, s, w
}

func TestEndToEndIdentityChunks(t *testing.T) {
	input := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	r, s, w := newChain(t, 4, 3, substitution.Identity(), Deps{})

	out := &chunkRecorder{}
	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, bytes.NewReader(input), out)
	require.NoError(t, err)
	require.NoError(t, chain.Run(context.Background()))

	assert.Equal(t, input, out.Bytes())
	assert.Equal(t, []int{3, 1, 3, 1, 2}, out.sizes)
	assert.Equal(t, 10, w.Written())
	for _, st := range chain.Stages() {
		assert.Equal(t, pipeline.StateDone, st.State(), st.Name())
	}
	for _, e := range chain.Edges() {
		assert.Equal(t, pipeline.Byte, e.Type)
	}
}

func TestEndToEndSubstitution(t *testing.T) {
	table := substitution.Identity()
	table.Set(0x41, 0x5A)
	r, s, w := newChain(t, 4, 4, table, Deps{})

	var out bytes.Buffer
	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, bytes.NewReader([]byte{0x41, 0x42}), &out)
	require.NoError(t, err)
	require.NoError(t, chain.Run(context.Background()))
	assert.Equal(t, []byte{0x5A, 0x42}, out.Bytes())
}

func TestEndToEndTwoSubstitutorsInvolution(t *testing.T) {
	table, err := substitution.Parse(bytes.NewBufferString("0x61->0x62\n0x62->0x61\n"), "swap")
	require.NoError(t, err)

	r, s1, w := newChain(t, 3, 5, table, Deps{})
	s2 := NewSubstitutor("substitutor-2", Deps{})
	s2.SetTable(table)

	input := []byte("abcabba")
	var out bytes.Buffer
	chain, err := pipeline.Build([]pipeline.Stage{r, s1, s2, w}, bytes.NewReader(input), &out)
	require.NoError(t, err)
	require.NoError(t, chain.Run(context.Background()))
	assert.Equal(t, input, out.Bytes())
}

func TestEndToEndEmptyInput(t *testing.T) {
	r, s, w := newChain(t, 4, 4, substitution.Identity(), Deps{})
	out := &chunkRecorder{}
	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, bytes.NewReader(nil), out)
	require.NoError(t, err)
	require.NoError(t, chain.Run(context.Background()))
	assert.Empty(t, out.sizes)
	assert.Equal(t, pipeline.StateDone, w.State())
}

func TestEndToEndCompression(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), 100)

	var compressed bytes.Buffer
	zw, err := fileio.NewWriter(fileio.CodecZstd, &compressed)
	require.NoError(t, err)
	_, err = zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	r, s, w := newChain(t, 64, 32, substitution.Identity(), Deps{})
	r.SetParams(ChunkParams{BufferSize: 64, Compression: "zstd"})
	w.SetParams(ChunkParams{BufferSize: 32, Compression: "gzip"})

	var out bytes.Buffer
	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, &compressed, &out)
	require.NoError(t, err)
	require.NoError(t, chain.Run(context.Background()))

	gr, err := fileio.NewReader(fileio.CodecGzip, &out)
	require.NoError(t, err)
	got, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRecorderCountsEveryStage(t *testing.T) {
	rec := &countingRecorder{}
	r, s, w := newChain(t, 2, 2, substitution.Identity(), Deps{Recorder: rec})

	var out bytes.Buffer
	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, bytes.NewReader([]byte("hello")), &out)
	require.NoError(t, err)
	require.NoError(t, chain.Run(context.Background()))

	assert.Equal(t, map[string]int{ReaderName: 5, SubstitutorName: 5, WriterName: 5}, rec.counts)
}

func TestWriterFailurePropagates(t *testing.T) {
	r, s, w := newChain(t, 2, 2, substitution.Identity(), Deps{})
	out := &failingWriter{limit: 1}

	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, bytes.NewReader([]byte("abcdef")), out)
	require.NoError(t, err)

	err = chain.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIOWrite, errors.CodeOf(err))
	assert.Equal(t, "ab", out.String())
	assert.NotEqual(t, pipeline.StateDone, r.State())
}

func TestReaderFailurePropagates(t *testing.T) {
	r, s, w := newChain(t, 2, 2, substitution.Identity(), Deps{})
	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, failingReader{}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, errors.ErrCodeIORead, errors.CodeOf(chain.Run(context.Background())))
}

func TestReaderCanceled(t *testing.T) {
	r, s, w := newChain(t, 2, 2, substitution.Identity(), Deps{})
	var out bytes.Buffer
	chain, err := pipeline.Build([]pipeline.Stage{r, s, w}, bytes.NewReader([]byte("abcdef")), &out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = chain.Run(ctx)
	assert.Equal(t, errors.ErrCodeCanceled, errors.CodeOf(err))
	assert.Zero(t, out.Len())
}

func TestUnboundStreams(t *testing.T) {
	r := NewFileReader(ReaderName, Deps{})
	r.SetParams(ChunkParams{BufferSize: 4})
	assert.Equal(t, errors.ErrCodeInvalidStream, errors.CodeOf(r.Execute(context.Background())))
	assert.Equal(t, errors.ErrCodeInvalidArgument, errors.CodeOf(r.SetInput(nil)))

	w := NewFileWriter(WriterName, Deps{})
	w.SetParams(ChunkParams{BufferSize: 4})
	assert.Equal(t, errors.ErrCodeInvalidStream, errors.CodeOf(w.Execute(context.Background())))
	assert.Equal(t, errors.ErrCodeInvalidArgument, errors.CodeOf(w.SetOutput(nil)))
}

func TestSubstitutorWithoutUpstream(t *testing.T) {
	s := NewSubstitutor(SubstitutorName, Deps{})
	err := s.Execute(context.Background())
	assert.Equal(t, errors.ErrCodePipelineConstruction, errors.CodeOf(err))
}

func TestStageKinds(t *testing.T) {
	assert.Equal(t, pipeline.KindSource, NewFileReader("r", Deps{}).Kind())
	assert.Equal(t, pipeline.KindTransform, NewSubstitutor("s", Deps{}).Kind())
	assert.Equal(t, pipeline.KindSink, NewFileWriter("w", Deps{}).Kind())
	assert.Equal(t, pipeline.AllTypes, NewFileReader("r", Deps{}).OutputTypes())
	assert.Equal(t, pipeline.AllTypes, NewFileWriter("w", Deps{}).InputTypes())
}

func TestConfigureChunkParams(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    ChunkParams
		code    errors.ErrorCode
	}{
		{"valid", "buffer_size = 4\n", ChunkParams{BufferSize: 4, Compression: "none"}, ""},
		{"with compression", "buffer_size=8\ncompression = lz4\n", ChunkParams{BufferSize: 8, Compression: "lz4"}, ""},
		{"zero size", "buffer_size = 0\n", ChunkParams{}, errors.ErrCodeConfigSemantic},
		{"negative size", "buffer_size = -1\n", ChunkParams{}, errors.ErrCodeConfigSemantic},
		{"not a number", "buffer_size = four\n", ChunkParams{}, errors.ErrCodeConfigSemantic},
		{"missing size", "compression = gzip\n", ChunkParams{}, errors.ErrCodeConfigSemantic},
		{"bad codec", "buffer_size = 4\ncompression = bzip2\n", ChunkParams{}, errors.ErrCodeConfigSemantic},
		{"unknown key", "buffer = 4\n", ChunkParams{}, errors.ErrCodeConfigGrammar},
		{"duplicate key", "buffer_size = 4\nbuffer_size = 5\n", ChunkParams{}, errors.ErrCodeConfigGrammar},
		{"malformed", "buffer_size 4\n", ChunkParams{}, errors.ErrCodeConfigGrammar},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, dir, fmt.Sprintf("reader-%d.cfg", i), tc.content)

			r := NewFileReader(ReaderName, Deps{})
			err := r.Configure(path)
			if tc.code != "" {
				assert.Equal(t, tc.code, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.Params())

			w := NewFileWriter(WriterName, Deps{})
			require.NoError(t, w.Configure(path))
			assert.Equal(t, tc.want, w.Params())
		})
	}
}

func TestConfigureMissingParamFile(t *testing.T) {
	r := NewFileReader(ReaderName, Deps{})
	err := r.Configure(filepath.Join(t.TempDir(), "absent.cfg"))
	assert.Equal(t, errors.ErrCodeIORead, errors.CodeOf(err))
}

func TestConfigureSubstitutor(t *testing.T) {
	dir := t.TempDir()
	tablePath := writeFile(t, dir, "table.txt", "0x41->0x5A\n")
	cfg := writeFile(t, dir, "sub.cfg", "table_file = "+tablePath+"\n")

	s := NewSubstitutor(SubstitutorName, Deps{})
	require.NoError(t, s.Configure(cfg))
	assert.Equal(t, byte(0x5A), s.Table().Substitute(0x41))
}

func TestConfigureSubstitutorErrors(t *testing.T) {
	dir := t.TempDir()
	badTable := writeFile(t, dir, "bad.txt", "0xGG->0x01\n")

	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{"missing table file", "table_file = " + filepath.Join(dir, "nope.txt") + "\n", errors.ErrCodeConfigSemantic},
		{"empty table file", "table_file =\n", errors.ErrCodeConfigSemantic},
		{"bad table literal", "table_file = " + badTable + "\n", errors.ErrCodeConfigSemantic},
		{"unknown key", "table = x\n", errors.ErrCodeConfigGrammar},
	}
	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := writeFile(t, dir, fmt.Sprintf("sub-%d.cfg", i), tc.content)
			err := NewSubstitutor(SubstitutorName, Deps{}).Configure(cfg)
			assert.Equal(t, tc.code, errors.CodeOf(err))
		})
	}
}

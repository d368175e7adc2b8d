package fileio

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/kbukum/bytepipe/component"
	"github.com/kbukum/bytepipe/errors"
	"github.com/kbukum/bytepipe/logger"
)

func TestParseCodec(t *testing.T) {
	for _, name := range Codecs {
		c, err := ParseCodec(name)
		require.NoError(t, err)
		assert.Equal(t, Codec(name), c)
	}
	c, err := ParseCodec("")
	require.NoError(t, err)
	assert.Equal(t, CodecNone, c)

	_, err = ParseCodec("bzip2")
	assert.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("bytepipe substitution "), 64)
	for _, name := range Codecs {
		t.Run(name, func(t *testing.T) {
			var compressed bytes.Buffer
			w, err := NewWriter(Codec(name), &compressed)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := NewReader(Codec(name), &compressed)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, payload, got)
		})
	}
}

func TestNewReaderRejectsGarbageGzip(t *testing.T) {
	_, err := NewReader(CodecGzip, bytes.NewReader([]byte("not gzip")))
	assert.Error(t, err)
}

func TestInputFileLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	in := NewInputFile(path, logger.Nop())
	assert.Nil(t, in.Reader())
	assert.Equal(t, component.StatusUnhealthy, in.Health(context.Background()).Status)

	require.NoError(t, in.Start(context.Background()))
	assert.Equal(t, component.StatusHealthy, in.Health(context.Background()).Status)

	got, err := io.ReadAll(in.Reader())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, int64(5), in.BytesRead())

	require.NoError(t, in.Stop(context.Background()))
	require.NoError(t, in.Stop(context.Background()))
	assert.Nil(t, in.Reader())
}

func TestInputFileMissing(t *testing.T) {
	in := NewInputFile(filepath.Join(t.TempDir(), "missing.bin"), nil)
	err := in.Start(context.Background())
	assert.Equal(t, errors.ErrCodeIORead, errors.CodeOf(err))
}

func TestOutputFileDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	out := NewOutputFile(path, logger.Nop())
	assert.Nil(t, out.Writer())

	require.NoError(t, out.Start(context.Background()))
	w := out.Writer()
	_, err := w.Write([]byte("ab"))
	require.NoError(t, err)
	_, err = w.Write([]byte("c"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.BytesWritten())
	require.NoError(t, out.Stop(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	sum := blake3.Sum256([]byte("abc"))
	assert.Equal(t, hex.EncodeToString(sum[:]), out.Digest())
}

func TestOutputFileUncreatable(t *testing.T) {
	out := NewOutputFile(filepath.Join(t.TempDir(), "no", "such", "dir", "out.bin"), nil)
	err := out.Start(context.Background())
	assert.Equal(t, errors.ErrCodeIOWrite, errors.CodeOf(err))
	assert.NoError(t, out.Stop(context.Background()))
}

func TestFilesInRegistry(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.bin")
	require.NoError(t, os.WriteFile(inPath, []byte{1, 2, 3}, 0o644))

	reg := component.NewRegistry(logger.Nop())
	in := NewInputFile(inPath, nil)
	out := NewOutputFile(filepath.Join(dir, "out.bin"), nil)
	require.NoError(t, reg.Register(in))
	require.NoError(t, reg.Register(out))

	require.NoError(t, reg.StartAll(context.Background()))
	_, err := io.Copy(out.Writer(), in.Reader())
	require.NoError(t, err)
	require.NoError(t, reg.StopAll(context.Background()))

	descs := reg.Describe()
	require.Len(t, descs, 2)
	assert.Equal(t, "Input", descs[0].Name)
	assert.Equal(t, "Output", descs[1].Name)
	assert.NotEmpty(t, out.Digest())
}

package fileio

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression applied to a stream.
type Codec string

const (
	// CodecNone passes bytes through unchanged.
	CodecNone Codec = "none"
	// CodecGzip is gzip (RFC 1952).
	CodecGzip Codec = "gzip"
	// CodecZstd is a zstd frame stream.
	CodecZstd Codec = "zstd"
	// CodecLZ4 is an LZ4 frame stream.
	CodecLZ4 Codec = "lz4"
)

// Codecs lists every supported codec name.
var Codecs = []string{string(CodecNone), string(CodecGzip), string(CodecZstd), string(CodecLZ4)}

// ParseCodec parses a codec name. The empty string means CodecNone.
func ParseCodec(name string) (Codec, error) {
	switch Codec(name) {
	case "", CodecNone:
		return CodecNone, nil
	case CodecGzip, CodecZstd, CodecLZ4:
		return Codec(name), nil
	default:
		return "", fmt.Errorf("unknown codec %q", name)
	}
}

// NewReader wraps r so reads return decompressed bytes.
func NewReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case "", CodecNone:
		return io.NopCloser(r), nil
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return zr, nil
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported codec %q", c)
	}
}

// NewWriter wraps w so written bytes are compressed. Close flushes the
// codec trailer; it does not close w.
func NewWriter(c Codec, w io.Writer) (io.WriteCloser, error) {
	switch c {
	case "", CodecNone:
		return nopWriteCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, nil
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported codec %q", c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

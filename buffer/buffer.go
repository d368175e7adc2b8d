package buffer

import (
	"encoding/binary"

	"github.com/kbukum/bytepipe/errors"
)

// Buffer is a growable byte store with drain-on-extract semantics.
// It is owned and mutated by a single stage and is not safe for concurrent use.
type Buffer struct {
	data  []byte
	count int
}

// New creates a Buffer with room for capacity bytes before its first growth.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Append copies the first length bytes of p into the buffer, growing the
// storage if needed. It fails with INVALID_ARGUMENT when p is nil or length
// is outside [0, len(p)].
func (b *Buffer) Append(p []byte, length int) error {
	if p == nil {
		return errors.InvalidArgument("data")
	}
	if length < 0 || length > len(p) {
		return errors.InvalidArgument("length").
			WithDetails(map[string]any{"length": length, "available": len(p)})
	}
	b.grow(length)
	copy(b.data[b.count:], p[:length])
	b.count += length
	return nil
}

// Write appends all of p. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.Append(p, len(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// grow makes room for n more bytes. The new capacity is the larger of the
// required total and twice the current length.
func (b *Buffer) grow(n int) {
	need := b.count + n
	if need <= len(b.data) {
		return
	}
	size := max(need, 2*b.count)
	next := make([]byte, size)
	copy(next, b.data[:b.count])
	b.data = next
}

// IsEmpty reports whether no bytes are accumulated.
func (b *Buffer) IsEmpty() bool {
	return b.count == 0
}

// Len returns the number of accumulated bytes.
func (b *Buffer) Len() int {
	return b.count
}

// Cap returns the size of the backing storage.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Reset drops the accumulated bytes without returning them.
func (b *Buffer) Reset() {
	b.count = 0
}

// ExtractBytes returns a copy of the accumulated bytes and drains the buffer.
// An empty buffer yields a zero-length, non-nil slice.
func (b *Buffer) ExtractBytes() []byte {
	out := make([]byte, b.count)
	copy(out, b.data[:b.count])
	b.count = 0
	return out
}

// ExtractChars returns one rune per accumulated byte and drains the buffer.
func (b *Buffer) ExtractChars() []rune {
	out := make([]rune, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = rune(b.data[i])
	}
	b.count = 0
	return out
}

// ExtractShorts returns the accumulated bytes as big-endian 16-bit units and
// drains the buffer. With an odd count the trailing byte is the high byte of
// the last unit and its low byte is zero.
func (b *Buffer) ExtractShorts() []uint16 {
	n := b.count / 2
	out := make([]uint16, n, n+b.count%2)
	for i := 0; i < n; i++ {
		out[i] = binary.BigEndian.Uint16(b.data[2*i:])
	}
	if b.count%2 == 1 {
		out = append(out, uint16(b.data[b.count-1])<<8)
	}
	b.count = 0
	return out
}

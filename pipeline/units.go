package pipeline

import "encoding/binary"

// Units is a batch of staged data in one element type.
type Units interface {
	// Type returns the element type of the batch.
	Type() ElementType
	// Len returns the number of units.
	Len() int
	// Bytes expands the units back into raw bytes. Shorts expand high byte
	// first; chars convert one to one.
	Bytes() []byte
}

// ByteUnits is a batch of Byte units.
type ByteUnits []byte

func (u ByteUnits) Type() ElementType { return Byte }
func (u ByteUnits) Len() int          { return len(u) }
func (u ByteUnits) Bytes() []byte     { return []byte(u) }

// CharUnits is a batch of Char units.
type CharUnits []rune

func (u CharUnits) Type() ElementType { return Char }
func (u CharUnits) Len() int          { return len(u) }

func (u CharUnits) Bytes() []byte {
	out := make([]byte, len(u))
	for i, r := range u {
		out[i] = byte(r)
	}
	return out
}

// ShortUnits is a batch of Short units.
type ShortUnits []uint16

func (u ShortUnits) Type() ElementType { return Short }
func (u ShortUnits) Len() int          { return len(u) }

func (u ShortUnits) Bytes() []byte {
	out := make([]byte, 2*len(u))
	for i, v := range u {
		binary.BigEndian.PutUint16(out[2*i:], v)
	}
	return out
}

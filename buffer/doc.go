// Package buffer provides the growable staging area every stage writes its
// output into.
//
// A Buffer is a one-shot accumulator, not a ring: Append always writes after
// the current logical length, and every Extract call hands back everything
// accumulated so far and resets the length to zero. The backing storage is
// kept and reused by later appends.
//
// Raw bytes are the only storage format. The Extract variants differ only in
// how those bytes are reinterpreted:
//
//	ExtractBytes   one byte per unit
//	ExtractChars   one byte per unit, widened to a rune (0..255)
//	ExtractShorts  two bytes per big-endian uint16; an odd trailing byte
//	               becomes the high byte of a final unit with a zero low byte
package buffer

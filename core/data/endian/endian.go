// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package endian decodes big-endian fixed-width integers from a borrowed
// byte slice. Unlike an io.Reader based decoder it never copies or takes
// ownership of the underlying bytes: the Reader is a cursor into memory
// the caller continues to own.
package endian

import (
	eb "encoding/binary"
	"math"

	"github.com/xenosrecomp/xenosrecomp/core/fault"
)

// ErrShortRead is returned when a read would run past the end of the buffer.
const ErrShortRead = fault.Const("endian: short read")

// Reader decodes big-endian values from a borrowed byte slice.
type Reader struct {
	Data []byte
	Pos  int
	err  error
}

// NewReader returns a Reader over data. data is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{Data: data}
}

// Err returns the first error encountered by the reader, if any.
func (r *Reader) Err() error { return r.err }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.Pos >= len(r.Data) {
		return 0
	}
	return len(r.Data) - r.Pos
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.Pos+n > len(r.Data) {
		r.err = ErrShortRead
		return nil
	}
	b := r.Data[r.Pos : r.Pos+n]
	r.Pos += n
	return b
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Uint16 reads a big-endian uint16.
func (r *Reader) Uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return eb.BigEndian.Uint16(b)
}

// Uint32 reads a big-endian uint32.
func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return eb.BigEndian.Uint32(b)
}

// Uint64 reads a big-endian uint64.
func (r *Reader) Uint64() uint64 {
	hi := uint64(r.Uint32())
	lo := uint64(r.Uint32())
	return hi<<32 | lo
}

// Int32 reads a big-endian int32.
func (r *Reader) Int32() int32 { return int32(r.Uint32()) }

// Float32 reads a big-endian IEEE-754 float.
func (r *Reader) Float32() float32 { return math.Float32frombits(r.Uint32()) }

// Bytes reads n raw bytes, returning a sub-slice of the borrowed buffer.
func (r *Reader) Bytes(n int) []byte { return r.take(n) }

// Skip advances the cursor by n bytes without interpreting them.
func (r *Reader) Skip(n int) { r.take(n) }

// SeekTo moves the cursor to an absolute byte offset.
func (r *Reader) SeekTo(offset int) {
	if r.err != nil {
		return
	}
	if offset < 0 || offset > len(r.Data) {
		r.err = ErrShortRead
		return
	}
	r.Pos = offset
}

// CString reads a NUL-terminated string starting at the current position,
// advancing the cursor past the terminator.
func (r *Reader) CString() string {
	if r.err != nil {
		return ""
	}
	start := r.Pos
	for r.Pos < len(r.Data) && r.Data[r.Pos] != 0 {
		r.Pos++
	}
	if r.Pos >= len(r.Data) {
		r.err = ErrShortRead
		return ""
	}
	s := string(r.Data[start:r.Pos])
	r.Pos++ // skip the terminator
	return s
}

// CStringAt reads a NUL-terminated string at an absolute offset without
// disturbing the reader's current cursor.
func CStringAt(data []byte, offset int) string {
	if offset < 0 || offset >= len(data) {
		return ""
	}
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	return string(data[offset:end])
}

// Bits32 extracts a width-bit field starting at bitOffset (0 = least
// significant bit) from a 32-bit word.
func Bits32(word uint32, bitOffset, width uint) uint32 {
	mask := uint32(1)<<width - 1
	return (word >> bitOffset) & mask
}

// Bits64 extracts a width-bit field starting at bitOffset from a 64-bit word.
func Bits64(word uint64, bitOffset, width uint) uint64 {
	mask := uint64(1)<<width - 1
	return (word >> bitOffset) & mask
}

// Cursor walks a contiguous bit-field across a fixed array of big-endian
// 32-bit words, least-significant bit of word 0 first. Instruction slots in
// the shader microcode are always packed this way once the raw words have
// been loaded, regardless of how many 32-bit words they span.
type Cursor struct {
	Words []uint32
	Pos   uint
}

// NewCursor returns a Cursor over words starting at bit 0.
func NewCursor(words []uint32) *Cursor { return &Cursor{Words: words} }

// Take extracts the next width bits and advances the cursor.
func (c *Cursor) Take(width uint) uint32 {
	var v uint64
	for i := uint(0); i < width; i++ {
		bit := c.Pos + i
		word := bit / 32
		off := bit % 32
		if int(word) < len(c.Words) {
			b := (c.Words[word] >> off) & 1
			v |= uint64(b) << i
		}
	}
	c.Pos += width
	return uint32(v)
}

// TakeBool extracts a single bit as a bool.
func (c *Cursor) TakeBool() bool { return c.Take(1) != 0 }

// TakeSigned extracts width bits and sign-extends the result.
func (c *Cursor) TakeSigned(width uint) int32 {
	v := c.Take(width)
	signBit := uint32(1) << (width - 1)
	if v&signBit != 0 {
		v |= ^uint32(0) << width
	}
	return int32(v)
}

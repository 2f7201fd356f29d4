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

package endian_test

import (
	"testing"

	"github.com/xenosrecomp/xenosrecomp/core/data/endian"
)

func TestReaderDecodesBigEndian(t *testing.T) {
	r := endian.NewReader([]byte{0x00, 0x01, 0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04})
	if got := r.Uint16(); got != 1 {
		t.Fatalf("Uint16() = %#x, want 0x1", got)
	}
	if got := r.Uint32(); got != 0xDEADBEEF {
		t.Fatalf("Uint32() = %#x, want 0xDEADBEEF", got)
	}
	if got := r.Uint32(); got != 0x01020304 {
		t.Fatalf("Uint32() = %#x, want 0x01020304", got)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestReaderShortRead(t *testing.T) {
	r := endian.NewReader([]byte{0x00, 0x01})
	r.Uint32()
	if r.Err() != endian.ErrShortRead {
		t.Fatalf("Err() = %v, want ErrShortRead", r.Err())
	}
	// Further reads stay at zero and don't panic once in the error state.
	if got := r.Uint8(); got != 0 {
		t.Fatalf("Uint8() after error = %v, want 0", got)
	}
}

func TestReaderCString(t *testing.T) {
	r := endian.NewReader([]byte("hello\x00world"))
	if got := r.CString(); got != "hello" {
		t.Fatalf("CString() = %q, want %q", got, "hello")
	}
	if got := string(r.Bytes(5)); got != "world" {
		t.Fatalf("Bytes(5) = %q, want %q", got, "world")
	}
}

func TestCStringAt(t *testing.T) {
	data := []byte("abc\x00def\x00")
	if got := endian.CStringAt(data, 0); got != "abc" {
		t.Fatalf("CStringAt(0) = %q, want %q", got, "abc")
	}
	if got := endian.CStringAt(data, 4); got != "def" {
		t.Fatalf("CStringAt(4) = %q, want %q", got, "def")
	}
}

func TestCursorTake(t *testing.T) {
	// word0 = 0b...0010_1101 (low byte 0x2D), word1 = 0
	c := endian.NewCursor([]uint32{0x2D, 0})
	if got := c.Take(4); got != 0xD {
		t.Fatalf("Take(4) = %#x, want 0xD", got)
	}
	if got := c.Take(4); got != 0x2 {
		t.Fatalf("Take(4) = %#x, want 0x2", got)
	}
	if got := c.TakeBool(); got != false {
		t.Fatalf("TakeBool() = %v, want false", got)
	}
}

func TestCursorTakeSigned(t *testing.T) {
	c := endian.NewCursor([]uint32{0x1F}) // 5-bit value 0b11111 == -1
	if got := c.TakeSigned(5); got != -1 {
		t.Fatalf("TakeSigned(5) = %v, want -1", got)
	}
}

func TestBits32(t *testing.T) {
	if got := endian.Bits32(0xABCD1234, 8, 8); got != 0x12 {
		t.Fatalf("Bits32 = %#x, want 0x12", got)
	}
}

package isa_test

import (
	"testing"

	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

// bitWriter packs fields into a 96-bit slot in the same low-bit-of-word-0
// first order the isa package's Cursor reads them in, so these tests can
// round-trip arbitrary field values without depending on real microcode.
type bitWriter struct {
	words [3]uint32
	pos   uint
}

func (w *bitWriter) put(value uint32, width uint) {
	for i := uint(0); i < width; i++ {
		bit := w.pos + i
		if (value>>i)&1 != 0 {
			w.words[bit/32] |= 1 << (bit % 32)
		}
	}
	w.pos += width
}

func (w *bitWriter) putBool(v bool) {
	if v {
		w.put(1, 1)
	} else {
		w.put(0, 1)
	}
}

func TestDecodeAluRoundTrips(t *testing.T) {
	var w bitWriter
	w.put(uint32(isa.VecMad), 5)
	w.put(uint32(isa.SclRcp), 6)
	w.put(0b1111, 4) // vector write mask
	w.put(0b0001, 4) // scalar write mask
	w.putBool(true)  // export
	w.putBool(false) // vector saturate
	w.putBool(true)  // scalar saturate
	w.putBool(true)  // predicated
	w.putBool(false) // predicate condition
	w.putBool(false) // abs constants
	w.putBool(false) // const addr relative
	w.putBool(false) // const0 relative
	w.putBool(false) // const1 relative
	w.put(3, 6)       // vector dest
	w.put(1, 6)       // scalar dest
	w.put(10, 7)      // src1 register
	w.put(0b11100100, 8)
	w.putBool(false) // src1 select
	w.putBool(true)  // src1 negate
	w.put(20, 7)      // src2 register
	w.put(0b00000000, 8)
	w.putBool(true) // src2 select
	w.putBool(false)
	w.put(30, 7) // src3 register
	w.put(0b01010101, 8)
	w.putBool(false)
	w.putBool(false)

	got := isa.DecodeAlu(w.words)
	if got.VectorOpcode != isa.VecMad {
		t.Fatalf("VectorOpcode = %v, want VecMad", got.VectorOpcode)
	}
	if got.ScalarOpcode != isa.SclRcp {
		t.Fatalf("ScalarOpcode = %v, want SclRcp", got.ScalarOpcode)
	}
	if got.VectorWriteMask != 0b1111 {
		t.Fatalf("VectorWriteMask = %#x", got.VectorWriteMask)
	}
	if !got.ExportData || got.VectorSaturate || !got.ScalarSaturate {
		t.Fatalf("flags decoded incorrectly: %+v", got)
	}
	if got.VectorDest != 3 || got.ScalarDest != 1 {
		t.Fatalf("dest registers = %d,%d", got.VectorDest, got.ScalarDest)
	}
	if got.Src1Register != 10 || !got.Src1Negate || got.Src1Select {
		t.Fatalf("src1 decoded incorrectly: %+v", got)
	}
	if got.Src2Register != 20 || !got.Src2Select {
		t.Fatalf("src2 decoded incorrectly: %+v", got)
	}
	if got.Src3Register != 30 {
		t.Fatalf("src3 register = %d, want 30", got.Src3Register)
	}
	if isa.Swizzle(got.Src3Swizzle, 0) != 1 {
		t.Fatalf("Src3Swizzle lane 0 = %d, want 1", isa.Swizzle(got.Src3Swizzle, 0))
	}
}

func TestScalarOpcodeLSBDistinguishesPairedVariants(t *testing.T) {
	var w0, w1 bitWriter
	w0.put(0, 5)
	w0.put(uint32(isa.SclMulsc0), 6)
	w1.put(0, 5)
	w1.put(uint32(isa.SclMulsc1), 6)

	a0 := isa.DecodeAlu(w0.words)
	a1 := isa.DecodeAlu(w1.words)
	if a0.ScalarOpcodeLSB == a1.ScalarOpcodeLSB {
		t.Fatalf("Mulsc0/Mulsc1 LSB did not differ: %d vs %d", a0.ScalarOpcodeLSB, a1.ScalarOpcodeLSB)
	}
	if want := uint32(isa.SclMulsc0) & 1; a0.ScalarOpcodeLSB != want {
		t.Fatalf("Mulsc0 LSB = %d, want %d", a0.ScalarOpcodeLSB, want)
	}
	if want := uint32(isa.SclMulsc1) & 1; a1.ScalarOpcodeLSB != want {
		t.Fatalf("Mulsc1 LSB = %d, want %d", a1.ScalarOpcodeLSB, want)
	}
}

package isa_test

import (
	"testing"

	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

func TestDecodeVertexFetch(t *testing.T) {
	var w bitWriter
	w.put(uint32(isa.FetchVertex), 6)
	w.put(2, 6)  // src register
	w.put(5, 6)  // dst register
	w.put(0, 3)  // swizzle x
	w.put(1, 3)  // swizzle y
	w.put(2, 3)  // swizzle z
	w.put(3, 3)  // swizzle w
	w.putBool(true)
	w.putBool(false)

	v := isa.DecodeVertexFetch(w.words)
	if v.Opcode != isa.FetchVertex {
		t.Fatalf("Opcode = %v", v.Opcode)
	}
	if v.SrcRegister != 2 || v.DstRegister != 5 {
		t.Fatalf("registers = %d,%d", v.SrcRegister, v.DstRegister)
	}
	if v.DstSwizzle != [4]uint32{0, 1, 2, 3} {
		t.Fatalf("DstSwizzle = %v", v.DstSwizzle)
	}
	if !v.IsPredicated || v.PredicateCondition {
		t.Fatalf("predicate decoded incorrectly: %+v", v)
	}
}

func TestPeekFetchOpcodeMatchesDecode(t *testing.T) {
	var w bitWriter
	w.put(uint32(isa.FetchTexture), 6)
	if got := isa.PeekFetchOpcode(w.words); got != isa.FetchTexture {
		t.Fatalf("PeekFetchOpcode = %v, want FetchTexture", got)
	}
}

func TestDecodeTextureFetch(t *testing.T) {
	var w bitWriter
	w.put(uint32(isa.FetchTexture), 6)
	w.put(1, 6) // src register
	w.put(2, 6) // dst register
	w.put(0, 3)
	w.put(1, 3)
	w.put(2, 3)
	w.put(3, 3)
	w.put(uint32(isa.Tex2D), 2)
	w.put(4, 5)  // const index
	w.put(0b0100, 6) // src swizzle
	w.put(uint32(int32ToBits(-1, 5)), 5) // offsetX
	w.put(uint32(int32ToBits(2, 5)), 5)  // offsetY
	w.putBool(false)
	w.putBool(false)

	tex := isa.DecodeTextureFetch(w.words)
	if tex.Dimension != isa.Tex2D {
		t.Fatalf("Dimension = %v, want Tex2D", tex.Dimension)
	}
	if tex.ConstIndex != 4 {
		t.Fatalf("ConstIndex = %d, want 4", tex.ConstIndex)
	}
	if tex.OffsetX != -1 || tex.OffsetY != 2 {
		t.Fatalf("offsets = %d,%d, want -1,2", tex.OffsetX, tex.OffsetY)
	}
}

func int32ToBits(v int32, width uint) uint32 {
	mask := uint32(1)<<width - 1
	return uint32(v) & mask
}

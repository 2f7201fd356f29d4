package isa

import "github.com/xenosrecomp/xenosrecomp/core/data/endian"

// swizzleCursor is a Cursor specialised for 96-bit fetch/ALU instruction
// slots (three big-endian 32-bit words), read low bit of word 0 first.
type swizzleCursor = endian.Cursor

func newSlotCursor(words [3]uint32) *swizzleCursor {
	return endian.NewCursor(words[:])
}

// VertexFetchInstruction decodes the vertex-fetch shape of a fetch slot.
// The vertex element it should be bound against is identified not by any
// field inside the instruction but by the slot's position in the overall
// instruction stream, which the caller tracks and supplies separately.
type VertexFetchInstruction struct {
	Opcode            FetchOpcode
	SrcRegister       uint32
	DstRegister       uint32
	DstSwizzle        [4]uint32
	IsPredicated      bool
	PredicateCondition bool
}

// DecodeVertexFetch decodes a fetch slot as a vertex fetch.
func DecodeVertexFetch(words [3]uint32) VertexFetchInstruction {
	c := newSlotCursor(words)
	var v VertexFetchInstruction
	v.Opcode = FetchOpcode(c.Take(6))
	v.SrcRegister = c.Take(6)
	v.DstRegister = c.Take(6)
	for i := range v.DstSwizzle {
		v.DstSwizzle[i] = c.Take(3)
	}
	v.IsPredicated = c.TakeBool()
	v.PredicateCondition = c.TakeBool()
	return v
}

// TextureFetchInstruction decodes the texture-fetch shape of a fetch slot.
type TextureFetchInstruction struct {
	Opcode       FetchOpcode
	Dimension    TextureDimension
	SrcRegister  uint32
	srcSwizzle   uint32
	DstRegister  uint32
	DstSwizzle   [4]uint32
	ConstIndex   uint32
	OffsetX      int32
	OffsetY      int32
	IsPredicated bool
	PredicateCondition bool
}

// SrcSwizzle returns the 2-bit swizzle lane selecting which source
// component feeds texture coordinate component i (0-2).
func (t TextureFetchInstruction) SrcSwizzle(i uint32) uint32 {
	return (t.srcSwizzle >> (i * 2)) & 0x3
}

// DecodeTextureFetch decodes a fetch slot as a texture fetch.
func DecodeTextureFetch(words [3]uint32) TextureFetchInstruction {
	c := newSlotCursor(words)
	var t TextureFetchInstruction
	t.Opcode = FetchOpcode(c.Take(6))
	t.SrcRegister = c.Take(6)
	t.DstRegister = c.Take(6)
	for i := range t.DstSwizzle {
		t.DstSwizzle[i] = c.Take(3)
	}
	t.Dimension = TextureDimension(c.Take(2))
	t.ConstIndex = c.Take(5)
	t.srcSwizzle = c.Take(6)
	t.OffsetX = c.TakeSigned(5)
	t.OffsetY = c.TakeSigned(5)
	t.IsPredicated = c.TakeBool()
	t.PredicateCondition = c.TakeBool()
	return t
}

// PeekFetchOpcode reads only the opcode field shared by both fetch shapes,
// letting the caller decide which of DecodeVertexFetch / DecodeTextureFetch
// to apply without consuming the slot.
func PeekFetchOpcode(words [3]uint32) FetchOpcode {
	c := newSlotCursor(words)
	return FetchOpcode(c.Take(6))
}

// Package container parses the on-disk shader container: a fixed header
// followed by a constant table, an inline-literal definition table, the
// vertex element decls (vertex shaders only), an interpolator table and
// the raw instruction microcode.
package container

import "github.com/xenosrecomp/xenosrecomp/xenos/isa"

// magicMask/magicValue identify a valid container header. A file offset
// only counts as the start of a shader if (flags & magicMask) == magicValue
// and the two reserved header words Field1C and Field20 are zero.
const (
	magicMask  = 0xFFFFFF00
	magicValue = 0x102A1100
)

// Kind distinguishes a vertex shader container from a pixel shader one.
type Kind int

const (
	KindPixel Kind = iota
	KindVertex
)

// ConstantInfo is one entry of the constant table: the name the original
// shader compiler gave a uniform, and where it lives in the register file.
type ConstantInfo struct {
	Name          string
	RegisterSet   isa.RegisterSet
	RegisterIndex uint32
	RegisterCount uint32
}

// ConstantTable groups the constant table by register bank, mirroring how
// the D3DX-derived container keeps float, sampler and bool constants in
// separate arrays rather than one flat list.
type ConstantTable struct {
	Float4   []ConstantInfo
	Samplers []ConstantInfo
	Bools    []ConstantInfo
}

// Float4Definition is an inline literal constant the compiler folded
// directly into the container rather than leaving as a runtime uniform.
type Float4Definition struct {
	RegisterIndex uint32
	Value         [4]float32
}

// Int4Definition is the integer-typed counterpart of Float4Definition.
// Its register index is encoded relative to a fixed base register; see
// ComputeInt4Register.
type Int4Definition struct {
	RegisterIndex uint32
	Value         [4]int32
}

// DefinitionTable holds the literal constants baked into the shader at
// compile time.
type DefinitionTable struct {
	Float4 []Float4Definition
	Int4   []Int4Definition
}

// int4DefinitionBase is the register index the container's raw int4
// definition offsets are measured from; see ComputeInt4Register.
const int4DefinitionBase = 8992

// ComputeInt4Register reconstructs the actual constant register index an
// Int4Definition with a given raw register field and lane index targets.
// The container stores int4 literal offsets relative to a fixed base and
// packed four-lanes-per-register; this composition is normative, not
// incidental, and must be preserved exactly.
func ComputeInt4Register(rawRegisterIndex uint32, lane uint32) uint32 {
	return (rawRegisterIndex-int4DefinitionBase)/4 + lane
}

// VertexElement is one entry of a vertex shader's input declaration table.
// Address is the position, within the instruction stream, of the vertex
// fetch clause that is expected to read this element - the two are tied
// together positionally, not by an explicit back-reference.
type VertexElement struct {
	Address    uint32
	Usage      isa.DeclUsage
	UsageIndex uint32
}

// Interpolator is one entry of a shader's inline interpolator table: which
// GPR an ALU export writes (vertex) or an ALU instruction reads (pixel),
// and the varying semantic that register is bound to.
type Interpolator struct {
	Reg        uint32
	Usage      isa.DeclUsage
	UsageIndex uint32
}

// Header is the fixed portion of a shader container.
type Header struct {
	Flags        uint32
	FieldC       uint32
	Field1C      uint32
	Field20      uint32
	VirtualSize  uint32
	PhysicalSize uint32
}

// IsPixelShader reports whether this container holds a pixel shader, per
// the low bit of the header flags.
func (h Header) IsPixelShader() bool { return h.Flags&0x1 == 0 }

// IsVertex reports whether k is KindVertex.
func (k Kind) IsVertex() bool { return k == KindVertex }

// FragmentPositionRegister returns the GPR index the rasterizer's
// interpolated fragment position is preloaded into, for pixel shaders that
// reference it. It is not a distinct header field: it is packed into the
// second byte of FieldC.
func (h Header) FragmentPositionRegister() uint32 {
	return (h.FieldC >> 8) & 0xFF
}

// ShaderContainer is the fully parsed representation of one shader blob.
type ShaderContainer struct {
	Header          Header
	Kind            Kind
	ConstantTable   ConstantTable
	DefinitionTable DefinitionTable
	VertexElements  []VertexElement
	Interpolators   []Interpolator
	Microcode       []uint32 // raw big-endian instruction words, already byte-swapped
}

package container

import (
	"github.com/pkg/errors"

	"github.com/xenosrecomp/xenosrecomp/core/data/endian"
	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

const headerSize = 0x48

// Parse decodes a shader container from a borrowed byte slice. The
// returned ShaderContainer does not retain data beyond what it has
// already copied out (names, literal constants); the microcode words are
// decoded in place and owned by the result.
func Parse(data []byte) (*ShaderContainer, error) {
	if len(data) < headerSize {
		return nil, errors.Wrap(ErrTruncatedInput, "header")
	}
	r := endian.NewReader(data)

	var h Header
	h.Flags = r.Uint32()
	r.Skip(8) // reserved
	h.FieldC = r.Uint32()
	r.Skip(12) // reserved
	h.Field1C = r.Uint32()
	h.Field20 = r.Uint32()
	h.VirtualSize = r.Uint32()
	h.PhysicalSize = r.Uint32()

	if h.Flags&magicMask != magicValue {
		return nil, ErrInvalidContainer
	}
	if h.Field1C != 0 || h.Field20 != 0 {
		return nil, ErrInvalidContainer
	}

	float4Count := r.Uint32()
	samplerCount := r.Uint32()
	boolCount := r.Uint32()
	float4DefCount := r.Uint32()
	int4DefCount := r.Uint32()
	vertexElementCount := r.Uint32()
	interpolatorCount := r.Uint32()
	microcodeWordCount := r.Uint32()

	c := &ShaderContainer{Header: h}
	if h.IsPixelShader() {
		c.Kind = KindPixel
	} else {
		c.Kind = KindVertex
	}

	c.ConstantTable.Float4 = readConstantInfos(r, float4Count)
	c.ConstantTable.Samplers = readConstantInfos(r, samplerCount)
	c.ConstantTable.Bools = readConstantInfos(r, boolCount)

	c.DefinitionTable.Float4 = make([]Float4Definition, float4DefCount)
	for i := range c.DefinitionTable.Float4 {
		c.DefinitionTable.Float4[i] = Float4Definition{
			RegisterIndex: r.Uint32(),
			Value:         [4]float32{r.Float32(), r.Float32(), r.Float32(), r.Float32()},
		}
	}
	c.DefinitionTable.Int4 = make([]Int4Definition, int4DefCount)
	for i := range c.DefinitionTable.Int4 {
		c.DefinitionTable.Int4[i] = Int4Definition{
			RegisterIndex: r.Uint32(),
			Value:         [4]int32{r.Int32(), r.Int32(), r.Int32(), r.Int32()},
		}
	}

	if c.Kind == KindVertex {
		c.VertexElements = make([]VertexElement, vertexElementCount)
		for i := range c.VertexElements {
			c.VertexElements[i] = VertexElement{
				Address:    r.Uint32(),
				Usage:      isa.DeclUsage(r.Uint32()),
				UsageIndex: r.Uint32(),
			}
		}
	}

	c.Interpolators = make([]Interpolator, interpolatorCount)
	for i := range c.Interpolators {
		c.Interpolators[i] = Interpolator{
			Reg:        r.Uint32(),
			Usage:      isa.DeclUsage(r.Uint32()),
			UsageIndex: r.Uint32(),
		}
	}

	c.Microcode = make([]uint32, microcodeWordCount)
	for i := range c.Microcode {
		c.Microcode[i] = r.Uint32()
	}

	if err := r.Err(); err != nil {
		return nil, errors.Wrap(ErrTruncatedInput, err.Error())
	}
	return c, nil
}

func readConstantInfos(r *endian.Reader, count uint32) []ConstantInfo {
	out := make([]ConstantInfo, count)
	for i := range out {
		out[i] = ConstantInfo{
			RegisterSet:   isa.RegisterSet(r.Uint32()),
			RegisterIndex: r.Uint32(),
			RegisterCount: r.Uint32(),
			Name:          readString(r),
		}
	}
	return out
}

func readString(r *endian.Reader) string {
	n := int(r.Uint16())
	return string(r.Bytes(n))
}

// VertexElementFor returns the vertex element declared at the given
// instruction-slot address, matching it by position in the way the
// original compiler laid fetch clauses and element declarations out in
// lock-step.
func (c *ShaderContainer) VertexElementFor(address uint32) (VertexElement, error) {
	for _, e := range c.VertexElements {
		if e.Address == address {
			return e, nil
		}
	}
	return VertexElement{}, errors.Wrapf(ErrMissingVertexElement, "address %d", address)
}

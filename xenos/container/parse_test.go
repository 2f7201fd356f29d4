package container_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/xenosrecomp/xenosrecomp/xenos/container"
	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

type builder struct{ buf bytes.Buffer }

func (b *builder) u32(v uint32) *builder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *builder) f32(v float32) *builder { return b.u32(math.Float32bits(v)) }

func (b *builder) i32(v int32) *builder { return b.u32(uint32(v)) }

func (b *builder) u16(v uint16) *builder {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *builder) str(s string) *builder {
	b.u16(uint16(len(s)))
	b.buf.WriteString(s)
	return b
}

func vertexShaderBytes() []byte {
	var b builder
	b.u32(0x102A1101) // flags: not pixel shader (bit0 set)
	b.u32(0).u32(0)   // reserved
	b.u32(0x0100)     // FieldC
	b.u32(0).u32(0).u32(0) // reserved
	b.u32(0) // Field1C
	b.u32(0) // Field20
	b.u32(64) // virtual size
	b.u32(64) // physical size
	b.u32(1)  // float4 count
	b.u32(0)  // sampler count
	b.u32(0)  // bool count
	b.u32(1)  // float4 def count
	b.u32(0)  // int4 def count
	b.u32(1)  // vertex element count
	b.u32(0)  // interpolator count
	b.u32(3)  // microcode word count

	// one float4 constant
	b.u32(uint32(isa.RegisterFloat4)).u32(0).u32(1).str("g_Color")

	// one float4 definition
	b.u32(4).f32(1).f32(2).f32(3).f32(4)

	// one vertex element
	b.u32(0).u32(uint32(isa.UsagePosition)).u32(0)

	// microcode
	b.u32(0xAAAAAAAA).u32(0xBBBBBBBB).u32(0xCCCCCCCC)
	return b.buf.Bytes()
}

func TestParseRoundTrips(t *testing.T) {
	data := vertexShaderBytes()
	c, err := container.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Kind != container.KindVertex {
		t.Fatalf("Kind = %v, want KindVertex", c.Kind)
	}
	if len(c.ConstantTable.Float4) != 1 || c.ConstantTable.Float4[0].Name != "g_Color" {
		t.Fatalf("Float4 constants = %+v", c.ConstantTable.Float4)
	}
	if len(c.DefinitionTable.Float4) != 1 || c.DefinitionTable.Float4[0].Value[1] != 2 {
		t.Fatalf("Float4 definitions = %+v", c.DefinitionTable.Float4)
	}
	if len(c.Microcode) != 3 || c.Microcode[0] != 0xAAAAAAAA {
		t.Fatalf("Microcode = %x", c.Microcode)
	}
	if _, err := c.VertexElementFor(0); err != nil {
		t.Fatalf("VertexElementFor(0) error = %v", err)
	}
	if _, err := c.VertexElementFor(9); err == nil {
		t.Fatalf("VertexElementFor(9) expected error")
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := vertexShaderBytes()
	data[0] = 0x00 // corrupt the flags magic
	if _, err := container.Parse(data); err != container.ErrInvalidContainer {
		t.Fatalf("Parse() error = %v, want ErrInvalidContainer", err)
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	if _, err := container.Parse([]byte{1, 2, 3}); err == nil {
		t.Fatalf("Parse() expected error on truncated input")
	}
}

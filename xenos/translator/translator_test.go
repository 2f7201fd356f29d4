package translator_test

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
	"github.com/xenosrecomp/xenosrecomp/xenos/translator"
)

// bitWriter packs fields starting at bit 0 of word 0, least significant
// bit first, matching the cursor order the isa package decodes with.
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

// cfExecEndWords builds the 96-bit control-flow slot for a single ExecEnd
// clause whose Exec block is one ALU instruction at address 0.
func cfExecEndWords() [3]uint32 {
	var w bitWriter
	w.put(uint32(isa.CFExecEnd), 6)
	w.put(0, 12) // address
	w.put(1, 3)  // count
	w.put(0, 12) // sequence: slot 0 is ALU
	return w.words
}

// aluAddWords builds r0.x = r0.xxxx + r1.xxxx, writing only x.
func aluAddWords() [3]uint32 {
	var w bitWriter
	w.put(uint32(isa.VecAdd), 5)
	w.put(0, 6) // scalar opcode, unused (scalar write mask 0)
	w.put(0b0001, 4) // vector write mask: x
	w.put(0, 4)       // scalar write mask
	for i := 0; i < 9; i++ {
		w.putBool(false)
	}
	w.put(0, 6) // vector dest
	w.put(0, 6) // scalar dest
	w.put(0, 7) // src1 register
	w.put(0, 8) // src1 swizzle (xxxx)
	w.putBool(false)
	w.putBool(false)
	w.put(1, 7) // src2 register
	w.put(0, 8)
	w.putBool(false)
	w.putBool(false)
	w.put(0, 7) // src3 register
	w.put(0, 8)
	w.putBool(false)
	w.putBool(false)
	return w.words
}

func u32be(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func buildVertexShader() []byte {
	var data []byte
	data = append(data, u32be(0x102A1101)...) // flags: vertex shader
	data = append(data, u32be(0)...)
	data = append(data, u32be(0)...)
	data = append(data, u32be(0)...) // FieldC
	data = append(data, u32be(0)...)
	data = append(data, u32be(0)...)
	data = append(data, u32be(0)...)
	data = append(data, u32be(0)...) // Field1C
	data = append(data, u32be(0)...) // Field20
	data = append(data, u32be(0)...) // virtual size
	data = append(data, u32be(0)...) // physical size
	data = append(data, u32be(0)...) // float4 count
	data = append(data, u32be(0)...) // sampler count
	data = append(data, u32be(0)...) // bool count
	data = append(data, u32be(0)...) // float4 def count
	data = append(data, u32be(0)...) // int4 def count
	data = append(data, u32be(0)...) // vertex element count
	data = append(data, u32be(0)...) // interpolator count
	data = append(data, u32be(6)...) // microcode word count (cf slot + alu slot)

	cf := cfExecEndWords()
	for _, w := range cf {
		data = append(data, u32be(w)...)
	}
	alu := aluAddWords()
	for _, w := range alu {
		data = append(data, u32be(w)...)
	}
	return data
}

func TestTranslateSimpleVertexAdd(t *testing.T) {
	data := buildVertexShader()
	result, err := translator.Translate(data, "// common header")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.Contains(result.Text, "r0.x = (r0.xxxx + r1.xxxx);") {
		t.Fatalf("missing expected ALU line, got:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "VSOutput main(VSInput input)") {
		t.Fatalf("missing vertex entry point, got:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "output.oPos.xy += g_HalfPixelOffset") {
		t.Fatalf("missing vertex epilogue, got:\n%s", result.Text)
	}
}

func TestTranslateRejectsInvalidContainer(t *testing.T) {
	_, err := translator.Translate([]byte("not a shader"), "")
	if err == nil {
		t.Fatalf("expected error for invalid container")
	}
}

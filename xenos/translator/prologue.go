package translator

import (
	"math"

	"github.com/xenosrecomp/xenosrecomp/xenos/container"
	"github.com/xenosrecomp/xenosrecomp/xenos/emit"
)

// stageConstantLimit is the register-file size a shader stage's constant
// bank is clamped against: 256 vertex constants, 224 pixel constants.
func stageConstantLimit(k container.Kind) uint32 {
	if k.IsVertex() {
		return 256
	}
	return 224
}

// emitConstantDeclarations writes the three backend variants of the
// constant table: Vulkan push constants, a Metal argument-buffer pointer,
// and an HLSL constant buffer with explicit packoffsets, followed by the
// accessor macros that make an out-of-range dynamic index read 0 instead
// of aliasing into the next constant, and the sampler descriptor-index
// macros texture fetches address by name.
func (t *translation) emitConstantDeclarations() {
	b := t.buf
	limit := stageConstantLimit(t.container().Kind)

	b.Line("#if defined(__spirv__)")
	b.Line("layout(push_constant) uniform PushConstants {")
	b.Indent()
	t.emitFloat4Members()
	b.Dedent()
	b.Line("} g_PushConstants;")
	t.emitFloat4Accessors("g_PushConstants.", limit)
	b.Line("#elif defined(__air__)")
	b.Line("struct PushConstants {")
	b.Indent()
	t.emitFloat4Members()
	b.Dedent()
	b.Line("};")
	b.Line("constant PushConstants &g_PushConstants;")
	t.emitFloat4Accessors("g_PushConstants.", limit)
	b.Line("#else")
	b.Line("cbuffer PushConstants : register(b0) {")
	b.Indent()
	for _, ci := range t.container().ConstantTable.Float4 {
		if ci.RegisterCount > 1 {
			b.Printf("float4 %s[%d] : packoffset(c%d);", ci.Name, ci.RegisterCount, ci.RegisterIndex)
		} else {
			b.Printf("float4 %s : packoffset(c%d);", ci.Name, ci.RegisterIndex)
		}
	}
	b.Dedent()
	b.Line("};")
	t.emitFloat4Accessors("", limit)
	b.Line("#endif")
	b.Blank()

	for _, ci := range t.container().ConstantTable.Bools {
		b.Printf("#define %s g_Booleans[%d]", ci.Name, ci.RegisterIndex)
	}
	b.Blank()

	for _, ci := range t.container().ConstantTable.Samplers {
		t.emitSamplerDescriptorMacros(ci)
	}
	b.Blank()

	for _, def := range t.container().DefinitionTable.Float4 {
		b.Line("#if defined(__air__)")
		b.Printf("constant float4 c%d = as_type<float4>(uint4(%#x, %#x, %#x, %#x));",
			def.RegisterIndex, float32Bits(def.Value[0]), float32Bits(def.Value[1]), float32Bits(def.Value[2]), float32Bits(def.Value[3]))
		b.Line("#else")
		b.Printf("static const float4 c%d = asfloat(uint4(%#x, %#x, %#x, %#x));",
			def.RegisterIndex, float32Bits(def.Value[0]), float32Bits(def.Value[1]), float32Bits(def.Value[2]), float32Bits(def.Value[3]))
		b.Line("#endif")
	}
	for _, def := range t.container().DefinitionTable.Int4 {
		b.Printf("static const int4 i%d = int4(%d, %d, %d, %d);",
			def.RegisterIndex, def.Value[0], def.Value[1], def.Value[2], def.Value[3])
	}
	b.Blank()
}

// emitFloat4Members writes one struct/array member per named float4
// constant: a single float4 for a one-register constant, an array sized to
// RegisterCount otherwise.
func (t *translation) emitFloat4Members() {
	b := t.buf
	for _, ci := range t.container().ConstantTable.Float4 {
		if ci.RegisterCount > 1 {
			b.Printf("float4 %s[%d];", ci.Name, ci.RegisterCount)
		} else {
			b.Printf("float4 %s;", ci.Name)
		}
	}
}

// emitFloat4Accessors defines the dynamic-index accessor macro for every
// multi-register named constant: INDEX is clamped to the constant's last
// array element, and an INDEX at or past the end of this shader stage's
// constant register file reads as zero, matching the original recompiler's
// selectWrapper-based clamp. accessPrefix qualifies the backing field
// reference ("g_PushConstants." for SPIR-V/AIR, "" for the HLSL cbuffer,
// whose members are referenced unqualified).
func (t *translation) emitFloat4Accessors(accessPrefix string, limit uint32) {
	b := t.buf
	for _, ci := range t.container().ConstantTable.Float4 {
		if ci.RegisterCount <= 1 {
			continue
		}
		tailCount := limit - ci.RegisterIndex
		b.Printf("#define %s(INDEX) selectWrapper((INDEX) < %d, %s%s[min(INDEX, %d)], 0.0)",
			ci.Name, tailCount, accessPrefix, ci.Name, ci.RegisterCount-1)
	}
}

// emitSamplerDescriptorMacros defines the bindless descriptor-index macros
// a texture fetch addresses a sampler by: one per texture dimension (2D,
// 3D, Cube) plus the shared sampler slot, each a fixed offset into the
// common shared-constants block - g_PushConstants.SharedConstants, like
// g_Booleans and g_HalfPixelOffset, is supplied by the common header this
// translation unit is prefixed with, not declared here.
func (t *translation) emitSamplerDescriptorMacros(ci container.ConstantInfo) {
	b := t.buf
	for j, dim := range []string{"2D", "3D", "Cube"} {
		b.Printf("#define %s_Texture%sDescriptorIndex (g_PushConstants.SharedConstants + %d)", ci.Name, dim, uint32(j)*64+ci.RegisterIndex*4)
	}
	b.Printf("#define %s_SamplerDescriptorIndex (g_PushConstants.SharedConstants + %d)", ci.Name, 3*64+ci.RegisterIndex*4)
}

func float32Bits(f float32) uint32 { return math.Float32bits(f) }

// emitInputOutputStructs writes the vertex input / pixel output struct
// declarations and the fixed interpolator bank vertex shaders write into
// and pixel shaders read from.
func (t *translation) emitInputOutputStructs() {
	b := t.buf
	if t.container().Kind.IsVertex() {
		b.Line("struct VSInput {")
		b.Indent()
		for _, ve := range t.container().VertexElements {
			loc, ok := emit.LocationFor(ve.Usage, ve.UsageIndex)
			if !ok {
				continue
			}
			b.Printf("%s %s%d : location(%d);", ve.Usage.UsageType(), ve.Usage.UsageVariable(), ve.UsageIndex, loc)
		}
		b.Dedent()
		b.Line("};")
		b.Blank()
	}
	b.Line("struct VSOutput {")
	b.Indent()
	b.Line("float4 oPos : SV_Position;")
	for i, slot := range emit.Interpolators {
		b.Printf("float4 o%s%d : TEXCOORD%d;", slot.Usage.UsageVariable(), slot.UsageIndex, i)
	}
	b.Dedent()
	b.Line("};")
	if !t.container().Kind.IsVertex() {
		b.Blank()
		b.Line("struct PSOutput {")
		b.Indent()
		for i := 0; i < 4; i++ {
			b.Printf("float4 oC%d : SV_Target%d;", i, i)
		}
		b.Line("float oDepth : SV_Depth;")
		b.Dedent()
		b.Line("};")
	}
	b.Blank()
}

// emitEntryPointOpen writes the entry point signature and opens its body,
// declaring the fixed general-purpose register file every instruction
// reads and writes through. Registers are declared individually, bare
// identifiers rN rather than a single array, matching the original
// recompiler's register declaration scheme.
func (t *translation) emitEntryPointOpen() {
	b := t.buf
	if t.container().Kind.IsVertex() {
		b.Line("VSOutput main(VSInput input) {")
	} else {
		b.Line("PSOutput main(VSOutput input) {")
	}
	b.Indent()
	for i := 0; i < 32; i++ {
		b.Printf("float4 %s = float4(0.0, 0.0, 0.0, 0.0);", regName(uint32(i)))
	}
	b.Line("int a0 = 0;")
	b.Line("int aL = 0;")
	b.Line("bool p0 = false;")
	b.Line("bool ps = false;")
	b.Line("CubeMapData cubeMapData = (CubeMapData)0;")
	if t.container().Kind.IsVertex() {
		b.Line("VSOutput output = (VSOutput)0;")
	} else {
		b.Line("PSOutput output = (PSOutput)0;")
		b.Printf("%s = input.oPos;", regName(t.container().Header.FragmentPositionRegister()))
		for _, in := range t.container().Interpolators {
			b.Printf("%s = input.o%s%d;", regName(in.Reg), in.Usage.UsageVariable(), in.UsageIndex)
		}
	}
	b.Blank()
}

func (t *translation) emitEntryPointClose() {
	b := t.buf
	b.Line("return output;")
	b.Dedent()
	b.Line("}")
}

package translator

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/xenosrecomp/xenosrecomp/xenos/container"
	"github.com/xenosrecomp/xenosrecomp/xenos/emit"
	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
	"github.com/xenosrecomp/xenosrecomp/xenos/symbols"
)

// emitFetch decodes a fetch slot and dispatches to the vertex or texture
// fetch emitter. slotAddress is the instruction's position relative to the
// start of the Exec block's addressable instruction region, the same
// coordinate space vertex element declarations are keyed by.
func (t *translation) emitFetch(words [3]uint32, slotAddress uint32) error {
	switch isa.PeekFetchOpcode(words) {
	case isa.FetchVertex:
		return t.emitVertexFetch(isa.DecodeVertexFetch(words), slotAddress)
	case isa.FetchTexture, isa.FetchGetTextureWeights:
		return t.emitTextureFetch(isa.DecodeTextureFetch(words))
	default:
		// SetTextureLod / SetTextureGradients*: recognized encodings this
		// translator does not need to act on, mirroring the original
		// recompiler's silent no-op for the same opcodes.
		return nil
	}
}

func (t *translation) emitVertexFetch(v isa.VertexFetchInstruction, slotAddress uint32) error {
	ve, err := t.container().VertexElementFor(slotAddress)
	if err != nil {
		return errors.Wrap(err, "vertex fetch")
	}
	b := t.buf
	dst := emit.DestSwizzleString(v.DstSwizzle)
	destName := regName(v.DstRegister)
	src := vertexFetchSource(ve)
	fills := emit.ConstantFillStatements(destName, v.DstSwizzle)

	t.emitPredicated(v.IsPredicated, v.PredicateCondition, func() {
		if dst != "" {
			b.Printf("%s.%s = %s.%s;", destName, dst, src, dst)
		}
		for _, fill := range fills {
			b.Printf("%s", fill)
		}
	})
	return nil
}

// vertexFetchSource builds the expression an input element is read through,
// wrapping Normal/Tangent/Binormal fields (declared uint4, packed
// R11G11B10) through the shared unpack helper and TexCoord fields through
// the runtime swap helper that honors g_SwappedTexcoords.
func vertexFetchSource(ve container.VertexElement) string {
	field := fmt.Sprintf("input.%s%d", ve.Usage.UsageVariable(), ve.UsageIndex)
	switch ve.Usage {
	case isa.UsageNormal, isa.UsageTangent, isa.UsageBinormal:
		return fmt.Sprintf("tfetchR11G11B10(%s)", field)
	case isa.UsageTexCoord:
		return fmt.Sprintf("tfetchTexcoord(g_SwappedTexcoords, %s, %d)", field, ve.UsageIndex)
	default:
		return field
	}
}

func (t *translation) emitTextureFetch(tex isa.TextureFetchInstruction) error {
	b := t.buf
	dst := emit.DestSwizzleString(tex.DstSwizzle)
	destName := regName(tex.DstRegister)
	fills := emit.ConstantFillStatements(destName, tex.DstSwizzle)

	coordLanes := 2
	switch tex.Dimension {
	case isa.Tex3D, isa.TexCube:
		coordLanes = 3
	}
	coord := regName(tex.SrcRegister) + "." + srcCoordSwizzle(tex, coordLanes)

	resourceIdx, samplerIdx := t.descriptorIndexMacros(tex.ConstIndex, tex.Dimension)

	// A texture fetch against the well-known GI sampler slot (constant
	// index 10) always wants the bicubic filter kernel, regardless of what
	// the shader's own instructions ask for.
	if tex.ConstIndex == 10 {
		t.env.SetFeature(symbols.FeatureBicubicGIFilter)
	}

	var call string
	switch {
	case tex.Opcode == isa.FetchGetTextureWeights:
		call = fmt.Sprintf("getWeights2D(%s, %s, %s, %s)", resourceIdx, samplerIdx, coord, fetchOffset(tex))
	case tex.Dimension == isa.TexCube:
		call = fmt.Sprintf("tfetchCube(%s, %s, %s, cubeMapData)", resourceIdx, samplerIdx, coord)
	case tex.ConstIndex == 10 && tex.Dimension == isa.Tex2D:
		call = fmt.Sprintf("tfetch2DBicubic(%s, %s, %s, %s)", resourceIdx, samplerIdx, coord, fetchOffset(tex))
	case tex.Dimension == isa.Tex2D:
		call = fmt.Sprintf("tfetch2D(%s, %s, %s, %s)", resourceIdx, samplerIdx, coord, fetchOffset(tex))
	default:
		call = fmt.Sprintf("tfetch%s(%s, %s, %s)", emit.TextureDimensionName(tex.Dimension), resourceIdx, samplerIdx, coord)
	}

	t.emitPredicated(tex.IsPredicated, tex.PredicateCondition, func() {
		if dst != "" {
			b.Printf("%s.%s = %s.%s;", destName, dst, call, dst)
		}
		for _, fill := range fills {
			b.Printf("%s", fill)
		}
	})
	return nil
}

// fetchOffset renders the texel offset argument, halved per the hardware
// convention the original recompiler's 2D fetch intrinsics expect.
func fetchOffset(tex isa.TextureFetchInstruction) string {
	return fmt.Sprintf("float2(%g, %g)", float64(tex.OffsetX)/2.0, float64(tex.OffsetY)/2.0)
}

func srcCoordSwizzle(tex isa.TextureFetchInstruction, lanes int) string {
	letters := "xyzw"
	out := make([]byte, 0, lanes)
	for i := 0; i < lanes; i++ {
		out = append(out, letters[tex.SrcSwizzle(uint32(i))])
	}
	return string(out)
}

// descriptorIndexMacros names the resource- and sampler-descriptor index
// macros emitConstantDeclarations declares for the sampler register at
// index, one per texture dimension plus the shared sampler slot.
func (t *translation) descriptorIndexMacros(index uint32, dim isa.TextureDimension) (resource, sampler string) {
	name := t.samplerNameForIndex(index)
	return name + "_Texture" + emit.TextureDimensionName(dim) + "DescriptorIndex", name + "_SamplerDescriptorIndex"
}

func (t *translation) samplerNameForIndex(index uint32) string {
	for _, ci := range t.container().ConstantTable.Samplers {
		if ci.RegisterIndex == index {
			return ci.Name
		}
	}
	return "g_Sampler" + regIndex(index)
}

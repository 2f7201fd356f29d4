package emit

import (
	"fmt"
	"strings"

	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

// componentLetters maps a 0-3 swizzle lane to its xyzw component letter.
var componentLetters = [4]byte{'x', 'y', 'z', 'w'}

// SwizzleString decodes a packed 2-bits-per-lane swizzle field (as used by
// ALU source operands) into the lane-count-letter swizzle text, e.g.
// "yyzw" for a packed value selecting y,y,z,w.
func SwizzleString(packed uint32, lanes int) string {
	var sb strings.Builder
	for i := 0; i < lanes; i++ {
		sb.WriteByte(componentLetters[isa.Swizzle(packed, uint32(i))])
	}
	return sb.String()
}

// WriteMaskString renders a 4-bit component write mask as its xyzw letters
// in order, e.g. 0b0101 -> "xz". An empty mask yields "".
func WriteMaskString(mask uint32) string {
	var sb strings.Builder
	for i := 0; i < 4; i++ {
		if mask&(1<<uint(i)) != 0 {
			sb.WriteByte(componentLetters[i])
		}
	}
	return sb.String()
}

// DestSwizzleString renders a fetch instruction's per-component destination
// swizzle, where each lane independently selects a source component or is
// masked out entirely. The constant fills (lanes valued 4/5) are not valid
// swizzle characters and are never included here - see
// ConstantFillStatements for how they are assigned instead.
func DestSwizzleString(lanes [4]uint32) string {
	var sb strings.Builder
	for _, lane := range lanes {
		switch lane {
		case 0, 1, 2, 3:
			sb.WriteByte(componentLetters[lane])
		default:
			// 4/5: constant fill, handled separately. 6/7: component not
			// written, keep previous value.
		}
	}
	return sb.String()
}

// ConstantFillStatements returns one assignment statement per destination
// lane whose fetch swizzle selects a constant fill (4 -> 0.0, 5 -> 1.0),
// targeting destName's corresponding component. Lanes that select a source
// component or are masked out produce no statement.
func ConstantFillStatements(destName string, lanes [4]uint32) []string {
	var stmts []string
	for i, lane := range lanes {
		switch lane {
		case 4:
			stmts = append(stmts, fmt.Sprintf("%s.%c = 0.0;", destName, componentLetters[i]))
		case 5:
			stmts = append(stmts, fmt.Sprintf("%s.%c = 1.0;", destName, componentLetters[i]))
		}
	}
	return stmts
}

// DeclUsageLocation binds a (usage, usage index) pair declared by a vertex
// shader input to the numbered shader input location a Vulkan pipeline
// expects it to arrive on.
type DeclUsageLocation struct {
	Usage      isa.DeclUsage
	UsageIndex uint32
	Location   uint32
}

// UsageLocations is the fixed table of attribute locations the Vulkan
// backend assigns to the vertex input semantics the recompiler recognizes.
// Vertex input struct members are emitted in the container's own vertex
// element order, not in this table's order.
var UsageLocations = []DeclUsageLocation{
	{Usage: isa.UsagePosition, UsageIndex: 0, Location: 0},
	{Usage: isa.UsageNormal, UsageIndex: 0, Location: 1},
	{Usage: isa.UsageColor, UsageIndex: 0, Location: 2},
	{Usage: isa.UsageColor, UsageIndex: 1, Location: 3},
	{Usage: isa.UsageTexCoord, UsageIndex: 0, Location: 4},
	{Usage: isa.UsageTexCoord, UsageIndex: 1, Location: 5},
	{Usage: isa.UsageTexCoord, UsageIndex: 2, Location: 6},
	{Usage: isa.UsageTexCoord, UsageIndex: 3, Location: 7},
	{Usage: isa.UsageTexCoord, UsageIndex: 4, Location: 8},
	{Usage: isa.UsageTexCoord, UsageIndex: 5, Location: 9},
	{Usage: isa.UsageTexCoord, UsageIndex: 6, Location: 10},
	{Usage: isa.UsageTexCoord, UsageIndex: 7, Location: 11},
	{Usage: isa.UsageBlendWeight, UsageIndex: 0, Location: 12},
	{Usage: isa.UsageBlendIndices, UsageIndex: 0, Location: 13},
	{Usage: isa.UsageTangent, UsageIndex: 0, Location: 14},
	{Usage: isa.UsageBinormal, UsageIndex: 0, Location: 15},
	{Usage: isa.UsagePSize, UsageIndex: 0, Location: 16},
}

// LocationFor looks up the attribute location for a usage/usageIndex pair,
// returning ok=false if this recompiler doesn't know about that semantic.
func LocationFor(usage isa.DeclUsage, usageIndex uint32) (uint32, bool) {
	for _, u := range UsageLocations {
		if u.Usage == usage && u.UsageIndex == usageIndex {
			return u.Location, true
		}
	}
	return 0, false
}

// InterpolatorSlot names the semantic carried by one of the fixed
// interpolator registers passed between vertex and pixel stages.
type InterpolatorSlot struct {
	Usage      isa.DeclUsage
	UsageIndex uint32
}

// Interpolators is the fixed bank of interpolator registers: sixteen
// general-purpose texture-coordinate-shaped slots plus two color slots,
// matching the hardware's fixed interpolator register count.
var Interpolators = [18]InterpolatorSlot{
	{Usage: isa.UsageTexCoord, UsageIndex: 0},
	{Usage: isa.UsageTexCoord, UsageIndex: 1},
	{Usage: isa.UsageTexCoord, UsageIndex: 2},
	{Usage: isa.UsageTexCoord, UsageIndex: 3},
	{Usage: isa.UsageTexCoord, UsageIndex: 4},
	{Usage: isa.UsageTexCoord, UsageIndex: 5},
	{Usage: isa.UsageTexCoord, UsageIndex: 6},
	{Usage: isa.UsageTexCoord, UsageIndex: 7},
	{Usage: isa.UsageTexCoord, UsageIndex: 8},
	{Usage: isa.UsageTexCoord, UsageIndex: 9},
	{Usage: isa.UsageTexCoord, UsageIndex: 10},
	{Usage: isa.UsageTexCoord, UsageIndex: 11},
	{Usage: isa.UsageTexCoord, UsageIndex: 12},
	{Usage: isa.UsageTexCoord, UsageIndex: 13},
	{Usage: isa.UsageTexCoord, UsageIndex: 14},
	{Usage: isa.UsageTexCoord, UsageIndex: 15},
	{Usage: isa.UsageColor, UsageIndex: 0},
	{Usage: isa.UsageColor, UsageIndex: 1},
}

// TextureDimensionName renders a texture dimension as the type suffix used
// in generated declarations (Texture2D, TextureCube, ...).
func TextureDimensionName(d isa.TextureDimension) string {
	switch d {
	case isa.Tex1D:
		return "1D"
	case isa.Tex2D:
		return "2D"
	case isa.Tex3D:
		return "3D"
	case isa.TexCube:
		return "Cube"
	default:
		return "2D"
	}
}

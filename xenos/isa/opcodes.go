// Package isa decodes Xenos shader microcode instruction words into typed
// Go values. It knows nothing about emission: it is purely the binary
// layer between raw 32-bit words and the structs the translator walks.
package isa

// ControlFlowOpcode selects the shape of a control-flow clause.
type ControlFlowOpcode uint32

const (
	CFNop ControlFlowOpcode = iota
	CFExec
	CFExecEnd
	CFCondExec
	CFCondExecEnd
	CFCondExecPred
	CFCondExecPredEnd
	CFCondExecPredClean
	CFCondExecPredCleanEnd
	CFLoopStart
	CFLoopEnd
	CFCondCall
	CFReturn
	CFCondJmp
	CFAlloc
	CFMarkVsFetchDone
)

func (o ControlFlowOpcode) String() string {
	switch o {
	case CFNop:
		return "Nop"
	case CFExec:
		return "Exec"
	case CFExecEnd:
		return "ExecEnd"
	case CFCondExec:
		return "CondExec"
	case CFCondExecEnd:
		return "CondExecEnd"
	case CFCondExecPred:
		return "CondExecPred"
	case CFCondExecPredEnd:
		return "CondExecPredEnd"
	case CFCondExecPredClean:
		return "CondExecPredClean"
	case CFCondExecPredCleanEnd:
		return "CondExecPredCleanEnd"
	case CFLoopStart:
		return "LoopStart"
	case CFLoopEnd:
		return "LoopEnd"
	case CFCondCall:
		return "CondCall"
	case CFReturn:
		return "Return"
	case CFCondJmp:
		return "CondJmp"
	case CFAlloc:
		return "Alloc"
	case CFMarkVsFetchDone:
		return "MarkVsFetchDone"
	default:
		return "Unknown"
	}
}

// FetchOpcode distinguishes a vertex fetch from the various texture fetch
// variants sharing the same 96-bit fetch instruction slot. VertexFetch is
// always zero: it is read speculatively from a slot before the caller knows
// which of the two fetch shapes actually occupies it.
type FetchOpcode uint32

const (
	FetchVertex FetchOpcode = iota
	FetchTexture
	FetchGetTextureWeights
	FetchSetTextureLod
	FetchSetTextureGradientsHorz
	FetchSetTextureGradientsVert
)

// TextureDimension is the declared dimensionality of a texture fetch.
type TextureDimension uint32

const (
	Tex1D TextureDimension = iota
	Tex2D
	Tex3D
	TexCube
)

// DeclUsage names the semantic a vertex element or interpolator is bound to.
type DeclUsage uint32

const (
	UsagePosition DeclUsage = iota
	UsageBlendWeight
	UsageBlendIndices
	UsageNormal
	UsagePSize
	UsageTexCoord
	UsageTangent
	UsageBinormal
	UsageTessFactor
	UsagePositionT
	UsageColor
	UsageFog
	UsageDepth
	UsageSample
)

// usageTypes is the component type (float4 vs uint4) associated with a
// DeclUsage, mirroring the constant table's declared type for that usage.
var usageTypes = [...]string{
	"float4", "float4", "uint4", "uint4",
	"float4", "float4", "uint4", "uint4",
	"float4", "float4", "float4", "float4",
	"float4", "float4",
}

// UsageType returns the declared HLSL-ish scalar type for a DeclUsage.
func (u DeclUsage) UsageType() string {
	if int(u) < len(usageTypes) {
		return usageTypes[u]
	}
	return "float4"
}

var usageVariables = [...]string{
	"Position", "BlendWeight", "BlendIndices", "Normal",
	"PointSize", "TexCoord", "Tangent", "Binormal",
	"TessFactor", "PositionT", "Color", "Fog",
	"Depth", "Sample",
}

// UsageVariable returns the identifier used for this usage in generated code.
func (u DeclUsage) UsageVariable() string {
	if int(u) < len(usageVariables) {
		return usageVariables[u]
	}
	return "Unknown"
}

var usageSemantics = [...]string{
	"POSITION", "BLENDWEIGHT", "BLENDINDICES", "NORMAL",
	"PSIZE", "TEXCOORD", "TANGENT", "BINORMAL",
	"TESSFACTOR", "POSITIONT", "COLOR", "FOG",
	"DEPTH", "SAMPLE",
}

// UsageSemantic returns the HLSL semantic name for this usage.
func (u DeclUsage) UsageSemantic() string {
	if int(u) < len(usageSemantics) {
		return usageSemantics[u]
	}
	return "UNKNOWN"
}

// RegisterSet identifies which constant bank a ConstantInfo entry lives in.
// The numeric values follow the D3DX shader constant table convention this
// container format was derived from.
type RegisterSet uint32

const (
	RegisterBool RegisterSet = iota
	RegisterInt4
	RegisterFloat4
	RegisterSampler
)

// AluVectorOpcode is the opcode of the vector (xyzw) unit of an ALU clause.
type AluVectorOpcode uint32

const (
	VecAdd AluVectorOpcode = iota
	VecMul
	VecMax
	VecMin
	VecSeq
	VecSgt
	VecSge
	VecSne
	VecFrc
	VecTrunc
	VecFloor
	VecMad
	VecCndEq
	VecCndGe
	VecCndGt
	VecDp4
	VecDp3
	VecDp2Add
	VecCube
	VecMax4
	VecSetpEqPush
	VecSetpNePush
	VecSetpGtPush
	VecSetpGePush
	VecKillEq
	VecKillGt
	VecKillGe
	VecKillNe
	VecDst
	VecMaxA
)

// AluScalarOpcode is the opcode of the scalar (w-only) unit of an ALU clause.
type AluScalarOpcode uint32

const (
	SclAdds AluScalarOpcode = iota
	SclAddsPrev
	SclMuls
	SclMulsPrev
	SclMulsPrev2
	SclMaxs
	SclMaxAs
	SclMaxAsf
	SclMins
	SclSeqs
	SclSgts
	SclSges
	SclSnes
	SclFrcs
	SclTruncs
	SclFloors
	SclExp
	SclLogc
	SclLog
	SclRcpc
	SclRcpf
	SclRcp
	SclRsqc
	SclRsqf
	SclRsq
	SclSubs
	SclSubsPrev
	SclSetpEq
	SclSetpNe
	SclSetpGt
	SclSetpGe
	SclSetpInv
	SclSetpPop
	SclSetpClr
	SclSetpRstr
	SclKillsEq
	SclKillsGt
	SclKillsGe
	SclKillsNe
	SclKillsOne
	SclSqrt
	SclMulsc0
	SclMulsc1
	SclAddsc0
	SclAddsc1
	SclSubsc0
	SclSubsc1
	SclSin
	SclCos
	SclRetainPrev
)

// PredicateCondition is the value a predicate/boolean test is compared
// against: true tests for non-zero, false tests for zero.
type PredicateCondition bool

const (
	PredicateFalse PredicateCondition = false
	PredicateTrue  PredicateCondition = true
)

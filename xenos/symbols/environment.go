// Package symbols builds the translator's view of a shader's named
// resources - constants, samplers, vertex elements - and the heuristic and
// feature flags that steer how the emitter renders them.
package symbols

import (
	"strconv"

	"github.com/xenosrecomp/xenosrecomp/xenos/container"
)

// FeatureFlag is a bit in the spec-constant mask threaded through to the
// generated shader's backend-specific specialization constants.
type FeatureFlag uint32

const (
	FeatureR11G11B10Normal  FeatureFlag = 1 << 0
	FeatureAlphaTest        FeatureFlag = 1 << 1
	FeatureBicubicGIFilter  FeatureFlag = 1 << 2
	FeatureAlphaToCoverage  FeatureFlag = 1 << 3
	FeatureReverseZ         FeatureFlag = 1 << 4
)

// HeuristicFlags records detections made purely from constant names, marking
// a handful of well-known uniform buffer layouts without any cooperation
// from the original shader compiler. NewEnvironment sets them; the
// translator does not read them when emitting.
type HeuristicFlags struct {
	HasMtxProjection             bool
	IsMetaInstancer              bool
	HasIndexCount                bool
	HasMtxPrevInvViewProjection  bool
}

// Environment is the fully resolved symbol table for one shader: which
// constants exist, where vertex elements and interpolators are bound, and
// which heuristic/feature flags apply.
type Environment struct {
	Container *container.ShaderContainer

	Float4ByName   map[string]container.ConstantInfo
	SamplerByName  map[string]container.ConstantInfo
	BoolByName     map[string]container.ConstantInfo

	VertexElementByAddress map[uint32]container.VertexElement

	// InterpolatorByRegister maps a GPR index to the interpolator it is
	// bound to, keyed from the container's own interpolator table rather
	// than a fixed, shader-independent slot assignment.
	InterpolatorByRegister map[uint32]container.Interpolator

	Heuristics HeuristicFlags
	Features   FeatureFlag
}

// These lists hold the exact constant names the heuristics key off. Matching is by exact name, not substring: shaders
// that happen to declare similarly-named but unrelated constants must not
// trip these flags.
var (
	mtxProjectionNames            = []string{"g_MtxProjection"}
	metaInstancerNames            = []string{"g_xeInstanceMeta", "g_xeSkinMatrices"}
	indexCountNames               = []string{"g_xeIndexCount"}
	mtxPrevInvViewProjectionNames = []string{"g_mtxPrevInvViewProjection"}
)

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// NewEnvironment builds the symbol environment for a parsed container.
func NewEnvironment(c *container.ShaderContainer) *Environment {
	env := &Environment{
		Container:              c,
		Float4ByName:           map[string]container.ConstantInfo{},
		SamplerByName:          map[string]container.ConstantInfo{},
		BoolByName:             map[string]container.ConstantInfo{},
		VertexElementByAddress: map[uint32]container.VertexElement{},
		InterpolatorByRegister: map[uint32]container.Interpolator{},
	}
	for _, ci := range c.ConstantTable.Float4 {
		env.Float4ByName[ci.Name] = ci
		if containsName(mtxProjectionNames, ci.Name) {
			env.Heuristics.HasMtxProjection = true
		}
		if containsName(metaInstancerNames, ci.Name) {
			env.Heuristics.IsMetaInstancer = true
		}
		if containsName(indexCountNames, ci.Name) {
			env.Heuristics.HasIndexCount = true
		}
		if containsName(mtxPrevInvViewProjectionNames, ci.Name) {
			env.Heuristics.HasMtxPrevInvViewProjection = true
		}
	}
	for _, ci := range c.ConstantTable.Samplers {
		env.SamplerByName[ci.Name] = ci
	}
	for _, ci := range c.ConstantTable.Bools {
		env.BoolByName[ci.Name] = ci
	}
	for _, ve := range c.VertexElements {
		env.VertexElementByAddress[ve.Address] = ve
	}
	for _, in := range c.Interpolators {
		env.InterpolatorByRegister[in.Reg] = in
	}
	return env
}

// OutputExpressionFor returns the output struct member a vertex shader
// export writing to reg should target, resolved from this shader's own
// interpolator table rather than a fixed slot layout. ok is false for a
// register with no bound interpolator, e.g. a GPR export the generated
// exportName switch must fall back on oPos for.
func (e *Environment) OutputExpressionFor(reg uint32) (expr string, ok bool) {
	in, found := e.InterpolatorByRegister[reg]
	if !found {
		return "", false
	}
	return "o" + in.Usage.UsageVariable() + strconv.Itoa(int(in.UsageIndex)), true
}

// Float4ConstantFor finds the named float4 constant whose register range
// covers reg, if any. A raw ALU source register with no matching entry
// addresses a constant the shader compiler never named - the container's
// constant table is sparse by construction.
func (e *Environment) Float4ConstantFor(reg uint32) (container.ConstantInfo, bool) {
	for _, ci := range e.Container.ConstantTable.Float4 {
		if reg >= ci.RegisterIndex && reg < ci.RegisterIndex+ci.RegisterCount {
			return ci, true
		}
	}
	return container.ConstantInfo{}, false
}

// SetFeature enables a feature flag on the environment's spec-constant mask.
func (e *Environment) SetFeature(f FeatureFlag) { e.Features |= f }

// HasFeature reports whether a feature flag is enabled.
func (e *Environment) HasFeature(f FeatureFlag) bool { return e.Features&f != 0 }

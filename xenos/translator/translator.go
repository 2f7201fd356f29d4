// Package translator turns a parsed shader container into portable shader
// source text, with three backend-guarded variants (Vulkan/SPIR-V, Metal/
// AIR, DXIL/HLSL) emitted side by side behind #if guards in the same
// translation unit.
package translator

import (
	"github.com/pkg/errors"

	"github.com/xenosrecomp/xenosrecomp/xenos/container"
	"github.com/xenosrecomp/xenosrecomp/xenos/emit"
	"github.com/xenosrecomp/xenosrecomp/xenos/symbols"
)

// Result is the output of translating one shader: its generated source
// text and the spec-constant feature mask the text was built to expect.
type Result struct {
	Text        string
	FeatureMask uint32
}

// Translate decodes shaderBytes as a shader container and emits portable
// shader source for it. commonHeader is verbatim text - typically shared
// type and intrinsic declarations - prefixed to the generated unit so it
// can reference them without a separate include step.
func Translate(shaderBytes []byte, commonHeader string) (Result, error) {
	c, err := container.Parse(shaderBytes)
	if err != nil {
		return Result{}, errors.Wrap(err, "translate")
	}
	env := symbols.NewEnvironment(c)

	t := &translation{
		env: env,
		buf: &emit.Buffer{},
	}
	t.buf.Line(commonHeader)
	t.buf.Blank()

	if err := t.run(); err != nil {
		return Result{}, errors.Wrap(err, "translate")
	}

	return Result{
		Text:        t.buf.String(),
		FeatureMask: uint32(env.Features),
	}, nil
}

// translation is the mutable state threaded through one shader's emission.
type translation struct {
	env *symbols.Environment
	buf *emit.Buffer
}

func (t *translation) container() *container.ShaderContainer { return t.env.Container }

func (t *translation) run() error {
	t.emitConstantDeclarations()
	t.emitInputOutputStructs()
	t.emitEntryPointOpen()

	if err := t.emitBody(); err != nil {
		return err
	}

	t.emitEpilogue()
	t.emitEntryPointClose()
	return nil
}

package translator

import "github.com/xenosrecomp/xenosrecomp/xenos/symbols"

// emitReturnEpilogue writes the stage-specific fix-up that runs immediately
// before any return point, structured or early: the vertex half-pixel
// offset correction, or the pixel shader's alpha-test clip and
// alpha-to-coverage floor.
func (t *translation) emitReturnEpilogue() {
	b := t.buf
	if t.container().Kind.IsVertex() {
		b.Line("output.oPos.xy += g_HalfPixelOffset * output.oPos.w;")
		return
	}
	if t.env.HasFeature(symbols.FeatureAlphaTest) {
		b.Line("if (output.oC0.a < g_AlphaThreshold) clip(-1);")
	}
	if t.env.HasFeature(symbols.FeatureAlphaToCoverage) {
		b.Line("output.oC0.a = max(output.oC0.a, 1.0 / 256.0);")
	}
}

// emitEpilogue writes the fix-up that guards the function's final,
// unconditional return - reached whenever no earlier Exec/CondExec clause
// already returned.
func (t *translation) emitEpilogue() {
	t.emitReturnEpilogue()
}

package translator

import "strconv"

// regIndex renders a register index for interpolation into generated
// identifiers and array subscripts.
func regIndex(i uint32) string { return strconv.Itoa(int(i)) }

// regName renders a GPR index as the bare identifier the original
// recompiler addresses it by, e.g. "r3" - never an array subscript.
func regName(i uint32) string { return "r" + strconv.Itoa(int(i)) }

// condNot renders the predication-test negation, matching the original
// recompiler's "if ({}p0)"/"if (!p0)" shape.
func condNot(predicateCondition bool) string {
	if predicateCondition {
		return ""
	}
	return "!"
}

// emitPredicated writes body's statements directly when the instruction
// isn't predicated, or wraps them in an "if (p0)"/"if (!p0)" block when it
// is - the single predication shape every instruction family shares.
func (t *translation) emitPredicated(predicated, condition bool, body func()) {
	if !predicated {
		body()
		return
	}
	b := t.buf
	b.Printf("if (%sp0)", condNot(condition))
	b.Printf("{")
	b.Indent()
	body()
	b.Dedent()
	b.Printf("}")
}

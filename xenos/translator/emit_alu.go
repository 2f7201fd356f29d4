package translator

import (
	"fmt"

	"github.com/xenosrecomp/xenosrecomp/xenos/emit"
	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
	"github.com/xenosrecomp/xenosrecomp/xenos/symbols"
)

// operandSlot names which of an ALU instruction's three shared source
// operands an expression should be built from.
type operandSlot int

const (
	operand1 operandSlot = iota
	operand2
	operand3
)

// operandText renders one of src1/src2/src3 as an expression: a GPR or
// constant register reference, swizzled to the requested lane count, with
// negation and the instruction-wide constant-abs flag applied.
func (a aluOperands) operandText(slot operandSlot, lanes int) string {
	var reg, packedSwizzle uint32
	var selectConstant, negate bool
	switch slot {
	case operand1:
		reg, packedSwizzle, selectConstant, negate = a.instr.Src1Register, a.instr.Src1Swizzle, a.instr.Src1Select, a.instr.Src1Negate
	case operand2:
		reg, packedSwizzle, selectConstant, negate = a.instr.Src2Register, a.instr.Src2Swizzle, a.instr.Src2Select, a.instr.Src2Negate
	case operand3:
		reg, packedSwizzle, selectConstant, negate = a.instr.Src3Register, a.instr.Src3Swizzle, a.instr.Src3Select, a.instr.Src3Negate
	}

	swizzle := emit.SwizzleString(packedSwizzle, lanes)
	var base string
	if selectConstant {
		base = a.constantOperand(reg) + "." + swizzle
		if a.instr.AbsConstants {
			base = "abs(" + base + ")"
		}
	} else {
		base = regName(reg) + "." + swizzle
	}
	if negate {
		base = "-" + base
	}
	return base
}

// constantOperand renders a constant-bank register reference: the named
// Float4 constant's accessor if reg falls inside one, relative-indexed by
// a0/aL when the instruction marks it so, else the bare, undeclared c{reg}
// the original recompiler falls back to for a register no constant names.
func (a aluOperands) constantOperand(reg uint32) string {
	ci, ok := a.env.Float4ConstantFor(reg)
	if !ok {
		return fmt.Sprintf("c%d", reg)
	}
	if ci.RegisterCount <= 1 {
		return ci.Name
	}
	index := reg - ci.RegisterIndex
	if a.instr.Const0Relative {
		if a.instr.ConstAddressRegisterRelative {
			return fmt.Sprintf("%s(%d + a0)", ci.Name, index)
		}
		return fmt.Sprintf("%s(%d + aL)", ci.Name, index)
	}
	return fmt.Sprintf("%s(%d)", ci.Name, index)
}

// scalarConstant1Register reconstructs the register SCALAR_CONSTANT_1
// addresses: the low bit of the raw scalar opcode field, combined with
// src3's select flag and the high bits of its swizzle field. This
// composition is normative, not incidental, and must be reproduced exactly.
func (a aluOperands) scalarConstant1Register() uint32 {
	var select1 uint32
	if a.instr.Src3Select {
		select1 = 1
	}
	return a.instr.ScalarOpcodeLSB | (select1 << 1) | (a.instr.Src3Swizzle & 0x3C)
}

type aluOperands struct {
	instr isa.AluInstruction
	env   *symbols.Environment
}

func (t *translation) emitAlu(words [3]uint32) error {
	instr := isa.DecodeAlu(words)
	a := aluOperands{instr: instr, env: t.env}
	b := t.buf

	var err error
	t.emitPredicated(instr.IsPredicated, instr.PredicateCondition, func() {
		err = t.emitAluBody(a, instr, b)
	})
	return err
}

func (t *translation) emitAluBody(a aluOperands, instr isa.AluInstruction, b *emit.Buffer) error {
	if isKillVector(instr.VectorOpcode) {
		cond, err := killVectorCondition(a)
		if err != nil {
			return err
		}
		b.Printf("clip(any(%s) ? -1 : 1);", cond)
	}

	if instr.VectorOpcode == isa.VecMaxA {
		b.Printf("a0 = (int)clamp(floor((%s).w + 0.5), -256, 255);", a.operandText(operand1, 4))
	}

	if instr.VectorWriteMask != 0 || instr.ExportData {
		expr, err := vectorExpression(a)
		if err != nil {
			return err
		}
		mask := emit.WriteMaskString(instr.VectorWriteMask)
		if instr.ExportData {
			dest := exportName(t.env, instr.VectorDest)
			b.Printf("output.%s = %s;", dest, saturate(expr, instr.VectorSaturate))
		} else if mask != "" {
			b.Printf("%s.%s = %s;", regName(instr.VectorDest), mask, saturate(expr, instr.VectorSaturate))
		}
	}

	if instr.ScalarOpcode != isa.SclRetainPrev && instr.ScalarWriteMask != 0 {
		expr, err := scalarExpression(a)
		if err != nil {
			return err
		}
		b.Printf("ps = %s;", saturate(expr, instr.ScalarSaturate))
		mask := emit.WriteMaskString(instr.ScalarWriteMask)
		if mask != "" {
			b.Printf("%s.%s = ps;", regName(instr.ScalarDest), mask)
		}
		if isKillScalar(instr.ScalarOpcode) {
			b.Printf("clip(ps != 0.0 ? -1 : 1);")
		}
		switch instr.ScalarOpcode {
		case isa.SclMaxAs:
			b.Printf("a0 = (int)clamp(floor(%s.x + 0.5), -256, 255);", a.operandText(operand3, 4))
		case isa.SclMaxAsf:
			b.Printf("a0 = (int)clamp(floor(%s.x), -256, 255);", a.operandText(operand3, 4))
		}
	}

	return nil
}

func isKillVector(op isa.AluVectorOpcode) bool {
	switch op {
	case isa.VecKillEq, isa.VecKillGt, isa.VecKillGe, isa.VecKillNe:
		return true
	default:
		return false
	}
}

func isKillScalar(op isa.AluScalarOpcode) bool {
	switch op {
	case isa.SclKillsEq, isa.SclKillsGt, isa.SclKillsGe, isa.SclKillsNe, isa.SclKillsOne:
		return true
	default:
		return false
	}
}

// killVectorCondition builds the comparison clip() tests, per vector kill
// opcode, ahead of the instruction's normal write.
func killVectorCondition(a aluOperands) (string, error) {
	op1 := a.operandText(operand1, 4)
	op2 := a.operandText(operand2, 4)
	switch a.instr.VectorOpcode {
	case isa.VecKillEq:
		return fmt.Sprintf("%s == %s", op1, op2), nil
	case isa.VecKillGt:
		return fmt.Sprintf("%s > %s", op1, op2), nil
	case isa.VecKillGe:
		return fmt.Sprintf("%s >= %s", op1, op2), nil
	case isa.VecKillNe:
		return fmt.Sprintf("%s != %s", op1, op2), nil
	default:
		return "", fmt.Errorf("translator: %v is not a kill opcode", a.instr.VectorOpcode)
	}
}

func saturate(expr string, on bool) string {
	if !on {
		return expr
	}
	return "saturate(" + expr + ")"
}

// exportName resolves a vector export destination to the output struct
// member it targets: registers 0-3 map to the color outputs oC0-oC3,
// other registers to this shader's own interpolator binding, or to oPos
// as the fallback when neither applies. No register maps to oDepth.
func exportName(env *symbols.Environment, dest uint32) string {
	switch dest {
	case 0:
		return "oC0"
	case 1:
		return "oC1"
	case 2:
		return "oC2"
	case 3:
		return "oC3"
	}
	if expr, ok := env.OutputExpressionFor(dest); ok {
		return expr
	}
	return "oPos"
}

// vectorExpression builds the RHS expression for the vector unit of an ALU
// instruction.
func vectorExpression(a aluOperands) (string, error) {
	op1 := func(lanes int) string { return a.operandText(operand1, lanes) }
	op2 := func(lanes int) string { return a.operandText(operand2, lanes) }
	op3 := func(lanes int) string { return a.operandText(operand3, lanes) }

	switch a.instr.VectorOpcode {
	case isa.VecAdd:
		return fmt.Sprintf("(%s + %s)", op1(4), op2(4)), nil
	case isa.VecMul:
		return fmt.Sprintf("(%s * %s)", op1(4), op2(4)), nil
	case isa.VecMax, isa.VecMaxA:
		return fmt.Sprintf("max(%s, %s)", op1(4), op2(4)), nil
	case isa.VecMin:
		return fmt.Sprintf("min(%s, %s)", op1(4), op2(4)), nil
	case isa.VecSeq:
		return fmt.Sprintf("select(%s == %s, 1.0, 0.0)", op1(4), op2(4)), nil
	case isa.VecSgt:
		return fmt.Sprintf("select(%s > %s, 1.0, 0.0)", op1(4), op2(4)), nil
	case isa.VecSge:
		return fmt.Sprintf("select(%s >= %s, 1.0, 0.0)", op1(4), op2(4)), nil
	case isa.VecSne:
		return fmt.Sprintf("select(%s != %s, 1.0, 0.0)", op1(4), op2(4)), nil
	case isa.VecFrc:
		return fmt.Sprintf("frac(%s)", op1(4)), nil
	case isa.VecTrunc:
		return fmt.Sprintf("trunc(%s)", op1(4)), nil
	case isa.VecFloor:
		return fmt.Sprintf("floor(%s)", op1(4)), nil
	case isa.VecMad:
		return fmt.Sprintf("(%s * %s + %s)", op1(4), op2(4), op3(4)), nil
	case isa.VecCndEq:
		return fmt.Sprintf("select(%s == 0.0, %s, %s)", op3(4), op1(4), op2(4)), nil
	case isa.VecCndGe:
		return fmt.Sprintf("select(%s >= 0.0, %s, %s)", op3(4), op1(4), op2(4)), nil
	case isa.VecCndGt:
		return fmt.Sprintf("select(%s > 0.0, %s, %s)", op3(4), op1(4), op2(4)), nil
	case isa.VecDp4:
		return fmt.Sprintf("dot(%s, %s)", op1(4), op2(4)), nil
	case isa.VecDp3:
		return fmt.Sprintf("dot(%s, %s)", op1(3), op2(3)), nil
	case isa.VecDp2Add:
		return fmt.Sprintf("(dot(%s, %s) + %s)", op1(2), op2(2), op3(1)), nil
	case isa.VecCube:
		return fmt.Sprintf("cube(%s, cubeMapData)", op1(4)), nil
	case isa.VecMax4:
		return fmt.Sprintf("max4(%s)", op1(4)), nil
	case isa.VecSetpEqPush, isa.VecSetpNePush, isa.VecSetpGtPush, isa.VecSetpGePush:
		return fmt.Sprintf("setpPush(%s, %s)", op1(4), op2(4)), nil
	case isa.VecKillEq, isa.VecKillGt, isa.VecKillGe, isa.VecKillNe:
		cond, err := killVectorCondition(a)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("select(%s, 1.0, 0.0)", cond), nil
	case isa.VecDst:
		return fmt.Sprintf("dst(%s, %s)", op1(4), op2(4)), nil
	default:
		return "", fmt.Errorf("translator: unknown vector alu opcode %v", a.instr.VectorOpcode)
	}
}

// scalarExpression builds the RHS expression for the scalar unit of an ALU
// instruction. The scalar unit reads only src3 (as one or two operands,
// depending on the opcode) and writes a single replicated component.
func scalarExpression(a aluOperands) (string, error) {
	op := func(lanes int) string { return a.operandText(operand3, lanes) }
	switch a.instr.ScalarOpcode {
	case isa.SclAdds:
		return fmt.Sprintf("(%s.x + %s.y)", op(4), op(4)), nil
	case isa.SclAddsPrev:
		return fmt.Sprintf("(%s.x + ps)", op(4)), nil
	case isa.SclMuls:
		return fmt.Sprintf("(%s.x * %s.y)", op(4), op(4)), nil
	case isa.SclMulsPrev:
		return fmt.Sprintf("(%s.x * ps)", op(4)), nil
	case isa.SclMulsPrev2:
		return fmt.Sprintf("(%s.x * ps)", op(4)), nil
	case isa.SclMaxs:
		return fmt.Sprintf("max(%s.x, %s.y)", op(4), op(4)), nil
	case isa.SclMaxAs, isa.SclMaxAsf:
		return fmt.Sprintf("max(%s.x, %s.y)", op(4), op(4)), nil
	case isa.SclMins:
		return fmt.Sprintf("min(%s.x, %s.y)", op(4), op(4)), nil
	case isa.SclSeqs:
		return fmt.Sprintf("select(%s.x == 0.0, 1.0, 0.0)", op(4)), nil
	case isa.SclSgts:
		return fmt.Sprintf("select(%s.x > 0.0, 1.0, 0.0)", op(4)), nil
	case isa.SclSges:
		return fmt.Sprintf("select(%s.x >= 0.0, 1.0, 0.0)", op(4)), nil
	case isa.SclSnes:
		return fmt.Sprintf("select(%s.x != 0.0, 1.0, 0.0)", op(4)), nil
	case isa.SclFrcs:
		return fmt.Sprintf("frac(%s.x)", op(4)), nil
	case isa.SclTruncs:
		return fmt.Sprintf("trunc(%s.x)", op(4)), nil
	case isa.SclFloors:
		return fmt.Sprintf("floor(%s.x)", op(4)), nil
	case isa.SclExp:
		return fmt.Sprintf("exp2(%s.x)", op(4)), nil
	case isa.SclLogc, isa.SclLog:
		return fmt.Sprintf("clamp(log2(%s.x), -FLT_MAX, FLT_MAX)", op(4)), nil
	case isa.SclRcpc, isa.SclRcpf, isa.SclRcp:
		return fmt.Sprintf("clamp(rcp(%s.x), -FLT_MAX, FLT_MAX)", op(4)), nil
	case isa.SclRsqc, isa.SclRsqf, isa.SclRsq:
		return fmt.Sprintf("clamp(rsqrt(%s.x), -FLT_MAX, FLT_MAX)", op(4)), nil
	case isa.SclSubs:
		return fmt.Sprintf("(%s.x - %s.y)", op(4), op(4)), nil
	case isa.SclSubsPrev:
		return fmt.Sprintf("(%s.x - ps)", op(4)), nil
	case isa.SclSetpEq, isa.SclSetpNe, isa.SclSetpGt, isa.SclSetpGe,
		isa.SclSetpInv, isa.SclSetpPop, isa.SclSetpClr, isa.SclSetpRstr:
		return fmt.Sprintf("setp(%s.x)", op(4)), nil
	case isa.SclKillsEq:
		return fmt.Sprintf("(%s.x == 0.0 ? 1.0 : 0.0)", op(4)), nil
	case isa.SclKillsGt:
		return fmt.Sprintf("(%s.x > 0.0 ? 1.0 : 0.0)", op(4)), nil
	case isa.SclKillsGe:
		return fmt.Sprintf("(%s.x >= 0.0 ? 1.0 : 0.0)", op(4)), nil
	case isa.SclKillsNe:
		return fmt.Sprintf("(%s.x != 0.0 ? 1.0 : 0.0)", op(4)), nil
	case isa.SclKillsOne:
		return fmt.Sprintf("(%s.x == 1.0 ? 1.0 : 0.0)", op(4)), nil
	case isa.SclSqrt:
		return fmt.Sprintf("sqrt(%s.x)", op(4)), nil
	case isa.SclMulsc0, isa.SclMulsc1:
		return fmt.Sprintf("(%s.x * %s.x)", op(4), a.constantOperand(a.scalarConstant1Register())), nil
	case isa.SclAddsc0, isa.SclAddsc1:
		return fmt.Sprintf("(%s.x + %s.x)", op(4), a.constantOperand(a.scalarConstant1Register())), nil
	case isa.SclSubsc0, isa.SclSubsc1:
		return fmt.Sprintf("(%s.x - %s.x)", op(4), a.constantOperand(a.scalarConstant1Register())), nil
	case isa.SclSin:
		return fmt.Sprintf("sin(%s.x)", op(4)), nil
	case isa.SclCos:
		return fmt.Sprintf("cos(%s.x)", op(4)), nil
	case isa.SclRetainPrev:
		return "ps", nil
	default:
		return "", fmt.Errorf("translator: unknown scalar alu opcode %v", a.instr.ScalarOpcode)
	}
}

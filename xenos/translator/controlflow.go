package translator

import (
	"strconv"

	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

// clause is one decoded control-flow instruction together with its
// position in the flattened clause list (its "program counter").
type clause struct {
	pc int
	cf isa.ControlFlowInstruction
}

// decodeClauses flattens the leading run of 96-bit control-flow slots in
// the microcode into individual clauses, stopping at (and including) the
// first clause whose opcode is one of the End variants. The 3-word slots
// consumed become the control-flow table; everything after them is the
// ALU/fetch instruction stream, addressed from zero at that boundary.
func (t *translation) decodeClauses() (clauses []clause, instructionBase int) {
	words := t.container().Microcode
	pc := 0
	for i := 0; i+3 <= len(words); i += 3 {
		var triple [3]uint32
		copy(triple[:], words[i:i+3])
		first, second := isa.DecodeControlFlowPair(triple)

		clauses = append(clauses, clause{pc: pc, cf: first})
		pc++
		done := isEndOpcode(first.Opcode)
		if !done {
			clauses = append(clauses, clause{pc: pc, cf: second})
			pc++
			done = isEndOpcode(second.Opcode)
		}
		if done {
			instructionBase = i + 3
			return clauses, instructionBase
		}
	}
	instructionBase = len(words)
	return clauses, instructionBase
}

func isEndOpcode(op isa.ControlFlowOpcode) bool {
	switch op {
	case isa.CFExecEnd, isa.CFCondExecEnd, isa.CFCondExecPredEnd, isa.CFCondExecPredCleanEnd:
		return true
	default:
		return false
	}
}

// shouldReturnFor decides whether a clause's execution should be followed
// by the function epilogue and an early return. The CondExecPredCleanEnd
// case deliberately compares against CondExecEnd twice rather than against
// CondExecPredCleanEnd, mirroring the original translator's comparison;
// that shader containers never seem to depend on the difference is the
// only reason this has gone unnoticed, and it is preserved here rather
// than "corrected".
func shouldReturnFor(op isa.ControlFlowOpcode) bool {
	switch op {
	case isa.CFExecEnd:
		return true
	case isa.CFCondExecEnd:
		return true
	case isa.CFCondExecPredEnd:
		return true
	case isa.CFCondExecPredCleanEnd:
		return op == isa.CFCondExecEnd || op == isa.CFCondExecEnd
	default:
		return false
	}
}

// isIrreducible reports whether any CondJmp clause is unconditional or
// targets a pc at or before its own: either makes a plain nested if/for
// structuring impossible, forcing the pc-dispatched interpreter form.
func isIrreducible(clauses []clause) bool {
	for _, cl := range clauses {
		if cl.cf.Opcode != isa.CFCondJmp {
			continue
		}
		if cl.cf.IsUnconditional {
			return true
		}
		if target := int(cl.cf.Address); target <= cl.pc {
			return true
		}
	}
	return false
}

func (t *translation) emitBody() error {
	clauses, instructionBase := t.decodeClauses()
	simple := !isIrreducible(clauses)

	if simple {
		return t.emitStructured(clauses, instructionBase)
	}
	return t.emitInterpreter(clauses, instructionBase)
}

// emitStructured emits nested if/for blocks for a reducible clause list.
// Forward conditional jumps close as many enclosing blocks as there are
// jumps that target this pc; this count is computed in a first pass over
// the whole clause list before any code is written.
func (t *translation) emitStructured(clauses []clause, instructionBase int) error {
	closesAt := map[int]int{}
	for _, cl := range clauses {
		if cl.cf.Opcode == isa.CFCondJmp && !cl.cf.IsUnconditional {
			closesAt[int(cl.cf.Address)]++
		}
	}

	b := t.buf
	loopDepth := 0
	for idx, cl := range clauses {
		isLast := idx == len(clauses)-1
		for i := 0; i < closesAt[cl.pc]; i++ {
			b.Dedent()
			b.Line("}")
		}

		switch cl.cf.Opcode {
		case isa.CFExec, isa.CFExecEnd:
			if err := t.emitExecBlock(cl.cf, instructionBase); err != nil {
				return err
			}
			if shouldReturnFor(cl.cf.Opcode) && !isLast {
				t.emitReturnEpilogue()
				b.Line("return output;")
			}
		case isa.CFCondExec, isa.CFCondExecEnd, isa.CFCondExecPred, isa.CFCondExecPredEnd,
			isa.CFCondExecPredClean, isa.CFCondExecPredCleanEnd:
			b.Printf("if (p0) {")
			b.Indent()
			if err := t.emitExecBlock(cl.cf, instructionBase); err != nil {
				return err
			}
			if shouldReturnFor(cl.cf.Opcode) {
				t.emitReturnEpilogue()
				b.Line("return output;")
			}
			b.Dedent()
			b.Line("}")
		case isa.CFLoopStart:
			bound := loopBound(cl.cf.LoopID)
			b.Printf("for (aL = 0; aL < %s; aL++) {", bound)
			b.Indent()
			loopDepth++
		case isa.CFLoopEnd:
			b.Printf("if (aL >= %s) break;", loopBound(cl.cf.LoopID))
			b.Dedent()
			b.Line("}")
			if loopDepth > 0 {
				loopDepth--
			}
		case isa.CFCondJmp:
			effective := cl.cf.Condition != simpleControlFlowTrue
			if effective {
				b.Printf("if (%s) {", boolConditionText(cl.cf))
			} else {
				b.Printf("if (!(%s)) {", boolConditionText(cl.cf))
			}
			b.Indent()
		}
	}
	for i := 0; i < loopDepth; i++ {
		b.Dedent()
		b.Line("}")
	}
	return nil
}

// loopBound names the int4 constant register declared for a given loop id,
// whose x component holds the iteration count LoopStart/LoopEnd test
// against - there is no fixed hardware iteration limit.
func loopBound(loopID uint32) string {
	return "i" + strconv.Itoa(int(loopID)) + ".x"
}

// simpleControlFlowTrue is the "simpleControlFlow" flag from the structured
// emission path, used by the CondJmp polarity XOR below. It is always true
// here: emitStructured only runs on the reducible path.
const simpleControlFlowTrue = true

// boolConditionText renders the predicate a CondJmp clause tests: the
// predicate register p0 if the clause is predicated, else the g_Booleans
// entry at its bool address.
func boolConditionText(cf isa.ControlFlowInstruction) string {
	if cf.IsPredicated {
		return "p0"
	}
	return namedBoolConstant(cf.BoolAddress)
}

func namedBoolConstant(addr uint32) string {
	return "g_Booleans[" + strconv.Itoa(int(addr)) + "]"
}

// emitInterpreter emits the pc-dispatched while(true){switch(pc)} form used
// when the clause list is irreducible.
func (t *translation) emitInterpreter(clauses []clause, instructionBase int) error {
	b := t.buf
	b.Line("uint pc = 0;")
	b.Line("while (true) {")
	b.Indent()
	b.Line("switch (pc) {")
	for _, cl := range clauses {
		b.Printf("case %d: {", cl.pc)
		b.Indent()
		switch cl.cf.Opcode {
		case isa.CFExec, isa.CFExecEnd:
			if err := t.emitExecBlock(cl.cf, instructionBase); err != nil {
				return err
			}
			if shouldReturnFor(cl.cf.Opcode) {
				t.emitReturnEpilogue()
				b.Line("return output;")
			}
		case isa.CFCondExec, isa.CFCondExecEnd, isa.CFCondExecPred, isa.CFCondExecPredEnd,
			isa.CFCondExecPredClean, isa.CFCondExecPredCleanEnd:
			b.Line("if (p0) {")
			b.Indent()
			if err := t.emitExecBlock(cl.cf, instructionBase); err != nil {
				return err
			}
			b.Dedent()
			b.Line("}")
			if shouldReturnFor(cl.cf.Opcode) {
				t.emitReturnEpilogue()
				b.Line("return output;")
			}
		case isa.CFLoopStart:
			b.Line("aL = 0;")
		case isa.CFLoopEnd:
			b.Line("aL++;")
			b.Printf("if (aL < %s) { pc = %d; continue; }", loopBound(cl.cf.LoopID), cl.cf.Address)
		case isa.CFCondJmp:
			effective := cl.cf.Condition // simpleControlFlow is false on the interpreter path, so no XOR
			cond := boolConditionText(cl.cf)
			if !effective {
				cond = "!(" + cond + ")"
			}
			b.Printf("if (%s) { pc = %d; continue; }", cond, cl.cf.Address)
		}
		b.Printf("pc = %d;", cl.pc+1)
		b.Line("continue;")
		b.Dedent()
		b.Line("}")
	}
	b.Line("default: return output;")
	b.Line("}")
	b.Dedent()
	b.Line("}")
	return nil
}

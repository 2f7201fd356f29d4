package isa

import "github.com/xenosrecomp/xenosrecomp/core/data/endian"

// ControlFlowInstruction is one decoded clause from a 96-bit control-flow
// slot. A slot packs two 48-bit clauses; callers decode both halves of a
// slot with DecodeControlFlowPair and advance the program counter by one
// clause at a time.
type ControlFlowInstruction struct {
	Opcode ControlFlowOpcode

	// Exec, ExecEnd, CondExec, CondExecEnd, CondExecPred, CondExecPredEnd,
	// CondExecPredClean, CondExecPredCleanEnd.
	Address  uint32
	Count    uint32
	Sequence uint32

	// LoopStart, LoopEnd.
	LoopID uint32

	// CondJmp.
	IsUnconditional bool
	Direction       int32 // +1 forward, -1 backward, relative to Address
	IsPredicated    bool
	Condition       bool
	BoolAddress     uint32
}

// SequenceBit reports whether slot i (0-based) within this clause's Exec
// block is a fetch instruction (true) or an ALU instruction (false).
func (c ControlFlowInstruction) SequenceBit(i uint32) bool {
	return (c.Sequence>>(2*i))&1 != 0
}

// decodeClause interprets a 48-bit packed clause. The opcode occupies the
// low 6 bits; the remaining 42 bits are interpreted according to it.
func decodeClause(bits uint64) ControlFlowInstruction {
	cur := clauseCursor{bits: bits}
	var c ControlFlowInstruction
	c.Opcode = ControlFlowOpcode(cur.take(6))
	switch c.Opcode {
	case CFExec, CFExecEnd,
		CFCondExec, CFCondExecEnd,
		CFCondExecPred, CFCondExecPredEnd,
		CFCondExecPredClean, CFCondExecPredCleanEnd:
		c.Address = cur.take(12)
		c.Count = cur.take(3)
		c.Sequence = cur.take(12)
	case CFLoopStart:
		c.LoopID = cur.take(5)
	case CFLoopEnd:
		c.LoopID = cur.take(5)
		c.Address = cur.take(12)
	case CFCondJmp:
		c.Address = cur.take(12)
		c.IsUnconditional = cur.take(1) != 0
		if cur.take(1) != 0 {
			c.Direction = -1
		} else {
			c.Direction = 1
		}
		c.IsPredicated = cur.take(1) != 0
		c.Condition = cur.take(1) != 0
		c.BoolAddress = cur.take(8)
	}
	return c
}

// clauseCursor extracts successive low-to-high bit fields from a 48-bit
// packed value.
type clauseCursor struct {
	bits uint64
	pos  uint
}

func (c *clauseCursor) take(width uint) uint32 {
	v := endian.Bits64(c.bits, c.pos, width)
	c.pos += width
	return uint32(v)
}

// DecodeControlFlowPair decodes the two clauses packed into one 96-bit
// control-flow slot (three big-endian 32-bit words).
func DecodeControlFlowPair(words [3]uint32) (first, second ControlFlowInstruction) {
	w0, w1, w2 := words[0], words[1], words[2]
	cf1 := uint64(w0) | uint64(w1&0xFFFF)<<32
	cf2 := uint64((w1>>16)|(w2<<16)) | uint64(w2>>16)<<32
	return decodeClause(cf1), decodeClause(cf2)
}

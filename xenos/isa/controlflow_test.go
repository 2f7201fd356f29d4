package isa_test

import (
	"testing"

	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

func TestDecodeControlFlowPairExec(t *testing.T) {
	var w bitWriter
	w.put(uint32(isa.CFExec), 6)
	w.put(5, 12)   // address
	w.put(2, 3)    // count
	w.put(0b01, 12) // sequence: slot 0 is a fetch

	var w2 bitWriter
	w2.put(uint32(isa.CFCondJmp), 6)
	w2.put(9, 12) // address
	w2.putBool(true) // unconditional
	w2.putBool(false) // direction forward
	w2.putBool(false) // predicated
	w2.putBool(false) // condition
	w2.put(3, 8)      // bool address

	words := [3]uint32{
		w.words[0],
		(w.words[1] & 0xFFFF) | ((w2.words[0] & 0xFFFF) << 16),
		((w2.words[0] >> 16) & 0xFFFF) | ((w2.words[1] & 0xFFFF) << 16),
	}

	first, second := isa.DecodeControlFlowPair(words)
	if first.Opcode != isa.CFExec {
		t.Fatalf("first.Opcode = %v, want CFExec", first.Opcode)
	}
	if first.Address != 5 || first.Count != 2 {
		t.Fatalf("first = %+v", first)
	}
	if !first.SequenceBit(0) {
		t.Fatalf("expected slot 0 to be a fetch")
	}
	if second.Opcode != isa.CFCondJmp {
		t.Fatalf("second.Opcode = %v, want CFCondJmp", second.Opcode)
	}
	if second.Address != 9 || !second.IsUnconditional || second.BoolAddress != 3 {
		t.Fatalf("second = %+v", second)
	}
}

package translator

import (
	"github.com/pkg/errors"

	"github.com/xenosrecomp/xenosrecomp/xenos/isa"
)

// emitExecBlock emits the instructions belonging to one Exec-family clause:
// cf.Count slots starting at cf.Address, each either a fetch or an ALU
// instruction depending on the corresponding bit of cf.Sequence.
func (t *translation) emitExecBlock(cf isa.ControlFlowInstruction, instructionBase int) error {
	words := t.container().Microcode
	for i := uint32(0); i < cf.Count; i++ {
		slot := instructionBase + int(3*(cf.Address+i))
		if slot+3 > len(words) {
			return errors.New("translator: instruction address out of range")
		}
		var triple [3]uint32
		copy(triple[:], words[slot:slot+3])

		if cf.SequenceBit(i) {
			if err := t.emitFetch(triple, cf.Address+i); err != nil {
				return err
			}
		} else {
			if err := t.emitAlu(triple); err != nil {
				return err
			}
		}
	}
	return nil
}

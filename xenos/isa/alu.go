package isa

// AluInstruction decodes the vector+scalar co-issue ALU slot: two
// independent operations (a vector unit writing up to four components and
// a scalar unit writing a single component) packed into one 96-bit slot
// and sharing the same three source operands.
type AluInstruction struct {
	VectorOpcode AluVectorOpcode
	ScalarOpcode AluScalarOpcode
	// ScalarOpcodeLSB is the raw low bit of the encoded scalar opcode field,
	// independent of the symbolic AluScalarOpcode mapping above. The
	// paired 0/1 scalar opcodes (Mulsc0/Mulsc1, Addsc0/Addsc1, Subsc0/
	// Subsc1) use this bit, together with Src3Select and Src3Swizzle, to
	// reconstruct which second scalar constant register was addressed.
	ScalarOpcodeLSB uint32

	VectorWriteMask uint32 // 4 bits, one per xyzw component
	ScalarWriteMask uint32 // 4 bits, one per xyzw component

	ExportData     bool
	VectorSaturate bool
	ScalarSaturate bool

	IsPredicated       bool
	PredicateCondition bool

	AbsConstants bool

	ConstAddressRegisterRelative bool
	Const0Relative               bool
	Const1Relative               bool

	VectorDest uint32
	ScalarDest uint32

	Src1Register uint32
	Src1Swizzle  uint32 // 4 lanes, 2 bits each
	Src1Select   bool   // true: Src1Register addresses a constant, not a GPR
	Src1Negate   bool

	Src2Register uint32
	Src2Swizzle  uint32
	Src2Select   bool
	Src2Negate   bool

	Src3Register uint32
	Src3Swizzle  uint32
	Src3Select   bool
	Src3Negate   bool
}

// Swizzle returns the 2-bit swizzle lane i (0-3) of a packed swizzle field.
func Swizzle(packed uint32, i uint32) uint32 { return (packed >> (i * 2)) & 0x3 }

// DecodeAlu decodes a 96-bit ALU instruction slot.
func DecodeAlu(words [3]uint32) AluInstruction {
	c := newSlotCursor(words)
	var a AluInstruction

	a.VectorOpcode = AluVectorOpcode(c.Take(5))
	scalarRaw := c.Take(6)
	a.ScalarOpcode = AluScalarOpcode(scalarRaw)
	a.ScalarOpcodeLSB = scalarRaw & 1

	a.VectorWriteMask = c.Take(4)
	a.ScalarWriteMask = c.Take(4)

	a.ExportData = c.TakeBool()
	a.VectorSaturate = c.TakeBool()
	a.ScalarSaturate = c.TakeBool()
	a.IsPredicated = c.TakeBool()
	a.PredicateCondition = c.TakeBool()
	a.AbsConstants = c.TakeBool()
	a.ConstAddressRegisterRelative = c.TakeBool()
	a.Const0Relative = c.TakeBool()
	a.Const1Relative = c.TakeBool()

	a.VectorDest = c.Take(6)
	a.ScalarDest = c.Take(6)

	a.Src1Register = c.Take(7)
	a.Src1Swizzle = c.Take(8)
	a.Src1Select = c.TakeBool()
	a.Src1Negate = c.TakeBool()

	a.Src2Register = c.Take(7)
	a.Src2Swizzle = c.Take(8)
	a.Src2Select = c.TakeBool()
	a.Src2Negate = c.TakeBool()

	a.Src3Register = c.Take(7)
	a.Src3Swizzle = c.Take(8)
	a.Src3Select = c.TakeBool()
	a.Src3Negate = c.TakeBool()

	return a
}

package insts

// RegisterFile is the register state an instruction reads and writes.
// Indices are always in [0, NumRegisters) when they come from the Decoder.
type RegisterFile interface {
	Get(index int) int32
	Set(index int, value int32)
}

// Memory is the word-addressed store used by loads and stores. Both
// methods fail on misaligned or unmapped addresses.
type Memory interface {
	GetWord(addr int32) (int32, error)
	SetWord(addr int32, value int32) error
}

// Result reports the control-flow outcome of one instruction.
type Result struct {
	// Branch is true when the instruction asks the host to branch.
	Branch bool

	// Displacement is the branch target in instructions, relative to the
	// instruction following the branch.
	Displacement int32
}

// Operands holds the decoded operand values in syntax order. Register
// operands are indices, immediates are already sign-extended.
type Operands [MaxOperands]int32

// Semantic executes one instruction. It must check every fault condition
// before writing any register or memory word.
type Semantic func(ops Operands, regs RegisterFile, mem Memory) (Result, error)

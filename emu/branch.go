package emu

// BranchUnit resolves branch signals into program counter updates.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// TakeBranch moves the PC by displacement instructions. The PC must already
// point at the instruction after the branch.
func (b *BranchUnit) TakeBranch(displacement int32) {
	b.regFile.PC += uint32(displacement) * 4
}

// Jump sets the PC to an absolute address.
func (b *BranchUnit) Jump(target uint32) {
	b.regFile.PC = target
}

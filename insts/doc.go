// Package insts provides the Race Assembly instruction set: descriptors,
// encoding templates, the instruction table and the decode/dispatch core.
//
// Every instruction is a fixed-width 32-bit word. A Descriptor binds a
// mnemonic to an encoding Template and a Semantic function that runs
// against an injected RegisterFile and Memory.
//
// Usage:
//
//	table := insts.RaceAssembly()
//	decoder := insts.NewDecoder(table)
//	inst, err := decoder.Decode(0x00C72801) // gain $5,$6,$7
//	if err != nil {
//		return err
//	}
//	result, err := inst.Execute(regs, mem)
package insts

// NumRegisters is the number of general-purpose registers addressable by a
// 5-bit register field.
const NumRegisters = 32

// WellKnownV0 is the register incremented by hot when it overheats ($v0).
const WellKnownV0 = 2

// ExtensionName is the display name of the instruction-set extension.
const ExtensionName = "Race Assembly"

// ExtensionDescription describes the instruction-set extension.
const ExtensionDescription = "Assembly language themed after the racing genre"

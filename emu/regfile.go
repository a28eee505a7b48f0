// Package emu provides the functional Race Assembly machine: registers,
// memory, branch processing and the fetch-decode-execute loop.
package emu

import (
	"fmt"

	"github.com/sarchlab/racesim/insts"
)

// Conventional MIPS register numbers.
const (
	RegZero = 0
	RegV0   = 2
	RegGP   = 28
	RegSP   = 29
	RegFP   = 30
	RegRA   = 31
)

var registerNames = [insts.NumRegisters]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// RegisterName returns the conventional name of a register, e.g. "$t0".
func RegisterName(index int) string {
	if index < 0 || index >= len(registerNames) {
		return fmt.Sprintf("$%d", index)
	}
	return "$" + registerNames[index]
}

// RegFile represents the register file. It contains 32 general-purpose
// registers and the program counter. It satisfies insts.RegisterFile.
type RegFile struct {
	// R holds general-purpose registers $0-$31.
	R [insts.NumRegisters]int32

	// PC is the program counter.
	PC uint32

	// HardwireZero makes $zero read as 0 and ignore writes. By default $zero
	// is an ordinary register.
	HardwireZero bool
}

// Get reads a register value.
func (r *RegFile) Get(index int) int32 {
	if r.HardwireZero && index == RegZero {
		return 0
	}
	return r.R[index]
}

// Set writes a register value.
func (r *RegFile) Set(index int, value int32) {
	if r.HardwireZero && index == RegZero {
		return
	}
	r.R[index] = value
}

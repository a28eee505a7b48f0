package insts

import (
	"errors"

	"github.com/sarchlab/racesim/translate"
)

var f = translate.From

var (
	// Table errors
	ErrDuplicateEncoding = errors.New(f("duplicate encoding"))
	ErrDuplicateMnemonic = errors.New(f("duplicate mnemonic"))
	ErrMalformedTemplate = errors.New(f("malformed template"))

	// Decode and encode errors
	ErrUnknownInstruction = errors.New(f("unknown instruction"))
	ErrRegisterRange      = errors.New(f("register out of range"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrOperandCount       = errors.New(f("wrong operand count"))

	// Execution errors
	ErrDivideByZero = errors.New(f("division by zero"))
)

// ArithmeticFault is raised by an instruction whose arithmetic is undefined.
type ArithmeticFault struct {
	Mnemonic string
	Dividend int32
}

func (af *ArithmeticFault) Error() string {
	return f("%v: arithmetic fault: %v", af.Mnemonic, ErrDivideByZero)
}

func (af *ArithmeticFault) Unwrap() error {
	return ErrDivideByZero
}

// MemoryFault is raised when an instruction touches a misaligned or
// unmapped address. Err is the error reported by the Memory.
type MemoryFault struct {
	Mnemonic string
	Addr     int32
	Store    bool
	Err      error
}

func (mf *MemoryFault) Error() string {
	access := "load"
	if mf.Store {
		access = "store"
	}
	return f("%v: address error on %v at %#08x: %v", mf.Mnemonic, access, uint32(mf.Addr), mf.Err)
}

func (mf *MemoryFault) Unwrap() error {
	return mf.Err
}

package insts

import (
	"fmt"
)

// Encode builds the instruction word for d from operand values given in
// syntax order. Registers are indices; immediates may be given in the signed
// or unsigned range of their field. Encoded fields missing from the syntax
// (turbo's third register) are zero unless given.
func Encode(d *Descriptor, ops ...int32) (uint32, error) {
	if len(ops) < d.SyntaxOperands() || len(ops) > d.Template.NumOperands() {
		return 0, fmt.Errorf("%w: %s takes %d, got %d",
			ErrOperandCount, d.Mnemonic, d.SyntaxOperands(), len(ops))
	}

	word := d.Template.Match
	for i, v := range ops {
		fld := d.Template.Fields[i]
		if !fld.Fits(v) {
			if fld.IsRegister() {
				return 0, fmt.Errorf("%w: %s operand %d is $%d", ErrRegisterRange, d.Mnemonic, i+1, v)
			}
			return 0, fmt.Errorf("%w: %s operand %d is %d", ErrImmediateRange, d.Mnemonic, i+1, v)
		}
		word = fld.Insert(word, v)
	}

	return word, nil
}

// MustEncode is like Encode but panics on error.
func MustEncode(d *Descriptor, ops ...int32) uint32 {
	word, err := Encode(d, ops...)
	if err != nil {
		panic(err)
	}
	return word
}

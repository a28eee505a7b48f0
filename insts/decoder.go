package insts

import (
	"errors"
	"fmt"
	"strings"
)

// Instruction is a decoded instruction word. It lives for one fetch.
type Instruction struct {
	Word     uint32
	Desc     *Descriptor
	Operands Operands
}

// Decoder turns instruction words into Instructions using a Table.
type Decoder struct {
	table        *Table
	numRegisters int
}

// DecoderOption is a functional option for configuring the Decoder.
type DecoderOption func(*Decoder)

// WithRegisterCount limits register operands to [0, n).
func WithRegisterCount(n int) DecoderOption {
	return func(d *Decoder) {
		d.numRegisters = n
	}
}

// NewDecoder creates a decoder over table.
func NewDecoder(table *Table, opts ...DecoderOption) *Decoder {
	d := &Decoder{
		table:        table,
		numRegisters: NumRegisters,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Table returns the decoder's instruction table.
func (d *Decoder) Table() *Table {
	return d.table
}

// Decode matches word against the table and extracts its operands.
func (d *Decoder) Decode(word uint32) (*Instruction, error) {
	desc := d.table.Match(word)
	if desc == nil {
		return nil, fmt.Errorf("%w: %#08x", ErrUnknownInstruction, word)
	}

	inst := &Instruction{Word: word, Desc: desc}

	for i, fld := range desc.Template.Fields {
		if !fld.Present() {
			continue
		}

		v := fld.Value(word)
		if fld.IsRegister() && int(v) >= d.numRegisters {
			return nil, fmt.Errorf("%w: %s operand %d is $%d",
				ErrRegisterRange, desc.Mnemonic, i+1, v)
		}

		inst.Operands[i] = v
	}

	return inst, nil
}

// Execute runs the instruction's semantic against regs and mem. Faults are
// returned with the instruction's mnemonic attached.
func (i *Instruction) Execute(regs RegisterFile, mem Memory) (Result, error) {
	res, err := i.Desc.Semantic(i.Operands, regs, mem)
	if err == nil {
		return res, nil
	}

	var af *ArithmeticFault
	if errors.As(err, &af) && af.Mnemonic == "" {
		af.Mnemonic = i.Desc.Mnemonic
	}

	var mf *MemoryFault
	if errors.As(err, &mf) && mf.Mnemonic == "" {
		mf.Mnemonic = i.Desc.Mnemonic
	}

	return Result{}, err
}

// String disassembles the instruction following its descriptor's example
// syntax, e.g. "gain $5,$6,$7" or "dr $8,-4($29)".
func (i *Instruction) String() string {
	_, syntax, found := strings.Cut(i.Desc.Example, " ")
	if !found {
		return i.Desc.Mnemonic
	}

	var sb strings.Builder
	sb.WriteString(i.Desc.Mnemonic)
	sb.WriteByte(' ')

	slot := 0
	for pos := 0; pos < len(syntax); {
		c := syntax[pos]
		if c == ',' || c == '(' || c == ')' {
			sb.WriteByte(c)
			pos++
			continue
		}

		end := pos
		for end < len(syntax) && !strings.ContainsRune(",()", rune(syntax[end])) {
			end++
		}

		sb.WriteString(i.operandText(slot))
		slot++
		pos = end
	}

	return sb.String()
}

// operandText renders the operand written in the n-th syntax position.
// Load/store syntax lists "value, imm(base)" whose slots are f, s, t.
func (i *Instruction) operandText(n int) string {
	if n >= MaxOperands {
		return "?"
	}

	fld := i.Desc.Template.Fields[n]
	v := i.Operands[n]
	if fld.IsRegister() {
		return fmt.Sprintf("$%d", v)
	}
	return fmt.Sprintf("%d", v)
}

package insts

import (
	"fmt"
	"strings"
)

// RegisterFieldWidth is the width of a register operand field in bits.
const RegisterFieldWidth = 5

// MaxOperands is the number of operand slots a template can describe.
const MaxOperands = 3

// operandLetters maps a template character to its operand slot.
var operandLetters = [MaxOperands]byte{'f', 's', 't'}

// Field locates one operand inside an instruction word.
type Field struct {
	Shift uint8 // position of the least significant bit
	Width uint8 // number of bits; 0 when the operand is absent
}

// Present reports whether the operand is encoded at all.
func (f Field) Present() bool {
	return f.Width > 0
}

// IsRegister reports whether the field holds a register index.
func (f Field) IsRegister() bool {
	return f.Width == RegisterFieldWidth
}

// Extract returns the raw, zero-extended field bits of word.
func (f Field) Extract(word uint32) uint32 {
	return (word >> f.Shift) & f.mask()
}

// Value returns the operand value of word. Register fields are returned as
// indices; immediate fields are sign-extended from their width, so a 16-bit
// field goes through the usual `<< 16 >> 16`.
func (f Field) Value(word uint32) int32 {
	raw := f.Extract(word)
	if f.IsRegister() {
		return int32(raw)
	}
	shift := 32 - uint32(f.Width)
	return int32(raw<<shift) >> shift
}

// Insert places value into the field's bits of word.
func (f Field) Insert(word uint32, value int32) uint32 {
	m := f.mask()
	return (word &^ (m << f.Shift)) | ((uint32(value) & m) << f.Shift)
}

// Fits reports whether value can be encoded in the field. Immediates accept
// both the signed and the unsigned range of the field width.
func (f Field) Fits(value int32) bool {
	if f.IsRegister() {
		return value >= 0 && value < NumRegisters
	}
	lo := -(int64(1) << (f.Width - 1))
	hi := int64(1)<<f.Width - 1
	return int64(value) >= lo && int64(value) <= hi
}

func (f Field) mask() uint32 {
	if f.Width >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << f.Width) - 1
}

// Template is a parsed 32-bit encoding pattern such as
// "000000 sssss ttttt fffff 00000 000001".
type Template struct {
	Text   string
	Mask   uint32 // fixed bits
	Match  uint32 // values of the fixed bits
	Fields [MaxOperands]Field
}

// ParseTemplate parses a pattern of '0', '1', 'f', 's' and 't' characters.
// Spaces group fields and are ignored.
func ParseTemplate(text string) (Template, error) {
	t := Template{Text: text}

	var (
		lo    [MaxOperands]int
		hi    [MaxOperands]int
		count [MaxOperands]int
	)
	for i := range lo {
		lo[i] = 32
		hi[i] = -1
	}

	bits := strings.ReplaceAll(text, " ", "")
	if len(bits) != 32 {
		return Template{}, fmt.Errorf("%w: %q has %d bits", ErrMalformedTemplate, text, len(bits))
	}

	for i := 0; i < len(bits); i++ {
		pos := 31 - i
		c := bits[i]
		switch c {
		case '0':
			t.Mask |= 1 << pos
		case '1':
			t.Mask |= 1 << pos
			t.Match |= 1 << pos
		default:
			slot := strings.IndexByte(string(operandLetters[:]), c)
			if slot < 0 {
				return Template{}, fmt.Errorf("%w: %q has unexpected %q", ErrMalformedTemplate, text, c)
			}
			lo[slot] = min(lo[slot], pos)
			hi[slot] = max(hi[slot], pos)
			count[slot]++
		}
	}

	for slot := range count {
		if count[slot] == 0 {
			continue
		}
		if hi[slot]-lo[slot]+1 != count[slot] {
			return Template{}, fmt.Errorf("%w: %q operand %c is not contiguous",
				ErrMalformedTemplate, text, operandLetters[slot])
		}
		if slot > 0 && count[slot-1] == 0 {
			return Template{}, fmt.Errorf("%w: %q operand %c without %c",
				ErrMalformedTemplate, text, operandLetters[slot], operandLetters[slot-1])
		}
		t.Fields[slot] = Field{Shift: uint8(lo[slot]), Width: uint8(count[slot])}
	}

	return t, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(text string) Template {
	t, err := ParseTemplate(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Matches reports whether word carries the template's fixed bits.
func (t Template) Matches(word uint32) bool {
	return word&t.Mask == t.Match
}

// Overlaps reports whether some word matches both templates.
func (t Template) Overlaps(other Template) bool {
	common := t.Mask & other.Mask
	return (t.Match^other.Match)&common == 0
}

// NumOperands returns how many operands the template encodes.
func (t Template) NumOperands() int {
	n := 0
	for _, f := range t.Fields {
		if f.Present() {
			n++
		}
	}
	return n
}

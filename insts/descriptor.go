package insts

import (
	"fmt"
	"strings"
)

// Descriptor defines one instruction: its syntax, encoding and behaviour.
// A Descriptor is immutable once built.
type Descriptor struct {
	Mnemonic    string
	Example     string // example syntax, e.g. "gain $t0,$t1,$t2"
	Description string
	Format      Format
	Template    Template
	Semantic    Semantic
}

// NewDescriptor builds a Descriptor and validates its template against the
// operand format.
func NewDescriptor(
	example, description string,
	format Format,
	template string,
	semantic Semantic,
) (*Descriptor, error) {
	t, err := ParseTemplate(template)
	if err != nil {
		return nil, err
	}

	mnemonic, _, _ := strings.Cut(example, " ")
	if mnemonic == "" {
		return nil, fmt.Errorf("%w: empty mnemonic in %q", ErrMalformedTemplate, example)
	}

	if err := checkFormat(format, t); err != nil {
		return nil, fmt.Errorf("%s: %w", mnemonic, err)
	}

	return &Descriptor{
		Mnemonic:    mnemonic,
		Example:     example,
		Description: description,
		Format:      format,
		Template:    t,
		Semantic:    semantic,
	}, nil
}

// checkFormat verifies that an I or I_BRANCH template carries exactly one
// 16-bit field and that R templates carry only register fields.
func checkFormat(format Format, t Template) error {
	imms := 0
	for _, fld := range t.Fields {
		if !fld.Present() || fld.IsRegister() {
			continue
		}
		if fld.Width != 16 {
			return fmt.Errorf("%w: %d-bit immediate", ErrMalformedTemplate, fld.Width)
		}
		imms++
	}

	switch format {
	case FormatR:
		if imms != 0 {
			return fmt.Errorf("%w: R_FORMAT with immediate", ErrMalformedTemplate)
		}
	case FormatI, FormatIBranch:
		if imms != 1 {
			return fmt.Errorf("%w: %v needs one immediate", ErrMalformedTemplate, format)
		}
	default:
		return fmt.Errorf("%w: unknown format", ErrMalformedTemplate)
	}

	return nil
}

// SyntaxOperands returns how many operands the example syntax names.
// "gre $t0,4($t1)" names three.
func (d *Descriptor) SyntaxOperands() int {
	_, syntax, found := strings.Cut(d.Example, " ")
	if !found {
		return 0
	}
	return len(strings.FieldsFunc(syntax, func(r rune) bool {
		return r == ',' || r == '(' || r == ')'
	}))
}

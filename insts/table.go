package insts

import (
	"fmt"
)

// Table is the closed set of instructions known to a decoder. It is
// populated once and only read afterwards.
type Table struct {
	descs      []*Descriptor
	byMnemonic map[string]*Descriptor
}

// NewTable creates a table holding descs, in order.
func NewTable(descs ...*Descriptor) (*Table, error) {
	t := &Table{
		byMnemonic: make(map[string]*Descriptor, len(descs)),
	}

	for _, d := range descs {
		if err := t.Register(d); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Register adds a descriptor. It fails if any word could match both d and an
// existing entry, or if the mnemonic is already taken.
func (t *Table) Register(d *Descriptor) error {
	if _, ok := t.byMnemonic[d.Mnemonic]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMnemonic, d.Mnemonic)
	}

	for _, existing := range t.descs {
		if existing.Template.Overlaps(d.Template) {
			return fmt.Errorf("%w: %s collides with %s",
				ErrDuplicateEncoding, d.Mnemonic, existing.Mnemonic)
		}
	}

	t.descs = append(t.descs, d)
	t.byMnemonic[d.Mnemonic] = d

	return nil
}

// Match returns the descriptor whose fixed bits match word, or nil.
func (t *Table) Match(word uint32) *Descriptor {
	for _, d := range t.descs {
		if d.Template.Matches(word) {
			return d
		}
	}
	return nil
}

// Lookup returns the descriptor with the given mnemonic, or nil.
func (t *Table) Lookup(mnemonic string) *Descriptor {
	return t.byMnemonic[mnemonic]
}

// Descriptors returns the descriptors in registration order.
func (t *Table) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(t.descs))
	copy(out, t.descs)
	return out
}

// Len returns the number of registered instructions.
func (t *Table) Len() int {
	return len(t.descs)
}

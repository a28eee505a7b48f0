package emu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/akita/v4/mem/mem"

	"github.com/sarchlab/racesim/translate"
)

var f = translate.From

var (
	// ErrMisaligned is returned for word accesses not on a 4-byte boundary.
	ErrMisaligned = errors.New(f("misaligned address"))
	// ErrUnmapped is returned for accesses outside every segment.
	ErrUnmapped = errors.New(f("unmapped address"))
	// ErrSegmentOverlap is returned when two segments share an address.
	ErrSegmentOverlap = errors.New(f("overlapping segments"))
)

// Default segment layout of the host simulator.
const (
	DefaultTextBase  uint32 = 0x00400000
	DefaultDataBase  uint32 = 0x10000000
	DefaultStackBase uint32 = 0x7FF00000
	DefaultStackTop  uint32 = 0x7FFFEFFC
	DefaultGlobalPtr uint32 = 0x10008000

	DefaultSegmentSize uint32 = 0x00100000
)

// SegmentSpec describes one mapped address range.
type SegmentSpec struct {
	Name string
	Base uint32
	Size uint32
}

// DefaultSegments returns the text, data and stack segments.
func DefaultSegments() []SegmentSpec {
	return []SegmentSpec{
		{Name: "text", Base: DefaultTextBase, Size: DefaultSegmentSize},
		{Name: "data", Base: DefaultDataBase, Size: DefaultSegmentSize},
		{Name: "stack", Base: DefaultStackBase, Size: DefaultSegmentSize},
	}
}

type segment struct {
	SegmentSpec
	storage *mem.Storage
}

func (s *segment) contains(addr uint32, n uint32) bool {
	return addr >= s.Base && uint64(addr)+uint64(n) <= uint64(s.Base)+uint64(s.Size)
}

// Memory is a little-endian, byte-addressed store made of segments. Each
// segment is backed by an Akita storage. It satisfies insts.Memory.
type Memory struct {
	segments []*segment
}

// NewMemory creates a memory with the default segment layout.
func NewMemory() *Memory {
	m, err := NewMemoryWithSegments(DefaultSegments()...)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMemoryWithSegments creates a memory mapping exactly the given segments.
// Bases and sizes must be word aligned and segments must not overlap.
func NewMemoryWithSegments(specs ...SegmentSpec) (*Memory, error) {
	m := &Memory{}

	for _, spec := range specs {
		if spec.Base%4 != 0 || spec.Size%4 != 0 || spec.Size == 0 {
			return nil, fmt.Errorf("segment %s: %w: base %#08x size %#x",
				spec.Name, ErrMisaligned, spec.Base, spec.Size)
		}

		seg := &segment{SegmentSpec: spec}
		for _, other := range m.segments {
			if overlaps(seg, other) {
				return nil, fmt.Errorf("%w: %s and %s", ErrSegmentOverlap, spec.Name, other.Name)
			}
		}

		seg.storage = mem.NewStorage(uint64(spec.Size))
		m.segments = append(m.segments, seg)
	}

	sort.Slice(m.segments, func(i, j int) bool {
		return m.segments[i].Base < m.segments[j].Base
	})

	return m, nil
}

func overlaps(a, b *segment) bool {
	aEnd := uint64(a.Base) + uint64(a.Size)
	bEnd := uint64(b.Base) + uint64(b.Size)
	return uint64(a.Base) < bEnd && uint64(b.Base) < aEnd
}

// Segments returns the mapped ranges in address order.
func (m *Memory) Segments() []SegmentSpec {
	out := make([]SegmentSpec, 0, len(m.segments))
	for _, s := range m.segments {
		out = append(out, s.SegmentSpec)
	}
	return out
}

// Segment returns the spec of the segment named name.
func (m *Memory) Segment(name string) (SegmentSpec, bool) {
	for _, s := range m.segments {
		if s.Name == name {
			return s.SegmentSpec, true
		}
	}
	return SegmentSpec{}, false
}

func (m *Memory) find(addr uint32, n uint32) (*segment, error) {
	for _, s := range m.segments {
		if s.contains(addr, n) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %#08x", ErrUnmapped, addr)
}

// Read32 reads an aligned little-endian word.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, fmt.Errorf("%w: %#08x", ErrMisaligned, addr)
	}

	data, err := m.ReadBytes(addr, 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(data), nil
}

// Write32 writes an aligned little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) error {
	if addr%4 != 0 {
		return fmt.Errorf("%w: %#08x", ErrMisaligned, addr)
	}

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)

	return m.WriteBytes(addr, buf[:])
}

// ReadBytes reads n bytes that lie inside one segment.
func (m *Memory) ReadBytes(addr uint32, n uint32) ([]byte, error) {
	seg, err := m.find(addr, n)
	if err != nil {
		return nil, err
	}

	data, err := seg.storage.Read(uint64(addr-seg.Base), uint64(n))
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", seg.Name, err)
	}

	return data, nil
}

// WriteBytes writes data that lies inside one segment.
func (m *Memory) WriteBytes(addr uint32, data []byte) error {
	seg, err := m.find(addr, uint32(len(data)))
	if err != nil {
		return err
	}

	if err := seg.storage.Write(uint64(addr-seg.Base), data); err != nil {
		return fmt.Errorf("segment %s: %w", seg.Name, err)
	}

	return nil
}

// GetWord reads the word at a signed address.
func (m *Memory) GetWord(addr int32) (int32, error) {
	v, err := m.Read32(uint32(addr))
	return int32(v), err
}

// SetWord writes the word at a signed address.
func (m *Memory) SetWord(addr int32, value int32) error {
	return m.Write32(uint32(addr), uint32(value))
}

// LoadWords writes consecutive words starting at addr.
func (m *Memory) LoadWords(addr uint32, words []uint32) error {
	for i, w := range words {
		if err := m.Write32(addr+uint32(4*i), w); err != nil {
			return err
		}
	}
	return nil
}

package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/racesim/emu"
)

// ErrNoText is returned when no loaded segment holds the entry point.
var ErrNoText = errors.New("entry point is outside every segment")

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// DefaultDataAddress is where the host simulator places .data.
const DefaultDataAddress uint32 = 0x10010000

// Segment is a contiguous piece of a program image.
type Segment struct {
	// VirtAddr is the address where this segment is loaded.
	VirtAddr uint32
	// Data contains the segment contents.
	Data []byte
	// MemSize is the size in memory; bytes past len(Data) are zero.
	MemSize uint32
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program is a loaded image ready to be installed into an emulator.
type Program struct {
	// EntryPoint is the address where execution begins.
	EntryPoint uint32
	// Segments lists the image's segments.
	Segments []Segment
}

// Load reads a program image. ELF files are recognized by their magic
// number, .yaml and .yml files are word listings, and anything else is
// treated as raw little-endian words placed at the default text address.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	switch {
	case bytes.HasPrefix(data, []byte(elfMagic)):
		return LoadELF(path)
	case isYAML(path):
		return ParseImage(data)
	default:
		return ParseRaw(data, emu.DefaultTextBase)
	}
}

const elfMagic = "\x7fELF"

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ParseRaw turns little-endian words into a single executable segment at
// base.
func ParseRaw(data []byte, base uint32) (*Program, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("raw program is %d bytes, not a whole number of words", len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[4*i:])
	}

	return FromWords(base, words), nil
}

// FromWords builds a program whose only segment holds words at base.
func FromWords(base uint32, words []uint32) *Program {
	return &Program{
		EntryPoint: base,
		Segments:   []Segment{wordSegment(base, words, SegmentFlagRead|SegmentFlagExecute)},
	}
}

func wordSegment(base uint32, words []uint32, flags SegmentFlags) Segment {
	data := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[4*i:], w)
	}
	return Segment{VirtAddr: base, Data: data, MemSize: uint32(len(data)), Flags: flags}
}

// Text returns the bounds of the segment holding the entry point.
func (p *Program) Text() (start, end uint32, err error) {
	for _, seg := range p.Segments {
		size := max(seg.MemSize, uint32(len(seg.Data)))
		if p.EntryPoint >= seg.VirtAddr && p.EntryPoint-seg.VirtAddr < size {
			return seg.VirtAddr, seg.VirtAddr + size, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %#08x", ErrNoText, p.EntryPoint)
}

// Install writes every segment into the emulator's memory and points the
// emulator at the entry point.
func (p *Program) Install(e *emu.Emulator) error {
	start, end, err := p.Text()
	if err != nil {
		return err
	}

	for _, seg := range p.Segments {
		if err := e.Memory().WriteBytes(seg.VirtAddr, seg.Data); err != nil {
			return fmt.Errorf("failed to install segment at %#08x: %w", seg.VirtAddr, err)
		}

		if seg.MemSize > uint32(len(seg.Data)) {
			zeros := make([]byte, seg.MemSize-uint32(len(seg.Data)))
			addr := seg.VirtAddr + uint32(len(seg.Data))
			if err := e.Memory().WriteBytes(addr, zeros); err != nil {
				return fmt.Errorf("failed to clear segment at %#08x: %w", addr, err)
			}
		}
	}

	e.SetProgramBounds(start, end, p.EntryPoint)

	return nil
}

package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/racesim/emu"
)

// Image is the YAML program format:
//
//	entry: 0x00400000
//	text:
//	  base: 0x00400000
//	  words: [0x00C72801, 0x81080001]
//	data:
//	  words: [5, 7]
//
// Missing bases default to the host simulator's text and data addresses.
// A missing entry defaults to the text base.
type Image struct {
	Entry *uint32      `yaml:"entry,omitempty"`
	Text  ImageSection `yaml:"text"`
	Data  ImageSection `yaml:"data,omitempty"`
}

// ImageSection is a run of words at an address.
type ImageSection struct {
	Base  *uint32  `yaml:"base,omitempty"`
	Words []uint32 `yaml:"words,flow"`
}

// ParseImage decodes a YAML image.
func ParseImage(data []byte) (*Program, error) {
	var image Image
	if err := yaml.Unmarshal(data, &image); err != nil {
		return nil, fmt.Errorf("failed to parse program image: %w", err)
	}

	if len(image.Text.Words) == 0 {
		return nil, fmt.Errorf("program image has no text words")
	}

	textBase := baseOr(image.Text.Base, emu.DefaultTextBase)
	prog := FromWords(textBase, image.Text.Words)
	prog.EntryPoint = baseOr(image.Entry, textBase)

	if len(image.Data.Words) > 0 {
		dataBase := baseOr(image.Data.Base, DefaultDataAddress)
		prog.Segments = append(prog.Segments,
			wordSegment(dataBase, image.Data.Words, SegmentFlagRead|SegmentFlagWrite))
	}

	return prog, nil
}

// MarshalImage renders text words (and optional data words) as a YAML
// image.
func MarshalImage(textBase uint32, text []uint32, data []uint32) ([]byte, error) {
	image := Image{Text: ImageSection{Base: &textBase, Words: text}}
	if len(data) > 0 {
		dataBase := DefaultDataAddress
		image.Data = ImageSection{Base: &dataBase, Words: data}
	}

	out, err := yaml.Marshal(&image)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize program image: %w", err)
	}

	return out, nil
}

func baseOr(base *uint32, def uint32) uint32 {
	if base == nil {
		return def
	}
	return *base
}

// Package config holds the machine configuration of the Race Assembly
// simulator and its YAML file format.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/racesim/emu"
	"github.com/sarchlab/racesim/insts"
)

// Segment is one mapped memory range.
type Segment struct {
	Name string `yaml:"name"`
	Base uint32 `yaml:"base"`
	Size uint32 `yaml:"size"`
}

// MachineConfig describes the machine a program runs on.
type MachineConfig struct {
	// Segments lists the mapped memory ranges. Default: text, data and stack
	// at the host simulator's addresses.
	Segments []Segment `yaml:"segments"`

	// StackPointer is the initial $sp. Default: 0x7FFFEFFC.
	StackPointer uint32 `yaml:"stack_pointer"`

	// GlobalPointer is the initial $gp. Default: 0x10008000.
	GlobalPointer uint32 `yaml:"global_pointer"`

	// ZeroRegister hard-wires $zero to 0. Default: false.
	ZeroRegister bool `yaml:"zero_register"`

	// MaxInstructions stops runaway programs; 0 means no limit.
	// Default: 1,000,000.
	MaxInstructions uint64 `yaml:"max_instructions"`

	// Registers holds initial register values by index.
	Registers map[int]int32 `yaml:"registers,omitempty"`

	// LogLevel is one of trace, debug, info, warn, error. Default: warn.
	LogLevel string `yaml:"log_level"`
}

// DefaultMachineConfig returns a MachineConfig with the host simulator's
// default layout.
func DefaultMachineConfig() *MachineConfig {
	c := &MachineConfig{
		StackPointer:    emu.DefaultStackTop,
		GlobalPointer:   emu.DefaultGlobalPtr,
		MaxInstructions: 1_000_000,
		LogLevel:        "warn",
	}

	for _, s := range emu.DefaultSegments() {
		c.Segments = append(c.Segments, Segment{Name: s.Name, Base: s.Base, Size: s.Size})
	}

	return c
}

// LoadConfig loads a MachineConfig from a YAML file. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine config file: %w", err)
	}

	config := DefaultMachineConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse machine config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes a MachineConfig to a YAML file.
func (c *MachineConfig) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize machine config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write machine config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a usable machine.
func (c *MachineConfig) Validate() error {
	if len(c.Segments) == 0 {
		return fmt.Errorf("segments must not be empty")
	}
	if _, err := c.NewMemory(); err != nil {
		return err
	}
	for index := range c.Registers {
		if index < 0 || index >= insts.NumRegisters {
			return fmt.Errorf("registers: index %d out of range", index)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *MachineConfig) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return emu.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level %q is not one of trace, debug, info, warn, error", c.LogLevel)
	}
}

// NewMemory builds a memory with the configured segments.
func (c *MachineConfig) NewMemory() (*emu.Memory, error) {
	specs := make([]emu.SegmentSpec, 0, len(c.Segments))
	for _, s := range c.Segments {
		specs = append(specs, emu.SegmentSpec{Name: s.Name, Base: s.Base, Size: s.Size})
	}

	memory, err := emu.NewMemoryWithSegments(specs...)
	if err != nil {
		return nil, fmt.Errorf("segments: %w", err)
	}

	return memory, nil
}

// NewEmulator builds an emulator for this machine and seeds its registers.
func (c *MachineConfig) NewEmulator(logger *slog.Logger, opts ...emu.EmulatorOption) (*emu.Emulator, error) {
	memory, err := c.NewMemory()
	if err != nil {
		return nil, err
	}

	all := []emu.EmulatorOption{
		emu.WithMemory(memory),
		emu.WithLogger(logger),
		emu.WithMaxInstructions(c.MaxInstructions),
		emu.WithStackPointer(c.StackPointer),
	}
	if c.ZeroRegister {
		all = append(all, emu.WithZeroRegister())
	}
	all = append(all, opts...)

	e := emu.NewEmulator(all...)
	e.RegFile().Set(emu.RegGP, int32(c.GlobalPointer))
	for index, value := range c.Registers {
		e.RegFile().Set(index, value)
	}

	return e, nil
}

// Clone returns a deep copy of the MachineConfig.
func (c *MachineConfig) Clone() *MachineConfig {
	clone := *c
	clone.Segments = append([]Segment(nil), c.Segments...)
	if c.Registers != nil {
		clone.Registers = make(map[int]int32, len(c.Registers))
		for k, v := range c.Registers {
			clone.Registers[k] = v
		}
	}
	return &clone
}

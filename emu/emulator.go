package emu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/racesim/insts"
)

// ErrMaxInstructions is returned once the instruction budget is spent.
var ErrMaxInstructions = errors.New(f("max instructions reached"))

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Exited is true if the PC left the loaded program.
	Exited bool

	// Branched is true if the instruction took a branch.
	Branched bool

	// Err is set if fetch, decode or execution failed.
	Err error
}

// ExecError reports a failed instruction and where it was fetched from.
type ExecError struct {
	PC   uint32
	Word uint32
	Err  error
}

func (e *ExecError) Error() string {
	return f("PC=%#08x word=%#08x: %v", e.PC, e.Word, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Emulator executes Race Assembly programs functionally, one instruction at
// a time.
type Emulator struct {
	regFile    *RegFile
	memory     *Memory
	decoder    *insts.Decoder
	branchUnit *BranchUnit
	logger     *slog.Logger

	// Loaded program bounds; the program ends when PC leaves them.
	textStart uint32
	textEnd   uint32

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithTable sets the instruction table. The default is insts.RaceAssembly().
func WithTable(table *insts.Table) EmulatorOption {
	return func(e *Emulator) {
		e.decoder = insts.NewDecoder(table)
	}
}

// WithMemory sets the memory the emulator runs against.
func WithMemory(memory *Memory) EmulatorOption {
	return func(e *Emulator) {
		e.memory = memory
	}
}

// WithLogger sets the logger for trace and fault records.
func WithLogger(logger *slog.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithZeroRegister hard-wires $zero to 0.
func WithZeroRegister() EmulatorOption {
	return func(e *Emulator) {
		e.regFile.HardwireZero = true
	}
}

// WithStackPointer sets the initial $sp value.
func WithStackPointer(sp uint32) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.R[RegSP] = int32(sp)
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.memory == nil {
		e.memory = NewMemory()
	}
	if e.decoder == nil {
		e.decoder = insts.NewDecoder(insts.RaceAssembly())
	}
	e.branchUnit = NewBranchUnit(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Decoder returns the emulator's decoder.
func (e *Emulator) Decoder() *insts.Decoder {
	return e.decoder
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram writes words at entry and points the PC at it.
func (e *Emulator) LoadProgram(entry uint32, words []uint32) error {
	if err := e.memory.LoadWords(entry, words); err != nil {
		return fmt.Errorf("load program: %w", err)
	}

	e.textStart = entry
	e.textEnd = entry + uint32(4*len(words))
	e.regFile.PC = entry

	return nil
}

// SetProgramBounds marks [start, end) as the program text and moves the PC
// to entry. Use it when the text was written to memory directly.
func (e *Emulator) SetProgramBounds(start, end, entry uint32) {
	e.textStart = start
	e.textEnd = end
	e.regFile.PC = entry
}

// Done reports whether the PC has left the loaded program.
func (e *Emulator) Done() bool {
	pc := e.regFile.PC
	return pc < e.textStart || pc >= e.textEnd
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.Done() {
		return StepResult{Exited: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	pc := e.regFile.PC

	// 1. Fetch
	word, err := e.memory.Read32(pc)
	if err != nil {
		return e.fail(pc, 0, err)
	}
	e.regFile.PC += 4

	// 2. Decode
	inst, err := e.decoder.Decode(word)
	if err != nil {
		return e.fail(pc, word, err)
	}

	// 3. Execute
	res, err := inst.Execute(e.regFile, e.memory)
	if err != nil {
		return e.fail(pc, word, err)
	}

	// 4. Branch
	if res.Branch {
		e.branchUnit.TakeBranch(res.Displacement)
	}

	e.instructionCount++

	Trace(e.logger, "retire",
		"pc", fmt.Sprintf("%#08x", pc),
		"inst", inst.String(),
		"branch", res.Branch,
	)

	return StepResult{Branched: res.Branch, Exited: e.Done()}
}

// fail rewinds the PC to the faulting instruction and wraps err.
func (e *Emulator) fail(pc, word uint32, err error) StepResult {
	e.regFile.PC = pc
	execErr := &ExecError{PC: pc, Word: word, Err: err}
	e.logger.Warn("instruction failed", "pc", fmt.Sprintf("%#08x", pc), "err", err)
	return StepResult{Err: execErr}
}

// Run executes instructions until the program ends or an error occurs.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Exited {
			return nil
		}
	}
}

// Reset clears registers, the instruction count and the program bounds.
// Memory contents are kept.
func (e *Emulator) Reset() {
	hardwire := e.regFile.HardwireZero
	*e.regFile = RegFile{HardwireZero: hardwire}
	e.instructionCount = 0
	e.textStart = 0
	e.textEnd = 0
}

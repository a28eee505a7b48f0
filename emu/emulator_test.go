package emu_test

import (
	"bytes"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/racesim/emu"
	"github.com/sarchlab/racesim/insts"
)

var _ = Describe("Emulator", func() {
	var (
		e     *emu.Emulator
		table *insts.Table
		logs  *bytes.Buffer
	)

	asm := func(mnemonic string, ops ...int32) uint32 {
		return insts.MustEncode(table.Lookup(mnemonic), ops...)
	}

	BeforeEach(func() {
		table = insts.RaceAssembly()
		logs = &bytes.Buffer{}
		logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: emu.LevelTrace}))
		e = emu.NewEmulator(
			emu.WithTable(table),
			emu.WithLogger(logger),
			emu.WithStackPointer(emu.DefaultStackTop),
		)
	})

	Describe("NewEmulator", func() {
		It("should create an emulator with initialized components", func() {
			Expect(e.RegFile()).NotTo(BeNil())
			Expect(e.Memory()).NotTo(BeNil())
			Expect(e.Decoder().Table()).To(BeIdenticalTo(table))
			Expect(e.RegFile().Get(emu.RegSP)).To(Equal(int32(emu.DefaultStackTop)))
		})

		It("should be done before a program is loaded", func() {
			Expect(e.Done()).To(BeTrue())
			Expect(e.Step().Exited).To(BeTrue())
		})
	})

	Describe("LoadProgram", func() {
		It("should set the PC to the entry point", func() {
			Expect(e.LoadProgram(emu.DefaultTextBase, []uint32{asm("lup", 8)})).To(Succeed())

			Expect(e.RegFile().PC).To(Equal(emu.DefaultTextBase))
			Expect(e.Memory().Read32(emu.DefaultTextBase)).To(Equal(uint32(0x00004008)))
		})

		It("should fail outside mapped memory", func() {
			err := e.LoadProgram(0x20000000, []uint32{0})
			Expect(err).To(MatchError(emu.ErrUnmapped))
		})
	})

	Describe("Step", func() {
		It("should execute gain and advance the PC", func() {
			e.RegFile().Set(6, 10)
			e.RegFile().Set(7, 32)
			Expect(e.LoadProgram(emu.DefaultTextBase, []uint32{asm("gain", 5, 6, 7)})).To(Succeed())

			result := e.Step()

			Expect(result.Err).To(BeNil())
			Expect(result.Exited).To(BeTrue())
			Expect(e.RegFile().Get(5)).To(Equal(int32(42)))
			Expect(e.RegFile().PC).To(Equal(emu.DefaultTextBase + 4))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should take a branch relative to the next instruction", func() {
			program := []uint32{
				asm("cklap", 0, 0, 1), // skip the next instruction
				asm("fuel", 8, 1),
				asm("fuel", 9, 2),
			}
			Expect(e.LoadProgram(emu.DefaultTextBase, program)).To(Succeed())

			result := e.Step()

			Expect(result.Branched).To(BeTrue())
			Expect(e.RegFile().PC).To(Equal(emu.DefaultTextBase + 8))

			Expect(e.Run()).To(Succeed())
			Expect(e.RegFile().Get(8)).To(Equal(int32(0)))
			Expect(e.RegFile().Get(9)).To(Equal(int32(2)))
		})

		It("should log retired instructions at trace level", func() {
			Expect(e.LoadProgram(emu.DefaultTextBase, []uint32{asm("gain", 5, 6, 7)})).To(Succeed())

			e.Step()

			Expect(logs.String()).To(ContainSubstring("gain $5,$6,$7"))
		})
	})

	Describe("Run", func() {
		// fuel $8,0 ; fuel $9,5 ; fuel $10,0
		// loop: lup $8 ; gain $10,$10,$8 ; hz $8,$9,loop
		It("should sum 1..5 in a loop", func() {
			program := []uint32{
				asm("fuel", 8, 0),
				asm("fuel", 9, 5),
				asm("fuel", 10, 0),
				asm("lup", 8),
				asm("gain", 10, 10, 8),
				asm("hz", 8, 9, -3),
			}
			Expect(e.LoadProgram(emu.DefaultTextBase, program)).To(Succeed())

			Expect(e.Run()).To(Succeed())

			Expect(e.RegFile().Get(10)).To(Equal(int32(15)))
			Expect(e.InstructionCount()).To(Equal(uint64(18)))
			Expect(e.RegFile().PC).To(Equal(emu.DefaultTextBase + 24))
		})

		It("should store and load through the stack", func() {
			program := []uint32{
				asm("fuel", 8, 0xFFFF),
				asm("gre", 8, -4, emu.RegSP),
				asm("dr", 9, -4, emu.RegSP),
			}
			Expect(e.LoadProgram(emu.DefaultTextBase, program)).To(Succeed())

			Expect(e.Run()).To(Succeed())

			Expect(e.RegFile().Get(9)).To(Equal(int32(-1)))
			Expect(e.Memory().GetWord(int32(emu.DefaultStackTop - 4))).To(Equal(int32(-1)))
		})

		It("should stop at a divide by zero with the PC on the fault", func() {
			program := []uint32{
				asm("fuel", 8, 9),
				asm("split", 10, 8, 11),
				asm("fuel", 12, 1),
			}
			Expect(e.LoadProgram(emu.DefaultTextBase, program)).To(Succeed())

			err := e.Run()

			var execErr *emu.ExecError
			Expect(errors.As(err, &execErr)).To(BeTrue())
			Expect(execErr.PC).To(Equal(emu.DefaultTextBase + 4))
			Expect(execErr.Word).To(Equal(program[1]))
			Expect(err).To(MatchError(insts.ErrDivideByZero))

			var af *insts.ArithmeticFault
			Expect(errors.As(err, &af)).To(BeTrue())
			Expect(af.Mnemonic).To(Equal("split"))

			Expect(e.RegFile().PC).To(Equal(emu.DefaultTextBase + 4))
			Expect(e.RegFile().Get(10)).To(Equal(int32(0)))
			Expect(e.RegFile().Get(12)).To(Equal(int32(0)))
			Expect(e.InstructionCount()).To(Equal(uint64(1)))
		})

		It("should report a misaligned load with its address", func() {
			program := []uint32{asm("dr", 9, 2, emu.RegSP)}
			Expect(e.LoadProgram(emu.DefaultTextBase, program)).To(Succeed())

			err := e.Run()

			var mf *insts.MemoryFault
			Expect(errors.As(err, &mf)).To(BeTrue())
			Expect(uint32(mf.Addr)).To(Equal(emu.DefaultStackTop + 2))
			Expect(err).To(MatchError(emu.ErrMisaligned))
			Expect(logs.String()).To(ContainSubstring("instruction failed"))
		})

		It("should report unknown instructions", func() {
			Expect(e.LoadProgram(emu.DefaultTextBase, []uint32{0xFFFFFFFF})).To(Succeed())

			err := e.Run()

			Expect(err).To(MatchError(insts.ErrUnknownInstruction))
		})

		It("should stop at the instruction budget", func() {
			e = emu.NewEmulator(emu.WithMaxInstructions(10))
			program := []uint32{asm("cklap", 0, 0, -1)}
			Expect(e.LoadProgram(emu.DefaultTextBase, program)).To(Succeed())

			err := e.Run()

			Expect(err).To(MatchError(emu.ErrMaxInstructions))
			Expect(e.InstructionCount()).To(Equal(uint64(10)))
		})

		It("should keep $zero at zero when hard-wired", func() {
			e = emu.NewEmulator(emu.WithZeroRegister())
			program := []uint32{
				asm("fuel", 0, 7),
				asm("gain", 8, 0, 0),
			}
			Expect(e.LoadProgram(emu.DefaultTextBase, program)).To(Succeed())

			Expect(e.Run()).To(Succeed())

			Expect(e.RegFile().Get(0)).To(Equal(int32(0)))
			Expect(e.RegFile().Get(8)).To(Equal(int32(0)))
		})

		It("should double with turbo end to end", func() {
			e.RegFile().Set(3, -5)
			Expect(e.LoadProgram(emu.DefaultTextBase, []uint32{asm("turbo", 3, 3)})).To(Succeed())

			Expect(e.Run()).To(Succeed())

			Expect(e.RegFile().Get(3)).To(Equal(int32(-10)))
		})
	})

	Describe("Reset", func() {
		It("should clear registers and keep the zero wiring", func() {
			e = emu.NewEmulator(emu.WithZeroRegister())
			e.RegFile().Set(8, 3)

			e.Reset()

			Expect(e.RegFile().Get(8)).To(Equal(int32(0)))
			Expect(e.RegFile().HardwireZero).To(BeTrue())
			Expect(e.Done()).To(BeTrue())
		})
	})
})

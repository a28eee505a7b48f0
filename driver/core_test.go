package driver_test

import (
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/racesim/driver"
	"github.com/sarchlab/racesim/emu"
	"github.com/sarchlab/racesim/insts"
)

var _ = Describe("Core", func() {
	var (
		table    *insts.Table
		emulator *emu.Emulator
	)

	encode := func(mnemonic string, ops ...int32) uint32 {
		return insts.MustEncode(table.Lookup(mnemonic), ops...)
	}

	BeforeEach(func() {
		table = insts.RaceAssembly()
		emulator = emu.NewEmulator()
	})

	It("should run a program to completion on a serial engine", func() {
		// $8 counts down from 3 while $9 accumulates 10 per lap.
		Expect(emulator.LoadProgram(emu.DefaultTextBase, []uint32{
			encode("fuel", 8, 3),
			encode("put", 9, 9, 10),
			encode("cool", 8, 8, 1),
			encode("hz", 8, 0, -3),
		})).To(Succeed())

		engine := sim.NewSerialEngine()
		core := driver.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithEmulator(emulator).
			Build("Core")

		core.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(core.Halted()).To(BeTrue())
		Expect(core.Err()).NotTo(HaveOccurred())
		Expect(emulator.RegFile().Get(9)).To(Equal(int32(30)))
		Expect(core.Cycles()).To(Equal(uint64(10)))
		Expect(float64(engine.CurrentTime())).To(BeNumerically(">", 0))
	})

	It("should halt on a fault", func() {
		Expect(emulator.LoadProgram(emu.DefaultTextBase, []uint32{
			encode("fuel", 8, 1),
			encode("split", 9, 8, 0),
			encode("fuel", 10, 1),
		})).To(Succeed())

		_, err := driver.Run(emulator, 1*sim.GHz, slog.Default())

		var fault *insts.ArithmeticFault
		Expect(err).To(BeAssignableToTypeOf(&emu.ExecError{}))
		Expect(err).To(MatchError(insts.ErrDivideByZero))
		Expect(errors.As(err, &fault)).To(BeTrue())
		Expect(emulator.RegFile().Get(10)).To(Equal(int32(0)))
		Expect(emulator.InstructionCount()).To(Equal(uint64(1)))
	})

	It("should not tick after halting", func() {
		Expect(emulator.LoadProgram(emu.DefaultTextBase, []uint32{
			encode("lup", 8),
		})).To(Succeed())

		core := driver.MakeBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithEmulator(emulator).
			Build("Core")

		Expect(core.Tick()).To(BeTrue())
		Expect(core.Halted()).To(BeTrue())
		Expect(core.Tick()).To(BeFalse())
		Expect(emulator.RegFile().Get(8)).To(Equal(int32(1)))
	})

	It("should refuse to build without an emulator", func() {
		Expect(func() { driver.MakeBuilder().Build("Core") }).To(Panic())
	})
})

// Package driver runs the emulator under an Akita engine, retiring one
// instruction per clock cycle.
package driver

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/racesim/emu"
)

// Core is a ticking component wrapping an Emulator.
type Core struct {
	*sim.TickingComponent

	emulator *emu.Emulator
	logger   *slog.Logger

	halted bool
	err    error
	cycles uint64
}

// Emulator returns the wrapped emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// Halted reports whether the program ended or faulted.
func (c *Core) Halted() bool {
	return c.halted
}

// Err returns the fault that halted the core, if any.
func (c *Core) Err() error {
	return c.err
}

// Cycles returns the number of ticks that retired an instruction.
func (c *Core) Cycles() uint64 {
	return c.cycles
}

// Start schedules the first tick.
func (c *Core) Start() {
	c.TickLater()
}

// Tick executes one instruction.
func (c *Core) Tick() (madeProgress bool) {
	if c.halted {
		return false
	}

	result := c.emulator.Step()
	if result.Err != nil {
		c.halt(result.Err)
		return false
	}

	c.cycles++

	if result.Exited {
		c.halt(nil)
	}

	return true
}

func (c *Core) halt(err error) {
	c.halted = true
	c.err = err

	c.logger.Debug("core halted",
		"core", c.Name(),
		"time", float64(c.Engine.CurrentTime()),
		"instructions", c.emulator.InstructionCount(),
		"err", err,
	)
}

// Run drives the emulator on a fresh serial engine until the program ends.
// It returns the simulated time at which the core halted.
func Run(emulator *emu.Emulator, freq sim.Freq, logger *slog.Logger) (sim.VTimeInSec, error) {
	engine := sim.NewSerialEngine()

	core := MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithEmulator(emulator).
		WithLogger(logger).
		Build("Core")

	core.Start()

	if err := engine.Run(); err != nil {
		return engine.CurrentTime(), fmt.Errorf("engine: %w", err)
	}

	return engine.CurrentTime(), core.Err()
}

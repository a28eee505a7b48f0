package driver

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/racesim/emu"
)

// Builder can create new cores.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	emulator *emu.Emulator
	logger   *slog.Logger
}

// MakeBuilder returns a Builder with a 1 GHz clock.
func MakeBuilder() Builder {
	return Builder{
		freq:   1 * sim.GHz,
		logger: slog.Default(),
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithEmulator sets the emulator the core steps.
func (b Builder) WithEmulator(emulator *emu.Emulator) Builder {
	b.emulator = emulator
	return b
}

// WithLogger sets the logger for halt records.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	if b.emulator == nil {
		panic("driver: emulator is not set")
	}

	c := &Core{
		emulator: b.emulator,
		logger:   b.logger,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	return c
}

// Package main provides the racesim command, which runs Race Assembly
// programs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/racesim/config"
	"github.com/sarchlab/racesim/driver"
	"github.com/sarchlab/racesim/emu"
	"github.com/sarchlab/racesim/insts"
	"github.com/sarchlab/racesim/loader"
)

var (
	configPath = flag.String("config", "", "Path to machine configuration YAML file")
	saveConfig = flag.String("save-config", "", "Write the effective machine configuration to this YAML file")
	useAkita   = flag.Bool("akita", false, "Drive the emulator from an Akita serial engine")
	dump       = flag.Bool("dump", false, "Print the register file when the run ends")
	verbose    = flag.Bool("v", false, "Trace every retired instruction")
	listISA    = flag.Bool("isa", false, "List the instruction set and exit")
	cpuProfile = flag.String("cpuprofile", "", "Write a CPU profile to this file")
	memProfile = flag.String("memprofile", "", "Write a heap profile to this file on exit")
)

func main() {
	flag.Parse()

	if *listISA {
		fmt.Println(renderISA(insts.RaceAssembly()))
		atexit.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: racesim [options] <program>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	machine, err := loadMachine(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading machine config: %v\n", err)
		atexit.Exit(1)
	}

	if *saveConfig != "" {
		if err := machine.SaveConfig(*saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving machine config: %v\n", err)
			atexit.Exit(1)
		}
	}

	logger, err := newLogger(machine, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}
	slog.SetDefault(logger)

	emulator, err := setup(machine, flag.Arg(0), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		atexit.Exit(1)
	}

	if err := startProfiling(*cpuProfile, *memProfile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	if *dump {
		atexit.Register(func() {
			fmt.Println(renderRegisters(emulator.RegFile()))
		})
	}

	if err := execute(emulator, *useAkita, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	logger.Info("program finished",
		"program", flag.Arg(0),
		"instructions", emulator.InstructionCount(),
	)

	atexit.Exit(0)
}

func loadMachine(path string) (*config.MachineConfig, error) {
	if path == "" {
		return config.DefaultMachineConfig(), nil
	}
	return config.LoadConfig(path)
}

func newLogger(machine *config.MachineConfig, verbose bool) (*slog.Logger, error) {
	level, err := machine.Level()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = emu.LevelTrace
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler), nil
}

// setup builds the machine and installs the program into it.
func setup(
	machine *config.MachineConfig,
	programPath string,
	logger *slog.Logger,
) (*emu.Emulator, error) {
	prog, err := loader.Load(programPath)
	if err != nil {
		return nil, err
	}

	emulator, err := machine.NewEmulator(logger)
	if err != nil {
		return nil, err
	}

	if err := prog.Install(emulator); err != nil {
		return nil, err
	}

	logger.Debug("program loaded",
		"program", programPath,
		"entry", fmt.Sprintf("%#08x", prog.EntryPoint),
		"segments", len(prog.Segments),
	)

	return emulator, nil
}

// execute runs the emulator directly or under the Akita engine.
func execute(emulator *emu.Emulator, akita bool, logger *slog.Logger) error {
	if !akita {
		return emulator.Run()
	}

	now, err := driver.Run(emulator, 1*sim.GHz, logger)
	logger.Info("engine stopped", "time", float64(now))

	return err
}

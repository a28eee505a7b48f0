// Package benchmarks provides a workload harness for the Race Assembly
// emulator.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/racesim/config"
	"github.com/sarchlab/racesim/driver"
	"github.com/sarchlab/racesim/emu"
	"github.com/sarchlab/racesim/loader"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// InstructionsRetired is the number of completed instructions.
	InstructionsRetired uint64 `json:"instructions_retired"`

	// SimulatedTime is the engine time at halt, in seconds. It is only set
	// when the harness runs under the Akita engine.
	SimulatedTime float64 `json:"simulated_time_s,omitempty"`

	// Result is the value left in the benchmark's result register.
	Result int32 `json:"result"`

	// Passed is true if Result matched the expected value.
	Passed bool `json:"passed"`

	// Err is the fault that stopped the program, if any.
	Err string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation.
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	Name        string
	Description string

	// Setup prepares the emulator state before the run.
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Program is the encoded Race Assembly text.
	Program []uint32

	// ResultReg holds the value checked after the run.
	ResultReg int

	// Expected is the value ResultReg must hold.
	Expected int32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Machine describes the machine each benchmark runs on.
	Machine *config.MachineConfig

	// UseAkita drives each run from an Akita serial engine.
	UseAkita bool

	// Output is where to write results (default: os.Stdout).
	Output io.Writer

	// Logger receives emulator records (default: slog.Default()).
	Logger *slog.Logger
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Machine: config.DefaultMachineConfig(),
		Output:  os.Stdout,
		Logger:  slog.Default(),
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Harness{config: config}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	emulator, err := h.config.Machine.NewEmulator(h.config.Logger)
	if err == nil {
		err = loader.FromWords(emu.DefaultTextBase, bench.Program).Install(emulator)
	}
	if err != nil {
		result.Err = err.Error()
		return result
	}

	if bench.Setup != nil {
		bench.Setup(emulator.RegFile(), emulator.Memory())
	}

	start := time.Now()
	if h.config.UseAkita {
		var now sim.VTimeInSec
		now, err = driver.Run(emulator, 1*sim.GHz, h.config.Logger)
		result.SimulatedTime = float64(now)
	} else {
		err = emulator.Run()
	}
	result.WallTime = time.Since(start)

	result.InstructionsRetired = emulator.InstructionCount()
	result.Result = emulator.RegFile().Get(bench.ResultReg)
	if err != nil {
		result.Err = err.Error()
	}
	result.Passed = err == nil && result.Result == bench.Expected

	return result
}

// PrintResults outputs benchmark results as a table.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	t := table.NewWriter()
	t.SetTitle("RaceSim Benchmark Results")
	t.AppendHeader(table.Row{"Benchmark", "Instructions", "Result", "Passed", "Wall Time", "Error"})

	for _, r := range results {
		t.AppendRow(table.Row{r.Name, r.InstructionsRetired, r.Result, r.Passed, r.WallTime, r.Err})
	}

	_, _ = fmt.Fprintln(h.config.Output, t.Render())
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "name,instructions,result,passed,wall_time_ns")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%t,%d\n",
			r.Name,
			r.InstructionsRetired,
			r.Result,
			r.Passed,
			r.WallTime.Nanoseconds(),
		)
	}
}

// BenchmarkReport is the complete JSON output format.
type BenchmarkReport struct {
	Timestamp string            `json:"timestamp"`
	Akita     bool              `json:"akita"`
	Results   []BenchmarkResult `json:"results"`

	TotalInstructions uint64        `json:"total_instructions"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Akita:     h.config.UseAkita,
		Results:   results,
	}

	for _, r := range results {
		report.TotalInstructions += r.InstructionsRetired
		report.TotalWallTime += r.WallTime
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

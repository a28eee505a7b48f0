// Command benchmark runs the RaceSim workload harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv     Output results in CSV format (default: table)
//	-json    Output results in JSON format
//	-akita   Drive each workload from an Akita serial engine
//	-config  Path to machine configuration YAML file
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/racesim/benchmarks"
	"github.com/sarchlab/racesim/config"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	useAkita := flag.Bool("akita", false, "Drive each workload from an Akita serial engine")
	configPath := flag.String("config", "", "Path to machine configuration YAML file")
	flag.Parse()

	harnessConfig := benchmarks.DefaultConfig()
	harnessConfig.UseAkita = *useAkita
	harnessConfig.Output = os.Stdout

	if *configPath != "" {
		machine, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading machine config: %v\n", err)
			atexit.Exit(1)
		}
		harnessConfig.Machine = machine
	}

	harness := benchmarks.NewHarness(harnessConfig)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			atexit.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Passed {
			atexit.Exit(1)
		}
	}

	atexit.Exit(0)
}

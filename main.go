// Package main provides the entry point for RaceSim.
// RaceSim is a functional simulator for Race Assembly, a racing-themed
// extension of the MIPS32 instruction set, built on Akita.
//
// For the full CLI, use: go run ./cmd/racesim
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/racesim/insts"
)

func main() {
	fmt.Printf("RaceSim - %s simulator\n", insts.ExtensionName)
	fmt.Println(insts.ExtensionDescription)
	fmt.Println("")
	fmt.Println("Usage: racesim [options] <program>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config       Path to machine configuration YAML file")
	fmt.Println("  -save-config  Write the effective machine configuration to a YAML file")
	fmt.Println("  -akita        Drive the emulator from an Akita serial engine")
	fmt.Println("  -dump         Print the register file when the run ends")
	fmt.Println("  -v            Trace every retired instruction")
	fmt.Println("  -isa          List the instruction set and exit")
	fmt.Println("  -cpuprofile   Write a CPU profile to a file")
	fmt.Println("  -memprofile   Write a heap profile to a file on exit")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/racesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/racesim' instead.")
	}
}

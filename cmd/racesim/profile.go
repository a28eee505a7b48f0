package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/tebeka/atexit"
)

// startProfiling starts the requested profiles and registers exit handlers
// that stop and write them.
func startProfiling(cpuPath, memPath string) error {
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}

		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}

		atexit.Register(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}

	if memPath != "" {
		atexit.Register(func() {
			f, err := os.Create(memPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
				return
			}
			defer func() { _ = f.Close() }()

			if err := pprof.WriteHeapProfile(f); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
			}
		})
	}

	return nil
}

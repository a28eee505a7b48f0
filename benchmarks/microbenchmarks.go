package benchmarks

import (
	"github.com/sarchlab/racesim/emu"
	"github.com/sarchlab/racesim/insts"
)

var isa = insts.RaceAssembly()

// asm encodes one instruction by mnemonic.
func asm(mnemonic string, ops ...int32) uint32 {
	return insts.MustEncode(isa.Lookup(mnemonic), ops...)
}

// GetMicrobenchmarks returns the standard set of workloads. Each one leans
// on a different group of instructions.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		lapCounter(),
		pitStopSwaps(),
		garageWalk(),
		overtakeLoop(),
		heatUp(),
		turboSplit(),
	}
}

// lapCounter counts 1000 laps with lup, cool and hz.
func lapCounter() Benchmark {
	return Benchmark{
		Name:        "lap_counter",
		Description: "1000-iteration countdown loop",
		Program: []uint32{
			asm("fuel", 8, 1000),
			asm("lup", 9),
			asm("cool", 8, 8, 1),
			asm("hz", 8, 0, -3),
		},
		ResultReg: 9,
		Expected:  1000,
	}
}

// pitStopSwaps swaps two registers an even number of times.
func pitStopSwaps() Benchmark {
	return Benchmark{
		Name:        "pit_stop_swaps",
		Description: "500 register swaps",
		Program: []uint32{
			asm("fuel", 8, 7),
			asm("fuel", 9, 3),
			asm("fuel", 10, 500),
			asm("pit", 8, 9),
			asm("cool", 10, 10, 1),
			asm("hz", 10, 0, -3),
		},
		ResultReg: 8,
		Expected:  7,
	}
}

// garageWalk round-trips a counter through the stack and sums it.
func garageWalk() Benchmark {
	return Benchmark{
		Name:        "garage_walk",
		Description: "store, load and accumulate 100 values on the stack",
		Program: []uint32{
			asm("fuel", 8, 100),
			asm("gre", 8, -4, emu.RegSP),
			asm("dr", 9, -4, emu.RegSP),
			asm("gain", 10, 10, 9),
			asm("cool", 8, 8, 1),
			asm("hz", 8, 0, -5),
		},
		ResultReg: 10,
		Expected:  5050,
	}
}

// overtakeLoop counts up until one register overtakes the other.
func overtakeLoop() Benchmark {
	return Benchmark{
		Name:        "overtake_loop",
		Description: "count to 200 with a taken otk branch",
		Program: []uint32{
			asm("fuel", 8, 0),
			asm("fuel", 9, 200),
			asm("lup", 8),
			asm("otk", 9, 8, -2),
		},
		ResultReg: 8,
		Expected:  200,
	}
}

// heatUp overheats $v0 once per lap past the threshold.
func heatUp() Benchmark {
	return Benchmark{
		Name:        "heat_up",
		Description: "hot across the overheat threshold for 300 laps",
		Program: []uint32{
			asm("fuel", 8, 0),
			asm("fuel", 10, 300),
			asm("hot", 9, 8, 100),
			asm("lup", 8),
			asm("cool", 10, 10, 1),
			asm("hz", 10, 0, -4),
		},
		ResultReg: emu.RegV0,
		Expected:  199,
	}
}

// turboSplit doubles a value ten times then divides and multiplies it.
func turboSplit() Benchmark {
	program := []uint32{asm("fuel", 8, 1)}
	for range 10 {
		program = append(program, asm("turbo", 8, 8))
	}
	program = append(program,
		asm("fuel", 9, 4),
		asm("split", 8, 8, 9),
		asm("nos", 8, 8, 9),
		asm("skid", 8, 8),
	)

	return Benchmark{
		Name:        "turbo_split",
		Description: "unrolled turbo chain with split and nos",
		Program:     program,
		ResultReg:   8,
		Expected:    1024,
	}
}

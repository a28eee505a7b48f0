package insts

// raceSpec is one row of the Race Assembly catalogue.
type raceSpec struct {
	example     string
	description string
	format      Format
	template    string
	semantic    Semantic
}

var raceCatalogue = []raceSpec{
	{
		"gain $t0,$t1,$t2", "Gain (add): $t0 = $t1 + $t2",
		FormatR, "000000 sssss ttttt fffff 00000 000001",
		binaryOp(func(a, b int32) int32 { return a + b }),
	},
	{
		"lose $t0,$t1,$t2", "Lose (sub): $t0 = $t1 - $t2",
		FormatR, "000000 sssss ttttt fffff 00000 000010",
		binaryOp(func(a, b int32) int32 { return a - b }),
	},
	{
		"put $t0,$t1,-100", "put (addi): $t0 = $t1 + imm",
		FormatI, "100000 sssss fffff tttttttttttttttt",
		immediateOp(func(a, imm int32) int32 { return a + imm }),
	},
	{
		"weld $t0,$t1,$t2", "Weld (AND): $t0 = $t1 & $t2",
		FormatR, "000000 sssss ttttt fffff 00000 000011",
		binaryOp(func(a, b int32) int32 { return a & b }),
	},
	{
		"merge $t0,$t1,$t2", "Merge (OR): $t0 = $t1 | $t2",
		FormatR, "000000 sssss ttttt fffff 00000 000100",
		binaryOp(func(a, b int32) int32 { return a | b }),
	},
	{
		"vs $t0,$t1,$t2", "Versus (compare): $t0 = 1 if ($t1 < $t2) else 0",
		FormatR, "000000 sssss ttttt fffff 00000 000101",
		binaryOp(func(a, b int32) int32 {
			if a < b {
				return 1
			}
			return 0
		}),
	},
	{
		"gre $t0,4($t1)", "Garage (Store): memory[$t1 + imm] = $t0",
		FormatI, "100001 ttttt fffff ssssssssssssssss",
		garage,
	},
	{
		"dr $t0,4($t1)", "Drive (Load): $t0 = memory[$t1 + imm]",
		FormatI, "100010 ttttt fffff ssssssssssssssss",
		drive,
	},
	{
		"nos $t0,$t1,$t2", "Nitro (Multiply): $t0 = $t1 * $t2",
		FormatR, "000000 sssss ttttt fffff 00000 000110",
		binaryOp(func(a, b int32) int32 { return a * b }),
	},
	{
		"split $t0,$t1,$t2", "Split (Divide): $t0 = $t1 / $t2",
		FormatR, "000000 sssss ttttt fffff 00000 000111",
		split,
	},
	{
		"fuel $t0,100", "Fuel up: $t0 = imm",
		FormatI, "100011 fffff 00000 ssssssssssssssss",
		fuel,
	},
	{
		"lup $t0", "Lap up: $t0 = $t0 + 1",
		FormatR, "000000 00000 00000 fffff 00000 001000",
		lapUp,
	},
	{
		"cklap $t0,$t1,label", "Check lap: if ($t0 == $t1) branch to label",
		FormatIBranch, "100100 fffff sssss tttttttttttttttt",
		branchIf(func(a, b int32) bool { return a == b }),
	},
	{
		"otk $t0,$t1,label", "Overtake: if ($t0 > $t1) branch to label",
		FormatIBranch, "100101 fffff sssss tttttttttttttttt",
		branchIf(func(a, b int32) bool { return a > b }),
	},
	{
		"turbo $t0,$t0", "Turbo (double speed): $t0 = 2 * $t0",
		FormatR, "000000 sssss ttttt fffff 00000 001001",
		turbo,
	},
	{
		"skid $t2,$t0", "Skid (return to zero if negative): max($t0, 0)",
		FormatR, "000000 00000 sssss fffff 00000 001010",
		skid,
	},
	{
		"pit $t0,$t1", "Pitstop: swap values stored in two registers ($t0 <--> $t1)",
		FormatR, "000000 fffff sssss 00000 00000 001011",
		pitStop,
	},
	{
		"hz $t0,$t1,label", "Hazard: if ($t0 != $t1) branch to label",
		FormatIBranch, "100110 fffff sssss tttttttttttttttt",
		branchIf(func(a, b int32) bool { return a != b }),
	},
	{
		"hot $t0,$t1,100", "Heatup: $t0 = $t1 + imm; if $t0 > 200, increment $v0",
		FormatI, "100111 sssss fffff tttttttttttttttt",
		heatUp,
	},
	{
		"cool $t0,$t1,100", "Cooldown: $t0 = $t1 - imm",
		FormatI, "101000 sssss fffff tttttttttttttttt",
		immediateOp(func(a, imm int32) int32 { return a - imm }),
	},
}

// HotThreshold is the result above which hot increments $v0.
const HotThreshold = 200

// RaceAssemblyDescriptors builds a fresh descriptor for every Race Assembly
// instruction, in catalogue order.
func RaceAssemblyDescriptors() ([]*Descriptor, error) {
	descs := make([]*Descriptor, 0, len(raceCatalogue))
	for _, s := range raceCatalogue {
		d, err := NewDescriptor(s.example, s.description, s.format, s.template, s.semantic)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// RaceAssembly returns the populated Race Assembly table. It panics if the
// built-in catalogue is inconsistent.
func RaceAssembly() *Table {
	descs, err := RaceAssemblyDescriptors()
	if err != nil {
		panic(err)
	}

	t, err := NewTable(descs...)
	if err != nil {
		panic(err)
	}

	return t
}

// binaryOp builds "$f = op($s, $t)".
func binaryOp(op func(a, b int32) int32) Semantic {
	return func(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
		a := regs.Get(int(ops[1]))
		b := regs.Get(int(ops[2]))
		regs.Set(int(ops[0]), op(a, b))
		return Result{}, nil
	}
}

// immediateOp builds "$f = op($s, imm)".
func immediateOp(op func(a, imm int32) int32) Semantic {
	return func(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
		a := regs.Get(int(ops[1]))
		regs.Set(int(ops[0]), op(a, ops[2]))
		return Result{}, nil
	}
}

// branchIf builds "if cond($f, $s) branch by imm".
func branchIf(cond func(a, b int32) bool) Semantic {
	return func(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
		if cond(regs.Get(int(ops[0])), regs.Get(int(ops[1]))) {
			return Result{Branch: true, Displacement: ops[2]}, nil
		}
		return Result{}, nil
	}
}

// garage stores $f at $t + imm.
func garage(ops Operands, regs RegisterFile, mem Memory) (Result, error) {
	addr := regs.Get(int(ops[2])) + ops[1]
	if err := mem.SetWord(addr, regs.Get(int(ops[0]))); err != nil {
		return Result{}, &MemoryFault{Addr: addr, Store: true, Err: err}
	}
	return Result{}, nil
}

// drive loads $f from $t + imm.
func drive(ops Operands, regs RegisterFile, mem Memory) (Result, error) {
	addr := regs.Get(int(ops[2])) + ops[1]
	value, err := mem.GetWord(addr)
	if err != nil {
		return Result{}, &MemoryFault{Addr: addr, Err: err}
	}
	regs.Set(int(ops[0]), value)
	return Result{}, nil
}

func split(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
	a := regs.Get(int(ops[1]))
	b := regs.Get(int(ops[2]))
	if b == 0 {
		return Result{}, &ArithmeticFault{Dividend: a}
	}
	// MinInt32 / -1 wraps to MinInt32 in Go, as on the host.
	regs.Set(int(ops[0]), a/b)
	return Result{}, nil
}

func fuel(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
	regs.Set(int(ops[0]), ops[1])
	return Result{}, nil
}

func lapUp(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
	regs.Set(int(ops[0]), regs.Get(int(ops[0]))+1)
	return Result{}, nil
}

func turbo(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
	a := regs.Get(int(ops[1]))
	regs.Set(int(ops[0]), a+a)
	return Result{}, nil
}

func skid(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
	regs.Set(int(ops[0]), max(regs.Get(int(ops[1])), 0))
	return Result{}, nil
}

func pitStop(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
	a := regs.Get(int(ops[0]))
	b := regs.Get(int(ops[1]))
	regs.Set(int(ops[0]), b)
	regs.Set(int(ops[1]), a)
	return Result{}, nil
}

// heatUp writes $f first, then bumps $v0 from its current value, so
// "hot $v0,..." above the threshold ends one past the sum.
func heatUp(ops Operands, regs RegisterFile, _ Memory) (Result, error) {
	sum := regs.Get(int(ops[1])) + ops[2]
	regs.Set(int(ops[0]), sum)
	if sum > HotThreshold {
		regs.Set(WellKnownV0, regs.Get(WellKnownV0)+1)
	}
	return Result{}, nil
}

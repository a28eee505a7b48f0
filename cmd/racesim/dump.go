package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/racesim/emu"
	"github.com/sarchlab/racesim/insts"
)

// renderRegisters prints the register file as four rows of eight.
func renderRegisters(regs *emu.RegFile) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Registers (PC=%#08x)", regs.PC))
	t.AppendHeader(table.Row{"Row", "+0", "+1", "+2", "+3", "+4", "+5", "+6", "+7"})

	for row := 0; row < insts.NumRegisters/8; row++ {
		r := table.Row{fmt.Sprintf("$%d-$%d", row*8, row*8+7)}
		for col := 0; col < 8; col++ {
			index := row*8 + col
			r = append(r, fmt.Sprintf("%s=%d", emu.RegisterName(index), regs.Get(index)))
		}
		t.AppendRow(r)
	}

	return t.Render()
}

// renderISA lists every instruction in the table.
func renderISA(isa *insts.Table) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s: %s", insts.ExtensionName, insts.ExtensionDescription))
	t.AppendHeader(table.Row{"Mnemonic", "Format", "Template", "Example", "Description"})

	for _, d := range isa.Descriptors() {
		t.AppendRow(table.Row{d.Mnemonic, d.Format, d.Template.Text, d.Example, d.Description})
	}

	return t.Render()
}

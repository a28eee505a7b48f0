package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/racesim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder(insts.RaceAssembly())
	})

	// gain $5,$6,$7 -> 0x00C72801
	// Encoding: 000000 | rs=6 | rt=7 | rd=5 | 00000 | 000001
	It("should decode gain $5,$6,$7", func() {
		inst, err := decoder.Decode(0x00C72801)

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Desc.Mnemonic).To(Equal("gain"))
		Expect(inst.Desc.Format).To(Equal(insts.FormatR))
		Expect(inst.Operands).To(Equal(insts.Operands{5, 6, 7}))
		Expect(inst.String()).To(Equal("gain $5,$6,$7"))
	})

	// put $8,$9,-1 -> 0x8128FFFF
	// Encoding: 100000 | s=9 | f=8 | imm=0xFFFF
	It("should sign-extend the immediate of put", func() {
		inst, err := decoder.Decode(0x8128FFFF)

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Desc.Mnemonic).To(Equal("put"))
		Expect(inst.Operands).To(Equal(insts.Operands{8, 9, -1}))
	})

	// gre $8,-4($29) -> 0x87A8FFFC
	// Encoding: 100001 | base=29 | value=8 | imm=0xFFFC
	It("should decode a store in value, offset, base order", func() {
		inst, err := decoder.Decode(0x87A8FFFC)

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Desc.Mnemonic).To(Equal("gre"))
		Expect(inst.Operands).To(Equal(insts.Operands{8, -4, 29}))
		Expect(inst.String()).To(Equal("gre $8,-4($29)"))
	})

	// cklap $4,$5,-2 -> 0x9085FFFE
	It("should decode a branch displacement", func() {
		inst, err := decoder.Decode(0x9085FFFE)

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Desc.Format).To(Equal(insts.FormatIBranch))
		Expect(inst.Operands).To(Equal(insts.Operands{4, 5, -2}))
		Expect(inst.String()).To(Equal("cklap $4,$5,-2"))
	})

	// lup $9 -> 0x00004808
	It("should decode a single-operand instruction", func() {
		inst, err := decoder.Decode(0x00004808)

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Desc.Mnemonic).To(Equal("lup"))
		Expect(inst.Operands).To(Equal(insts.Operands{9, 0, 0}))
		Expect(inst.String()).To(Equal("lup $9"))
	})

	// pit $3,$4 -> 0x0064000B
	It("should decode pit", func() {
		inst, err := decoder.Decode(0x0064000B)

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Desc.Mnemonic).To(Equal("pit"))
		Expect(inst.Operands).To(Equal(insts.Operands{3, 4, 0}))
	})

	// fuel $10,-1 -> 0x8D40FFFF
	It("should decode fuel", func() {
		inst, err := decoder.Decode(0x8D40FFFF)

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Desc.Mnemonic).To(Equal("fuel"))
		Expect(inst.Operands).To(Equal(insts.Operands{10, -1, 0}))
	})

	DescribeTable("should reject unknown words",
		func(word uint32) {
			inst, err := decoder.Decode(word)

			Expect(inst).To(BeNil())
			Expect(err).To(MatchError(insts.ErrUnknownInstruction))
		},
		Entry("unused opcode", uint32(0xFFFFFFFF)),
		Entry("unused function code", uint32(0x0000003F)),
		Entry("lup with a source register", uint32(0x00204808)),
		Entry("all zero", uint32(0x00000000)),
	)

	It("should reject registers beyond the configured count", func() {
		small := insts.NewDecoder(insts.RaceAssembly(), insts.WithRegisterCount(8))
		word := insts.MustEncode(small.Table().Lookup("gain"), 5, 6, 9)

		_, err := small.Decode(word)

		Expect(err).To(MatchError(insts.ErrRegisterRange))
	})

	Describe("Encode", func() {
		var table *insts.Table

		BeforeEach(func() {
			table = decoder.Table()
		})

		It("should reproduce the decoded words", func() {
			Expect(insts.Encode(table.Lookup("gain"), 5, 6, 7)).To(Equal(uint32(0x00C72801)))
			Expect(insts.Encode(table.Lookup("gre"), 8, -4, 29)).To(Equal(uint32(0x87A8FFFC)))
			Expect(insts.Encode(table.Lookup("fuel"), 10, 0xFFFF)).To(Equal(uint32(0x8D40FFFF)))
		})

		It("should zero encoded fields the syntax omits", func() {
			word, err := insts.Encode(table.Lookup("turbo"), 3, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(word).To(Equal(uint32(0x00601809)))
		})

		It("should reject a bad operand count", func() {
			_, err := insts.Encode(table.Lookup("gain"), 5, 6)
			Expect(err).To(MatchError(insts.ErrOperandCount))
		})

		It("should reject a register out of range", func() {
			_, err := insts.Encode(table.Lookup("gain"), 32, 6, 7)
			Expect(err).To(MatchError(insts.ErrRegisterRange))
		})

		It("should reject an immediate out of range", func() {
			_, err := insts.Encode(table.Lookup("put"), 1, 2, 70000)
			Expect(err).To(MatchError(insts.ErrImmediateRange))
		})

		It("should round-trip every instruction", func() {
			for _, d := range table.Descriptors() {
				ops := []int32{1, 2, 3}[:d.Template.NumOperands()]
				word := insts.MustEncode(d, ops...)

				inst, err := decoder.Decode(word)

				Expect(err).NotTo(HaveOccurred())
				Expect(inst.Desc).To(BeIdenticalTo(d))
				Expect(inst.Operands[:len(ops)]).To(Equal(ops))
			}
		})
	})
})

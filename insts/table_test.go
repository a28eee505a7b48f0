package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/racesim/insts"
)

func noop(insts.Operands, insts.RegisterFile, insts.Memory) (insts.Result, error) {
	return insts.Result{}, nil
}

var _ = Describe("Table", func() {
	var table *insts.Table

	BeforeEach(func() {
		table = insts.RaceAssembly()
	})

	It("should hold the whole catalogue in order", func() {
		descs := table.Descriptors()

		Expect(table.Len()).To(Equal(20))
		Expect(descs[0].Mnemonic).To(Equal("gain"))
		Expect(descs[19].Mnemonic).To(Equal("cool"))
	})

	It("should expose the registration contract for every instruction", func() {
		for _, d := range table.Descriptors() {
			Expect(d.Mnemonic).NotTo(BeEmpty())
			Expect(d.Example).To(HavePrefix(d.Mnemonic + " "))
			Expect(d.Description).NotTo(BeEmpty())
			Expect(d.Format).NotTo(Equal(insts.FormatUnknown))
			Expect(d.Template.Text).To(MatchRegexp(`^[01fst ]+$`))
			Expect(d.Semantic).NotTo(BeNil())
		}
	})

	It("should look up by mnemonic", func() {
		d := table.Lookup("split")

		Expect(d).NotTo(BeNil())
		Expect(d.Format).To(Equal(insts.FormatR))
		Expect(d.Format.String()).To(Equal("R_FORMAT"))
		Expect(table.Lookup("brake")).To(BeNil())
	})

	It("should match words to descriptors", func() {
		Expect(table.Match(0x00C72801).Mnemonic).To(Equal("gain"))
		Expect(table.Match(0x9085FFFE).Mnemonic).To(Equal("cklap"))
		Expect(table.Match(0xFFFFFFFF)).To(BeNil())
	})

	It("should return a copy of its descriptors", func() {
		descs := table.Descriptors()
		descs[0] = nil

		Expect(table.Descriptors()[0]).NotTo(BeNil())
	})

	Describe("Register", func() {
		It("should reject an overlapping encoding", func() {
			d, err := insts.NewDescriptor("zoom $t0,$t1,$t2", "Zoom",
				insts.FormatR, "000000 sssss ttttt fffff 00000 000001", noop)
			Expect(err).NotTo(HaveOccurred())

			err = table.Register(d)

			Expect(err).To(MatchError(insts.ErrDuplicateEncoding))
			Expect(table.Len()).To(Equal(20))
		})

		It("should reject a duplicate mnemonic", func() {
			d, err := insts.NewDescriptor("gain $t0,$t1,$t2", "Gain again",
				insts.FormatR, "000000 sssss ttttt fffff 00000 111111", noop)
			Expect(err).NotTo(HaveOccurred())

			Expect(table.Register(d)).To(MatchError(insts.ErrDuplicateMnemonic))
		})

		It("should accept a disjoint encoding", func() {
			d, err := insts.NewDescriptor("brake $t0,$t1,$t2", "Brake",
				insts.FormatR, "000000 sssss ttttt fffff 00000 111111", noop)
			Expect(err).NotTo(HaveOccurred())

			Expect(table.Register(d)).To(Succeed())
			Expect(table.Match(0x0000003F)).To(Equal(d))
		})

		It("should fail bulk loading on the first collision", func() {
			a, _ := insts.NewDescriptor("a $t0", "A", insts.FormatR, "000000 00000 00000 fffff 00000 000001", noop)
			b, _ := insts.NewDescriptor("b $t0", "B", insts.FormatR, "000000 00000 00000 fffff 00000 000001", noop)

			_, err := insts.NewTable(a, b)

			Expect(err).To(MatchError(insts.ErrDuplicateEncoding))
		})
	})

	Describe("NewDescriptor", func() {
		It("should take the mnemonic from the example syntax", func() {
			d, err := insts.NewDescriptor("brake $t0,$t1,$t2", "Brake",
				insts.FormatR, "000000 sssss ttttt fffff 00000 111111", noop)

			Expect(err).NotTo(HaveOccurred())
			Expect(d.Mnemonic).To(Equal("brake"))
			Expect(d.SyntaxOperands()).To(Equal(3))
		})

		It("should reject an immediate in an R_FORMAT template", func() {
			_, err := insts.NewDescriptor("x $t0,$t1,1", "X",
				insts.FormatR, "111111 sssss fffff tttttttttttttttt", noop)

			Expect(err).To(MatchError(insts.ErrMalformedTemplate))
		})

		It("should reject an I_FORMAT template without an immediate", func() {
			_, err := insts.NewDescriptor("x $t0,$t1,$t2", "X",
				insts.FormatI, "000000 sssss ttttt fffff 00000 111111", noop)

			Expect(err).To(MatchError(insts.ErrMalformedTemplate))
		})

		It("should count load/store syntax operands", func() {
			Expect(table.Lookup("gre").SyntaxOperands()).To(Equal(3))
			Expect(table.Lookup("turbo").SyntaxOperands()).To(Equal(2))
			Expect(table.Lookup("lup").SyntaxOperands()).To(Equal(1))
		})
	})
})

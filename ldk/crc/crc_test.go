package crc

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/tools"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CRC", func() {
	var (
		network      *fun.FUN
		upper, lower *tools.Stub
		checker      *CRC
	)

	build := func(errorRate float64, dropping bool) {
		params := DefaultParams()
		params.Dropping = dropping

		network = fun.MakeBuilder().Build("fun")
		upper = tools.NewStub("upper")
		lower = tools.NewStub("lower")
		checker = New("crc", params)

		network.AddFunctionalUnit(upper)
		network.AddFunctionalUnit(checker)
		network.AddFunctionalUnit(lower)
		network.AddFunctionalUnit(
			tools.NewBridge("phy", tools.BridgeParams{ErrorRate: errorRate}))
		network.Connect("upper", "crc")
		network.Connect("crc", "lower")
		network.OnFUNCreated()
	}

	receive := func() *ldk.Compound {
		c := network.CreateCompound(ldk.NewBits(100, "data"))
		checker.Activate(c, &Command{Size: 16})
		lower.OnData(c)

		return c
	}

	It("should add the checksum to outgoing compounds", func() {
		build(0, true)
		c := network.CreateCompound(ldk.NewBits(100, "data"))

		Expect(upper.IsAccepting(c)).To(BeTrue())
		Expect(c.HasCommand("crc")).To(BeFalse())

		upper.SendData(c)

		Expect(lower.Sent).To(ConsistOf(c))
		Expect(checker.MustGet(c).SizeInBits()).To(Equal(16))
	})

	It("should deliver intact compounds", func() {
		build(0, true)

		c := receive()

		Expect(upper.Received).To(ConsistOf(c))
		Expect(checker.MustGet(c).CheckOK).To(BeTrue())
		Expect(checker.Passed).To(Equal(1))
		Expect(checker.Failed).To(Equal(0))
	})

	It("should drop corrupted compounds", func() {
		build(1, true)

		receive()

		Expect(upper.Received).To(BeEmpty())
		Expect(checker.Failed).To(Equal(1))
	})

	It("should mark corrupted compounds when not dropping", func() {
		build(1, false)

		c := receive()

		Expect(upper.Received).To(ConsistOf(c))
		Expect(checker.MustGet(c).CheckOK).To(BeFalse())
		Expect(checker.Failed).To(Equal(1))
	})

	It("should panic without an error rate provider", func() {
		network = fun.MakeBuilder().Build("fun")
		checker = New("crc", DefaultParams())
		network.AddFunctionalUnit(checker)

		Expect(func() { network.OnFUNCreated() }).
			To(PanicWith(ContainSubstring("phy")))
	})

	It("should panic on compounds without a checksum", func() {
		build(0, true)
		c := network.CreateCompound(ldk.NewBits(100, "data"))

		Expect(func() { lower.OnData(c) }).To(Panic())
	})

	It("should reject invalid parameters", func() {
		params := DefaultParams()
		params.Size = -1
		Expect(params.Validate()).NotTo(Succeed())

		params = DefaultParams()
		params.ErrorRateProvider = ""
		Expect(params.Validate()).NotTo(Succeed())
	})
})

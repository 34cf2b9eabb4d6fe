package multiplexer

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/tools"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Dispatcher", func() {
	var (
		network        *fun.FUN
		upper1, upper2 *tools.Stub
		lower          *tools.Stub
		dispatcher     *Dispatcher
	)

	send := func(from *tools.Stub) *ldk.Compound {
		c := network.CreateCompound(ldk.NewBits(0, "data"))
		Expect(from.IsAccepting(c)).To(BeTrue())
		from.SendData(c)

		return c
	}

	BeforeEach(func() {
		network = fun.MakeBuilder().Build("fun")
		upper1 = tools.NewStub("upper1")
		upper2 = tools.NewStub("upper2")
		lower = tools.NewStub("lower")
		dispatcher = NewDispatcher("dispatcher", DispatcherParams{OpcodeSize: 42})

		network.AddFunctionalUnit(upper1)
		network.AddFunctionalUnit(upper2)
		network.AddFunctionalUnit(dispatcher)
		network.AddFunctionalUnit(lower)

		network.Connect("upper1", "dispatcher")
		network.Connect("upper2", "dispatcher")
		network.Connect("dispatcher", "lower")
		network.OnFUNCreated()
	})

	It("should insert one setter per unit above", func() {
		s1, found1 := dispatcher.Setter("upper1")
		s2, found2 := dispatcher.Setter("upper2")

		Expect(found1).To(BeTrue())
		Expect(found2).To(BeTrue())
		Expect(s1.Opcode()).To(Equal(0))
		Expect(s2.Opcode()).To(Equal(1))
		Expect(network.Knows(s1.Name())).To(BeTrue())
		Expect(network.Validate()).To(Succeed())
	})

	It("should tag outgoing compounds with different opcodes", func() {
		send(upper1)
		send(upper2)

		Expect(lower.Sent).To(HaveLen(2))
		Expect(dispatcher.MustGet(lower.Sent[0]).Opcode).To(Equal(0))
		Expect(dispatcher.MustGet(lower.Sent[1]).Opcode).To(Equal(1))
	})

	It("should add the opcode size to the compound", func() {
		c := send(upper1)

		Expect(c.LengthInBits()).To(Equal(0))
		Expect(c.TotalLengthInBits()).To(Equal(42))
	})

	It("should deliver incoming compounds to their flow", func() {
		send(upper1)
		send(upper2)

		lower.OnData(lower.Sent[1])
		Expect(upper1.Received).To(BeEmpty())
		Expect(upper2.Received).To(HaveLen(1))

		lower.OnData(lower.Sent[0])
		Expect(upper1.Received).To(HaveLen(1))
	})

	It("should deliver to the flow even if it does not accept", func() {
		send(upper1)
		upper1.Close()

		lower.OnData(lower.Sent[0])

		Expect(upper1.Received).To(HaveLen(1))
		Expect(upper2.Received).To(BeEmpty())
	})

	It("should panic on compounds without an opcode", func() {
		c := network.CreateCompound(ldk.NewBits(0, "data"))

		Expect(func() { lower.OnData(c) }).To(Panic())
	})

	It("should wake up all flows", func() {
		lower.Wakeup()

		Expect(upper1.WakeupCalled).To(Equal(1))
		Expect(upper2.WakeupCalled).To(Equal(1))
	})

	It("should not let a closed lower unit take compounds", func() {
		lower.Close()
		c := network.CreateCompound(ldk.NewBits(0, "data"))

		Expect(upper1.IsAccepting(c)).To(BeFalse())
		Expect(upper2.IsAccepting(c)).To(BeFalse())
	})
})

var _ = Describe("Dispatcher with several lower units", func() {
	It("should serve the lower units in turn", func() {
		network := fun.MakeBuilder().Build("fun")
		upper := tools.NewStub("upper")
		dispatcher := NewDispatcher("dispatcher", DispatcherParams{})
		lowers := []*tools.Stub{
			tools.NewStub("lower0"),
			tools.NewStub("lower1"),
			tools.NewStub("lower2"),
		}

		network.AddFunctionalUnit(upper)
		network.AddFunctionalUnit(dispatcher)
		network.Connect("upper", "dispatcher")

		for _, l := range lowers {
			network.AddFunctionalUnit(l)
			network.DownConnect("dispatcher", l.Name())
		}

		for i := 0; i < 6; i++ {
			upper.SendData(network.CreateCompound(ldk.NewBits(8, "data")))
		}

		for _, l := range lowers {
			Expect(l.Sent).To(HaveLen(2))
		}
	})
})

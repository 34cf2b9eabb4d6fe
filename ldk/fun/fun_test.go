package fun_test

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/tools"
	"github.com/sarchlab/funsim/sim/hooking"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// insertingUnit puts a stub between itself and every unit connected from
// above.
type insertingUnit struct {
	*tools.Stub
}

func (u *insertingUnit) WhenConnecting(
	net ldk.Network,
	upper ldk.FunctionalUnit,
	kind ldk.ConnectKind,
) ldk.FunctionalUnit {
	inserted := tools.NewStub(upper.Name() + ".inserted")
	net.AddFunctionalUnit(inserted)
	net.Wire(inserted, u, kind)

	return inserted
}

var _ = Describe("FUN", func() {
	var (
		network *fun.FUN
		a, b, c *tools.Stub
	)

	BeforeEach(func() {
		network = fun.MakeBuilder().Build("fun")
		a = tools.NewStub("a")
		b = tools.NewStub("b")
		c = tools.NewStub("c")

		network.AddFunctionalUnit(a)
		network.AddFunctionalUnit(b)
		network.AddFunctionalUnit(c)
	})

	It("should find units by name", func() {
		Expect(network.Knows("a")).To(BeTrue())
		Expect(network.Knows("d")).To(BeFalse())
		Expect(network.FunctionalUnit("b")).To(BeIdenticalTo(b))
		Expect(func() { network.FunctionalUnit("d") }).To(Panic())
	})

	It("should refuse duplicated names", func() {
		Expect(func() {
			network.AddFunctionalUnit(tools.NewStub("a"))
		}).To(Panic())
	})

	It("should wire all aspects on connect", func() {
		network.Connect("a", "b")

		Expect(a.Connector().Size()).To(Equal(1))
		Expect(b.Receptor().Size()).To(Equal(1))
		Expect(b.Deliverer().Size()).To(Equal(1))
		Expect(a.Connector().Get()[0].FU()).To(BeIdenticalTo(b))
	})

	It("should wire only the outgoing direction on down connect", func() {
		network.DownConnect("a", "b")

		Expect(a.Connector().Size()).To(Equal(1))
		Expect(b.Receptor().Size()).To(Equal(1))
		Expect(b.Deliverer().Size()).To(Equal(0))
	})

	It("should wire only the incoming direction on up connect", func() {
		network.UpConnect("a", "b")

		Expect(a.Connector().Size()).To(Equal(0))
		Expect(b.Receptor().Size()).To(Equal(0))
		Expect(b.Deliverer().Size()).To(Equal(1))
	})

	It("should panic when wiring a missing aspect", func() {
		gen := tools.NewGenerator("gen", tools.DefaultGeneratorParams())
		network.AddFunctionalUnit(gen)

		Expect(func() { network.Connect("a", "gen") }).To(Panic())
	})

	It("should let the lower unit intercept the connection", func() {
		lower := &insertingUnit{Stub: tools.NewStub("lower")}
		network.AddFunctionalUnit(lower)

		network.Connect("a", "lower")

		inserted := network.FunctionalUnit("a.inserted")
		Expect(a.Connector().Get()[0].FU()).To(BeIdenticalTo(inserted))
		Expect(lower.Deliverer().Get()[0].FU()).To(BeIdenticalTo(inserted))
	})

	It("should drop links to removed units", func() {
		network.Connect("a", "b")
		network.Connect("b", "c")

		network.RemoveFunctionalUnit("b")

		Expect(network.Knows("b")).To(BeFalse())
		Expect(a.Connector().Size()).To(Equal(0))
		Expect(c.Deliverer().Size()).To(Equal(0))
		Expect(network.Connections()).To(BeEmpty())
	})

	It("should notify units in the order they were added", func() {
		network.OnFUNCreated()

		Expect(a.OnFUNCreatedCalled).To(Equal(1))
		Expect(c.OnFUNCreatedCalled).To(Equal(1))
		Expect(network.OnFUNCreated).To(Panic())
	})

	It("should find friends by name and type", func() {
		stub, err := ldk.FindFriend[*tools.Stub](network, "b")
		Expect(err).NotTo(HaveOccurred())
		Expect(stub).To(BeIdenticalTo(b))

		_, err = ldk.FindFriend[*tools.Generator](network, "b")
		Expect(err).To(MatchError(ldk.ErrFriendNotFound))

		_, err = ldk.FindFriend[*tools.Stub](network, "z")
		Expect(err).To(MatchError(ldk.ErrFriendNotFound))
	})

	It("should attach hooks to present and future units", func() {
		count := 0
		network.AcceptHook(hooking.NewHookFunc(func(hooking.HookCtx) {
			count++
		}))

		d := tools.NewStub("d")
		network.AddFunctionalUnit(d)
		network.Connect("a", "d")

		a.SendData(network.CreateCompound(ldk.NewBits(8, "x")))

		Expect(count).To(Equal(2))
	})

	Context("validation", func() {
		It("should accept a connected stack", func() {
			network.Connect("a", "b")
			network.Connect("b", "c")

			Expect(network.Validate()).To(Succeed())
		})

		It("should report every isolated unit", func() {
			network.Connect("a", "b")

			err := network.Validate()

			Expect(err).To(MatchError(ContainSubstring("c is not connected")))
		})

		It("should report cycles", func() {
			ra := tools.NewStubWithCapabilities("ra", ldk.Capabilities{
				Connector: ldk.NewRoundRobinLink(),
				Deliverer: ldk.NewFirstServeLink(),
				Receptor:  ldk.NewMultiLink(),
			})
			rb := tools.NewStubWithCapabilities("rb", ldk.Capabilities{
				Connector: ldk.NewRoundRobinLink(),
				Deliverer: ldk.NewFirstServeLink(),
				Receptor:  ldk.NewMultiLink(),
			})
			network.AddFunctionalUnit(ra)
			network.AddFunctionalUnit(rb)
			network.Connect("a", "b")
			network.Connect("b", "c")
			network.DownConnect("ra", "rb")
			network.DownConnect("rb", "ra")

			Expect(network.Validate()).
				To(MatchError(ContainSubstring("cycle detected")))
		})
	})
})

var _ = Describe("Registry", func() {
	It("should create registered types", func() {
		r := fun.NewRegistry()
		tools.Register(r)

		fu, err := r.Create("tools.Stub", "s", nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(fu.Name()).To(Equal("s"))
		Expect(r.Types()).To(ContainElement("tools.Generator"))
	})

	It("should report unknown types", func() {
		r := fun.NewRegistry()

		_, err := r.Create("nope", "s", nil)

		Expect(err).To(MatchError(fun.ErrUnknownType))
	})
})

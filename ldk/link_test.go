package ldk

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Links", func() {
	var (
		mockCtrl *gomock.Controller
		arena    *Arena
		units    []*MockFunctionalUnit
		handles  []Handle
		compound *Compound
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		arena = NewArena()
		compound = NewCompound(NewBits(100, "data"))

		units = nil
		handles = nil
		for _, name := range []string{"n0", "n1", "n2"} {
			u := NewMockFunctionalUnit(mockCtrl)
			u.EXPECT().Name().Return(name).AnyTimes()
			units = append(units, u)
			handles = append(handles, arena.Insert(u))
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("single", func() {
		var link *SingleLink

		BeforeEach(func() {
			link = NewSingleLink()
		})

		It("should report no acceptor when empty", func() {
			Expect(link.HasAcceptor(compound)).To(BeFalse())
			Expect(func() { link.GetAcceptor(compound) }).To(Panic())
		})

		It("should ask the neighbor", func() {
			link.Add(handles[0])
			units[0].EXPECT().IsAccepting(compound).Return(false)

			Expect(link.HasAcceptor(compound)).To(BeFalse())
			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[0]))
		})

		It("should panic when adding to an occupied link", func() {
			link.Add(handles[0])

			Expect(func() { link.Add(handles[1]) }).To(Panic())
			Expect(link.Size()).To(Equal(1))
		})

		It("should panic when adding an empty handle", func() {
			Expect(func() { link.Add(Handle{}) }).To(Panic())
			Expect(link.Size()).To(Equal(0))
		})

		It("should wake up the neighbor", func() {
			link.Add(handles[0])
			units[0].EXPECT().Wakeup()

			link.Wakeup()
		})
	})

	Context("multi", func() {
		It("should wake up all neighbors in order", func() {
			link := NewMultiLink()
			link.Set(handles)

			gomock.InOrder(
				units[0].EXPECT().Wakeup(),
				units[1].EXPECT().Wakeup(),
				units[2].EXPECT().Wakeup(),
			)

			link.Wakeup()
		})

		It("should forget removed neighbors", func() {
			link := NewMultiLink()
			link.Set(handles)
			link.Remove(handles[1])

			Expect(link.Get()).To(Equal([]Handle{handles[0], handles[2]}))
		})
	})

	Context("round robin", func() {
		var link *RoundRobinLink

		BeforeEach(func() {
			link = NewRoundRobinLink()
			for _, h := range handles {
				link.Add(h)
			}
		})

		It("should serve each accepting neighbor once per round", func() {
			for _, u := range units {
				u.EXPECT().IsAccepting(compound).Return(true).AnyTimes()
			}

			var served []FunctionalUnit
			for i := 0; i < 6; i++ {
				Expect(link.HasAcceptor(compound)).To(BeTrue())
				served = append(served, link.GetAcceptor(compound))
			}

			Expect(served).To(Equal([]FunctionalUnit{
				units[0], units[1], units[2], units[0], units[1], units[2],
			}))
		})

		It("should skip neighbors that do not accept", func() {
			units[0].EXPECT().IsAccepting(compound).Return(true).AnyTimes()
			units[1].EXPECT().IsAccepting(compound).Return(false).AnyTimes()
			units[2].EXPECT().IsAccepting(compound).Return(true).AnyTimes()

			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[0]))
			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[2]))
			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[0]))
		})

		It("should report no acceptor", func() {
			for _, u := range units {
				u.EXPECT().IsAccepting(compound).Return(false).AnyTimes()
			}

			Expect(link.HasAcceptor(compound)).To(BeFalse())
			Expect(func() { link.GetAcceptor(compound) }).To(Panic())
		})

		It("should rotate the wakeup order", func() {
			gomock.InOrder(
				units[0].EXPECT().Wakeup(),
				units[1].EXPECT().Wakeup(),
				units[2].EXPECT().Wakeup(),
				units[1].EXPECT().Wakeup(),
				units[2].EXPECT().Wakeup(),
				units[0].EXPECT().Wakeup(),
			)

			link.Wakeup()
			link.Wakeup()
		})

		It("should continue after the removed neighbor", func() {
			for _, u := range units {
				u.EXPECT().IsAccepting(compound).Return(true).AnyTimes()
			}

			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[0]))
			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[1]))

			link.Remove(handles[1])

			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[2]))
			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[0]))
		})
	})

	Context("owned by a unit", func() {
		It("should name the owner when no neighbor accepts", func() {
			link := NewFirstServeLink()
			NewFunctionalUnitBase("owner", nil, Capabilities{Connector: link})
			link.Add(handles[0])

			units[0].EXPECT().IsAccepting(compound).Return(false)

			Expect(func() { link.GetAcceptor(compound) }).To(PanicWith(And(
				ContainSubstring("owner"),
				ContainSubstring(compound.ID()),
			)))
		})

		It("should refuse empty handles in Set", func() {
			link := NewMultiLink()

			Expect(func() { link.Set([]Handle{handles[0], {}}) }).To(Panic())
			Expect(link.Size()).To(Equal(0))
		})
	})

	Context("first serve", func() {
		It("should always pick the lowest accepting neighbor", func() {
			link := NewFirstServeLink()
			link.Set(handles)

			units[0].EXPECT().IsAccepting(compound).Return(false).AnyTimes()
			units[1].EXPECT().IsAccepting(compound).Return(true).AnyTimes()
			units[2].EXPECT().IsAccepting(compound).Return(true).AnyTimes()

			for i := 0; i < 3; i++ {
				Expect(link.HasAcceptor(compound)).To(BeTrue())
				Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[1]))
			}
		})
	})

	Context("opcode", func() {
		var (
			link   *OpcodeLink
			opcode int
		)

		BeforeEach(func() {
			link = NewOpcodeLink(OpcodeProviderFunc(func(*Compound) int {
				return opcode
			}))
			link.Set(handles)
		})

		It("should route by opcode without asking the neighbor", func() {
			opcode = 2

			Expect(link.HasAcceptor(compound)).To(BeTrue())
			Expect(link.GetAcceptor(compound)).To(BeIdenticalTo(units[2]))
		})

		It("should panic on an invalid opcode", func() {
			opcode = 3

			Expect(func() { link.HasAcceptor(compound) }).To(Panic())
			Expect(func() { link.GetAcceptor(compound) }).To(Panic())
		})
	})
})

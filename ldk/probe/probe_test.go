package probe

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/tools"
	"github.com/sarchlab/funsim/sim/timing"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TransitRecorder", func() {
	var (
		mockCtrl     *gomock.Controller
		recorder     *MockDataRecorder
		engine       *timing.SerialEngine
		network      *fun.FUN
		upper, lower *tools.Stub
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)
		engine = timing.NewSerialEngine()

		network = fun.MakeBuilder().WithScheduler(engine).Build("station")
		upper = tools.NewStub("upper")
		lower = tools.NewStub("lower")
		network.AddFunctionalUnit(upper)
		network.AddFunctionalUnit(lower)
		network.Connect("upper", "lower")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should record every compound entering a unit", func() {
		recorder.EXPECT().CreateTable(TransitTable, TransitEntry{})

		network.AcceptHook(NewTransitRecorder(recorder, TransitTable, engine))

		c := network.CreateCompound(ldk.NewBits(64, "data"))

		recorder.EXPECT().InsertData(TransitTable, TransitEntry{
			FUN:       "station",
			FU:        "upper",
			Position:  "SendData",
			Compound:  c.ID(),
			Birthmark: c.Birthmark(),
			Bits:      64,
			TotalBits: 64,
		})
		recorder.EXPECT().InsertData(TransitTable, TransitEntry{
			FUN:       "station",
			FU:        "lower",
			Position:  "SendData",
			Compound:  c.ID(),
			Birthmark: c.Birthmark(),
			Bits:      64,
			TotalBits: 64,
		})

		upper.SendData(c)
	})

	It("should not record wakeups", func() {
		recorder.EXPECT().CreateTable(TransitTable, TransitEntry{})

		network.AcceptHook(NewTransitRecorder(recorder, TransitTable, nil))

		lower.Wakeup()
	})
})

var _ = Describe("Counter", func() {
	It("should count the entry points of every unit", func() {
		network := fun.MakeBuilder().Build("station")
		upper := tools.NewStub("upper")
		lower := tools.NewStub("lower")
		counter := NewCounter()

		network.AcceptHook(counter)
		network.AddFunctionalUnit(upper)
		network.AddFunctionalUnit(lower)
		network.Connect("upper", "lower")

		upper.SendData(network.CreateCompound(ldk.NewBits(10, "data")))
		upper.SendData(network.CreateCompound(ldk.NewBits(20, "data")))
		lower.OnData(network.CreateCompound(ldk.NewBits(5, "data")))
		lower.Wakeup()

		u, found := counter.Get("station", "upper")
		Expect(found).To(BeTrue())
		Expect(u).To(Equal(CounterEntry{
			FUN: "station", FU: "upper",
			SendData: 2, OnData: 1, Wakeup: 1,
			SentBits: 30, RecvBits: 5,
		}))

		_, found = counter.Get("station", "nobody")
		Expect(found).To(BeFalse())

		snapshot := counter.Snapshot()
		Expect(snapshot).To(HaveLen(2))
		Expect(snapshot[0].FU).To(Equal("lower"))
		Expect(snapshot[1].FU).To(Equal("upper"))
	})
})

package tools

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/sim/timing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Generator and Bridge", func() {
	var (
		engine     *timing.SerialEngine
		sender     *fun.FUN
		receiver   *fun.FUN
		gen        *Generator
		txBridge   *Bridge
		rxBridge   *Bridge
		sink       *Stub
		bridgeConf BridgeParams
	)

	build := func() {
		sender = fun.MakeBuilder().WithScheduler(engine).Build("sender")
		receiver = fun.MakeBuilder().WithScheduler(engine).Build("receiver")

		gen = NewGenerator("gen", GeneratorParams{
			PacketSize: 100,
			Interval:   1,
			Count:      5,
		})
		txBridge = NewBridge("phy", bridgeConf)
		sink = NewStub("sink")
		rxBridge = NewBridge("phy", bridgeConf)

		sender.AddFunctionalUnit(gen)
		sender.AddFunctionalUnit(txBridge)
		sender.Connect("gen", "phy")

		receiver.AddFunctionalUnit(sink)
		receiver.AddFunctionalUnit(rxBridge)
		receiver.Connect("sink", "phy")

		Pair(txBridge, rxBridge)

		sender.OnFUNCreated()
		receiver.OnFUNCreated()
	}

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		bridgeConf = BridgeParams{Delay: 0.5}
	})

	It("should carry every generated compound to the other network", func() {
		build()

		Expect(engine.Run()).To(Succeed())

		Expect(gen.Generated).To(Equal(5))
		Expect(gen.Sent).To(Equal(5))
		Expect(sink.Received).To(HaveLen(5))
		Expect(rxBridge.Delivered).To(Equal(5))

		cmd := sink.MustGet(sink.Received[4])
		Expect(cmd.OnDataTime).To(BeNumerically("~", 4.5, 1e-9))
	})

	It("should drop every n-th compound", func() {
		bridgeConf.DropEvery = 2
		build()

		Expect(engine.Run()).To(Succeed())

		Expect(txBridge.Dropped).To(Equal(2))
		Expect(sink.Received).To(HaveLen(3))
	})

	It("should block the generator while the bridge is busy", func() {
		bridgeConf.BitRate = 50
		build()

		Expect(engine.Run()).To(Succeed())

		Expect(gen.Generated).To(Equal(5))
		Expect(gen.Blocked).To(Equal(1))
		Expect(gen.Sent).To(Equal(4))
		Expect(sink.Received).To(HaveLen(4))
		Expect(engine.Now()).To(BeNumerically("~", 8.5, 1e-9))
	})

	It("should not accept without a peer", func() {
		b := NewBridge("phy", BridgeParams{})

		Expect(b.IsAccepting(ldk.NewCompound(ldk.NewBits(1, "x")))).
			To(BeFalse())
	})

	It("should report its error rate", func() {
		b := NewBridge("phy", BridgeParams{ErrorRate: 0.25})

		Expect(b.ErrorRate(ldk.NewCompound(ldk.NewBits(1, "x")))).
			To(Equal(0.25))
		Expect(BridgeParams{ErrorRate: 1.5}.Validate()).NotTo(Succeed())
	})
})

package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/buffer"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/probe"
	"github.com/sarchlab/funsim/ldk/tools"
	"github.com/sarchlab/funsim/sim/timing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitor", func() {
	var (
		m       *Monitor
		engine  *timing.SerialEngine
		network *fun.FUN
		counter *probe.Counter
		server  *httptest.Server
	)

	addChain := func(n int, size int, compounds int) {
		upper := tools.NewStub(names("upper", n))
		lower := tools.NewStub(names("lower", n))
		buf := buffer.NewDropping(names("buffer", n), buffer.DroppingParams{
			Size:     size,
			SizeUnit: buffer.SizeUnitPDU,
			Drop:     buffer.DropTail,
		})

		network.AddFunctionalUnit(upper)
		network.AddFunctionalUnit(buf)
		network.AddFunctionalUnit(lower)
		network.Connect(upper.Name(), buf.Name())
		network.Connect(buf.Name(), lower.Name())

		lower.Close()
		for i := 0; i < compounds; i++ {
			upper.SendData(network.CreateCompound(ldk.NewBits(8, "data")))
		}
	}

	get := func(path string, v any) int {
		rsp, err := http.Get(server.URL + path)
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		if v != nil && rsp.StatusCode == http.StatusOK {
			Expect(json.NewDecoder(rsp.Body).Decode(v)).To(Succeed())
		}

		return rsp.StatusCode
	}

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		counter = probe.NewCounter()
		network = fun.MakeBuilder().WithScheduler(engine).Build("sta")
		network.AcceptHook(counter)

		addChain(1, 10, 3)
		addChain(2, 2, 1)

		m = NewMonitor()
		m.RegisterEngine(engine)
		m.RegisterCounter(counter)
		m.RegisterFUN(network)

		server = httptest.NewServer(m.router())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should register the buffers of a FUN", func() {
		Expect(m.buffers).To(HaveLen(2))
	})

	It("should list FUNs", func() {
		var names []string

		Expect(get("/api/list_funs", &names)).To(Equal(http.StatusOK))
		Expect(names).To(Equal([]string{"sta"}))
	})

	It("should describe the wiring of a FUN", func() {
		var rsp funRsp

		Expect(get("/api/fun/sta", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp.Units).To(HaveLen(6))
		Expect(rsp.Units[0].Name).To(Equal("upper1"))
		Expect(rsp.Units[0].Lower).To(Equal([]string{"buffer1"}))
		Expect(rsp.Units[1].Upper).To(Equal([]string{"upper1"}))
		Expect(rsp.Connections).To(HaveLen(4))
	})

	It("should answer 404 for unknown FUNs and units", func() {
		Expect(get("/api/fun/nope", nil)).To(Equal(http.StatusNotFound))
		Expect(get("/api/unit/sta/nope", nil)).To(Equal(http.StatusNotFound))
	})

	It("should report the current time", func() {
		var rsp struct{ Now float64 }

		Expect(get("/api/now", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp.Now).To(BeZero())
	})

	It("should sort buffers by level", func() {
		var rsp []bufferRsp

		Expect(get("/api/buffers?sort=level", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp).To(Equal([]bufferRsp{
			{FUN: "sta", Buffer: "buffer1", Level: 3, Cap: 10},
			{FUN: "sta", Buffer: "buffer2", Level: 1, Cap: 2},
		}))
	})

	It("should sort buffers by percentage and page them", func() {
		var rsp []bufferRsp

		Expect(get("/api/buffers?limit=1", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0].Buffer).To(Equal("buffer2"))

		Expect(get("/api/buffers?offset=5", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp).To(BeEmpty())
	})

	It("should reject bad buffer queries", func() {
		Expect(get("/api/buffers?sort=size", nil)).
			To(Equal(http.StatusBadRequest))
		Expect(get("/api/buffers?limit=x", nil)).
			To(Equal(http.StatusBadRequest))
	})

	It("should report unit counters", func() {
		var rsp []probe.CounterEntry

		Expect(get("/api/counters", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp).To(ContainElement(probe.CounterEntry{
			FUN: "sta", FU: "buffer1", SendData: 3, SentBits: 24,
		}))
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("run", 100)
		bar.IncrementFinished(10)

		var rsp []map[string]any
		Expect(get("/api/progress", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0]["finished"]).To(BeEquivalentTo(10))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress", &rsp)).To(Equal(http.StatusOK))
		Expect(rsp).To(BeEmpty())
	})

	It("should serve the web page", func() {
		Expect(get("/", nil)).To(Equal(http.StatusOK))
	})
})

func names(prefix string, n int) string {
	return prefix + string(rune('0'+n))
}

// Package monitoring turns a running simulation into a web server that can
// be inspected and controlled from a browser.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/probe"
	"github.com/sarchlab/funsim/monitoring/web"
	"github.com/sarchlab/funsim/sim/id"
	"github.com/sarchlab/funsim/sim/timing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// A Buffer is a unit whose fill level is worth watching.
type Buffer interface {
	Name() string
	Size() int
	MaxSize() int
}

type registeredBuffer struct {
	fun    string
	buffer Buffer
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine     timing.Engine
	funs       []*fun.FUN
	buffers    []registeredBuffer
	counter    *probe.Counter
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e timing.Engine) {
	m.engine = e
}

// RegisterCounter sets the counter the unit statistics are read from.
func (m *Monitor) RegisterCounter(c *probe.Counter) {
	m.counter = c
}

// RegisterFUN registers a network and the buffers inside it.
func (m *Monitor) RegisterFUN(f *fun.FUN) {
	m.funs = append(m.funs, f)

	for _, u := range f.FunctionalUnits() {
		if b, ok := u.(Buffer); ok {
			m.buffers = append(m.buffers, registeredBuffer{
				fun:    f.Name(),
				buffer: b,
			})
		}
	}
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        id.Get().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/run", m.run)
	r.HandleFunc("/api/list_funs", m.listFUNs)
	r.HandleFunc("/api/fun/{fun}", m.listFUNDetails)
	r.HandleFunc("/api/unit/{fun}/{unit}", m.listUnitDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/buffers", m.listBuffers)
	r.HandleFunc("/api/counters", m.listCounters)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its address.
// If openBrowser is set, the page is opened in the default browser.
func (m *Monitor) StartServer(openBrowser bool) string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := http.Serve(listener, m.router())
		dieOnErr(err)
	}()

	if openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return url
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engine.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.engine.Now()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

func (m *Monitor) run(_ http.ResponseWriter, _ *http.Request) {
	go func() {
		err := m.engine.Run()
		if err != nil {
			panic(err)
		}
	}()
}

func (m *Monitor) listFUNs(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.funs))
	for _, f := range m.funs {
		names = append(names, f.Name())
	}

	writeJSON(w, names)
}

type unitRsp struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Lower     []string `json:"lower"`
	Upper     []string `json:"upper"`
	Receptors []string `json:"receptors"`
}

type funRsp struct {
	Name        string           `json:"name"`
	Units       []unitRsp        `json:"units"`
	Connections []fun.Connection `json:"connections"`
}

func neighborNames(link ldk.Link) []string {
	names := []string{}
	if link == nil {
		return names
	}

	for _, h := range link.Get() {
		if h.IsValid() {
			names = append(names, h.FU().Name())
		}
	}

	return names
}

func (m *Monitor) listFUNDetails(w http.ResponseWriter, r *http.Request) {
	f := m.findFUNOr404(w, mux.Vars(r)["fun"])
	if f == nil {
		return
	}

	rsp := funRsp{
		Name:        f.Name(),
		Connections: f.Connections(),
	}

	for _, u := range f.FunctionalUnits() {
		caps := u.Capabilities()
		unit := unitRsp{
			Name:      u.Name(),
			Type:      fmt.Sprintf("%T", u),
			Lower:     []string{},
			Upper:     []string{},
			Receptors: []string{},
		}

		if caps.Connector != nil {
			unit.Lower = neighborNames(caps.Connector)
		}

		if caps.Deliverer != nil {
			unit.Upper = neighborNames(caps.Deliverer)
		}

		if caps.Receptor != nil {
			unit.Receptors = neighborNames(caps.Receptor)
		}

		rsp.Units = append(rsp.Units, unit)
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listUnitDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	unit := m.findUnitOr404(w, vars["fun"], vars["unit"])
	if unit == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(unit)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	FUNName   string `json:"fun_name,omitempty"`
	UnitName  string `json:"unit_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	unit := m.findUnitOr404(w, req.FUNName, req.UnitName)
	if unit == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(unit)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type bufferRsp struct {
	FUN    string `json:"fun"`
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

func (m *Monitor) listBuffers(w http.ResponseWriter, r *http.Request) {
	sortMethod, limit, offset, err := buffersParseParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	sorted := m.sortAndSelectBuffers(sortMethod, limit, offset)

	rsp := make([]bufferRsp, 0, len(sorted))
	for _, b := range sorted {
		rsp = append(rsp, bufferRsp{
			FUN:    b.fun,
			Buffer: b.buffer.Name(),
			Level:  b.buffer.Size(),
			Cap:    b.buffer.MaxSize(),
		})
	}

	writeJSON(w, rsp)
}

func buffersParseParams(
	r *http.Request,
) (method string, limit, offset int, err error) {
	sortMethod := r.URL.Query().Get("sort")
	if sortMethod == "" {
		sortMethod = "percent"
	}

	if sortMethod != "level" && sortMethod != "percent" {
		return "", 0, 0, errors.New("invalid sort method " + sortMethod +
			", allowed values are `level` and `percent`")
	}

	limit, err = queryInt(r, "limit")
	if err != nil {
		return sortMethod, 0, 0, err
	}

	offset, err = queryInt(r, "offset")
	if err != nil {
		return sortMethod, limit, 0, err
	}

	if limit < 0 || offset < 0 {
		return sortMethod, 0, 0, errors.New("limit and offset must not be negative")
	}

	return sortMethod, limit, offset, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return 0, nil
	}

	return strconv.Atoi(str)
}

func bufferPercent(b Buffer) float64 {
	if b.MaxSize() == 0 {
		return 0
	}

	return float64(b.Size()) / float64(b.MaxSize())
}

func (m *Monitor) sortAndSelectBuffers(
	sortMethod string,
	limit, offset int,
) []registeredBuffer {
	sorted := make([]registeredBuffer, len(m.buffers))
	copy(sorted, m.buffers)

	byLevel := func(i, j int) int {
		return sorted[i].buffer.Size() - sorted[j].buffer.Size()
	}

	byPercent := func(i, j int) float64 {
		return bufferPercent(sorted[i].buffer) - bufferPercent(sorted[j].buffer)
	}

	switch sortMethod {
	case "level":
		sort.SliceStable(sorted, func(i, j int) bool {
			if d := byLevel(i, j); d != 0 {
				return d > 0
			}

			return byPercent(i, j) > 0
		})
	case "percent":
		sort.SliceStable(sorted, func(i, j int) bool {
			if d := byPercent(i, j); d != 0 {
				return d > 0
			}

			return byLevel(i, j) > 0
		})
	default:
		panic("Invalid sort method " + sortMethod)
	}

	if offset > len(sorted) {
		offset = len(sorted)
	}

	end := len(sorted)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return sorted[offset:end]
}

func (m *Monitor) listCounters(w http.ResponseWriter, _ *http.Request) {
	if m.counter == nil {
		writeJSON(w, []probe.CounterEntry{})
		return
	}

	writeJSON(w, m.counter.Snapshot())
}

func (m *Monitor) findFUNOr404(w http.ResponseWriter, name string) *fun.FUN {
	for _, f := range m.funs {
		if f.Name() == name {
			return f
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("FUN not found"))
	dieOnErr(err)

	return nil
}

func (m *Monitor) findUnitOr404(
	w http.ResponseWriter,
	funName, unitName string,
) ldk.FunctionalUnit {
	f := m.findFUNOr404(w, funName)
	if f == nil {
		return nil
	}

	unit, found := f.Lookup(unitName)
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Unit not found"))
		dieOnErr(err)

		return nil
	}

	return unit
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}

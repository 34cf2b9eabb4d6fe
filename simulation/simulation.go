// Package simulation ties the networks of a run to the engine that drives
// them, and to the recorder and monitor that observe them.
package simulation

import (
	"fmt"

	"github.com/sarchlab/funsim/datarecording"
	"github.com/sarchlab/funsim/ldk/arq"
	"github.com/sarchlab/funsim/ldk/buffer"
	"github.com/sarchlab/funsim/ldk/crc"
	"github.com/sarchlab/funsim/ldk/fun"
	"github.com/sarchlab/funsim/ldk/multiplexer"
	"github.com/sarchlab/funsim/ldk/probe"
	"github.com/sarchlab/funsim/ldk/sar"
	"github.com/sarchlab/funsim/ldk/tools"
	"github.com/sarchlab/funsim/monitoring"
	"github.com/sarchlab/funsim/sim/hooking"
	"github.com/sarchlab/funsim/sim/timing"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// DefaultRegistry returns a registry that knows every unit type of this
// module.
func DefaultRegistry() *fun.Registry {
	r := fun.NewRegistry()

	tools.Register(r)
	sar.Register(r)
	arq.Register(r)
	buffer.Register(r)
	multiplexer.Register(r)
	crc.Register(r)

	return r
}

// A Simulation owns the engine and the networks of one run.
type Simulation struct {
	id       string
	logger   logrus.FieldLogger
	engine   timing.Engine
	registry *fun.Registry
	endTime  timing.VTimeInSec
	started  bool

	dataRecorder    datarecording.DataRecorder
	transitRecorder *probe.TransitRecorder
	monitor         *monitoring.Monitor
	counter         *probe.Counter

	funs     []*fun.FUN
	funIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() timing.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder, or nil if nothing is recorded.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetCounter returns the counter attached to every unit.
func (s *Simulation) GetCounter() *probe.Counter {
	return s.counter
}

// Registry returns the registry unit types are resolved with.
func (s *Simulation) Registry() *fun.Registry {
	return s.registry
}

// EndTime returns the time the run stops at. Zero means no limit.
func (s *Simulation) EndTime() timing.VTimeInSec {
	return s.endTime
}

// SetEndTime sets the time the run stops at.
func (s *Simulation) SetEndTime(t timing.VTimeInSec) {
	s.endTime = t
}

func (s *Simulation) funBuilder() fun.Builder {
	return fun.MakeBuilder().
		WithLogger(s.logger).
		WithScheduler(s.engine)
}

// NewFUN creates an empty network that is driven by the engine and
// observed by the probes of the simulation.
func (s *Simulation) NewFUN(name string) *fun.FUN {
	f := s.funBuilder().Build(name)
	s.registerFUN(f)

	return f
}

func (s *Simulation) registerFUN(f *fun.FUN) {
	if _, found := s.funIndex[f.Name()]; found {
		panic("FUN " + f.Name() + " already registered")
	}

	if s.started {
		panic("cannot add FUN " + f.Name() + " after the simulation started")
	}

	f.AcceptHook(s.counter)

	if s.transitRecorder != nil {
		f.AcceptHook(s.transitRecorder)
	}

	s.funs = append(s.funs, f)
	s.funIndex[f.Name()] = len(s.funs) - 1
}

// FUN returns the network with the given name.
func (s *Simulation) FUN(name string) (*fun.FUN, bool) {
	i, found := s.funIndex[name]
	if !found {
		return nil, false
	}

	return s.funs[i], true
}

// FUNs returns all networks in the order they were added.
func (s *Simulation) FUNs() []*fun.FUN {
	return s.funs
}

// Validate checks the wiring of every network.
func (s *Simulation) Validate() error {
	var err error

	for _, f := range s.funs {
		err = multierr.Append(err, f.Validate())
	}

	return err
}

// Start notifies every network that it is complete. It is called by Run if
// it has not been called before.
func (s *Simulation) Start() {
	if s.started {
		return
	}

	s.started = true

	for _, f := range s.funs {
		if s.monitor != nil {
			s.monitor.RegisterFUN(f)
		}

		f.OnFUNCreated()
	}

	s.logger.WithField("funs", len(s.funs)).Info("simulation started")
}

// Run starts the simulation and processes events until the end time, or
// until no event is left if there is no end time.
func (s *Simulation) Run() error {
	s.Start()

	if s.monitor != nil && s.endTime > 0 {
		bar := s.monitor.CreateProgressBar(
			fmt.Sprintf("simulation %s", s.id), 100)
		progress := hooking.NewHookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == timing.HookPosAfterEvent {
				bar.SetFinished(uint64(100 * s.engine.Now() / s.endTime))
			}
		})
		s.engine.AcceptHook(progress)

		defer s.monitor.CompleteProgressBar(bar)
	}

	var err error
	if s.endTime > 0 {
		err = s.engine.RunUntil(s.endTime)
	} else {
		err = s.engine.Run()
	}

	if err != nil {
		return err
	}

	s.logger.WithField("time", s.engine.Now()).Info("simulation finished")

	return nil
}

// Terminate flushes and closes the recording.
func (s *Simulation) Terminate() {
	if s.dataRecorder == nil {
		return
	}

	if err := s.dataRecorder.Close(); err != nil {
		s.logger.WithError(err).Error("closing recording")
	}

	s.dataRecorder = nil
}

package tools

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/timing"
)

// GeneratorParams configures a Generator.
type GeneratorParams struct {
	PacketSize int               `yaml:"packetSize"`
	Interval   timing.VTimeInSec `yaml:"interval"`
	Count      int               `yaml:"count"`
	Start      timing.VTimeInSec `yaml:"start"`
}

// DefaultGeneratorParams returns the parameters used when none are given.
func DefaultGeneratorParams() GeneratorParams {
	return GeneratorParams{
		PacketSize: 1024,
		Interval:   0.001,
	}
}

// Validate checks the parameters.
func (p GeneratorParams) Validate() error {
	if p.PacketSize <= 0 {
		return fmt.Errorf("packet size %d must be positive", p.PacketSize)
	}

	if p.Interval <= 0 {
		return fmt.Errorf("interval %g must be positive", p.Interval)
	}

	if p.Count < 0 {
		return fmt.Errorf("count %d must not be negative", p.Count)
	}

	return nil
}

// A Generator creates compounds at a fixed rate and sends them down. It
// keeps at most one compound waiting for the unit below; compounds generated
// while one is waiting are counted as blocked. Compounds arriving from below
// are counted and dropped.
type Generator struct {
	*ldk.FunctionalUnitBase

	params  GeneratorParams
	pending *ldk.Compound

	Generated    int
	Sent         int
	Blocked      int
	Received     int
	ReceivedBits int
	LastArrival  timing.VTimeInSec
}

// NewGenerator creates a Generator. It starts generating once its FUN is
// created.
func NewGenerator(name string, params GeneratorParams) *Generator {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	g := &Generator{params: params}
	g.FunctionalUnitBase = ldk.NewFunctionalUnitBase(name, g,
		ldk.Capabilities{
			Connector: ldk.NewSingleLink(),
		})

	return g
}

// Params returns the parameters of the generator.
func (g *Generator) Params() GeneratorParams {
	return g.params
}

// OnFUNCreated schedules the first compound.
func (g *Generator) OnFUNCreated() {
	s := g.scheduler()
	start := g.params.Start - s.Now()

	if start < 0 {
		start = 0
	}

	timing.ScheduleAfter(s, start, g.generate)
}

func (g *Generator) scheduler() timing.EventScheduler {
	env := g.Environment()
	if env == nil || env.Scheduler() == nil {
		panic(fmt.Sprintf("%s: generator needs a scheduler", g.Name()))
	}

	return env.Scheduler()
}

func (g *Generator) generate(timing.VTimeInSec) {
	c := g.Environment().CreateCompound(
		ldk.NewBits(g.params.PacketSize, g.Name()))
	g.Generated++

	if g.pending != nil {
		g.Blocked++
		g.Logger().WithField("compound", c.ID()).Trace("generator blocked")
	} else {
		g.pending = c
		g.trySend()
	}

	if g.params.Count == 0 || g.Generated < g.params.Count {
		timing.ScheduleAfter(g.scheduler(), g.params.Interval, g.generate)
	}
}

func (g *Generator) trySend() {
	if g.pending == nil {
		return
	}

	c := g.pending
	connector := g.Connector()

	if !connector.HasAcceptor(c) {
		return
	}

	g.pending = nil
	g.Sent++
	connector.GetAcceptor(c).SendData(c)
}

// DoIsAccepting returns false. Generators are top units.
func (g *Generator) DoIsAccepting(*ldk.Compound) bool {
	return false
}

// DoSendData is never called since the generator does not accept.
func (g *Generator) DoSendData(*ldk.Compound) {
	panic(fmt.Sprintf("%s: generators do not take compounds from above", g.Name()))
}

// DoOnData counts the compound and drops it.
func (g *Generator) DoOnData(c *ldk.Compound) {
	g.Received++
	g.ReceivedBits += c.LengthInBits()
	g.LastArrival = g.scheduler().Now()
}

// DoWakeup retries the waiting compound.
func (g *Generator) DoWakeup() {
	g.trySend()
}

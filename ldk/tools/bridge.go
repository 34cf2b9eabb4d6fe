package tools

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/timing"
)

// BridgeParams configures a Bridge.
type BridgeParams struct {
	// Delay is the propagation delay.
	Delay timing.VTimeInSec `yaml:"delay"`

	// BitRate limits how fast compounds are put on the bridge. Zero means
	// unlimited.
	BitRate float64 `yaml:"bitRate"`

	// DropEvery drops every n-th compound. Zero means no loss.
	DropEvery int `yaml:"dropEvery"`

	// ErrorRate is the chance that a delivered compound is corrupted. The
	// bridge does not act on it; checksum units above read it.
	ErrorRate float64 `yaml:"errorRate"`
}

// Validate checks the parameters.
func (p BridgeParams) Validate() error {
	if p.Delay < 0 || p.BitRate < 0 || p.DropEvery < 0 {
		return fmt.Errorf("bridge parameters must not be negative: %+v", p)
	}

	if p.ErrorRate < 0 || p.ErrorRate > 1 {
		return fmt.Errorf("error rate %g must be within [0, 1]", p.ErrorRate)
	}

	return nil
}

// A Bridge is the bottom unit of a network. It carries compounds to its peer
// bridge in another network, which delivers them up after the delay.
type Bridge struct {
	*ldk.FunctionalUnitBase

	params    BridgeParams
	peer      *Bridge
	busyUntil timing.VTimeInSec

	Transmitted int
	Dropped     int
	Delivered   int
}

// NewBridge creates an unpaired Bridge.
func NewBridge(name string, params BridgeParams) *Bridge {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	b := &Bridge{params: params}
	b.FunctionalUnitBase = ldk.NewFunctionalUnitBase(name, b,
		ldk.Capabilities{
			Deliverer: ldk.NewSingleLink(),
			Receptor:  ldk.NewMultiLink(),
		})

	return b
}

// Pair connects two bridges with each other.
func Pair(a, b *Bridge) {
	if a.peer != nil || b.peer != nil {
		panic(fmt.Sprintf("cannot pair %s with %s: already paired",
			a.Name(), b.Name()))
	}

	a.peer = b
	b.peer = a
}

// ErrorRate returns the configured error rate for every compound.
func (b *Bridge) ErrorRate(*ldk.Compound) float64 {
	return b.params.ErrorRate
}

// Peer returns the bridge on the other side, or nil.
func (b *Bridge) Peer() *Bridge {
	return b.peer
}

func (b *Bridge) scheduler() timing.EventScheduler {
	env := b.Environment()
	if env == nil || env.Scheduler() == nil {
		panic(fmt.Sprintf("%s: bridge needs a scheduler", b.Name()))
	}

	return env.Scheduler()
}

// DoIsAccepting tells if the bridge is paired and not busy.
func (b *Bridge) DoIsAccepting(*ldk.Compound) bool {
	if b.peer == nil {
		return false
	}

	if b.params.BitRate == 0 {
		return true
	}

	return b.scheduler().Now() >= b.busyUntil
}

// DoSendData puts the compound on the bridge.
func (b *Bridge) DoSendData(c *ldk.Compound) {
	s := b.scheduler()
	b.Transmitted++

	var txTime timing.VTimeInSec
	if b.params.BitRate > 0 {
		txTime = timing.VTimeInSec(
			float64(c.TotalLengthInBits()) / b.params.BitRate)
		b.busyUntil = s.Now() + txTime

		timing.ScheduleAfter(s, txTime, func(timing.VTimeInSec) {
			b.Receptor().Wakeup()
		})
	}

	if b.params.DropEvery > 0 && b.Transmitted%b.params.DropEvery == 0 {
		b.Dropped++
		b.Logger().WithField("compound", c.ID()).Debug("compound lost")

		return
	}

	peer := b.peer
	timing.ScheduleAfter(s, txTime+b.params.Delay, func(timing.VTimeInSec) {
		peer.OnData(c)
	})
}

// DoOnData delivers the compound up.
func (b *Bridge) DoOnData(c *ldk.Compound) {
	b.Delivered++
	b.Deliverer().GetAcceptor(c).OnData(c)
}

// DoWakeup passes the wakeup on.
func (b *Bridge) DoWakeup() {
	b.Receptor().Wakeup()
}

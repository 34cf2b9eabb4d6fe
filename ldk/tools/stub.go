// Package tools provides functional units for building and testing
// networks: stubs that record traffic, traffic generators, and bridges that
// carry compounds between networks.
package tools

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/timing"
)

// StubCommand records when a compound passed a Stub.
type StubCommand struct {
	SendDataTime timing.VTimeInSec
	OnDataTime   timing.VTimeInSec
}

// Clone returns a copy of the command.
func (c *StubCommand) Clone() ldk.Command {
	cp := *c
	return &cp
}

// A Stub records every compound that passes it. Compounds are forwarded if a
// neighbor is connected in that direction. A stub can be closed to stop
// accepting, or set to stepping mode to close after every compound.
type Stub struct {
	*ldk.FunctionalUnitBase
	ldk.CommandSpecifier[*StubCommand]

	Sent               []*ldk.Compound
	Received           []*ldk.Compound
	WakeupCalled       int
	OnFUNCreatedCalled int

	accepting bool
	stepping  bool
}

// NewStub creates a Stub with single links in all directions.
func NewStub(name string) *Stub {
	return NewStubWithCapabilities(name, ldk.Capabilities{
		Connector: ldk.NewSingleLink(),
		Deliverer: ldk.NewSingleLink(),
		Receptor:  ldk.NewSingleLink(),
	})
}

// NewStubWithCapabilities creates a Stub with the given links.
func NewStubWithCapabilities(name string, caps ldk.Capabilities) *Stub {
	s := &Stub{
		CommandSpecifier: ldk.MakeCommandSpecifier[*StubCommand](
			ldk.CommandKey(name)),
		accepting: true,
	}
	s.FunctionalUnitBase = ldk.NewFunctionalUnitBase(name, s, caps)

	return s
}

// SetStepping sets if the stub closes after taking a compound.
func (s *Stub) SetStepping(stepping bool) {
	s.stepping = stepping
}

// Open lets the stub accept compounds again, and wakes up the units above if
// asked to.
func (s *Stub) Open(wakeup bool) {
	s.accepting = true

	if wakeup {
		s.Receptor().Wakeup()
	}
}

// Close stops the stub from accepting compounds.
func (s *Stub) Close() {
	s.accepting = false
}

// Step lets exactly one compound through, if a unit above has one.
func (s *Stub) Step() {
	s.stepping = true
	s.Open(true)
	s.stepping = false
}

// Flush forgets all recorded compounds.
func (s *Stub) Flush() {
	s.Sent = nil
	s.Received = nil
}

// DoIsAccepting tells if the stub is open and the unit below, if any, would
// take the compound.
func (s *Stub) DoIsAccepting(c *ldk.Compound) bool {
	if !s.accepting {
		return false
	}

	connector := s.Capabilities().Connector
	if connector == nil || connector.Size() == 0 {
		return true
	}

	return connector.HasAcceptor(c)
}

// DoSendData records the compound and sends it down.
func (s *Stub) DoSendData(c *ldk.Compound) {
	s.command(c).SendDataTime = s.now()

	if s.stepping {
		s.Close()
	}

	s.Sent = append(s.Sent, c)

	connector := s.Capabilities().Connector
	if connector != nil && connector.Size() > 0 {
		connector.GetAcceptor(c).SendData(c)
	}
}

// DoOnData records the compound and delivers it up.
func (s *Stub) DoOnData(c *ldk.Compound) {
	s.command(c).OnDataTime = s.now()

	s.Received = append(s.Received, c)

	deliverer := s.Capabilities().Deliverer
	if deliverer != nil && deliverer.Size() > 0 {
		deliverer.GetAcceptor(c).OnData(c)
	}
}

// DoWakeup counts the wakeup and passes it on.
func (s *Stub) DoWakeup() {
	s.WakeupCalled++

	receptor := s.Capabilities().Receptor
	if receptor != nil {
		receptor.Wakeup()
	}
}

// OnFUNCreated counts the notification.
func (s *Stub) OnFUNCreated() {
	s.OnFUNCreatedCalled++
}

func (s *Stub) command(c *ldk.Compound) *StubCommand {
	if !s.IsActivated(c) {
		return s.Activate(c, &StubCommand{})
	}

	return s.MustGet(c)
}

func (s *Stub) now() timing.VTimeInSec {
	env := s.Environment()
	if env == nil || env.Scheduler() == nil {
		return 0
	}

	return env.Scheduler().Now()
}

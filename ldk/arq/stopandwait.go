package arq

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fu"
	"github.com/sarchlab/funsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// FrameType tells data frames from acknowledgments.
type FrameType int

// The frame types.
const (
	IFrame FrameType = iota
	RRFrame
)

func (t FrameType) String() string {
	if t == IFrame {
		return "I"
	}

	return "RR"
}

// StopAndWaitCommand is the header of a stop-and-wait frame.
type StopAndWaitCommand struct {
	Type       FrameType
	NS         int
	NR         int
	HeaderSize int
}

// Clone returns a copy of the command.
func (c *StopAndWaitCommand) Clone() ldk.Command {
	cp := *c
	return &cp
}

// SizeInBits returns the header size.
func (c *StopAndWaitCommand) SizeInBits() int {
	return c.HeaderSize
}

// StopAndWaitParams configures a StopAndWait unit.
type StopAndWaitParams struct {
	ResendTimeout   timing.VTimeInSec `yaml:"resendTimeout"`
	HeaderSize      int               `yaml:"headerSize"`
	CommandName     string            `yaml:"commandName"`
	StatusCollector string            `yaml:"statusCollector"`
}

// DefaultStopAndWaitParams returns the parameters used when none are given.
func DefaultStopAndWaitParams() StopAndWaitParams {
	return StopAndWaitParams{
		ResendTimeout:   0.01,
		HeaderSize:      2,
		CommandName:     "arq",
		StatusCollector: "counter",
	}
}

// Validate checks the parameters.
func (p StopAndWaitParams) Validate() error {
	if p.ResendTimeout <= 0 {
		return fmt.Errorf("resend timeout %g must be positive", p.ResendTimeout)
	}

	if p.HeaderSize < 0 {
		return fmt.Errorf("header size %d must not be negative", p.HeaderSize)
	}

	if p.CommandName == "" {
		return fmt.Errorf("command name must not be empty")
	}

	_, err := NewStatusCollector(p.StatusCollector)

	return err
}

// StopAndWait keeps one frame in flight and resends it until it is
// acknowledged.
type StopAndWait struct {
	*fu.Delayed
	ldk.CommandSpecifier[*StopAndWaitCommand]

	params    StopAndWaitParams
	collector StatusCollector

	ns          int
	nr          int
	active      *ldk.Compound
	sendNow     bool
	acks        []*ldk.Compound
	resendTimer *timing.CallbackEvent

	Retransmissions int
	Duplicates      int
}

// NewStopAndWait creates a StopAndWait unit.
func NewStopAndWait(name string, params StopAndWaitParams) *StopAndWait {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	collector, _ := NewStatusCollector(params.StatusCollector)

	s := &StopAndWait{
		CommandSpecifier: ldk.MakeCommandSpecifier[*StopAndWaitCommand](
			ldk.CommandKey(params.CommandName)),
		params:    params,
		collector: collector,
	}
	s.Delayed = fu.NewDelayed(name, s, ldk.Capabilities{
		Connector: ldk.NewSingleLink(),
		Deliverer: ldk.NewSingleLink(),
		Receptor:  ldk.NewSingleLink(),
	})

	return s
}

// StatusCollector returns the collector the unit reports to.
func (s *StopAndWait) StatusCollector() StatusCollector {
	return s.collector
}

// SetStatusCollector replaces the collector.
func (s *StopAndWait) SetStatusCollector(c StatusCollector) {
	s.collector = c
}

// ProcessOutgoing numbers the frame and makes it the active frame.
func (s *StopAndWait) ProcessOutgoing(c *ldk.Compound) {
	s.Activate(c, &StopAndWaitCommand{
		Type:       IFrame,
		NS:         s.ns,
		HeaderSize: s.params.HeaderSize,
	})

	s.active = c
	s.sendNow = true
}

// HasCapacity tells if no frame is in flight.
func (s *StopAndWait) HasCapacity() bool {
	return s.active == nil
}

// HasSomethingToSend returns a pending acknowledgment, or the active frame
// if it is due.
func (s *StopAndWait) HasSomethingToSend() *ldk.Compound {
	if len(s.acks) > 0 {
		return s.acks[0]
	}

	if s.active != nil && s.sendNow {
		return s.active
	}

	return nil
}

// GetSomethingToSend returns the next frame. Data frames are sent as
// copies, so that the active frame can be sent again.
func (s *StopAndWait) GetSomethingToSend() *ldk.Compound {
	if len(s.acks) > 0 {
		ack := s.acks[0]
		s.acks = s.acks[1:]

		return ack
	}

	s.sendNow = false
	s.startResendTimer()

	return s.active.Copy()
}

func (s *StopAndWait) startResendTimer() {
	env := s.Environment()
	if env == nil || env.Scheduler() == nil {
		panic(fmt.Sprintf("%s: stop-and-wait needs a scheduler", s.Name()))
	}

	s.cancelResendTimer()
	s.resendTimer = timing.ScheduleAfter(
		env.Scheduler(), s.params.ResendTimeout, s.onTimeout)
}

func (s *StopAndWait) cancelResendTimer() {
	if s.resendTimer != nil {
		s.resendTimer.Cancel()
		s.resendTimer = nil
	}
}

func (s *StopAndWait) onTimeout(timing.VTimeInSec) {
	s.resendTimer = nil

	if s.active == nil {
		return
	}

	s.Retransmissions++
	s.collector.OnFailedTransmission(s.active)
	s.Logger().WithField("ns", s.ns).Debug("resend timeout")

	s.sendNow = true
	s.TryToSend()
}

// ProcessIncoming handles data frames and acknowledgments.
func (s *StopAndWait) ProcessIncoming(c *ldk.Compound) {
	cmd, err := s.Get(c)
	if err != nil {
		s.Logger().WithError(err).Warn("incoming compound without ARQ header")
		return
	}

	switch cmd.Type {
	case IFrame:
		s.onIFrame(c, cmd)
	case RRFrame:
		s.onRRFrame(cmd)
	}
}

func (s *StopAndWait) onIFrame(c *ldk.Compound, cmd *StopAndWaitCommand) {
	ack := s.Environment().CreateCompound(ldk.NewBits(0, "RR"))
	s.Activate(ack, &StopAndWaitCommand{
		Type:       RRFrame,
		NR:         cmd.NS,
		HeaderSize: s.params.HeaderSize,
	})
	s.acks = append(s.acks, ack)

	if cmd.NS == s.nr {
		s.nr = 1 - s.nr
		s.Deliverer().GetAcceptor(c).OnData(c)
	} else {
		s.Duplicates++
		s.Logger().WithFields(logrus.Fields{
			"ns":       cmd.NS,
			"expected": s.nr,
		}).Debug("duplicate frame")
	}

	s.TryToSend()
}

func (s *StopAndWait) onRRFrame(cmd *StopAndWaitCommand) {
	if s.active == nil || cmd.NR != s.ns {
		s.Logger().WithField("nr", cmd.NR).Trace("stale acknowledgment")
		return
	}

	s.collector.OnSuccessfulTransmission(s.active)
	s.cancelResendTimer()

	s.active = nil
	s.sendNow = false
	s.ns = 1 - s.ns

	s.TryToSend()
}

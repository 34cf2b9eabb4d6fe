package fu

import "github.com/sarchlab/funsim/ldk"

// A DelayedHandler stores compounds and decides when they can leave.
type DelayedHandler interface {
	// ProcessOutgoing takes a compound from above.
	ProcessOutgoing(c *ldk.Compound)

	// ProcessIncoming takes a compound from below. The handler delivers it
	// up by itself, if at all.
	ProcessIncoming(c *ldk.Compound)

	// HasCapacity tells if another compound can be taken from above.
	HasCapacity() bool

	// HasSomethingToSend returns the next compound to send without removing
	// it, or nil.
	HasSomethingToSend() *ldk.Compound

	// GetSomethingToSend removes and returns the next compound to send.
	GetSomethingToSend() *ldk.Compound
}

// Delayed holds compounds until the unit below accepts them, and wakes up
// the units above when it regains capacity.
type Delayed struct {
	*ldk.FunctionalUnitBase

	handler  DelayedHandler
	inWakeup bool
}

// NewDelayed creates a Delayed unit body.
func NewDelayed(
	name string,
	handler DelayedHandler,
	caps ldk.Capabilities,
) *Delayed {
	d := &Delayed{handler: handler}
	d.FunctionalUnitBase = ldk.NewFunctionalUnitBase(name, d, caps)

	return d
}

// DoIsAccepting asks the handler for capacity.
func (d *Delayed) DoIsAccepting(*ldk.Compound) bool {
	return d.handler.HasCapacity()
}

// DoSendData stores the compound and sends whatever can be sent.
func (d *Delayed) DoSendData(c *ldk.Compound) {
	d.handler.ProcessOutgoing(c)
	d.TryToSend()
}

// DoOnData hands the compound to the handler.
func (d *Delayed) DoOnData(c *ldk.Compound) {
	d.handler.ProcessIncoming(c)
}

// DoWakeup sends whatever can be sent now.
func (d *Delayed) DoWakeup() {
	d.TryToSend()
}

// TryToSend sends compounds down until the handler runs dry or the unit
// below stops accepting. If capacity is left afterwards, the units above
// are woken up.
func (d *Delayed) TryToSend() {
	for {
		c := d.handler.HasSomethingToSend()
		if c == nil {
			break
		}

		connector := d.Connector()
		if !connector.HasAcceptor(c) {
			break
		}

		connector.GetAcceptor(c).SendData(d.handler.GetSomethingToSend())
	}

	d.wakeupUpper()
}

func (d *Delayed) wakeupUpper() {
	receptor := d.Capabilities().Receptor
	if receptor == nil || d.inWakeup || !d.handler.HasCapacity() {
		return
	}

	d.inWakeup = true
	receptor.Wakeup()
	d.inWakeup = false
}

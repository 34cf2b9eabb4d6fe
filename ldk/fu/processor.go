// Package fu provides reusable bodies for functional units that either
// forward compounds right away or hold them until the unit below accepts.
package fu

import "github.com/sarchlab/funsim/ldk"

// A ProcessorHandler modifies compounds as they pass through a Processor.
type ProcessorHandler interface {
	ProcessOutgoing(c *ldk.Compound)
	ProcessIncoming(c *ldk.Compound)
}

// A Processor forwards every compound right after processing it. It accepts
// a compound whenever the unit below does.
type Processor struct {
	*ldk.FunctionalUnitBase

	handler ProcessorHandler
}

// NewProcessor creates a Processor. The capabilities must include a
// connector, a deliverer and a receptor.
func NewProcessor(
	name string,
	handler ProcessorHandler,
	caps ldk.Capabilities,
) *Processor {
	p := &Processor{handler: handler}
	p.FunctionalUnitBase = ldk.NewFunctionalUnitBase(name, p, caps)

	return p
}

// DoIsAccepting asks the connector.
func (p *Processor) DoIsAccepting(c *ldk.Compound) bool {
	return p.Connector().HasAcceptor(c)
}

// DoSendData processes the compound and sends it down.
func (p *Processor) DoSendData(c *ldk.Compound) {
	p.handler.ProcessOutgoing(c)
	p.Connector().GetAcceptor(c).SendData(c)
}

// DoOnData processes the compound and delivers it up.
func (p *Processor) DoOnData(c *ldk.Compound) {
	p.handler.ProcessIncoming(c)
	p.Deliverer().GetAcceptor(c).OnData(c)
}

// DoWakeup passes the wakeup on to the units above.
func (p *Processor) DoWakeup() {
	p.Receptor().Wakeup()
}

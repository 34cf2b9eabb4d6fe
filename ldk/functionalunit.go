package ldk

import (
	"fmt"

	"github.com/sarchlab/funsim/sim/hooking"
	"github.com/sirupsen/logrus"
)

// HookPosSendData marks a compound entering a unit from above.
var HookPosSendData = &hooking.HookPos{Name: "SendData"}

// HookPosOnData marks a compound entering a unit from below.
var HookPosOnData = &hooking.HookPos{Name: "OnData"}

// HookPosWakeup marks a unit being woken up by a unit below.
var HookPosWakeup = &hooking.HookPos{Name: "Wakeup"}

// A FunctionalUnit is a node of a Functional Unit Network.
type FunctionalUnit interface {
	hooking.Hookable

	// Name returns the name of the unit, unique within its network.
	Name() string

	// IsAccepting tells if the unit would take the compound now. It must not
	// change any state.
	IsAccepting(c *Compound) bool

	// SendData hands an outgoing compound to the unit. The caller must have
	// checked IsAccepting.
	SendData(c *Compound)

	// OnData hands an incoming compound to the unit.
	OnData(c *Compound)

	// Wakeup tells the unit that a unit below has regained capacity.
	Wakeup()

	// Capabilities returns the aspects the unit has.
	Capabilities() Capabilities

	// Attach is called by the network when it takes over the unit.
	Attach(env Environment, self Handle)
}

// A CompoundHandler implements the behavior behind the public entry points of
// a unit.
type CompoundHandler interface {
	DoIsAccepting(c *Compound) bool
	DoSendData(c *Compound)
	DoOnData(c *Compound)
	DoWakeup()
}

// Capabilities lists the aspects a unit has. A nil field means the unit does
// not have that aspect.
type Capabilities struct {
	Connector Connector
	Deliverer Deliverer
	Receptor  Receptor
}

// FunctionalUnitBase provides the public entry points of a unit and forwards
// them to a CompoundHandler.
type FunctionalUnitBase struct {
	hooking.HookableBase

	name    string
	handler CompoundHandler
	caps    Capabilities
	env     Environment
	self    Handle
}

// NewFunctionalUnitBase creates a FunctionalUnitBase. The handler is
// usually the unit that embeds the base.
func NewFunctionalUnitBase(
	name string,
	handler CompoundHandler,
	caps Capabilities,
) *FunctionalUnitBase {
	if name == "" {
		panic("functional unit name must not be empty")
	}

	for _, link := range []Link{caps.Connector, caps.Deliverer, caps.Receptor} {
		if owned, ok := link.(ownedLink); ok {
			owned.setOwner(name)
		}
	}

	return &FunctionalUnitBase{
		name:    name,
		handler: handler,
		caps:    caps,
	}
}

// Name returns the name of the unit.
func (b *FunctionalUnitBase) Name() string {
	return b.name
}

// Capabilities returns the aspects of the unit.
func (b *FunctionalUnitBase) Capabilities() Capabilities {
	return b.caps
}

// Attach records the network the unit belongs to.
func (b *FunctionalUnitBase) Attach(env Environment, self Handle) {
	b.env = env
	b.self = self
}

// Environment returns the network the unit belongs to, or nil before the
// unit is added to one.
func (b *FunctionalUnitBase) Environment() Environment {
	return b.env
}

// Handle returns the handle of the unit inside its network.
func (b *FunctionalUnitBase) Handle() Handle {
	return b.self
}

// Logger returns a logger that tags entries with the unit.
func (b *FunctionalUnitBase) Logger() logrus.FieldLogger {
	var logger logrus.FieldLogger = logrus.StandardLogger()

	if b.env != nil {
		logger = b.env.Logger()
	}

	return logger.WithField("fu", b.name)
}

// Connector returns the connector aspect.
func (b *FunctionalUnitBase) Connector() Connector {
	if b.caps.Connector == nil {
		panic(fmt.Sprintf("%s has no connector", b.name))
	}

	return b.caps.Connector
}

// Deliverer returns the deliverer aspect.
func (b *FunctionalUnitBase) Deliverer() Deliverer {
	if b.caps.Deliverer == nil {
		panic(fmt.Sprintf("%s has no deliverer", b.name))
	}

	return b.caps.Deliverer
}

// Receptor returns the receptor aspect.
func (b *FunctionalUnitBase) Receptor() Receptor {
	if b.caps.Receptor == nil {
		panic(fmt.Sprintf("%s has no receptor", b.name))
	}

	return b.caps.Receptor
}

// IsAccepting asks the handler if the compound can be taken.
func (b *FunctionalUnitBase) IsAccepting(c *Compound) bool {
	return b.handler.DoIsAccepting(c)
}

// SendData hands the compound to the handler after checking that the
// handler accepts it.
func (b *FunctionalUnitBase) SendData(c *Compound) {
	if !b.handler.DoIsAccepting(c) {
		panic(fmt.Sprintf("%s: SendData called with %s while not accepting",
			b.name, c))
	}

	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosSendData,
		Item:   c,
	})

	b.handler.DoSendData(c)
}

// OnData hands the compound to the handler.
func (b *FunctionalUnitBase) OnData(c *Compound) {
	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosOnData,
		Item:   c,
	})

	b.handler.DoOnData(c)
}

// Wakeup notifies the handler.
func (b *FunctionalUnitBase) Wakeup() {
	b.InvokeHook(hooking.HookCtx{
		Domain: b,
		Pos:    HookPosWakeup,
	})

	b.handler.DoWakeup()
}

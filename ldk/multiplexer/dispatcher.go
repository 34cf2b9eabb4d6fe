package multiplexer

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fu"
	"github.com/sirupsen/logrus"
)

// DispatcherParams configures a Dispatcher.
type DispatcherParams struct {
	// OpcodeSize is the size of the opcode field in bits.
	OpcodeSize int `yaml:"opcodeSize"`

	// CommandName is the key of the opcode command. The name of the
	// dispatcher is used if it is empty.
	CommandName string `yaml:"commandName"`
}

// Validate checks the parameters.
func (p DispatcherParams) Validate() error {
	if p.OpcodeSize < 0 {
		return fmt.Errorf("opcode size %d must not be negative", p.OpcodeSize)
	}

	return nil
}

// A Dispatcher merges the flows of the units above it. Every unit connected
// from above gets its own OpcodeSetter, and incoming compounds are delivered
// to the setter whose index is stamped in the compound, whether that flow
// accepts or not.
type Dispatcher struct {
	*fu.Processor
	ldk.CommandSpecifier[*OpcodeCommand]

	params  DispatcherParams
	setters map[string]*OpcodeSetter
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(name string, params DispatcherParams) *Dispatcher {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	commandName := params.CommandName
	if commandName == "" {
		commandName = name
	}

	d := &Dispatcher{
		CommandSpecifier: ldk.MakeCommandSpecifier[*OpcodeCommand](
			ldk.CommandKey(commandName)),
		params:  params,
		setters: make(map[string]*OpcodeSetter),
	}
	d.Processor = fu.NewProcessor(name, d, ldk.Capabilities{
		Connector: ldk.NewRoundRobinLink(),
		Deliverer: ldk.NewOpcodeLink(ldk.OpcodeProviderFunc(d.Opcode)),
		Receptor:  ldk.NewRoundRobinLink(),
	})

	return d
}

// Opcode reads the opcode stamped on a compound. A compound that did not
// pass a setter of this dispatcher cannot be routed.
func (d *Dispatcher) Opcode(c *ldk.Compound) int {
	cmd, err := d.Get(c)
	if err != nil {
		panic(fmt.Sprintf("%s: cannot route %s: %v", d.Name(), c, err))
	}

	return cmd.Opcode
}

// Setter returns the setter inserted for the given unit above.
func (d *Dispatcher) Setter(upper string) (*OpcodeSetter, bool) {
	s, found := d.setters[upper]
	return s, found
}

// WhenConnecting inserts an OpcodeSetter between the unit above and the
// dispatcher. A unit that connects again, for example once down and once up,
// keeps its setter.
func (d *Dispatcher) WhenConnecting(
	net ldk.Network,
	upper ldk.FunctionalUnit,
	_ ldk.ConnectKind,
) ldk.FunctionalUnit {
	if s, found := d.setters[upper.Name()]; found {
		return s
	}

	opcode := d.Deliverer().Size()
	s := newOpcodeSetter(fmt.Sprintf("%s.%s", d.Name(), upper.Name()),
		d, opcode)

	net.AddFunctionalUnit(s)
	net.Wire(s, d, ldk.ConnectBoth)
	d.setters[upper.Name()] = s

	d.Logger().WithFields(logrus.Fields{
		"upper":  upper.Name(),
		"opcode": opcode,
	}).Debug("opcode setter inserted")

	return s
}

// ProcessOutgoing checks that the compound has been tagged.
func (d *Dispatcher) ProcessOutgoing(c *ldk.Compound) {
	if !d.IsActivated(c) {
		panic(fmt.Sprintf("%s: %s was not sent through an opcode setter",
			d.Name(), c))
	}
}

// ProcessIncoming does nothing. The deliverer picks the flow.
func (d *Dispatcher) ProcessIncoming(*ldk.Compound) {}

func (d *Dispatcher) stamp(c *ldk.Compound, opcode int) {
	d.Activate(c, &OpcodeCommand{Opcode: opcode, Size: d.params.OpcodeSize})
}

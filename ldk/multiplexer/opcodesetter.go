package multiplexer

import (
	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fu"
)

// An OpcodeSetter tags the compounds of one flow with its opcode before
// they reach the Dispatcher.
type OpcodeSetter struct {
	*fu.Processor

	dispatcher *Dispatcher
	opcode     int
}

func newOpcodeSetter(
	name string,
	dispatcher *Dispatcher,
	opcode int,
) *OpcodeSetter {
	s := &OpcodeSetter{
		dispatcher: dispatcher,
		opcode:     opcode,
	}
	s.Processor = fu.NewProcessor(name, s, ldk.Capabilities{
		Connector: ldk.NewSingleLink(),
		Deliverer: ldk.NewSingleLink(),
		Receptor:  ldk.NewSingleLink(),
	})

	return s
}

// Opcode returns the opcode of the flow.
func (s *OpcodeSetter) Opcode() int {
	return s.opcode
}

// ProcessOutgoing stamps the opcode.
func (s *OpcodeSetter) ProcessOutgoing(c *ldk.Compound) {
	s.dispatcher.stamp(c, s.opcode)
}

// ProcessIncoming does nothing.
func (s *OpcodeSetter) ProcessIncoming(*ldk.Compound) {}

package ldk

import "fmt"

// An OpcodeProvider reads the opcode of a compound, usually from the command
// of another unit.
type OpcodeProvider interface {
	Opcode(c *Compound) int
}

// OpcodeProviderFunc adapts a function to an OpcodeProvider.
type OpcodeProviderFunc func(c *Compound) int

// Opcode calls f.
func (f OpcodeProviderFunc) Opcode(c *Compound) int {
	return f(c)
}

// OpcodeLink selects the neighbor whose index equals the opcode of the
// compound, whether it accepts or not.
type OpcodeLink struct {
	linkBase

	provider OpcodeProvider
}

// NewOpcodeLink creates an OpcodeLink that reads opcodes from provider.
func NewOpcodeLink(provider OpcodeProvider) *OpcodeLink {
	if provider == nil {
		panic("opcode link needs an opcode provider")
	}

	return &OpcodeLink{provider: provider}
}

func (l *OpcodeLink) mustSelect(c *Compound) Handle {
	opcode := l.provider.Opcode(c)
	if opcode < 0 || opcode >= len(l.handles) {
		panic(fmt.Sprintf("%s: opcode %d of %s is out of range [0, %d)",
			l.ownerName(), opcode, c, len(l.handles)))
	}

	return l.handles[opcode]
}

// HasAcceptor returns true for any compound with a valid opcode. An invalid
// opcode panics.
func (l *OpcodeLink) HasAcceptor(c *Compound) bool {
	l.mustSelect(c)
	return true
}

// GetAcceptor returns the neighbor at the opcode of the compound.
func (l *OpcodeLink) GetAcceptor(c *Compound) FunctionalUnit {
	return l.mustSelect(c).FU()
}

// Wakeup wakes all neighbors in order.
func (l *OpcodeLink) Wakeup() {
	l.wakeupFrom(0)
}

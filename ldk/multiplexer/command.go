// Package multiplexer lets several flows share the units below a
// Dispatcher. Outgoing compounds are tagged with the flow they came from, so
// that incoming compounds find their way back to it.
package multiplexer

import "github.com/sarchlab/funsim/ldk"

// OpcodeCommand carries the index of the flow a compound belongs to.
type OpcodeCommand struct {
	Opcode int
	Size   int
}

// Clone returns a copy of the command.
func (c *OpcodeCommand) Clone() ldk.Command {
	cp := *c
	return &cp
}

// SizeInBits returns the size of the opcode field.
func (c *OpcodeCommand) SizeInBits() int {
	return c.Size
}

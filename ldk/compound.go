package ldk

import (
	"fmt"

	"github.com/sarchlab/funsim/sim/id"
)

// A Compound is the unit of data that flows through a network. It combines
// a payload with the commands the functional units attach to it.
//
// A compound handed to SendData or OnData belongs to the receiver. The sender
// must not mutate it afterwards.
type Compound struct {
	id        string
	birthmark string
	pdu       PDU
	pool      *CommandPool
}

// NewCompound creates a compound with an empty command pool.
func NewCompound(pdu PDU) *Compound {
	return NewCompoundWithPool(pdu, NewCommandPool())
}

// NewCompoundWithPool creates a compound that owns the given pool.
func NewCompoundWithPool(pdu PDU, pool *CommandPool) *Compound {
	c := &Compound{
		id:   id.Generate(),
		pdu:  pdu,
		pool: pool,
	}
	c.birthmark = c.id

	return c
}

// ID returns the identifier of this particular compound object.
func (c *Compound) ID() string {
	return c.id
}

// Birthmark identifies the logical data unit. Copies keep the birthmark of
// the compound they are copied from.
func (c *Compound) Birthmark() string {
	return c.birthmark
}

// PDU returns the payload.
func (c *Compound) PDU() PDU {
	return c.pdu
}

// SetPDU replaces the payload.
func (c *Compound) SetPDU(pdu PDU) {
	c.pdu = pdu
}

// CommandPool returns the pool of the compound.
func (c *Compound) CommandPool() *CommandPool {
	return c.pool
}

// LengthInBits returns the size of the payload.
func (c *Compound) LengthInBits() int {
	if c.pdu == nil {
		return 0
	}

	return c.pdu.LengthInBits()
}

// TotalLengthInBits returns the payload size plus the header size of all the
// sized commands.
func (c *Compound) TotalLengthInBits() int {
	return c.LengthInBits() + c.pool.SizeInBits()
}

// AddCommand activates a command. Adding a second command for the same key
// panics.
func (c *Compound) AddCommand(key CommandKey, cmd Command) {
	c.pool.Add(key, cmd)
}

// Command returns the command activated under key, or ErrMissingCommand.
func (c *Compound) Command(key CommandKey) (Command, error) {
	return c.pool.Get(key)
}

// HasCommand tells if a command is activated under key.
func (c *Compound) HasCommand(key CommandKey) bool {
	return c.pool.Knows(key)
}

// Copy returns a compound with the same payload and birthmark and a deep copy
// of the commands.
func (c *Compound) Copy() *Compound {
	cp := NewCompoundWithPool(c.pdu, c.pool.Copy())
	cp.birthmark = c.birthmark

	return cp
}

// PartialCopy is like Copy but only keeps the commands activated before upTo.
func (c *Compound) PartialCopy(upTo CommandKey) *Compound {
	cp := NewCompoundWithPool(c.pdu, c.pool.PartialCopy(upTo))
	cp.birthmark = c.birthmark

	return cp
}

func (c *Compound) String() string {
	return fmt.Sprintf("compound %s (%d bits, birthmark %s)",
		c.id, c.LengthInBits(), c.birthmark)
}

package ldk

import (
	"fmt"
	"slices"
)

// CommandKey identifies the role that owns a command. It is the command name
// of a functional unit and stays the same across networks, so that a peer
// unit can read the command created by its counterpart.
type CommandKey string

// A Command is the per-hop state a functional unit attaches to a compound.
type Command interface {
	// Clone returns an independent copy of the command.
	Clone() Command
}

// A SizedCommand contributes header bits to the compound that carries it.
type SizedCommand interface {
	Command
	SizeInBits() int
}

// CommandPool holds the commands of a compound together with the order in
// which they were activated.
type CommandPool struct {
	commands map[CommandKey]Command
	path     []CommandKey
}

// NewCommandPool creates an empty CommandPool.
func NewCommandPool() *CommandPool {
	return &CommandPool{
		commands: make(map[CommandKey]Command),
	}
}

// Add activates a command. Activating the same key twice is a logic error.
func (p *CommandPool) Add(key CommandKey, cmd Command) {
	if _, found := p.commands[key]; found {
		panic(fmt.Sprintf("command %s is already activated", key))
	}

	p.commands[key] = cmd
	p.path = append(p.path, key)
}

// Get returns the command activated under key.
func (p *CommandPool) Get(key CommandKey) (Command, error) {
	cmd, found := p.commands[key]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrMissingCommand, key)
	}

	return cmd, nil
}

// Knows tells if a command is activated under key.
func (p *CommandPool) Knows(key CommandKey) bool {
	_, found := p.commands[key]
	return found
}

// Path returns the keys in activation order.
func (p *CommandPool) Path() []CommandKey {
	return slices.Clone(p.path)
}

// Len returns the number of activated commands.
func (p *CommandPool) Len() int {
	return len(p.path)
}

// Copy returns a pool with a clone of every command.
func (p *CommandPool) Copy() *CommandPool {
	return p.copyPrefix(len(p.path))
}

// PartialCopy returns a pool with a clone of every command activated before
// upTo. If upTo is not activated, the whole pool is copied.
func (p *CommandPool) PartialCopy(upTo CommandKey) *CommandPool {
	n := slices.Index(p.path, upTo)
	if n < 0 {
		n = len(p.path)
	}

	return p.copyPrefix(n)
}

func (p *CommandPool) copyPrefix(n int) *CommandPool {
	cp := NewCommandPool()

	for _, key := range p.path[:n] {
		cp.commands[key] = p.commands[key].Clone()
		cp.path = append(cp.path, key)
	}

	return cp
}

// SizeInBits returns the sum of the header sizes of the sized commands.
func (p *CommandPool) SizeInBits() int {
	size := 0

	for _, cmd := range p.commands {
		if sized, ok := cmd.(SizedCommand); ok {
			size += sized.SizeInBits()
		}
	}

	return size
}

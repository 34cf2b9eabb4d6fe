package ldk

import (
	"fmt"
)

// A CommandSpecifier gives a functional unit typed access to its own
// command. Units usually embed one.
type CommandSpecifier[T Command] struct {
	key CommandKey
}

// MakeCommandSpecifier creates a specifier for the given key.
func MakeCommandSpecifier[T Command](key CommandKey) CommandSpecifier[T] {
	return CommandSpecifier[T]{key: key}
}

// CommandKey returns the key the command is stored under.
func (s CommandSpecifier[T]) CommandKey() CommandKey {
	return s.key
}

// Activate attaches cmd to the compound and returns it.
func (s CommandSpecifier[T]) Activate(c *Compound, cmd T) T {
	c.AddCommand(s.key, cmd)
	return cmd
}

// IsActivated tells if the compound carries the command.
func (s CommandSpecifier[T]) IsActivated(c *Compound) bool {
	return c.HasCommand(s.key)
}

// Get returns the typed command of the compound.
func (s CommandSpecifier[T]) Get(c *Compound) (T, error) {
	var zero T

	cmd, err := c.Command(s.key)
	if err != nil {
		return zero, err
	}

	typed, ok := cmd.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T", ErrMissingCommand, s.key, cmd)
	}

	return typed, nil
}

// MustGet is Get for callers that activated the command themselves.
func (s CommandSpecifier[T]) MustGet(c *Compound) T {
	cmd, err := s.Get(c)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", c, err))
	}

	return cmd
}

// Package ldk provides the building blocks of a Functional Unit Network:
// compounds and their commands, functional units with their connector,
// deliverer and receptor aspects, and the link strategies that back them.
package ldk

import "fmt"

// A PDU is the payload a compound carries. The core never looks inside it.
type PDU interface {
	LengthInBits() int
}

// Bits is a PDU that only has a size. Traffic sources use it when the content
// of the data does not matter.
type Bits struct {
	Length int
	Label  string
}

// NewBits creates a Bits payload.
func NewBits(length int, label string) *Bits {
	if length < 0 {
		panic(fmt.Sprintf("payload length %d is negative", length))
	}

	return &Bits{Length: length, Label: label}
}

// LengthInBits returns the size of the payload.
func (b *Bits) LengthInBits() int {
	return b.Length
}

func (b *Bits) String() string {
	return fmt.Sprintf("%s(%d bits)", b.Label, b.Length)
}

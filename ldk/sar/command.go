// Package sar provides segmentation and reassembly of compounds.
package sar

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
)

// Command is the header a segmenter attaches to every fragment.
type Command struct {
	Connection     string
	SDU            uint64
	FragmentNumber int
	Offset         int
	Last           bool
	HeaderSize     int
}

// Clone returns a copy of the command.
func (c *Command) Clone() ldk.Command {
	cp := *c
	return &cp
}

// SizeInBits returns the header size.
func (c *Command) SizeInBits() int {
	return c.HeaderSize
}

// A Segment is the part of a PDU that a fragment carries.
type Segment struct {
	Source ldk.PDU
	Offset int
	Length int
}

// LengthInBits returns the length of the segment.
func (s *Segment) LengthInBits() int {
	return s.Length
}

func (s *Segment) String() string {
	return fmt.Sprintf("segment [%d, %d) of %v",
		s.Offset, s.Offset+s.Length, s.Source)
}

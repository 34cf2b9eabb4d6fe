// Package buffer provides queueing units that sit between a producer and a
// unit below that is not always accepting.
package buffer

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/ldk/fu"
	"github.com/sirupsen/logrus"
)

// SizeUnit selects how the fill level of a buffer is measured.
type SizeUnit string

// The supported size units.
const (
	SizeUnitPDU SizeUnit = "PDU"
	SizeUnitBit SizeUnit = "Bit"
)

// DropPolicy selects which compound is discarded when a buffer overflows.
type DropPolicy string

// The supported drop policies.
const (
	// DropTail discards the newest compound.
	DropTail DropPolicy = "Tail"

	// DropFront discards the oldest compound.
	DropFront DropPolicy = "Front"
)

// DroppingParams configures a Dropping buffer.
type DroppingParams struct {
	Size     int        `yaml:"size"`
	SizeUnit SizeUnit   `yaml:"sizeUnit"`
	Drop     DropPolicy `yaml:"drop"`
}

// DefaultDroppingParams returns the parameters used when none are given.
func DefaultDroppingParams() DroppingParams {
	return DroppingParams{
		Size:     100,
		SizeUnit: SizeUnitPDU,
		Drop:     DropTail,
	}
}

// Validate checks the parameters.
func (p DroppingParams) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("buffer size %d must be positive", p.Size)
	}

	switch p.SizeUnit {
	case SizeUnitPDU, SizeUnitBit:
	default:
		return fmt.Errorf("unknown size unit %q", p.SizeUnit)
	}

	switch p.Drop {
	case DropTail, DropFront:
	default:
		return fmt.Errorf("unknown drop policy %q", p.Drop)
	}

	return nil
}

// Dropping is a FIFO buffer that always accepts. When it grows beyond its
// size, compounds are discarded according to its drop policy.
type Dropping struct {
	*fu.Delayed

	params      DroppingParams
	queue       []*ldk.Compound
	currentSize int

	TotalPDUs   int
	DroppedPDUs int
	DroppedBits int
}

// NewDropping creates a Dropping buffer.
func NewDropping(name string, params DroppingParams) *Dropping {
	if err := params.Validate(); err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	b := &Dropping{params: params}
	b.Delayed = fu.NewDelayed(name, b, ldk.Capabilities{
		Connector: ldk.NewSingleLink(),
		Deliverer: ldk.NewSingleLink(),
		Receptor:  ldk.NewSingleLink(),
	})

	return b
}

// Size returns the current fill level in the configured unit.
func (b *Dropping) Size() int {
	return b.currentSize
}

// MaxSize returns the configured size.
func (b *Dropping) MaxSize() int {
	return b.params.Size
}

// Len returns the number of queued compounds.
func (b *Dropping) Len() int {
	return len(b.queue)
}

func (b *Dropping) sizeOf(c *ldk.Compound) int {
	if b.params.SizeUnit == SizeUnitBit {
		return c.TotalLengthInBits()
	}

	return 1
}

// ProcessOutgoing queues the compound and drops until the buffer fits.
func (b *Dropping) ProcessOutgoing(c *ldk.Compound) {
	b.queue = append(b.queue, c)
	b.currentSize += b.sizeOf(c)
	b.TotalPDUs++

	for b.currentSize > b.params.Size {
		dropped := b.drop()
		size := b.sizeOf(dropped)
		b.currentSize -= size
		b.DroppedPDUs++
		b.DroppedBits += dropped.TotalLengthInBits()

		b.Logger().WithFields(logrus.Fields{
			"compound": dropped.ID(),
			"size":     b.currentSize,
			"max":      b.params.Size,
		}).Info("buffer full, compound dropped")
	}
}

func (b *Dropping) drop() *ldk.Compound {
	var c *ldk.Compound

	switch b.params.Drop {
	case DropFront:
		c = b.queue[0]
		b.queue = b.queue[1:]
	default:
		last := len(b.queue) - 1
		c = b.queue[last]
		b.queue = b.queue[:last]
	}

	return c
}

// ProcessIncoming delivers the compound up.
func (b *Dropping) ProcessIncoming(c *ldk.Compound) {
	b.Deliverer().GetAcceptor(c).OnData(c)
}

// HasCapacity is always true. Overflow is handled by dropping.
func (b *Dropping) HasCapacity() bool {
	return true
}

// HasSomethingToSend returns the oldest compound, or nil.
func (b *Dropping) HasSomethingToSend() *ldk.Compound {
	if len(b.queue) == 0 {
		return nil
	}

	return b.queue[0]
}

// GetSomethingToSend removes and returns the oldest compound.
func (b *Dropping) GetSomethingToSend() *ldk.Compound {
	c := b.queue[0]
	b.queue = b.queue[1:]
	b.currentSize -= b.sizeOf(c)

	return c
}

// LossRatio returns the share of compounds that were dropped.
func (b *Dropping) LossRatio() float64 {
	if b.TotalPDUs == 0 {
		return 0
	}

	return float64(b.DroppedPDUs) / float64(b.TotalPDUs)
}

// Package softcombining provides the storage for HARQ soft combining: the
// received transmissions of one data unit, grouped by redundancy version.
package softcombining

import (
	"fmt"
	"slices"

	"github.com/sarchlab/funsim/ldk"
)

// InvalidRVError is the panic value for a redundancy version outside the
// range of a Container.
type InvalidRVError struct {
	RV     int
	NumRVs int
}

func (e *InvalidRVError) Error() string {
	return fmt.Sprintf("redundancy version %d is not in [0, %d)", e.RV, e.NumRVs)
}

// A Container keeps the received compounds of each redundancy version in
// arrival order. It does not combine anything.
type Container struct {
	compounds [][]*ldk.Compound
}

// NewContainer creates a container for numRVs redundancy versions.
func NewContainer(numRVs int) *Container {
	if numRVs <= 0 {
		panic(fmt.Sprintf("number of redundancy versions %d must be positive",
			numRVs))
	}

	return &Container{compounds: make([][]*ldk.Compound, numRVs)}
}

// NumRVs returns the number of redundancy versions.
func (c *Container) NumRVs() int {
	return len(c.compounds)
}

func (c *Container) mustBeValidRV(rv int) {
	if rv < 0 || rv >= len(c.compounds) {
		panic(&InvalidRVError{RV: rv, NumRVs: len(c.compounds)})
	}
}

// AppendCompoundForRV adds a received compound.
func (c *Container) AppendCompoundForRV(rv int, compound *ldk.Compound) {
	c.mustBeValidRV(rv)
	c.compounds[rv] = append(c.compounds[rv], compound)
}

// CompoundsForRV returns the compounds received for rv, oldest first.
func (c *Container) CompoundsForRV(rv int) []*ldk.Compound {
	c.mustBeValidRV(rv)
	return slices.Clone(c.compounds[rv])
}

// Len returns the number of compounds over all redundancy versions.
func (c *Container) Len() int {
	n := 0
	for _, list := range c.compounds {
		n += len(list)
	}

	return n
}

// Clear drops all compounds. The number of redundancy versions stays.
func (c *Container) Clear() {
	for i := range c.compounds {
		c.compounds[i] = nil
	}
}

// A Decoder decides if the content of a container can be decoded.
type Decoder interface {
	CanDecode(c *Container) bool
}

// ThresholdDecoder can decode once enough transmissions have been received,
// or once the given redundancy versions have all been received.
type ThresholdDecoder struct {
	RequiredTransmissions int
	RequiredRVs           []int
}

// CanDecode applies the thresholds.
func (d ThresholdDecoder) CanDecode(c *Container) bool {
	if d.RequiredTransmissions > 0 && c.Len() >= d.RequiredTransmissions {
		return true
	}

	if len(d.RequiredRVs) == 0 {
		return false
	}

	for _, rv := range d.RequiredRVs {
		if len(c.CompoundsForRV(rv)) == 0 {
			return false
		}
	}

	return true
}

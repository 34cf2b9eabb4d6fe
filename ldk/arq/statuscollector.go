// Package arq provides automatic repeat request units and the collectors
// that keep track of how well transmissions go.
package arq

import (
	"fmt"

	"github.com/sarchlab/funsim/ldk"
)

// A StatusCollector keeps track of the outcome of transmissions.
type StatusCollector interface {
	OnSuccessfulTransmission(c *ldk.Compound)
	OnFailedTransmission(c *ldk.Compound)

	// SuccessRate returns the ratio of successful transmissions. The second
	// return value is false if no transmission has been recorded.
	SuccessRate(c *ldk.Compound) (float64, bool)

	Reset()
}

// NewStatusCollector creates a collector by name. The known names are
// "none" and "counter".
func NewStatusCollector(kind string) (StatusCollector, error) {
	switch kind {
	case "", "none":
		return NoStatusCollection{}, nil
	case "counter":
		return &Counter{}, nil
	}

	return nil, fmt.Errorf("unknown status collector %q", kind)
}

// NoStatusCollection ignores all events and always reports full success.
type NoStatusCollection struct{}

// OnSuccessfulTransmission does nothing.
func (NoStatusCollection) OnSuccessfulTransmission(*ldk.Compound) {}

// OnFailedTransmission does nothing.
func (NoStatusCollection) OnFailedTransmission(*ldk.Compound) {}

// SuccessRate returns 1.
func (NoStatusCollection) SuccessRate(*ldk.Compound) (float64, bool) {
	return 1.0, true
}

// Reset does nothing.
func (NoStatusCollection) Reset() {}

// Counter counts successful and failed transmissions.
type Counter struct {
	Succeeded int
	Failed    int
}

// OnSuccessfulTransmission counts a success.
func (c *Counter) OnSuccessfulTransmission(*ldk.Compound) {
	c.Succeeded++
}

// OnFailedTransmission counts a failure.
func (c *Counter) OnFailedTransmission(*ldk.Compound) {
	c.Failed++
}

// SuccessRate returns succeeded / (succeeded + failed).
func (c *Counter) SuccessRate(*ldk.Compound) (float64, bool) {
	total := c.Succeeded + c.Failed
	if total == 0 {
		return 0, false
	}

	return float64(c.Succeeded) / float64(total), true
}

// Reset forgets all events.
func (c *Counter) Reset() {
	c.Succeeded = 0
	c.Failed = 0
}

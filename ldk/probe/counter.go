package probe

import (
	"sort"
	"sync"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/hooking"
)

// CounterEntry holds what a Counter has seen at one unit.
type CounterEntry struct {
	FUN      string `json:"fun"`
	FU       string `json:"fu"`
	SendData int    `json:"send_data"`
	OnData   int    `json:"on_data"`
	Wakeup   int    `json:"wakeup"`
	SentBits int    `json:"sent_bits"`
	RecvBits int    `json:"recv_bits"`
}

type counterKey struct {
	network, unit string
}

// A Counter counts the calls to the entry points of every unit it is
// attached to. It can be read while the simulation is running.
type Counter struct {
	lock    sync.Mutex
	entries map[counterKey]*CounterEntry
}

// NewCounter creates an empty Counter.
func NewCounter() *Counter {
	return &Counter{entries: make(map[counterKey]*CounterEntry)}
}

// Func counts the call.
func (c *Counter) Func(ctx hooking.HookCtx) {
	network, unit := site(ctx)

	c.lock.Lock()
	defer c.lock.Unlock()

	key := counterKey{network: network, unit: unit}

	entry, found := c.entries[key]
	if !found {
		entry = &CounterEntry{FUN: network, FU: unit}
		c.entries[key] = entry
	}

	bits := 0
	if compound, ok := ctx.Item.(*ldk.Compound); ok && compound != nil {
		bits = compound.TotalLengthInBits()
	}

	switch ctx.Pos {
	case ldk.HookPosSendData:
		entry.SendData++
		entry.SentBits += bits
	case ldk.HookPosOnData:
		entry.OnData++
		entry.RecvBits += bits
	case ldk.HookPosWakeup:
		entry.Wakeup++
	}
}

// Get returns the counts of one unit.
func (c *Counter) Get(network, unit string) (CounterEntry, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	entry, found := c.entries[counterKey{network: network, unit: unit}]
	if !found {
		return CounterEntry{}, false
	}

	return *entry, true
}

// Snapshot returns the counts of all units, sorted by network and unit.
func (c *Counter) Snapshot() []CounterEntry {
	c.lock.Lock()
	defer c.lock.Unlock()

	entries := make([]CounterEntry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].FUN != entries[j].FUN {
			return entries[i].FUN < entries[j].FUN
		}

		return entries[i].FU < entries[j].FU
	})

	return entries
}

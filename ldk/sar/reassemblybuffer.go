package sar

import (
	"slices"

	"github.com/sarchlab/funsim/ldk"
)

// Key identifies an SDU of a connection.
type Key struct {
	Connection string
	SDU        uint64
}

// PushResult tells what the buffer did with a fragment.
type PushResult int

// The possible results of a Push.
const (
	Accepted PushResult = iota
	Duplicate
	OutOfWindow
)

func (r PushResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case OutOfWindow:
		return "out of window"
	}

	return "unknown"
}

// ReassembledFunc is called with the fragments of a completed SDU, ordered by
// fragment number.
type ReassembledFunc func(key Key, fragments []*ldk.Compound)

type partialSDU struct {
	fragments    map[int]*ldk.Compound
	lastFragment int
}

type connectionState struct {
	highest uint64
	partial map[uint64]*partialSDU
	done    map[uint64]bool
}

// A ReassemblyBuffer collects fragments until their SDU is complete. Per
// connection, it accepts SDUs that are no more than window-1 older than the
// newest SDU seen. Older SDUs are abandoned.
type ReassemblyBuffer struct {
	window      uint64
	connections map[string]*connectionState
	listeners   []ReassembledFunc
}

// NewReassemblyBuffer creates a buffer with the given window size.
func NewReassemblyBuffer(window int) *ReassemblyBuffer {
	if window <= 0 {
		panic("reassembly window must be positive")
	}

	return &ReassemblyBuffer{
		window:      uint64(window),
		connections: make(map[string]*connectionState),
	}
}

// OnReassembled registers a function to call when an SDU is complete.
func (b *ReassemblyBuffer) OnReassembled(f ReassembledFunc) {
	b.listeners = append(b.listeners, f)
}

// Push adds a fragment. Duplicates and fragments outside the window are
// discarded.
func (b *ReassemblyBuffer) Push(
	key Key,
	fragment int,
	last bool,
	c *ldk.Compound,
) PushResult {
	conn := b.connection(key.Connection, key.SDU)

	if key.SDU+b.window <= conn.highest {
		return OutOfWindow
	}

	if key.SDU > conn.highest {
		conn.highest = key.SDU
		b.abandonOld(conn)
	}

	if conn.done[key.SDU] {
		return Duplicate
	}

	sdu, found := conn.partial[key.SDU]
	if !found {
		sdu = &partialSDU{
			fragments:    make(map[int]*ldk.Compound),
			lastFragment: -1,
		}
		conn.partial[key.SDU] = sdu
	}

	if _, dup := sdu.fragments[fragment]; dup {
		return Duplicate
	}

	sdu.fragments[fragment] = c
	if last {
		sdu.lastFragment = fragment
	}

	b.checkCompleteness(key, conn, sdu)

	return Accepted
}

func (b *ReassemblyBuffer) connection(
	name string,
	firstSDU uint64,
) *connectionState {
	conn, found := b.connections[name]
	if !found {
		conn = &connectionState{
			highest: firstSDU,
			partial: make(map[uint64]*partialSDU),
			done:    make(map[uint64]bool),
		}
		b.connections[name] = conn
	}

	return conn
}

func (b *ReassemblyBuffer) abandonOld(conn *connectionState) {
	for sdu := range conn.partial {
		if sdu+b.window <= conn.highest {
			delete(conn.partial, sdu)
		}
	}

	for sdu := range conn.done {
		if sdu+b.window <= conn.highest {
			delete(conn.done, sdu)
		}
	}
}

func (b *ReassemblyBuffer) checkCompleteness(
	key Key,
	conn *connectionState,
	sdu *partialSDU,
) {
	if sdu.lastFragment < 0 || len(sdu.fragments) != sdu.lastFragment+1 {
		return
	}

	fragments := make([]*ldk.Compound, 0, len(sdu.fragments))
	for i := 0; i <= sdu.lastFragment; i++ {
		f, found := sdu.fragments[i]
		if !found {
			return
		}

		fragments = append(fragments, f)
	}

	delete(conn.partial, key.SDU)
	conn.done[key.SDU] = true

	for _, l := range b.listeners {
		l(key, slices.Clone(fragments))
	}
}

// Pending returns the number of incomplete SDUs of a connection.
func (b *ReassemblyBuffer) Pending(connection string) int {
	conn, found := b.connections[connection]
	if !found {
		return 0
	}

	return len(conn.partial)
}

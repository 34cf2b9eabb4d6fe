package ldk

import "fmt"

// SingleLink holds at most one neighbor.
type SingleLink struct {
	linkBase
}

// NewSingleLink creates an empty SingleLink.
func NewSingleLink() *SingleLink {
	return &SingleLink{}
}

// Add sets the neighbor. A SingleLink that already has a neighbor cannot
// take another one.
func (l *SingleLink) Add(h Handle) {
	if len(l.handles) > 0 {
		panic(fmt.Sprintf("single link is already connected to %s",
			l.handles[0].FU().Name()))
	}

	l.linkBase.Add(h)
}

// Set replaces the neighbor.
func (l *SingleLink) Set(handles []Handle) {
	if len(handles) > 1 {
		panic(fmt.Sprintf("single link cannot hold %d neighbors", len(handles)))
	}

	l.linkBase.Set(handles)
}

// HasAcceptor tells if the neighbor exists and accepts the compound.
func (l *SingleLink) HasAcceptor(c *Compound) bool {
	if len(l.handles) == 0 {
		return false
	}

	return l.handles[0].FU().IsAccepting(c)
}

// GetAcceptor returns the neighbor.
func (l *SingleLink) GetAcceptor(c *Compound) FunctionalUnit {
	if len(l.handles) == 0 {
		l.noAcceptorPanic("single", c)
	}

	return l.handles[0].FU()
}

// Wakeup wakes the neighbor, if any.
func (l *SingleLink) Wakeup() {
	l.wakeupFrom(0)
}

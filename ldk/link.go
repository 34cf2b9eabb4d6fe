package ldk

import (
	"fmt"
	"slices"
)

// A Link is an ordered collection of references to neighbor units.
type Link interface {
	// Add appends a neighbor.
	Add(h Handle)

	// Clear removes all neighbors.
	Clear()

	// Size returns the number of neighbors.
	Size() int

	// Get returns the neighbors in order.
	Get() []Handle

	// Set replaces all the neighbors.
	Set(handles []Handle)

	// Remove drops a neighbor. Removing an unknown neighbor does nothing.
	Remove(h Handle)
}

// A Connector selects the unit below that takes an outgoing compound.
type Connector interface {
	Link

	// HasAcceptor tells if a neighbor would take the compound now.
	HasAcceptor(c *Compound) bool

	// GetAcceptor selects the neighbor. The caller must have checked
	// HasAcceptor.
	GetAcceptor(c *Compound) FunctionalUnit
}

// A Deliverer selects the unit above that takes an incoming compound.
type Deliverer interface {
	Link

	HasAcceptor(c *Compound) bool
	GetAcceptor(c *Compound) FunctionalUnit
}

// A Receptor wakes up the units above.
type Receptor interface {
	Link

	Wakeup()
}

// linkBase stores the neighbors. It has no selection policy of its own.
type linkBase struct {
	owner   string
	handles []Handle
}

// ownedLink is a link that knows the name of the unit holding it.
type ownedLink interface {
	setOwner(name string)
}

func (l *linkBase) setOwner(name string) {
	l.owner = name
}

func (l *linkBase) ownerName() string {
	if l.owner == "" {
		return "<unowned>"
	}

	return l.owner
}

func (l *linkBase) Add(h Handle) {
	if h.arena == nil {
		panic(fmt.Sprintf("%s: cannot link to an empty handle", l.ownerName()))
	}

	l.handles = append(l.handles, h)
}

func (l *linkBase) Clear() {
	l.handles = nil
}

func (l *linkBase) Size() int {
	return len(l.handles)
}

func (l *linkBase) Get() []Handle {
	return slices.Clone(l.handles)
}

func (l *linkBase) Set(handles []Handle) {
	for _, h := range handles {
		if h.arena == nil {
			panic(fmt.Sprintf("%s: cannot link to an empty handle",
				l.ownerName()))
		}
	}

	l.handles = slices.Clone(handles)
}

func (l *linkBase) Remove(h Handle) {
	l.handles = slices.DeleteFunc(l.handles, func(x Handle) bool {
		return x == h
	})
}

func (l *linkBase) wakeupFrom(start int) {
	n := len(l.handles)
	handles := slices.Clone(l.handles)

	for i := 0; i < n; i++ {
		handles[(start+i)%n].FU().Wakeup()
	}
}

func (l *linkBase) noAcceptorPanic(kind string, c *Compound) {
	panic(fmt.Sprintf(
		"%s: %s link: GetAcceptor called without acceptor for %s",
		l.ownerName(), kind, c))
}

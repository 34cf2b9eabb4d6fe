package ldk

// FirstServeLink always selects the accepting neighbor that was added first.
type FirstServeLink struct {
	linkBase
}

// NewFirstServeLink creates an empty FirstServeLink.
func NewFirstServeLink() *FirstServeLink {
	return &FirstServeLink{}
}

func (l *FirstServeLink) find(c *Compound) int {
	for i, h := range l.handles {
		if h.FU().IsAccepting(c) {
			return i
		}
	}

	return -1
}

// HasAcceptor tells if any neighbor accepts the compound.
func (l *FirstServeLink) HasAcceptor(c *Compound) bool {
	return l.find(c) >= 0
}

// GetAcceptor returns the lowest-index accepting neighbor.
func (l *FirstServeLink) GetAcceptor(c *Compound) FunctionalUnit {
	index := l.find(c)
	if index < 0 {
		l.noAcceptorPanic("first serve", c)
	}

	return l.handles[index].FU()
}

// Wakeup wakes all neighbors in priority order.
func (l *FirstServeLink) Wakeup() {
	l.wakeupFrom(0)
}

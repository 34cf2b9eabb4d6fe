package ldk

// RoundRobinLink serves the neighbors in turn. Selection starts just after
// the last served neighbor and skips the ones that are not accepting.
type RoundRobinLink struct {
	linkBase

	lastServed int
	nextWakeup int
}

// NewRoundRobinLink creates an empty RoundRobinLink.
func NewRoundRobinLink() *RoundRobinLink {
	return &RoundRobinLink{lastServed: -1}
}

// Clear removes all neighbors and restarts the rotation.
func (l *RoundRobinLink) Clear() {
	l.linkBase.Clear()
	l.lastServed = -1
	l.nextWakeup = 0
}

// Set replaces the neighbors and restarts the rotation.
func (l *RoundRobinLink) Set(handles []Handle) {
	l.linkBase.Set(handles)
	l.lastServed = -1
	l.nextWakeup = 0
}

// Remove drops a neighbor, keeping the rotation position of the others.
func (l *RoundRobinLink) Remove(h Handle) {
	for i, x := range l.handles {
		if x != h {
			continue
		}

		l.linkBase.Remove(h)

		if i <= l.lastServed {
			l.lastServed--
		}

		if i < l.nextWakeup {
			l.nextWakeup--
		}

		if l.nextWakeup >= len(l.handles) {
			l.nextWakeup = 0
		}

		return
	}
}

func (l *RoundRobinLink) find(c *Compound) int {
	n := len(l.handles)

	for i := 1; i <= n; i++ {
		index := (l.lastServed + i) % n
		if l.handles[index].FU().IsAccepting(c) {
			return index
		}
	}

	return -1
}

// HasAcceptor tells if any neighbor accepts the compound.
func (l *RoundRobinLink) HasAcceptor(c *Compound) bool {
	if len(l.handles) == 0 {
		return false
	}

	return l.find(c) >= 0
}

// GetAcceptor returns the next accepting neighbor and marks it as served.
func (l *RoundRobinLink) GetAcceptor(c *Compound) FunctionalUnit {
	if len(l.handles) == 0 {
		l.noAcceptorPanic("round robin", c)
	}

	index := l.find(c)
	if index < 0 {
		l.noAcceptorPanic("round robin", c)
	}

	l.lastServed = index

	return l.handles[index].FU()
}

// Wakeup wakes all neighbors. Each call starts one neighbor further.
func (l *RoundRobinLink) Wakeup() {
	if len(l.handles) == 0 {
		return
	}

	start := l.nextWakeup
	l.nextWakeup = (l.nextWakeup + 1) % len(l.handles)

	l.wakeupFrom(start)
}

package ldk

// MultiLink stores any number of neighbors. As a receptor, it wakes them up
// in order.
type MultiLink struct {
	linkBase
}

// NewMultiLink creates an empty MultiLink.
func NewMultiLink() *MultiLink {
	return &MultiLink{}
}

// Wakeup wakes all neighbors in the order they were added.
func (l *MultiLink) Wakeup() {
	l.wakeupFrom(0)
}

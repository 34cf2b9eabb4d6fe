package ldk

import "fmt"

// An Arena owns the functional units of a network. Units refer to each other
// through Handles, which stop resolving once the unit is removed.
type Arena struct {
	slots []arenaSlot
	free  []int
}

type arenaSlot struct {
	fu         FunctionalUnit
	generation uint32
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// Insert stores a unit and returns its handle.
func (a *Arena) Insert(fu FunctionalUnit) Handle {
	if len(a.free) > 0 {
		index := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.slots[index].fu = fu

		return Handle{arena: a, index: index, generation: a.slots[index].generation}
	}

	a.slots = append(a.slots, arenaSlot{fu: fu})

	return Handle{arena: a, index: len(a.slots) - 1}
}

// Remove drops the unit behind h. All the handles to it become stale.
func (a *Arena) Remove(h Handle) {
	h.mustBelongTo(a)

	slot := &a.slots[h.index]
	slot.fu = nil
	slot.generation++
	a.free = append(a.free, h.index)
}

// Resolve returns the unit behind h, if h is not stale.
func (a *Arena) Resolve(h Handle) (FunctionalUnit, bool) {
	if h.arena != a || h.index < 0 || h.index >= len(a.slots) {
		return nil, false
	}

	slot := a.slots[h.index]
	if slot.generation != h.generation || slot.fu == nil {
		return nil, false
	}

	return slot.fu, true
}

// Len returns the number of live units.
func (a *Arena) Len() int {
	return len(a.slots) - len(a.free)
}

// Handles returns the handles of all the live units in insertion slot order.
func (a *Arena) Handles() []Handle {
	handles := make([]Handle, 0, a.Len())

	for i, slot := range a.slots {
		if slot.fu == nil {
			continue
		}

		handles = append(handles,
			Handle{arena: a, index: i, generation: slot.generation})
	}

	return handles
}

// A Handle is a non-owning reference to a functional unit stored in an
// Arena. The zero Handle refers to nothing.
type Handle struct {
	arena      *Arena
	index      int
	generation uint32
}

// IsValid tells if the handle still refers to a live unit.
func (h Handle) IsValid() bool {
	if h.arena == nil {
		return false
	}

	_, ok := h.arena.Resolve(h)

	return ok
}

// FU returns the referenced unit. Using a stale handle is a logic error.
func (h Handle) FU() FunctionalUnit {
	if h.arena == nil {
		panic("resolving an empty handle")
	}

	fu, ok := h.arena.Resolve(h)
	if !ok {
		panic(fmt.Sprintf(
			"resolving stale handle %d (generation %d)", h.index, h.generation))
	}

	return fu
}

func (h Handle) mustBelongTo(a *Arena) {
	if _, ok := a.Resolve(h); !ok {
		panic(fmt.Sprintf(
			"handle %d (generation %d) does not refer to a live unit",
			h.index, h.generation))
	}
}

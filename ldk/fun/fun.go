// Package fun provides the Functional Unit Network, the container that owns
// the functional units of one protocol stack and wires them together.
package fun

import (
	"fmt"
	"slices"

	"github.com/sarchlab/funsim/ldk"
	"github.com/sarchlab/funsim/sim/hooking"
	"github.com/sarchlab/funsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// A Connection records how two units were wired.
type Connection struct {
	Upper string          `json:"upper"`
	Lower string          `json:"lower"`
	Kind  ldk.ConnectKind `json:"kind"`
}

// CommandOwner is a unit that activates commands under a key.
type CommandOwner interface {
	CommandKey() ldk.CommandKey
}

// A FUN owns a set of functional units and the links between them.
type FUN struct {
	name      string
	logger    logrus.FieldLogger
	scheduler timing.EventScheduler

	arena         *ldk.Arena
	byName        map[string]ldk.Handle
	order         []string
	commandOwners map[ldk.CommandKey]string
	connections   []Connection
	hooks         []hooking.Hook
	created       bool
}

// Name returns the name of the FUN.
func (f *FUN) Name() string {
	return f.name
}

// Logger returns the logger of the FUN.
func (f *FUN) Logger() logrus.FieldLogger {
	return f.logger
}

// Scheduler returns the scheduler of the FUN. It may be nil.
func (f *FUN) Scheduler() timing.EventScheduler {
	return f.scheduler
}

// CreateCompound creates a compound with an empty command pool.
func (f *FUN) CreateCompound(pdu ldk.PDU) *ldk.Compound {
	return ldk.NewCompound(pdu)
}

// AddFunctionalUnit takes over a unit. Names and command keys must be unique
// within a FUN.
func (f *FUN) AddFunctionalUnit(fu ldk.FunctionalUnit) ldk.Handle {
	name := fu.Name()
	if _, found := f.byName[name]; found {
		panic(fmt.Sprintf("%s: functional unit %s already exists", f.name, name))
	}

	if owner, ok := fu.(CommandOwner); ok {
		key := owner.CommandKey()
		if other, found := f.commandOwners[key]; found {
			panic(fmt.Sprintf("%s: command %s of %s is already owned by %s",
				f.name, key, name, other))
		}

		f.commandOwners[key] = name
	}

	h := f.arena.Insert(fu)
	f.byName[name] = h
	f.order = append(f.order, name)

	for _, hook := range f.hooks {
		fu.AcceptHook(hook)
	}

	fu.Attach(f, h)

	f.logger.WithField("fu", name).Debug("functional unit added")

	return h
}

// RemoveFunctionalUnit removes a unit and every link pointing to it.
func (f *FUN) RemoveFunctionalUnit(name string) {
	h := f.mustFind(name)
	fu := h.FU()

	for _, other := range f.arena.Handles() {
		if other == h {
			continue
		}

		caps := other.FU().Capabilities()
		for _, link := range linksOf(caps) {
			link.Remove(h)
		}
	}

	if owner, ok := fu.(CommandOwner); ok {
		delete(f.commandOwners, owner.CommandKey())
	}

	f.arena.Remove(h)
	delete(f.byName, name)
	f.order = slices.DeleteFunc(f.order, func(n string) bool {
		return n == name
	})
	f.connections = slices.DeleteFunc(f.connections, func(c Connection) bool {
		return c.Upper == name || c.Lower == name
	})

	f.logger.WithField("fu", name).Debug("functional unit removed")
}

// Knows tells if the FUN has a unit with the given name.
func (f *FUN) Knows(name string) bool {
	_, found := f.byName[name]
	return found
}

// Lookup returns the unit with the given name.
func (f *FUN) Lookup(name string) (ldk.FunctionalUnit, bool) {
	h, found := f.byName[name]
	if !found {
		return nil, false
	}

	return h.FU(), true
}

// FunctionalUnit returns the unit with the given name. Asking for an unknown
// unit panics.
func (f *FUN) FunctionalUnit(name string) ldk.FunctionalUnit {
	return f.mustFind(name).FU()
}

// FunctionalUnits returns all units in the order they were added.
func (f *FUN) FunctionalUnits() []ldk.FunctionalUnit {
	units := make([]ldk.FunctionalUnit, 0, len(f.order))
	for _, name := range f.order {
		units = append(units, f.byName[name].FU())
	}

	return units
}

// Connections returns the wiring of the FUN in the order it was made.
func (f *FUN) Connections() []Connection {
	return slices.Clone(f.connections)
}

func (f *FUN) mustFind(name string) ldk.Handle {
	h, found := f.byName[name]
	if !found {
		panic(fmt.Sprintf("%s: no functional unit %s", f.name, name))
	}

	return h
}

// Connect wires upper to lower in both directions: the connector of upper,
// and the receptor and deliverer of lower.
func (f *FUN) Connect(upper, lower string) {
	f.connect(upper, lower, ldk.ConnectBoth)
}

// DownConnect wires only the outgoing direction.
func (f *FUN) DownConnect(upper, lower string) {
	f.connect(upper, lower, ldk.ConnectDown)
}

// UpConnect wires only the incoming direction.
func (f *FUN) UpConnect(upper, lower string) {
	f.connect(upper, lower, ldk.ConnectUp)
}

func (f *FUN) connect(upperName, lowerName string, kind ldk.ConnectKind) {
	upper := f.FunctionalUnit(upperName)
	lower := f.FunctionalUnit(lowerName)

	target := lower
	if interceptor, ok := lower.(ldk.ConnectionInterceptor); ok {
		target = interceptor.WhenConnecting(f, upper, kind)
	}

	f.Wire(upper, target, kind)
}

// Wire links two units that belong to the FUN.
func (f *FUN) Wire(upper, lower ldk.FunctionalUnit, kind ldk.ConnectKind) {
	upperHandle := f.mustFind(upper.Name())
	lowerHandle := f.mustFind(lower.Name())
	upperCaps := upper.Capabilities()
	lowerCaps := lower.Capabilities()

	if kind == ldk.ConnectBoth || kind == ldk.ConnectDown {
		mustHave(upperCaps.Connector != nil, upper, lower, "connector")
		mustHave(lowerCaps.Receptor != nil, upper, lower, "receptor")
	}

	if kind == ldk.ConnectBoth || kind == ldk.ConnectUp {
		mustHave(lowerCaps.Deliverer != nil, upper, lower, "deliverer")
	}

	switch kind {
	case ldk.ConnectBoth:
		upperCaps.Connector.Add(lowerHandle)
		lowerCaps.Receptor.Add(upperHandle)
		lowerCaps.Deliverer.Add(upperHandle)
	case ldk.ConnectDown:
		upperCaps.Connector.Add(lowerHandle)
		lowerCaps.Receptor.Add(upperHandle)
	case ldk.ConnectUp:
		lowerCaps.Deliverer.Add(upperHandle)
	}

	f.connections = append(f.connections, Connection{
		Upper: upper.Name(),
		Lower: lower.Name(),
		Kind:  kind,
	})

	f.logger.WithFields(logrus.Fields{
		"upper": upper.Name(),
		"lower": lower.Name(),
		"kind":  kind.String(),
	}).Debug("functional units wired")
}

func mustHave(ok bool, upper, lower ldk.FunctionalUnit, aspect string) {
	if !ok {
		panic(fmt.Sprintf("cannot wire %s to %s: missing %s",
			upper.Name(), lower.Name(), aspect))
	}
}

// OnFUNCreated notifies the units that the wiring is complete, in the order
// the units were added. It can only be called once.
func (f *FUN) OnFUNCreated() {
	if f.created {
		panic(fmt.Sprintf("%s: OnFUNCreated called twice", f.name))
	}

	f.created = true

	for _, fu := range f.FunctionalUnits() {
		if listener, ok := fu.(ldk.FUNCreatedListener); ok {
			listener.OnFUNCreated()
		}
	}
}

// AcceptHook attaches a hook to every unit, including the ones added later.
func (f *FUN) AcceptHook(hook hooking.Hook) {
	f.hooks = append(f.hooks, hook)

	for _, fu := range f.FunctionalUnits() {
		fu.AcceptHook(hook)
	}
}

func linksOf(caps ldk.Capabilities) []ldk.Link {
	var links []ldk.Link

	if caps.Connector != nil {
		links = append(links, caps.Connector)
	}

	if caps.Deliverer != nil {
		links = append(links, caps.Deliverer)
	}

	if caps.Receptor != nil {
		links = append(links, caps.Receptor)
	}

	return links
}

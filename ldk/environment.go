package ldk

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/funsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// An Environment is what a functional unit sees of the network that owns it.
type Environment interface {
	// Name returns the name of the network.
	Name() string

	// Logger returns the logger of the network.
	Logger() logrus.FieldLogger

	// Scheduler returns the event scheduler timers are placed on. It may be
	// nil if the network is not part of a simulation.
	Scheduler() timing.EventScheduler

	// CreateCompound creates a compound carrying pdu.
	CreateCompound(pdu PDU) *Compound

	// Lookup returns the unit with the given name.
	Lookup(name string) (FunctionalUnit, bool)
}

// ConnectKind selects the aspects a connection populates.
type ConnectKind int

// The kinds of connections.
const (
	// ConnectBoth wires the connector of the upper unit and the receptor and
	// deliverer of the lower unit.
	ConnectBoth ConnectKind = iota

	// ConnectDown wires the connector of the upper unit and the receptor of
	// the lower unit.
	ConnectDown

	// ConnectUp wires the deliverer of the lower unit.
	ConnectUp
)

func (k ConnectKind) String() string {
	switch k {
	case ConnectBoth:
		return "connect"
	case ConnectDown:
		return "downConnect"
	case ConnectUp:
		return "upConnect"
	}

	return fmt.Sprintf("ConnectKind(%d)", int(k))
}

// MarshalText writes the kind by name.
func (k ConnectKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText reads a kind written by MarshalText.
func (k *ConnectKind) UnmarshalText(text []byte) error {
	for _, kind := range []ConnectKind{ConnectBoth, ConnectDown, ConnectUp} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}

	return fmt.Errorf("unknown connection kind %q", text)
}

// A Network is an Environment that can also be modified while it is being
// wired.
type Network interface {
	Environment

	// AddFunctionalUnit hands a unit over to the network.
	AddFunctionalUnit(fu FunctionalUnit) Handle

	// Wire links two units without consulting any ConnectionInterceptor.
	Wire(upper, lower FunctionalUnit, kind ConnectKind)
}

// A ConnectionInterceptor is a unit that decides which unit an upper unit is
// actually connected to. It may insert new units into the network.
type ConnectionInterceptor interface {
	WhenConnecting(
		net Network,
		upper FunctionalUnit,
		kind ConnectKind,
	) FunctionalUnit
}

// A FUNCreatedListener is notified once the network is completely wired.
type FUNCreatedListener interface {
	OnFUNCreated()
}

// FindFriend looks up a unit of type T in the environment.
func FindFriend[T any](env Environment, name string) (T, error) {
	var zero T

	fu, found := env.Lookup(name)
	if !found {
		return zero, fmt.Errorf("%w: %s has no unit %q",
			ErrFriendNotFound, env.Name(), name)
	}

	friend, ok := fu.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is a %T, not a %s",
			ErrFriendNotFound, name, fu, reflect.TypeFor[T]())
	}

	return friend, nil
}

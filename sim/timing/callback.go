package timing

import "github.com/sarchlab/funsim/sim/id"

// A CallbackEvent runs a function when it is handled. It is the way
// components without their own Handler place timers on the engine.
type CallbackEvent struct {
	EventBase

	fn        func(now VTimeInSec)
	cancelled bool
}

// NewCallbackEvent creates an event that calls fn at time t.
func NewCallbackEvent(t VTimeInSec, fn func(now VTimeInSec)) *CallbackEvent {
	e := &CallbackEvent{
		EventBase: EventBase{
			ID:   id.Generate(),
			time: t,
		},
		fn: fn,
	}
	e.handler = callbackHandler{}

	return e
}

// MakeSecondary marks the event to run after all the primary events of the
// same time.
func (e *CallbackEvent) MakeSecondary() *CallbackEvent {
	e.secondary = true
	return e
}

// Cancel prevents the function from being called. The event stays in the
// queue until its time comes.
func (e *CallbackEvent) Cancel() {
	e.cancelled = true
}

// IsCancelled tells if Cancel has been called.
func (e *CallbackEvent) IsCancelled() bool {
	return e.cancelled
}

type callbackHandler struct{}

func (callbackHandler) Handle(e Event) error {
	evt := e.(*CallbackEvent)
	if evt.cancelled {
		return nil
	}

	evt.fn(evt.Time())

	return nil
}

// ScheduleAfter schedules fn to run delay seconds after the current time of
// the scheduler.
func ScheduleAfter(
	s EventScheduler,
	delay VTimeInSec,
	fn func(now VTimeInSec),
) *CallbackEvent {
	if delay < 0 {
		panic("cannot schedule a callback in the past")
	}

	evt := NewCallbackEvent(s.Now()+delay, fn)
	s.Schedule(evt)

	return evt
}

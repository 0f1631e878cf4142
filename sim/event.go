package sim

import "fmt"

// EventState is the lifecycle state of an Event.
type EventState int

const (
	// Pending events have not been resolved yet.
	Pending EventState = iota
	// Succeeded events carry a value.
	Succeeded
	// Failed events carry a *Failure.
	Failed
)

func (s EventState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("EventState(%d)", int(s))
	}
}

// Awaitable is anything a Process can suspend on.
type Awaitable interface {
	Awaited() *Event
}

// continuation is one registration on an Event. removed detaches it
// without disturbing the order of the others.
type continuation struct {
	fn      func(*Event)
	removed bool
}

// Event is a one-shot synchronization point. It moves from Pending to
// Succeeded or Failed exactly once; its continuations then run, in
// registration order, when the scheduler processes it at the time of
// resolution.
type Event struct {
	env   *Environment
	id    uint64
	kind  string
	state EventState
	value any
	err   error // *Failure when state == Failed
	timer bool  // Timeout: succeeds when its action fires

	callbacks []*continuation
	processed bool
}

// Awaited makes *Event an Awaitable.
func (ev *Event) Awaited() *Event { return ev }

// ID returns the event's identity, unique within its Environment.
func (ev *Event) ID() uint64 { return ev.id }

// Kind names what created the event ("timeout", "request", "process", ...).
func (ev *Event) Kind() string { return ev.kind }

// State returns the current state.
func (ev *Event) State() EventState { return ev.state }

// Triggered reports whether the event has left Pending.
func (ev *Event) Triggered() bool { return ev.state != Pending }

// Processed reports whether the event's continuations have run.
func (ev *Event) Processed() bool { return ev.processed }

// Value returns the success value (nil unless Succeeded).
func (ev *Event) Value() any { return ev.value }

// Err returns the *Failure of a Failed event, nil otherwise.
func (ev *Event) Err() error { return ev.err }

func (ev *Event) String() string {
	return fmt.Sprintf("%s#%d", ev.kind, ev.id)
}

// Succeed resolves the event with value. Its continuations run at the
// current time, after the actions already queued for this instant.
func (ev *Event) Succeed(value any) error {
	if ev.state != Pending {
		return configErrorf("Event.Succeed", "%s is already %s", ev, ev.state)
	}
	ev.state = Succeeded
	ev.value = value
	ev.env.schedule(0, ev, nil)
	return nil
}

// Fail resolves the event with cause. A cause that is not already a
// *Failure is wrapped as a DomainFailure.
func (ev *Event) Fail(cause error) error {
	if cause == nil {
		return configErrorf("Event.Fail", "%s: nil cause", ev)
	}
	if ev.state != Pending {
		return configErrorf("Event.Fail", "%s is already %s", ev, ev.state)
	}
	ev.state = Failed
	ev.err = asFailure(cause)
	ev.env.schedule(0, ev, nil)
	return nil
}

// OnComplete registers fn to run once the event is resolved. If the event
// has already been processed, fn is scheduled at the current time rather
// than called in-line.
func (ev *Event) OnComplete(fn func(*Event)) {
	if fn == nil {
		panic(configErrorf("Event.OnComplete", "%s: nil continuation", ev))
	}
	ev.addContinuation(fn)
}

func (ev *Event) addContinuation(fn func(*Event)) *continuation {
	c := &continuation{fn: fn}
	if ev.processed {
		ev.env.schedule(0, ev, c)
	} else {
		ev.callbacks = append(ev.callbacks, c)
	}
	return c
}

// process runs the continuations. Called by the scheduler only.
func (ev *Event) process() {
	if ev.timer && ev.state == Pending {
		ev.state = Succeeded
	}
	if ev.state == Pending {
		panic(fmt.Sprintf("sim: processing %s while pending", ev))
	}
	ev.processed = true
	callbacks := ev.callbacks
	ev.callbacks = nil

	observed := false
	for _, c := range callbacks {
		if c.removed {
			continue
		}
		observed = true
		c.fn(ev)
	}
	if ev.state == Failed && !observed {
		ev.env.unobserved(ev)
	}
}

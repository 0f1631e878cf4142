package sim

// AnyOf returns an event resolved by the first member to be processed. On
// success its value is the winning member *Event; a failing winner fails
// the composite with the same *Failure. Losing members are left as they
// are: callers that need cleanup cancel them explicitly.
//
// A typical use races a request against a timeout:
//
//	get := bowl.Get(20)
//	timeout := env.Timeout(maxWait, nil)
//	v, err := p.Wait(sim.AnyOf(env, get, timeout))
//	if err == nil && v.(*sim.Event) == timeout {
//		_ = bowl.Cancel(get)
//	}
func AnyOf(env *Environment, members ...Awaitable) *Event {
	ev := env.newEvent("anyof")
	if len(members) == 0 {
		_ = ev.Succeed(nil)
		return ev
	}
	for _, m := range memberEvents(env, "AnyOf", members) {
		m.addContinuation(func(won *Event) {
			if ev.state != Pending {
				return
			}
			if won.state == Failed {
				_ = ev.Fail(won.err)
				return
			}
			_ = ev.Succeed(won)
		})
	}
	return ev
}

// AllOf returns an event that succeeds once every member has succeeded,
// with the member values in member order ([]any). The first member failure
// fails the composite.
func AllOf(env *Environment, members ...Awaitable) *Event {
	ev := env.newEvent("allof")
	events := memberEvents(env, "AllOf", members)
	values := make([]any, len(events))
	remaining := len(events)
	if remaining == 0 {
		_ = ev.Succeed(values)
		return ev
	}
	for i, m := range events {
		m.addContinuation(func(done *Event) {
			if ev.state != Pending {
				return
			}
			if done.state == Failed {
				_ = ev.Fail(done.err)
				return
			}
			values[i] = done.value
			remaining--
			if remaining == 0 {
				_ = ev.Succeed(values)
			}
		})
	}
	return ev
}

func memberEvents(env *Environment, op string, members []Awaitable) []*Event {
	events := make([]*Event, len(members))
	for i, m := range members {
		if m == nil || m.Awaited() == nil {
			panic(configErrorf(op, "member %d is nil", i))
		}
		if m.Awaited().env != env {
			panic(configErrorf(op, "member %s belongs to another environment", m.Awaited()))
		}
		events[i] = m.Awaited()
	}
	return events
}

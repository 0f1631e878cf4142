// sim/environment.go
package sim

import (
	"container/heap"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/desim-go/desim/sim/trace"
)

// Time is simulated (virtual) time. It is nonnegative and never decreases
// during a run; it has no relation to wall-clock time.
type Time = float64

// action is a ScheduledAction: run the continuations of ev (or the single
// late continuation cont) at time at.
type action struct {
	at   Time
	seq  uint64
	ev   *Event
	cont *continuation
}

// actionQueue implements heap.Interface and orders actions by (at, seq).
// seq is assigned at scheduling time, so same-time actions fire in the order
// they were scheduled.
type actionQueue []*action

func (q actionQueue) Len() int { return len(q) }

func (q actionQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q actionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *actionQueue) Push(x any) {
	*q = append(*q, x.(*action))
}

func (q *actionQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return item
}

// Stats counts kernel activity over the lifetime of an Environment.
type Stats struct {
	ActionsFired       uint64
	EventsCreated      uint64
	ProcessesSpawned   uint64
	ProcessesFinished  uint64
	ProcessesFailed    uint64
	UnobservedFailures uint64
}

// Environment is the simulation context: it owns the virtual clock, the
// queue of pending actions and every Process, Resource and Container created
// against it. One Environment is constructed per run; nothing is global.
//
// Thread-safety: NOT thread-safe. Process bodies run on their own goroutines
// but strictly one at a time, handing control back to the scheduler at every
// suspension, so all state is mutated by a single logical thread.
type Environment struct {
	now   Time
	seq   uint64
	queue actionQueue

	nextEventID    uint64
	nextPID        uint64
	nextResourceID uint64

	active    *Process
	processes map[uint64]*Process
	closed    bool
	fatal     error

	trace *trace.SimulationTrace
	log   *logrus.Entry
	stats Stats
}

// Option configures an Environment.
type Option func(*Environment)

// WithInitialTime starts the clock at t instead of 0.
func WithInitialTime(t Time) Option {
	return func(env *Environment) {
		env.now = t
	}
}

// WithTrace records every fired action into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(env *Environment) {
		env.trace = st
	}
}

// WithLogger routes kernel log lines through entry (e.g. one carrying a run index).
func WithLogger(entry *logrus.Entry) Option {
	return func(env *Environment) {
		env.log = entry
	}
}

// NewEnvironment creates an empty Environment at time 0.
func NewEnvironment(opts ...Option) *Environment {
	env := &Environment{
		queue:     make(actionQueue, 0),
		processes: make(map[uint64]*Process),
		log:       logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(env)
	}
	if math.IsNaN(env.now) || env.now < 0 {
		panic(configErrorf("NewEnvironment", "initial time must be nonnegative, got %v", env.now))
	}
	heap.Init(&env.queue)
	return env
}

// Now returns the current simulated time.
func (env *Environment) Now() Time {
	return env.now
}

// Peek returns the time of the next scheduled action, or +Inf if none.
func (env *Environment) Peek() Time {
	if len(env.queue) == 0 {
		return math.Inf(1)
	}
	return env.queue[0].at
}

// Stats returns a snapshot of the kernel counters.
func (env *Environment) Stats() Stats {
	return env.stats
}

// ActiveProcess returns the process whose step is executing, or nil when
// called from top-level code.
func (env *Environment) ActiveProcess() *Process {
	return env.active
}

// Err returns the configuration error that aborted the run, if any.
func (env *Environment) Err() error {
	return env.fatal
}

// Timeout returns an event that succeeds with value exactly delay time units
// from now. A negative or NaN delay is a configuration error.
func (env *Environment) Timeout(delay Time, value any) *Event {
	if math.IsNaN(delay) || delay < 0 {
		panic(configErrorf("Environment.Timeout", "delay must be nonnegative, got %v", delay))
	}
	ev := env.newEvent("timeout")
	ev.timer = true
	ev.value = value
	env.schedule(delay, ev, nil)
	return ev
}

// NewEvent returns a pending event that application logic resolves with
// Succeed or Fail.
func (env *Environment) NewEvent() *Event {
	return env.newEvent("event")
}

func (env *Environment) newEvent(kind string) *Event {
	env.nextEventID++
	env.stats.EventsCreated++
	return &Event{env: env, id: env.nextEventID, kind: kind}
}

// schedule pushes an action delay time units from now. Scheduling on a closed
// environment is a no-op so that deferred cleanup in killed processes is harmless.
func (env *Environment) schedule(delay Time, ev *Event, cont *continuation) {
	if env.closed {
		return
	}
	env.seq++
	heap.Push(&env.queue, &action{at: env.now + delay, seq: env.seq, ev: ev, cont: cont})
}

// fire advances the clock to a and executes its effect.
func (env *Environment) fire(a *action) {
	if a.at < env.now {
		panic("sim: action scheduled in the past")
	}
	env.now = a.at
	env.stats.ActionsFired++
	if a.cont == nil && a.ev.processed {
		return
	}

	env.log.Debugf("[t=%12.3f] firing %s", env.now, a.ev)
	if env.trace.Enabled() {
		outcome := trace.OutcomeOK
		if a.ev.state == Failed {
			outcome = trace.OutcomeFailed
		}
		env.trace.RecordFiring(trace.FiringRecord{
			Clock:   a.at,
			Seq:     a.seq,
			EventID: a.ev.id,
			Kind:    a.ev.kind,
			Outcome: outcome,
		})
	}

	if a.cont != nil {
		if !a.cont.removed {
			a.cont.fn(a.ev)
		}
		return
	}
	a.ev.process()
}

func (env *Environment) checkTopLevel(op string) error {
	if env.active != nil {
		return configErrorf(op, "called from inside process %s", env.active)
	}
	if env.closed {
		return configErrorf(op, "environment is closed")
	}
	return env.fatal
}

// Step fires exactly one action. It returns ErrNoActivity when nothing is scheduled.
func (env *Environment) Step() error {
	if err := env.checkTopLevel("Environment.Step"); err != nil {
		return err
	}
	if len(env.queue) == 0 {
		return ErrNoActivity
	}
	env.fire(heap.Pop(&env.queue).(*action))
	return env.fatal
}

// Run fires actions in (time, sequence) order until the queue is empty or
// the next action is later than until. Actions at exactly until still fire.
// When it stops the clock reads until (if finite).
func (env *Environment) Run(until Time) error {
	if err := env.checkTopLevel("Environment.Run"); err != nil {
		return err
	}
	if math.IsNaN(until) || until < env.now {
		return configErrorf("Environment.Run", "until %v is before now %v", until, env.now)
	}

	env.log.Infof("[t=%12.3f] Simulation started (until=%v)", env.now, until)
	for len(env.queue) > 0 {
		if env.queue[0].at > until {
			break
		}
		env.fire(heap.Pop(&env.queue).(*action))
		if env.fatal != nil {
			env.log.Errorf("[t=%12.3f] Simulation aborted: %v", env.now, env.fatal)
			return env.fatal
		}
	}
	if !math.IsInf(until, 1) {
		env.now = until
	}
	env.log.Infof("[t=%12.3f] Simulation ended", env.now)
	return nil
}

// RunUntilIdle fires actions until none are left.
func (env *Environment) RunUntilIdle() error {
	return env.Run(math.Inf(1))
}

// RunUntilEvent fires actions until a has been processed. If the queue
// drains first the model expected activity that will never happen and
// ErrNoActivity is returned. A failed event's failure is returned as-is.
func (env *Environment) RunUntilEvent(a Awaitable) error {
	if err := env.checkTopLevel("Environment.RunUntilEvent"); err != nil {
		return err
	}
	ev := a.Awaited()
	if ev == nil || ev.env != env {
		return configErrorf("Environment.RunUntilEvent", "event does not belong to this environment")
	}
	if !ev.processed {
		// Counts as an observer so a failure is not reported as unobserved.
		ev.addContinuation(func(*Event) {})
	}
	for !ev.processed {
		if len(env.queue) == 0 {
			return ErrNoActivity
		}
		env.fire(heap.Pop(&env.queue).(*action))
		if env.fatal != nil {
			return env.fatal
		}
	}
	if ev.state == Failed {
		return ev.err
	}
	return nil
}

// Close terminates the goroutines of processes that are still suspended
// when a run ends. The environment cannot be run afterwards. Idempotent.
func (env *Environment) Close() {
	if env.active != nil {
		panic(configErrorf("Environment.Close", "called from inside process %s", env.active))
	}
	if env.closed {
		return
	}
	env.closed = true
	env.queue = nil

	ids := make([]uint64, 0, len(env.processes))
	for id := range env.processes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		env.processes[id].kill()
	}
	env.processes = map[uint64]*Process{}
}

// setFatal records the first configuration error; it aborts the run at the
// end of the current firing.
func (env *Environment) setFatal(err error) {
	if env.fatal == nil {
		env.fatal = err
	}
}

func (env *Environment) unobserved(ev *Event) {
	env.stats.UnobservedFailures++
	env.log.Warnf("[t=%12.3f] unobserved failure of %s: %v", env.now, ev, ev.err)
}

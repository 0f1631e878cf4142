package sim

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
)

// ProcessState is the lifecycle state of a Process.
type ProcessState int

const (
	// ProcessRunnable processes are executing a step (or about to).
	ProcessRunnable ProcessState = iota
	// ProcessSuspended processes are awaiting an event.
	ProcessSuspended
	// ProcessFinished processes returned without error.
	ProcessFinished
	// ProcessFailed processes returned an error.
	ProcessFailed
)

func (s ProcessState) String() string {
	switch s {
	case ProcessRunnable:
		return "runnable"
	case ProcessSuspended:
		return "suspended"
	case ProcessFinished:
		return "finished"
	case ProcessFailed:
		return "failed"
	default:
		return fmt.Sprintf("ProcessState(%d)", int(s))
	}
}

// ProcessFunc is the body of a Process. It suspends by calling p.Wait and
// its return value becomes the value of the process's completion event; a
// returned error fails the completion event instead.
type ProcessFunc func(p *Process) (any, error)

// wakeSignal is handed to a parked process goroutine.
type wakeSignal struct {
	ev   *Event // outcome of the awaited event; nil on start
	kill bool   // terminate the goroutine (Environment.Close)
}

// Process is a cooperatively scheduled unit of work. Each process owns a
// goroutine, but control is handed back and forth over unbuffered channels
// so that exactly one of {scheduler, some process} runs at any time.
type Process struct {
	env   *Environment
	id    uint64
	name  string
	body  ProcessFunc
	state ProcessState

	target           *Event
	cont             *continuation
	interruptPending bool
	completion       *Event

	wake   chan wakeSignal
	parked chan struct{}

	panicValue any
	panicStack []byte
}

// Spawn registers body as a new process and runs it until its first
// suspension (or completion) before returning.
func (env *Environment) Spawn(name string, body ProcessFunc) *Process {
	if body == nil {
		panic(configErrorf("Environment.Spawn", "process %q has a nil body", name))
	}
	if env.closed {
		panic(configErrorf("Environment.Spawn", "environment is closed"))
	}
	env.nextPID++
	p := &Process{
		env:    env,
		id:     env.nextPID,
		name:   name,
		body:   body,
		state:  ProcessRunnable,
		wake:   make(chan wakeSignal),
		parked: make(chan struct{}),
	}
	p.completion = env.newEvent("process")
	env.processes[p.id] = p
	env.stats.ProcessesSpawned++
	env.log.Debugf("[t=%12.3f] spawn %s", env.now, p)

	go p.run()
	p.resume(nil)
	return p
}

// Awaited makes *Process an Awaitable: waiting on a process waits for its completion.
func (p *Process) Awaited() *Event { return p.completion }

// Completion returns the event fired when the process finishes or fails.
func (p *Process) Completion() *Event { return p.completion }

// ID returns the process identifier, unique within its Environment.
func (p *Process) ID() uint64 { return p.id }

// Name returns the name given to Spawn.
func (p *Process) Name() string { return p.name }

// Env returns the owning Environment.
func (p *Process) Env() *Environment { return p.env }

// State returns the lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Target returns the event the process is suspended on, nil otherwise.
func (p *Process) Target() *Event { return p.target }

func (p *Process) String() string {
	return fmt.Sprintf("%s(pid %d)", p.name, p.id)
}

// Wait suspends the process until a is resolved and returns its value, or
// its *Failure. Only the running process may call Wait on itself.
func (p *Process) Wait(a Awaitable) (any, error) {
	if p.env.closed {
		runtime.Goexit()
	}
	if p.env.active != p {
		panic(configErrorf("Process.Wait", "%s is not the running process", p))
	}
	if a == nil || a.Awaited() == nil {
		panic(configErrorf("Process.Wait", "%s: nil awaitable", p))
	}
	ev := a.Awaited()
	if ev.env != p.env {
		panic(configErrorf("Process.Wait", "%s: %s belongs to another environment", p, ev))
	}
	if ev == p.completion {
		panic(configErrorf("Process.Wait", "%s cannot wait for its own completion", p))
	}

	p.state = ProcessSuspended
	p.target = ev
	p.cont = ev.addContinuation(p.resume)

	p.parked <- struct{}{}
	sig := <-p.wake
	if sig.kill {
		runtime.Goexit()
	}
	if sig.ev.state == Failed {
		return nil, sig.ev.err
	}
	return sig.ev.value, nil
}

// Sleep suspends the process for delay time units.
func (p *Process) Sleep(delay Time) error {
	_, err := p.Wait(p.env.Timeout(delay, nil))
	return err
}

// Interrupt aborts the current suspension of p: it is resumed at the
// current time with an InterruptFailure carrying cause, and the event it
// was waiting for no longer affects it.
func (p *Process) Interrupt(cause any) error {
	if p.state != ProcessSuspended {
		return configErrorf("Process.Interrupt", "%s is %s, not suspended", p, p.state)
	}
	if p.interruptPending {
		return configErrorf("Process.Interrupt", "%s already has an interrupt pending", p)
	}
	p.cont.removed = true

	iev := p.env.newEvent("interrupt")
	iev.state = Failed
	iev.err = &Failure{Kind: InterruptFailure, Cause: cause}
	p.env.schedule(0, iev, nil)

	p.target = iev
	p.cont = iev.addContinuation(p.resume)
	p.interruptPending = true
	p.env.log.Debugf("[t=%12.3f] interrupt %s: %v", p.env.now, p, cause)
	return nil
}

// resume hands control to the process goroutine and blocks until it parks
// again (suspends or terminates). ev is nil for the initial start.
func (p *Process) resume(ev *Event) {
	if ev != nil && ev != p.target {
		return
	}
	prev := p.env.active
	p.env.active = p
	p.state = ProcessRunnable
	p.target, p.cont = nil, nil
	p.interruptPending = false

	p.wake <- wakeSignal{ev: ev}
	<-p.parked

	p.env.active = prev
	if p.panicValue != nil {
		panic(fmt.Sprintf("sim: process %s panicked: %v\n%s", p, p.panicValue, p.panicStack))
	}
}

// kill terminates a parked goroutine without resolving its completion.
func (p *Process) kill() {
	if p.state != ProcessSuspended {
		return
	}
	prev := p.env.active
	p.env.active = p
	p.wake <- wakeSignal{kill: true}
	<-p.parked
	p.env.active = prev
}

// run is the goroutine body.
func (p *Process) run() {
	defer func() {
		if r := recover(); r != nil {
			var cerr *ConfigError
			if err, ok := r.(error); ok && errors.As(err, &cerr) {
				p.finish(nil, cerr)
			} else {
				p.panicValue = r
				p.panicStack = debug.Stack()
			}
		}
		p.parked <- struct{}{}
	}()

	if sig := <-p.wake; sig.kill {
		return
	}
	value, err := p.body(p)
	p.finish(value, err)
}

func (p *Process) finish(value any, err error) {
	p.target, p.cont = nil, nil
	delete(p.env.processes, p.id)
	if err != nil {
		p.state = ProcessFailed
		p.env.stats.ProcessesFailed++
		if errors.Is(err, ErrConfiguration) {
			p.env.setFatal(err)
		}
		p.env.log.Debugf("[t=%12.3f] %s failed: %v", p.env.now, p, err)
		_ = p.completion.Fail(err)
		return
	}
	p.state = ProcessFinished
	p.env.stats.ProcessesFinished++
	p.env.log.Debugf("[t=%12.3f] %s finished", p.env.now, p)
	_ = p.completion.Succeed(value)
}

// Package sim provides the discrete-event simulation kernel for desim.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - environment.go: the virtual clock, the (time, sequence) action queue and Run
//   - event.go: one-shot events and their continuations
//   - process.go: processes, Wait/Sleep suspension and Interrupt
//
// Shared-state constructs build on those:
//   - resource.go: capacity-bounded mutual exclusion with a FIFO wait queue
//   - container.go: bounded numeric store with blocking get/put
//   - condition.go: AnyOf/AllOf composition (races such as request-vs-timeout)
//
// # Execution Model
//
// Exactly one logical thread mutates simulation state. A Process body runs
// on its own goroutine, but the scheduler hands control to it and blocks
// until it suspends again, so no locking is needed and runs are
// reproducible: same model, same seed, same firing sequence.
//
// Time only advances by firing the earliest scheduled action. Actions at
// equal times fire in the order they were scheduled.
//
// # Errors
//
// Two families are kept apart:
//   - *ConfigError (errors.Is(err, ErrConfiguration)): misuse of the API.
//     Fatal: it aborts Environment.Run.
//   - *Failure: an event failed (DomainFailure) or a process was interrupted
//     (InterruptFailure). Delivered to waiters as the error of Process.Wait;
//     never aborts the run on its own.
//
// # Sub-packages
//
//   - sim/trace/: firing trace recording and summaries
//   - sim/dist/: delay distributions parsed from YAML
//   - sim/model/: the reference models (service counter, dining philosophers)
package sim

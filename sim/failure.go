package sim

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel wrapped by every ConfigError: invalid
// construction parameters or misuse of the kernel API. Configuration errors
// are fatal to the call site and abort Environment.Run.
var ErrConfiguration = errors.New("configuration error")

// ErrNoActivity is returned by RunUntilEvent when the action queue drains
// before the awaited event was processed.
var ErrNoActivity = fmt.Errorf("%w: no scheduled activity left", ErrConfiguration)

// ConfigError describes a misuse of the kernel API.
type ConfigError struct {
	Op  string // operation that was misused, e.g. "Resource.Release"
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Unwrap lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(op, format string, args ...any) *ConfigError {
	return &ConfigError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// FailureKind discriminates why an event (and thus a suspension) failed.
type FailureKind int

const (
	// DomainFailure is an event explicitly failed by application logic.
	DomainFailure FailureKind = iota
	// InterruptFailure is delivered out-of-band by Process.Interrupt.
	InterruptFailure
)

func (k FailureKind) String() string {
	switch k {
	case DomainFailure:
		return "domain"
	case InterruptFailure:
		return "interrupt"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure is the outcome carried by a Failed event. Handlers match on Kind
// instead of relying on an error hierarchy.
type Failure struct {
	Kind  FailureKind
	Cause any
}

func (f *Failure) Error() string {
	if f.Kind == InterruptFailure {
		return fmt.Sprintf("interrupted: %v", f.Cause)
	}
	return fmt.Sprintf("failed: %v", f.Cause)
}

// Unwrap exposes the cause when it is itself an error.
func (f *Failure) Unwrap() error {
	if err, ok := f.Cause.(error); ok {
		return err
	}
	return nil
}

// asFailure keeps an existing *Failure and wraps anything else as a DomainFailure.
func asFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: DomainFailure, Cause: err}
}

// IsInterrupt reports whether err is an InterruptFailure.
func IsInterrupt(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == InterruptFailure
}

// IsDomainFailure reports whether err is a DomainFailure.
func IsDomainFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == DomainFailure
}

// InterruptCause returns the cause passed to Process.Interrupt.
func InterruptCause(err error) (any, bool) {
	var f *Failure
	if errors.As(err, &f) && f.Kind == InterruptFailure {
		return f.Cause, true
	}
	return nil, false
}

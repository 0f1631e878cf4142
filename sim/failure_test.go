package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_UnwrapsToSentinel(t *testing.T) {
	err := configErrorf("Resource.Release", "request %d was never granted", 3)
	assert.EqualError(t, err, "Resource.Release: request 3 was never granted")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", err), ErrConfiguration)
	assert.ErrorIs(t, ErrNoActivity, ErrConfiguration)
}

func TestFailure_KindsAreDistinguishable(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		err       error
		interrupt bool
		domain    bool
		msg       string
	}{
		{"domain", &Failure{Kind: DomainFailure, Cause: boom}, false, true, "failed: boom"},
		{"interrupt", &Failure{Kind: InterruptFailure, Cause: "wake"}, true, false, "interrupted: wake"},
		{"wrapped interrupt", fmt.Errorf("ctx: %w", &Failure{Kind: InterruptFailure, Cause: 1}), true, false, "ctx: interrupted: 1"},
		{"plain error", boom, false, false, "boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.interrupt, IsInterrupt(tc.err))
			assert.Equal(t, tc.domain, IsDomainFailure(tc.err))
			assert.EqualError(t, tc.err, tc.msg)
		})
	}
}

func TestFailure_Unwrap(t *testing.T) {
	boom := errors.New("boom")
	assert.ErrorIs(t, &Failure{Kind: DomainFailure, Cause: boom}, boom)
	assert.Nil(t, (&Failure{Kind: InterruptFailure, Cause: "not an error"}).Unwrap())
}

func TestAsFailure_KeepsExistingFailure(t *testing.T) {
	f := &Failure{Kind: InterruptFailure, Cause: "x"}
	assert.Same(t, f, asFailure(f))
	assert.Same(t, f, asFailure(fmt.Errorf("w: %w", f)))
	assert.Equal(t, DomainFailure, asFailure(errors.New("y")).Kind)
}

func TestInterruptCause(t *testing.T) {
	cause, ok := InterruptCause(&Failure{Kind: InterruptFailure, Cause: "wake"})
	assert.True(t, ok)
	assert.Equal(t, "wake", cause)

	_, ok = InterruptCause(&Failure{Kind: DomainFailure, Cause: "wake"})
	assert.False(t, ok)
}

func TestFailureKind_String(t *testing.T) {
	assert.Equal(t, "domain", DomainFailure.String())
	assert.Equal(t, "interrupt", InterruptFailure.String())
	assert.Equal(t, "FailureKind(5)", FailureKind(5).String())
}

package sim

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desim-go/desim/sim/internal/testutil"
)

func TestEvent_Succeed_ResolvesOnce(t *testing.T) {
	env := NewEnvironment()
	ev := env.NewEvent()
	assert.Equal(t, Pending, ev.State())
	assert.False(t, ev.Triggered())

	require.NoError(t, ev.Succeed(7))
	assert.Equal(t, Succeeded, ev.State())
	assert.Equal(t, 7, ev.Value())
	assert.False(t, ev.Processed(), "continuations run when the scheduler gets to it")

	err := ev.Succeed(8)
	assert.ErrorIs(t, err, ErrConfiguration)
	err = ev.Fail(errors.New("late"))
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 7, ev.Value())
}

func TestEvent_Fail_NilCauseIsConfigurationError(t *testing.T) {
	env := NewEnvironment()
	ev := env.NewEvent()
	err := ev.Fail(nil)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Event.Fail", cerr.Op)
	assert.Equal(t, Pending, ev.State())
}

func TestEvent_Fail_WrapsCauseAsDomainFailure(t *testing.T) {
	env := NewEnvironment()
	boom := errors.New("boom")
	ev := env.NewEvent()
	require.NoError(t, ev.Fail(boom))

	assert.Equal(t, Failed, ev.State())
	assert.True(t, IsDomainFailure(ev.Err()))
	assert.False(t, IsInterrupt(ev.Err()))
	assert.ErrorIs(t, ev.Err(), boom)
	assert.Nil(t, ev.Value())
}

func TestEvent_Continuations_RunInRegistrationOrder(t *testing.T) {
	env := NewEnvironment()
	ev := env.NewEvent()
	var order []int
	for i := 0; i < 4; i++ {
		ev.OnComplete(func(*Event) { order = append(order, i) })
	}
	require.NoError(t, ev.Succeed(nil))
	require.NoError(t, env.RunUntilIdle())
	assert.Equal(t, []int{0, 1, 2, 3}, order)
	assert.True(t, ev.Processed())
}

func TestEvent_OnComplete_AfterProcessing_IsScheduledNotInline(t *testing.T) {
	// GIVEN an event that has already been processed
	env := NewEnvironment()
	ev := env.NewEvent()
	require.NoError(t, ev.Succeed("v"))
	require.NoError(t, env.RunUntilIdle())
	require.True(t, ev.Processed())

	// WHEN a continuation is registered late
	var got any
	called := false
	ev.OnComplete(func(e *Event) {
		called = true
		got = e.Value()
	})

	// THEN it does not run in-line, only when the scheduler next fires
	assert.False(t, called)
	require.NoError(t, env.RunUntilIdle())
	assert.True(t, called)
	assert.Equal(t, "v", got)
}

func TestEvent_OnComplete_NilPanics(t *testing.T) {
	env := NewEnvironment()
	assert.Panics(t, func() { env.NewEvent().OnComplete(nil) })
}

func TestEvent_Timeout_CarriesValue(t *testing.T) {
	env := NewEnvironment()
	ev := env.Timeout(2, "payload")
	assert.Equal(t, Pending, ev.State(), "a timeout is pending until its time comes")
	require.NoError(t, env.RunUntilIdle())
	assert.Equal(t, Succeeded, ev.State())
	assert.Equal(t, "payload", ev.Value())
}

func TestEvent_Timeout_ResolvedManually_IsProcessedOnce(t *testing.T) {
	env := NewEnvironment()
	ev := env.Timeout(2, nil)
	require.NoError(t, ev.Succeed("early"))
	require.NoError(t, env.RunUntilIdle())
	// Processed once, at the time Succeed was called.
	assert.Equal(t, "early", ev.Value())
	assert.Equal(t, Time(2), env.Now())
}

func TestEvent_UnobservedFailure_IsLoggedNotFatal(t *testing.T) {
	// GIVEN an environment logging into a test hook
	entry, hook := testutil.NewRecordingLogger()
	env := NewEnvironment(WithLogger(entry))

	// WHEN an event fails with nobody waiting on it
	require.NoError(t, env.NewEvent().Fail(errors.New("nobody cares")))
	err := env.RunUntilIdle()

	// THEN the run completes, and the failure is counted and warned about
	require.NoError(t, err)
	assert.Equal(t, uint64(1), env.Stats().UnobservedFailures)
	assert.Equal(t, 1, testutil.Count(hook, logrus.WarnLevel))
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			assert.Contains(t, e.Message, "nobody cares")
		}
	}
}

func TestEvent_String(t *testing.T) {
	env := NewEnvironment()
	ev := env.NewEvent()
	assert.Equal(t, "event#1", ev.String())
	assert.Equal(t, "timeout#2", env.Timeout(1, nil).String())
}

func TestEventState_String(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "EventState(9)", EventState(9).String())
}

package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyOf_FirstMemberWins(t *testing.T) {
	env := NewEnvironment()
	slow := env.Timeout(5, "slow")
	fast := env.Timeout(3, "fast")
	race := AnyOf(env, slow, fast)

	require.NoError(t, env.RunUntilEvent(race))

	assert.Equal(t, Time(3), env.Now())
	assert.Same(t, fast, race.Value())
	assert.Equal(t, "fast", race.Value().(*Event).Value())

	// the loser is untouched and still fires on schedule
	assert.False(t, slow.Processed())
	require.NoError(t, env.RunUntilIdle())
	assert.True(t, slow.Processed())
	assert.Equal(t, Succeeded, race.State())
}

func TestAnyOf_FailingWinnerFailsComposite(t *testing.T) {
	env := NewEnvironment()
	boom := errors.New("boom")
	bad := env.NewEvent()
	env.Timeout(2, nil).OnComplete(func(*Event) { _ = bad.Fail(boom) })

	var got error
	var at Time
	env.Spawn("racer", func(p *Process) (any, error) {
		_, got = p.Wait(AnyOf(env, bad, env.Timeout(5, nil)))
		at = env.Now()
		return nil, nil
	})
	require.NoError(t, env.RunUntilIdle())

	assert.True(t, IsDomainFailure(got))
	assert.ErrorIs(t, got, boom)
	assert.Equal(t, Time(2), at)
}

func TestAnyOf_WithProcessedMember_ResolvesAtNow(t *testing.T) {
	env := NewEnvironment()
	done := env.Timeout(1, nil)
	require.NoError(t, env.Run(4))

	c := AnyOf(env, env.Timeout(10, nil), done)
	require.NoError(t, env.RunUntilEvent(c))
	assert.Equal(t, Time(4), env.Now())
	assert.Same(t, done, c.Value())
}

func TestAnyOf_Empty_SucceedsImmediately(t *testing.T) {
	env := NewEnvironment()
	c := AnyOf(env)
	assert.Equal(t, Succeeded, c.State())
	assert.Nil(t, c.Value())
}

func TestAnyOf_MixedAwaitables(t *testing.T) {
	// Processes and requests can be raced directly.
	env := NewEnvironment()
	res, err := NewResource(env, "r", 1)
	require.NoError(t, err)
	holder := res.Request()
	worker := env.Spawn("worker", func(p *Process) (any, error) {
		return "worked", p.Sleep(2)
	})
	queued := res.Request()
	c := AnyOf(env, queued, worker)
	require.NoError(t, env.RunUntilEvent(c))
	assert.Same(t, worker.Completion(), c.Value())
	assert.False(t, queued.Granted())
	require.NoError(t, res.Cancel(queued))
	require.NoError(t, res.Release(holder))
}

func TestAnyOf_Misuse_Panics(t *testing.T) {
	env := NewEnvironment()
	other := NewEnvironment()
	assert.Panics(t, func() { AnyOf(env, nil) })
	assert.Panics(t, func() { AnyOf(env, other.NewEvent()) })
	assert.Panics(t, func() { AllOf(env, env.NewEvent(), (*Event)(nil)) })
}

func TestAllOf_CollectsValuesInMemberOrder(t *testing.T) {
	env := NewEnvironment()
	c := AllOf(env, env.Timeout(5, "a"), env.Timeout(2, "b"))
	require.NoError(t, env.RunUntilEvent(c))
	assert.Equal(t, Time(5), env.Now())
	assert.Equal(t, []any{"a", "b"}, c.Value())
}

func TestAllOf_FirstFailureFailsComposite(t *testing.T) {
	env := NewEnvironment()
	boom := errors.New("boom")
	bad := env.NewEvent()
	env.Timeout(1, nil).OnComplete(func(*Event) { _ = bad.Fail(boom) })
	c := AllOf(env, env.Timeout(5, nil), bad)

	err := env.RunUntilEvent(c)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Time(1), env.Now())
}

func TestAllOf_Empty_SucceedsWithEmptySlice(t *testing.T) {
	env := NewEnvironment()
	c := AllOf(env)
	require.NoError(t, env.RunUntilIdle())
	assert.Equal(t, []any{}, c.Value())
}

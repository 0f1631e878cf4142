package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desim-go/desim/sim/dist"
	"github.com/desim-go/desim/sim/model"
)

func TestCounterFlags_OnlyChangedFlagsApply(t *testing.T) {
	// GIVEN a scenario value for every counter field
	var f counterFlags
	fs := pflag.NewFlagSet("counter", pflag.ContinueOnError)
	f.register(fs)
	cfg := model.CounterConfig{Customers: 7, Arrival: dist.Constant(2), ServiceDelay: dist.Constant(3), FailureProb: 0.5}

	// WHEN only --customers and --service-delay are given
	require.NoError(t, fs.Parse([]string{"--customers=12", "--service-delay=4"}))
	f.apply(fs, &cfg)

	// THEN those two change and the rest keep the scenario values
	assert.Equal(t, 12, cfg.Customers)
	assert.Equal(t, dist.Constant(4), cfg.ServiceDelay)
	assert.Equal(t, dist.Constant(2), cfg.Arrival)
	assert.Equal(t, 0.5, cfg.FailureProb)
}

func TestCounterFlags_ArrivalMeanIsExponential(t *testing.T) {
	var f counterFlags
	fs := pflag.NewFlagSet("counter", pflag.ContinueOnError)
	f.register(fs)
	cfg := model.DefaultCounterConfig()

	require.NoError(t, fs.Parse([]string{"--arrival-mean=2.5", "--failure-prob=0"}))
	f.apply(fs, &cfg)

	assert.Equal(t, dist.Exponential(2.5), cfg.Arrival)
	assert.Equal(t, 0.0, cfg.FailureProb)
}

func TestPhilosopherFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		start *model.BowlConfig
		check func(t *testing.T, cfg model.PhilosophersConfig)
	}{
		{
			name: "table shape",
			args: []string{"--n=9", "--order=ring", "--horizon=50", "--pickup-delay=0"},
			check: func(t *testing.T, cfg model.PhilosophersConfig) {
				assert.Equal(t, 9, cfg.N)
				assert.Equal(t, model.OrderRing, cfg.Order)
				assert.Equal(t, 50.0, cfg.Horizon)
				assert.Equal(t, 0.0, cfg.PickupDelay)
				assert.Nil(t, cfg.Bowl)
			},
		},
		{
			name: "delay means",
			args: []string{"--think-mean=3", "--eat-mean=4"},
			check: func(t *testing.T, cfg model.PhilosophersConfig) {
				assert.Equal(t, dist.Exponential(3), cfg.Think)
				assert.Equal(t, dist.Exponential(4), cfg.Eat)
			},
		},
		{
			name: "bowl flag adds default bowl",
			args: []string{"--bowl"},
			check: func(t *testing.T, cfg model.PhilosophersConfig) {
				require.NotNil(t, cfg.Bowl)
				assert.Equal(t, model.DefaultBowlConfig(), *cfg.Bowl)
			},
		},
		{
			name: "bowl setting implies bowl",
			args: []string{"--max-wait=0"},
			check: func(t *testing.T, cfg model.PhilosophersConfig) {
				require.NotNil(t, cfg.Bowl)
				assert.Equal(t, 0.0, cfg.Bowl.MaxWait)
				assert.Equal(t, model.DefaultBowlConfig().Portion, cfg.Bowl.Portion)
			},
		},
		{
			name:  "bowl settings override scenario bowl",
			args:  []string{"--portion=5", "--refill-every=10"},
			start: &model.BowlConfig{Capacity: 100, Init: 50, Portion: 1, RefillEvery: 1, MaxWait: 2},
			check: func(t *testing.T, cfg model.PhilosophersConfig) {
				require.NotNil(t, cfg.Bowl)
				assert.Equal(t, model.BowlConfig{Capacity: 100, Init: 50, Portion: 5, RefillEvery: 10, MaxWait: 2}, *cfg.Bowl)
			},
		},
		{
			name:  "bowl=false removes scenario bowl",
			args:  []string{"--bowl=false"},
			start: &model.BowlConfig{Capacity: 100, Init: 50, Portion: 1, RefillEvery: 1, MaxWait: 2},
			check: func(t *testing.T, cfg model.PhilosophersConfig) {
				assert.Nil(t, cfg.Bowl)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var f philosopherFlags
			fs := pflag.NewFlagSet("philosophers", pflag.ContinueOnError)
			f.register(fs)
			cfg := model.DefaultPhilosophersConfig()
			cfg.Bowl = tc.start

			require.NoError(t, fs.Parse(tc.args))
			f.apply(fs, &cfg)
			tc.check(t, cfg)
		})
	}
}

func TestSweepFlags_RunsOnlyWhereRegistered(t *testing.T) {
	// GIVEN a flag set registered without --runs
	var f sweepFlags
	fs := pflag.NewFlagSet("sweep", pflag.ContinueOnError)
	f.register(fs, false)

	// THEN --runs is rejected
	assert.Error(t, fs.Parse([]string{"--runs=3"}))

	// WHEN registered with --runs
	fs = pflag.NewFlagSet("deadlocks", pflag.ContinueOnError)
	f.register(fs, true)
	require.NoError(t, fs.Parse([]string{"--from=4", "--runs=3"}))
	s := SweepConfig{From: 2, To: 10, Step: 2, Runs: 20}
	f.apply(fs, &s)

	// THEN only the given values change
	assert.Equal(t, SweepConfig{From: 4, To: 10, Step: 2, Runs: 3}, s)
}

func TestResolveSeed(t *testing.T) {
	saved := seed
	t.Cleanup(func() { seed = saved })

	newFlags := func(args ...string) *pflag.FlagSet {
		fs := pflag.NewFlagSet("root", pflag.ContinueOnError)
		fs.Int64Var(&seed, "seed", 42, "")
		require.NoError(t, fs.Parse(args))
		return fs
	}

	// no scenario file: the flag default is the seed
	assert.Equal(t, int64(42), resolveSeed(newFlags(), 7, false))
	// scenario file without --seed: the file wins
	assert.Equal(t, int64(7), resolveSeed(newFlags(), 7, true))
	// explicit --seed always wins
	assert.Equal(t, int64(99), resolveSeed(newFlags("--seed=99"), 7, true))
}

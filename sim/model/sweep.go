package model

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/desim-go/desim/sim"
)

// SweepPoint is the average waiting time for one table size.
type SweepPoint struct {
	N          int     `yaml:"n"`
	AvgWaiting float64 `yaml:"avg_waiting"`
	Meals      int     `yaml:"meals"`
	GiveUps    int     `yaml:"give_ups"`
}

// DeadlockPoint counts runs that ended deadlocked for one table size.
type DeadlockPoint struct {
	N         int `yaml:"n"`
	Runs      int `yaml:"runs"`
	Deadlocks int `yaml:"deadlocks"`
}

// runSeed derives the seed of one run from the master seed, so that every
// point of a sweep is reproducible on its own.
func runSeed(master int64, kind string, n, run int) int64 {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(master))
	return rng.ForSubsystem(fmt.Sprintf("%s_n%d_run%d", kind, n, run)).Int63()
}

func sizes(nFrom, nTo, step int) ([]int, error) {
	if nFrom < 2 || nTo < nFrom || step < 1 {
		return nil, fmt.Errorf("invalid sweep range from=%d to=%d step=%d", nFrom, nTo, step)
	}
	var ns []int
	for n := nFrom; n <= nTo; n += step {
		ns = append(ns, n)
	}
	return ns, nil
}

// SweepWaiting runs the philosophers model once per table size in
// [nFrom, nTo] (every step) and reports the average waiting time.
func SweepWaiting(cfg PhilosophersConfig, nFrom, nTo, step int) ([]SweepPoint, error) {
	ns, err := sizes(nFrom, nTo, step)
	if err != nil {
		return nil, err
	}
	points := make([]SweepPoint, 0, len(ns))
	for _, n := range ns {
		run := cfg
		run.N = n
		run.Seed = runSeed(cfg.Seed, "waiting", n, 0)
		res, err := RunPhilosophers(run, sim.WithLogger(logrus.WithField("n", n)))
		if err != nil {
			return nil, fmt.Errorf("n=%d: %w", n, err)
		}
		points = append(points, SweepPoint{N: n, AvgWaiting: res.AvgWaiting, Meals: res.Meals, GiveUps: res.GiveUps})
		logrus.Debugf("sweep n=%d avg waiting %.3f", n, res.AvgWaiting)
	}
	return points, nil
}

// CountDeadlocks runs the model runs times with cfg.N philosophers and
// counts how many runs ended with every chopstick held.
func CountDeadlocks(cfg PhilosophersConfig, runs int) (DeadlockPoint, error) {
	if runs < 1 {
		return DeadlockPoint{}, fmt.Errorf("runs must be >= 1, got %d", runs)
	}
	point := DeadlockPoint{N: cfg.N, Runs: runs}
	for i := 0; i < runs; i++ {
		run := cfg
		run.Seed = runSeed(cfg.Seed, "deadlock", cfg.N, i)
		res, err := RunPhilosophers(run, sim.WithLogger(logrus.WithFields(logrus.Fields{"n": cfg.N, "run": i})))
		if err != nil {
			return point, fmt.Errorf("n=%d run %d: %w", cfg.N, i, err)
		}
		if res.Deadlocked {
			point.Deadlocks++
		}
	}
	return point, nil
}

// DeadlockSweep applies CountDeadlocks to every table size in [nFrom, nTo].
func DeadlockSweep(cfg PhilosophersConfig, nFrom, nTo, step, runs int) ([]DeadlockPoint, error) {
	ns, err := sizes(nFrom, nTo, step)
	if err != nil {
		return nil, err
	}
	points := make([]DeadlockPoint, 0, len(ns))
	for _, n := range ns {
		run := cfg
		run.N = n
		p, err := CountDeadlocks(run, runs)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

package model

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/desim-go/desim/sim"
	"github.com/desim-go/desim/sim/dist"
)

// GaveUpError is the failure of a hungry philosopher that held both
// chopsticks but got no rice within MaxWait. It carries the chopstick
// requests so the philosopher can put them down.
type GaveUpError struct {
	Philosopher int
	Requests    [2]*sim.Request
	Waited      sim.Time
}

func (e *GaveUpError) Error() string {
	return fmt.Sprintf("philosopher %d gave up waiting for rice after %g", e.Philosopher, e.Waited)
}

// PhilosopherStats accumulates per-philosopher outcomes.
type PhilosopherStats struct {
	ID      int      `yaml:"id"`
	Waiting sim.Time `yaml:"waiting"` // total time spent acquiring chopsticks (and rice)
	Meals   int      `yaml:"meals"`
	GiveUps int      `yaml:"give_ups"`
}

// PhilosophersResult is the outcome of RunPhilosophers.
type PhilosophersResult struct {
	N            int                `yaml:"n"`
	Philosophers []PhilosopherStats `yaml:"philosophers"`
	AvgWaiting   float64            `yaml:"avg_waiting"`
	Waiting      Summary            `yaml:"waiting"`
	Meals        int                `yaml:"meals"`
	GiveUps      int                `yaml:"give_ups"`
	// Deadlocked is AllHeld over the chopsticks when the run stopped.
	Deadlocked bool      `yaml:"deadlocked"`
	BowlLevel  float64   `yaml:"bowl_level,omitempty"`
	Refills    int       `yaml:"refills,omitempty"`
	EndTime    sim.Time  `yaml:"end_time"`
	Stats      sim.Stats `yaml:"-"`
}

type table struct {
	env        *sim.Environment
	cfg        PhilosophersConfig
	think      dist.Sampler
	eat        dist.Sampler
	chopsticks []*sim.Resource
	bowl       *sim.Container
	refills    int
}

type philosopher struct {
	t     *table
	id    int
	hands [2]*sim.Resource // acquisition order
	rng   *rand.Rand
	stats *PhilosopherStats
	log   *logrus.Entry
}

// RunPhilosophers simulates cfg.N philosophers around a ring of
// single-capacity chopsticks until cfg.Horizon.
func RunPhilosophers(cfg PhilosophersConfig, opts ...sim.Option) (*PhilosophersResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("philosophers config: %w", err)
	}
	think, _ := dist.NewSampler(cfg.Think)
	eat, _ := dist.NewSampler(cfg.Eat)
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))

	env := sim.NewEnvironment(opts...)
	defer env.Close()

	t := &table{env: env, cfg: cfg, think: think, eat: eat}
	for i := 0; i < cfg.N; i++ {
		c, err := sim.NewResource(env, fmt.Sprintf("chopstick%d", i), 1)
		if err != nil {
			return nil, err
		}
		t.chopsticks = append(t.chopsticks, c)
	}
	if cfg.Bowl != nil {
		bowl, err := sim.NewContainer(env, "rice", cfg.Bowl.Capacity, cfg.Bowl.Init)
		if err != nil {
			return nil, err
		}
		t.bowl = bowl
		env.Spawn("chef", t.chef)
	}

	result := &PhilosophersResult{N: cfg.N, Philosophers: make([]PhilosopherStats, cfg.N)}
	for i := 0; i < cfg.N; i++ {
		ph := &philosopher{
			t:     t,
			id:    i,
			hands: t.hands(i),
			rng:   rng.ForSubsystem(sim.SubsystemEntity("philosopher", i)),
			stats: &result.Philosophers[i],
			log:   logrus.WithField("philosopher", i),
		}
		ph.stats.ID = i
		env.Spawn(fmt.Sprintf("P%d", i), ph.run)
	}

	if err := env.Run(cfg.Horizon); err != nil {
		return nil, err
	}

	waits := make([]float64, cfg.N)
	for i, s := range result.Philosophers {
		waits[i] = s.Waiting
		result.Meals += s.Meals
		result.GiveUps += s.GiveUps
	}
	result.Waiting = Summarize(waits)
	result.AvgWaiting = result.Waiting.Mean
	result.Deadlocked = AllHeld(t.chopsticks)
	if t.bowl != nil {
		result.BowlLevel = t.bowl.Level()
		result.Refills = t.refills
	}
	result.EndTime = env.Now()
	result.Stats = env.Stats()
	return result, nil
}

// hands returns philosopher i's chopsticks in acquisition order.
func (t *table) hands(i int) [2]*sim.Resource {
	pair := [2]*sim.Resource{t.chopsticks[i], t.chopsticks[(i+1)%len(t.chopsticks)]}
	if t.cfg.Order == OrderOrdered {
		sort.Slice(pair[:], func(a, b int) bool { return pair[a].ID() < pair[b].ID() })
	}
	return pair
}

// chef tops the bowl up to capacity every RefillEvery time units.
func (t *table) chef(p *sim.Process) (any, error) {
	for {
		if err := p.Sleep(t.cfg.Bowl.RefillEvery); err != nil {
			return nil, err
		}
		if missing := t.bowl.Capacity() - t.bowl.Level(); missing > 0 {
			if _, err := p.Wait(t.bowl.Put(missing)); err != nil {
				return nil, err
			}
			t.refills++
			logrus.Debugf("[t=%12.3f] chef refilled %g", t.env.Now(), missing)
		}
	}
}

func (ph *philosopher) run(p *sim.Process) (any, error) {
	var portion float64
	if b := ph.t.cfg.Bowl; b != nil {
		portion = b.Portion
	}
	meal := portion
	for {
		if err := p.Sleep(ph.t.think.Sample(ph.rng)); err != nil {
			return nil, err
		}

		hungry := ph.t.env.Spawn(fmt.Sprintf("P%d-hungry", ph.id), ph.getHungry(meal))
		v, err := p.Wait(hungry)

		var held [2]*sim.Request
		var gaveUp *GaveUpError
		switch {
		case err == nil:
			held = v.([2]*sim.Request)
			if err := p.Sleep(ph.t.eat.Sample(ph.rng)); err != nil {
				return nil, err
			}
			ph.stats.Meals++
			meal = portion
		case errors.As(err, &gaveUp):
			held = gaveUp.Requests
			ph.stats.GiveUps++
			// next time ask for a double helping, within what the bowl can hold
			meal = min(meal+portion, ph.t.cfg.Bowl.Capacity)
		default:
			return nil, err
		}

		for _, req := range held {
			if err := req.Resource().Release(req); err != nil {
				return nil, err
			}
		}
		ph.log.Debugf("[t=%12.3f] released the chopsticks", ph.t.env.Now())
	}
}

// getHungry acquires both chopsticks (and, with a bowl, meal units of rice)
// and returns the two requests.
func (ph *philosopher) getHungry(meal float64) sim.ProcessFunc {
	return func(p *sim.Process) (any, error) {
		env := ph.t.env
		start := env.Now()

		ph.log.Debugf("[t=%12.3f] requested chopstick", env.Now())
		rq1 := ph.hands[0].Request()
		if _, err := p.Wait(rq1); err != nil {
			return nil, err
		}
		ph.log.Debugf("[t=%12.3f] obtained chopstick", env.Now())
		if err := p.Sleep(ph.t.cfg.PickupDelay); err != nil {
			return nil, err
		}

		ph.log.Debugf("[t=%12.3f] requested another chopstick", env.Now())
		rq2 := ph.hands[1].Request()
		if _, err := p.Wait(rq2); err != nil {
			return nil, err
		}
		ph.log.Debugf("[t=%12.3f] obtained another chopstick", env.Now())
		held := [2]*sim.Request{rq1, rq2}

		if bowl := ph.t.bowl; bowl != nil {
			get := bowl.Get(meal)
			if maxWait := ph.t.cfg.Bowl.MaxWait; maxWait > 0 {
				if _, err := p.Wait(sim.AnyOf(env, get, env.Timeout(maxWait, nil))); err != nil {
					return nil, err
				}
				if !get.Done() {
					if err := bowl.Cancel(get); err != nil {
						return nil, err
					}
					ph.stats.Waiting += env.Now() - start
					ph.log.Debugf("[t=%12.3f] gave up", env.Now())
					return nil, &GaveUpError{Philosopher: ph.id, Requests: held, Waited: maxWait}
				}
			} else if _, err := p.Wait(get); err != nil {
				return nil, err
			}
			ph.log.Debugf("[t=%12.3f] reserved food", env.Now())
		}

		ph.stats.Waiting += env.Now() - start
		return held, nil
	}
}

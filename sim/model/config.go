package model

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/desim-go/desim/sim/dist"
)

// CounterConfig parameterizes the service counter model.
type CounterConfig struct {
	Customers    int           `yaml:"customers"`
	Arrival      dist.DistSpec `yaml:"arrival"`       // gap between consecutive arrivals
	ServiceDelay dist.DistSpec `yaml:"service_delay"` // time to serve one ticket
	FailureProb  float64       `yaml:"failure_prob"`  // probability a ticket fails
	Seed         int64         `yaml:"seed"`
}

// DefaultCounterConfig returns the classic setup: 10 customers, exponential
// arrivals with mean 10, constant service delay 10, 10% failures.
func DefaultCounterConfig() CounterConfig {
	return CounterConfig{
		Customers:    10,
		Arrival:      dist.Exponential(10),
		ServiceDelay: dist.Constant(10),
		FailureProb:  0.1,
	}
}

// Validate rejects configurations the model cannot run.
func (c CounterConfig) Validate() error {
	if c.Customers < 0 {
		return fmt.Errorf("customers must be >= 0, got %d", c.Customers)
	}
	if math.IsNaN(c.FailureProb) || c.FailureProb < 0 || c.FailureProb > 1 {
		return fmt.Errorf("failure_prob must be in [0, 1], got %v", c.FailureProb)
	}
	if _, err := dist.NewSampler(c.Arrival); err != nil {
		return fmt.Errorf("arrival: %w", err)
	}
	if _, err := dist.NewSampler(c.ServiceDelay); err != nil {
		return fmt.Errorf("service_delay: %w", err)
	}
	return nil
}

// Order selects how a philosopher orders its two chopsticks.
type Order string

const (
	// OrderRing picks up the left chopstick first. Deadlock-prone.
	OrderRing Order = "ring"
	// OrderOrdered picks up the chopstick with the lower id first. Deadlock-free.
	OrderOrdered Order = "ordered"
)

// BowlConfig adds a shared rice bowl refilled by a chef.
type BowlConfig struct {
	Capacity    float64 `yaml:"capacity"`
	Init        float64 `yaml:"init"`
	Portion     float64 `yaml:"portion"`      // single meal size
	RefillEvery float64 `yaml:"refill_every"` // chef period
	// MaxWait bounds how long a philosopher holding both chopsticks waits
	// for rice before giving up. 0 waits forever.
	MaxWait float64 `yaml:"max_wait"`
}

// DefaultBowlConfig returns a full 1000-unit bowl, portions of 20, a refill
// every 150 time units and a give-up timeout of a quarter of that.
func DefaultBowlConfig() BowlConfig {
	return BowlConfig{
		Capacity:    1000,
		Init:        1000,
		Portion:     20,
		RefillEvery: 150,
		MaxWait:     150.0 / 4,
	}
}

// UnmarshalYAML fills fields missing from a bowl section with the
// DefaultBowlConfig values.
func (b *BowlConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain BowlConfig
	p := plain(DefaultBowlConfig())
	if err := dist.DecodeStrict(value, &p); err != nil {
		return err
	}
	*b = BowlConfig(p)
	return nil
}

// Validate checks the bowl parameters.
func (b BowlConfig) Validate() error {
	if math.IsNaN(b.Capacity) || math.IsInf(b.Capacity, 0) || b.Capacity <= 0 {
		return fmt.Errorf("bowl capacity must be positive and finite, got %v", b.Capacity)
	}
	if b.Init < 0 || b.Init > b.Capacity {
		return fmt.Errorf("bowl init must be in [0, %v], got %v", b.Capacity, b.Init)
	}
	if b.Portion <= 0 || b.Portion > b.Capacity {
		return fmt.Errorf("bowl portion must be in (0, %v], got %v", b.Capacity, b.Portion)
	}
	if b.RefillEvery <= 0 {
		return fmt.Errorf("bowl refill_every must be > 0, got %v", b.RefillEvery)
	}
	if b.MaxWait < 0 {
		return fmt.Errorf("bowl max_wait must be >= 0, got %v", b.MaxWait)
	}
	return nil
}

// PhilosophersConfig parameterizes the dining philosophers model.
type PhilosophersConfig struct {
	N           int           `yaml:"n"`
	Horizon     float64       `yaml:"horizon"`      // run until this time
	Think       dist.DistSpec `yaml:"think"`        // thinking time
	Eat         dist.DistSpec `yaml:"eat"`          // eating time
	PickupDelay float64       `yaml:"pickup_delay"` // time to reach for the second chopstick
	Order       Order         `yaml:"order"`
	Bowl        *BowlConfig   `yaml:"bowl,omitempty"`
	Seed        int64         `yaml:"seed"`
}

// DefaultPhilosophersConfig returns five philosophers with exponential
// think/eat times of mean 10, a pickup delay of 1 and deadlock-free ordering.
func DefaultPhilosophersConfig() PhilosophersConfig {
	return PhilosophersConfig{
		N:           5,
		Horizon:     5000,
		Think:       dist.Exponential(10),
		Eat:         dist.Exponential(10),
		PickupDelay: 1,
		Order:       OrderOrdered,
	}
}

// Validate rejects configurations the model cannot run.
func (c PhilosophersConfig) Validate() error {
	if c.N < 2 {
		return fmt.Errorf("n must be >= 2 (each philosopher needs two chopsticks), got %d", c.N)
	}
	if math.IsNaN(c.Horizon) || c.Horizon <= 0 {
		return fmt.Errorf("horizon must be > 0, got %v", c.Horizon)
	}
	if math.IsNaN(c.PickupDelay) || c.PickupDelay < 0 {
		return fmt.Errorf("pickup_delay must be >= 0, got %v", c.PickupDelay)
	}
	switch c.Order {
	case OrderRing, OrderOrdered:
	default:
		return fmt.Errorf("order must be %q or %q, got %q", OrderRing, OrderOrdered, c.Order)
	}
	if _, err := dist.NewSampler(c.Think); err != nil {
		return fmt.Errorf("think: %w", err)
	}
	if _, err := dist.NewSampler(c.Eat); err != nil {
		return fmt.Errorf("eat: %w", err)
	}
	if c.Bowl != nil {
		if err := c.Bowl.Validate(); err != nil {
			return err
		}
	}
	return nil
}

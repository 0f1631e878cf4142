package model

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/desim-go/desim/sim"
	"github.com/desim-go/desim/sim/dist"
)

// ErrServiceFailed is the cause carried by a ticket the counter could not serve.
var ErrServiceFailed = errors.New("service failed")

// CustomerOutcome records one customer's visit.
type CustomerOutcome struct {
	ID      int      `yaml:"id"`
	Arrived sim.Time `yaml:"arrived"`
	Left    sim.Time `yaml:"left"`
	Served  bool     `yaml:"served"`
}

// CounterResult is the outcome of RunCounter.
type CounterResult struct {
	Customers []CustomerOutcome `yaml:"customers"`
	Served    int               `yaml:"served"`
	Failed    int               `yaml:"failed"`
	Sleeps    int               `yaml:"sleeps"` // times the operator fell asleep
	Wakes     int               `yaml:"wakes"`  // times a customer woke the operator
	Sojourn   Summary           `yaml:"sojourn"`
	EndTime   sim.Time          `yaml:"end_time"`
	Stats     sim.Stats         `yaml:"-"`
}

// counter is the service counter model: customers queue tickets in a line
// and an operator serves them one at a time. An idle operator sleeps on an
// event nobody resolves and is woken by interrupt.
type counter struct {
	env     *sim.Environment
	cfg     CounterConfig
	arrival dist.Sampler
	service dist.Sampler
	arrRNG  *rand.Rand
	svcRNG  *rand.Rand

	line     sim.FIFO[*sim.Event]
	idle     bool
	operator *sim.Process
	result   *CounterResult
}

// RunCounter simulates cfg.Customers customers visiting a single-operator
// counter and runs until every ticket has been handled.
func RunCounter(cfg CounterConfig, opts ...sim.Option) (*CounterResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("counter config: %w", err)
	}
	arrival, _ := dist.NewSampler(cfg.Arrival)
	service, _ := dist.NewSampler(cfg.ServiceDelay)
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))

	env := sim.NewEnvironment(opts...)
	defer env.Close()

	c := &counter{
		env:     env,
		cfg:     cfg,
		arrival: arrival,
		service: service,
		arrRNG:  rng.ForSubsystem(sim.SubsystemArrivals),
		svcRNG:  rng.ForSubsystem(sim.SubsystemService),
		result:  &CounterResult{Customers: make([]CustomerOutcome, cfg.Customers)},
	}
	c.operator = env.Spawn("operator", c.serve)
	generator := env.Spawn("generator", c.generate)

	if err := env.RunUntilIdle(); err != nil {
		return nil, err
	}
	for _, p := range []*sim.Process{c.operator, generator} {
		if p.State() != sim.ProcessFinished {
			return nil, fmt.Errorf("%s ended %s: %v", p, p.State(), p.Completion().Err())
		}
	}

	sojourn := make([]float64, 0, len(c.result.Customers))
	for _, o := range c.result.Customers {
		sojourn = append(sojourn, o.Left-o.Arrived)
		if o.Served {
			c.result.Served++
		} else {
			c.result.Failed++
		}
	}
	c.result.Sojourn = Summarize(sojourn)
	c.result.EndTime = env.Now()
	c.result.Stats = env.Stats()
	return c.result, nil
}

func (c *counter) generate(p *sim.Process) (any, error) {
	for i := 0; i < c.cfg.Customers; i++ {
		c.env.Spawn(fmt.Sprintf("customer%d", i), c.customer(i))
		if err := p.Sleep(c.arrival.Sample(c.arrRNG)); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (c *counter) customer(id int) sim.ProcessFunc {
	return func(p *sim.Process) (any, error) {
		out := &c.result.Customers[id]
		out.ID = id
		out.Arrived = c.env.Now()
		log := logrus.WithField("customer", id)
		log.Debugf("[t=%12.3f] arrived", c.env.Now())

		ticket := c.env.NewEvent()
		c.line.Enqueue(ticket)
		if c.idle {
			c.idle = false
			if err := c.operator.Interrupt("customer arrived"); err != nil {
				return nil, err
			}
		}

		_, err := p.Wait(ticket)
		out.Left = c.env.Now()
		switch {
		case err == nil:
			out.Served = true
			log.Debugf("[t=%12.3f] left", c.env.Now())
		case errors.Is(err, ErrServiceFailed):
			log.Debugf("[t=%12.3f] failed (and left)", c.env.Now())
		default:
			return nil, err
		}
		return nil, nil
	}
}

// serve is the operator. It goes home once every customer has been handled.
func (c *counter) serve(p *sim.Process) (any, error) {
	handled := 0
	for handled < c.cfg.Customers {
		if ticket, ok := c.line.Dequeue(); ok {
			if err := p.Sleep(c.service.Sample(c.svcRNG)); err != nil {
				return nil, err
			}
			var err error
			if c.svcRNG.Float64() < c.cfg.FailureProb {
				err = ticket.Fail(ErrServiceFailed)
			} else {
				err = ticket.Succeed(nil)
			}
			if err != nil {
				return nil, err
			}
			handled++
			continue
		}

		c.idle = true
		c.result.Sleeps++
		logrus.Debugf("[t=%12.3f] operator fell asleep", c.env.Now())
		_, err := p.Wait(c.env.NewEvent())
		if !sim.IsInterrupt(err) {
			return nil, fmt.Errorf("operator woke without interrupt: %w", err)
		}
		c.result.Wakes++
		logrus.Debugf("[t=%12.3f] operator woke up", c.env.Now())
	}
	return handled, nil
}

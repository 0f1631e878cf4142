package cmd

import (
	"github.com/spf13/pflag"

	"github.com/desim-go/desim/sim/dist"
	"github.com/desim-go/desim/sim/model"
)

// Flag values are only applied when set explicitly (pflag Changed), so a
// scenario file keeps its values unless the command line overrides them.

type counterFlags struct {
	customers    int
	failureProb  float64
	arrivalMean  float64
	serviceDelay float64
}

type philosopherFlags struct {
	n           int
	horizon     float64
	order       string
	pickupDelay float64
	thinkMean   float64
	eatMean     float64
	bowl        bool
	portion     float64
	maxWait     float64
	refillEvery float64
}

type sweepFlags struct {
	from, to, step, runs int
}

var (
	counterFlagValues     counterFlags
	philosopherFlagValues philosopherFlags
	sweepFlagValues       sweepFlags
)

func (f *counterFlags) register(fs *pflag.FlagSet) {
	d := model.DefaultCounterConfig()
	fs.IntVar(&f.customers, "customers", d.Customers, "Number of customers")
	fs.Float64Var(&f.failureProb, "failure-prob", d.FailureProb, "Probability that serving a ticket fails")
	fs.Float64Var(&f.arrivalMean, "arrival-mean", 10, "Mean of the exponential inter-arrival delay")
	fs.Float64Var(&f.serviceDelay, "service-delay", 10, "Constant time to serve one customer")
}

func (f *counterFlags) apply(fs *pflag.FlagSet, cfg *model.CounterConfig) {
	if fs.Changed("customers") {
		cfg.Customers = f.customers
	}
	if fs.Changed("failure-prob") {
		cfg.FailureProb = f.failureProb
	}
	if fs.Changed("arrival-mean") {
		cfg.Arrival = dist.Exponential(f.arrivalMean)
	}
	if fs.Changed("service-delay") {
		cfg.ServiceDelay = dist.Constant(f.serviceDelay)
	}
}

func (f *philosopherFlags) register(fs *pflag.FlagSet) {
	d := model.DefaultPhilosophersConfig()
	b := model.DefaultBowlConfig()
	fs.IntVar(&f.n, "n", d.N, "Number of philosophers")
	fs.Float64Var(&f.horizon, "horizon", d.Horizon, "Simulated time to run each table for")
	fs.StringVar(&f.order, "order", string(d.Order), "Chopstick acquisition order (ordered, ring)")
	fs.Float64Var(&f.pickupDelay, "pickup-delay", d.PickupDelay, "Time to reach for the second chopstick")
	fs.Float64Var(&f.thinkMean, "think-mean", 10, "Mean of the exponential thinking time")
	fs.Float64Var(&f.eatMean, "eat-mean", 10, "Mean of the exponential eating time")
	fs.BoolVar(&f.bowl, "bowl", false, "Share a rice bowl refilled by a chef")
	fs.Float64Var(&f.portion, "portion", b.Portion, "Single meal size (implies --bowl)")
	fs.Float64Var(&f.maxWait, "max-wait", b.MaxWait, "Give up on rice after this long, 0 waits forever (implies --bowl)")
	fs.Float64Var(&f.refillEvery, "refill-every", b.RefillEvery, "Chef refill period (implies --bowl)")
}

func (f *philosopherFlags) apply(fs *pflag.FlagSet, cfg *model.PhilosophersConfig) {
	if fs.Changed("n") {
		cfg.N = f.n
	}
	if fs.Changed("horizon") {
		cfg.Horizon = f.horizon
	}
	if fs.Changed("order") {
		cfg.Order = model.Order(f.order)
	}
	if fs.Changed("pickup-delay") {
		cfg.PickupDelay = f.pickupDelay
	}
	if fs.Changed("think-mean") {
		cfg.Think = dist.Exponential(f.thinkMean)
	}
	if fs.Changed("eat-mean") {
		cfg.Eat = dist.Exponential(f.eatMean)
	}

	if fs.Changed("bowl") && !f.bowl {
		cfg.Bowl = nil
		return
	}
	wantBowl := f.bowl || fs.Changed("portion") || fs.Changed("max-wait") || fs.Changed("refill-every")
	if wantBowl && cfg.Bowl == nil {
		b := model.DefaultBowlConfig()
		cfg.Bowl = &b
	}
	if cfg.Bowl == nil {
		return
	}
	if fs.Changed("portion") {
		cfg.Bowl.Portion = f.portion
	}
	if fs.Changed("max-wait") {
		cfg.Bowl.MaxWait = f.maxWait
	}
	if fs.Changed("refill-every") {
		cfg.Bowl.RefillEvery = f.refillEvery
	}
}

func (f *sweepFlags) register(fs *pflag.FlagSet, withRuns bool) {
	d := DefaultScenarioConfig().Sweep
	fs.IntVar(&f.from, "from", d.From, "Smallest table size")
	fs.IntVar(&f.to, "to", d.To, "Largest table size")
	fs.IntVar(&f.step, "step", d.Step, "Table size increment")
	if withRuns {
		fs.IntVar(&f.runs, "runs", d.Runs, "Runs per table size")
	}
}

func (f *sweepFlags) apply(fs *pflag.FlagSet, cfg *SweepConfig) {
	if fs.Changed("from") {
		cfg.From = f.from
	}
	if fs.Changed("to") {
		cfg.To = f.to
	}
	if fs.Changed("step") {
		cfg.Step = f.step
	}
	if fs.Lookup("runs") != nil && fs.Changed("runs") {
		cfg.Runs = f.runs
	}
}

// resolveSeed picks the seed for a run: the --seed flag when given (or when
// there is no scenario file), otherwise the file's value.
func resolveSeed(fs *pflag.FlagSet, fromFile int64, haveFile bool) int64 {
	if fs.Changed("seed") || !haveFile {
		return seed
	}
	return fromFile
}

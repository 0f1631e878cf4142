package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/desim-go/desim/sim"
	"github.com/desim-go/desim/sim/model"
)

// philosophersConfig resolves the philosophers section of the scenario
// against the command's flags and validates it.
func philosophersConfig(cmd *cobra.Command) model.PhilosophersConfig {
	scenario, haveFile := loadScenario()
	cfg := scenario.Philosophers
	philosopherFlagValues.apply(cmd.Flags(), &cfg)
	cfg.Seed = resolveSeed(cmd.Flags(), cfg.Seed, haveFile)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid philosophers configuration: %v", err)
	}
	return cfg
}

var philosophersCmd = &cobra.Command{
	Use:   "philosophers",
	Short: "Simulate dining philosophers sharing chopsticks (and optionally a rice bowl)",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := philosophersConfig(cmd)

		logrus.Infof("Starting philosophers: n=%d order=%s horizon=%g bowl=%t seed=%d",
			cfg.N, cfg.Order, cfg.Horizon, cfg.Bowl != nil, cfg.Seed)
		start := time.Now()
		st := newTrace()
		res, err := model.RunPhilosophers(cfg, sim.WithTrace(st))
		if err != nil {
			logrus.Fatalf("Philosophers run failed: %v", err)
		}
		if res.Deadlocked {
			logrus.Warnf("Every chopstick was held when the run stopped at t=%.3f", res.EndTime)
		}

		printPhilosophersResult(os.Stdout, res)
		printKernelStats(os.Stdout, res.Stats)
		if err := writeReport(outputPath, newReport("philosophers", cfg.Seed, start, st, res)); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Philosophers complete.")
	},
}

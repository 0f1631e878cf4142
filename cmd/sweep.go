package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/desim-go/desim/sim/model"
)

// sweepRange resolves the sweep section of the scenario against the flags.
func sweepRange(cmd *cobra.Command, needRuns bool) SweepConfig {
	scenario, _ := loadScenario()
	s := scenario.Sweep
	sweepFlagValues.apply(cmd.Flags(), &s)
	if err := s.Validate(needRuns); err != nil {
		logrus.Fatalf("Invalid sweep configuration: %v", err)
	}
	return s
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Average philosopher waiting time across table sizes",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := philosophersConfig(cmd)
		s := sweepRange(cmd, false)

		logrus.Infof("Sweeping n=%d..%d step %d, order=%s seed=%d", s.From, s.To, s.Step, cfg.Order, cfg.Seed)
		start := time.Now()
		points, err := model.SweepWaiting(cfg, s.From, s.To, s.Step)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		printSweep(os.Stdout, points)
		if err := writeReport(outputPath, newReport("sweep", cfg.Seed, start, nil, points)); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Sweep complete.")
	},
}

var deadlocksCmd = &cobra.Command{
	Use:   "deadlocks",
	Short: "Count deadlocked runs per table size",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := philosophersConfig(cmd)
		s := sweepRange(cmd, true)

		logrus.Infof("Counting deadlocks n=%d..%d step %d, %d runs each, order=%s seed=%d",
			s.From, s.To, s.Step, s.Runs, cfg.Order, cfg.Seed)
		start := time.Now()
		points, err := model.DeadlockSweep(cfg, s.From, s.To, s.Step, s.Runs)
		if err != nil {
			logrus.Fatalf("Deadlock sweep failed: %v", err)
		}

		printDeadlocks(os.Stdout, points)
		if err := writeReport(outputPath, newReport("deadlocks", cfg.Seed, start, nil, points)); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Deadlock sweep complete.")
	},
}

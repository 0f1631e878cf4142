package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/desim-go/desim/sim"
	"github.com/desim-go/desim/sim/model"
)

// loadScenario returns the scenario file named by --config, or the defaults.
// The boolean reports whether a file was read.
func loadScenario() (*ScenarioConfig, bool) {
	if configPath == "" {
		return DefaultScenarioConfig(), false
	}
	cfg, err := LoadScenarioConfig(configPath)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Infof("Loaded scenario from %s", configPath)
	return cfg, true
}

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Simulate customers queueing at a single-operator service counter",
	Run: func(cmd *cobra.Command, args []string) {
		scenario, haveFile := loadScenario()
		cfg := scenario.Counter
		counterFlagValues.apply(cmd.Flags(), &cfg)
		cfg.Seed = resolveSeed(cmd.Flags(), cfg.Seed, haveFile)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid counter configuration: %v", err)
		}

		logrus.Infof("Starting counter: customers=%d arrival=%s service=%s failure_prob=%g seed=%d",
			cfg.Customers, cfg.Arrival, cfg.ServiceDelay, cfg.FailureProb, cfg.Seed)
		start := time.Now()
		st := newTrace()
		res, err := model.RunCounter(cfg, sim.WithTrace(st))
		if err != nil {
			logrus.Fatalf("Counter run failed: %v", err)
		}

		printCounterResult(os.Stdout, res)
		printKernelStats(os.Stdout, res.Stats)
		if err := writeReport(outputPath, newReport("counter", cfg.Seed, start, st, res)); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Counter complete.")
	},
}

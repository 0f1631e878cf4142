package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/desim-go/desim/sim/trace"
)

var (
	seed       int64  // Master seed; overrides the scenario file when set explicitly
	logLevel   string // Log verbosity level
	configPath string // Optional YAML scenario file
	outputPath string // Optional YAML report destination
	traceLevel string // Firing trace level (none, firings)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "desim",
	Short: "Deterministic discrete-event simulation of classic concurrency models",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, firings)", traceLevel)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for all random streams")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML scenario file (flags override its values)")
	rootCmd.PersistentFlags().StringVar(&outputPath, "output", "", "Write a YAML report to this path")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace-level", "none", "Firing trace level (none, firings)")

	counterFlagValues.register(counterCmd.Flags())
	philosopherFlagValues.register(philosophersCmd.Flags())
	philosopherFlagValues.register(sweepCmd.Flags())
	sweepFlagValues.register(sweepCmd.Flags(), false)
	philosopherFlagValues.register(deadlocksCmd.Flags())
	sweepFlagValues.register(deadlocksCmd.Flags(), true)

	rootCmd.AddCommand(counterCmd, philosophersCmd, sweepCmd, deadlocksCmd)
}

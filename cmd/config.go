package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/desim-go/desim/sim/model"
)

// SweepConfig is the table-size range swept by the sweep and deadlocks commands.
type SweepConfig struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
	Step int `yaml:"step"`
	Runs int `yaml:"runs"` // runs per size (deadlocks only)
}

// ScenarioConfig represents a full scenario file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioConfig struct {
	Counter      model.CounterConfig      `yaml:"counter"`
	Philosophers model.PhilosophersConfig `yaml:"philosophers"`
	Sweep        SweepConfig              `yaml:"sweep"`
}

// DefaultScenarioConfig returns the configuration used when no file is given.
func DefaultScenarioConfig() *ScenarioConfig {
	return &ScenarioConfig{
		Counter:      model.DefaultCounterConfig(),
		Philosophers: model.DefaultPhilosophersConfig(),
		Sweep:        SweepConfig{From: 2, To: 20, Step: 2, Runs: 20},
	}
}

// LoadScenarioConfig parses a scenario file over the defaults, so a file
// only needs the values it changes. Uses strict field checking: typos must
// cause errors.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	cfg := DefaultScenarioConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the sweep range. Model sections are validated by the
// command that runs them.
func (s SweepConfig) Validate(needRuns bool) error {
	if s.From < 2 {
		return fmt.Errorf("sweep from must be >= 2, got %d", s.From)
	}
	if s.To < s.From {
		return fmt.Errorf("sweep to (%d) must be >= from (%d)", s.To, s.From)
	}
	if s.Step < 1 {
		return fmt.Errorf("sweep step must be >= 1, got %d", s.Step)
	}
	if needRuns && s.Runs < 1 {
		return fmt.Errorf("sweep runs must be >= 1, got %d", s.Runs)
	}
	return nil
}

// Package testutil provides shared test infrastructure for desim.
// It holds the golden scenario dataset and assertion helpers used across
// sim/ and sim/model/ test packages.
package testutil

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"
)

// GoldenDataset represents the structure of testdata/golden_models.yaml.
type GoldenDataset struct {
	Cases []GoldenCase `yaml:"cases"`
}

// GoldenCase is one fully deterministic scenario and its expected outcome.
type GoldenCase struct {
	Name    string        `yaml:"name"`
	Model   string        `yaml:"model"` // "counter" or "philosophers"
	Config  yaml.Node     `yaml:"config"`
	Metrics GoldenMetrics `yaml:"metrics"`
}

// GoldenMetrics are the expected results. Fields a model does not produce
// are left zero.
type GoldenMetrics struct {
	// counter
	Served      int     `yaml:"served"`
	Failed      int     `yaml:"failed"`
	Sleeps      int     `yaml:"sleeps"`
	Wakes       int     `yaml:"wakes"`
	SojournMean float64 `yaml:"sojourn_mean"`

	// philosophers
	Meals      int     `yaml:"meals"`
	GiveUps    int     `yaml:"give_ups"`
	AvgWaiting float64 `yaml:"avg_waiting"`
	Deadlocked bool    `yaml:"deadlocked"`

	EndTime float64 `yaml:"end_time"`
}

// DecodeConfig decodes the case's config section into v, rejecting
// unknown fields the same way scenario files are loaded.
func (c GoldenCase) DecodeConfig(t *testing.T, v any) {
	t.Helper()
	raw, err := yaml.Marshal(&c.Config)
	if err != nil {
		t.Fatalf("%s: re-encoding config: %v", c.Name, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil {
		t.Fatalf("%s: decoding config: %v", c.Name, err)
	}
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_models.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

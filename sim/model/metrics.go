package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is a distribution summary of a sample.
type Summary struct {
	N      int     `yaml:"n"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	P50    float64 `yaml:"p50"`
	P90    float64 `yaml:"p90"`
	P99    float64 `yaml:"p99"`
}

// Summarize computes a Summary. Empty input yields the zero Summary; a
// single value has StdDev 0. xs is not modified.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	s := Summary{
		N:   len(sorted),
		Min: floats.Min(sorted),
		Max: floats.Max(sorted),
		P50: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90: stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P99: stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
	if len(sorted) == 1 {
		s.Mean = sorted[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.3f sd=%.3f min=%.3f p50=%.3f p90=%.3f p99=%.3f max=%.3f",
		s.N, s.Mean, s.StdDev, s.Min, s.P50, s.P90, s.P99, s.Max)
}

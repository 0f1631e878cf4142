package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{7}, Summary{N: 1, Mean: 7, Min: 7, Max: 7, P50: 7, P90: 7, P99: 7}},
		{"unsorted five", []float64{5, 1, 4, 2, 3}, Summary{N: 5, Mean: 3, StdDev: math.Sqrt(2.5), Min: 1, Max: 5, P50: 3, P90: 5, P99: 5}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.in)
			assert.Equal(t, tc.want.N, got.N)
			assert.InDelta(t, tc.want.Mean, got.Mean, 1e-12)
			assert.InDelta(t, tc.want.StdDev, got.StdDev, 1e-12)
			assert.Equal(t, tc.want.Min, got.Min)
			assert.Equal(t, tc.want.Max, got.Max)
			assert.Equal(t, tc.want.P50, got.P50)
			assert.Equal(t, tc.want.P90, got.P90)
			assert.Equal(t, tc.want.P99, got.P99)
		})
	}
}

func TestSummarize_DoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Summarize(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestSummary_String(t *testing.T) {
	s := Summarize([]float64{1, 2, 3})
	assert.Contains(t, s.String(), "n=3 mean=2.000")
}

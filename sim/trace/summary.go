package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalFirings     int            `yaml:"total_firings"`
	FailedFirings    int            `yaml:"failed_firings"`
	LastClock        float64        `yaml:"last_clock"`
	UniqueTimestamps int            `yaml:"unique_timestamps"`
	KindDistribution map[string]int `yaml:"kind_distribution"` // event kind → count of firings
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalFirings = len(st.Firings)
	seen := make(map[float64]bool)
	for _, f := range st.Firings {
		summary.KindDistribution[f.Kind]++
		if f.Outcome == OutcomeFailed {
			summary.FailedFirings++
		}
		if f.Clock > summary.LastClock {
			summary.LastClock = f.Clock
		}
		seen[f.Clock] = true
	}
	summary.UniqueTimestamps = len(seen)

	return summary
}

// Outcome labels used in FiringRecord.Outcome.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Equal reports whether two traces recorded the identical firing sequence.
func Equal(a, b *SimulationTrace) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Firings) != len(b.Firings) {
		return false
	}
	for i := range a.Firings {
		if a.Firings[i] != b.Firings[i] {
			return false
		}
	}
	return true
}

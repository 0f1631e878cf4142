package trace

// TraceLevel controls the verbosity of firing traces.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelFirings captures every fired action.
	TraceLevelFirings TraceLevel = "firings"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelFirings: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	// Limit caps the number of stored records (0 = unlimited). Records past
	// the limit are counted in Dropped.
	Limit int
}

// SimulationTrace collects firing records during a run.
type SimulationTrace struct {
	Config  TraceConfig
	Firings []FiringRecord
	Dropped int
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Firings: make([]FiringRecord, 0),
	}
}

// Enabled reports whether records should be collected at all.
// Safe to call on a nil trace.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelFirings
}

// RecordFiring appends a firing record.
func (st *SimulationTrace) RecordFiring(record FiringRecord) {
	if !st.Enabled() {
		return
	}
	if st.Config.Limit > 0 && len(st.Firings) >= st.Config.Limit {
		st.Dropped++
		return
	}
	st.Firings = append(st.Firings, record)
}

package trace

import (
	"testing"
)

func TestSimulationTrace_RecordFiring_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for firings
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelFirings})

	// WHEN a firing record is recorded
	st.RecordFiring(FiringRecord{Clock: 10, Seq: 3, EventID: 7, Kind: "timeout", Outcome: OutcomeOK})

	// THEN the trace contains one record with correct data
	if len(st.Firings) != 1 {
		t.Fatalf("expected 1 firing, got %d", len(st.Firings))
	}
	if st.Firings[0].EventID != 7 {
		t.Errorf("expected event ID 7, got %d", st.Firings[0].EventID)
	}
	if st.Firings[0].Kind != "timeout" {
		t.Errorf("expected kind timeout, got %s", st.Firings[0].Kind)
	}
}

func TestSimulationTrace_LevelNone_RecordsNothing(t *testing.T) {
	// GIVEN a trace with tracing disabled
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone})

	// WHEN a firing is recorded
	st.RecordFiring(FiringRecord{Clock: 1, Kind: "event"})

	// THEN nothing is stored
	if len(st.Firings) != 0 {
		t.Errorf("expected 0 firings, got %d", len(st.Firings))
	}
}

func TestSimulationTrace_NilTrace_IsDisabled(t *testing.T) {
	var st *SimulationTrace
	if st.Enabled() {
		t.Error("nil trace must report disabled")
	}
	// must not panic
	st.RecordFiring(FiringRecord{Clock: 1})
}

func TestSimulationTrace_Limit_CountsDropped(t *testing.T) {
	// GIVEN a trace limited to two records
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelFirings, Limit: 2})

	// WHEN four firings are recorded
	for i := 0; i < 4; i++ {
		st.RecordFiring(FiringRecord{Seq: uint64(i)})
	}

	// THEN two are kept and two dropped
	if len(st.Firings) != 2 {
		t.Errorf("expected 2 firings, got %d", len(st.Firings))
	}
	if st.Dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", st.Dropped)
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"", true},
		{"none", true},
		{"firings", true},
		{"decisions", false},
		{"FIRINGS", false},
	}
	for _, tc := range tests {
		if got := IsValidTraceLevel(tc.level); got != tc.want {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

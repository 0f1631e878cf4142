// Package trace provides firing-trace recording for simulation runs.
// This package has no dependencies on sim/: it stores pure data types.
package trace

import "fmt"

// FiringRecord captures a single action fired by the scheduler.
type FiringRecord struct {
	Clock   float64 // simulated time of the firing
	Seq     uint64  // scheduling sequence number (tie-breaker)
	EventID uint64  // identity of the event whose continuations ran
	Kind    string  // event kind, e.g. "timeout", "request", "process"
	Outcome string  // "ok" or "failed"
}

func (r FiringRecord) String() string {
	return fmt.Sprintf("%.6f #%d %s/%d %s", r.Clock, r.Seq, r.Kind, r.EventID, r.Outcome)
}

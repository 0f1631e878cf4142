package testutil

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/desim-go/desim/sim/trace"
)

// AssertSameTrace fails t at the first firing where a and b diverge.
func AssertSameTrace(t *testing.T, a, b *trace.SimulationTrace) {
	t.Helper()
	if a == nil || b == nil {
		if a != b {
			t.Errorf("one trace is nil: a=%v b=%v", a == nil, b == nil)
		}
		return
	}
	n := min(len(a.Firings), len(b.Firings))
	for i := 0; i < n; i++ {
		if a.Firings[i] != b.Firings[i] {
			t.Errorf("traces diverge at firing %d:\n  a: %s\n  b: %s", i, a.Firings[i], b.Firings[i])
			return
		}
	}
	if len(a.Firings) != len(b.Firings) {
		t.Errorf("trace lengths differ: %d vs %d (common prefix identical)", len(a.Firings), len(b.Firings))
	}
}

// NewRecordingLogger returns a log entry that records every line at
// Debug and above, and the hook to inspect them.
func NewRecordingLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

// Count returns how many recorded entries are at level.
func Count(hook *test.Hook, level logrus.Level) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

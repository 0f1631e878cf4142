package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/desim-go/desim/sim"
	"github.com/desim-go/desim/sim/model"
	"github.com/desim-go/desim/sim/trace"
)

// Report is the YAML document written by --output.
type Report struct {
	RunID     string              `yaml:"run_id"`
	Command   string              `yaml:"command"`
	Seed      int64               `yaml:"seed"`
	WallTimeS float64             `yaml:"wall_time_s"`
	Trace     *trace.TraceSummary `yaml:"trace,omitempty"`
	Result    any                 `yaml:"result"`
}

func newReport(command string, seed int64, start time.Time, st *trace.SimulationTrace, result any) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		Command:   command,
		Seed:      seed,
		WallTimeS: time.Since(start).Seconds(),
		Result:    result,
	}
	if st.Enabled() {
		r.Trace = trace.Summarize(st)
	}
	return r
}

// writeReport marshals r to path. An empty path is a no-op.
func writeReport(path string, r *Report) error {
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// newTrace returns the trace selected by --trace-level, nil when tracing is off.
func newTrace() *trace.SimulationTrace {
	if trace.TraceLevel(traceLevel) != trace.TraceLevelFirings {
		return nil
	}
	return trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelFirings})
}

func printKernelStats(w io.Writer, s sim.Stats) {
	_, _ = fmt.Fprintln(w, "=== Kernel ===")
	_, _ = fmt.Fprintf(w, "Actions Fired       : %d\n", s.ActionsFired)
	_, _ = fmt.Fprintf(w, "Processes Spawned   : %d\n", s.ProcessesSpawned)
	_, _ = fmt.Fprintf(w, "Processes Finished  : %d\n", s.ProcessesFinished)
	_, _ = fmt.Fprintf(w, "Processes Failed    : %d\n", s.ProcessesFailed)
	if s.UnobservedFailures > 0 {
		_, _ = fmt.Fprintf(w, "Unobserved Failures : %d\n", s.UnobservedFailures)
	}
}

func printCounterResult(w io.Writer, r *model.CounterResult) {
	_, _ = fmt.Fprintln(w, "=== Counter ===")
	_, _ = fmt.Fprintf(w, "Customers      : %d\n", len(r.Customers))
	_, _ = fmt.Fprintf(w, "Served         : %d\n", r.Served)
	_, _ = fmt.Fprintf(w, "Failed         : %d\n", r.Failed)
	_, _ = fmt.Fprintf(w, "Operator Sleeps: %d\n", r.Sleeps)
	_, _ = fmt.Fprintf(w, "Operator Wakes : %d\n", r.Wakes)
	_, _ = fmt.Fprintf(w, "Sojourn        : %s\n", r.Sojourn)
	_, _ = fmt.Fprintf(w, "End Time       : %.3f\n", r.EndTime)
}

func printPhilosophersResult(w io.Writer, r *model.PhilosophersResult) {
	_, _ = fmt.Fprintln(w, "=== Philosophers ===")
	_, _ = fmt.Fprintf(w, "Philosophers   : %d\n", r.N)
	_, _ = fmt.Fprintf(w, "Meals          : %d\n", r.Meals)
	if r.GiveUps > 0 {
		_, _ = fmt.Fprintf(w, "Give-ups       : %d\n", r.GiveUps)
	}
	_, _ = fmt.Fprintf(w, "Avg Waiting    : %.3f\n", r.AvgWaiting)
	_, _ = fmt.Fprintf(w, "Waiting        : %s\n", r.Waiting)
	_, _ = fmt.Fprintf(w, "Deadlocked     : %t\n", r.Deadlocked)
	if r.Refills > 0 {
		_, _ = fmt.Fprintf(w, "Bowl Level     : %.3f (%d refills)\n", r.BowlLevel, r.Refills)
	}
	_, _ = fmt.Fprintf(w, "End Time       : %.3f\n", r.EndTime)
	for _, ph := range r.Philosophers {
		_, _ = fmt.Fprintf(w, "  philosopher %2d: meals=%d waiting=%.3f give_ups=%d\n",
			ph.ID, ph.Meals, ph.Waiting, ph.GiveUps)
	}
}

func printSweep(w io.Writer, points []model.SweepPoint) {
	if len(points) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "=== Waiting Sweep ===")
	_, _ = fmt.Fprintf(w, "%6s %12s %8s %8s\n", "n", "avg_waiting", "meals", "give_ups")
	for _, p := range points {
		_, _ = fmt.Fprintf(w, "%6d %12.3f %8d %8d\n", p.N, p.AvgWaiting, p.Meals, p.GiveUps)
	}
}

func printDeadlocks(w io.Writer, points []model.DeadlockPoint) {
	if len(points) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "=== Deadlocks ===")
	_, _ = fmt.Fprintf(w, "%6s %6s %10s %8s\n", "n", "runs", "deadlocks", "rate")
	for _, p := range points {
		_, _ = fmt.Fprintf(w, "%6d %6d %10d %8.3f\n", p.N, p.Runs, p.Deadlocks, float64(p.Deadlocks)/float64(p.Runs))
	}
}

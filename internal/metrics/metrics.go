// Package metrics records operational metrics for pipeline runs through a
// pluggable Backend.
//
// The default backend is a no-op, so instrumentation calls are always safe.
// Concrete systems live in subpackages (prompush) and are installed with
// SetBackend at startup; the rest of the code only calls the Record helpers.
package metrics

import "time"

// Metric names shared by the helpers and the backends.
const (
	StepTotal           = "sirnaetl_step_total"
	StepDurationSeconds = "sirnaetl_step_duration_seconds"
	RowsTotal           = "sirnaetl_rows_total"
	RunsTotal           = "sirnaetl_runs_total"
)

// Row kinds passed to RecordRow.
const (
	RowsFetched     = "fetched"
	RowsMerged      = "merged"
	RowsCleaned     = "cleaned"
	RowsDerived     = "derived"
	RowsInserted    = "inserted"
	RowsLoadFailed  = "load_failed"
	RowsCastDropped = "cast_dropped"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes collected metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordStep counts one execution of a pipeline step and observes its
// duration, labelled by outcome.
func RecordStep(job, step string, err error, d time.Duration) {
	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status(err),
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow adds delta rows of the given kind (fetched, merged, cleaned,
// derived, inserted, ...). Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordRun counts a finished run by outcome.
func RecordRun(job string, err error) {
	backend.IncCounter(RunsTotal, 1, Labels{
		"job":    job,
		"status": status(err),
	})
}

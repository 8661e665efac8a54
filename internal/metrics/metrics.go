// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from lyproxify runs.
//
// The package is intentionally minimal:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     duration observations.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - Concrete metric systems live in subpackages (prompush, datadog) and
//     are selected by the CLI; the rest of the codebase depends only on
//     this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a value in a duration-style metric.
	ObserveDuration(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)      {}
func (nopBackend) ObserveDuration(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                              { return nil }

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

// RecordJob measures one dataset transformation: a completion counter with
// success/failure status plus its duration.
func RecordJob(dataset string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"dataset": dataset,
		"status":  status,
	}
	backend.IncCounter("lyproxify_job_total", 1, lbls)
	backend.ObserveDuration("lyproxify_job_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a row-level counter for the given dataset and kind.
//
// Typical kinds mirror the transform stats:
//   - "in"
//   - "excluded"
//   - "out"
//   - "stored"
func RecordRows(dataset, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("lyproxify_rows_total", float64(delta), Labels{
		"dataset": dataset,
		"kind":    kind,
	})
}

// RecordIssues counts validation findings per severity.
func RecordIssues(dataset, severity string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("lyproxify_validation_issues_total", float64(delta), Labels{
		"dataset":  dataset,
		"severity": severity,
	})
}

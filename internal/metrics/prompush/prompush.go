// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by:
//
//   - Using client_golang CounterVec and SummaryVec collectors.
//   - Mapping the common labels (dataset, status, kind, severity) onto
//     Prometheus labels.
//   - Pushing collected metrics to a Prometheus Pushgateway instance instead
//     of exposing an HTTP scrape endpoint, since lyproxify runs are batch
//     jobs with no long-lived process to scrape.
//
// All Prometheus-specific dependencies stay in this package so the rest of
// the project can swap backends without changes.
package prompush

import (
	"fmt"

	"lyproxify/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	jobCounter   *prometheus.CounterVec // "lyproxify_job_total"
	jobDuration  *prometheus.SummaryVec // "lyproxify_job_duration_seconds"
	rowCounter   *prometheus.CounterVec // "lyproxify_rows_total"
	issueCounter *prometheus.CounterVec // "lyproxify_validation_issues_total"
}

// NewBackend constructs a Prometheus Pushgateway backend.
// jobName is the Pushgateway "job" grouping; gatewayURL the server base URL.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "lyproxify"
	}

	reg := prometheus.NewRegistry()

	jobCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyproxify_job_total",
			Help: "Total number of dataset transformations, partitioned by dataset and status.",
		},
		[]string{"dataset", "status"},
	)
	jobDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "lyproxify_job_duration_seconds",
			Help:       "Duration of dataset transformations in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"dataset", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyproxify_rows_total",
			Help: "Row-level counts per dataset and kind (in, excluded, out, stored).",
		},
		[]string{"dataset", "kind"},
	)
	issueCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lyproxify_validation_issues_total",
			Help: "Validation findings per dataset and severity.",
		},
		[]string{"dataset", "severity"},
	)

	for name, c := range map[string]prometheus.Collector{
		"job counter":   jobCounter,
		"job duration":  jobDuration,
		"row counter":   rowCounter,
		"issue counter": issueCounter,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		jobCounter:   jobCounter,
		jobDuration:  jobDuration,
		rowCounter:   rowCounter,
		issueCounter: issueCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "lyproxify_job_total":
		if b.jobCounter == nil {
			return
		}
		b.jobCounter.WithLabelValues(labels["dataset"], labels["status"]).Add(delta)

	case "lyproxify_rows_total":
		if b.rowCounter == nil {
			return
		}
		b.rowCounter.WithLabelValues(labels["dataset"], labels["kind"]).Add(delta)

	case "lyproxify_validation_issues_total":
		if b.issueCounter == nil {
			return
		}
		b.issueCounter.WithLabelValues(labels["dataset"], labels["severity"]).Add(delta)

	default:
		// unknown metric name: ignore
	}
}

func (b *Backend) ObserveDuration(name string, value float64, labels metrics.Labels) {
	if name != "lyproxify_job_duration_seconds" || b.jobDuration == nil {
		return
	}
	b.jobDuration.WithLabelValues(labels["dataset"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}

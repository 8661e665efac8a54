package datadog

import (
	"reflect"
	"sort"
	"testing"

	"lyproxify/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("missing Addr should error")
	}

	// DogStatsD is UDP, so constructing against an unused local port works
	// without a running agent.
	b, err := NewBackend(Config{
		Addr:       "127.0.0.1:8125",
		Namespace:  "lyproxify.",
		GlobalTags: []string{"env:test"},
	})
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	if b.client == nil {
		t.Fatal("backend has no client")
	}

	b.IncCounter("lyproxify_job_total", 1, metrics.Labels{"dataset": "d", "status": "success"})
	b.ObserveDuration("lyproxify_job_duration_seconds", 0.5, metrics.Labels{"dataset": "d"})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	b := &Backend{} // zero value, nil client
	b.IncCounter("lyproxify_job_total", 1, metrics.Labels{})
	b.ObserveDuration("lyproxify_job_duration_seconds", 1, metrics.Labels{})
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() on nil client error = %v", err)
	}
}

func TestLabelsToTags(t *testing.T) {
	if got := labelsToTags(nil); got != nil {
		t.Fatalf("labelsToTags(nil) = %v, want nil", got)
	}
	got := labelsToTags(metrics.Labels{"dataset": "d", "kind": "out"})
	sort.Strings(got)
	want := []string{"dataset:d", "kind:out"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("labelsToTags = %v, want %v", got, want)
	}
}

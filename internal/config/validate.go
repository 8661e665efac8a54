package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced but may not
	// block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Run. Path is a dotted
// path into the config (e.g. "jobs[1].dataset").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where that is convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation of a Run. It does not mutate the run;
// callers decide whether warnings are fatal. Dataset names are checked for
// presence only, since the registry lives a layer above this package.
func Validate(r Run) []Issue {
	var issues []Issue

	if len(r.Jobs) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "jobs",
			Message:  "at least one job is required",
		})
	}
	for i, j := range r.Jobs {
		path := func(field string) string { return fmt.Sprintf("jobs[%d].%s", i, field) }
		if strings.TrimSpace(j.Dataset) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: path("dataset"),
				Message: "dataset must not be empty"})
		}
		if strings.TrimSpace(j.Raw) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: path("raw"),
				Message: "raw input path must not be empty"})
		}
		if strings.TrimSpace(j.Out) == "" && r.Storage.Kind == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: path("out"),
				Message: "job has neither an output path nor a storage sink"})
		}
		if len([]rune(j.Comma)) > 1 {
			issues = append(issues, Issue{Severity: SeverityError, Path: path("comma"),
				Message: fmt.Sprintf("delimiter %q must be a single character", j.Comma)})
		}
	}

	issues = append(issues, validateStorage(r.Storage)...)
	issues = append(issues, validateMetrics(r.Metrics)...)
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if s.Kind == "" {
		return nil
	}
	known := map[string]struct{}{"postgres": {}, "sqlite": {}}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: "storage.kind",
			Message: fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind)})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "storage.dsn",
			Message: "storage.dsn must not be empty"})
	}
	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "storage.table",
			Message: "storage.table must not be empty"})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "", "nop":
	case "prompush":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: "metrics.pushgateway_url",
				Message: "prompush backend requires a pushgateway URL"})
		}
	case "datadog":
		if strings.TrimSpace(m.StatsdAddr) == "" {
			issues = append(issues, Issue{Severity: SeverityError, Path: "metrics.statsd_addr",
				Message: "datadog backend requires a statsd address"})
		}
	default:
		issues = append(issues, Issue{Severity: SeverityWarning, Path: "metrics.backend",
			Message: fmt.Sprintf("unknown metrics backend %q", m.Backend)})
	}
	return issues
}

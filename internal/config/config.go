// Package config defines the JSON-serializable run configuration for the
// lyproxify CLI. It is intentionally small and decoded with the standard
// library; a run file names the datasets to transform plus the optional
// storage sink and metrics backend shared by all jobs.
//
// Example:
//
//	{
//	  "jobs": [
//	    { "dataset": "2025-umcg-surgery", "raw": "raw_surgery.csv", "out": "data_surgery.csv" }
//	  ],
//	  "storage": { "kind": "postgres", "dsn": "postgresql://...", "table": "public.lydata" },
//	  "metrics": { "backend": "prompush", "pushgateway_url": "http://localhost:9091" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Run is the top-level object decoded from a run file.
type Run struct {
	// Jobs lists the dataset transformations to perform.
	Jobs []Job `json:"jobs"`

	// Storage optionally configures a database sink receiving every job's
	// canonical table in addition to its CSV output.
	Storage Storage `json:"storage"`

	// Metrics optionally configures the metrics backend.
	Metrics Metrics `json:"metrics"`
}

// Job transforms one raw export into one canonical table.
type Job struct {
	// Dataset is a registered dataset name, e.g. "2025-umcg-surgery".
	Dataset string `json:"dataset"`

	// Raw is the path of the raw CSV export.
	Raw string `json:"raw"`

	// Out is the path the canonical CSV is written to.
	Out string `json:"out"`

	// Comma overrides the raw CSV delimiter (single character).
	Comma string `json:"comma"`

	// Validate runs the canonical-schema validator on the result.
	Validate bool `json:"validate"`
}

// Storage configures the optional database sink.
type Storage struct {
	// Kind selects the backend: "postgres" or "sqlite". Empty disables the sink.
	Kind string `json:"kind"`

	// DSN is the backend connection string (pgxpool DSN or sqlite file path).
	DSN string `json:"dsn"`

	// Table is the destination table; each job appends its rows with the
	// dataset name as discriminator. The table is created from the first
	// job's column set, so all jobs sharing it must map to the same
	// canonical columns. Datasets with different columns need separate
	// tables and therefore separate run files.
	Table string `json:"table"`
}

// Metrics configures the optional metrics backend.
type Metrics struct {
	// Backend selects the implementation: "prompush" or "datadog". Empty
	// disables metrics (a nop backend is used).
	Backend string `json:"backend"`

	// PushgatewayURL is the Prometheus pushgateway endpoint (prompush).
	PushgatewayURL string `json:"pushgateway_url"`

	// StatsdAddr is the dogstatsd address (datadog), e.g. "127.0.0.1:8125".
	StatsdAddr string `json:"statsd_addr"`

	// Job labels the pushed metrics; defaults to "lyproxify".
	Job string `json:"job"`
}

// Load reads and decodes a run file.
func Load(path string) (Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Run{}, fmt.Errorf("read config: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return Run{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return r, nil
}

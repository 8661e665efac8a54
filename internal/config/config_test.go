package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	body := `{
		"jobs": [
			{ "dataset": "2025-umcg-surgery", "raw": "raw.csv", "out": "data.csv", "validate": true }
		],
		"storage": { "kind": "sqlite", "dsn": "lydata.db", "table": "lydata" },
		"metrics": { "backend": "prompush", "pushgateway_url": "http://localhost:9091" }
	}`
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Jobs) != 1 || r.Jobs[0].Dataset != "2025-umcg-surgery" || !r.Jobs[0].Validate {
		t.Fatalf("unexpected jobs: %+v", r.Jobs)
	}
	if r.Storage.Kind != "sqlite" || r.Metrics.Backend != "prompush" {
		t.Fatalf("unexpected storage/metrics: %+v / %+v", r.Storage, r.Metrics)
	}
	if issues := Validate(r); len(issues) != 0 {
		t.Fatalf("valid run reported issues: %v", issues)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func hasError(issues []Issue, path string) bool {
	for _, i := range issues {
		if i.Severity == SeverityError && i.Path == path {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	if !hasError(Validate(Run{}), "jobs") {
		t.Error("empty run should require jobs")
	}

	r := Run{Jobs: []Job{{Dataset: "", Raw: "", Out: ""}}}
	issues := Validate(r)
	for _, p := range []string{"jobs[0].dataset", "jobs[0].raw", "jobs[0].out"} {
		if !hasError(issues, p) {
			t.Errorf("expected error at %s, got %v", p, issues)
		}
	}

	r = Run{
		Jobs:    []Job{{Dataset: "d", Raw: "r.csv", Comma: ";;"}},
		Storage: Storage{Kind: "postgres"},
	}
	issues = Validate(r)
	for _, p := range []string{"jobs[0].comma", "storage.dsn", "storage.table"} {
		if !hasError(issues, p) {
			t.Errorf("expected error at %s, got %v", p, issues)
		}
	}

	issues = Validate(Run{Jobs: []Job{{Dataset: "d", Raw: "r", Out: "o"}},
		Metrics: Metrics{Backend: "prompush"}})
	if !hasError(issues, "metrics.pushgateway_url") {
		t.Errorf("prompush without URL should error, got %v", issues)
	}
}

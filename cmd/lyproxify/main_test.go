package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestResolveRunSingleJob(t *testing.T) {
	run, err := resolveRun("", "2025-umcg-surgery", "raw.csv", "out.csv", ";", true,
		"sqlite", "lydata.db", "canonical", "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(run.Jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(run.Jobs))
	}
	j := run.Jobs[0]
	if j.Dataset != "2025-umcg-surgery" || j.Raw != "raw.csv" || j.Out != "out.csv" {
		t.Errorf("job = %+v", j)
	}
	if !j.Validate {
		t.Error("validate flag not propagated")
	}
	if j.Comma != ";" {
		t.Errorf("comma = %q, want ;", j.Comma)
	}
	if run.Storage.Kind != "sqlite" || run.Storage.DSN != "lydata.db" || run.Storage.Table != "canonical" {
		t.Errorf("storage = %+v", run.Storage)
	}
}

func TestResolveRunRejectsMixedModes(t *testing.T) {
	if _, err := resolveRun("run.json", "x", "", "", "", false,
		"", "", "", "", "", "", ""); err == nil {
		t.Error("config plus dataset flags should error")
	}
	if _, err := resolveRun("", "", "", "", "", false,
		"", "", "", "", "", "", ""); err == nil {
		t.Error("neither config nor dataset flags should error")
	}
}

func TestCommaRune(t *testing.T) {
	cases := []struct {
		override string
		fallback rune
		want     rune
	}{
		{";", ',', ';'},
		{"", ';', ';'},
		{"", 0, 0},
		{"\t", ',', '\t'},
	}
	for _, c := range cases {
		if got := commaRune(c.override, c.fallback); got != c.want {
			t.Errorf("commaRune(%q, %q) = %q, want %q", c.override, c.fallback, got, c.want)
		}
	}
}

func TestPrintDocs(t *testing.T) {
	var buf bytes.Buffer
	if err := printDocs(&buf, "2025-umcg-radiotherapy"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"2025-umcg-radiotherapy",
		"patient",
		"t_stage",
		"<- ", // at least one leaf shows its source columns
	} {
		if !strings.Contains(out, want) {
			t.Errorf("docs output missing %q:\n%s", want, out)
		}
	}
	if err := printDocs(&buf, "no-such-dataset"); err == nil {
		t.Error("unknown dataset should error")
	}
}

package lytable

import (
	"bytes"
	"strings"
	"testing"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl := New([]Column{
		{Path: Path{"patient", "core", "id"}},
		{Path: Path{"patient", "core", "age"}},
		{Path: Path{"patient", "core", "hpv_status"}},
		{Path: Path{"diagnostic_consensus", "ipsi", "II"}},
	})
	if err := tbl.Append([]any{"P0001", 61, true, false}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Append([]any{"P0002", -1, nil, nil}); err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleTable(t).WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"patient,patient,patient,diagnostic_consensus",
		"core,core,core,ipsi",
		"id,age,hpv_status,II",
		"P0001,61,1,0",
		"P0002,-1,,",
	}, "\n") + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("csv output mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{true, "1"},
		{false, "0"},
		{42, "42"},
		{-1, "-1"},
		{"2020-01-15", "2020-01-15"},
	}
	for _, c := range cases {
		got, err := FormatValue(c.in)
		if err != nil {
			t.Fatalf("FormatValue(%#v): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", c.in, got, c.want)
		}
	}
	if _, err := FormatValue(struct{}{}); err == nil {
		t.Error("FormatValue on unsupported type should error")
	}
}

func TestAppendWidthMismatch(t *testing.T) {
	tbl := New([]Column{{Path: Path{"patient", "core", "id"}}})
	if err := tbl.Append([]any{"a", "b"}); err == nil {
		t.Fatal("Append with wrong width should error")
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a, err := sampleTable(t).Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	b, err := sampleTable(t).Fingerprint()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("fingerprints differ: %x vs %x", a, b)
	}
}

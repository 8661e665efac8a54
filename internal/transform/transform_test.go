package transform

import (
	"errors"
	"testing"

	"lyproxify/internal/convert"
	"lyproxify/internal/lytable"
	"lyproxify/internal/mapping"
	"lyproxify/pkg/records"
)

func buildTree(ids *IDSequence) mapping.Tree {
	return mapping.Tree{
		mapping.Group{Segment: "patient", Children: []mapping.Node{
			mapping.Group{Segment: "core", Children: []mapping.Node{
				mapping.Leaf{Segment: "id", Fn: ids.Leaf()},
				mapping.Leaf{Segment: "age", Columns: []string{"age"}, Fn: convert.Age},
				mapping.Const{Segment: "institution", Value: "Test Center"},
			}},
			mapping.Group{Segment: "followup", Children: []mapping.Node{
				mapping.Leaf{Segment: "recurrence_date",
					Columns: []string{"rec_flag", "rec_date"}, Fn: convert.RecurrenceDate},
			}},
		}},
	}
}

func testHeader() []string { return []string{"age", "consent", "rec_flag", "rec_date"} }

func testRows() []records.Record {
	return []records.Record{
		{"age": "61", "consent": "1", "rec_flag": "1", "rec_date": "2021-03-04"},
		{"age": "nan", "consent": "1", "rec_flag": "0", "rec_date": nil},
		{"age": "70", "consent": "0", "rec_flag": "0", "rec_date": nil},
	}
}

func consentRule() ExcludeRule {
	return ExcludeRule{Column: "consent", Drop: func(v any) bool {
		n, ok := convert.AsInt(v)
		return !ok || n == 0
	}}
}

func TestRun(t *testing.T) {
	ids := NewIDSequence("T", 1)
	table, stats, err := Run(buildTree(ids), []ExcludeRule{consentRule()}, testHeader(), testRows())
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsIn != 3 || stats.Excluded != 1 || stats.RowsOut != 2 {
		t.Fatalf("stats = %+v, want {3 1 2}", stats)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}

	idCol := table.ColumnIndex(lytable.Path{Top: "patient", Mid: "core", Leaf: "id"})
	ageCol := table.ColumnIndex(lytable.Path{Top: "patient", Mid: "core", Leaf: "age"})
	instCol := table.ColumnIndex(lytable.Path{Top: "patient", Mid: "core", Leaf: "institution"})
	recCol := table.ColumnIndex(lytable.Path{Top: "patient", Mid: "followup", Leaf: "recurrence_date"})

	if got := table.Rows[0][idCol]; got != "T0001" {
		t.Errorf("row 0 id = %v, want T0001", got)
	}
	if got := table.Rows[1][idCol]; got != "T0002" {
		t.Errorf("row 1 id = %v, want T0002", got)
	}
	if got := table.Rows[0][ageCol]; got != 61 {
		t.Errorf("row 0 age = %v, want 61", got)
	}
	if got := table.Rows[1][ageCol]; got != -1 {
		t.Errorf("row 1 age = %v, want -1 sentinel", got)
	}
	if got := table.Rows[0][instCol]; got != "Test Center" {
		t.Errorf("row 0 institution = %v", got)
	}
	if got := table.Rows[0][recCol]; got != "2021-03-04" {
		t.Errorf("row 0 recurrence_date = %v, want 2021-03-04", got)
	}
	if got := table.Rows[1][recCol]; got != nil {
		t.Errorf("row 1 recurrence_date = %v, want nil", got)
	}
}

func TestRunExcludesNothingWithoutRules(t *testing.T) {
	ids := NewIDSequence("T", 1)
	_, stats, err := Run(buildTree(ids), nil, testHeader(), testRows())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Excluded != 0 || stats.RowsOut != 3 {
		t.Fatalf("stats = %+v, want no exclusions", stats)
	}
}

func TestRunExcludesEverything(t *testing.T) {
	ids := NewIDSequence("T", 1)
	all := ExcludeRule{Column: "consent", Drop: func(any) bool { return true }}
	table, stats, err := Run(buildTree(ids), []ExcludeRule{all}, testHeader(), testRows())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Excluded != 3 || stats.RowsOut != 0 {
		t.Fatalf("stats = %+v, want all rows excluded", stats)
	}
	if len(table.Rows) != 0 {
		t.Fatalf("got %d rows, want empty table", len(table.Rows))
	}
}

func TestRunIntegrityErrorAbortsRun(t *testing.T) {
	rows := []records.Record{
		{"age": "50", "consent": "1", "rec_flag": "0", "rec_date": nil},
		{"age": "55", "consent": "1", "rec_flag": "1", "rec_date": nil}, // contradiction
	}
	ids := NewIDSequence("T", 1)
	_, _, err := Run(buildTree(ids), nil, testHeader(), rows)
	if err == nil {
		t.Fatal("expected integrity error")
	}
	if !errors.Is(err, convert.ErrIntegrity) {
		t.Fatalf("error should wrap ErrIntegrity, got %v", err)
	}
	var re *RowError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RowError, got %T", err)
	}
	if re.Index != 1 {
		t.Errorf("RowError.Index = %d, want 1", re.Index)
	}
	want := lytable.Path{Top: "patient", Mid: "followup", Leaf: "recurrence_date"}
	if re.Path != want {
		t.Errorf("RowError.Path = %s, want %s", re.Path, want)
	}
}

func TestRunRejectsUnknownRuleColumn(t *testing.T) {
	ids := NewIDSequence("T", 1)
	rule := ExcludeRule{Column: "missing", Drop: func(any) bool { return false }}
	_, _, err := Run(buildTree(ids), []ExcludeRule{rule}, testHeader(), testRows())
	if err == nil {
		t.Fatal("expected error for rule on unknown column")
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() uint64 {
		ids := NewIDSequence("T", 1)
		table, _, err := Run(buildTree(ids), []ExcludeRule{consentRule()}, testHeader(), testRows())
		if err != nil {
			t.Fatal(err)
		}
		fp, err := table.Fingerprint()
		if err != nil {
			t.Fatal(err)
		}
		return fp
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("two identical runs fingerprint differently: %x vs %x", a, b)
	}
}

func TestIDSequence(t *testing.T) {
	ids := NewIDSequence("2025-umcg-", 42)
	if got := ids.Next(); got != "2025-umcg-0042" {
		t.Errorf("Next() = %q, want 2025-umcg-0042", got)
	}
	if got := ids.Next(); got != "2025-umcg-0043" {
		t.Errorf("Next() = %q, want 2025-umcg-0043", got)
	}
	leaf := ids.Leaf()
	if leaf.Arity != 0 {
		t.Errorf("Leaf arity = %d, want 0", leaf.Arity)
	}
	v, err := leaf.Apply()
	if err != nil {
		t.Fatal(err)
	}
	if v != "2025-umcg-0044" {
		t.Errorf("Leaf apply = %v, want 2025-umcg-0044", v)
	}
}

// Package transform executes a mapping tree over parsed raw rows, producing
// the canonical table. It owns the run-level mechanics around the tree:
// exclusion rules, patient ID sequencing and per-row error reporting.
package transform

import (
	"fmt"

	"lyproxify/internal/lytable"
	"lyproxify/internal/mapping"
	"lyproxify/pkg/records"
)

// ExcludeRule drops raw rows before transformation. Drop receives the raw
// cell of Column and returns true when the row must be excluded, e.g.
// patients withdrawing consent or tumors outside the dataset's subsite.
type ExcludeRule struct {
	Column string
	Drop   func(v any) bool
}

// RowError reports a row-fatal conversion failure: the 0-based raw row
// index, the output column being computed and the underlying cause.
type RowError struct {
	Index int
	Path  lytable.Path
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Index, e.Path, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Stats summarizes one run for logging and metrics.
type Stats struct {
	RowsIn   int
	Excluded int
	RowsOut  int
}

// Run applies the tree to every raw row that survives the exclusion rules
// and returns the canonical table. The tree must already be structurally
// valid for the raw header; Run re-checks both so callers cannot skip it.
//
// Conversion primitives degrade to nil on bad input, so Run only fails on
// specification errors or on the row-fatal primitives (data-integrity
// contradictions, dates that never parse). Any such failure aborts the whole
// run: a canonical table with silently missing rows is worse than no table.
func Run(tree mapping.Tree, rules []ExcludeRule, header []string, rows []records.Record) (*lytable.Table, Stats, error) {
	stats := Stats{RowsIn: len(rows)}

	bindings, err := tree.Bindings()
	if err != nil {
		return nil, stats, err
	}
	if err := tree.Bind(header); err != nil {
		return nil, stats, err
	}
	known := make(map[string]bool, len(header))
	for _, h := range header {
		known[h] = true
	}
	for _, r := range rules {
		if !known[r.Column] {
			return nil, stats, fmt.Errorf("exclusion rule references unknown raw column %q", r.Column)
		}
	}

	cols := make([]lytable.Column, len(bindings))
	for i, b := range bindings {
		cols[i] = lytable.Column{Path: b.Path, Doc: b.Doc}
	}
	table := lytable.New(cols)

	args := make([]any, 0, 8)
rowLoop:
	for _, rec := range rows {
		for _, r := range rules {
			if r.Drop(rec.Get(r.Column)) {
				stats.Excluded++
				continue rowLoop
			}
		}

		row := make([]any, len(bindings))
		for i, b := range bindings {
			if b.Constant {
				row[i] = b.Value
				continue
			}
			args = args[:0]
			for _, col := range b.Columns {
				args = append(args, rec.Get(col))
			}
			v, err := b.Fn.Apply(args...)
			if err != nil {
				return nil, stats, &RowError{Index: stats.Excluded + stats.RowsOut, Path: b.Path, Err: err}
			}
			row[i] = v
		}
		if err := table.Append(row); err != nil {
			return nil, stats, err
		}
		stats.RowsOut++
	}

	return table, stats, nil
}

// Package lytable models the canonical ("lyproxified") table: a fixed
// three-level column schema and typed rows, plus the CSV serialization that
// downstream validators and pooled analysis depend on byte-for-byte.
package lytable

import (
	"fmt"
	"strconv"
)

// Path identifies one canonical column by its three header levels, e.g.
// {patient core age} or {diagnostic_consensus ipsi II}.
type Path struct {
	Top  string
	Mid  string
	Leaf string
}

// String renders the dotted form used in error messages and docs output.
func (p Path) String() string {
	return p.Top + "." + p.Mid + "." + p.Leaf
}

// Column is one canonical column: its path plus the documentation string
// carried over from the mapping specification.
type Column struct {
	Path Path
	Doc  string
}

// Table is one canonical dataset: columns in mapping traversal order and one
// row per surviving patient. Cell values are int, bool, string or nil.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// New builds an empty table over the given columns.
func New(cols []Column) *Table {
	return &Table{Columns: cols}
}

// Append adds one canonical row. The row length must match the column count;
// the transformer guarantees this, so a mismatch is a programming error.
func (t *Table) Append(row []any) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// ColumnIndex returns the position of the column with the given path, or -1.
func (t *Table) ColumnIndex(p Path) int {
	for i, c := range t.Columns {
		if c.Path == p {
			return i
		}
	}
	return -1
}

// FormatValue serializes one cell using the CSV conventions: integers as
// plain digits, booleans as 0/1, nil as the empty field, strings (dates,
// category codes, free text) as-is.
func FormatValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case bool:
		if x {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case string:
		return x, nil
	default:
		return "", fmt.Errorf("unsupported canonical value type %T", v)
	}
}

// Package storage defines the sink abstraction for persisting canonical
// tables into a database, alongside a small registry so backends can be
// selected by name from configuration. Concrete backends live in
// subpackages (postgres, sqlite) and register themselves at init time.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lyproxify/internal/lytable"
)

// Config carries the backend-agnostic sink settings.
type Config struct {
	// DSN is the backend connection string.
	DSN string

	// Table is the destination table. Backends create it when absent,
	// using the column set of the first table stored; later stores into
	// the same table must carry identical columns.
	Table string
}

// Sink persists canonical tables. Store appends the table's rows under the
// given dataset name and returns the number of rows written.
type Sink interface {
	Store(ctx context.Context, dataset string, t *lytable.Table) (int64, error)
	Close() error
}

// Factory opens a Sink for a Config.
type Factory func(ctx context.Context, cfg Config) (Sink, error)

var factories = map[string]Factory{}

// Register adds a backend under kind. Duplicate registration is a programmer
// error and panics at init time.
func Register(kind string, f Factory) {
	if kind == "" || f == nil {
		panic("storage: Register with empty kind or nil factory")
	}
	if _, dup := factories[kind]; dup {
		panic("storage: duplicate registration of " + kind)
	}
	factories[kind] = f
}

// Open constructs the Sink registered under kind.
func Open(ctx context.Context, kind string, cfg Config) (Sink, error) {
	f, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown storage kind %q (have %v)", kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backend names, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ColumnNames flattens the three-level header into SQL identifiers of the
// form top_mid_leaf, lowercased, prefixed by the dataset discriminator
// column. Both backends derive their DDL and insert lists from this.
func ColumnNames(t *lytable.Table) []string {
	names := make([]string, 0, len(t.Columns)+1)
	names = append(names, "dataset")
	for _, c := range t.Columns {
		name := strings.ToLower(c.Path.Top + "_" + c.Path.Mid + "_" + c.Path.Leaf)
		names = append(names, name)
	}
	return names
}

// RowValues serializes one canonical row for insertion: the dataset
// discriminator followed by the row's cells in CSV text form, with nil kept
// as SQL NULL. Text form keeps both backends bit-identical with the CSV
// output.
func RowValues(dataset string, t *lytable.Table, row []any) ([]any, error) {
	vals := make([]any, 0, len(row)+1)
	vals = append(vals, dataset)
	for i, v := range row {
		if v == nil {
			vals = append(vals, nil)
			continue
		}
		s, err := lytable.FormatValue(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", t.Columns[i].Path, err)
		}
		vals = append(vals, s)
	}
	return vals, nil
}

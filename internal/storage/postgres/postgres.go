// Package postgres implements a Postgres storage.Sink using pgx v5. Rows go
// in through COPY, which is the fast path for the append-only write pattern
// of canonical tables.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"lyproxify/internal/lytable"
	"lyproxify/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		return New(ctx, cfg)
	})
}

// Sink is a Postgres-backed implementation of storage.Sink.
type Sink struct {
	pool *pgxpool.Pool
	cfg  storage.Config
}

// New connects a pool for the configured DSN.
func New(ctx context.Context, cfg storage.Config) (*Sink, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Sink{pool: pool, cfg: cfg}, nil
}

// Store creates the destination table when missing and COPYs the canonical
// rows into it.
func (s *Sink) Store(ctx context.Context, dataset string, t *lytable.Table) (int64, error) {
	cols := storage.ColumnNames(t)

	if err := s.ensureTable(ctx, cols); err != nil {
		return 0, err
	}

	rows := make([][]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		vals, err := storage.RowValues(dataset, t, row)
		if err != nil {
			return 0, err
		}
		rows = append(rows, vals)
	}

	n, err := s.pool.CopyFrom(ctx,
		tableIdent(s.cfg.Table),
		cols,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", s.cfg.Table, err)
	}
	return n, nil
}

// Close releases the pool.
func (s *Sink) Close() error {
	s.pool.Close()
	return nil
}

func (s *Sink) ensureTable(ctx context.Context, cols []string) error {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = pgIdent(c) + " text"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgFQN(s.cfg.Table), strings.Join(defs, ", "))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure table %s: %w", s.cfg.Table, err)
	}
	return nil
}

// tableIdent splits a possibly schema-qualified name for pgx.CopyFrom.
func tableIdent(table string) pgx.Identifier {
	parts := strings.Split(table, ".")
	return pgx.Identifier(parts)
}

// pgIdent double-quotes a single identifier.
func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// pgFQN quotes a possibly schema-qualified table name part by part.
func pgFQN(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

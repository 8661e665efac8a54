// Package sqlite implements a SQLite storage.Sink using database/sql. SQLite
// has no bulk-load API like Postgres COPY, so rows go in as batched INSERTs
// inside one transaction, which keeps performance acceptable for the
// moderate volumes of clinical datasets.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"lyproxify/internal/lytable"
	"lyproxify/internal/storage"

	_ "modernc.org/sqlite"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
		return New(ctx, cfg)
	})
}

// Sink is a SQLite-backed implementation of storage.Sink.
type Sink struct {
	db  *sql.DB
	cfg storage.Config
}

// New opens the SQLite database named by the DSN, e.g. "lydata.db" or
// "file:lydata.db?cache=shared".
func New(ctx context.Context, cfg storage.Config) (*Sink, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Sink{db: db, cfg: cfg}, nil
}

// Store creates the destination table when missing and inserts the canonical
// rows inside one transaction.
func (s *Sink) Store(ctx context.Context, dataset string, t *lytable.Table) (int64, error) {
	cols := storage.ColumnNames(t)

	if err := s.ensureTable(ctx, cols); err != nil {
		return 0, err
	}

	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.cfg.Table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range t.Rows {
		vals, err := storage.RowValues(dataset, t, row)
		if err != nil {
			_ = tx.Rollback()
			return inserted, err
		}
		if _, err := stmt.ExecContext(ctx, vals...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Close closes the database handle.
func (s *Sink) Close() error { return s.db.Close() }

func (s *Sink) ensureTable(ctx context.Context, cols []string) error {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(s.cfg.Table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: ensure table %s: %w", s.cfg.Table, err)
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

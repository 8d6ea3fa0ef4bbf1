// Package ledger keeps a local SQLite history of exported transactions so
// repeated exports of overlapping pages accumulate without duplicates.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	file        TEXT NOT NULL,
	source      TEXT NOT NULL,
	exported_at TEXT NOT NULL,
	fragments   INTEGER NOT NULL,
	row_count   INTEGER NOT NULL,
	failures    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
	fingerprint          TEXT NOT NULL,
	occurrence           INTEGER NOT NULL,
	run_id               TEXT NOT NULL REFERENCES runs(id),
	position             INTEGER NOT NULL,
	raw_date             TEXT NOT NULL,
	date                 TEXT,
	description          TEXT NOT NULL,
	debit                TEXT,
	credit               TEXT,
	balance              TEXT,
	expanded_description TEXT NOT NULL,
	account              TEXT NOT NULL,
	check_number         TEXT NOT NULL,
	category             TEXT NOT NULL,
	expanded_amount      TEXT NOT NULL,
	memo                 TEXT NOT NULL,
	csv_row              TEXT NOT NULL,
	PRIMARY KEY (fingerprint, occurrence)
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`

// Open opens (creating if needed) the ledger database at path and applies
// the schema. Use ":memory:" for a throwaway ledger.
func Open(ctx context.Context, path string) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("ledger: %s: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

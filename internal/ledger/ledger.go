package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/achievascrape/internal/dateparse"
	"github.com/hyperifyio/achievascrape/internal/scrape"
)

// Ledger is an open transaction history.
type Ledger struct {
	db *sql.DB
}

// Run describes one export being recorded.
type Run struct {
	File       string
	Source     string
	ExportedAt time.Time
	Fragments  int
	Failures   int
}

// Summary reports what Append stored.
type Summary struct {
	RunID    string
	Inserted int
	// Duplicates counts records already present from an earlier run.
	Duplicates int
}

// Entry is a stored transaction.
type Entry struct {
	RunID    string
	Position int
	RawDate  string
	Date     string
	Row      string
}

func (l *Ledger) Close() error { return l.db.Close() }

// Fingerprint identifies a record by its exported row. Identical rows in one
// export are told apart by their occurrence number, so re-importing the
// same page adds nothing while two equal purchases on one day both stay.
func Fingerprint(r scrape.Record) string {
	h := sha256.Sum256([]byte(r.Row()))
	return hex.EncodeToString(h[:])
}

// Append records run and its records in one transaction.
func (l *Ledger) Append(ctx context.Context, run Run, records []scrape.Record) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("ledger: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, file, source, exported_at, fragments, row_count, failures) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, run.File, run.Source, run.ExportedAt.UTC().Format(time.RFC3339), run.Fragments, len(records), run.Failures,
	); err != nil {
		return sum, fmt.Errorf("ledger: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO transactions (
		fingerprint, occurrence, run_id, position, raw_date, date, description,
		debit, credit, balance, expanded_description, account, check_number,
		category, expanded_amount, memo, csv_row
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return sum, fmt.Errorf("ledger: prepare: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]int, len(records))
	for i, r := range records {
		fp := Fingerprint(r)
		seen[fp]++
		var date any
		if r.ParsedDate != nil {
			date = dateparse.FormatYMD(r.ParsedDate)
		}
		res, err := stmt.ExecContext(ctx,
			fp, seen[fp], sum.RunID, i, r.RawDate, date, r.Description,
			amount(r.Debit), amount(r.Credit), amount(r.Balance),
			r.ExpandedDescription, r.Account, r.CheckNumber, r.Category,
			r.ExpandedAmount, r.Memo, r.Row(),
		)
		if err != nil {
			return sum, fmt.Errorf("ledger: insert row %d: %w", i, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			sum.Inserted++
		} else {
			sum.Duplicates++
		}
	}
	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("ledger: commit: %w", err)
	}
	return sum, nil
}

// amount stores a parsed amount as a canonical decimal string, or NULL.
func amount(s string) any {
	d, ok := ParseAmount(s)
	if !ok {
		return nil
	}
	return d.StringFixed(2)
}

// Entries returns stored transactions ordered by date, oldest first, with
// undated entries last.
func (l *Ledger) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT run_id, position, raw_date, COALESCE(date, ''), csv_row
		FROM transactions ORDER BY date IS NULL, date, rowid`)
	if err != nil {
		return nil, fmt.Errorf("ledger: query: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.Position, &e.RawDate, &e.Date, &e.Row); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Runs reports how many exports have been recorded.
func (l *Ledger) Runs(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ledger: count runs: %w", err)
	}
	return n, nil
}

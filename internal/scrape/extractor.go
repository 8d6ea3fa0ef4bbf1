package scrape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/achievascrape/internal/dateparse"
	"github.com/hyperifyio/achievascrape/internal/textnorm"
)

// ErrNoSummary is the cause of a RowExtractionError for a position whose
// summary fragment could not be read at all.
var ErrNoSummary = errors.New("summary fragment missing")

// RowExtractionError reports that one grid position produced no record.
type RowExtractionError struct {
	Index int
	Err   error
}

func (e *RowExtractionError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

func (e *RowExtractionError) Unwrap() error { return e.Err }

// Pair is one grid position: the collapsed summary row and, when the row
// was expanded before the snapshot was taken, its detail panel.
type Pair struct {
	Index   int
	Summary Fragment
	Detail  Fragment
}

const dateLabel = "Date:"

// Extract builds the record for p. Missing or unreadable sub-fields become
// ""; only an unusable summary fragment is an error.
func Extract(p Pair, l Layout) (Record, error) {
	if p.Summary == nil {
		return Record{}, &RowExtractionError{Index: p.Index, Err: ErrNoSummary}
	}

	var r Record
	r.RawDate = rawDate(p.Summary, l.Date)
	if d, ok := dateparse.Parse(r.RawDate); ok {
		r.ParsedDate = &d
	}
	r.Description = field(p.Summary, l.Description)
	r.Debit = field(p.Summary, l.Debit)
	r.Credit = field(p.Summary, l.Credit)
	r.Balance = field(p.Summary, l.Balance)

	if p.Detail == nil {
		return r, nil
	}
	summary := find(p.Detail, l.DetailSummary)
	if summary == nil {
		return r, nil
	}
	r.ExpandedDescription = field(summary, l.ExpandedDescription)
	r.Account = field(summary, l.Account)
	r.CheckNumber = field(summary, l.CheckNumber)
	r.Category = field(summary, l.Category)
	r.ExpandedAmount = field(summary, l.ExpandedAmount)
	r.Memo = field(summary, l.Memo)
	return r, nil
}

// rawDate keeps the screen-reader date text verbatim apart from the label.
// It is not normalized.
func rawDate(f Fragment, sel string) string {
	s := strings.TrimSpace(text(find(f, sel)))
	return strings.TrimSpace(strings.TrimPrefix(s, dateLabel))
}

func field(f Fragment, sel string) string {
	return textnorm.Normalize(text(find(f, sel)))
}

// find and text absorb panics from the tree so a single bad sub-field
// cannot take the whole row down.
func find(f Fragment, sel string) (out Fragment) {
	if f == nil || sel == "" {
		return nil
	}
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return f.Find(sel)
}

func text(f Fragment) (out string) {
	if f == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()
	return f.Text()
}

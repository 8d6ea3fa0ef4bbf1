package scrape

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Batch is the result of one scan. It must not be modified after Scan
// returns it.
type Batch struct {
	// Fragments is the number of summary rows found in the grid.
	Fragments int
	// Rows holds one serialized CSV line per surviving record, in document
	// order.
	Rows []string
	// Records parallels Rows.
	Records []Record
	// Dates holds every date that parsed, in no particular order.
	Dates []time.Time
	// Failures lists the positions that produced no row. A non-empty list
	// means the export holds fewer rows than the grid shows.
	Failures []*RowExtractionError
}

// Result is the outcome of extracting a single grid position.
type Result struct {
	Index  int
	Record Record
	Err    *RowExtractionError
}

// Scanner walks the transaction grid of a document snapshot.
type Scanner struct {
	Layout Layout
	// Workers bounds concurrent extraction. Zero or one scans sequentially.
	// Output order is document order either way.
	Workers int
}

// NewScanner returns a sequential scanner for the default layout.
func NewScanner() *Scanner {
	return &Scanner{Layout: DefaultLayout(), Workers: 1}
}

// Scan extracts every transaction in t. The only error it returns is a
// failure to enumerate the grid; per-row problems end up in
// Batch.Failures.
func (s *Scanner) Scan(t TreeQuery) (*Batch, error) {
	rows, err := t.FindAllIn(s.Layout.Scope, s.Layout.Rows)
	if err != nil {
		return nil, fmt.Errorf("enumerate %q in %q: %w", s.Layout.Rows, s.Layout.Scope, err)
	}

	results := make([]Result, len(rows))
	if s.Workers <= 1 || len(rows) < 2 {
		for i, f := range rows {
			results[i] = s.scanOne(t, i, f)
		}
	} else {
		s.scanParallel(t, rows, results)
	}

	b := fold(results)
	log.Debug().Int("fragments", b.Fragments).Int("rows", len(b.Rows)).Int("failures", len(b.Failures)).Msg("scan complete")
	return b, nil
}

func (s *Scanner) scanParallel(t TreeQuery, rows []Fragment, results []Result) {
	limiter := make(chan struct{}, s.Workers)
	var wg sync.WaitGroup
	for i, f := range rows {
		wg.Add(1)
		limiter <- struct{}{}
		go func(i int, f Fragment) {
			defer wg.Done()
			defer func() { <-limiter }()
			results[i] = s.scanOne(t, i, f)
		}(i, f)
	}
	wg.Wait()
}

// scanOne is the isolation boundary for one grid position: pairing and
// extraction either yield a record or a RowExtractionError, never a panic.
func (s *Scanner) scanOne(t TreeQuery, i int, f Fragment) (res Result) {
	res.Index = i
	defer func() {
		if r := recover(); r != nil {
			res.Record = Record{}
			res.Err = &RowExtractionError{Index: i, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	p := Pair{Index: i, Summary: f}
	if f != nil {
		p.Detail = t.FindNextSiblingMatching(f, s.Layout.DetailShapes)
	}
	rec, err := Extract(p, s.Layout)
	if err != nil {
		var rerr *RowExtractionError
		if !errors.As(err, &rerr) {
			rerr = &RowExtractionError{Index: i, Err: err}
		}
		res.Err = rerr
		return res
	}
	res.Record = rec
	return res
}

// fold splits indexed results into rows and failures, keeping index order.
func fold(results []Result) *Batch {
	b := &Batch{Fragments: len(results)}
	for _, r := range results {
		if r.Err != nil {
			b.Failures = append(b.Failures, r.Err)
			continue
		}
		b.Rows = append(b.Rows, r.Record.Row())
		b.Records = append(b.Records, r.Record)
		if r.Record.ParsedDate != nil {
			b.Dates = append(b.Dates, *r.Record.ParsedDate)
		}
	}
	return b
}

package scrape_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/achievascrape/internal/dom"
	"github.com/hyperifyio/achievascrape/internal/scrape"
)

const grid = `<html><body>
<div id="transaction_grid_wrapper">
  <div class="transaction-details">
    <div class="date"><span class="screenreader-only">Date: June 2, 2020</span></div>
    <div class="description">  PUBLIX   SUPER
      MARKETS </div>
    <div class="amount trans-debit">$45.10</div>
    <div class="amount trans-credit"></div>
    <div class="balance">$1,000.00</div>
  </div>
  <div class="transaction-details">
    <div class="date"><span class="screenreader-only">Date: March 13, 2025</span></div>
    <div class="description">CHECK 1042</div>
    <div class="amount trans-debit">$120.00</div>
    <div class="balance">$880.00</div>
  </div>
  <div class="transaction-accordion-panel">
    <div class="summary">
      <div class="description">Check #1042 paid</div>
      <div class="account">Checking ...1234</div>
      <div class="check-number">1042</div>
      <div class="category">Groceries</div>
      <div class="amount">$120.00</div>
      <div class="transaction-memo">Transaction memo weekly shop</div>
    </div>
  </div>
  <div class="transaction-details">
    <div class="date"><span class="screenreader-only">Date: pending</span></div>
    <div class="description">ATM DEPOSIT</div>
    <div class="amount trans-credit">$200.00</div>
  </div>
</div>
</body></html>`

func scanHTML(t *testing.T, page string) *scrape.Batch {
	t.Helper()
	d, err := dom.Parse(strings.NewReader(page), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := scrape.NewScanner().Scan(d)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return b
}

func TestScan_ThreeRowsWithDetailAndMissingBalance(t *testing.T) {
	b := scanHTML(t, grid)
	if b.Fragments != 3 || len(b.Rows) != 3 || len(b.Failures) != 0 {
		t.Fatalf("fragments=%d rows=%d failures=%d", b.Fragments, len(b.Rows), len(b.Failures))
	}

	want := []string{
		`"June 2, 2020","PUBLIX SUPER MARKETS","$45.10","","$1,000.00","","","","","",""`,
		`"March 13, 2025","CHECK 1042","$120.00","","$880.00","Check #1042 paid","Checking ...1234","1042","Groceries","$120.00","weekly shop"`,
		`"pending","ATM DEPOSIT","","$200.00","","","","","","",""`,
	}
	for i := range want {
		if b.Rows[i] != want[i] {
			t.Fatalf("row %d:\n got %s\nwant %s", i, b.Rows[i], want[i])
		}
	}
	if b.Records[1].Category != "Groceries" {
		t.Fatalf("category %q", b.Records[1].Category)
	}
	if b.Records[2].Balance != "" {
		t.Fatalf("balance %q", b.Records[2].Balance)
	}
	if b.Records[2].ParsedDate != nil {
		t.Fatalf("unparseable date should leave ParsedDate nil")
	}
	if len(b.Dates) != 2 {
		t.Fatalf("expected 2 parsed dates, got %d", len(b.Dates))
	}
}

func TestScan_EmptyGrid(t *testing.T) {
	b := scanHTML(t, `<html><body><div id="transaction_grid_wrapper"></div></body></html>`)
	if b.Fragments != 0 || len(b.Rows) != 0 || len(b.Dates) != 0 || len(b.Failures) != 0 {
		t.Fatalf("expected empty batch, got %+v", b)
	}
}

func TestScan_Idempotent(t *testing.T) {
	d, err := dom.Parse(strings.NewReader(grid), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := scrape.NewScanner()
	a, _ := s.Scan(d)
	b, _ := s.Scan(d)
	if strings.Join(a.Rows, "\n") != strings.Join(b.Rows, "\n") {
		t.Fatalf("second scan differs")
	}
}

func TestScan_ParallelKeepsDocumentOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<div id="transaction_grid_wrapper">`)
	for i := 1; i <= 28; i++ {
		sb.WriteString(`<div class="transaction-details"><div class="date"><span class="screenreader-only">Date: February `)
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(`, 2024</span></div></div>`)
	}
	sb.WriteString(`</div>`)
	d, _ := dom.Parse(strings.NewReader(sb.String()), "")

	seq, _ := scrape.NewScanner().Scan(d)
	par, _ := (&scrape.Scanner{Layout: scrape.DefaultLayout(), Workers: 8}).Scan(d)
	if strings.Join(seq.Rows, "\n") != strings.Join(par.Rows, "\n") {
		t.Fatalf("parallel scan changed row order")
	}
	if !strings.HasPrefix(par.Rows[0], `"February 1, 2024"`) || !strings.HasPrefix(par.Rows[27], `"February 28, 2024"`) {
		t.Fatalf("unexpected order: %s ... %s", par.Rows[0], par.Rows[27])
	}
}

// fake tree used to exercise structural failures the HTML adapter cannot
// produce.
type fakeFrag struct {
	fields map[string]string
	panics bool
}

func (f *fakeFrag) Find(sel string) scrape.Fragment {
	if f.panics {
		panic("detached node")
	}
	v, ok := f.fields[sel]
	if !ok {
		return nil
	}
	return &fakeFrag{fields: map[string]string{"": v}}
}

func (f *fakeFrag) Text() string { return f.fields[""] }

type fakeTree struct {
	rows      []scrape.Fragment
	err       error
	panicNext map[int]bool
}

func (t *fakeTree) FindAllIn(scope, sel string) ([]scrape.Fragment, error) {
	return t.rows, t.err
}

func (t *fakeTree) FindNextSiblingMatching(f scrape.Fragment, shapes []string) scrape.Fragment {
	for i, r := range t.rows {
		if r == f && t.panicNext[i] {
			panic("sibling lookup failed")
		}
	}
	return nil
}

func row(date, desc string) *fakeFrag {
	return &fakeFrag{fields: map[string]string{
		".date .screenreader-only": "Date: " + date,
		".description":             desc,
	}}
}

func TestScan_FailuresProduceNoRow(t *testing.T) {
	tree := &fakeTree{
		rows: []scrape.Fragment{
			row("June 2, 2020", "A"),
			nil,
			row("June 3, 2020", "C"),
			row("June 4, 2020", "D"),
		},
		panicNext: map[int]bool{3: true},
	}
	b, err := scrape.NewScanner().Scan(tree)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(b.Rows) != b.Fragments-len(b.Failures) {
		t.Fatalf("rows=%d fragments=%d failures=%d", len(b.Rows), b.Fragments, len(b.Failures))
	}
	if len(b.Rows) != 2 || len(b.Failures) != 2 {
		t.Fatalf("expected 2 rows and 2 failures, got %d/%d", len(b.Rows), len(b.Failures))
	}
	if b.Failures[0].Index != 1 || !errors.Is(b.Failures[0], scrape.ErrNoSummary) {
		t.Fatalf("unexpected first failure: %v", b.Failures[0])
	}
	if b.Failures[1].Index != 3 {
		t.Fatalf("unexpected second failure: %v", b.Failures[1])
	}
	if !strings.HasPrefix(b.Rows[1], `"June 3, 2020","C"`) {
		t.Fatalf("surviving rows out of order: %v", b.Rows)
	}
	if len(b.Dates) != 2 {
		t.Fatalf("failed rows must not contribute dates, got %d", len(b.Dates))
	}
}

func TestScan_FieldPanicDegradesToEmpty(t *testing.T) {
	tree := &fakeTree{rows: []scrape.Fragment{&fakeFrag{panics: true}}}
	b, err := scrape.NewScanner().Scan(tree)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(b.Rows) != 1 || len(b.Failures) != 0 {
		t.Fatalf("expected a row of empty fields, got rows=%d failures=%d", len(b.Rows), len(b.Failures))
	}
	if b.Rows[0] != `"","","","","","","","","","",""` {
		t.Fatalf("row %s", b.Rows[0])
	}
}

func TestScan_EnumerationErrorIsFatal(t *testing.T) {
	boom := errors.New("grid gone")
	_, err := scrape.NewScanner().Scan(&fakeTree{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped enumeration error, got %v", err)
	}
}

func TestScan_DatesAreCalendarValues(t *testing.T) {
	b := scanHTML(t, grid)
	want := map[time.Time]bool{
		time.Date(2020, time.June, 2, 0, 0, 0, 0, time.UTC):   true,
		time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC): true,
	}
	for _, d := range b.Dates {
		if !want[d] {
			t.Fatalf("unexpected date %v", d)
		}
	}
}

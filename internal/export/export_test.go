package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/achievascrape/internal/scrape"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var runAt = time.Date(2025, time.March, 15, 20, 13, 14, 0, time.UTC)

func TestName_WithDates(t *testing.T) {
	b := &scrape.Batch{Dates: []time.Time{date(2024, time.July, 4), date(2025, time.March, 13), date(2020, time.June, 2)}}
	want := "achieva_full_2025-03-15_201314_2020-06-02_to_2025-03-13.csv"
	if got := Name(b, runAt); got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
}

func TestName_NoDates(t *testing.T) {
	want := "achieva_full_2025-03-15_201314_unknown_to_unknown.csv"
	if got := Name(&scrape.Batch{}, runAt); got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if got := Name(nil, runAt); got != want {
		t.Fatalf("Name(nil) = %q, want %q", got, want)
	}
}

func TestName_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2025, time.January, 1, 1, 2, 3, 0, time.UTC).In(loc)
	got := Name(&scrape.Batch{}, now)
	if !strings.HasPrefix(got, "achieva_full_2024-12-31_200203_") {
		t.Fatalf("Name = %q", got)
	}
}

func TestSerialize(t *testing.T) {
	if got := Serialize(&scrape.Batch{}); got != scrape.Header+"\n" {
		t.Fatalf("empty batch payload %q", got)
	}
	b := &scrape.Batch{Rows: []string{`"a","b"`, `"c","d"`}}
	want := scrape.Header + "\n" + `"a","b"` + "\n" + `"c","d"` + "\n"
	if got := Serialize(b); got != want {
		t.Fatalf("payload %q", got)
	}
}

func TestDirEmitter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	e := DirEmitter{Dir: dir}
	if err := e.Emit(context.Background(), []byte("x\n"), "achieva_full_a.csv"); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "achieva_full_a.csv"))
	if err != nil || string(got) != "x\n" {
		t.Fatalf("read back %q, %v", got, err)
	}
	if err := e.Emit(context.Background(), nil, "../escape.csv"); err == nil {
		t.Fatalf("expected path traversal to be rejected")
	}
}

func TestWriterEmitter(t *testing.T) {
	var buf bytes.Buffer
	if err := (WriterEmitter{W: &buf}).Emit(context.Background(), []byte("payload"), "ignored.csv"); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if buf.String() != "payload" {
		t.Fatalf("wrote %q", buf.String())
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (WriterEmitter{W: &buf}).Emit(ctx, []byte("late"), ""); err == nil {
		t.Fatalf("expected canceled context to stop emission")
	}
}

func TestWritePDF(t *testing.T) {
	d := date(2020, time.June, 2)
	b := &scrape.Batch{
		Records: []scrape.Record{
			{RawDate: "June 2, 2020", Description: strings.Repeat("VERY LONG MERCHANT NAME ", 10), Debit: "$1.00", ParsedDate: &d},
			{RawDate: "June 3, 2020", Description: "Café", Category: "Dining"},
		},
		Dates:    []time.Time{d},
		Failures: []*scrape.RowExtractionError{{Index: 2, Err: scrape.ErrNoSummary}},
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, b, "Achieva transactions"); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

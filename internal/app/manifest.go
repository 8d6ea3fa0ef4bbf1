package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/achievascrape/internal/dateparse"
	"github.com/hyperifyio/achievascrape/internal/export"
	"github.com/hyperifyio/achievascrape/internal/ledger"
	"github.com/hyperifyio/achievascrape/internal/scrape"
)

// manifestFailure describes a grid position that produced no row.
type manifestFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// manifest is the machine-readable sidecar of one export. It lets a later
// reconciliation spot undercounts without re-reading the CSV.
type manifest struct {
	File        string            `json:"file"`
	SHA256      string            `json:"sha256"`
	Bytes       int               `json:"bytes"`
	Source      string            `json:"source"`
	SourceTitle string            `json:"source_title,omitempty"`
	Fragments   int               `json:"fragments"`
	Rows        int               `json:"rows"`
	Earliest    string            `json:"earliest"`
	Latest      string            `json:"latest"`
	DebitTotal  string            `json:"debit_total"`
	CreditTotal string            `json:"credit_total"`
	Failures    []manifestFailure `json:"failures"`
	GeneratedAt time.Time         `json:"generated_at"`
	Version     string            `json:"version"`
	Commit      string            `json:"commit"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of the given text.
func computeSHA256Hex(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func buildManifest(file, payload string, src snapshot, title string, b *scrape.Batch, now time.Time) manifest {
	lo, hi := export.DateRange(b)
	m := manifest{
		File:        file,
		SHA256:      computeSHA256Hex(payload),
		Bytes:       len(payload),
		Source:      src.Source,
		SourceTitle: strings.TrimSpace(title),
		Fragments:   b.Fragments,
		Rows:        len(b.Rows),
		Earliest:    dateparse.FormatYMD(lo),
		Latest:      dateparse.FormatYMD(hi),
		Failures:    make([]manifestFailure, 0, len(b.Failures)),
		GeneratedAt: now.UTC(),
		Version:     BuildVersion,
		Commit:      BuildCommit,
	}
	var debits, credits []string
	for _, r := range b.Records {
		debits = append(debits, r.Debit)
		credits = append(credits, r.Credit)
	}
	dt, _ := ledger.Totals(debits)
	ct, _ := ledger.Totals(credits)
	m.DebitTotal = dt.StringFixed(2)
	m.CreditTotal = ct.StringFixed(2)
	for _, f := range b.Failures {
		m.Failures = append(m.Failures, manifestFailure{Index: f.Index, Error: f.Err.Error()})
	}
	return m
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the export.
func deriveManifestSidecarPath(exportPath string) string {
	return exportPath + ".manifest.json"
}

func writeManifest(path string, m manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

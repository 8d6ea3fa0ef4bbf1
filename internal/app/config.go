package app

import (
	"time"

	"github.com/hyperifyio/achievascrape/internal/scrape"
)

// Defaults shared by flag parsing and config overlays.
const (
	DefaultOutputDir = "."
	DefaultWorkers   = 1
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "achievascrape/1.0 (+https://github.com/hyperifyio/achievascrape)"
)

// Config holds runtime configuration for one export run.
type Config struct {
	// InputPath is a saved HTML file, "-" for stdin, or an http(s) URL.
	InputPath string
	// ContentType is the charset hint for file and stdin input, e.g.
	// "text/html; charset=windows-1252". URL input uses the response header.
	ContentType string

	OutputDir string
	// Stdout prints the CSV instead of writing it under OutputDir.
	Stdout bool
	// Manifest writes <export>.manifest.json next to the CSV.
	Manifest bool
	// PDF writes a printable statement next to the CSV.
	PDF bool
	// Ledger is an optional SQLite file that accumulates exported rows.
	Ledger string

	Workers   int
	Timeout   time.Duration
	UserAgent string
	Verbose   bool

	Layout scrape.Layout
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		OutputDir: DefaultOutputDir,
		Workers:   DefaultWorkers,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Layout:    scrape.DefaultLayout(),
	}
}

package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/achievascrape/internal/dom"
	"github.com/hyperifyio/achievascrape/internal/export"
	"github.com/hyperifyio/achievascrape/internal/ledger"
	"github.com/hyperifyio/achievascrape/internal/scrape"
)

var (
	// ErrNoSnapshot is returned when the page could not be read or parsed.
	ErrNoSnapshot = errors.New("document snapshot unavailable")
	// ErrGridUnreadable is returned when the transaction grid could not be
	// enumerated at all.
	ErrGridUnreadable = errors.New("transaction grid unreadable")
)

type App struct {
	cfg    Config
	now    func() time.Time
	stdin  io.Reader
	stdout io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithClock replaces time.Now as the source of the run timestamp.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithStdio replaces os.Stdin and os.Stdout.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.stdin = in
		a.stdout = out
	}
}

func New(cfg Config, opts ...Option) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, now: time.Now, stdin: os.Stdin, stdout: os.Stdout}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Result summarizes a finished run.
type Result struct {
	Filename string
	// Path is where the CSV was written; empty when printed to stdout.
	Path    string
	Payload string
	Batch   *scrape.Batch

	// LedgerRun is the ledger run id when a ledger is configured.
	LedgerRun string
}

func (a *App) Run(ctx context.Context) (*Result, error) {
	// Taken once so every artifact of the run shares the same timestamp.
	now := a.now()

	// 1) Acquire and parse the snapshot
	src, err := a.loadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}
	doc, err := dom.Parse(bytes.NewReader(src.Body), src.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSnapshot, err)
	}
	log.Debug().Str("source", src.Source).Int("bytes", len(src.Body)).Msg("snapshot loaded")

	// 2) Drop check images before anything reads the grid
	layout := a.cfg.Layout
	if layout.Images != "" {
		if n := doc.Strip(layout.Scope, layout.Images); n > 0 {
			log.Debug().Int("count", n).Msg("removed images from grid")
		}
	}

	// 3) Scan
	scanner := &scrape.Scanner{Layout: layout, Workers: a.cfg.Workers}
	batch, err := scanner.Scan(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGridUnreadable, err)
	}
	for _, f := range batch.Failures {
		log.Warn().Int("index", f.Index).Err(f.Err).Msg("skipped transaction")
	}
	if len(batch.Failures) == 0 {
		log.Debug().Msg("no errors encountered")
	}

	// 4) Name, serialize and hand off
	res := &Result{
		Filename: export.Name(batch, now),
		Payload:  export.Serialize(batch),
		Batch:    batch,
	}
	var emitter export.Emitter
	if a.cfg.Stdout {
		emitter = export.WriterEmitter{W: a.stdout}
	} else {
		de := export.DirEmitter{Dir: a.cfg.OutputDir}
		res.Path = de.Path(res.Filename)
		emitter = de
	}
	if err := emitter.Emit(ctx, []byte(res.Payload), res.Filename); err != nil {
		return res, fmt.Errorf("emit: %w", err)
	}

	// 5) Optional sidecars
	if err := a.writeSidecars(res, src, doc.Title(), now); err != nil {
		return res, err
	}

	// 6) Optional ledger
	if a.cfg.Ledger != "" {
		if err := a.recordLedger(ctx, res, src, now); err != nil {
			return res, err
		}
	}

	lo, hi := export.DateRange(batch)
	ev := log.Info().Str("file", res.Filename).Int("fragments", batch.Fragments).Int("rows", len(batch.Rows)).Int("failures", len(batch.Failures))
	if lo != nil {
		ev = ev.Time("earliest", *lo).Time("latest", *hi)
	}
	ev.Msg("export complete")
	if n := len(batch.Failures); n > 0 {
		log.Warn().Int("failures", n).Msg("export holds fewer rows than the grid shows")
	}
	return res, nil
}

func (a *App) writeSidecars(res *Result, src snapshot, title string, now time.Time) error {
	dir := a.cfg.OutputDir
	if strings.TrimSpace(dir) == "" {
		dir = DefaultOutputDir
	}
	base := filepath.Join(dir, res.Filename)

	if a.cfg.Manifest {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
		path := deriveManifestSidecarPath(base)
		if err := writeManifest(path, buildManifest(res.Filename, res.Payload, src, title, res.Batch, now)); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		log.Info().Str("out", path).Msg("wrote manifest")
	}

	if a.cfg.PDF {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
		path := strings.TrimSuffix(base, ".csv") + ".pdf"
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create pdf: %w", err)
		}
		heading := "Achieva transactions"
		if t := strings.TrimSpace(title); t != "" {
			heading += " - " + t
		}
		if err := export.WritePDF(f, res.Batch, heading); err != nil {
			_ = f.Close()
			return fmt.Errorf("write pdf: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close pdf: %w", err)
		}
		log.Info().Str("out", path).Msg("wrote pdf statement")
	}
	return nil
}

func (a *App) recordLedger(ctx context.Context, res *Result, src snapshot, now time.Time) error {
	l, err := ledger.Open(ctx, a.cfg.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()
	sum, err := l.Append(ctx, ledger.Run{
		File:       res.Filename,
		Source:     src.Source,
		ExportedAt: now,
		Fragments:  res.Batch.Fragments,
		Failures:   len(res.Batch.Failures),
	}, res.Batch.Records)
	if err != nil {
		return err
	}
	res.LedgerRun = sum.RunID
	log.Info().Str("ledger", a.cfg.Ledger).Str("run", sum.RunID).Int("inserted", sum.Inserted).Int("duplicates", sum.Duplicates).Msg("recorded in ledger")
	return nil
}

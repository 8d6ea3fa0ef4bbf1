package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const page = `<div id="transaction_grid_wrapper">
  <div class="transaction-details">
    <div class="date"><span class="screenreader-only">Date: June 2, 2020</span></div>
    <div class="description">PUBLIX</div>
    <div class="amount trans-debit">$45.10</div>
  </div>
</div>`

func TestParseFlags_Precedence(t *testing.T) {
	t.Setenv("ACHIEVA_OUT_DIR", "from-env")
	t.Setenv("ACHIEVA_WORKERS", "3")
	dir := t.TempDir()
	conf := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(conf, []byte("output:\n  dir: from-file\nworkers: 5\nfetch:\n  userAgent: file-ua\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := parseFlags([]string{"-env", "", "-config", conf, "-workers", "7", "page.html"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.InputPath != "page.html" {
		t.Fatalf("input %q", cfg.InputPath)
	}
	if cfg.Workers != 7 {
		t.Fatalf("flag should win, workers=%d", cfg.Workers)
	}
	if cfg.OutputDir != "from-env" {
		t.Fatalf("env should beat file, dir=%q", cfg.OutputDir)
	}
	if cfg.UserAgent != "file-ua" {
		t.Fatalf("file should beat default, ua=%q", cfg.UserAgent)
	}
}

func TestParseFlags_ExplicitDefaultsBeatEnvAndFile(t *testing.T) {
	t.Setenv("ACHIEVA_WORKERS", "4")
	t.Setenv("ACHIEVA_OUT_DIR", "envdir")
	t.Setenv("ACHIEVA_MANIFEST", "1")
	dir := t.TempDir()
	conf := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(conf, []byte("fetch:\n  timeout: 90s\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := parseFlags([]string{"-env", "", "-config", conf, "-workers", "1", "-out.dir", ".", "-manifest=false", "-timeout", "30s", "page.html"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if cfg.Workers != 1 || cfg.OutputDir != "." {
		t.Fatalf("workers=%d outdir=%q, want 1 and .", cfg.Workers, cfg.OutputDir)
	}
	if cfg.Manifest {
		t.Fatal("explicit -manifest=false overridden by env")
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("timeout=%v, want 30s", cfg.Timeout)
	}
}

func TestParseFlags_MissingInput(t *testing.T) {
	t.Setenv("ACHIEVA_INPUT", "")
	if _, err := parseFlags([]string{"-env", ""}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "history.html")
	if err := os.WriteFile(in, []byte(page), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := parseFlags([]string{"-env", "", "-input", in, "-out.dir", dir})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if code := run(context.Background(), cfg); code != 0 {
		t.Fatalf("exit code %d, want 0", code)
	}
	entries, _ := os.ReadDir(dir)
	var found bool
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "achieva_full_") && strings.HasSuffix(e.Name(), "_2020-06-02_to_2020-06-02.csv") {
			found = true
		}
	}
	if !found {
		t.Fatalf("export not written: %v", entries)
	}

	cfg.InputPath = filepath.Join(dir, "missing.html")
	if code := run(context.Background(), cfg); code != 2 {
		t.Fatalf("missing snapshot exit code %d, want 2", code)
	}

	cfg.InputPath = in
	cfg.OutputDir = in // a file, so the export directory cannot be created
	if code := run(context.Background(), cfg); code != 1 {
		t.Fatalf("emit failure exit code %d, want 1", code)
	}
}

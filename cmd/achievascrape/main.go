package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/achievascrape/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, cfg))
}

// parseFlags resolves configuration with precedence flags > env > file >
// defaults.
func parseFlags(args []string) (app.Config, error) {
	fs := flag.NewFlagSet("achievascrape", flag.ContinueOnError)
	var (
		configPath string
		envFiles   string
		showVer    bool
	)
	cfg := app.DefaultConfig()
	fs.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load")
	fs.StringVar(&cfg.InputPath, "input", "", "Saved transaction page: file path, - for stdin, or http(s) URL")
	fs.StringVar(&cfg.ContentType, "content-type", "", "Charset hint for file/stdin input, e.g. 'text/html; charset=windows-1252'")
	fs.StringVar(&cfg.OutputDir, "out.dir", app.DefaultOutputDir, "Directory the CSV export is written to")
	fs.BoolVar(&cfg.Stdout, "stdout", false, "Print the CSV to stdout instead of writing a file")
	fs.BoolVar(&cfg.Manifest, "manifest", false, "Write a JSON manifest next to the export")
	fs.BoolVar(&cfg.PDF, "pdf", false, "Write a printable PDF statement next to the export")
	fs.StringVar(&cfg.Ledger, "ledger", "", "SQLite file that accumulates exported transactions")
	fs.IntVar(&cfg.Workers, "workers", app.DefaultWorkers, "Rows extracted concurrently (output order is unaffected)")
	fs.DurationVar(&cfg.Timeout, "timeout", app.DefaultTimeout, "Timeout for URL input")
	fs.StringVar(&cfg.UserAgent, "ua", app.DefaultUserAgent, "User-Agent for URL input")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVer, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if showVer {
		fmt.Printf("achievascrape %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return cfg, flag.ErrHelp
	}
	if cfg.InputPath == "" && fs.NArg() > 0 {
		cfg.InputPath = fs.Arg(0)
	}
	explicit := cfg
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if fs.NArg() > 0 {
		set["input"] = true
	}

	var files []string
	for _, p := range strings.Split(envFiles, ",") {
		if s := strings.TrimSpace(p); s != "" {
			files = append(files, s)
		}
	}
	if err := app.LoadEnvFiles(files...); err != nil {
		return cfg, err
	}
	app.ApplyEnvToConfig(&cfg)

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	restoreExplicit(&cfg, explicit, set)
	return cfg, app.ValidateConfig(cfg)
}

// restoreExplicit puts back every value given on the command line, so a
// flag that repeats its default still beats env and the config file.
func restoreExplicit(cfg *app.Config, explicit app.Config, set map[string]bool) {
	for name := range set {
		switch name {
		case "input":
			cfg.InputPath = explicit.InputPath
		case "content-type":
			cfg.ContentType = explicit.ContentType
		case "out.dir":
			cfg.OutputDir = explicit.OutputDir
		case "stdout":
			cfg.Stdout = explicit.Stdout
		case "manifest":
			cfg.Manifest = explicit.Manifest
		case "pdf":
			cfg.PDF = explicit.PDF
		case "ledger":
			cfg.Ledger = explicit.Ledger
		case "workers":
			cfg.Workers = explicit.Workers
		case "timeout":
			cfg.Timeout = explicit.Timeout
		case "ua":
			cfg.UserAgent = explicit.UserAgent
		case "v":
			cfg.Verbose = explicit.Verbose
		}
	}
}

// run executes one export and maps the outcome to an exit code: 2 when no
// snapshot or grid could be read, 1 for any other failure, 0 otherwise.
// Skipped rows are reported in the log but do not fail the run.
func run(ctx context.Context, cfg app.Config) int {
	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init app")
		return 2
	}
	if _, err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, app.ErrNoSnapshot) || errors.Is(err, app.ErrGridUnreadable) {
			return 2
		}
		return 1
	}
	return 0
}

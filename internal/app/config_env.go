package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.InputPath == "" {
		cfg.InputPath = os.Getenv("ACHIEVA_INPUT")
	}
	if cfg.ContentType == "" {
		cfg.ContentType = os.Getenv("ACHIEVA_CONTENT_TYPE")
	}
	if cfg.Ledger == "" {
		cfg.Ledger = os.Getenv("ACHIEVA_LEDGER")
	}
	if cfg.OutputDir == "" || cfg.OutputDir == DefaultOutputDir {
		if v := os.Getenv("ACHIEVA_OUT_DIR"); v != "" {
			cfg.OutputDir = v
		}
	}
	if cfg.Workers == 0 || cfg.Workers == DefaultWorkers {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("ACHIEVA_WORKERS"))); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout {
		if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv("ACHIEVA_TIMEOUT"))); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if parseBool(os.Getenv(envKey)) {
			*dst = true
		}
	}
	setBool(&cfg.Stdout, "ACHIEVA_STDOUT")
	setBool(&cfg.Manifest, "ACHIEVA_MANIFEST")
	setBool(&cfg.PDF, "ACHIEVA_PDF")
	setBool(&cfg.Verbose, "VERBOSE")
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

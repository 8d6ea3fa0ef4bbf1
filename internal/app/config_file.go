package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/achievascrape/internal/scrape"
)

// FileConfig is the optional YAML/JSON config file. The layout section lets
// users follow markup changes on the bank's side without a rebuild.
type FileConfig struct {
	Input       string `yaml:"input" json:"input"`
	ContentType string `yaml:"contentType" json:"contentType"`

	Output struct {
		Dir      string `yaml:"dir" json:"dir"`
		Stdout   bool   `yaml:"stdout" json:"stdout"`
		Manifest bool   `yaml:"manifest" json:"manifest"`
		PDF      bool   `yaml:"pdf" json:"pdf"`
		Ledger   string `yaml:"ledger" json:"ledger"`
	} `yaml:"output" json:"output"`

	Fetch struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
	} `yaml:"fetch" json:"fetch"`

	Workers int  `yaml:"workers" json:"workers"`
	Verbose bool `yaml:"verbose" json:"verbose"`

	Layout scrape.Layout `yaml:"layout" json:"layout"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays file values onto cfg wherever cfg still holds a
// default, so explicit flags keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if cfg.ContentType == "" && fc.ContentType != "" {
		cfg.ContentType = fc.ContentType
	}

	if (cfg.OutputDir == "" || cfg.OutputDir == DefaultOutputDir) && fc.Output.Dir != "" {
		cfg.OutputDir = fc.Output.Dir
	}
	if !cfg.Stdout && fc.Output.Stdout {
		cfg.Stdout = true
	}
	if !cfg.Manifest && fc.Output.Manifest {
		cfg.Manifest = true
	}
	if !cfg.PDF && fc.Output.PDF {
		cfg.PDF = true
	}
	if cfg.Ledger == "" && fc.Output.Ledger != "" {
		cfg.Ledger = fc.Output.Ledger
	}

	if (cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout) && fc.Fetch.Timeout > 0 {
		cfg.Timeout = fc.Fetch.Timeout
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == DefaultUserAgent) && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if (cfg.Workers == 0 || cfg.Workers == DefaultWorkers) && fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	cfg.Layout = cfg.Layout.Merge(fc.Layout)
}

// ValidateConfig rejects configurations that cannot produce an export.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input is required (file path, - for stdin, or URL)")
	}
	if !cfg.Stdout && strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output dir is required unless writing to stdout")
	}
	if cfg.Workers < 0 {
		return errors.New("config: workers must not be negative")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	if strings.TrimSpace(cfg.Layout.Scope) == "" || strings.TrimSpace(cfg.Layout.Rows) == "" {
		return errors.New("config: layout.scope and layout.rows are required")
	}
	return nil
}

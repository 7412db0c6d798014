// Package config describes a batch of signal files and the filters to run
// over each of them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/filterscope/algorithms/filters"
	"github.com/RyanBlaney/filterscope/compare"
	"github.com/RyanBlaney/filterscope/ingest"
	"github.com/RyanBlaney/filterscope/report"
)

// Config is the top-level batch file.
//
//	output_dir: output_plots
//	format: json
//	workers: 1
//	signals:
//	  - path: sigA.csv
//	    filters:
//	      - {kind: maf, window: 60}
//	      - {kind: iir, a: 0.985, b: 0.015}
//	      - {kind: fir, method: Low-Pass Window, coefficients: [0.25, 0.5, 0.25]}
type Config struct {
	OutputDir string         `yaml:"output_dir"`
	Format    string         `yaml:"format,omitempty"`
	Workers   int            `yaml:"workers,omitempty"`
	LogLevel  string         `yaml:"log_level,omitempty"`
	Loader    LoaderSettings `yaml:"loader,omitempty"`
	Signals   []SignalConfig `yaml:"signals"`
}

// LoaderSettings overrides the loader defaults. Empty strings keep the default.
type LoaderSettings struct {
	Delimiter string `yaml:"delimiter,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
}

// SignalConfig is one input file and its filter table.
type SignalConfig struct {
	Path    string           `yaml:"path"`
	Name    string           `yaml:"name,omitempty"`
	Filters []filters.Params `yaml:"filters"`
}

// DefaultOutputDir is used when output_dir is omitted.
const DefaultOutputDir = "output_plots"

// Load reads and parses a batch file. Relative signal paths are resolved
// against the directory of the batch file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range cfg.Signals {
		if !filepath.IsAbs(cfg.Signals[i].Path) {
			cfg.Signals[i].Path = filepath.Join(base, cfg.Signals[i].Path)
		}
	}
	return cfg, nil
}

// Parse decodes YAML, fills defaults and validates. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks everything that can be checked without reading the signals.
func (c *Config) Validate() error {
	var errs []error

	if _, err := report.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if err := checkRune("loader.delimiter", c.Loader.Delimiter); err != nil {
		errs = append(errs, err)
	}
	if err := checkRune("loader.comment", c.Loader.Comment); err != nil {
		errs = append(errs, err)
	}
	if len(c.Signals) == 0 {
		errs = append(errs, errors.New("no signals configured"))
	}

	// artifact name -> first job that claimed it
	names := make(map[string]string)
	ext := c.ReportFormat().Extension()

	for i, s := range c.Signals {
		if s.Path == "" {
			errs = append(errs, fmt.Errorf("signals[%d]: path is required", i))
		}
		if len(s.Filters) == 0 {
			errs = append(errs, fmt.Errorf("signals[%d] (%s): no filters configured", i, s.Path))
		}
		signalName := s.Name
		if signalName == "" {
			signalName = ingest.SignalName(s.Path)
		}
		for j, p := range s.Filters {
			f, err := filters.FromParams(p)
			if err != nil {
				errs = append(errs, fmt.Errorf("signals[%d].filters[%d]: %w", i, j, err))
				continue
			}

			where := fmt.Sprintf("signals[%d].filters[%d]", i, j)
			name := report.ArtifactName(signalName, string(f.Kind()), f.Describe(), ext)
			if first, ok := names[name]; ok {
				errs = append(errs, fmt.Errorf("%s: artifact %s already produced by %s", where, name, first))
				continue
			}
			names[name] = where
		}
	}

	return errors.Join(errs...)
}

func checkRune(field, value string) error {
	if len([]rune(value)) > 1 {
		return fmt.Errorf("%s must be a single character, got %q", field, value)
	}
	return nil
}

// Jobs expands the configuration into one job per (signal, filter) pair,
// in file order.
func (c *Config) Jobs() ([]compare.Job, error) {
	var jobs []compare.Job
	for i, s := range c.Signals {
		for j, p := range s.Filters {
			f, err := filters.FromParams(p)
			if err != nil {
				return nil, fmt.Errorf("signals[%d].filters[%d]: %w", i, j, err)
			}
			jobs = append(jobs, compare.Job{Source: s.Path, Signal: s.Name, Filter: f})
		}
	}
	return jobs, nil
}

// ReportFormat returns the parsed artifact format.
func (c *Config) ReportFormat() report.Format {
	f, _ := report.ParseFormat(c.Format)
	return f
}

// LoaderConfig applies the loader overrides to the loader defaults.
func (c *Config) LoaderConfig() *ingest.LoaderConfig {
	cfg := ingest.DefaultLoaderConfig()
	if r := []rune(c.Loader.Delimiter); len(r) == 1 {
		cfg.Delimiter = r[0]
	}
	if r := []rune(c.Loader.Comment); len(r) == 1 {
		cfg.Comment = r[0]
	}
	return cfg
}

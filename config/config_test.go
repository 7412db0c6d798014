package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RyanBlaney/filterscope/algorithms/filters"
	"github.com/RyanBlaney/filterscope/report"
)

const batch = `
output_dir: plots
format: msgpack
workers: 2
loader:
  delimiter: ";"
signals:
  - path: sigA.csv
    filters:
      - {kind: maf, window: 60}
      - {kind: iir, a: 0.985, b: 0.015}
  - path: /abs/sigC.csv
    name: channelC
    filters:
      - kind: fir
        method: Moving Average
        coefficients: [0.5, 0.5]
`

func TestLoadResolvesPathsAndBuildsJobs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(path, []byte(batch), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "plots" || cfg.Workers != 2 || cfg.ReportFormat() != report.FormatMsgPack {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.LoaderConfig().Delimiter != ';' || cfg.LoaderConfig().Comment != '#' {
		t.Fatalf("loader config = %+v", cfg.LoaderConfig())
	}

	jobs, err := cfg.Jobs()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 3 {
		t.Fatalf("jobs = %d, want 3", len(jobs))
	}

	if jobs[0].Source != filepath.Join(dir, "sigA.csv") || jobs[0].SignalName() != "sigA" {
		t.Errorf("job 0 = %+v", jobs[0])
	}
	if jobs[0].Filter.Describe() != "window=60" {
		t.Errorf("job 0 filter = %s", jobs[0].Filter.Describe())
	}
	if jobs[1].Filter.Kind() != filters.KindRecursive || jobs[1].Filter.Describe() != "A=0.985, B=0.015" {
		t.Errorf("job 1 filter = %s %s", jobs[1].Filter.Kind(), jobs[1].Filter.Describe())
	}
	if jobs[2].Source != "/abs/sigC.csv" || jobs[2].SignalName() != "channelC" {
		t.Errorf("job 2 = %+v", jobs[2])
	}
	if jobs[2].Filter.Describe() != "Moving Average (2 taps)" {
		t.Errorf("job 2 filter = %s", jobs[2].Filter.Describe())
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("signals:\n  - path: a.csv\n    filters:\n      - {kind: maf, window: 3}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != DefaultOutputDir || cfg.Workers != 1 || cfg.ReportFormat() != report.FormatJSON {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"no signals", "output_dir: x\n", "no signals configured"},
		{"unknown key", "signal: []\n", "field signal not found"},
		{"bad format", "format: png\nsignals:\n  - path: a.csv\n    filters: [{kind: maf, window: 2}]\n", "unknown artifact format"},
		{"bad kind", "signals:\n  - path: a.csv\n    filters: [{kind: kalman}]\n", "unknown filter kind"},
		{"empty taps", "signals:\n  - path: a.csv\n    filters: [{kind: fir}]\n", "coefficient sequence is empty"},
		{"no filters", "signals:\n  - path: a.csv\n", "no filters configured"},
		{"missing path", "signals:\n  - filters: [{kind: maf, window: 2}]\n", "path is required"},
		{"foreign field", "signals:\n  - path: a.csv\n    filters: [{kind: maf, window: 5, coefficients: [0.5, 0.5]}]\n", "does not take coefficients"},
		{"same fir label", "signals:\n  - path: sigA.csv\n    filters:\n      - {kind: fir, method: Low-Pass Window, coefficients: [0.25, 0.5, 0.25]}\n      - {kind: fir, method: Low-Pass Window, coefficients: [0.1, 0.8, 0.1]}\n", "sigA_FIR_Low-Pass_Window_3_taps.json already produced by signals[0].filters[0]"},
		{"names merge after sanitizing", "signals:\n  - {path: a.csv, name: sig A, filters: [{kind: maf, window: 2}]}\n  - {path: b.csv, name: sig_A, filters: [{kind: maf, window: 2}]}\n", "signals[1].filters[0]: artifact sig_A_MAF_window-2.json"},
		{"long delimiter", "loader: {delimiter: ';;'}\nsignals:\n  - path: a.csv\n    filters: [{kind: maf, window: 2}]\n", "single character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

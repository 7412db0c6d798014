// Package report stores comparisons as self-describing two-panel
// documents that a plotting front end can render directly.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/RyanBlaney/filterscope/algorithms/filters"
	"github.com/RyanBlaney/filterscope/algorithms/spectral"
	"github.com/RyanBlaney/filterscope/compare"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// Axis describes one panel axis.
type Axis struct {
	Label string `json:"label" msgpack:"label"`
	Scale string `json:"scale" msgpack:"scale"` // "linear" or "log"
}

// Trace is one line on a panel.
type Trace struct {
	Label string    `json:"label" msgpack:"label"`
	X     []float64 `json:"x" msgpack:"x"`
	Y     []float64 `json:"y" msgpack:"y"`
}

// Panel is one plot area.
type Panel struct {
	X      Axis    `json:"x_axis" msgpack:"x_axis"`
	Y      Axis    `json:"y_axis" msgpack:"y_axis"`
	Traces []Trace `json:"traces" msgpack:"traces"`
}

// Artifact is the stored form of a comparison.
type Artifact struct {
	Signal    string            `json:"signal" msgpack:"signal"`
	Filter    filters.Kind      `json:"filter" msgpack:"filter"`
	Params    string            `json:"params" msgpack:"params"`
	TimePanel Panel             `json:"time_domain" msgpack:"time_domain"`
	FreqPanel Panel             `json:"frequency_domain" msgpack:"frequency_domain"`
	Warnings  []filters.Warning `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
	Stats     compare.Stats     `json:"stats" msgpack:"stats"`
}

// NewArtifact lays a comparison out as a time-domain panel and a log-log
// frequency-domain panel.
func NewArtifact(c *compare.Comparison) *Artifact {
	label := string(c.Kind)
	return &Artifact{
		Signal: c.Signal,
		Filter: c.Kind,
		Params: c.Params,
		TimePanel: Panel{
			X: Axis{Label: "Time", Scale: "linear"},
			Y: Axis{Label: "Amplitude", Scale: "linear"},
			Traces: []Trace{
				seriesTrace("Raw", c.Raw),
				seriesTrace(label, c.Filtered),
			},
		},
		FreqPanel: Panel{
			X: Axis{Label: "Freq (Hz)", Scale: "log"},
			Y: Axis{Label: "|Y(freq)|", Scale: "log"},
			Traces: []Trace{
				spectrumTrace("Raw", c.RawSpectrum),
				spectrumTrace(label+" "+c.Params, c.FilteredSpectrum),
			},
		},
		Warnings: c.Warnings,
		Stats:    c.Stats,
	}
}

func seriesTrace(label string, s *signal.Series) Trace {
	return Trace{Label: label, X: s.Time, Y: s.Amplitude}
}

func spectrumTrace(label string, s *spectral.Spectrum) Trace {
	return Trace{Label: label, X: s.Frequency, Y: s.Magnitude}
}

// ErrArtifactExists is returned when a reporter is asked to write a path
// it already wrote.
var ErrArtifactExists = errors.New("artifact already written")

// FileReporter writes one artifact file per comparison into Dir. A
// FileReporter never overwrites an artifact it wrote itself, so two
// comparisons that map to the same name cannot silently replace each other.
type FileReporter struct {
	dir    string
	format Format
	logger logging.Logger

	mu      sync.Mutex
	claimed map[string]bool
}

// NewFileReporter creates a reporter writing format artifacts under dir.
func NewFileReporter(dir string, format Format) *FileReporter {
	return &FileReporter{
		dir:    dir,
		format: format,
		logger: logging.WithFields(logging.Fields{
			"component": "file_reporter",
			"dir":       dir,
		}),
		claimed: make(map[string]bool),
	}
}

// Path returns where the artifact for c will be written.
func (r *FileReporter) Path(c *compare.Comparison) string {
	return filepath.Join(r.dir, ArtifactName(c.Signal, string(c.Kind), c.Params, r.format.Extension()))
}

// Report encodes c to a temporary file in the output directory and
// renames it into place, so readers only ever see complete artifacts.
func (r *FileReporter) Report(ctx context.Context, c *compare.Comparison) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := r.Path(c)
	if !r.claim(path) {
		return "", fmt.Errorf("%s: %w", path, ErrArtifactExists)
	}

	tmp, err := os.CreateTemp(r.dir, ".artifact-*")
	if err != nil {
		r.release(path)
		return "", fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		r.release(path)
		return "", err
	}

	if err := r.format.Encode(tmp, NewArtifact(c)); err != nil {
		return cleanup(fmt.Errorf("encode artifact: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("sync artifact: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		r.release(path)
		return "", fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		r.release(path)
		return "", fmt.Errorf("store artifact: %w", err)
	}

	r.logger.Debug("Artifact written", logging.Fields{
		"function": "Report",
		"path":     path,
	})

	return path, nil
}

// claim reserves path for the caller. It reports false when the path was
// already written or is being written by another comparison.
func (r *FileReporter) claim(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimed[path] {
		return false
	}
	r.claimed[path] = true
	return true
}

func (r *FileReporter) release(path string) {
	r.mu.Lock()
	delete(r.claimed, path)
	r.mu.Unlock()
}

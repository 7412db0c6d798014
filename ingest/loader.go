// Package ingest reads two-column (time, amplitude) delimited text into
// signal.Series values.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// LoaderConfig holds loader configuration
type LoaderConfig struct {
	Delimiter rune `json:"delimiter" yaml:"delimiter"`
	// Comment starts a line that is skipped; 0 disables comments.
	Comment rune `json:"comment" yaml:"comment"`
	// TrimSpace strips whitespace around each field before parsing.
	TrimSpace bool `json:"trim_space" yaml:"trim_space"`
}

// DefaultLoaderConfig returns default loader configuration
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Delimiter: ',',
		Comment:   '#',
		TrimSpace: true,
	}
}

// Loader parses delimited signal files. One row is one sample, file order
// is time order, and there is no header row.
type Loader struct {
	config *LoaderConfig
}

// NewLoader creates a new signal loader
func NewLoader(config *LoaderConfig) *Loader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	return &Loader{config: config}
}

// SignalName derives the signal identifier from a path: the base name
// without its extension.
func SignalName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadFile opens path and parses it. An unopenable file yields a
// *signal.IOError.
func (l *Loader) LoadFile(path string) (*signal.Series, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "signal_loader",
		"function":  "LoadFile",
		"path":      path,
	})

	f, err := os.Open(path)
	if err != nil {
		ioErr := &signal.IOError{Source: path, Err: err}
		logger.Error(ioErr, "Failed to open signal file")
		return nil, ioErr
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses rows of `time,amplitude` from r. source names the input in
// errors. Fields after the second are ignored; a short row or a
// non-numeric value yields a *signal.ParseError.
func (l *Loader) Load(r io.Reader, source string) (*signal.Series, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "signal_loader",
		"function":  "Load",
		"source":    source,
	})

	reader := csv.NewReader(r)
	reader.Comma = l.config.Delimiter
	reader.Comment = l.config.Comment
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = l.config.TrimSpace

	var time, amplitude []float64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &signal.ParseError{Source: source, Line: csvErr.Line, Column: csvErr.Column, Err: csvErr.Err}
			}
			return nil, &signal.IOError{Source: source, Err: err}
		}

		line, _ := reader.FieldPos(0)
		if len(record) < 2 {
			return nil, &signal.ParseError{
				Source: source,
				Line:   line,
				Err:    fmt.Errorf("expected 2 fields, got %d", len(record)),
			}
		}

		t, err := l.parseField(record[0])
		if err != nil {
			return nil, &signal.ParseError{Source: source, Line: line, Column: 1, Value: record[0], Err: err}
		}
		a, err := l.parseField(record[1])
		if err != nil {
			return nil, &signal.ParseError{Source: source, Line: line, Column: 2, Value: record[1], Err: err}
		}

		time = append(time, t)
		amplitude = append(amplitude, a)
	}

	logger.Debug("Signal loaded", logging.Fields{"samples": len(amplitude)})

	return signal.New(time, amplitude)
}

func (l *Loader) parseField(field string) (float64, error) {
	if l.config.TrimSpace {
		field = strings.TrimSpace(field)
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return v, nil
}

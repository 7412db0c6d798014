package filters

import (
	"fmt"
	"strings"

	"github.com/RyanBlaney/filterscope/algorithms/common"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// Kind labels a filter family. The label is used for reporting and
// artifact naming.
type Kind string

const (
	KindMovingAverage Kind = "MAF"
	KindRecursive     Kind = "IIR"
	KindFIR           Kind = "FIR"
)

// Filter is a one-shot transformation of a whole series. Implementations
// keep no state between calls and never modify their input.
type Filter interface {
	Kind() Kind
	// Describe renders the parameters for reports, e.g. "window=60".
	Describe() string
	// Validate checks the parameters that do not depend on the input.
	Validate() error
	Apply(s *signal.Series) (*Result, error)
}

// Warning is a non-fatal diagnostic raised while filtering.
type Warning struct {
	Code    string `json:"code" msgpack:"code"`
	Message string `json:"message" msgpack:"message"`
}

func (w Warning) String() string {
	return w.Code + ": " + w.Message
}

// WarningWeightsSum is raised when recursive weights do not sum to one.
const WarningWeightsSum = "weights_sum"

// Result is the filtered series plus any diagnostics.
type Result struct {
	Series   *signal.Series
	Warnings []Warning
}

// resampledAxis is the time axis shared by the trimming filters: n points
// spread uniformly over the input time range, endpoints included.
func resampledAxis(s *signal.Series, n int) []float64 {
	start, end := s.Span()
	return common.Linspace(start, end, n)
}

// Params is the serialisable form of a filter selection.
type Params struct {
	Kind         Kind      `json:"kind" yaml:"kind"`
	Window       int       `json:"window,omitempty" yaml:"window,omitempty"`
	Feedback     float64   `json:"a,omitempty" yaml:"a,omitempty"`
	Input        float64   `json:"b,omitempty" yaml:"b,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`
	Method       string    `json:"method,omitempty" yaml:"method,omitempty"`
}

// ParseKind accepts the report label or a long name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "maf", "moving_average", "moving-average":
		return KindMovingAverage, nil
	case "iir", "recursive":
		return KindRecursive, nil
	case "fir":
		return KindFIR, nil
	default:
		return "", fmt.Errorf("unknown filter kind %q", name)
	}
}

// FromParams builds and validates the Filter selected by p.
func FromParams(p Params) (Filter, error) {
	kind, err := ParseKind(string(p.Kind))
	if err != nil {
		return nil, err
	}

	if extra := foreignFields(kind, p); len(extra) > 0 {
		return nil, signal.Invalidf("filter params", "%s filter does not take %s", kind, strings.Join(extra, ", "))
	}

	var f Filter
	switch kind {
	case KindMovingAverage:
		f = NewMovingAverage(p.Window)
	case KindRecursive:
		f = NewRecursive(p.Feedback, p.Input)
	case KindFIR:
		f = NewFIR(p.Coefficients, p.Method)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// foreignFields lists the parameters set in p that kind does not use.
func foreignFields(kind Kind, p Params) []string {
	var extra []string
	if kind != KindMovingAverage && p.Window != 0 {
		extra = append(extra, "window")
	}
	if kind != KindRecursive && p.Feedback != 0 {
		extra = append(extra, "a")
	}
	if kind != KindRecursive && p.Input != 0 {
		extra = append(extra, "b")
	}
	if kind != KindFIR && len(p.Coefficients) > 0 {
		extra = append(extra, "coefficients")
	}
	if kind != KindFIR && p.Method != "" {
		extra = append(extra, "method")
	}
	return extra
}

func componentLogger(kind Kind) logging.Logger {
	return logging.WithFields(logging.Fields{
		"component": "filter_bank",
		"filter":    string(kind),
	})
}

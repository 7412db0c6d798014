package filters

import (
	"fmt"
	"strconv"

	"github.com/RyanBlaney/filterscope/algorithms/common"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// WeightSumTolerance bounds |A+B-1| before a weights_sum warning is raised.
const WeightSumTolerance = 1e-9

// Recursive implements a single-pole IIR (exponential) smoother.
//
// The difference equation is:
//
//	y[0] = x[0]
//	y[n] = A*y[n-1] + B*x[n]
//
// Where A is the feedback weight and B the input weight. A+B = 1 gives
// unity DC gain; other pairs are accepted with a warning. A=0, B=1 is the
// identity and A=1, B=0 holds x[0] forever.
//
// The output keeps one sample per input sample and reuses the input time
// axis unchanged.
type Recursive struct {
	feedback float64 // A
	input    float64 // B
}

// NewRecursive creates a recursive filter with feedback weight a and input weight b.
func NewRecursive(a, b float64) *Recursive {
	return &Recursive{feedback: a, input: b}
}

func (r *Recursive) Kind() Kind { return KindRecursive }

// Weights returns the feedback (A) and input (B) weights.
func (r *Recursive) Weights() (a, b float64) { return r.feedback, r.input }

func (r *Recursive) Describe() string {
	return fmt.Sprintf("A=%s, B=%s", formatWeight(r.feedback), formatWeight(r.input))
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Validate always succeeds: every weight pair defines a filter.
// Use CheckWeights for the unity-gain diagnostic.
func (r *Recursive) Validate() error {
	if !common.IsFinite(r.feedback) || !common.IsFinite(r.input) {
		return signal.Invalidf("recursive filter", "weights must be finite, got A=%v B=%v", r.feedback, r.input)
	}
	return nil
}

// CheckWeights returns a warning when A+B is not within WeightSumTolerance of 1.
func (r *Recursive) CheckWeights() []Warning {
	sum := r.feedback + r.input
	if common.ApproxEqual(sum, 1.0, WeightSumTolerance) {
		return nil
	}
	return []Warning{{
		Code:    WarningWeightsSum,
		Message: fmt.Sprintf("weights should sum to 1, A+B=%s", formatWeight(sum)),
	}}
}

func (r *Recursive) Apply(s *signal.Series) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate("recursive filter", 1); err != nil {
		return nil, err
	}

	logger := componentLogger(r.Kind()).WithFields(logging.Fields{
		"function": "Apply",
		"a":        r.feedback,
		"b":        r.input,
		"samples":  s.Len(),
	})

	warnings := r.CheckWeights()

	out := make([]float64, s.Len())
	out[0] = s.Amplitude[0]
	for i := 1; i < len(out); i++ {
		out[i] = r.feedback*out[i-1] + r.input*s.Amplitude[i]
	}

	logger.Debug("Recursive filter applied", logging.Fields{"warnings": len(warnings)})

	return &Result{
		Series:   &signal.Series{Time: append([]float64(nil), s.Time...), Amplitude: out},
		Warnings: warnings,
	}, nil
}

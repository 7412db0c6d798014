package filters

import (
	"fmt"

	"github.com/RyanBlaney/filterscope/algorithms/common"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// MovingAverage is a sliding-window mean smoother.
//
// For a series of N samples and window W the output has N-W samples:
//
//	y[i] = (x[i] + ... + x[i+W-1]) / W,  0 <= i < N-W
//
// The window advances one sample per step. The trailing W samples are
// dropped rather than padded, and the output is placed on a new uniform
// time grid of N-W points spanning the input first and last timestamps.
// W == N therefore produces an empty series.
type MovingAverage struct {
	window int
}

// NewMovingAverage creates a moving-average filter with the given window.
func NewMovingAverage(window int) *MovingAverage {
	return &MovingAverage{window: window}
}

func (m *MovingAverage) Kind() Kind { return KindMovingAverage }

// Window returns the window size in samples.
func (m *MovingAverage) Window() int { return m.window }

func (m *MovingAverage) Describe() string {
	return fmt.Sprintf("window=%d", m.window)
}

func (m *MovingAverage) Validate() error {
	if m.window < 1 {
		return signal.Invalidf("moving average", "window size must be positive, got %d", m.window)
	}
	return nil
}

func (m *MovingAverage) Apply(s *signal.Series) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate("moving average", 1); err != nil {
		return nil, err
	}

	n := s.Len()
	if m.window > n {
		return nil, signal.Invalidf("moving average", "window size %d exceeds series length %d", m.window, n)
	}

	logger := componentLogger(m.Kind()).WithFields(logging.Fields{
		"function": "Apply",
		"window":   m.window,
		"samples":  n,
	})

	out := make([]float64, n-m.window)
	for i := range out {
		out[i] = common.WindowMean(s.Amplitude[i : i+m.window])
	}

	if len(out) == 0 {
		logger.Warn("Window covers the whole series, output is empty")
	}

	logger.Debug("Moving average applied", logging.Fields{"output_samples": len(out)})

	return &Result{
		Series: &signal.Series{Time: resampledAxis(s, len(out)), Amplitude: out},
	}, nil
}

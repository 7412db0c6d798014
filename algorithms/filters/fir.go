package filters

import (
	"fmt"

	"github.com/RyanBlaney/filterscope/algorithms/common"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// FIR applies a fixed set of taps as a sliding inner product.
//
//	y[i] = c[0]*x[i] + c[1]*x[i+1] + ... + c[K-1]*x[i+K-1],  0 <= i < N-K
//
// Taps are applied in window order without reversal, so this is a
// correlation: an asymmetric tap set gives a different result than the
// textbook convolution would. Trimming and the time axis follow
// MovingAverage.
type FIR struct {
	coefficients []float64
	method       string
}

// NewFIR creates an FIR filter. method is a free-form label, e.g.
// "Low-Pass Window", used only in reports.
func NewFIR(coefficients []float64, method string) *FIR {
	return &FIR{
		coefficients: append([]float64(nil), coefficients...),
		method:       method,
	}
}

func (f *FIR) Kind() Kind { return KindFIR }

func (f *FIR) Describe() string {
	method := f.method
	if method == "" {
		method = "Custom"
	}
	return fmt.Sprintf("%s (%d taps)", method, len(f.coefficients))
}

func (f *FIR) Validate() error {
	if len(f.coefficients) == 0 {
		return signal.Invalidf("fir filter", "coefficient sequence is empty")
	}
	for i, c := range f.coefficients {
		if !common.IsFinite(c) {
			return signal.Invalidf("fir filter", "coefficient %d is not finite: %v", i, c)
		}
	}
	return nil
}

func (f *FIR) Apply(s *signal.Series) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate("fir filter", 1); err != nil {
		return nil, err
	}

	n, k := s.Len(), len(f.coefficients)
	if k > n {
		return nil, signal.Invalidf("fir filter", "tap count %d exceeds series length %d", k, n)
	}

	logger := componentLogger(f.Kind()).WithFields(logging.Fields{
		"function": "Apply",
		"method":   f.method,
		"taps":     k,
		"samples":  n,
	})

	out := make([]float64, n-k)
	for i := range out {
		out[i] = common.Dot(f.coefficients, s.Amplitude[i:i+k])
	}

	if len(out) == 0 {
		logger.Warn("Tap count equals series length, output is empty")
	}

	logger.Debug("FIR filter applied", logging.Fields{"output_samples": len(out)})

	return &Result{
		Series: &signal.Series{Time: resampledAxis(s, len(out)), Amplitude: out},
	}, nil
}

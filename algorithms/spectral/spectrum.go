package spectral

import (
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/filterscope/algorithms/common"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// Spectrum is a normalized single-sided magnitude spectrum.
type Spectrum struct {
	Frequency      []float64 `json:"frequency" msgpack:"frequency"`
	Magnitude      []float64 `json:"magnitude" msgpack:"magnitude"`
	SampleInterval float64   `json:"sample_interval" msgpack:"sample_interval"`
	SampleRate     float64   `json:"sample_rate" msgpack:"sample_rate"`
	Samples        int       `json:"samples" msgpack:"samples"`
}

// Peak is a single spectrum bin.
type Peak struct {
	Bin       int     `json:"bin" msgpack:"bin"`
	Frequency float64 `json:"frequency" msgpack:"frequency"`
	Magnitude float64 `json:"magnitude" msgpack:"magnitude"`
}

// Len returns the number of bins.
func (s *Spectrum) Len() int { return len(s.Magnitude) }

// BinWidth returns the frequency spacing between bins, Fs/N.
func (s *Spectrum) BinWidth() float64 {
	return s.SampleRate / float64(s.Samples)
}

// Peak returns the bin with the largest magnitude. With skipDC the 0 Hz
// bin is ignored. ok is false when no eligible bin exists.
func (s *Spectrum) Peak(skipDC bool) (peak Peak, ok bool) {
	from := 0
	if skipDC {
		from = 1
	}
	if len(s.Magnitude) <= from {
		return Peak{}, false
	}

	idx := from + floats.MaxIdx(s.Magnitude[from:])
	return Peak{Bin: idx, Frequency: s.Frequency[idx], Magnitude: s.Magnitude[idx]}, true
}

// Analyzer derives magnitude spectra from uniformly sampled series.
type Analyzer struct {
	fft    *FFT
	logger logging.Logger
}

// NewAnalyzer creates a new spectral analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		fft: NewFFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "spectral_analyzer",
		}),
	}
}

// AnalyzeSeries is Analyze over a Series.
func (a *Analyzer) AnalyzeSeries(s *signal.Series) (*Spectrum, error) {
	if s == nil {
		return nil, signal.Invalidf("spectrum", "nil series")
	}
	return a.Analyze(s.Time, s.Amplitude)
}

// Analyze computes the magnitude spectrum of amplitude sampled at time.
//
// The sampling interval is (time[N-1] - time[0]) / N. The denominator is
// N rather than N-1, so the derived rate is slightly above the true rate
// for a uniform grid. Coefficients are divided by N and the first N/2
// (rounded down) are returned at frequencies k*Fs/N.
//
// N must be at least 2 and the span must be positive.
func (a *Analyzer) Analyze(time, amplitude []float64) (*Spectrum, error) {
	if len(time) != len(amplitude) {
		return nil, signal.Invalidf("spectrum", "time has %d samples, amplitude has %d", len(time), len(amplitude))
	}

	n := len(amplitude)
	if n < signal.MinSpectrumLength {
		return nil, signal.Invalidf("spectrum", "series has %d samples, need at least %d", n, signal.MinSpectrumLength)
	}

	dt := (time[n-1] - time[0]) / float64(n)
	if !(dt > 0) || !common.IsFinite(dt) {
		return nil, signal.Invalidf("spectrum", "sampling interval %v is not positive, time must increase", dt)
	}
	fs := 1 / dt

	logger := a.logger.WithFields(logging.Fields{
		"function": "Analyze",
		"samples":  n,
	})

	coeffs := a.fft.ComputeNormalized(amplitude)

	bins := n / 2
	spec := &Spectrum{
		Frequency:      make([]float64, bins),
		Magnitude:      make([]float64, bins),
		SampleInterval: dt,
		SampleRate:     fs,
		Samples:        n,
	}
	for k := 0; k < bins; k++ {
		spec.Frequency[k] = float64(k) * fs / float64(n)
		spec.Magnitude[k] = cmplx.Abs(coeffs[k])
	}

	logger.Debug("Spectrum computed", logging.Fields{
		"bins":        bins,
		"sample_rate": fs,
		"bin_width":   spec.BinWidth(),
	})

	return spec, nil
}

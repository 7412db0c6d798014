package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps the mjibson/go-dsp transforms used by the analyzer.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute returns the discrete Fourier transform of x.
// go-dsp handles any length, not only powers of two.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// ComputeNormalized returns the transform of x with every coefficient divided by len(x).
func (f *FFT) ComputeNormalized(x []float64) []complex128 {
	coeffs := f.Compute(x)
	scale := complex(float64(len(x)), 0)
	for i := range coeffs {
		coeffs[i] /= scale
	}
	return coeffs
}

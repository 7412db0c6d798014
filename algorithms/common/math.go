package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the filter bank, the analyzer and the comparison stats.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation using gonum
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// WindowMean sums window left to right and divides by its length.
// The fixed summation order keeps results reproducible bit for bit,
// which gonum's unrolled kernels do not promise.
func WindowMean(window []float64) float64 {
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(len(window))
}

// Dot returns the inner product of two equal-length slices.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Linspace returns n evenly spaced values over [start, end].
// n == 0 gives an empty slice, n == 1 gives [start], and for n >= 2 the
// last value is exactly end.
func Linspace(start, end float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{start}
	}

	out := floats.Span(make([]float64, n), start, end)
	out[n-1] = end
	return out
}

// ApproxEqual reports whether a and b differ by at most tol.
func ApproxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

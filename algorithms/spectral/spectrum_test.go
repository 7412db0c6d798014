package spectral

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/RyanBlaney/filterscope/internal/testutil"
	"github.com/RyanBlaney/filterscope/signal"
)

func TestAnalyzeSinusoidPeak(t *testing.T) {
	const (
		fs = 1000.0
		n  = 1000
	)

	for _, freq := range []float64{50, 123.4, 311} {
		spec, err := NewAnalyzer().Analyze(testutil.UniformTime(0, fs, n), testutil.DeterministicSine(freq, fs, 1, n))
		if err != nil {
			t.Fatal(err)
		}
		if spec.Len() != n/2 {
			t.Fatalf("bins = %d, want %d", spec.Len(), n/2)
		}

		peak, ok := spec.Peak(true)
		if !ok {
			t.Fatal("no peak found")
		}
		if math.Abs(peak.Frequency-freq) > spec.BinWidth() {
			t.Errorf("%v Hz: peak at %v Hz, more than one bin (%v Hz) away", freq, peak.Frequency, spec.BinWidth())
		}
	}
}

func TestAnalyzeNormalization(t *testing.T) {
	const n = 64
	spec, err := NewAnalyzer().Analyze(testutil.Ramp(n), testutil.DeterministicSine(8, n, 1, n))
	if err != nil {
		t.Fatal(err)
	}
	// a unit sine landing on bin 8 splits its energy evenly between +/- frequencies
	if math.Abs(spec.Magnitude[8]-0.5) > 1e-9 {
		t.Fatalf("magnitude at bin 8 = %v, want 0.5", spec.Magnitude[8])
	}
	if spec.Magnitude[0] > 1e-9 {
		t.Fatalf("DC magnitude = %v, want 0", spec.Magnitude[0])
	}
}

func TestAnalyzeSamplingIntervalUsesN(t *testing.T) {
	spec, err := NewAnalyzer().Analyze([]float64{0, 1, 2, 3, 4}, []float64{1, 1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if spec.SampleInterval != 0.8 {
		t.Fatalf("dt = %v, want (4-0)/5 = 0.8", spec.SampleInterval)
	}
	if math.Abs(spec.SampleRate-1.25) > 1e-12 {
		t.Fatalf("Fs = %v, want 1.25", spec.SampleRate)
	}
	testutil.RequireSliceNearlyEqual(t, spec.Frequency, []float64{0, 0.25}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, spec.Magnitude, []float64{1, 0}, 1e-12)
}

func TestAnalyzeMinimumLength(t *testing.T) {
	spec, err := NewAnalyzer().Analyze([]float64{0, 1}, []float64{1, 3})
	if err != nil {
		t.Fatalf("two samples must be accepted: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, spec.Frequency, []float64{0}, 0)
	testutil.RequireSliceNearlyEqual(t, spec.Magnitude, []float64{2}, 1e-12)

	for _, n := range []int{0, 1} {
		_, err := NewAnalyzer().Analyze(make([]float64, n), make([]float64, n))
		if !errors.Is(err, signal.ErrInvalidInput) {
			t.Errorf("n=%d: err = %v, want ErrInvalidInput", n, err)
		}
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	a := NewAnalyzer()

	if _, err := a.Analyze([]float64{0, 1, 2}, []float64{1, 2}); !errors.Is(err, signal.ErrInvalidInput) {
		t.Errorf("length mismatch: err = %v", err)
	}
	if _, err := a.Analyze([]float64{5, 5, 5}, []float64{1, 2, 3}); !errors.Is(err, signal.ErrInvalidInput) {
		t.Errorf("zero span: err = %v", err)
	}
	if _, err := a.Analyze([]float64{3, 2, 1}, []float64{1, 2, 3}); !errors.Is(err, signal.ErrInvalidInput) {
		t.Errorf("decreasing time: err = %v", err)
	}
	if _, err := a.AnalyzeSeries(nil); !errors.Is(err, signal.ErrInvalidInput) {
		t.Errorf("nil series: err = %v", err)
	}
}

func TestAnalyzeMatchesDirectDFT(t *testing.T) {
	const n = 7
	x := testutil.DeterministicNoise(5, 1, n)

	spec, err := NewAnalyzer().Analyze(testutil.Ramp(n), x)
	if err != nil {
		t.Fatal(err)
	}

	want := make([]float64, n/2)
	for k := range want {
		var sum complex128
		for i, v := range x {
			sum += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*i)/n))
		}
		want[k] = cmplx.Abs(sum) / n
	}
	testutil.RequireSliceNearlyEqual(t, spec.Magnitude, want, 1e-9)
	testutil.RequireFinite(t, spec.Frequency)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	time := testutil.UniformTime(0, 250, 500)
	x := testutil.DeterministicNoise(42, 1, 500)

	a, err := NewAnalyzer().Analyze(time, x)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewAnalyzer().Analyze(time, x)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceEqual(t, a.Magnitude, b.Magnitude)
	testutil.RequireSliceEqual(t, a.Frequency, b.Frequency)
}

func TestPeakEmpty(t *testing.T) {
	spec := &Spectrum{Frequency: []float64{0}, Magnitude: []float64{1}, SampleRate: 2, Samples: 2}
	if _, ok := spec.Peak(true); ok {
		t.Fatal("a DC-only spectrum has no non-DC peak")
	}
	if p, ok := spec.Peak(false); !ok || p.Bin != 0 {
		t.Fatalf("Peak(false) = %+v, %v", p, ok)
	}
}

func TestFFTComputeNormalized(t *testing.T) {
	f := NewFFT()
	coeffs := f.ComputeNormalized([]float64{1, 1, 1, 1})
	want := []complex128{1, 0, 0, 0}
	for i := range want {
		if cmplx.Abs(coeffs[i]-want[i]) > 1e-12 {
			t.Fatalf("coeffs = %v, want %v", coeffs, want)
		}
	}

	if len(f.Compute(nil)) != 0 || len(f.ComputeNormalized(nil)) != 0 {
		t.Fatal("empty input should give empty output")
	}
}

func TestCentroidAndRolloff(t *testing.T) {
	spec := &Spectrum{
		Frequency: []float64{0, 1, 2, 3},
		Magnitude: []float64{0, 1, 0, 1},
	}
	if got := spec.Centroid(); got != 2 {
		t.Fatalf("Centroid = %v, want 2", got)
	}
	if got := spec.Rolloff(0.5); got != 1 {
		t.Fatalf("Rolloff(0.5) = %v, want 1", got)
	}
	if got := spec.Rolloff(DefaultRolloffThreshold); got != 3 {
		t.Fatalf("Rolloff(0.85) = %v, want 3", got)
	}

	silent := &Spectrum{Frequency: []float64{0, 1}, Magnitude: []float64{0, 0}}
	if silent.Centroid() != 0 || silent.Rolloff(0.85) != 0 {
		t.Fatal("silent spectrum should give zero centroid and rolloff")
	}
}

// Package signal holds the sample series shared by the loader, the filter
// bank and the spectral analyzer, together with their error taxonomy.
package signal

// MinSpectrumLength is the shortest series the spectral analyzer accepts.
const MinSpectrumLength = 2

// Series is an ordered run of (time, amplitude) samples. Time is expected
// to be strictly increasing and uniformly spaced; the sampling interval is
// derived from the endpoints, never stored.
type Series struct {
	Time      []float64 `json:"time" msgpack:"time"`
	Amplitude []float64 `json:"amplitude" msgpack:"amplitude"`
}

// New pairs time and amplitude. Both slices are retained, not copied.
func New(time, amplitude []float64) (*Series, error) {
	if len(time) != len(amplitude) {
		return nil, Invalidf("signal.New", "time has %d samples, amplitude has %d", len(time), len(amplitude))
	}
	return &Series{Time: time, Amplitude: amplitude}, nil
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Amplitude)
}

// Validate checks the equal-length invariant and that at least min samples
// are present.
func (s *Series) Validate(op string, min int) error {
	if s == nil {
		return Invalidf(op, "nil series")
	}
	if len(s.Time) != len(s.Amplitude) {
		return Invalidf(op, "time has %d samples, amplitude has %d", len(s.Time), len(s.Amplitude))
	}
	if len(s.Amplitude) < min {
		return Invalidf(op, "series has %d samples, need at least %d", len(s.Amplitude), min)
	}
	return nil
}

// Span returns the first and last timestamps. It panics on an empty series.
func (s *Series) Span() (start, end float64) {
	return s.Time[0], s.Time[len(s.Time)-1]
}

// Clone returns a deep copy.
func (s *Series) Clone() *Series {
	return &Series{
		Time:      append([]float64(nil), s.Time...),
		Amplitude: append([]float64(nil), s.Amplitude...),
	}
}

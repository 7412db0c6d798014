package spectral

// DefaultRolloffThreshold is the energy fraction used for rolloff.
const DefaultRolloffThreshold = 0.85

// Centroid returns the magnitude-weighted mean frequency of s, or 0 for
// an all-zero spectrum.
func (s *Spectrum) Centroid() float64 {
	numerator := 0.0
	denominator := 0.0

	for i, mag := range s.Magnitude {
		numerator += s.Frequency[i] * mag
		denominator += mag
	}

	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Rolloff returns the lowest bin frequency below which threshold (0..1)
// of the spectral energy lies. An all-zero spectrum gives 0.
func (s *Spectrum) Rolloff(threshold float64) float64 {
	if len(s.Magnitude) == 0 {
		return 0
	}

	totalEnergy := 0.0
	for _, mag := range s.Magnitude {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return 0
	}

	targetEnergy := threshold * totalEnergy
	cumulativeEnergy := 0.0
	for i, mag := range s.Magnitude {
		cumulativeEnergy += mag * mag
		if cumulativeEnergy >= targetEnergy {
			return s.Frequency[i]
		}
	}

	// rounding can leave the sum a hair short of the target
	return s.Frequency[len(s.Frequency)-1]
}

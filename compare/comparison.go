// Package compare runs one filter over one signal and hands the raw and
// filtered series, plus their spectra, to a Reporter.
package compare

import (
	"context"

	"github.com/RyanBlaney/filterscope/algorithms/common"
	"github.com/RyanBlaney/filterscope/algorithms/filters"
	"github.com/RyanBlaney/filterscope/algorithms/spectral"
	"github.com/RyanBlaney/filterscope/signal"
)

// Comparison is everything a reporter needs to draw the two-panel view:
// time domain raw vs filtered, frequency domain raw vs filtered.
//
// The raw and filtered spectra can have different frequency axes when
// the filter trimmed samples.
type Comparison struct {
	Signal           string             `json:"signal" msgpack:"signal"`
	Kind             filters.Kind       `json:"kind" msgpack:"kind"`
	Params           string             `json:"params" msgpack:"params"`
	Raw              *signal.Series     `json:"raw" msgpack:"raw"`
	Filtered         *signal.Series     `json:"filtered" msgpack:"filtered"`
	RawSpectrum      *spectral.Spectrum `json:"raw_spectrum" msgpack:"raw_spectrum"`
	FilteredSpectrum *spectral.Spectrum `json:"filtered_spectrum" msgpack:"filtered_spectrum"`
	Warnings         []filters.Warning  `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
	Stats            Stats              `json:"stats" msgpack:"stats"`
}

// Stats summarises both series.
type Stats struct {
	RawMean        float64 `json:"raw_mean" msgpack:"raw_mean"`
	RawStdDev      float64 `json:"raw_std_dev" msgpack:"raw_std_dev"`
	FilteredMean   float64 `json:"filtered_mean" msgpack:"filtered_mean"`
	FilteredStdDev float64 `json:"filtered_std_dev" msgpack:"filtered_std_dev"`

	RawCentroid      float64 `json:"raw_centroid" msgpack:"raw_centroid"`
	FilteredCentroid float64 `json:"filtered_centroid" msgpack:"filtered_centroid"`
	RawRolloff       float64 `json:"raw_rolloff" msgpack:"raw_rolloff"`
	FilteredRolloff  float64 `json:"filtered_rolloff" msgpack:"filtered_rolloff"`

	// RawPeak and FilteredPeak are the strongest non-DC bins; nil when
	// the spectrum has only a DC bin.
	RawPeak      *spectral.Peak `json:"raw_peak,omitempty" msgpack:"raw_peak,omitempty"`
	FilteredPeak *spectral.Peak `json:"filtered_peak,omitempty" msgpack:"filtered_peak,omitempty"`
}

func computeStats(raw, filtered *signal.Series, rawSpec, filteredSpec *spectral.Spectrum) Stats {
	st := Stats{
		RawMean:        common.Mean(raw.Amplitude),
		RawStdDev:      common.StandardDeviation(raw.Amplitude),
		FilteredMean:   common.Mean(filtered.Amplitude),
		FilteredStdDev: common.StandardDeviation(filtered.Amplitude),

		RawCentroid:      rawSpec.Centroid(),
		FilteredCentroid: filteredSpec.Centroid(),
		RawRolloff:       rawSpec.Rolloff(spectral.DefaultRolloffThreshold),
		FilteredRolloff:  filteredSpec.Rolloff(spectral.DefaultRolloffThreshold),
	}
	if p, ok := rawSpec.Peak(true); ok {
		st.RawPeak = &p
	}
	if p, ok := filteredSpec.Peak(true); ok {
		st.FilteredPeak = &p
	}
	return st
}

// Reporter renders and stores a comparison. It returns where the
// artifact went. Implementations must not leave a partial artifact
// behind when they fail.
type Reporter interface {
	Report(ctx context.Context, c *Comparison) (string, error)
}

package quality

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultHistogramBins is the number of equal-width bins.
	DefaultHistogramBins = 256
	// DefaultHistogramRange is the exclusive upper bound of the binned intensities.
	DefaultHistogramRange = 1 << 16
)

// Histogram counts the samples of img in bins equal-width bins over [0, upper).
// Samples at or above upper are ignored.
func Histogram(img *Image, bins int, upper float64) ([]float64, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("invalid bin count: %d", bins)
	}
	if upper <= 0 {
		return nil, fmt.Errorf("invalid histogram range: [0, %g)", upper)
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, 0, upper)

	samples := make([]float64, 0, len(img.Pix))
	for _, v := range img.Pix {
		if f := float64(v); f < upper {
			samples = append(samples, f)
		}
	}
	if len(samples) == 0 {
		return make([]float64, bins), nil
	}
	sort.Float64s(samples)

	return stat.Histogram(nil, dividers, samples, nil), nil
}

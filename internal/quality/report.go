package quality

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultThreshold separates signal from noise, in raw intensity units.
const DefaultThreshold uint16 = 300

// Report holds the region statistics and derived metrics of one image.
type Report struct {
	Threshold        uint16
	SignalPixels     int
	NoisePixels      int
	BackgroundPixels int
	SignalMean       float64
	NoiseMean        float64
	SignalPower      float64
	NoisePower       float64
	SignalContrast   float64
	SNR              float64
	CNR              float64
}

// Analyze partitions img into signal and noise regions at threshold and
// computes power, contrast, SNR and CNR over them.
//
// An empty signal region gives zero signal power and contrast. An empty
// noise region gives zero noise power, so SNR and CNR are not finite.
func Analyze(img *Image, threshold uint16) (Report, error) {
	signal := SignalMask(img, threshold)
	noise := NoiseMask(img, threshold)
	if err := ValidateNoiseMask(img, noise); err != nil {
		return Report{}, err
	}

	signalValues := Values(img, signal)
	noiseValues := Values(img, noise)

	r := Report{
		Threshold:    threshold,
		SignalPixels: len(signalValues),
		NoisePixels:  len(noiseValues),
	}
	for _, v := range img.Pix {
		if v == 0 {
			r.BackgroundPixels++
		}
	}

	if len(signalValues) > 0 {
		r.SignalMean = stat.Mean(signalValues, nil)
		r.SignalPower = meanSquare(signalValues)
		r.SignalContrast = floats.Max(signalValues) - floats.Min(signalValues)
	}
	if len(noiseValues) > 0 {
		r.NoiseMean = stat.Mean(noiseValues, nil)
		r.NoisePower = meanSquare(noiseValues)
	}

	r.SNR = ComputeSNR(r.SignalPower, r.NoisePower)
	r.CNR = ComputeCNR(r.SignalContrast, r.NoisePower)
	return r, nil
}

func meanSquare(values []float64) float64 {
	return floats.Dot(values, values) / float64(len(values))
}

// Format writes the report as human-readable text.
func (r Report) Format(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Threshold:        %d\n"+
			"Signal pixels:    %d\n"+
			"Noise pixels:     %d\n"+
			"Background:       %d\n"+
			"Signal power:     %.2f\n"+
			"Noise power:      %.2f\n"+
			"Signal contrast:  %.2f\n"+
			"SNR:              %.4f\n"+
			"CNR:              %.4f\n",
		r.Threshold, r.SignalPixels, r.NoisePixels, r.BackgroundPixels,
		r.SignalPower, r.NoisePower, r.SignalContrast, r.SNR, r.CNR)
	return err
}

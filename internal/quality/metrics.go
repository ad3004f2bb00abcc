package quality

import "math"

// ComputeSNR returns sqrt(signalPower/noisePower).
// A zero noise power yields +Inf or NaN rather than an error.
func ComputeSNR(signalPower, noisePower float64) float64 {
	return math.Sqrt(signalPower / noisePower)
}

// ComputeCNR returns signalContrast/sqrt(noisePower).
// A zero noise power yields +Inf or NaN rather than an error.
func ComputeCNR(signalContrast, noisePower float64) float64 {
	return signalContrast / math.Sqrt(noisePower)
}

package quality

import (
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestHistogram_Bins(t *testing.T) {
	img := mustImage(t, 5, 1, 0, 255, 256, 500, 65535)

	counts, err := Histogram(img, DefaultHistogramBins, DefaultHistogramRange)
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	if len(counts) != DefaultHistogramBins {
		t.Fatalf("Expected %d bins, got %d", DefaultHistogramBins, len(counts))
	}

	want := map[int]float64{0: 2, 1: 2, 255: 1}
	for bin, c := range want {
		if counts[bin] != c {
			t.Errorf("bin %d = %v, want %v", bin, counts[bin], c)
		}
	}
	if total := floats.Sum(counts); total != 5 {
		t.Errorf("Histogram total = %v, want 5", total)
	}
}

func TestHistogram_IgnoresOutOfRange(t *testing.T) {
	img := mustImage(t, 3, 1, 10, 4095, 5000)

	counts, err := Histogram(img, 16, 4096)
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}
	if total := floats.Sum(counts); total != 2 {
		t.Errorf("Histogram total = %v, want 2", total)
	}
}

func TestHistogram_InvalidParameters(t *testing.T) {
	img := mustImage(t, 1, 1, 1)

	if _, err := Histogram(img, 0, DefaultHistogramRange); err == nil {
		t.Error("Expected error for zero bins")
	}
	if _, err := Histogram(img, 8, 0); err == nil {
		t.Error("Expected error for empty range")
	}
}

package quality

import (
	"errors"
	"testing"
)

func mustImage(t *testing.T, width, height int, pixels ...uint16) *Image {
	t.Helper()
	img, err := NewImage(width, height, pixels)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	return img
}

func TestNewImage_Validation(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		pixels []uint16
	}{
		{"zero width", 0, 1, nil},
		{"negative height", 2, -1, nil},
		{"length mismatch", 2, 2, []uint16{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewImage(tt.width, tt.height, tt.pixels); err == nil {
				t.Errorf("Expected error for %dx%d with %d pixels", tt.width, tt.height, len(tt.pixels))
			}
		})
	}
}

func TestMasks_AllZeroImage(t *testing.T) {
	img := mustImage(t, 3, 2, 0, 0, 0, 0, 0, 0)

	if m := SignalMask(img, DefaultThreshold); !m.Empty() {
		t.Errorf("Signal mask should be empty, got %d pixels", m.Count())
	}
	if m := NoiseMask(img, DefaultThreshold); !m.Empty() {
		t.Errorf("Noise mask should be empty, got %d pixels", m.Count())
	}
}

func TestMasks_ThreeValueImage(t *testing.T) {
	img := mustImage(t, 3, 1, 0, 100, 500)

	signal := SignalMask(img, 300)
	if got := Values(img, signal); len(got) != 1 || got[0] != 500 {
		t.Errorf("Signal mask should select only 500, got %v", got)
	}

	noise := NoiseMask(img, 300)
	if got := Values(img, noise); len(got) != 1 || got[0] != 100 {
		t.Errorf("Noise mask should select only 100, got %v", got)
	}

	if signal.Overlaps(noise) {
		t.Errorf("Signal and noise masks should be disjoint")
	}

	motion, err := MotionMask(img, img, DefaultMotionThreshold)
	if err != nil {
		t.Fatalf("MotionMask failed: %v", err)
	}
	if !motion.Empty() {
		t.Errorf("Motion mask of an image with itself should be all false, got %d pixels", motion.Count())
	}
}

func TestMasks_ThresholdValueInNeitherRegion(t *testing.T) {
	img := mustImage(t, 2, 1, 300, 301)

	if got := SignalMask(img, 300).Bits; got[0] || !got[1] {
		t.Errorf("Signal mask = %v, want [false true]", got)
	}
	if got := NoiseMask(img, 300).Bits; got[0] || got[1] {
		t.Errorf("Noise mask = %v, want [false false]", got)
	}
}

func TestMasks_Disjoint(t *testing.T) {
	pixels := make([]uint16, 0, 1024)
	for v := 0; v < 1024; v++ {
		pixels = append(pixels, uint16(v*37))
	}
	img := mustImage(t, 32, 32, pixels...)

	thresholds := []uint16{0, 1, 300, 4095, 65535}
	for _, th := range thresholds {
		signal := SignalMask(img, th)
		noise := NoiseMask(img, th)
		if signal.Overlaps(noise) {
			t.Errorf("Masks overlap at threshold %d", th)
		}
		if err := ValidateNoiseMask(img, noise); err != nil {
			t.Errorf("Noise mask at threshold %d should be valid: %v", th, err)
		}
	}
}

func TestValidateNoiseMask_ZeroPixelSelected(t *testing.T) {
	img := mustImage(t, 3, 1, 0, 100, 500)
	mask := NewMask(3, 1)
	mask.Bits[0] = true
	mask.Bits[1] = true

	err := ValidateNoiseMask(img, mask)
	if err == nil {
		t.Fatal("Expected invariant failure for mask selecting a zero pixel")
	}
	if !errors.Is(err, ErrNoiseInvariant) {
		t.Errorf("Expected ErrNoiseInvariant, got %v", err)
	}
}

func TestValidateNoiseMask_ShapeMismatch(t *testing.T) {
	img := mustImage(t, 2, 1, 1, 2)
	err := ValidateNoiseMask(img, NewMask(1, 2))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

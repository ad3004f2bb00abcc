package quality

import (
	"errors"
	"fmt"
)

// ErrNoiseInvariant is returned when a noise mask selects a pixel that is not strictly positive.
var ErrNoiseInvariant = errors.New("noise mask selects non-positive intensity")

// Mask marks a subset of the pixels of an Image.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask returns an empty mask of the given shape.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// Count returns the number of selected pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is selected.
func (m *Mask) Empty() bool {
	for _, b := range m.Bits {
		if b {
			return false
		}
	}
	return true
}

// Overlaps reports whether any pixel is selected in both masks.
func (m *Mask) Overlaps(other *Mask) bool {
	if len(m.Bits) != len(other.Bits) {
		return false
	}
	for i, b := range m.Bits {
		if b && other.Bits[i] {
			return true
		}
	}
	return false
}

// SignalMask selects pixels whose intensity is above threshold.
func SignalMask(img *Image, threshold uint16) *Mask {
	m := NewMask(img.Width, img.Height)
	for i, v := range img.Pix {
		m.Bits[i] = v > threshold
	}
	return m
}

// NoiseMask selects pixels with 0 < intensity < threshold.
// Background (zero) pixels and pixels equal to threshold are left out.
func NoiseMask(img *Image, threshold uint16) *Mask {
	m := NewMask(img.Width, img.Height)
	for i, v := range img.Pix {
		m.Bits[i] = v > 0 && v < threshold
	}
	return m
}

// ValidateNoiseMask checks that every pixel selected by mask has a strictly positive intensity.
func ValidateNoiseMask(img *Image, mask *Mask) error {
	if img.Width != mask.Width || img.Height != mask.Height {
		return fmt.Errorf("%w: image %dx%d, mask %dx%d", ErrShapeMismatch, img.Width, img.Height, mask.Width, mask.Height)
	}
	for i, sel := range mask.Bits {
		if sel && img.Pix[i] == 0 {
			return fmt.Errorf("%w: pixel (%d,%d)", ErrNoiseInvariant, i%img.Width, i/img.Width)
		}
	}
	return nil
}

// Values returns the intensities of the pixels selected by mask, in row-major order.
func Values(img *Image, mask *Mask) []float64 {
	out := make([]float64, 0, mask.Count())
	for i, sel := range mask.Bits {
		if sel {
			out = append(out, float64(img.Pix[i]))
		}
	}
	return out
}

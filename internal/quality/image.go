// Package quality computes image-quality metrics on single-frame intensity images.
package quality

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when two images or an image and a mask differ in size.
var ErrShapeMismatch = errors.New("shape mismatch")

// Image is a row-major grid of raw intensity samples.
type Image struct {
	Width  int
	Height int
	Pix    []uint16
}

// NewImage wraps pixels into an Image, validating dimensions.
func NewImage(width, height int, pixels []uint16) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("pixel slice length %d does not match dimensions %dx%d", len(pixels), width, height)
	}
	return &Image{Width: width, Height: height, Pix: pixels}, nil
}

// At returns the sample at column x, row y.
func (img *Image) At(x, y int) uint16 {
	return img.Pix[y*img.Width+x]
}

// Len returns the number of pixels.
func (img *Image) Len() int {
	return len(img.Pix)
}

// Range returns the smallest and largest sample.
func (img *Image) Range() (lo, hi uint16) {
	if len(img.Pix) == 0 {
		return 0, 0
	}
	lo, hi = img.Pix[0], img.Pix[0]
	for _, v := range img.Pix[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func (img *Image) sameShape(other *Image) bool {
	return img.Width == other.Width && img.Height == other.Height
}

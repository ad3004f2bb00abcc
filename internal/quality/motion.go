package quality

import "fmt"

// DefaultMotionThreshold is the absolute intensity change that marks a pixel as moved.
const DefaultMotionThreshold int32 = 3000

// Difference returns the signed pixel-wise difference a - b.
func Difference(a, b *Image) ([]int32, error) {
	if !a.sameShape(b) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	diff := make([]int32, len(a.Pix))
	for i := range a.Pix {
		diff[i] = int32(a.Pix[i]) - int32(b.Pix[i])
	}
	return diff, nil
}

// MotionMask marks pixels where |a - b| exceeds threshold.
// The comparison is pointwise; no registration or filtering is applied.
func MotionMask(a, b *Image, threshold int32) (*Mask, error) {
	diff, err := Difference(a, b)
	if err != nil {
		return nil, err
	}
	m := NewMask(a.Width, a.Height)
	for i, d := range diff {
		if d < 0 {
			d = -d
		}
		m.Bits[i] = d > threshold
	}
	return m, nil
}

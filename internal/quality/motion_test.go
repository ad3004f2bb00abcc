package quality

import (
	"errors"
	"testing"
)

func TestDifference_Signed(t *testing.T) {
	a := mustImage(t, 3, 1, 0, 5000, 100)
	b := mustImage(t, 3, 1, 4000, 1000, 100)

	diff, err := Difference(a, b)
	if err != nil {
		t.Fatalf("Difference failed: %v", err)
	}

	want := []int32{-4000, 4000, 0}
	for i := range want {
		if diff[i] != want[i] {
			t.Errorf("diff[%d] = %d, want %d", i, diff[i], want[i])
		}
	}
}

func TestMotionMask_Threshold(t *testing.T) {
	a := mustImage(t, 4, 1, 0, 5000, 100, 3000)
	b := mustImage(t, 4, 1, 4000, 1000, 100, 0)

	mask, err := MotionMask(a, b, DefaultMotionThreshold)
	if err != nil {
		t.Fatalf("MotionMask failed: %v", err)
	}

	// |3000 - 0| is not strictly above the threshold
	want := []bool{true, true, false, false}
	for i := range want {
		if mask.Bits[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask.Bits[i], want[i])
		}
	}
}

func TestMotionMask_ShapeMismatch(t *testing.T) {
	a := mustImage(t, 2, 2, 1, 2, 3, 4)
	b := mustImage(t, 4, 1, 1, 2, 3, 4)

	if _, err := MotionMask(a, b, DefaultMotionThreshold); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

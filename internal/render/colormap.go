// Package render draws images, masks and histograms into PNG figures.
package render

import "image/color"

// stop is one control point of a piecewise-linear color channel.
type stop struct {
	at, value float64
}

// Control points of the "bone" colormap: grayscale with a blue tint in the darks.
var (
	boneRed   = []stop{{0, 0}, {0.746032, 0.652778}, {1, 1}}
	boneGreen = []stop{{0, 0}, {0.365079, 0.319444}, {0.746032, 0.777778}, {1, 1}}
	boneBlue  = []stop{{0, 0}, {0.365079, 0.444444}, {1, 1}}
)

func interpolate(stops []stop, t float64) float64 {
	if t <= stops[0].at {
		return stops[0].value
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].at {
			a, b := stops[i-1], stops[i]
			return a.value + (t-a.at)/(b.at-a.at)*(b.value-a.value)
		}
	}
	return stops[len(stops)-1].value
}

// Bone maps t in [0, 1] to the bone colormap. Values outside are clamped.
func Bone(t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(interpolate(boneRed, t)*255 + 0.5),
		G: uint8(interpolate(boneGreen, t)*255 + 0.5),
		B: uint8(interpolate(boneBlue, t)*255 + 0.5),
		A: 255,
	}
}

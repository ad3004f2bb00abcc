package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/mrsinham/dicomqa/internal/quality"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// PanelSize is the side of the square drawing area of a panel.
	PanelSize = 256
	// TitleHeight is the height of the title bar above each panel.
	TitleHeight = 20
)

var (
	titleBackground = color.RGBA{32, 32, 32, 255}
	titleForeground = color.RGBA{255, 255, 255, 255}
)

// Image renders img with the bone colormap, scaled to fit a panel.
// Intensities are normalized between the image minimum and maximum.
func Image(img *quality.Image, title string) *image.RGBA {
	lo, hi := img.Range()
	span := float64(hi) - float64(lo)

	src := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			t := 0.0
			if span > 0 {
				t = (float64(img.At(x, y)) - float64(lo)) / span
			}
			src.SetRGBA(x, y, Bone(t))
		}
	}
	return panel(src, title, draw.BiLinear)
}

// Mask renders selected pixels white on black, scaled to fit a panel.
func Mask(m *quality.Mask, title string) *image.RGBA {
	src := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, sel := range m.Bits {
		if sel {
			src.Pix[i] = 255
		}
	}
	return panel(src, title, draw.NearestNeighbor)
}

// panel scales src into a PanelSize square, keeping its aspect ratio, and
// puts a title bar on top.
func panel(src image.Image, title string, scaler draw.Scaler) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, PanelSize, PanelSize+TitleHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	sb := src.Bounds()
	w, h := PanelSize, PanelSize
	if sb.Dx() > sb.Dy() {
		h = PanelSize * sb.Dy() / sb.Dx()
	} else if sb.Dy() > sb.Dx() {
		w = PanelSize * sb.Dx() / sb.Dy()
	}
	x0 := (PanelSize - w) / 2
	y0 := TitleHeight + (PanelSize-h)/2
	scaler.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, sb, draw.Over, nil)

	drawTitle(dst, title)
	return dst
}

// drawTitle writes title centered in the title bar of dst.
func drawTitle(dst *image.RGBA, title string) {
	bar := image.Rect(0, 0, dst.Bounds().Dx(), TitleHeight)
	draw.Draw(dst, bar, image.NewUniform(titleBackground), image.Point{}, draw.Src)
	if title == "" {
		return
	}

	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, title).Ceil()
	x := (bar.Dx() - textWidth) / 2
	if x < 2 {
		x = 2
	}
	metrics := face.Metrics()
	y := (TitleHeight+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2 + 1

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(titleForeground),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(title)
}

// Row places images side by side, top-aligned, on a white background.
func Row(images ...image.Image) *image.RGBA {
	width, height := 0, 0
	for _, img := range images {
		b := img.Bounds()
		width += b.Dx()
		height = max(height, b.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	x := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(dst, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Src)
		x += b.Dx()
	}
	return dst
}

// SavePNG encodes img as PNG at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

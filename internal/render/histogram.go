package render

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// HistogramWidth is the pixel width of a histogram figure. Its height matches a panel.
const HistogramWidth = 360

// intensityTicks labels bin positions with the intensity they start at,
// one major tick per quarter of the range.
type intensityTicks struct {
	bins  int
	upper float64
}

// Ticks implements plot.Ticker.
func (t intensityTicks) Ticks(lo, hi float64) []plot.Tick {
	const divisions = 4
	ticks := make([]plot.Tick, 0, divisions+1)
	for i := 0; i <= divisions; i++ {
		pos := float64(t.bins) * float64(i) / divisions
		if pos < lo || pos > hi {
			continue
		}
		label := strconv.FormatFloat(t.upper*float64(i)/divisions, 'f', -1, 64)
		ticks = append(ticks, plot.Tick{Value: pos, Label: label})
	}
	return ticks
}

// Histogram plots bin counts as a line over bin indices, with x ticks
// labelled in raw intensity units over [0, upper).
func Histogram(counts []float64, upper float64, title string) (image.Image, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("empty histogram")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Intensity"
	p.Y.Label.Text = "Pixels"

	xys := make(plotter.XYs, len(counts))
	for i, c := range counts {
		xys[i].X = float64(i)
		xys[i].Y = c
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("histogram line: %w", err)
	}
	p.Add(line)

	p.X.Min = 0
	p.X.Max = float64(len(counts))
	p.X.Tick.Marker = intensityTicks{bins: len(counts), upper: upper}
	p.X.Tick.Label.Rotation = math.Pi / 4

	// At 72 DPI one point is one pixel.
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Points(HistogramWidth), vg.Points(PanelSize+TitleHeight)),
		vgimg.UseDPI(72),
	)
	p.Draw(vgdraw.New(c))
	return c.Image(), nil
}

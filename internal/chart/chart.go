// Package chart builds the post-flight review charts: control loop
// tracking, raw sensor streams, GPS quality, actuator outputs and flight
// mode timelines. Builders return a Figure that renders one or more
// vertically stacked plots to a PNG.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	defaultWidth     = 10 * vg.Inch
	defaultRowHeight = 3 * vg.Inch

	timeLabel = "t, sec"
)

// Figure is a vertical stack of plots sharing a PNG canvas.
type Figure struct {
	rows []*plot.Plot

	// Width and RowHeight size the rendered canvas. Zero values use the
	// package defaults.
	Width     vg.Length
	RowHeight vg.Length
}

func newFigure(rows ...*plot.Plot) *Figure {
	return &Figure{rows: rows}
}

// Save renders the figure to a PNG file.
func (fig *Figure) Save(path string) error {
	if len(fig.rows) == 0 {
		return fmt.Errorf("figure has no plots")
	}

	width := fig.Width
	if width == 0 {
		width = defaultWidth
	}
	rowHeight := fig.RowHeight
	if rowHeight == 0 {
		rowHeight = defaultRowHeight
	}

	img := vgimg.New(width, rowHeight*vg.Length(len(fig.rows)))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: len(fig.rows),
		Cols: 1,
		PadY: vg.Millimeter,
	}

	plots := make([][]*plot.Plot, len(fig.rows))
	for i, p := range fig.rows {
		plots[i] = []*plot.Plot{p}
	}

	canvases := plot.Align(plots, tiles, dc)
	for i, p := range fig.rows {
		p.Draw(canvases[i][0])
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(out); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

// series converts a time-indexed signal into plot points, dropping NaN
// cells and applying a unit scale.
func series(times, values []float64, scale float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i := range values {
		if math.IsNaN(values[i]) || math.IsNaN(times[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: times[i], Y: values[i] * scale})
	}
	return pts
}

// addLine plots a signal. A non-empty label adds a legend entry; setpoint
// traces pass an empty label and render dashed.
func addLine(p *plot.Plot, label string, pts plotter.XYs, c color.Color, dashed bool) error {
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plotting %s: %w", label, err)
	}
	line.Color = c
	line.Width = vg.Points(1)
	if dashed {
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	p.Add(line)
	if label != "" {
		p.Legend.Add(label, line)
	}
	return nil
}

const radToDeg = 180 / math.Pi

// palette produces n distinguishable line colors around the hue circle.
func palette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.45)
		out[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return out
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

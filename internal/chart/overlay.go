package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/avionics-tools/flightlog/internal/flightlog"
	"github.com/avionics-tools/flightlog/internal/modes"
)

// overlayAlpha is the 30% translucency of the mode bands.
const overlayAlpha = 0x4c

// ModeOverlay shades the background of a plot with one translucent band per
// contiguous flight-mode segment. Add it to a plot before any data lines so
// the bands stay behind the traces.
type ModeOverlay struct {
	Segments []modes.Segment
}

// NewModeOverlay builds an overlay from a frame's commander state series.
// A frame without STAT_MainState yields an empty overlay, which draws
// nothing.
func NewModeOverlay(f *flightlog.Frame) *ModeOverlay {
	states, err := f.Column("STAT_MainState")
	if err != nil {
		return &ModeOverlay{}
	}
	return &ModeOverlay{Segments: modes.Segments(f.Times, states)}
}

// Plot implements plot.Plotter.
func (o *ModeOverlay) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)

	for _, s := range o.Segments {
		x0 := trX(s.Start)
		x1 := trX(s.End)
		if x1 < c.Min.X || x0 > c.Max.X {
			continue
		}
		if x0 < c.Min.X {
			x0 = c.Min.X
		}
		if x1 > c.Max.X {
			x1 = c.Max.X
		}

		c.FillPolygon(translucent(s.Mode.Color()), []vg.Point{
			{X: x0, Y: c.Min.Y},
			{X: x1, Y: c.Min.Y},
			{X: x1, Y: c.Max.Y},
			{X: x0, Y: c.Max.Y},
		})
	}
}

// AddTo attaches the overlay to a plot with one legend entry per distinct
// mode.
func (o *ModeOverlay) AddTo(p *plot.Plot) {
	if len(o.Segments) == 0 {
		return
	}
	p.Add(o)
	for _, m := range modes.Used(o.Segments) {
		p.Legend.Add(m.String(), modeThumbnailer{c: translucent(m.Color())})
	}
}

func translucent(c color.RGBA) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: overlayAlpha}
}

// modeThumbnailer draws the legend swatch for a mode band.
type modeThumbnailer struct {
	c color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (t modeThumbnailer) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(t.c, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Min.X, Y: c.Max.Y},
	})
}

package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/avionics-tools/flightlog/internal/flightlog"
	"github.com/avionics-tools/flightlog/internal/geotrack"
)

// AltitudeOptions clamps the altitude chart's y axis when both bounds are
// set.
type AltitudeOptions struct {
	MinAlt *float64
	MaxAlt *float64
}

// Altitude overlays every altitude source of the log on one chart: the
// rangefinder, the position setpoint, barometric and GPS altitude rebased
// to their first valid sample, and the local position estimate. Z-down
// signals are negated so everything reads as height above start.
func Altitude(f *flightlog.Frame, opts AltitudeOptions) (*Figure, error) {
	p := newPlot("altitude", timeLabel, "altitude, m")
	NewModeOverlay(f).AddTo(p)

	colors := palette(5)
	plotted := 0

	// Older logs label the rangefinder DIST_Bottom instead of
	// DIST_Distance.
	for _, name := range []string{"DIST_Distance", "DIST_Bottom"} {
		if values, err := f.Column(name); err == nil {
			if err := addLine(p, name, series(f.Times, values, 1), colors[0], false); err != nil {
				return nil, err
			}
			plotted++
			break
		}
	}

	if values, err := f.Column("LPSP_Z"); err == nil {
		if err := addLine(p, "LPSP_Z", series(f.Times, values, -1), colors[1], false); err != nil {
			return nil, err
		}
		plotted++
	}
	if values, err := f.Column("SENS_BaroAlt"); err == nil {
		if err := addLine(p, "SENS_BaroAlt", rebased(f.Times, values), colors[2], false); err != nil {
			return nil, err
		}
		plotted++
	}
	if values, err := f.Column("GPS_Alt"); err == nil {
		if err := addLine(p, "GPS_Alt", rebased(f.Times, values), colors[3], false); err != nil {
			return nil, err
		}
		plotted++
	}
	if values, err := f.Column("LPOS_Z"); err == nil {
		if err := addLine(p, "LPOS_Z", series(f.Times, values, -1), colors[4], false); err != nil {
			return nil, err
		}
		plotted++
	}

	if plotted == 0 {
		return nil, fmt.Errorf("altitude: no altitude signals logged")
	}
	if opts.MinAlt != nil && opts.MaxAlt != nil {
		p.Y.Min = *opts.MinAlt
		p.Y.Max = *opts.MaxAlt
	}
	return newFigure(p), nil
}

// rebased shifts a series so its first finite sample becomes zero.
func rebased(times, values []float64) plotter.XYs {
	base := math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) {
			base = v
			break
		}
	}
	pts := make(plotter.XYs, 0, len(values))
	for i := range values {
		if math.IsNaN(values[i]) || math.IsNaN(times[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: times[i], Y: values[i] - base})
	}
	return pts
}

// GroundTrack charts the estimated, measured and commanded ground track in
// local east/north metres, projected around the GPS track centroid.
func GroundTrack(f *flightlog.Frame) (*Figure, error) {
	lats, err := f.Column("GPS_Lat")
	if err != nil {
		return nil, err
	}
	lons, err := f.Column("GPS_Lon")
	if err != nil {
		return nil, err
	}

	proj, err := geotrack.NewProjector(lats, lons)
	if err != nil {
		return nil, fmt.Errorf("ground track: %w", err)
	}

	p := newPlot("ground track", "E, m", "N, m")

	type trackSource struct {
		latCol, lonCol string
		label          string
		shape          draw.GlyphDrawer
		color          color.Color
		radius         vg.Length
	}
	sources := []trackSource{
		{latCol: "GPOS_Lat", lonCol: "GPOS_Lon", label: "est", shape: draw.CircleGlyph{}, color: measuredColor, radius: vg.Points(1)},
		{latCol: "GPS_Lat", lonCol: "GPS_Lon", label: "GPS", shape: draw.CrossGlyph{}, color: color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, radius: vg.Points(2)},
		{latCol: "GPSP_Lat", lonCol: "GPSP_Lon", label: "cmd", shape: draw.RingGlyph{}, color: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, radius: vg.Points(3)},
	}

	plotted := 0
	for _, src := range sources {
		sLat, err := f.Column(src.latCol)
		if err != nil {
			continue
		}
		sLon, err := f.Column(src.lonCol)
		if err != nil {
			continue
		}

		pts := make(plotter.XYs, 0, len(sLat))
		for i := range sLat {
			north, east := proj.Project(sLat[i], sLon[i])
			if math.IsNaN(north) || math.IsNaN(east) {
				continue
			}
			pts = append(pts, plotter.XY{X: east, Y: north})
		}
		if len(pts) == 0 {
			continue
		}

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("plotting %s track: %w", src.label, err)
		}
		scatter.GlyphStyle.Shape = src.shape
		scatter.GlyphStyle.Color = src.color
		scatter.GlyphStyle.Radius = src.radius
		p.Add(scatter)
		p.Legend.Add(src.label, scatter)
		plotted++
	}

	if plotted == 0 {
		return nil, fmt.Errorf("ground track: no position sources logged")
	}
	return newFigure(p), nil
}

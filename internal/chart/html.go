package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/avionics-tools/flightlog/internal/flightlog"
	"github.com/avionics-tools/flightlog/internal/geotrack"
)

// GroundTrackHTML renders an interactive scatter of the ground track,
// colored by altitude, as a standalone HTML page.
func GroundTrackHTML(w io.Writer, f *flightlog.Frame) error {
	lats, err := f.Column("GPS_Lat")
	if err != nil {
		return err
	}
	lons, err := f.Column("GPS_Lon")
	if err != nil {
		return err
	}
	alts, err := f.Column("GPS_Alt")
	if err != nil {
		return err
	}

	proj, err := geotrack.NewProjector(lats, lons)
	if err != nil {
		return fmt.Errorf("ground track: %w", err)
	}

	data := make([]opts.ScatterData, 0, len(lats))
	maxAbs := 1.0
	minAlt, maxAlt := math.Inf(1), math.Inf(-1)
	for i := range lats {
		north, east := proj.Project(lats[i], lons[i])
		if math.IsNaN(north) || math.IsNaN(east) || math.IsNaN(alts[i]) {
			continue
		}
		if math.Abs(east) > maxAbs {
			maxAbs = math.Abs(east)
		}
		if math.Abs(north) > maxAbs {
			maxAbs = math.Abs(north)
		}
		if alts[i] < minAlt {
			minAlt = alts[i]
		}
		if alts[i] > maxAlt {
			maxAlt = alts[i]
		}
		data = append(data, opts.ScatterData{Value: []interface{}{east, north, alts[i]}})
	}
	if len(data) == 0 {
		return fmt.Errorf("ground track: no finite GPS fixes")
	}

	pad := maxAbs * 1.05

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Ground Track", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Ground Track", Subtitle: fmt.Sprintf("points=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "E (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "N (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minAlt),
			Max:        float32(maxAlt),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("track", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	return scatter.Render(w)
}

// AltitudeHTML renders an interactive altitude chart as a standalone HTML
// page, with the same rebased sources as the PNG altitude chart.
func AltitudeHTML(w io.Writer, f *flightlog.Frame) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Altitude", Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Altitude"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "altitude (m)"}),
	)

	xAxis := make([]string, len(f.Times))
	for i, t := range f.Times {
		xAxis[i] = fmt.Sprintf("%.1f", t)
	}
	line.SetXAxis(xAxis)

	addSeries := func(name string, pts []float64) {
		data := make([]opts.LineData, len(pts))
		for i, v := range pts {
			if math.IsNaN(v) {
				data[i] = opts.LineData{Value: nil}
				continue
			}
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data)
	}

	plotted := 0
	if values, err := f.Column("SENS_BaroAlt"); err == nil {
		addSeries("SENS_BaroAlt", rebasedValues(values))
		plotted++
	}
	if values, err := f.Column("GPS_Alt"); err == nil {
		addSeries("GPS_Alt", rebasedValues(values))
		plotted++
	}
	if values, err := f.Column("LPOS_Z"); err == nil {
		addSeries("LPOS_Z", negated(values))
		plotted++
	}
	if plotted == 0 {
		return fmt.Errorf("altitude: no altitude signals logged")
	}

	return line.Render(w)
}

func rebasedValues(values []float64) []float64 {
	base := math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) {
			base = v
			break
		}
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v - base
	}
	return out
}

func negated(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = -v
	}
	return out
}

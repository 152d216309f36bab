package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

var (
	measuredColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	setpointColor = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// loopRow describes one subplot of a control loop stack: a measured signal,
// an optional setpoint trace and the y axis annotation.
type loopRow struct {
	measured string
	setpoint string
	yLabel   string
	scale    float64
}

// loopStack builds a stacked figure with one subplot per row, measured
// signal against setpoint, with flight mode shading behind each. The
// measured column is required; a missing setpoint column is skipped, since
// logs only carry setpoints for loops that were closed during the flight.
func loopStack(f *flightlog.Frame, title string, rows []loopRow) (*Figure, error) {
	overlay := NewModeOverlay(f)

	plots := make([]*plot.Plot, 0, len(rows))
	for i, row := range rows {
		rowTitle := ""
		if i == 0 {
			rowTitle = title
		}
		xLabel := ""
		if i == len(rows)-1 {
			xLabel = timeLabel
		}

		p := newPlot(rowTitle, xLabel, row.yLabel)
		overlay.AddTo(p)

		values, err := f.Column(row.measured)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", title, err)
		}
		if err := addLine(p, row.measured, series(f.Times, values, row.scale), measuredColor, false); err != nil {
			return nil, err
		}

		if row.setpoint != "" {
			if sp, err := f.Column(row.setpoint); err == nil {
				if err := addLine(p, "", series(f.Times, sp, row.scale), setpointColor, true); err != nil {
					return nil, err
				}
			}
		}
		plots = append(plots, p)
	}
	return newFigure(plots...), nil
}

// AttitudeLoops charts the roll, pitch and yaw attitude loops in degrees,
// measured against setpoint.
func AttitudeLoops(f *flightlog.Frame) (*Figure, error) {
	return loopStack(f, "attitude", []loopRow{
		{measured: "ATT_Roll", setpoint: "ATSP_RollSP", yLabel: "roll, deg", scale: radToDeg},
		{measured: "ATT_Pitch", setpoint: "ATSP_PitchSP", yLabel: "pitch, deg", scale: radToDeg},
		{measured: "ATT_Yaw", setpoint: "ATSP_YawSP", yLabel: "yaw, deg", scale: radToDeg},
	})
}

// AttitudeRateLoops charts the body rate loops in degrees per second.
func AttitudeRateLoops(f *flightlog.Frame) (*Figure, error) {
	return loopStack(f, "attitude rate control", []loopRow{
		{measured: "ATT_RollRate", setpoint: "ARSP_RollRateSP", yLabel: "roll, deg/s", scale: radToDeg},
		{measured: "ATT_PitchRate", setpoint: "ARSP_PitchRateSP", yLabel: "pitch, deg/s", scale: radToDeg},
		{measured: "ATT_YawRate", setpoint: "ARSP_YawRateSP", yLabel: "yaw, deg/s", scale: radToDeg},
	})
}

// AttitudeControlLoops charts the attitude controller outputs.
func AttitudeControlLoops(f *flightlog.Frame) (*Figure, error) {
	return loopStack(f, "attitude control", []loopRow{
		{measured: "ATTC_Roll", yLabel: "roll, deg/s", scale: radToDeg},
		{measured: "ATTC_Pitch", yLabel: "pitch, deg/s", scale: radToDeg},
		{measured: "ATTC_Yaw", yLabel: "yaw, deg/s", scale: radToDeg},
	})
}

// VelocityLoops charts local velocity against its setpoint per axis.
func VelocityLoops(f *flightlog.Frame) (*Figure, error) {
	return loopStack(f, "velocity control", []loopRow{
		{measured: "LPOS_VX", setpoint: "LPSP_VX", yLabel: "x, m/s", scale: 1},
		{measured: "LPOS_VY", setpoint: "LPSP_VY", yLabel: "y, m/s", scale: 1},
		{measured: "LPOS_VZ", setpoint: "LPSP_VZ", yLabel: "z, m/s", scale: 1},
	})
}

// PositionLoops charts local position against its setpoint per axis.
func PositionLoops(f *flightlog.Frame) (*Figure, error) {
	return loopStack(f, "position control", []loopRow{
		{measured: "LPOS_X", setpoint: "LPSP_X", yLabel: "x, m", scale: 1},
		{measured: "LPOS_Y", setpoint: "LPSP_Y", yLabel: "y, m", scale: 1},
		{measured: "LPOS_Z", setpoint: "LPSP_Z", yLabel: "z, m", scale: 1},
	})
}

// ControlLoops builds every control loop figure, keyed by chart name.
func ControlLoops(f *flightlog.Frame) (map[string]*Figure, error) {
	builders := map[string]func(*flightlog.Frame) (*Figure, error){
		"attitude_rate_loops": AttitudeRateLoops,
		"attitude_loops":      AttitudeLoops,
		"velocity_loops":      VelocityLoops,
		"position_loops":      PositionLoops,
	}

	out := make(map[string]*Figure, len(builders))
	for name, build := range builders {
		fig, err := build(f)
		if err != nil {
			return nil, err
		}
		out[name] = fig
	}
	return out, nil
}

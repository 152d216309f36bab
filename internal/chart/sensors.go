package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/avionics-tools/flightlog/internal/flightlog"
	"github.com/avionics-tools/flightlog/internal/modes"
	"github.com/avionics-tools/flightlog/internal/stats"
)

// multiSeries plots every listed column that exists in the frame on one
// set of axes with mode shading. At least one column must be present.
func multiSeries(f *flightlog.Frame, title, yLabel string, columns, labels []string, scale float64) (*Figure, error) {
	p := newPlot(title, timeLabel, yLabel)
	NewModeOverlay(f).AddTo(p)

	colors := palette(len(columns))
	plotted := 0
	for i, name := range columns {
		values, err := f.Column(name)
		if err != nil {
			continue
		}
		label := name
		if labels != nil && i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		if err := addLine(p, label, series(f.Times, values, scale), colors[i], false); err != nil {
			return nil, err
		}
		plotted++
	}
	if plotted == 0 {
		return nil, fmt.Errorf("%s: none of %v logged", title, columns)
	}
	return newFigure(p), nil
}

// rcChannels are the logged RC input channels. RC_C3 carries no input on
// the logged airframes and is skipped.
var rcChannels = []string{
	"RC_C0", "RC_C1", "RC_C2", "RC_C4", "RC_C5", "RC_C6",
	"RC_C7", "RC_C8", "RC_C9", "RC_C10", "RC_C11",
}

// RCInputs charts the normalised RC input channels as percentages. An
// optional channel mapping replaces raw channel names in the legend.
func RCInputs(f *flightlog.Frame, channelLabels []string) (*Figure, error) {
	return multiSeries(f, "RC Inputs", "Normalized Inputs (%)", rcChannels, channelLabels, 100)
}

// RawAcceleration charts the raw accelerometer stream.
func RawAcceleration(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Raw Acceleration", "m/s^2",
		[]string{"IMU_AccX", "IMU_AccY", "IMU_AccZ"}, nil, 1)
}

// RawAngularSpeed charts the raw gyro stream in degrees per second.
func RawAngularSpeed(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Raw Angular Speed", "deg/s",
		[]string{"IMU_GyroX", "IMU_GyroY", "IMU_GyroZ"}, nil, radToDeg)
}

// RawMagneticField charts the raw magnetometer stream.
func RawMagneticField(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Raw Magnetic Field Strength", "",
		[]string{"IMU_MagX", "IMU_MagY", "IMU_MagZ"}, nil, 1)
}

// GPSStats charts the GPS quality indicators: horizontal and vertical
// dilution and satellite count.
func GPSStats(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "GPS Statistics", "",
		[]string{"GPS_EPH", "GPS_EPV", "GPS_nSat"}, nil, 1)
}

// DistanceSensor charts the rangefinder distance and its covariance.
func DistanceSensor(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Distance Sensor", "",
		[]string{"DIST_Distance", "DIST_Covariance"}, nil, 1)
}

// SonarRaw charts the optical flow board's sonar distance.
func SonarRaw(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Raw Sonar Distance", "",
		[]string{"FLOW_DtSonar"}, nil, 1)
}

// OpticalFlowRaw charts the raw optical flow displacement.
func OpticalFlowRaw(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Raw Optical Flow Position", "",
		[]string{"FLOW_RawX", "FLOW_RawY"}, nil, 1)
}

// OpticalFlowQuality charts the optical flow quality metric.
func OpticalFlowQuality(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Optical Flow Quality", "",
		[]string{"FLOW_Qlty"}, nil, 1)
}

// ActuatorOutputs charts the PWM outputs of one output bank (0 for the main
// PX4IO outputs, 1 for FMU/AUX). Channels that never leave zero were not
// wired and are omitted.
func ActuatorOutputs(f *flightlog.Frame, bank int) (*Figure, error) {
	title := "PX4IO Outputs"
	if bank != 0 {
		title = "AUX Outputs"
	}

	p := newPlot(title, timeLabel, "PWM, us")
	NewModeOverlay(f).AddTo(p)

	colors := palette(8)
	plotted := 0
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("OUT%d_Out%d", bank, i)
		values, err := f.Column(name)
		if err != nil {
			continue
		}
		if maxOf(values) <= 0 {
			continue
		}
		if err := addLine(p, name, series(f.Times, values, 1), colors[i], false); err != nil {
			return nil, err
		}
		plotted++
	}
	if plotted == 0 {
		return nil, fmt.Errorf("%s: no active output channels", title)
	}
	return newFigure(p), nil
}

// FlightModes charts the commander state with mode names as y ticks.
func FlightModes(f *flightlog.Frame) (*Figure, error) {
	states, err := f.Column("STAT_MainState")
	if err != nil {
		return nil, err
	}

	p := newPlot("Flight Modes", timeLabel, "")
	NewModeOverlay(f).AddTo(p)

	if err := addLine(p, "", series(f.Times, states, 1), measuredColor, false); err != nil {
		return nil, err
	}

	ticks := make([]plot.Tick, 0, len(modes.Names()))
	for i, name := range modes.Names() {
		ticks = append(ticks, plot.Tick{Value: float64(i), Label: name})
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Min = 0
	p.Y.Max = 13

	return newFigure(p), nil
}

// EstimatorFaults charts the decoded estimator fault series. The frame must
// have been through estimator.DecodeHealth.
func EstimatorFaults(f *flightlog.Frame) (*Figure, error) {
	return multiSeries(f, "Estimator Faults", "",
		[]string{
			"fault_sonar", "fault_baro", "fault_gps", "fault_flow",
			"fault_vision", "fault_mocap", "fault_lidar",
		}, nil, 1)
}

// StatisticsBand charts a signal with horizontal rules at its mean and one
// standard deviation either side.
func StatisticsBand(f *flightlog.Frame, key string, s stats.Summary) (*Figure, error) {
	values, err := f.Column(key)
	if err != nil {
		return nil, err
	}

	p := newPlot(key+" statistics", timeLabel, "")
	if err := addLine(p, key, series(f.Times, values, 1), measuredColor, false); err != nil {
		return nil, err
	}

	rules := []struct {
		y float64
		c color.Color
	}{
		{y: s.Mean, c: color.Black},
		{y: s.Mean + s.StdDev, c: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}},
		{y: s.Mean - s.StdDev, c: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}},
	}
	for _, r := range rules {
		y := r.y
		rule := plotter.NewFunction(func(float64) float64 { return y })
		rule.Color = r.c
		rule.Width = vg.Points(1)
		p.Add(rule)
	}

	return newFigure(p), nil
}

func maxOf(values []float64) float64 {
	out := 0.0
	for _, v := range values {
		if v > out {
			out = v
		}
	}
	return out
}

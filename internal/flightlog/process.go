package flightlog

import (
	"fmt"
	"math"
)

// TimeColumn is the sdlog2 logger timestamp, in microseconds since boot.
const TimeColumn = "TIME_StartTime"

// autoMissionState is the STAT_MainState value of the AUTO_MISSION mode.
const autoMissionState = 3

// ErrNoAutoMode is returned by AutoData when a log has no usable
// AUTO_MISSION rows.
var ErrNoAutoMode = fmt.Errorf("no auto mode detected")

// FilterFinite returns a frame containing only the rows with a finite
// logger timestamp. Rows logged before the clock was valid carry no usable
// time index and poison every downstream computation.
func FilterFinite(f *Frame) (*Frame, error) {
	times, err := f.Column(TimeColumn)
	if err != nil {
		return nil, err
	}
	return f.Filter(func(row int) bool {
		return isFinite(times[row])
	}), nil
}

// SetTimeSeries rebases the frame's time index to seconds since the first
// sample, computed from the logger timestamp.
func SetTimeSeries(f *Frame) (*Frame, error) {
	times, err := f.Column(TimeColumn)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return f, nil
	}
	t0 := times[0]
	for i, t := range times {
		f.Times[i] = (t - t0) / 1e6
	}
	return f, nil
}

// Process prepares a raw frame for analysis: it drops rows without a valid
// timestamp and rebases the time index to seconds since log start.
func Process(f *Frame) (*Frame, error) {
	f, err := FilterFinite(f)
	if err != nil {
		return nil, fmt.Errorf("filtering rows: %w", err)
	}
	return SetTimeSeries(f)
}

// AutoData restricts a frame to the rows flown in AUTO_MISSION mode with
// finite position setpoints.
func AutoData(f *Frame) (*Frame, error) {
	state, err := f.Column("STAT_MainState")
	if err != nil {
		return nil, err
	}
	lat, err := f.Column("GPSP_Lat")
	if err != nil {
		return nil, err
	}
	lon, err := f.Column("GPSP_Lon")
	if err != nil {
		return nil, err
	}

	out := f.Filter(func(row int) bool {
		return state[row] == autoMissionState && isFinite(lat[row]) && isFinite(lon[row])
	})
	if out.NumRows() == 0 {
		return nil, ErrNoAutoMode
	}
	return out, nil
}

// NewSamples keeps only the points where the series value changed from the
// previous row. Logged series repeat the last measurement at the logger
// rate; the changed-value subsample approximates the true measurement
// stream.
func NewSamples(times, values []float64) (ts, vs []float64) {
	for i := 1; i < len(values); i++ {
		diff := values[i] - values[i-1]
		if math.Abs(diff) > 0 {
			ts = append(ts, times[i])
			vs = append(vs, values[i])
		}
	}
	return ts, vs
}

// AllNewSamples applies the changed-value subsample to every column of the
// frame. Cells that repeat the previous row's value become NaN; the time
// index is unchanged so the columns stay aligned.
func AllNewSamples(f *Frame) *Frame {
	out := NewFrame(f.Times)
	for _, name := range f.Columns() {
		values, _ := f.Column(name)
		kept := make([]float64, len(values))
		for i := range kept {
			kept[i] = math.NaN()
		}
		for i := 1; i < len(values); i++ {
			if math.Abs(values[i]-values[i-1]) > 0 {
				kept[i] = values[i]
			}
		}
		// AddColumn cannot fail here: lengths match and names are unique.
		_ = out.AddColumn(name, kept)
	}
	return out
}

// MeasPeriod estimates the measurement period of a series as the time span
// of its changed-value subsample divided by the number of measurements.
// It returns 0 when fewer than two measurements exist.
func MeasPeriod(times, values []float64) float64 {
	ts, _ := NewSamples(times, values)
	if len(ts) < 2 {
		return 0
	}
	return (ts[len(ts)-1] - ts[0]) / float64(len(ts))
}

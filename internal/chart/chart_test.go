package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

func testFrame(t *testing.T, columns map[string][]float64, n int) *flightlog.Frame {
	t.Helper()

	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i)
	}

	f := flightlog.NewFrame(times)
	for name, values := range columns {
		require.NoError(t, f.AddColumn(name, values))
	}
	return f
}

func ramp(n int, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

func TestSeries(t *testing.T) {
	t.Parallel()

	times := []float64{0, 1, 2, 3}
	values := []float64{1, math.NaN(), 3, 4}

	pts := series(times, values, 2)
	require.Len(t, pts, 3)
	assert.Equal(t, 2.0, pts[0].Y)
	assert.Equal(t, 2.0, pts[1].X)
	assert.Equal(t, 8.0, pts[2].Y)
}

func TestPalette(t *testing.T) {
	t.Parallel()

	assert.Nil(t, palette(0))

	colors := palette(6)
	require.Len(t, colors, 6)

	seen := make(map[[4]uint32]bool)
	for _, c := range colors {
		r, g, b, a := c.RGBA()
		key := [4]uint32{r, g, b, a}
		assert.False(t, seen[key], "palette repeated a color")
		seen[key] = true
	}
}

func TestAttitudeLoops(t *testing.T) {
	t.Parallel()

	n := 50
	f := testFrame(t, map[string][]float64{
		"ATT_Roll":       ramp(n, 0.01),
		"ATSP_RollSP":    ramp(n, 0.01),
		"ATT_Pitch":      ramp(n, -0.01),
		"ATSP_PitchSP":   ramp(n, -0.01),
		"ATT_Yaw":        ramp(n, 0.02),
		"ATSP_YawSP":     ramp(n, 0.02),
		"STAT_MainState": ramp(n, 0),
	}, n)

	fig, err := AttitudeLoops(f)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "attitude.png")
	require.NoError(t, fig.Save(dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestAttitudeLoops_MissingSignals(t *testing.T) {
	t.Parallel()

	// Setpoints are optional, measured signals are not.
	f := testFrame(t, map[string][]float64{
		"ATT_Roll":  ramp(10, 0.01),
		"ATT_Pitch": ramp(10, 0.01),
		"ATT_Yaw":   ramp(10, 0.01),
	}, 10)

	fig, err := AttitudeLoops(f)
	require.NoError(t, err)
	require.NotNil(t, fig)

	missing := testFrame(t, map[string][]float64{"ATT_Roll": ramp(10, 0.01)}, 10)
	_, err = AttitudeLoops(missing)
	assert.ErrorIs(t, err, flightlog.ErrNoColumn)
}

func TestControlLoops(t *testing.T) {
	t.Parallel()

	n := 20
	f := testFrame(t, map[string][]float64{
		"ATT_Roll":      ramp(n, 0.01),
		"ATT_Pitch":     ramp(n, 0.01),
		"ATT_Yaw":       ramp(n, 0.01),
		"ATT_RollRate":  ramp(n, 0.01),
		"ATT_PitchRate": ramp(n, 0.01),
		"ATT_YawRate":   ramp(n, 0.01),
		"ATTC_Roll":     ramp(n, 0.01),
		"ATTC_Pitch":    ramp(n, 0.01),
		"ATTC_Yaw":      ramp(n, 0.01),
		"ATTC_Thrust":   ramp(n, 0.01),
		"LPOS_VX":       ramp(n, 0.1),
		"LPOS_VY":       ramp(n, 0.1),
		"LPOS_VZ":       ramp(n, 0.1),
		"LPOS_X":        ramp(n, 0.5),
		"LPOS_Y":        ramp(n, 0.5),
		"LPOS_Z":        ramp(n, -0.5),
	}, n)

	figs, err := ControlLoops(f)
	require.NoError(t, err)
	for _, name := range []string{"attitude_loops", "attitude_rate_loops", "velocity_loops", "position_loops"} {
		assert.Contains(t, figs, name)
	}
}

func TestFlightModes(t *testing.T) {
	t.Parallel()

	f := testFrame(t, map[string][]float64{
		"STAT_MainState": {0, 0, 3, 3, 5},
	}, 5)

	fig, err := FlightModes(f)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "modes.png")
	require.NoError(t, fig.Save(dest))
}

func TestActuatorOutputs(t *testing.T) {
	t.Parallel()

	n := 10
	f := testFrame(t, map[string][]float64{
		"OUT0_Out0": ramp(n, 10),
		"OUT0_Out1": ramp(n, 10),
		"OUT0_Out2": ramp(n, 0), // all zero, skipped
	}, n)

	fig, err := ActuatorOutputs(f, 0)
	require.NoError(t, err)
	require.NotNil(t, fig)

	_, err = ActuatorOutputs(f, 1)
	assert.Error(t, err)
}

func TestAltitude(t *testing.T) {
	t.Parallel()

	n := 30
	f := testFrame(t, map[string][]float64{
		"SENS_BaroAlt": ramp(n, 0.5),
		"LPOS_Z":       ramp(n, -0.5),
		"GPS_Alt":      ramp(n, 0.5),
	}, n)

	minAlt, maxAlt := 0.0, 20.0
	fig, err := Altitude(f, AltitudeOptions{MinAlt: &minAlt, MaxAlt: &maxAlt})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "altitude.png")
	require.NoError(t, fig.Save(dest))
}

func TestNewModeOverlay(t *testing.T) {
	t.Parallel()

	f := testFrame(t, map[string][]float64{
		"STAT_MainState": {0, 3, 3},
	}, 3)

	overlay := NewModeOverlay(f)
	require.NotNil(t, overlay)
	assert.Len(t, overlay.Segments, 2)

	empty := testFrame(t, map[string][]float64{"ATT_Roll": {0, 0, 0}}, 3)
	overlay = NewModeOverlay(empty)
	require.NotNil(t, overlay)
	assert.Empty(t, overlay.Segments)
}

func TestGroundTrackHTML(t *testing.T) {
	t.Parallel()

	f := testFrame(t, map[string][]float64{
		"GPS_Lat": {47.3977, 47.3978, 47.3979, 47.3980},
		"GPS_Lon": {8.5455, 8.5456, 8.5457, 8.5458},
		"GPS_Alt": {488, 489, 490, 491},
	}, 4)

	var buf bytes.Buffer
	require.NoError(t, GroundTrackHTML(&buf, f))

	html := buf.String()
	require.NotEmpty(t, html)
	assert.Contains(t, html, "Ground Track")
	assert.Contains(t, html, `"track"`)
	assert.Contains(t, html, "visualMap")
}

func TestGroundTrackHTML_MissingSignals(t *testing.T) {
	t.Parallel()

	f := testFrame(t, map[string][]float64{
		"GPS_Lat": {47.3977, 47.3978},
		"GPS_Lon": {8.5455, 8.5456},
	}, 2)

	var buf bytes.Buffer
	assert.ErrorIs(t, GroundTrackHTML(&buf, f), flightlog.ErrNoColumn)
}

func TestAltitudeHTML(t *testing.T) {
	t.Parallel()

	f := testFrame(t, map[string][]float64{
		"SENS_BaroAlt": {488, 488.5, 490, 491},
		"LPOS_Z":       {0, -0.5, -2, -3},
	}, 4)

	var buf bytes.Buffer
	require.NoError(t, AltitudeHTML(&buf, f))

	html := buf.String()
	require.NotEmpty(t, html)
	assert.Contains(t, html, "SENS_BaroAlt")
	assert.Contains(t, html, "LPOS_Z")
	assert.NotContains(t, html, "GPS_Alt")
}

func TestAltitudeHTML_NoSignals(t *testing.T) {
	t.Parallel()

	f := testFrame(t, map[string][]float64{"ATT_Roll": {0, 0}}, 2)

	var buf bytes.Buffer
	assert.Error(t, AltitudeHTML(&buf, f))
}

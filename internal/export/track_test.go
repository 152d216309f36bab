package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

func testTrackFrame(t *testing.T) *flightlog.Frame {
	t.Helper()

	f := flightlog.NewFrame([]float64{0, 1, 2, 3, 4})
	require.NoError(t, f.AddColumn("GPS_Lat", []float64{0, 47.0, math.NaN(), 47.001, 47.002}))
	require.NoError(t, f.AddColumn("GPS_Lon", []float64{0, 8.0, 8.0, 8.001, 8.002}))
	require.NoError(t, f.AddColumn("GPS_Alt", []float64{0, 488, 489, math.NaN(), 492}))
	return f
}

func TestNewTrack(t *testing.T) {
	t.Parallel()

	track, err := NewTrack(testTrackFrame(t), "test-flight")
	require.NoError(t, err)

	// The zero-island fix and the NaN fix are dropped.
	require.Len(t, track.Fixes, 3)
	assert.Equal(t, 47.0, track.Fixes[0].Lat)
	assert.Equal(t, 488.0, track.Fixes[0].Alt)
	assert.Equal(t, 0.0, track.Fixes[1].Alt)
	assert.Equal(t, 4.0, track.Fixes[2].Time)

	assert.Equal(t, 3*time.Second, track.Duration())
}

func TestNewTrack_NoFixes(t *testing.T) {
	t.Parallel()

	f := flightlog.NewFrame([]float64{0})
	require.NoError(t, f.AddColumn("GPS_Lat", []float64{math.NaN()}))
	require.NoError(t, f.AddColumn("GPS_Lon", []float64{math.NaN()}))

	_, err := NewTrack(f, "empty")
	assert.ErrorIs(t, err, ErrNoTrack)
}

func TestNewTrack_MissingColumns(t *testing.T) {
	t.Parallel()

	f := flightlog.NewFrame([]float64{0})
	require.NoError(t, f.AddColumn("ATT_Roll", []float64{0}))

	_, err := NewTrack(f, "no-gps")
	assert.ErrorIs(t, err, flightlog.ErrNoColumn)
}

func TestWriteGPX(t *testing.T) {
	t.Parallel()

	track, err := NewTrack(testTrackFrame(t), "test-flight")
	require.NoError(t, err)
	track.Start = time.Date(2016, 5, 1, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteGPX(&buf, track))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<trkpt")
	assert.Contains(t, out, `lat="47"`)
	assert.Contains(t, out, "test-flight")
	// Third fix is 3s after the first.
	assert.Contains(t, out, "2016-05-01T12:00:03Z")
}

func TestWriteGeoJSON(t *testing.T) {
	t.Parallel()

	track, err := NewTrack(testTrackFrame(t), "test-flight")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, track))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string      `json:"type"`
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)

	feature := fc.Features[0]
	assert.Equal(t, "LineString", feature.Geometry.Type)
	require.Len(t, feature.Geometry.Coordinates, 3)
	// GeoJSON coordinate order is lon, lat, alt.
	assert.Equal(t, []float64{8.0, 47.0, 488.0}, feature.Geometry.Coordinates[0])

	assert.Equal(t, "test-flight", feature.Properties["name"])
	assert.EqualValues(t, 3, feature.Properties["fixes"])
}

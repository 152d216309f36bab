package geotrack

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

func TestNewProjector(t *testing.T) {
	t.Parallel()

	p, err := NewProjector(
		[]float64{47.0, math.NaN(), 47.002},
		[]float64{8.0, 8.0, 8.002},
	)
	require.NoError(t, err)

	lat, lon := p.Origin()
	assert.InDelta(t, 47.001, lat, 1e-9)
	assert.InDelta(t, 8.001, lon, 1e-9)
}

func TestNewProjector_NoFixes(t *testing.T) {
	t.Parallel()

	_, err := NewProjector([]float64{math.NaN()}, []float64{math.NaN()})
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	t.Parallel()

	p, err := NewProjector([]float64{47.0}, []float64{8.0})
	require.NoError(t, err)

	t.Run("origin", func(t *testing.T) {
		north, east := p.Project(47.0, 8.0)
		assert.InDelta(t, 0, north, 0.01)
		assert.InDelta(t, 0, east, 0.01)
	})

	t.Run("north", func(t *testing.T) {
		// One degree of latitude is roughly 111km.
		north, east := p.Project(47.001, 8.0)
		assert.InDelta(t, 111.0, north, 1.0)
		assert.InDelta(t, 0, east, 1.0)
	})

	t.Run("east", func(t *testing.T) {
		// A degree of longitude shrinks with cos(latitude).
		north, east := p.Project(47.0, 8.001)
		assert.InDelta(t, 0, north, 1.0)
		assert.InDelta(t, 111.0*math.Cos(47.0*math.Pi/180), east, 1.0)
	})

	t.Run("nan", func(t *testing.T) {
		north, east := p.Project(math.NaN(), 8.0)
		assert.True(t, math.IsNaN(north))
		assert.True(t, math.IsNaN(east))
	})
}

func TestAddLocalCoordinates(t *testing.T) {
	t.Parallel()

	f := flightlog.NewFrame([]float64{0, 1, 2})
	require.NoError(t, f.AddColumn("GPS_Lat", []float64{47.0, 47.0005, 47.001}))
	require.NoError(t, f.AddColumn("GPS_Lon", []float64{8.0, 8.0, 8.0}))
	require.NoError(t, f.AddColumn("GPS_Alt", []float64{488, 490, 492}))

	require.NoError(t, AddLocalCoordinates(f))

	xs, err := f.Column("GPS_X")
	require.NoError(t, err)
	// Centroid anchor puts the first fix south of the origin.
	assert.Less(t, xs[0], 0.0)
	assert.Greater(t, xs[2], 0.0)

	zs, err := f.Column("GPS_Z")
	require.NoError(t, err)
	// Down axis: climbing makes GPS_Z more negative, anchored at the first
	// finite altitude.
	assert.Equal(t, 0.0, zs[0])
	assert.InDelta(t, -4.0, zs[2], 1e-9)
}

func TestAddLocalCoordinates_MissingColumns(t *testing.T) {
	t.Parallel()

	f := flightlog.NewFrame([]float64{0})
	require.NoError(t, f.AddColumn("GPS_Lat", []float64{47}))

	err := AddLocalCoordinates(f)
	assert.ErrorIs(t, err, flightlog.ErrNoColumn)
}

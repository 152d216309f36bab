// Package geotrack projects GPS fixes onto a local tangent plane so ground
// tracks and position statistics can work in metres.
package geotrack

import (
	"fmt"
	"math"

	geo "github.com/paulmach/go.geo"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

// Projector converts geodetic coordinates to local north/east metres
// relative to a fixed origin.
type Projector struct {
	origin *geo.Point
}

// NewProjector builds a projector anchored at the centroid of the finite
// fixes in lats/lons. It returns an error when no finite fix exists.
func NewProjector(lats, lons []float64) (*Projector, error) {
	var sumLat, sumLon float64
	var n int
	for i := range lats {
		if math.IsNaN(lats[i]) || math.IsNaN(lons[i]) {
			continue
		}
		sumLat += lats[i]
		sumLon += lons[i]
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("no finite GPS fixes to anchor projection")
	}
	return &Projector{
		origin: geo.NewPoint(sumLon/float64(n), sumLat/float64(n)),
	}, nil
}

// Origin returns the anchor as (lat, lon).
func (p *Projector) Origin() (lat, lon float64) {
	return p.origin.Lat(), p.origin.Lng()
}

// Project converts a fix to local coordinates: north and east metres from
// the origin. NaN inputs project to NaN.
func (p *Projector) Project(lat, lon float64) (north, east float64) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return math.NaN(), math.NaN()
	}
	pt := geo.NewPoint(lon, lat)
	dist := p.origin.GeoDistanceFrom(pt, true)
	bearing := p.origin.BearingTo(pt) * math.Pi / 180

	return dist * math.Cos(bearing), dist * math.Sin(bearing)
}

// AddLocalCoordinates derives GPS_X (north), GPS_Y (east) and GPS_Z (down)
// columns from the logged GPS fix, anchored at the track centroid and the
// first finite altitude. The columns feed position statistics and the
// ground-track chart.
func AddLocalCoordinates(f *flightlog.Frame) error {
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

	proj, err := NewProjector(lats, lons)
	if err != nil {
		return err
	}

	alt0 := math.NaN()
	for _, a := range alts {
		if !math.IsNaN(a) {
			alt0 = a
			break
		}
	}

	n := f.NumRows()
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = proj.Project(lats[i], lons[i])
		zs[i] = -(alts[i] - alt0)
	}

	if err := f.SetColumn("GPS_X", xs); err != nil {
		return err
	}
	if err := f.SetColumn("GPS_Y", ys); err != nil {
		return err
	}
	return f.SetColumn("GPS_Z", zs)
}

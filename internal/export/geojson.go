package export

import (
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"
)

// WriteGeoJSON writes the track as a FeatureCollection holding a single
// LineString feature with summary properties. Coordinates follow GeoJSON
// order: longitude, latitude, altitude.
func WriteGeoJSON(w io.Writer, track *Track) error {
	coords := make([][]float64, 0, len(track.Fixes))
	for _, fix := range track.Fixes {
		coords = append(coords, []float64{fix.Lon, fix.Lat, fix.Alt})
	}

	feature := geojson.NewLineStringFeature(coords)
	feature.SetProperty("name", track.Name)
	feature.SetProperty("fixes", len(track.Fixes))
	feature.SetProperty("duration_s", track.Duration().Seconds())
	if !track.Start.IsZero() {
		feature.SetProperty("start", track.Start.UTC().Format("2006-01-02T15:04:05Z"))
	}

	fc := geojson.NewFeatureCollection()
	fc.AddFeature(feature)

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding GeoJSON: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("writing GeoJSON: %w", err)
	}
	return nil
}

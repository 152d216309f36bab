package export

import (
	"fmt"
	"io"

	"github.com/mlouielu/gpxgo/gpx"
)

const gpxCreator = "flightlog"

// WriteGPX writes the track as a GPX 1.1 document with one track segment.
func WriteGPX(w io.Writer, track *Track) error {
	segment := gpx.GPXTrackSegment{
		Points: make([]gpx.GPXPoint, 0, len(track.Fixes)),
	}
	for _, fix := range track.Fixes {
		point := gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  fix.Lat,
				Longitude: fix.Lon,
				Elevation: *gpx.NewNullableFloat64(fix.Alt),
			},
		}
		if ts := track.timestamp(fix); !ts.IsZero() {
			point.Timestamp = ts
		}
		segment.Points = append(segment.Points, point)
	}

	doc := gpx.GPX{
		Creator: gpxCreator,
		Name:    track.Name,
		Tracks: []gpx.GPXTrack{{
			Name:     track.Name,
			Segments: []gpx.GPXTrackSegment{segment},
		}},
	}

	data, err := gpx.ToXml(&doc, gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return fmt.Errorf("encoding GPX: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("writing GPX: %w", err)
	}
	return nil
}

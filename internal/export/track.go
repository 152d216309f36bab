// Package export converts the GPS track of a flight log into interchange
// formats for mapping tools.
package export

import (
	"errors"
	"math"
	"time"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

// ErrNoTrack indicates that a log has no usable GPS fixes.
var ErrNoTrack = errors.New("log contains no GPS fixes")

// Fix is a single timestamped GPS position.
type Fix struct {
	Time float64 // Seconds since log start
	Lat  float64 // Degrees
	Lon  float64 // Degrees
	Alt  float64 // Meters above mean sea level
}

// Track is the GPS track of one flight.
type Track struct {
	Name  string
	Start time.Time // Wall-clock time of the first fix, zero when unknown
	Fixes []Fix
}

// NewTrack extracts the GPS track from a processed frame, dropping rows
// without a finite fix. Altitude falls back to zero when the log has no
// GPS_Alt signal.
func NewTrack(f *flightlog.Frame, name string) (*Track, error) {
	lats, err := f.Column("GPS_Lat")
	if err != nil {
		return nil, err
	}
	lons, err := f.Column("GPS_Lon")
	if err != nil {
		return nil, err
	}

	alts, err := f.Column("GPS_Alt")
	if err != nil {
		if !errors.Is(err, flightlog.ErrNoColumn) {
			return nil, err
		}
		alts = nil
	}

	track := Track{Name: name}
	for i := range f.Times {
		if math.IsNaN(lats[i]) || math.IsNaN(lons[i]) {
			continue
		}
		if lats[i] == 0 && lons[i] == 0 {
			continue
		}

		fix := Fix{Time: f.Times[i], Lat: lats[i], Lon: lons[i]}
		if alts != nil && !math.IsNaN(alts[i]) {
			fix.Alt = alts[i]
		}
		track.Fixes = append(track.Fixes, fix)
	}
	if len(track.Fixes) == 0 {
		return nil, ErrNoTrack
	}
	return &track, nil
}

// Duration returns the time span covered by the track.
func (t *Track) Duration() time.Duration {
	if len(t.Fixes) < 2 {
		return 0
	}
	first := t.Fixes[0].Time
	last := t.Fixes[len(t.Fixes)-1].Time
	return time.Duration((last - first) * float64(time.Second))
}

// timestamp converts a fix offset into wall-clock time against the track
// start, or a zero time when the start is unknown.
func (t *Track) timestamp(fix Fix) time.Time {
	if t.Start.IsZero() {
		return time.Time{}
	}
	offset := fix.Time - t.Fixes[0].Time
	return t.Start.Add(time.Duration(offset * float64(time.Second)))
}

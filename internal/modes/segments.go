package modes

import (
	"math"
)

// Segment is a contiguous interval of a flight flown in a single mode.
// Start and End are times in the log's index units, Start <= End.
type Segment struct {
	Mode  Mode
	Start float64
	End   float64
}

// Duration returns the length of the segment.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Segments splits a logged commander state series into contiguous same-mode
// intervals in a single pass. Adjacent segments share their boundary time,
// so the union of the segments covers the series without overlap. Rows with
// a NaN state are attributed to the surrounding segment.
func Segments(times, states []float64) []Segment {
	var segs []Segment
	var current *Segment

	for i := range states {
		if math.IsNaN(states[i]) {
			continue
		}
		m := Mode(int(states[i]))

		if current == nil {
			segs = append(segs, Segment{Mode: m, Start: times[i], End: times[i]})
			current = &segs[len(segs)-1]
			continue
		}
		if current.Mode == m {
			current.End = times[i]
			continue
		}

		// Mode switch: close the running segment at the switch sample so
		// consecutive segments tile the time axis.
		current.End = times[i]
		segs = append(segs, Segment{Mode: m, Start: times[i], End: times[i]})
		current = &segs[len(segs)-1]
	}
	return segs
}

// Dominant returns the segment mode covering the most time, and the total
// covered duration. It returns Manual, 0 for an empty slice.
func Dominant(segs []Segment) (Mode, float64) {
	totals := make(map[Mode]float64)
	for _, s := range segs {
		totals[s.Mode] += s.Duration()
	}

	best := Manual
	var bestDur, total float64
	for m, d := range totals {
		total += d
		if d > bestDur || (d == bestDur && m < best) {
			best = m
			bestDur = d
		}
	}
	return best, total
}

// Used returns the distinct modes appearing in segs, in enumeration order.
func Used(segs []Segment) []Mode {
	seen := make(map[Mode]bool)
	for _, s := range segs {
		seen[s.Mode] = true
	}
	var out []Mode
	for _, m := range All() {
		if seen[m] {
			out = append(out, m)
		}
	}
	return out
}

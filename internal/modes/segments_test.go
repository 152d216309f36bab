package modes

import (
	"math"
	"testing"
)

func TestSegments(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4, 5, 6}
	states := []float64{0, 0, 2, 2, math.NaN(), 2, 3}

	segs := Segments(times, states)
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segs))
	}

	want := []Segment{
		{Mode: Manual, Start: 0, End: 2},
		{Mode: PosCtl, Start: 2, End: 6},
		{Mode: AutoMission, Start: 6, End: 6},
	}
	for i, w := range want {
		if segs[i] != w {
			t.Errorf("Segment %d: expected %+v, got %+v", i, w, segs[i])
		}
	}

	// Consecutive segments tile the time axis without overlap.
	for i := 1; i < len(segs); i++ {
		if segs[i].Start != segs[i-1].End {
			t.Errorf("Segment %d starts at %v, previous ends at %v", i, segs[i].Start, segs[i-1].End)
		}
	}
}

func TestSegments_Empty(t *testing.T) {
	if segs := Segments(nil, nil); segs != nil {
		t.Errorf("Expected nil for empty input, got %v", segs)
	}

	states := []float64{math.NaN(), math.NaN()}
	if segs := Segments([]float64{0, 1}, states); segs != nil {
		t.Errorf("Expected nil for all-NaN input, got %v", segs)
	}
}

func TestDominant(t *testing.T) {
	segs := []Segment{
		{Mode: Manual, Start: 0, End: 10},
		{Mode: AutoMission, Start: 10, End: 70},
		{Mode: Manual, Start: 70, End: 75},
	}

	mode, total := Dominant(segs)
	if mode != AutoMission {
		t.Errorf("Expected AutoMission dominant, got %s", mode)
	}
	if total != 75 {
		t.Errorf("Expected total 75, got %v", total)
	}

	if mode, total = Dominant(nil); mode != Manual || total != 0 {
		t.Errorf("Expected Manual, 0 for empty input, got %s, %v", mode, total)
	}
}

func TestUsed(t *testing.T) {
	segs := []Segment{
		{Mode: AutoRTL},
		{Mode: Manual},
		{Mode: AutoRTL},
	}

	used := Used(segs)
	if len(used) != 2 || used[0] != Manual || used[1] != AutoRTL {
		t.Errorf("Expected [Manual AutoRTL] in enumeration order, got %v", used)
	}
}

func TestModeString(t *testing.T) {
	if got := AutoMission.String(); got != "AUTO_MISSION" {
		t.Errorf("Expected AUTO_MISSION, got %s", got)
	}
	if got := Mode(99).String(); got != "UNKNOWN(99)" {
		t.Errorf("Expected UNKNOWN(99) for out-of-range mode, got %s", got)
	}
	if got := Mode(-1).String(); got != "UNKNOWN(-1)" {
		t.Errorf("Expected UNKNOWN(-1) for negative mode, got %s", got)
	}
}

package flightlog

import (
	"math"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	log := `TIME_StartTime,ATT_Roll,STAT_MainState,MSG_Text
100000,0.01,2,armed
200000,,2,
300000,0.03,3,mission
`
	f, err := ReadCSV(strings.NewReader(log))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if f.NumRows() != 3 {
		t.Fatalf("Expected 3 rows, got %d", f.NumRows())
	}

	// Free-text columns are dropped, numeric ones kept.
	if f.Has("MSG_Text") {
		t.Error("Expected MSG_Text column to be dropped")
	}
	for _, name := range []string{"TIME_StartTime", "ATT_Roll", "STAT_MainState"} {
		if !f.Has(name) {
			t.Errorf("Expected column %s", name)
		}
	}

	roll, _ := f.Column("ATT_Roll")
	if !math.IsNaN(roll[1]) {
		t.Errorf("Expected NaN for empty cell, got %v", roll[1])
	}
	if roll[2] != 0.03 {
		t.Errorf("Expected 0.03, got %v", roll[2])
	}

	// The time index carries the raw logger microseconds until Process
	// rebases it.
	want := []float64{100000, 200000, 300000}
	for i, v := range want {
		if f.Times[i] != v {
			t.Errorf("Expected raw time[%d] = %v, got %v", i, v, f.Times[i])
		}
	}
}

func TestReadCSV_ShortRecord(t *testing.T) {
	log := "TIME_StartTime,ATT_Roll\n100000,0.01\n200000\n"

	if _, err := ReadCSV(strings.NewReader(log)); err == nil {
		t.Error("Expected error for a ragged record")
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("TIME_StartTime,ATT_Roll\n")); err == nil {
		t.Error("Expected error for a log without data rows")
	}
}

package flightlog

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestProcess(t *testing.T) {
	f := NewFrame(make([]float64, 4))
	_ = f.AddColumn(TimeColumn, []float64{math.NaN(), 1_000_000, 1_500_000, 2_000_000})
	_ = f.AddColumn("ATT_Roll", []float64{0.5, 0.1, 0.2, 0.3})

	out, err := Process(f)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if out.NumRows() != 3 {
		t.Fatalf("Expected NaN-timestamp row dropped, got %d rows", out.NumRows())
	}

	// Time index is rebased to seconds since the first valid sample.
	want := []float64{0, 0.5, 1}
	for i, v := range want {
		if out.Times[i] != v {
			t.Errorf("Expected time[%d] = %v, got %v", i, v, out.Times[i])
		}
	}

	roll, _ := out.Column("ATT_Roll")
	if roll[0] != 0.1 {
		t.Errorf("Expected first kept roll 0.1, got %v", roll[0])
	}
}

func TestAutoData(t *testing.T) {
	f := NewFrame([]float64{0, 1, 2, 3})
	_ = f.AddColumn("STAT_MainState", []float64{2, 3, 3, 3})
	_ = f.AddColumn("GPSP_Lat", []float64{47, 47, math.NaN(), 47})
	_ = f.AddColumn("GPSP_Lon", []float64{8, 8, 8, 8})

	out, err := AutoData(f)
	if err != nil {
		t.Fatalf("AutoData failed: %v", err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("Expected 2 auto rows, got %d", out.NumRows())
	}
	if out.Times[0] != 1 || out.Times[1] != 3 {
		t.Errorf("Expected times [1 3], got %v", out.Times)
	}
}

func TestAutoData_NoAutoMode(t *testing.T) {
	f := NewFrame([]float64{0, 1})
	_ = f.AddColumn("STAT_MainState", []float64{0, 1})
	_ = f.AddColumn("GPSP_Lat", []float64{47, 47})
	_ = f.AddColumn("GPSP_Lon", []float64{8, 8})

	if _, err := AutoData(f); !errors.Is(err, ErrNoAutoMode) {
		t.Errorf("Expected ErrNoAutoMode, got %v", err)
	}
}

func TestNewSamples(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	values := []float64{1, 1, 2, 2, 3}

	ts, vs := NewSamples(times, values)
	if len(ts) != 2 {
		t.Fatalf("Expected 2 changed samples, got %d", len(ts))
	}
	if ts[0] != 2 || vs[0] != 2 || ts[1] != 4 || vs[1] != 3 {
		t.Errorf("Unexpected samples: times %v values %v", ts, vs)
	}
}

func TestAllNewSamples(t *testing.T) {
	f := NewFrame([]float64{0, 1, 2, 3})
	_ = f.AddColumn("SENS_BaroAlt", []float64{488, 488, 490, 490})
	_ = f.AddColumn("GPS_Alt", []float64{100, 101, 101, 102})

	out := AllNewSamples(f)

	if out.NumRows() != 4 {
		t.Fatalf("Expected the time index untouched, got %d rows", out.NumRows())
	}

	baro, _ := out.Column("SENS_BaroAlt")
	if !math.IsNaN(baro[0]) || !math.IsNaN(baro[1]) || !math.IsNaN(baro[3]) {
		t.Errorf("Expected repeated baro cells masked to NaN, got %v", baro)
	}
	if baro[2] != 490 {
		t.Errorf("Expected changed baro value kept, got %v", baro[2])
	}

	gps, _ := out.Column("GPS_Alt")
	if !math.IsNaN(gps[0]) || gps[1] != 101 || !math.IsNaN(gps[2]) || gps[3] != 102 {
		t.Errorf("Expected per-column change mask, got %v", gps)
	}
}

func TestMeasPeriod(t *testing.T) {
	// Value changes every second starting at t=1: span 4s over 5 samples.
	times := []float64{0, 1, 2, 3, 4, 5}
	values := []float64{0, 1, 2, 3, 4, 5}

	if got := MeasPeriod(times, values); got != 0.8 {
		t.Errorf("Expected period 0.8, got %v", got)
	}

	if got := MeasPeriod([]float64{0, 1}, []float64{1, 1}); got != 0 {
		t.Errorf("Expected 0 for a constant series, got %v", got)
	}
}

func TestOctaCoxStateSpace(t *testing.T) {
	n := 3
	times := []float64{0, 0.1, 0.2}
	f := NewFrame(times)

	add := func(name string, v float64) {
		values := make([]float64, n)
		for i := range values {
			values[i] = v
		}
		_ = f.AddColumn(name, values)
	}

	for _, name := range []string{
		"LPOS_X", "LPOS_Y", "LPOS_Z", "LPOS_VX", "LPOS_VY", "LPOS_VZ",
		"ATT_Roll", "ATT_Pitch", "ATT_Yaw",
		"ATT_RollRate", "ATT_PitchRate", "ATT_YawRate",
		"GPS_Lat", "GPS_Lon", "GPS_Alt",
		"SENS_BaroAlt",
		"IMU1_AccX", "IMU1_AccY", "IMU1_AccZ",
		"IMU1_GyroX", "IMU1_GyroY", "IMU1_GyroZ",
		"IMU1_MagX", "IMU1_MagY", "IMU1_MagZ",
	} {
		add(name, 1)
	}
	for i := 0; i < 8; i++ {
		add(fmt.Sprintf("OUT0_Out%d", i), 1500)
	}

	ss, err := OctaCoxStateSpace(f)
	if err != nil {
		t.Fatalf("OctaCoxStateSpace failed: %v", err)
	}

	if len(ss.X) != n {
		t.Fatalf("Expected %d samples, got %d", n, len(ss.X))
	}
	if len(ss.X[0]) != len(StateLabels) {
		t.Errorf("Expected %d state columns, got %d", len(StateLabels), len(ss.X[0]))
	}
	if len(ss.Y[0]) != len(MeasurementLabels) {
		t.Errorf("Expected %d measurement columns, got %d", len(MeasurementLabels), len(ss.Y[0]))
	}

	// All motors at 1500us normalize to 0.5; the thrust mix sums all eight
	// and divides by the motor count.
	if got := ss.U[0][0]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected thrust 0.5, got %v", got)
	}
	// Symmetric outputs cancel in the roll, pitch and yaw mixes.
	for i := 1; i < len(InputLabels); i++ {
		if got := ss.U[0][i]; math.Abs(got) > 1e-9 {
			t.Errorf("Expected %s mix 0, got %v", InputLabels[i], got)
		}
	}
}

func TestOctaCoxStateSpace_MissingColumns(t *testing.T) {
	f := NewFrame([]float64{0, 0.1})
	_ = f.AddColumn("LPOS_X", []float64{0, 1})

	if _, err := OctaCoxStateSpace(f); !errors.Is(err, ErrNoColumn) {
		t.Errorf("Expected ErrNoColumn for an incomplete log, got %v", err)
	}
}

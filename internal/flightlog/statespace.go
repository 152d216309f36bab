package flightlog

import (
	"fmt"
)

// StateLabels name the rows of the state estimate extracted by
// OctaCoxStateSpace: position, velocity, attitude and body rates.
var StateLabels = []string{"X", "Y", "Z", "V_X", "V_Y", "V_Z", "Phi", "Theta", "Psi", "P", "Q", "R"}

// MeasurementLabels name the rows of the measurement vector: GPS fix,
// barometric altitude and raw IMU channels.
var MeasurementLabels = []string{
	"GPS_Lat", "GPS_Lon", "GPS_Alt",
	"Baro_Alt",
	"Acc_X", "Acc_Y", "Acc_Z",
	"Gyro_X", "Gyro_Y", "Gyro_Z",
	"Mag_X", "Mag_Y", "Mag_Z",
}

// InputLabels name the rows of the mixed control input vector.
var InputLabels = []string{"thrust", "roll", "pitch", "yaw"}

var stateColumns = []string{
	"LPOS_X", "LPOS_Y", "LPOS_Z",
	"LPOS_VX", "LPOS_VY", "LPOS_VZ",
	"ATT_Roll", "ATT_Pitch", "ATT_Yaw",
	"ATT_RollRate", "ATT_PitchRate", "ATT_YawRate",
}

var measurementColumns = []string{
	"GPS_Lat", "GPS_Lon", "GPS_Alt",
	"SENS_BaroAlt",
	"IMU1_AccX", "IMU1_AccY", "IMU1_AccZ",
	"IMU1_GyroX", "IMU1_GyroY", "IMU1_GyroZ",
	"IMU1_MagX", "IMU1_MagY", "IMU1_MagZ",
}

// octoCoxMix maps the eight normalised motor outputs of an octo-cox frame
// onto thrust, roll, pitch and yaw pseudo-controls.
var octoCoxMix = [4][8]float64{
	{1, 1, 1, 1, 1, 1, 1, 1},     // thrust
	{-1, 1, 1, -1, -1, 1, 1, -1}, // roll
	{-1, -1, 1, 1, -1, -1, 1, 1}, // pitch
	{1, -1, 1, -1, 1, -1, 1, -1}, // yaw
}

// StateSpace holds the state, measurement and input trajectories extracted
// from an octacopter log for system identification. All matrices are
// row-per-sample and share Times.
type StateSpace struct {
	Times []float64

	// X is the state estimate, one row per sample, columns per StateLabels.
	X [][]float64

	// Y is the measurement vector, columns per MeasurementLabels.
	Y [][]float64

	// U is the mixed control input, columns per InputLabels.
	U [][]float64

	// URaw is the eight motor outputs normalised from PWM to [0,1].
	URaw [][]float64
}

// OctaCoxStateSpace extracts state-space identification data from an
// octa-cox log. Motor outputs are normalised from microseconds of PWM to
// [0,1] as (out-1000)/1000 before mixing.
func OctaCoxStateSpace(f *Frame) (*StateSpace, error) {
	n := f.NumRows()

	state, err := columnSet(f, stateColumns)
	if err != nil {
		return nil, fmt.Errorf("state columns: %w", err)
	}
	meas, err := columnSet(f, measurementColumns)
	if err != nil {
		return nil, fmt.Errorf("measurement columns: %w", err)
	}

	outCols := make([]string, 8)
	for i := range outCols {
		outCols[i] = fmt.Sprintf("OUT0_Out%d", i)
	}
	outs, err := columnSet(f, outCols)
	if err != nil {
		return nil, fmt.Errorf("output columns: %w", err)
	}

	ss := &StateSpace{
		Times: f.Times,
		X:     make([][]float64, n),
		Y:     make([][]float64, n),
		U:     make([][]float64, n),
		URaw:  make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		ss.X[i] = rowAt(state, i)
		ss.Y[i] = rowAt(meas, i)

		raw := make([]float64, 8)
		for j := range raw {
			raw[j] = (outs[j][i] - 1000.0) / 1000.0
		}
		ss.URaw[i] = raw

		u := make([]float64, 4)
		for j := range u {
			var sum float64
			for k := range raw {
				sum += octoCoxMix[j][k] * raw[k]
			}
			u[j] = sum / 8.0
		}
		ss.U[i] = u
	}
	return ss, nil
}

func columnSet(f *Frame, names []string) ([][]float64, error) {
	sub, err := f.Select(names...)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(names))
	for i, name := range names {
		// Column cannot fail here: Select already validated the names.
		out[i], _ = sub.Column(name)
	}
	return out, nil
}

func rowAt(cols [][]float64, row int) []float64 {
	out := make([]float64, len(cols))
	for i := range cols {
		out[i] = cols[i][row]
	}
	return out
}

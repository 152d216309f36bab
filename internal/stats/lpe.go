package stats

import (
	"math"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

// LPEKeys are the signals whose noise statistics drive the local position
// estimator parameters. GPS_X, GPS_Y and GPS_Z are the locally projected
// fix computed by geotrack.AddLocalCoordinates.
var LPEKeys = []string{
	"GPS_X", "GPS_Y", "GPS_Z",
	"GPS_VelN", "GPS_VelE", "GPS_VelD",
	"DIST_Distance",
	"IMU1_AccX", "IMU1_AccY", "IMU1_AccZ",
	"SENS_BaroAlt",
}

// GainOrder is the display order of the derived parameters.
var GainOrder = []string{
	"LPE_LDR_Z",
	"LPE_BAR_Z",
	"LPE_ACC_XY",
	"LPE_ACC_Z",
	"LPE_GPS_XY",
	"LPE_GPS_Z",
	"LPE_GPS_VXY",
	"LPE_GPS_VZ",
}

// FindLPEGains derives local position estimator noise parameters from the
// flight's sensor statistics. Paired horizontal axes take the larger of the
// two axis deviations.
func FindLPEGains(f *flightlog.Frame) map[string]float64 {
	s := Describe(f, LPEKeys)

	return map[string]float64{
		"LPE_LDR_Z":   s["DIST_Distance"].StdDev,
		"LPE_BAR_Z":   s["SENS_BaroAlt"].StdDev,
		"LPE_ACC_XY":  math.Max(s["IMU1_AccX"].StdDev, s["IMU1_AccX"].NoisePower),
		"LPE_ACC_Z":   s["IMU1_AccZ"].StdDev,
		"LPE_GPS_XY":  math.Max(s["GPS_X"].StdDev, s["GPS_Y"].StdDev),
		"LPE_GPS_Z":   s["GPS_Z"].StdDev,
		"LPE_GPS_VXY": math.Max(s["GPS_VelN"].StdDev, s["GPS_VelE"].StdDev),
		"LPE_GPS_VZ":  s["GPS_VelD"].StdDev,
	}
}

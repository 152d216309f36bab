// Package estimator decodes local position estimator health bitmasks into
// per-sensor series.
package estimator

import (
	"fmt"
	"math"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

// SensorNames lists the estimator's fused sensors in bitmask order.
var SensorNames = []string{"baro", "gps", "lidar", "flow", "sonar", "vision", "mocap"}

const (
	healthColumn  = "EST2_fHealth"
	timeoutColumn = "EST0_fTOut"
)

// DecodeHealth expands the estimator fault and timeout bitmasks into one
// 0/1 column per sensor: fault_<name> is 1 while the sensor is faulted, and
// timeout_<name> is 1 while the sensor is timed out. Either bitmask column
// may be absent; rows with a NaN mask produce NaN.
func DecodeHealth(f *flightlog.Frame) error {
	if values, err := f.Column(healthColumn); err == nil {
		// fHealth sets a bit while the sensor is faulted.
		if err := decodeBits(f, "fault_", values, false); err != nil {
			return fmt.Errorf("decoding %s: %w", healthColumn, err)
		}
	}
	if values, err := f.Column(timeoutColumn); err == nil {
		// fTOut sets a bit while the sensor is alive, so timeouts invert.
		if err := decodeBits(f, "timeout_", values, true); err != nil {
			return fmt.Errorf("decoding %s: %w", timeoutColumn, err)
		}
	}
	return nil
}

func decodeBits(f *flightlog.Frame, prefix string, mask []float64, invert bool) error {
	for bit, name := range SensorNames {
		values := make([]float64, len(mask))
		for i, m := range mask {
			if math.IsNaN(m) {
				values[i] = math.NaN()
				continue
			}
			set := int64(m)&(1<<uint(bit)) != 0
			if invert {
				set = !set
			}
			if set {
				values[i] = 1
			}
		}
		if err := f.SetColumn(prefix+name, values); err != nil {
			return err
		}
	}
	return nil
}

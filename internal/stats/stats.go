// Package stats computes descriptive statistics of logged signals over
// their changed-value subsample, and derives local position estimator
// noise parameters from them.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/avionics-tools/flightlog/internal/flightlog"
)

// Summary describes one logged signal. A signal that is missing from the
// log, or that never changes value, yields the zero Summary: downstream
// parameter derivation treats absent sensors as noiseless rather than
// failing the whole analysis.
type Summary struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"stddev"`
	Variance   float64 `json:"variance"`
	MeasPeriod float64 `json:"dt"`
	NoisePower float64 `json:"noisePower"`
	Samples    int     `json:"samples"`
}

// Describe computes a Summary per requested signal. Statistics are taken
// over the changed-value subsample of each series (see
// flightlog.NewSamples), so logger-rate duplicates do not bias the
// variance. NaN cells are skipped.
func Describe(f *flightlog.Frame, keys []string) map[string]Summary {
	out := make(map[string]Summary, len(keys))
	for _, key := range keys {
		values, err := f.Column(key)
		if err != nil {
			out[key] = Summary{}
			continue
		}
		out[key] = describeSeries(f.Times, values)
	}
	return out
}

func describeSeries(times, values []float64) Summary {
	ts, vs := flightlog.NewSamples(times, values)

	var ft, fv []float64
	for i := range vs {
		if !math.IsNaN(vs[i]) {
			ft = append(ft, ts[i])
			fv = append(fv, vs[i])
		}
	}
	if len(fv) < 2 {
		return Summary{}
	}

	dt := (ft[len(ft)-1] - ft[0]) / float64(len(ft))
	variance := stat.Variance(fv, nil)

	return Summary{
		Mean:       stat.Mean(fv, nil),
		StdDev:     math.Sqrt(variance),
		Variance:   variance,
		MeasPeriod: dt,
		NoisePower: variance * dt,
		Samples:    len(fv),
	}
}

package elevation

import (
	"errors"

	"github.com/Paskordnikk/Strekoza/internal/sampler"
)

// ErrCountMismatch is returned when the elevation source answered with a
// different number of values than was asked for. The calculation that hit it
// must be abandoned, never truncated or padded.
var ErrCountMismatch = errors.New("elevation count does not match sample count")

// seaLevelThresholdM: voids whose valid neighbors both sit below this are
// assumed to be water and resolve to exactly 0 instead of an interpolated
// blend that could dip slightly negative between two near-zero shore
// readings.
const seaLevelThresholdM = 5.0

// ReconcileValues cleans a raw elevation response. Negative readings are a
// known signature of missing elevation-tile coverage and are treated as
// voids; voids are filled from the nearest valid neighbors on each side.
// Interpolation is by index fraction, not geographic distance: samples are
// near-uniformly spaced, so index spacing approximates distance spacing.
// Every returned value is finite and >= 0.
func ReconcileValues(raw []float64) []float64 {
	valid := make([]bool, len(raw))
	for i, v := range raw {
		valid[i] = v >= 0
	}

	out := make([]float64, len(raw))
	for i := range raw {
		if valid[i] {
			out[i] = raw[i]
			continue
		}

		prevIdx, prevVal, hasPrev := scanBack(raw, valid, i)
		nextIdx, nextVal, hasNext := scanForward(raw, valid, i)

		switch {
		case hasPrev && hasNext:
			if prevVal < seaLevelThresholdM && nextVal < seaLevelThresholdM {
				out[i] = 0
				break
			}
			weight := float64(i-prevIdx) / float64(nextIdx-prevIdx)
			out[i] = prevVal + (nextVal-prevVal)*weight
		case hasPrev:
			if prevVal < seaLevelThresholdM {
				out[i] = 0
			} else {
				out[i] = prevVal
			}
		case hasNext:
			if nextVal < seaLevelThresholdM {
				out[i] = 0
			} else {
				out[i] = nextVal
			}
		default:
			out[i] = 0
		}
	}
	return out
}

// Reconcile assigns the cleaned values of raw onto samples in place.
func Reconcile(samples []sampler.SamplePoint, raw []float64) error {
	if len(raw) != len(samples) {
		return ErrCountMismatch
	}
	for i, v := range ReconcileValues(raw) {
		samples[i].ElevationM = v
	}
	return nil
}

func scanBack(raw []float64, valid []bool, from int) (int, float64, bool) {
	for j := from - 1; j >= 0; j-- {
		if valid[j] {
			return j, raw[j], true
		}
	}
	return 0, 0, false
}

func scanForward(raw []float64, valid []bool, from int) (int, float64, bool) {
	for j := from + 1; j < len(raw); j++ {
		if valid[j] {
			return j, raw[j], true
		}
	}
	return 0, 0, false
}

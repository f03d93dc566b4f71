//go:build fastmath

package dynamics

import (
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/meko-christian/algo-approx"
)

// lin2dB converts a linear amplitude to dB using a fast logarithm.
func lin2dB(x float64) float64 {
	if x <= 0 {
		return core.FloorDB
	}
	return 20 / math.Ln10 * approx.FastLog(x)
}

// dB2Lin converts dB to a linear amplitude using a fast exponential.
func dB2Lin(db float64) float64 {
	return approx.FastExp(db * math.Ln10 / 20)
}

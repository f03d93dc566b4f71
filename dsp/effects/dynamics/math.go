//go:build !fastmath

package dynamics

import "github.com/cwbudde/algo-comp/dsp/core"

// lin2dB converts a linear amplitude to dB with the core floor for silence.
func lin2dB(x float64) float64 {
	return core.LinearToDB(x)
}

// dB2Lin converts dB to a linear amplitude.
func dB2Lin(db float64) float64 {
	return core.DBToLinear(db)
}

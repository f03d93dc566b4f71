// Package testutil holds deterministic test signals and comparison helpers
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine wave starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise generates uniform white noise in [-amplitude, amplitude) with a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at pos.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Step holds lo before index at and hi from there on.
func Step(length, at int, lo, hi float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		if i < at {
			out[i] = lo
		} else {
			out[i] = hi
		}
	}
	return out
}

// Channels copies each signal into its own slice, giving a planar block
// that processing may overwrite without touching the sources.
func Channels(signals ...[]float64) [][]float64 {
	out := make([][]float64, len(signals))
	for ch, s := range signals {
		out[ch] = append([]float64(nil), s...)
	}
	return out
}

// Peak returns max |x|.
func Peak(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		p = math.Max(p, math.Abs(v))
	}
	return p
}

// RMS returns the root-mean-square of x; empty input yields 0.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

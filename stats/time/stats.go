// Package time computes time-domain level statistics of a signal, used to
// compare the dynamics of material before and after compression.
package time

import (
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
)

// Stats holds time-domain signal statistics. Levels in dB are floored at
// core.FloorDB.
type Stats struct {
	Length        int
	DC            float64
	RMS           float64
	RMSdB         float64
	Peak          float64
	PeakdB        float64
	CrestFactor   float64 // peak / RMS
	CrestFactordB float64
	ZeroCrossings int
}

// Calculate computes all statistics of signal in one pass.
func Calculate(signal []float64) Stats {
	var s StreamingStats
	s.Update(signal)
	return s.Result()
}

// StreamingStats accumulates Stats over consecutive blocks of one channel.
// The zero value is ready to use.
type StreamingStats struct {
	n         int
	sum       float64
	sumSq     float64
	peak      float64
	last      float64
	crossings int
}

// NewStreamingStats returns an empty accumulator.
func NewStreamingStats() *StreamingStats {
	return &StreamingStats{}
}

// Update adds a block of samples.
func (s *StreamingStats) Update(block []float64) {
	for _, x := range block {
		if s.n > 0 && s.last*x < 0 {
			s.crossings++
		}
		s.sum += x
		s.sumSq += x * x
		s.peak = math.Max(s.peak, math.Abs(x))
		s.last = x
		s.n++
	}
}

// Reset clears all accumulated state.
func (s *StreamingStats) Reset() {
	*s = StreamingStats{}
}

// Result returns the statistics of everything added so far.
func (s *StreamingStats) Result() Stats {
	if s.n == 0 {
		return Stats{RMSdB: core.FloorDB, PeakdB: core.FloorDB}
	}

	nf := float64(s.n)
	rms := math.Sqrt(s.sumSq / nf)

	st := Stats{
		Length:        s.n,
		DC:            s.sum / nf,
		RMS:           rms,
		RMSdB:         core.LinearToDB(rms),
		Peak:          s.peak,
		PeakdB:        core.LinearToDB(s.peak),
		ZeroCrossings: s.crossings,
	}
	if rms > 0 {
		st.CrestFactor = s.peak / rms
		st.CrestFactordB = 20 * math.Log10(st.CrestFactor)
	}

	return st
}

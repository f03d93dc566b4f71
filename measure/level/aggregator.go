package level

import (
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
)

const (
	rmsDecaySeconds  = 0.3
	peakDecaySeconds = 1.0
)

// Aggregator gathers the metering of one processing block: RMS and peak
// followers before and after processing, true peak in and out, and the
// smallest gain applied. It satisfies the engine's meter interface.
type Aggregator struct {
	followers [numKinds]*Follower

	truePeakIn  float64
	truePeakOut float64
	minGain     float64
}

// NewAggregator returns an aggregator prepared for the configured sample
// rate and channel count.
func NewAggregator(opts ...core.ProcessorOption) *Aggregator {
	cfg := core.ApplyProcessorOptions(opts...)

	a := &Aggregator{}
	a.followers[InputRMS] = NewFollower(cfg.Channels, RMS, rmsDecaySeconds)
	a.followers[OutputRMS] = NewFollower(cfg.Channels, RMS, rmsDecaySeconds)
	a.followers[InputPeak] = NewFollower(cfg.Channels, Peak, peakDecaySeconds)
	a.followers[OutputPeak] = NewFollower(cfg.Channels, Peak, peakDecaySeconds)
	a.Prepare(cfg.SampleRate, cfg.Channels)

	return a
}

// Prepare reconfigures every follower for sampleRate and channels and
// resets all state to the floor.
func (a *Aggregator) Prepare(sampleRate float64, channels int) {
	for _, f := range a.followers {
		f.Configure(channels, f.Mode(), f.decay)
		f.Prepare(sampleRate)
	}
	a.BeginBlock()
}

// Channels returns the metered channel count.
func (a *Aggregator) Channels() int {
	return a.followers[InputRMS].Channels()
}

// Follower returns the follower behind kind.
func (a *Aggregator) Follower(kind Kind) *Follower {
	return a.followers[kind]
}

// BeginBlock clears the per-block true peaks and gain tracking.
func (a *Aggregator) BeginBlock() {
	a.truePeakIn = 0
	a.truePeakOut = 0
	a.minGain = 1
}

// Input feeds one raw input sample.
func (a *Aggregator) Input(ch int, x float64) {
	a.truePeakIn = math.Max(a.truePeakIn, math.Abs(x))
	a.followers[InputRMS].ProcessSample(x, ch)
	a.followers[InputPeak].ProcessSample(x, ch)
}

// Output feeds one processed sample.
func (a *Aggregator) Output(ch int, y float64) {
	a.truePeakOut = math.Max(a.truePeakOut, math.Abs(y))
	a.followers[OutputRMS].ProcessSample(y, ch)
	a.followers[OutputPeak].ProcessSample(y, ch)
}

// Gain records an applied gain; the block keeps the smallest.
func (a *Aggregator) Gain(g float64) {
	a.minGain = math.Min(a.minGain, g)
}

// Snapshot writes the block's values in dB into dst, reusing its slices.
func (a *Aggregator) Snapshot(dst *Readings) {
	for k, f := range a.followers {
		dst.Levels[k] = core.EnsureLen(dst.Levels[k], f.Channels())
		for ch := range dst.Levels[k] {
			dst.Levels[k][ch] = core.LinearToDB(f.Env(ch))
		}
	}
	dst.TruePeakIn = core.LinearToDB(a.truePeakIn)
	dst.TruePeakOut = core.LinearToDB(a.truePeakOut)
	dst.GainReduction = core.LinearToDB(a.minGain)
}

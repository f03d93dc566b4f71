package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-comp/dsp/buffer"
	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/delay"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// RMSMax bounds the RMS detector window in samples.
	RMSMax = buffer.RMSMaxCapacity

	// LookaheadMax bounds the lookahead delay in samples.
	LookaheadMax = delay.MaxLookahead

	lookaheadSeconds = 0.01
	rmsSeconds       = 0.005

	// The RMS detector and the gain curve are refreshed once per cadence samples.
	cadence = 4
)

// LookaheadSamples returns the lookahead capacity, and thus the reported
// latency, for a sample rate: round(clamp(0.01*sr, 1, LookaheadMax)).
func LookaheadSamples(sampleRate float64) int {
	return core.RoundToInt(core.Clamp(lookaheadSeconds*sampleRate, 1, LookaheadMax))
}

// RMSWindowSamples returns the RMS window length for a sample rate:
// round(clamp(0.005*sr, 1, RMSMax)).
func RMSWindowSamples(sampleRate float64) int {
	return core.RoundToInt(core.Clamp(rmsSeconds*sampleRate, 1, RMSMax))
}

// Config fixes the engine shape. It only changes through Prepare.
type Config struct {
	SampleRate   float64
	Channels     int
	MaxBlockSize int
}

// ConfigFromOptions builds a Config from processor options.
func ConfigFromOptions(opts ...core.ProcessorOption) Config {
	cfg := core.ApplyProcessorOptions(opts...)
	return Config{SampleRate: cfg.SampleRate, Channels: cfg.Channels, MaxBlockSize: cfg.BlockSize}
}

func (c Config) validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("dynamics: sample rate must be positive and finite: %f", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("dynamics: channel count must be > 0: %d", c.Channels)
	}
	if c.MaxBlockSize <= 0 {
		return fmt.Errorf("dynamics: max block size must be > 0: %d", c.MaxBlockSize)
	}
	return nil
}

// Meter receives the engine's metering taps. Input sees the raw input
// sample, Output the processed sample before the soft-bypass override, and
// Gain the smallest smoothed gain of each processed chunk.
type Meter interface {
	Input(ch int, x float64)
	Output(ch int, y float64)
	Gain(g float64)
}

// Engine is a lookahead compressor for N channels sharing one detector.
//
// The detector sees each frame as it arrives while the audio path is delayed
// by LookaheadSamples, so gain changes land ahead of the transients that
// cause them. The RMS detector and the gain curve run once every four
// samples; the envelopes and the gain smoother run every sample.
//
// Engine is not safe for concurrent use. Prepare must not overlap Process.
type Engine struct {
	cfg    Config
	params Parameters
	coef   coefficients

	lookahead *delay.Lookahead
	rms       *buffer.RMSAccumulator

	gain    float64 // smoothed gain
	gainOut float64 // target gain from the curve
	envRMS  float64
	envPeak float64
	amp     float64 // last RMS detector output
	sum     float64 // squared peaks since the last refresh
	count   uint32

	frame   []float64
	slot    []float64
	delayed *buffer.Planar
	gains   []float64
}

// NewEngine returns an engine prepared for cfg with DefaultParameters.
func NewEngine(cfg Config) (*Engine, error) {
	e := &Engine{params: DefaultParameters()}
	if err := e.Prepare(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// Prepare reallocates all state for cfg and resets the engine. Parameters
// are kept and their coefficients recomputed for the new sample rate.
func (e *Engine) Prepare(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	la, err := delay.NewLookahead(cfg.Channels, LookaheadSamples(cfg.SampleRate))
	if err != nil {
		return fmt.Errorf("dynamics: prepare lookahead: %w", err)
	}

	e.cfg = cfg
	e.lookahead = la
	e.rms = buffer.NewRMSAccumulator(RMSWindowSamples(cfg.SampleRate))
	e.frame = make([]float64, cfg.Channels)
	e.slot = make([]float64, cfg.Channels)
	e.delayed = buffer.NewPlanar(cfg.Channels, cfg.MaxBlockSize)
	e.gains = make([]float64, cfg.MaxBlockSize)
	e.coef = e.params.coefficients(cfg.SampleRate)
	e.Reset()

	return nil
}

// Config returns the prepared configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Latency returns the lookahead delay in samples.
func (e *Engine) Latency() int {
	return e.lookahead.Latency()
}

// RMSWindow returns the RMS detector window in samples.
func (e *Engine) RMSWindow() int {
	return e.rms.Capacity()
}

// Parameters returns the active parameter set.
func (e *Engine) Parameters() Parameters {
	return e.params
}

// SetParameters validates p and makes it active for the next Process call.
// Detector and gain state carry over.
func (e *Engine) SetParameters(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.params = p
	e.coef = p.coefficients(e.cfg.SampleRate)
	return nil
}

// GainForLevel returns the static gain the curve assigns to a linear
// detector level under the active parameters.
func (e *Engine) GainForLevel(env float64) float64 {
	return e.coef.gainFor(env)
}

// Gain returns the current smoothed gain.
func (e *Engine) Gain() float64 {
	return e.gain
}

// Reset clears the delay line, the detectors and the gain state without
// reallocating. The gain restarts at unity.
func (e *Engine) Reset() {
	e.lookahead.Reset()
	e.rms.Reset()
	e.gain = 1
	e.gainOut = 1
	e.envRMS = 0
	e.envPeak = 0
	e.amp = 0
	e.sum = 0
	e.count = 0
}

// Process compresses in into out. Both hold Config().Channels slices; the
// frame count is the shortest channel length across both. in and out may be
// the same slices. m may be nil.
func (e *Engine) Process(in, out [][]float64, m Meter) {
	nch := e.cfg.Channels
	if len(in) < nch || len(out) < nch {
		return
	}

	n := math.MaxInt
	for ch := range nch {
		n = min(n, len(in[ch]), len(out[ch]))
	}

	for off := 0; off < n; off += e.cfg.MaxBlockSize {
		end := min(off+e.cfg.MaxBlockSize, n)
		e.processChunk(in, out, off, end, m)
	}
}

func (e *Engine) processChunk(in, out [][]float64, off, end int, m Meter) {
	c := &e.coef
	nch := e.cfg.Channels
	frames := end - off
	delayed := e.delayed.Channels()
	gains := e.gains[:frames]
	minGain := math.MaxFloat64

	// Detector pass: all input is consumed here, so out may alias in.
	for i := range frames {
		peak := 0.0
		for ch := range nch {
			x := in[ch][off+i]
			e.frame[ch] = x
			peak = core.BranchlessMax(math.Abs(x*c.inputGain), peak)
			if m != nil {
				m.Input(ch, x)
			}
		}

		oldPeak := e.lookahead.WriteAndAdvance(e.slot, e.frame, peak)
		for ch := range nch {
			delayed[ch][i] = e.slot[ch]
		}

		e.sum += peak * peak

		if e.amp > e.envRMS {
			e.envRMS = e.envRMS*c.ga + e.amp*(1-c.ga)
		} else {
			e.envRMS = e.envRMS*c.gr + e.amp*(1-c.gr)
		}
		e.envRMS = core.RoundToZero(e.envRMS)

		if oldPeak > e.envPeak {
			e.envPeak = e.envPeak*c.ga + oldPeak*(1-c.ga)
		} else {
			e.envPeak = e.envPeak*c.gr + oldPeak*(1-c.gr)
		}
		e.envPeak = core.RoundToZero(e.envPeak)

		if e.count&(cadence-1) == cadence-1 {
			e.amp = e.rms.Push(e.sum / cadence)
			e.sum = 0
			if math.IsNaN(e.envRMS) {
				e.envRMS = 0
			}
			e.gainOut = c.gainFor(core.Lerp(c.rmsPeak, e.envRMS, e.envPeak))
		}
		e.count++

		e.gain = e.gain*c.efA + e.gainOut*(1-c.efA)
		minGain = min(minGain, e.gain)

		gains[i] = (e.gain*c.makeup*c.inputGain*c.mix + (1 - c.mix)) * c.outputGain
	}

	// Output pass: out = delayed * g, then the soft-bypass override.
	for ch := range nch {
		dst := out[ch][off:end]
		vecmath.MulBlock(dst, delayed[ch][:frames], gains)

		if m != nil {
			for _, y := range dst {
				m.Output(ch, y)
			}
		}

		if c.softBypass {
			copy(dst, delayed[ch][:frames])
		}
	}

	if m != nil {
		m.Gain(minGain)
	}
}

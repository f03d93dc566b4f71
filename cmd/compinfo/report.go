package main

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-comp/measure/thd"
	"github.com/cwbudde/algo-comp/plugin"
	"github.com/cwbudde/algo-comp/plugin/param"
	timestats "github.com/cwbudde/algo-comp/stats/time"
)

var latencyRates = []float64{22050, 44100, 48000, 88200, 96000, 176400, 192000, 384000}

type curvePoint struct {
	inDB   float64
	gainDB float64
	outDB  float64
}

// transferCurve evaluates the static gain computer at points levels
// evenly spaced from lowDB to 0 dB.
func transferCurve(p dynamics.Parameters, lowDB float64, points int) ([]curvePoint, error) {
	eng, err := dynamics.NewEngine(dynamics.Config{SampleRate: 48000, Channels: 1, MaxBlockSize: 64})
	if err != nil {
		return nil, err
	}
	if err := eng.SetParameters(p); err != nil {
		return nil, err
	}

	levels := floats.Span(make([]float64, points), lowDB, 0)
	curve := make([]curvePoint, len(levels))
	for i, l := range levels {
		g := core.LinearToDB(eng.GainForLevel(core.DBToLinear(l))) + p.MakeupDB
		curve[i] = curvePoint{inDB: l, gainDB: g, outDB: l + g}
	}

	return curve, nil
}

// maxSlope returns the steepest output/input slope of the curve.
func maxSlope(curve []curvePoint) float64 {
	if len(curve) < 2 {
		return 0
	}
	slopes := make([]float64, len(curve)-1)
	for i := range slopes {
		a, b := curve[i], curve[i+1]
		slopes[i] = (b.outDB - a.outDB) / (b.inDB - a.inDB)
	}
	return floats.Max(slopes)
}

func printCurve(w io.Writer, opts options) error {
	curve, err := transferCurve(opts.params, opts.lowDB, opts.points)
	if err != nil {
		return err
	}

	p := opts.params
	if _, err := fmt.Fprintf(w, "Transfer curve (threshold %.1f dB, ratio %.1f:1, knee %.1f dB)\n", p.ThresholdDB, p.Ratio, p.KneeDB); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Input [dB]\tGain [dB]\tOutput [dB]\n"); err != nil {
		return err
	}
	for _, c := range curve {
		if _, err := fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\n", c.inDB, c.gainDB, c.outDB); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "Max slope\t%.3f\t\n\n", maxSlope(curve))
	return err
}

func printLatency(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Sample rate [Hz]\tLookahead [samples]\tRMS window [samples]\tLatency [ms]\n"); err != nil {
		return err
	}
	for _, sr := range latencyRates {
		la := dynamics.LookaheadSamples(sr)
		if _, err := fmt.Fprintf(w, "%.0f\t%d\t%d\t%.2f\n", sr, la, dynamics.RMSWindowSamples(sr), 1000*float64(la)/sr); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

type toneResult struct {
	thd           thd.Result
	gainReduction float64
	input         timestats.Stats
	output        timestats.Stats
}

// toneDistortion compresses one second of a sine and measures the
// harmonic distortion of the settled tail.
func toneDistortion(opts options) (toneResult, error) {
	const fftSize = 8192

	sr := opts.sampleRate
	n := max(int(sr), 2*fftSize)

	proc := plugin.New(plugin.WithLogger(quietLogger()))
	vals := proc.Values()
	p := opts.params
	for _, pv := range []struct {
		id param.ID
		v  float64
	}{
		{param.Threshold, p.ThresholdDB},
		{param.Ratio, p.Ratio},
		{param.Knee, p.KneeDB},
		{param.Makeup, p.MakeupDB},
		{param.Attack, p.AttackMs},
		{param.Release, p.ReleaseMs},
	} {
		vals.SetPlain(pv.id, pv.v)
	}

	if err := proc.Setup(plugin.Setup{SampleRate: sr, Channels: 1, MaxBlockSize: 1024, SampleSize: plugin.Sample64}); err != nil {
		return toneResult{}, err
	}

	amp := core.DBToLinear(opts.toneLevel)
	in := make([]float64, n)
	for i := range in {
		in[i] = amp * math.Sin(2*math.Pi*opts.toneFreq*float64(i)/sr)
	}
	out := make([]float64, n)

	if err := proc.Process64(&plugin.ProcessData[float64]{
		NumSamples: n,
		Inputs:     []plugin.AudioBus[float64]{{Channels: [][]float64{in}}},
		Outputs:    []plugin.AudioBus[float64]{{Channels: [][]float64{out}}},
	}); err != nil {
		return toneResult{}, err
	}

	tail := n - fftSize
	res, err := thd.AnalyzeSignal(out[tail:], thd.Config{
		SampleRate:      sr,
		FFTSize:         fftSize,
		FundamentalFreq: opts.toneFreq,
		RangeUpperFreq:  sr / 2,
		Window:          opts.window,
	})
	if err != nil {
		return toneResult{}, err
	}

	return toneResult{
		thd:           res,
		gainReduction: proc.Readings().GainReduction,
		input:         timestats.Calculate(in[tail:]),
		output:        timestats.Calculate(out[tail:]),
	}, nil
}

func printTone(w io.Writer, opts options) error {
	r, err := toneDistortion(opts)
	if err != nil {
		return err
	}

	rows := []struct {
		name  string
		value string
	}{
		{"Tone", fmt.Sprintf("%.0f Hz at %.1f dB", opts.toneFreq, opts.toneLevel)},
		{"Window", opts.window.String()},
		{"Gain reduction", fmt.Sprintf("%.2f dB", r.gainReduction)},
		{"RMS in / out", fmt.Sprintf("%.2f dB / %.2f dB", r.input.RMSdB, r.output.RMSdB)},
		{"THD", fmt.Sprintf("%.4f %% (%.1f dB)", 100*r.thd.THD, r.thd.THDdB)},
		{"THD+N", fmt.Sprintf("%.4f %% (%.1f dB)", 100*r.thd.THDN, r.thd.THDNdB)},
		{"Odd / even", fmt.Sprintf("%.4f %% / %.4f %%", 100*r.thd.OddHD, 100*r.thd.EvenHD)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", row.name, row.value); err != nil {
			return err
		}
	}
	return nil
}

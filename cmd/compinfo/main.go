// Command compinfo prints static properties of the compressor for a given
// parameter set: the transfer curve, latency per sample rate and the
// harmonic distortion added to a steady tone.
//
// Usage:
//
//	compinfo [flags]
//
// Examples:
//
//	compinfo -threshold -20 -ratio 8
//	compinfo -curve=false -tone-level -6 -attack 1.5 -release 2
//	compinfo -window flat-top -rate 96000
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-comp/dsp/window"
)

type options struct {
	params     dynamics.Parameters
	sampleRate float64
	points     int
	lowDB      float64
	curve      bool
	latency    bool
	tone       bool
	toneFreq   float64
	toneLevel  float64
	window     window.Type
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	opts := options{params: dynamics.DefaultParameters()}
	p := &opts.params

	fs := flag.NewFlagSet("compinfo", flag.ContinueOnError)
	fs.Float64Var(&p.ThresholdDB, "threshold", p.ThresholdDB, "threshold in dB")
	fs.Float64Var(&p.Ratio, "ratio", p.Ratio, "compression ratio")
	fs.Float64Var(&p.KneeDB, "knee", p.KneeDB, "knee width in dB")
	fs.Float64Var(&p.MakeupDB, "makeup", p.MakeupDB, "makeup gain in dB")
	fs.Float64Var(&p.AttackMs, "attack", p.AttackMs, "attack time in ms")
	fs.Float64Var(&p.ReleaseMs, "release", p.ReleaseMs, "release time in ms")
	fs.Float64Var(&opts.sampleRate, "rate", 48000, "sample rate for the tone test")
	fs.IntVar(&opts.points, "points", 13, "number of transfer curve points")
	fs.Float64Var(&opts.lowDB, "low", -60, "lowest transfer curve input level in dB")
	fs.BoolVar(&opts.curve, "curve", true, "print the transfer curve")
	fs.BoolVar(&opts.latency, "latency", true, "print the latency table")
	fs.BoolVar(&opts.tone, "tone", true, "print tone distortion")
	fs.Float64Var(&opts.toneFreq, "tone-freq", 1000, "test tone frequency in Hz")
	fs.Float64Var(&opts.toneLevel, "tone-level", -3, "test tone peak level in dB")
	winName := fs.String("window", window.TypeBlackmanHarris4Term.String(), "analysis window for the tone test")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: compinfo [flags]\n\nPrints transfer curve, latency and tone distortion of the compressor.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	wt, err := window.ParseType(*winName)
	if err != nil {
		return err
	}
	opts.window = wt

	if err := opts.params.Validate(); err != nil {
		return err
	}
	if opts.points < 2 {
		return fmt.Errorf("need at least 2 curve points: %d", opts.points)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if opts.curve {
		if err := printCurve(tw, opts); err != nil {
			return err
		}
	}
	if opts.latency {
		if err := printLatency(tw); err != nil {
			return err
		}
	}
	if opts.tone {
		if err := printTone(tw, opts); err != nil {
			return err
		}
	}

	return tw.Flush()
}

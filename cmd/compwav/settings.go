package main

import (
	"fmt"

	"github.com/cwbudde/algo-comp/plugin"
	"github.com/cwbudde/algo-comp/plugin/param"
)

const defaultBlockSize = 1024

// settings are the command-line parameter values in plain units.
type settings struct {
	inputDB     float64
	outputDB    float64
	rmsPeak     float64
	attackMs    float64
	releaseMs   float64
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	makeupDB    float64
	mix         float64
	softBypass  bool
	bypass      bool
	blockSize   int
	precision   int
}

func defaultSettings() settings {
	def := func(id param.ID) float64 {
		s, _ := param.Lookup(id)
		return s.Default
	}
	return settings{
		inputDB:     def(param.Input),
		outputDB:    def(param.Output),
		rmsPeak:     def(param.RMSPeak),
		attackMs:    def(param.Attack),
		releaseMs:   def(param.Release),
		thresholdDB: def(param.Threshold),
		ratio:       def(param.Ratio),
		kneeDB:      def(param.Knee),
		makeupDB:    def(param.Makeup),
		mix:         def(param.Mix),
		blockSize:   defaultBlockSize,
		precision:   int(plugin.Sample64),
	}
}

func flag01(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// apply range-checks the settings and stores them in vals.
func (s settings) apply(vals *param.Values) error {
	plain := []struct {
		id param.ID
		v  float64
	}{
		{param.Input, s.inputDB},
		{param.Output, s.outputDB},
		{param.RMSPeak, s.rmsPeak},
		{param.Attack, s.attackMs},
		{param.Release, s.releaseMs},
		{param.Threshold, s.thresholdDB},
		{param.Ratio, s.ratio},
		{param.Knee, s.kneeDB},
		{param.Makeup, s.makeupDB},
		{param.Mix, s.mix},
		{param.SoftBypass, flag01(s.softBypass)},
		{param.Bypass, flag01(s.bypass)},
	}

	for _, p := range plain {
		spec, _ := param.Lookup(p.id)
		if !(p.v >= spec.Min && p.v <= spec.Max) {
			return fmt.Errorf("%s out of range [%g, %g]: %g", spec.Name, spec.Min, spec.Max, p.v)
		}
		vals.SetPlain(p.id, p.v)
	}

	return nil
}

func (s settings) validate() error {
	if s.blockSize <= 0 {
		return fmt.Errorf("block size must be positive: %d", s.blockSize)
	}
	if s.precision != int(plugin.Sample32) && s.precision != int(plugin.Sample64) {
		return fmt.Errorf("precision must be 32 or 64: %d", s.precision)
	}
	return nil
}

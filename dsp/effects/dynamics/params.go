package dynamics

import (
	"fmt"
	"math"
)

const (
	// Parameter ranges in plain units.
	MinTrimDB      = -12.0
	MaxTrimDB      = 12.0
	MinAttackMs    = 1.5
	MaxAttackMs    = 400.0
	MinReleaseMs   = 2.0
	MaxReleaseMs   = 800.0
	MinThresholdDB = -30.0
	MaxThresholdDB = 0.0
	MinRatio       = 1.0
	MaxRatio       = 20.0
	MinKneeDB      = 1.0
	MaxKneeDB      = 10.0
	MinMakeupDB    = 0.0
	MaxMakeupDB    = 24.0

	defaultRMSPeak     = 0.2
	defaultAttackMs    = 25.0
	defaultReleaseMs   = 200.0
	defaultThresholdDB = -11.0
	defaultRatio       = 4.0
	defaultKneeDB      = 5.0
	defaultMix         = 1.0

	// Attack times below this use an instant (zero) attack coefficient.
	instantAttackMs = 2.0
)

// Parameters is the plain-unit parameter set read by the Engine once per block.
type Parameters struct {
	InputDB     float64 // input trim
	OutputDB    float64 // output trim
	RMSPeak     float64 // detector blend, 0 = RMS, 1 = peak
	AttackMs    float64
	ReleaseMs   float64
	ThresholdDB float64
	Ratio       float64 // n:1
	KneeDB      float64
	MakeupDB    float64
	Mix         float64 // wet fraction, 0 = dry, 1 = wet
	SoftBypass  bool    // output the delayed dry signal
}

// DefaultParameters returns the factory settings.
func DefaultParameters() Parameters {
	return Parameters{
		RMSPeak:     defaultRMSPeak,
		AttackMs:    defaultAttackMs,
		ReleaseMs:   defaultReleaseMs,
		ThresholdDB: defaultThresholdDB,
		Ratio:       defaultRatio,
		KneeDB:      defaultKneeDB,
		Mix:         defaultMix,
	}
}

// Validate reports the first field that is non-finite or outside its range.
func (p Parameters) Validate() error {
	checks := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"input trim", p.InputDB, MinTrimDB, MaxTrimDB},
		{"output trim", p.OutputDB, MinTrimDB, MaxTrimDB},
		{"rms/peak blend", p.RMSPeak, 0, 1},
		{"attack", p.AttackMs, MinAttackMs, MaxAttackMs},
		{"release", p.ReleaseMs, MinReleaseMs, MaxReleaseMs},
		{"threshold", p.ThresholdDB, MinThresholdDB, MaxThresholdDB},
		{"ratio", p.Ratio, MinRatio, MaxRatio},
		{"knee", p.KneeDB, MinKneeDB, MaxKneeDB},
		{"makeup", p.MakeupDB, MinMakeupDB, MaxMakeupDB},
		{"mix", p.Mix, 0, 1},
	}

	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value < c.min || c.value > c.max {
			return fmt.Errorf("dynamics: %s must be in [%g, %g]: %g", c.name, c.min, c.max, c.value)
		}
	}

	return nil
}

// coefficients are the per-block values derived from Parameters.
type coefficients struct {
	inputGain  float64
	outputGain float64
	rmsPeak    float64
	ga         float64 // envelope attack
	gr         float64 // envelope release
	efA        float64 // gain smoother, a quarter of ga
	threshold  float64
	knee       float64
	rs         float64 // (ratio-1)/ratio
	kneeMin    float64 // linear level at threshold-knee
	kneeMax    float64 // linear level at threshold+knee
	makeup     float64
	mix        float64
	softBypass bool
}

func (p Parameters) coefficients(sampleRate float64) coefficients {
	ga := 0.0
	if p.AttackMs >= instantAttackMs {
		ga = math.Exp(-1 / (sampleRate * p.AttackMs * 0.001))
	}

	return coefficients{
		inputGain:  dB2Lin(p.InputDB),
		outputGain: dB2Lin(p.OutputDB),
		rmsPeak:    p.RMSPeak,
		ga:         ga,
		gr:         math.Exp(-1 / (sampleRate * p.ReleaseMs * 0.001)),
		efA:        ga * 0.25,
		threshold:  p.ThresholdDB,
		knee:       p.KneeDB,
		rs:         (p.Ratio - 1) / p.Ratio,
		kneeMin:    dB2Lin(p.ThresholdDB - p.KneeDB),
		kneeMax:    dB2Lin(p.ThresholdDB + p.KneeDB),
		makeup:     dB2Lin(p.MakeupDB),
		mix:        p.Mix,
		softBypass: p.SoftBypass,
	}
}

// gainFor evaluates the static curve: unity up to kneeMin, a parabolic knee
// up to kneeMax and the ratio law above.
func (c *coefficients) gainFor(env float64) float64 {
	switch {
	case env <= c.kneeMin:
		return 1
	case env < c.kneeMax:
		x := -(c.threshold - c.knee - lin2dB(env)) / c.knee
		return dB2Lin(-c.knee * c.rs * x * x * 0.25)
	default:
		return dB2Lin((c.threshold - lin2dB(env)) * c.rs)
	}
}

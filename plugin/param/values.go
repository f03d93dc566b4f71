package param

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
)

// Values holds the normalized value of every parameter. Each field is
// stored atomically so readers never observe a torn value.
type Values struct {
	v [Count]atomic.Uint64
}

// NewValues returns values set to every parameter's default.
func NewValues() *Values {
	vals := &Values{}
	vals.Reset()
	return vals
}

// Reset restores every default.
func (vals *Values) Reset() {
	for id := range Count {
		vals.v[id].Store(math.Float64bits(specs[id].DefaultNormalized()))
	}
}

// Get returns the normalized value of id, or 0 for unknown ids.
func (vals *Values) Get(id ID) float64 {
	if id >= Count {
		return 0
	}
	return math.Float64frombits(vals.v[id].Load())
}

// Set stores a normalized value, clamped to [0, 1] and snapped for discrete
// parameters. NaN and unknown ids are ignored; Set reports whether it stored.
func (vals *Values) Set(id ID, v float64) bool {
	if id >= Count || math.IsNaN(v) {
		return false
	}
	s := specs[id]
	v = s.Quantize(math.Max(0, math.Min(1, v)))
	vals.v[id].Store(math.Float64bits(v))
	return true
}

// Plain returns the value of id in plain units.
func (vals *Values) Plain(id ID) float64 {
	if id >= Count {
		return 0
	}
	return specs[id].ToPlain(vals.Get(id))
}

// SetPlain stores a plain-unit value.
func (vals *Values) SetPlain(id ID, plain float64) bool {
	if id >= Count {
		return false
	}
	return vals.Set(id, specs[id].ToNormalized(plain))
}

// Bypass reports whether hard bypass is engaged.
func (vals *Values) Bypass() bool {
	return vals.Get(Bypass) > 0.5
}

// SoftBypass reports whether soft bypass is engaged.
func (vals *Values) SoftBypass() bool {
	return vals.Get(SoftBypass) > 0.5
}

// Snapshot copies every normalized value.
func (vals *Values) Snapshot() [Count]float64 {
	var out [Count]float64
	for id := range Count {
		out[id] = vals.Get(id)
	}
	return out
}

// Load stores every value of snap.
func (vals *Values) Load(snap [Count]float64) {
	for id := range Count {
		vals.Set(id, snap[id])
	}
}

// Engine returns the plain-unit parameters for the dynamics engine. The
// RMS/Peak blend and the mix are used as normalized fractions.
func (vals *Values) Engine() dynamics.Parameters {
	return dynamics.Parameters{
		InputDB:     vals.Plain(Input),
		OutputDB:    vals.Plain(Output),
		RMSPeak:     vals.Get(RMSPeak),
		AttackMs:    vals.Plain(Attack),
		ReleaseMs:   vals.Plain(Release),
		ThresholdDB: vals.Plain(Threshold),
		Ratio:       vals.Plain(Ratio),
		KneeDB:      vals.Plain(Knee),
		MakeupDB:    vals.Plain(Makeup),
		Mix:         vals.Get(Mix),
		SoftBypass:  vals.SoftBypass(),
	}
}

// Package param describes the compressor's host parameters: their ranges,
// the normalized<->plain mapping, lock-free value storage and the per-block
// change queues delivered by a host.
package param

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/effects/dynamics"
)

// ID identifies a parameter. The order is also the persisted state order.
type ID uint32

const (
	Bypass ID = iota
	Zoom
	OS
	Input
	Output
	RMSPeak
	Attack
	Release
	Threshold
	Ratio
	Knee
	Makeup
	Mix
	SoftBypass

	// Count is the number of parameters.
	Count
)

// Mapping is how a normalized value in [0, 1] maps to plain units.
type Mapping int

const (
	// Linear maps v to min + v*(max-min).
	Linear Mapping = iota
	// Logarithmic maps v to min*exp(v*ln(max/min)).
	Logarithmic
	// List maps v to one of Steps+1 labelled entries.
	List
	// Toggle is off below 0.5 and on otherwise.
	Toggle
)

func (m Mapping) String() string {
	switch m {
	case Linear:
		return "linear"
	case Logarithmic:
		return "logarithmic"
	case List:
		return "list"
	case Toggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// Spec describes one parameter.
type Spec struct {
	ID      ID
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64 // plain units
	Mapping Mapping
	Steps   int // discrete steps; 0 for continuous parameters
	Labels  []string
}

var (
	zoomLabels = []string{"50%", "75%", "100%", "125%", "150%", "175%", "200%"}
	osLabels   = []string{"x1", "x2", "x4", "x8"}
)

var specs = [Count]Spec{
	{ID: Bypass, Name: "Bypass", Min: 0, Max: 1, Default: 0, Mapping: Toggle, Steps: 1},
	{ID: Zoom, Name: "Zoom", Min: 0, Max: 6, Default: 2, Mapping: List, Steps: 6, Labels: zoomLabels},
	{ID: OS, Name: "OS", Min: 0, Max: 3, Default: 0, Mapping: List, Steps: 3, Labels: osLabels},
	{ID: Input, Name: "Input", Unit: "dB", Min: dynamics.MinTrimDB, Max: dynamics.MaxTrimDB, Default: 0},
	{ID: Output, Name: "Output", Unit: "dB", Min: dynamics.MinTrimDB, Max: dynamics.MaxTrimDB, Default: 0},
	{ID: RMSPeak, Name: "RMS/Peak", Unit: "%", Min: 0, Max: 100, Default: 20},
	{ID: Attack, Name: "Attack", Unit: "ms", Min: dynamics.MinAttackMs, Max: dynamics.MaxAttackMs, Default: 25, Mapping: Logarithmic},
	{ID: Release, Name: "Release", Unit: "ms", Min: dynamics.MinReleaseMs, Max: dynamics.MaxReleaseMs, Default: 200},
	{ID: Threshold, Name: "Threshold", Unit: "dB", Min: dynamics.MinThresholdDB, Max: dynamics.MaxThresholdDB, Default: -11},
	{ID: Ratio, Name: "Ratio", Unit: ":1", Min: dynamics.MinRatio, Max: dynamics.MaxRatio, Default: 4},
	{ID: Knee, Name: "Knee", Unit: "dB", Min: dynamics.MinKneeDB, Max: dynamics.MaxKneeDB, Default: 5},
	{ID: Makeup, Name: "Makeup", Unit: "dB", Min: dynamics.MinMakeupDB, Max: dynamics.MaxMakeupDB, Default: 0},
	{ID: Mix, Name: "Mix", Unit: "%", Min: 0, Max: 100, Default: 100},
	{ID: SoftBypass, Name: "Soft Bypass", Min: 0, Max: 1, Default: 0, Mapping: Toggle, Steps: 1},
}

// Specs returns every parameter spec in ID order.
func Specs() []Spec {
	out := make([]Spec, Count)
	copy(out, specs[:])
	return out
}

// Lookup returns the spec for id.
func Lookup(id ID) (Spec, bool) {
	if id >= Count {
		return Spec{}, false
	}
	return specs[id], true
}

// String returns the parameter name.
func (id ID) String() string {
	if s, ok := Lookup(id); ok {
		return s.Name
	}
	return fmt.Sprintf("param(%d)", uint32(id))
}

// ToPlain maps a normalized value to plain units. v is clamped to [0, 1]
// and the result to [Min, Max].
func (s Spec) ToPlain(v float64) float64 {
	v = core.Clamp(v, 0, 1)

	var plain float64
	switch s.Mapping {
	case Logarithmic:
		plain = s.Min * math.Exp(v*math.Log(s.Max/s.Min))
	case List, Toggle:
		plain = s.Min + s.Quantize(v)*(s.Max-s.Min)
	default:
		plain = s.Min + v*(s.Max-s.Min)
	}

	return core.Clamp(plain, s.Min, s.Max)
}

// ToNormalized maps a plain value to [0, 1].
func (s Spec) ToNormalized(plain float64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	plain = core.Clamp(plain, s.Min, s.Max)

	var v float64
	switch s.Mapping {
	case Logarithmic:
		v = math.Log(plain/s.Min) / math.Log(s.Max/s.Min)
	default:
		v = (plain - s.Min) / (s.Max - s.Min)
	}

	return s.Quantize(core.Clamp(v, 0, 1))
}

// DefaultNormalized returns the default as a normalized value.
func (s Spec) DefaultNormalized() float64 {
	return s.ToNormalized(s.Default)
}

// Quantize snaps v to the nearest step of a discrete parameter. Continuous
// parameters are returned unchanged. Toggles are on strictly above 0.5.
func (s Spec) Quantize(v float64) float64 {
	if s.Mapping == Toggle {
		if v > 0.5 {
			return 1
		}
		return 0
	}
	if s.Steps <= 0 {
		return v
	}
	steps := float64(s.Steps)
	return float64(core.RoundToInt(core.Clamp(v, 0, 1)*steps)) / steps
}

// Index returns the list entry selected by v.
func (s Spec) Index(v float64) int {
	return core.RoundToInt(s.Quantize(v) * float64(s.Steps))
}

// Format renders a normalized value for display.
func (s Spec) Format(v float64) string {
	switch s.Mapping {
	case Toggle:
		if s.Quantize(v) == 1 {
			return "On"
		}
		return "Off"
	case List:
		if i := s.Index(v); i >= 0 && i < len(s.Labels) {
			return s.Labels[i]
		}
		return fmt.Sprintf("%d", s.Index(v))
	}

	plain := s.ToPlain(v)
	switch s.Unit {
	case "":
		return fmt.Sprintf("%.2f", plain)
	case ":1":
		return fmt.Sprintf("%.1f:1", plain)
	case "%":
		return fmt.Sprintf("%.0f%%", plain)
	default:
		return fmt.Sprintf("%.1f %s", plain, s.Unit)
	}
}

// Package window generates the analysis windows used for spectral
// measurements of processed signals.
package window

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function. The zero value is Hann.
type Type int

const (
	TypeHann Type = iota
	TypeRectangular
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
	TypeFlatTop

	numTypes
)

// Metadata holds spectral properties of a window type.
type Metadata struct {
	Name string
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// HighestSidelobe is relative to the main lobe, in dB.
	HighestSidelobe float64
	CoherentGain    float64
	// FirstMinimumBins is the half-width of the main lobe.
	FirstMinimumBins int
}

var errEmptyCoeffs = errors.New("window coefficients must not be empty")

var cosineTerms = [numTypes][]float64{
	TypeHann:                {0.5, -0.5},
	TypeRectangular:         {1},
	TypeHamming:             {0.54, -0.46},
	TypeBlackman:            {0.42, -0.5, 0.08},
	TypeBlackmanHarris4Term: {0.35875, -0.48829, 0.14128, -0.01168},
	TypeFlatTop:             {0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
}

var metadataByType = [numTypes]Metadata{
	TypeHann:                {Name: "hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5, FirstMinimumBins: 2},
	TypeRectangular:         {Name: "rectangular", ENBW: 1, HighestSidelobe: -13.3, CoherentGain: 1, FirstMinimumBins: 1},
	TypeHamming:             {Name: "hamming", ENBW: 1.3628, HighestSidelobe: -42.7, CoherentGain: 0.54, FirstMinimumBins: 2},
	TypeBlackman:            {Name: "blackman", ENBW: 1.7268, HighestSidelobe: -58.1, CoherentGain: 0.42, FirstMinimumBins: 3},
	TypeBlackmanHarris4Term: {Name: "blackman-harris", ENBW: 2.0044, HighestSidelobe: -92.0, CoherentGain: 0.35875, FirstMinimumBins: 4},
	TypeFlatTop:             {Name: "flat-top", ENBW: 3.7702, HighestSidelobe: -93.0, CoherentGain: 0.21557895, FirstMinimumBins: 5},
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form used for FFT framing.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length. Unknown types
// yield a rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	terms := cosineTerms[TypeRectangular]
	if t >= 0 && t < numTypes {
		terms = cosineTerms[t]
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = cosineSum(samplePosition(i, length, cfg.periodic), terms)
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if t < 0 || t >= numTypes {
		return Metadata{}
	}
	return metadataByType[t]
}

// String returns the window name.
func (t Type) String() string {
	if m := Info(t); m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("window(%d)", int(t))
}

// Types returns every supported window type.
func Types() []Type {
	out := make([]Type, numTypes)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

// ParseType looks up a window by name, case-insensitively.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Types() {
		if metadataByType[t].Name == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown window %q", name)
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a window.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	sumSquares := 0.0
	for _, c := range coeffs {
		sum += c
		sumSquares += c * c
	}

	if sum == 0 {
		return 0, errors.New("window coherent gain is zero")
	}

	return float64(len(coeffs)) * sumSquares / (sum * sum), nil
}

func cosineSum(x float64, terms []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range terms {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

// Package thd measures harmonic distortion of a tone, as used to check how
// much a compressor colours a steady sine.
package thd

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-comp/dsp/core"
	"github.com/cwbudde/algo-comp/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
)

// ErrEmptySignal is returned when there is nothing to analyze.
var ErrEmptySignal = errors.New("thd: empty signal")

// Config holds THD calculation parameters. Zero fields take defaults: the
// FFT size is the next power of two of the signal, the fundamental is the
// strongest bin in range, capture width follows the window main lobe and
// the window is Hann.
type Config struct {
	SampleRate      float64
	FFTSize         int
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	CaptureBins     int
	MaxHarmonics    int
	Window          window.Type
}

// Result holds THD measurement results. Ratios are relative to the
// fundamental amplitude.
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THDdB            float64
	THDNdB           float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	Harmonics        []float64
	SINAD            float64
}

// Analyzer runs repeated THD analyses, reusing its FFT plan and buffers
// while the FFT size stays the same.
type Analyzer struct {
	cfg Config

	size int
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
	win  []float64
	mag  []float64
}

// NewAnalyzer returns an analyzer for cfg.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: normalizeConfig(cfg)}
}

// AnalyzeSignal is a one-shot analysis of a time-domain signal.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	return NewAnalyzer(cfg).Analyze(signal)
}

// Analyze windows signal, transforms it and evaluates the distortion of
// its fundamental. A signal longer than the FFT size is truncated.
func (a *Analyzer) Analyze(signal []float64) (Result, error) {
	if len(signal) == 0 {
		return Result{}, ErrEmptySignal
	}

	size := a.cfg.FFTSize
	if size <= 0 {
		size = nextPowerOf2(len(signal))
	}
	if size < 2 {
		return Result{}, fmt.Errorf("thd: fft size %d too small", size)
	}
	if err := a.prepare(size, min(len(signal), size)); err != nil {
		return Result{}, err
	}

	for i := range a.in {
		a.in[i] = 0
	}
	for i, w := range a.win {
		a.in[i] = complex(signal[i]*w, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Result{}, fmt.Errorf("thd: forward fft: %w", err)
	}

	for i := range a.mag {
		x := a.out[i]
		a.mag[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	return a.calculate(a.mag, size), nil
}

// AnalyzeMagnitude evaluates a squared-magnitude spectrum holding the bins
// from DC to Nyquist.
func (a *Analyzer) AnalyzeMagnitude(magSquared []float64) Result {
	if len(magSquared) <= 1 {
		return Result{}
	}
	size := a.cfg.FFTSize
	if size <= 0 {
		size = 2 * (len(magSquared) - 1)
	}
	return a.calculate(magSquared, size)
}

func (a *Analyzer) prepare(size, frames int) error {
	if size != a.size {
		plan, err := algofft.NewPlan64(size)
		if err != nil {
			return fmt.Errorf("thd: fft plan: %w", err)
		}
		a.plan = plan
		a.size = size
		a.in = make([]complex128, size)
		a.out = make([]complex128, size)
		a.mag = core.EnsureLen(a.mag, size/2+1)
	}
	if len(a.win) != frames {
		a.win = window.Generate(a.cfg.Window, frames)
	}
	return nil
}

//nolint:cyclop,funlen
func (a *Analyzer) calculate(magSquared []float64, fftSize int) Result {
	cfg := a.cfg
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = float64(fftSize)
	}

	maxBin := len(magSquared) - 1
	binHz := sampleRate / float64(fftSize)

	lowerBin := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upperBin := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lowerBin, maxBin)

	fundamentalBin := lowerBin
	if cfg.FundamentalFreq > 0 {
		fundamentalBin = clampInt(int(math.Round(cfg.FundamentalFreq/binHz)), lowerBin, upperBin)
	} else {
		best := -1.0
		for i := lowerBin; i <= upperBin; i++ {
			if magSquared[i] > best {
				best = magSquared[i]
				fundamentalBin = i
			}
		}
	}

	captureBins := cfg.CaptureBins
	if captureBins <= 0 {
		captureBins = window.Info(cfg.Window).FirstMinimumBins
	}
	captureBins = min(captureBins, fundamentalBin/2)

	res := Result{FundamentalFreq: float64(fundamentalBin) * binHz}

	fundamental := binSum(magSquared, fundamentalBin, captureBins)
	if fundamental <= 0 {
		return res
	}

	var harmonicSum, odd, even float64
	for k := 2; ; k++ {
		if cfg.MaxHarmonics > 0 && k-1 > cfg.MaxHarmonics {
			break
		}
		bin := k * fundamentalBin
		if bin > upperBin {
			break
		}

		v := binSum(magSquared, bin, captureBins)
		harmonicSum += v
		if k%2 == 0 {
			even += v
		} else {
			odd += v
		}
		if v > 0 {
			res.Harmonics = append(res.Harmonics, v/fundamental)
		}
	}

	total := 0.0
	for i := lowerBin; i <= upperBin; i++ {
		total += sqrtPositive(magSquared[i])
	}
	rest := math.Max(total-fundamental, 0)
	noise := math.Max(rest-harmonicSum, 0)

	res.FundamentalLevel = fundamental
	res.THD = harmonicSum / fundamental
	res.THDN = rest / fundamental
	res.THDdB = ratioToDB(res.THD)
	res.THDNdB = ratioToDB(res.THDN)
	res.OddHD = odd / fundamental
	res.EvenHD = even / fundamental
	res.Noise = noise / fundamental
	res.SINAD = math.Inf(1)
	if res.THDN > 0 {
		res.SINAD = -ratioToDB(res.THDN)
	}

	return res
}

func normalizeConfig(cfg Config) Config {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}
	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultRangeUpperHz
	}
	cfg.RangeUpperFreq = math.Max(cfg.RangeUpperFreq, cfg.RangeLowerFreq)
	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)
	return cfg
}

// binSum adds the amplitudes within captureBins of bin.
func binSum(magSquared []float64, bin, captureBins int) float64 {
	if bin < 0 || bin >= len(magSquared) {
		return 0
	}

	lo := max(bin-captureBins, 0)
	hi := min(bin+captureBins, len(magSquared)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += sqrtPositive(magSquared[i])
	}
	return sum
}

func sqrtPositive(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

func clampInt(val, lo, hi int) int {
	return max(lo, min(val, hi))
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

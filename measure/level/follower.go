package level

import (
	"math"

	"github.com/cwbudde/algo-comp/dsp/core"
)

// Mode selects what a Follower tracks.
type Mode int

const (
	// Peak follows |x| in dB with a fast attack and a slow release.
	Peak Mode = iota
	// RMS release-smooths the dB power of x in both directions.
	RMS
)

func (m Mode) String() string {
	switch m {
	case Peak:
		return "peak"
	case RMS:
		return "rms"
	default:
		return "unknown"
	}
}

// attackFraction scales the decay time to get the attack time.
const attackFraction = 0.01

// floorSnap is how close to FloorDB a state must be to read as silence.
const floorSnap = 1e-9

// Follower is a per-channel exponential level follower working in the dB
// domain. The attack time is 1% of the decay time.
type Follower struct {
	mode         Mode
	decay        float64
	sampleRate   float64
	alphaAttack  float64
	alphaRelease float64
	state        []float64
}

// NewFollower returns a follower configured for channels, mode and decay.
// Prepare must be called before use.
func NewFollower(channels int, mode Mode, decaySeconds float64) *Follower {
	f := &Follower{}
	f.Configure(channels, mode, decaySeconds)
	return f
}

// Configure sets channel count, mode and decay, resetting every channel to
// the floor. Coefficients are recomputed when a sample rate is known.
func (f *Follower) Configure(channels int, mode Mode, decaySeconds float64) {
	f.mode = mode
	f.decay = decaySeconds
	channels = max(channels, 0)
	if cap(f.state) >= channels {
		f.state = f.state[:channels]
	} else {
		f.state = make([]float64, channels)
	}
	if f.sampleRate > 0 {
		f.Prepare(f.sampleRate)
		return
	}
	f.Reset()
}

// Prepare computes the smoothing coefficients for sampleRate and resets
// every channel to the floor.
func (f *Follower) Prepare(sampleRate float64) {
	f.sampleRate = sampleRate
	f.alphaAttack = math.Exp(-1 / (sampleRate * attackFraction * f.decay))
	f.alphaRelease = math.Exp(-1 / (sampleRate * f.decay))
	f.Reset()
}

// Reset sets every channel to the floor.
func (f *Follower) Reset() {
	for i := range f.state {
		f.state[i] = core.FloorDB
	}
}

// Channels returns the configured channel count.
func (f *Follower) Channels() int {
	return len(f.state)
}

// Mode returns the detection mode.
func (f *Follower) Mode() Mode {
	return f.mode
}

// ProcessSample advances channel ch by one sample. Unknown channels are ignored.
func (f *Follower) ProcessSample(x float64, ch int) {
	if ch < 0 || ch >= len(f.state) {
		return
	}

	s := f.state[ch]
	if f.mode == Peak {
		in := core.LinearToDB(math.Abs(x))
		if in > s {
			s = f.alphaAttack*s + (1-f.alphaAttack)*in
		} else {
			s = f.alphaRelease*s + (1-f.alphaRelease)*in
		}
	} else {
		pwr := core.LinearToDB(x * x)
		s = f.alphaRelease*s + (1-f.alphaRelease)*pwr
	}
	f.state[ch] = s
}

// Update runs a planar block through the follower.
func (f *Follower) Update(block [][]float64) {
	for ch, data := range block {
		if ch >= len(f.state) {
			return
		}
		for _, x := range data {
			f.ProcessSample(x, ch)
		}
	}
}

// Env returns the linear envelope of channel ch, or 0 for unknown channels
// and for channels resting at the floor.
func (f *Follower) Env(ch int) float64 {
	if ch < 0 || ch >= len(f.state) {
		return 0
	}

	s := f.state[ch]
	if s <= core.FloorDB+floorSnap {
		return 0
	}

	g := core.DBToLinear(s)
	if f.mode == RMS {
		return math.Sqrt(math.Max(0, g))
	}
	return g
}

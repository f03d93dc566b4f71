package level

import "github.com/cwbudde/algo-comp/dsp/core"

// Kind names one of the four follower paths.
type Kind int

const (
	InputRMS Kind = iota
	InputPeak
	OutputRMS
	OutputPeak

	numKinds
)

func (k Kind) String() string {
	switch k {
	case InputRMS:
		return "input rms"
	case InputPeak:
		return "input peak"
	case OutputRMS:
		return "output rms"
	case OutputPeak:
		return "output peak"
	default:
		return "unknown"
	}
}

// Metering attribute identifiers carried by one update tick.
const (
	AttrInLRMS   = "vuInLRMS"
	AttrInRRMS   = "vuInRRMS"
	AttrInLPeak  = "vuInLPeak"
	AttrInRPeak  = "vuInRPeak"
	AttrTPIn     = "tpIn"
	AttrOutLRMS  = "vuOutLRMS"
	AttrOutRRMS  = "vuOutRRMS"
	AttrOutLPeak = "vuOutLPeak"
	AttrOutRPeak = "vuOutRPeak"
	AttrTPOut    = "tpOut"
	AttrGR       = "vuGR"
	AttrUpdate   = "update"
)

// Attribute is one named metering value.
type Attribute struct {
	ID    string
	Value float64
}

// Readings is a dB snapshot of one processed block.
type Readings struct {
	Levels        [numKinds][]float64 // per kind, per channel
	TruePeakIn    float64
	TruePeakOut   float64
	GainReduction float64 // dB, 0 means no reduction
}

// FloorReadings returns readings for a block with no signal: every level at
// the floor and no gain reduction.
func FloorReadings(channels int) Readings {
	var r Readings
	r.SetFloor(channels)
	return r
}

// SetFloor resets r in place to the silent state for channels.
func (r *Readings) SetFloor(channels int) {
	for k := range r.Levels {
		r.Levels[k] = core.EnsureLen(r.Levels[k], channels)
		for ch := range r.Levels[k] {
			r.Levels[k][ch] = core.FloorDB
		}
	}
	r.TruePeakIn = core.FloorDB
	r.TruePeakOut = core.FloorDB
	r.GainReduction = 0
}

// Channels returns the number of metered channels.
func (r Readings) Channels() int {
	return len(r.Levels[InputRMS])
}

// Level returns the dB level for kind and channel, or 0 when either is unknown.
func (r Readings) Level(kind Kind, ch int) float64 {
	if kind < 0 || kind >= numKinds {
		return 0
	}
	levels := r.Levels[kind]
	if ch < 0 || ch >= len(levels) {
		return 0
	}
	return levels[ch]
}

// Stereo returns left and right levels for kind. A mono reading feeds both
// sides; no channels yields zeros.
func (r Readings) Stereo(kind Kind) (left, right float64) {
	if kind < 0 || kind >= numKinds {
		return 0, 0
	}
	levels := r.Levels[kind]
	switch len(levels) {
	case 0:
		return 0, 0
	case 1:
		return levels[0], levels[0]
	default:
		return levels[0], levels[1]
	}
}

// Attributes appends the update tick's attributes to dst in message order.
func (r Readings) Attributes(dst []Attribute) []Attribute {
	inLRMS, inRRMS := r.Stereo(InputRMS)
	inLPeak, inRPeak := r.Stereo(InputPeak)
	outLRMS, outRRMS := r.Stereo(OutputRMS)
	outLPeak, outRPeak := r.Stereo(OutputPeak)

	return append(dst,
		Attribute{AttrInLRMS, inLRMS},
		Attribute{AttrInRRMS, inRRMS},
		Attribute{AttrInLPeak, inLPeak},
		Attribute{AttrInRPeak, inRPeak},
		Attribute{AttrTPIn, r.TruePeakIn},
		Attribute{AttrOutLRMS, outLRMS},
		Attribute{AttrOutRRMS, outRRMS},
		Attribute{AttrOutLPeak, outLPeak},
		Attribute{AttrOutRPeak, outRPeak},
		Attribute{AttrTPOut, r.TruePeakOut},
		Attribute{AttrGR, r.GainReduction},
		Attribute{AttrUpdate, 1},
	)
}

// Clone returns a deep copy that shares no memory with r.
func (r Readings) Clone() Readings {
	out := r
	for k := range r.Levels {
		out.Levels[k] = append([]float64(nil), r.Levels[k]...)
	}
	return out
}

package plugin

import "github.com/cwbudde/algo-comp/dsp/core"

// SampleSize is the host sample format in bits.
type SampleSize int

const (
	Sample32 SampleSize = 32
	Sample64 SampleSize = 64
)

// AudioBus is one planar bus. Bit n of SilenceFlags marks channel n silent.
type AudioBus[F core.Sample] struct {
	Channels     [][]F
	SilenceFlags uint64
}

// ChannelMask returns the silence mask with every channel of an n-channel bus set.
func ChannelMask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(n)) - 1
}

// AllSilent reports whether every channel of the bus is flagged silent.
func (b *AudioBus[F]) AllSilent() bool {
	return len(b.Channels) > 0 && b.SilenceFlags == ChannelMask(len(b.Channels))
}

package buffer

import "github.com/tphakala/simd/f64"

// Planar holds one contiguous slice per channel, all of the same length.
// Channel slices share a single backing array.
type Planar struct {
	data     []float64
	channels [][]float64
	frames   int
}

// NewPlanar returns a zero-filled block with the given channel count and length.
func NewPlanar(channels, frames int) *Planar {
	p := &Planar{}
	p.Resize(channels, frames)
	return p
}

// Channels returns the per-channel slices.
func (p *Planar) Channels() [][]float64 {
	return p.channels
}

// Channel returns the slice for channel ch.
func (p *Planar) Channel(ch int) []float64 {
	return p.channels[ch]
}

// NumChannels returns the channel count.
func (p *Planar) NumChannels() int {
	return len(p.channels)
}

// Frames returns the per-channel length.
func (p *Planar) Frames() int {
	return p.frames
}

// Resize changes the shape, reusing the backing array when it is large enough.
// Contents are zeroed.
func (p *Planar) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	total := channels * frames
	if cap(p.data) >= total {
		p.data = p.data[:total]
	} else {
		p.data = make([]float64, total)
	}

	if cap(p.channels) >= channels {
		p.channels = p.channels[:channels]
	} else {
		p.channels = make([][]float64, channels)
	}

	for ch := range channels {
		p.channels[ch] = p.data[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}

	p.frames = frames
	p.Zero()
}

// Zero sets all samples to 0.
func (p *Planar) Zero() {
	for i := range p.data {
		p.data[i] = 0
	}
}

// Deinterleave fills the block from interleaved frames and returns the number
// of frames read. Missing source samples leave the tail untouched.
func (p *Planar) Deinterleave(src []float64) int {
	nch := len(p.channels)
	if nch == 0 {
		return 0
	}

	n := min(p.frames, len(src)/nch)
	for i := range n {
		base := i * nch
		for ch := range nch {
			p.channels[ch][i] = src[base+ch]
		}
	}

	return n
}

// Interleave writes the first n frames into dst and returns the frame count
// written. Stereo blocks use the SIMD interleaver.
func (p *Planar) Interleave(dst []float64, n int) int {
	nch := len(p.channels)
	if nch == 0 {
		return 0
	}

	n = min(n, p.frames, len(dst)/nch)
	if n <= 0 {
		return 0
	}

	if nch == 2 {
		f64.Interleave2(dst[:2*n], p.channels[0][:n], p.channels[1][:n])
		return n
	}

	for i := range n {
		base := i * nch
		for ch := range nch {
			dst[base+ch] = p.channels[ch][i]
		}
	}

	return n
}

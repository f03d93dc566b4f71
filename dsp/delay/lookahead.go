// Package delay provides the fixed lookahead delay ring used by the compressor.
package delay

import "fmt"

// MaxLookahead bounds the lookahead capacity in frames.
const MaxLookahead = 3840

// Lookahead is a circular buffer of multi-channel frames. Each slot carries
// the frame's channel values plus the detector peak computed when the frame
// was written. Reading a slot yields the frame written Capacity() writes ago,
// so the ring introduces a fixed delay of Capacity() samples.
type Lookahead struct {
	channels int
	capacity int
	values   []float64 // capacity*channels, frame-major
	peaks    []float64
	pos      int
}

// NewLookahead returns a zeroed ring for the given channel count and capacity.
func NewLookahead(channels, capacity int) (*Lookahead, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("delay: channel count must be > 0: %d", channels)
	}
	if capacity <= 0 || capacity > MaxLookahead {
		return nil, fmt.Errorf("delay: lookahead capacity must be in [1, %d]: %d", MaxLookahead, capacity)
	}

	return &Lookahead{
		channels: channels,
		capacity: capacity,
		values:   make([]float64, capacity*channels),
		peaks:    make([]float64, capacity),
	}, nil
}

// Channels returns the number of channels per frame.
func (l *Lookahead) Channels() int {
	return l.channels
}

// Capacity returns the number of slots.
func (l *Lookahead) Capacity() int {
	return l.capacity
}

// Latency returns the delay in samples, which equals Capacity.
func (l *Lookahead) Latency() int {
	return l.capacity
}

// WriteAndAdvance copies the current slot's stored frame into dst, stores
// values and peak in its place, advances the position and returns the
// previously stored peak. dst and values must hold at least Channels()
// elements; dst may alias values.
func (l *Lookahead) WriteAndAdvance(dst, values []float64, peak float64) float64 {
	base := l.pos * l.channels
	slot := l.values[base : base+l.channels]

	for ch, v := range slot {
		in := values[ch]
		dst[ch] = v
		slot[ch] = in
	}

	old := l.peaks[l.pos]
	l.peaks[l.pos] = peak

	l.pos++
	if l.pos == l.capacity {
		l.pos = 0
	}

	return old
}

// Reset zeroes all slots and rewinds the position.
func (l *Lookahead) Reset() {
	for i := range l.values {
		l.values[i] = 0
	}
	for i := range l.peaks {
		l.peaks[i] = 0
	}
	l.pos = 0
}

package buffer

import "math"

// RMSMaxCapacity bounds the RMS window length in samples.
const RMSMaxCapacity = 1920

// sumFloor flushes the running sum to zero once it falls below this value,
// removing accumulated round-off after the signal goes silent.
const sumFloor = 1e-6

// RMSAccumulator keeps a circular window of squared values with a running sum
// and yields the root-mean-square over the window.
type RMSAccumulator struct {
	buf []float64
	pos int
	sum float64
}

// NewRMSAccumulator returns a zeroed accumulator with the given window length,
// clamped to [1, RMSMaxCapacity].
func NewRMSAccumulator(capacity int) *RMSAccumulator {
	capacity = max(1, min(capacity, RMSMaxCapacity))
	return &RMSAccumulator{buf: make([]float64, capacity)}
}

// Push replaces the oldest value with x (a squared amplitude, x >= 0) and
// returns sqrt(sum/capacity).
func (r *RMSAccumulator) Push(x float64) float64 {
	r.sum -= r.buf[r.pos]
	r.sum += x
	if r.sum < sumFloor {
		r.sum = 0
	}

	r.buf[r.pos] = x
	r.pos++
	if r.pos == len(r.buf) {
		r.pos = 0
	}

	return math.Sqrt(r.sum / float64(len(r.buf)))
}

// Sum returns the running sum.
func (r *RMSAccumulator) Sum() float64 {
	return r.sum
}

// Capacity returns the window length.
func (r *RMSAccumulator) Capacity() int {
	return len(r.buf)
}

// Reset zeroes the window and the running sum.
func (r *RMSAccumulator) Reset() {
	for i := range r.buf {
		r.buf[i] = 0
	}
	r.pos = 0
	r.sum = 0
}

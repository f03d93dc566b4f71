package buffer

import (
	"math"
	"testing"
)

func TestRMSAccumulatorCapacityClamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 1},
		{in: -3, want: 1},
		{in: 240, want: 240},
		{in: RMSMaxCapacity, want: RMSMaxCapacity},
		{in: 5000, want: RMSMaxCapacity},
	}
	for _, tt := range tests {
		if got := NewRMSAccumulator(tt.in).Capacity(); got != tt.want {
			t.Fatalf("NewRMSAccumulator(%d).Capacity() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRMSAccumulatorConstantInput(t *testing.T) {
	const v = 0.25
	r := NewRMSAccumulator(60)

	var out float64
	for range 60 {
		out = r.Push(v)
	}

	if math.Abs(out-math.Sqrt(v)) > 1e-12 {
		t.Fatalf("steady output = %v, want %v", out, math.Sqrt(v))
	}

	// Further pushes evict equal values and keep the result.
	for range 17 {
		out = r.Push(v)
	}
	if math.Abs(out-math.Sqrt(v)) > 1e-12 {
		t.Fatalf("output after wrap = %v, want %v", out, math.Sqrt(v))
	}
}

func TestRMSAccumulatorRamp(t *testing.T) {
	r := NewRMSAccumulator(4)
	want := []float64{
		math.Sqrt(1.0 / 4),
		math.Sqrt(2.0 / 4),
		math.Sqrt(3.0 / 4),
		1,
	}
	for i, w := range want {
		if got := r.Push(1); math.Abs(got-w) > 1e-12 {
			t.Fatalf("push %d = %v, want %v", i, got, w)
		}
	}
}

func TestRMSAccumulatorFlushesSmallSum(t *testing.T) {
	r := NewRMSAccumulator(8)
	r.Push(1)
	for range 8 {
		r.Push(1e-9)
	}
	if r.Sum() != 0 {
		t.Fatalf("Sum() = %v, want 0 once below the floor", r.Sum())
	}
}

func TestRMSAccumulatorReset(t *testing.T) {
	r := NewRMSAccumulator(8)
	r.Push(0.5)
	r.Reset()
	if r.Sum() != 0 {
		t.Fatalf("Sum() = %v after Reset, want 0", r.Sum())
	}
	if got := r.Push(0); got != 0 {
		t.Fatalf("Push(0) after Reset = %v, want 0", got)
	}
}

package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any sample of any channel is NaN or Inf.
func RequireFinite(t *testing.T, channels ...[]float64) {
	t.Helper()
	for ch, data := range channels {
		for i, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("channel %d index %d: non-finite value %v", ch, i, v)
			}
		}
	}
}

// RequireDelayed fails t unless got[i] == in[i-delay] for i >= delay and
// got[i] == 0 before that, both within eps.
func RequireDelayed(t *testing.T, got, in []float64, delay int, eps float64) {
	t.Helper()
	if len(got) != len(in) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(in))
	}
	for i := range got {
		want := 0.0
		if i >= delay {
			want = in[i-delay]
		}
		if diff := math.Abs(got[i] - want); diff > eps {
			t.Fatalf("index %d (delay %d): got %v, want %v", i, delay, got[i], want)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = math.Max(maxDiff, math.Abs(a[i]-b[i]))
	}
	return maxDiff, nil
}

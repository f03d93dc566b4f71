package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
		{name: "lookahead floor", value: 0.001 * 44.1, min: 1, max: 3840, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if LinearToDB(0) != FloorDB {
		t.Fatalf("LinearToDB(0) = %v, want %v", LinearToDB(0), FloorDB)
	}
	if LinearToDB(-1) != FloorDB {
		t.Fatalf("LinearToDB(-1) = %v, want %v", LinearToDB(-1), FloorDB)
	}
	if DBToLinear(0) != 1 {
		t.Fatalf("DBToLinear(0) = %v, want 1", DBToLinear(0))
	}
}

func TestBranchlessMax(t *testing.T) {
	tests := []struct{ x, a float64 }{
		{0.5, 0.25},
		{0.25, 0.5},
		{0, 0},
		{1e-9, 0},
		{0.75, 0.75},
	}

	for _, tt := range tests {
		got := BranchlessMax(tt.x, tt.a)
		want := math.Max(tt.x, tt.a)
		if math.Abs(got-want) > 1e-15 {
			t.Fatalf("BranchlessMax(%v, %v) = %v, want %v", tt.x, tt.a, got, want)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 2, 4); got != 2 {
		t.Fatalf("Lerp(0) = %v, want 2", got)
	}
	if got := Lerp(1, 2, 4); got != 4 {
		t.Fatalf("Lerp(1) = %v, want 4", got)
	}
	if got := Lerp(0.25, 2, 4); got != 2.5 {
		t.Fatalf("Lerp(0.25) = %v, want 2.5", got)
	}
}

func TestRoundToZero(t *testing.T) {
	if got := RoundToZero(1e-30); got != 0 {
		t.Fatalf("RoundToZero(1e-30) = %v, want 0", got)
	}
	if got := RoundToZero(0.5); got != 0.5 {
		t.Fatalf("RoundToZero(0.5) = %v, want 0.5", got)
	}
}

func TestRoundToInt(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{480, 480},
		{220.5, 221},
		{220.49, 220},
		{1, 1},
	}
	for _, tt := range tests {
		if got := RoundToInt(tt.in); got != tt.want {
			t.Fatalf("RoundToInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

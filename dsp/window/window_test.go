package window

import (
	"math"
	"testing"
)

func TestGenerateFinite(t *testing.T) {
	for _, typ := range Types() {
		t.Run(typ.String(), func(t *testing.T) {
			w := Generate(typ, 64)
			if len(w) != 64 {
				t.Fatalf("len=%d, want 64", len(w))
			}
			for i, v := range w {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("coefficient[%d] invalid: %v", i, v)
				}
			}
		})
	}
}

func TestGenerateSymmetric(t *testing.T) {
	for _, typ := range Types() {
		w := Generate(typ, 33)
		for i := range w {
			if d := math.Abs(w[i] - w[len(w)-1-i]); d > 1e-12 {
				t.Fatalf("%v: w[%d]=%v w[%d]=%v", typ, i, w[i], len(w)-1-i, w[len(w)-1-i])
			}
		}
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("length 0: got %v, want nil", w)
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("length 1: got %v", w)
	}
	w := Generate(Type(99), 8)
	for i, v := range w {
		if v != 1 {
			t.Fatalf("unknown type index %d: got %v, want 1", i, v)
		}
	}
}

func TestPeriodicDiffersFromSymmetric(t *testing.T) {
	a := Generate(TypeHann, 16)
	b := Generate(TypeHann, 16, WithPeriodic())

	if a[15] != 0 {
		t.Fatalf("symmetric last = %v, want 0", a[15])
	}
	if b[15] == 0 {
		t.Fatal("periodic last coefficient should not be 0")
	}
	if math.Abs(b[8]-1) > 1e-12 {
		t.Fatalf("periodic center = %v, want 1", b[8])
	}
}

func TestCoherentGainMatchesMetadata(t *testing.T) {
	const n = 4096
	for _, typ := range Types() {
		w := Generate(typ, n, WithPeriodic())
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		if got, want := sum/n, Info(typ).CoherentGain; math.Abs(got-want) > 1e-6 {
			t.Fatalf("%v: coherent gain %v, want %v", typ, got, want)
		}
	}
}

func TestEquivalentNoiseBandwidth(t *testing.T) {
	tests := []struct {
		typ Type
		tol float64
	}{
		{TypeRectangular, 1e-12},
		{TypeHann, 1e-3},
		{TypeHamming, 1e-3},
		{TypeBlackman, 1e-3},
		{TypeBlackmanHarris4Term, 1e-3},
		{TypeFlatTop, 1e-2},
	}
	for _, tt := range tests {
		enbw, err := EquivalentNoiseBandwidth(Generate(tt.typ, 8192, WithPeriodic()))
		if err != nil {
			t.Fatalf("%v: %v", tt.typ, err)
		}
		if want := Info(tt.typ).ENBW; math.Abs(enbw-want) > tt.tol {
			t.Fatalf("%v: ENBW %v, want %v", tt.typ, enbw, want)
		}
	}

	if _, err := EquivalentNoiseBandwidth(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := EquivalentNoiseBandwidth([]float64{1, -1}); err == nil {
		t.Fatal("expected error for zero coherent gain")
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range Types() {
		got, err := ParseType(" " + typ.String() + " ")
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	if got, err := ParseType("Blackman-Harris"); err != nil || got != TypeBlackmanHarris4Term {
		t.Fatalf("case-insensitive lookup failed: %v, %v", got, err)
	}
	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unknown window")
	}
	if s := Type(42).String(); s != "window(42)" {
		t.Fatalf("String = %q", s)
	}
}

func BenchmarkGenerateHann1024(b *testing.B) {
	for b.Loop() {
		_ = Generate(TypeHann, 1024)
	}
}

func BenchmarkApplyBlackmanHarris4096(b *testing.B) {
	buf := make([]float64, 4096)
	for b.Loop() {
		Apply(TypeBlackmanHarris4Term, buf)
	}
}

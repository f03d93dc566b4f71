package level

import (
	"math"
	"testing"
)

func TestIndicatorBarFill(t *testing.T) {
	ind := NewIndicator(BarHorizontal, -60, 0)

	tests := []struct {
		db   float64
		fill float64
	}{
		{-60, 0},
		{-30, 0.5},
		{0, 1},
		{-100, 0},
		{6, 1},
	}
	for _, tt := range tests {
		ind.Update(tt.db)
		if got := ind.Fill(); math.Abs(got-tt.fill) > 1e-12 {
			t.Fatalf("Fill(%v) = %v, want %v", tt.db, got, tt.fill)
		}
	}
}

func TestIndicatorHolds(t *testing.T) {
	minHold := NewIndicator(NumericMinHold, -30, 0)
	maxHold := NewIndicator(NumericMaxHold, -100, 0)

	for _, v := range []float64{-3, -9, -6, math.NaN(), -1} {
		minHold.Update(v)
		maxHold.Update(v)
	}
	if minHold.Value() != -9 {
		t.Fatalf("min hold = %v, want -9", minHold.Value())
	}
	if maxHold.Value() != -1 {
		t.Fatalf("max hold = %v, want -1", maxHold.Value())
	}

	minHold.Reset()
	if minHold.Value() != -30 {
		t.Fatalf("after Reset = %v, want range minimum", minHold.Value())
	}
	minHold.Update(-2)
	if minHold.Value() != -2 {
		t.Fatalf("first value after Reset = %v, want -2", minHold.Value())
	}
}

func TestIndicatorRender(t *testing.T) {
	h := NewIndicator(BarHorizontal, -40, 0)
	h.Update(-10)
	if got := h.Render(8); got != "######--" {
		t.Fatalf("horizontal = %q", got)
	}

	v := NewIndicator(BarVertical, -40, 0)
	v.Update(-20)
	if got := v.Render(4); got != "-\n-\n#\n#" {
		t.Fatalf("vertical = %q", got)
	}

	n := NewIndicator(NumericMaxHold, -100, 0)
	if got := n.Render(0); got != "-inf dB" {
		t.Fatalf("numeric at floor = %q", got)
	}
	n.Update(-3.25)
	if got := n.Render(0); got != "-3.2 dB" && got != "-3.3 dB" {
		t.Fatalf("numeric = %q", got)
	}
}

func TestIndicatorRenderNegativeCells(t *testing.T) {
	for _, d := range []Display{BarHorizontal, BarVertical} {
		ind := NewIndicator(d, -40, 0)
		ind.Update(-10)
		if got := ind.Render(-3); got != "" {
			t.Fatalf("%v Render(-3) = %q, want empty", d, got)
		}
	}
}

func TestIndicatorSwappedRange(t *testing.T) {
	ind := NewIndicator(BarVertical, 0, -60)
	if ind.MinDB != -60 || ind.MaxDB != 0 {
		t.Fatalf("range = [%v, %v], want [-60, 0]", ind.MinDB, ind.MaxDB)
	}
}

func TestDisplayString(t *testing.T) {
	if BarVertical.String() != "bar-vertical" || NumericMaxHold.String() != "numeric-max-hold" {
		t.Fatal("unexpected display names")
	}
	if Display(9).String() != "unknown" {
		t.Fatal("unknown display must say so")
	}
}

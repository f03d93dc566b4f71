package buffer

import "testing"

func TestNewPlanarZeroFilled(t *testing.T) {
	p := NewPlanar(2, 8)
	if p.NumChannels() != 2 || p.Frames() != 8 {
		t.Fatalf("shape = %dx%d, want 2x8", p.NumChannels(), p.Frames())
	}
	for ch, data := range p.Channels() {
		if len(data) != 8 {
			t.Fatalf("channel %d len = %d, want 8", ch, len(data))
		}
		for i, v := range data {
			if v != 0 {
				t.Fatalf("channel %d [%d] = %v, want 0", ch, i, v)
			}
		}
	}
}

func TestPlanarNegativeShape(t *testing.T) {
	p := NewPlanar(-1, -4)
	if p.NumChannels() != 0 || p.Frames() != 0 {
		t.Fatalf("shape = %dx%d, want 0x0", p.NumChannels(), p.Frames())
	}
}

func TestPlanarChannelsDoNotOverlap(t *testing.T) {
	p := NewPlanar(2, 4)
	left := append(p.Channel(0), 99)
	left[0] = 1
	if p.Channel(1)[0] != 0 {
		t.Fatal("appending to channel 0 must not write into channel 1")
	}
}

func TestPlanarResizeReusesAndZeroes(t *testing.T) {
	p := NewPlanar(2, 16)
	p.Channel(1)[3] = 5
	p.Resize(2, 4)
	if p.Frames() != 4 {
		t.Fatalf("Frames() = %d, want 4", p.Frames())
	}
	for ch := range 2 {
		for i, v := range p.Channel(ch) {
			if v != 0 {
				t.Fatalf("channel %d [%d] = %v after Resize, want 0", ch, i, v)
			}
		}
	}
}

func TestPlanarInterleaveRoundTrip(t *testing.T) {
	for _, nch := range []int{1, 2, 3} {
		src := make([]float64, nch*5)
		for i := range src {
			src[i] = float64(i + 1)
		}

		p := NewPlanar(nch, 5)
		if n := p.Deinterleave(src); n != 5 {
			t.Fatalf("%d channels: Deinterleave = %d, want 5", nch, n)
		}
		if got := p.Channel(nch - 1)[1]; got != float64(2*nch) {
			t.Fatalf("%d channels: last channel frame 1 = %v, want %v", nch, got, float64(2*nch))
		}

		dst := make([]float64, len(src))
		if n := p.Interleave(dst, 5); n != 5 {
			t.Fatalf("%d channels: Interleave = %d, want 5", nch, n)
		}
		for i := range src {
			if dst[i] != src[i] {
				t.Fatalf("%d channels: dst[%d] = %v, want %v", nch, i, dst[i], src[i])
			}
		}
	}
}

func TestPlanarDeinterleaveShortSource(t *testing.T) {
	p := NewPlanar(2, 4)
	if n := p.Deinterleave([]float64{1, 2, 3}); n != 1 {
		t.Fatalf("Deinterleave = %d, want 1 complete frame", n)
	}
}

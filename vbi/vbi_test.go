package vbi

import (
	"testing"

	"github.com/hacktv/hacktv/line"
)

func TestHamming84RoundTripParity(t *testing.T) {
	seen := map[byte]bool{}
	for v := byte(0); v < 16; v++ {
		enc := Hamming84(v)
		if seen[enc] {
			t.Errorf("value %d collides with a previous encoding %02X", v, enc)
		}
		seen[enc] = true
	}
}

func TestBitLUTShapeCached(t *testing.T) {
	lut := NewBitLUT(4, 0.5, 4)
	a := lut.Shape(100)
	b := lut.Shape(100)
	if &a[0] != &b[0] {
		t.Error("expected Shape to return the cached slice on second call")
	}
	if len(a) == 0 {
		t.Error("expected a non-empty pulse shape")
	}
}

func TestRenderTeletextWritesSamples(t *testing.T) {
	lut := NewBitLUT(4, 0.5, 4)
	l := line.NewLine(2000)
	l.Reset(1, 20, 2000)
	p := &Packet{Magazine: 1, Row: 0}
	RenderTeletext(lut, l, 100, 8000, p)
	nonzero := 0
	for i := 0; i < 2000; i++ {
		if l.I(i) != 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Error("expected teletext rendering to write non-zero samples")
	}
}

func TestWSSLength(t *testing.T) {
	bits := WSS(0x1, 0x2)
	if len(bits) != 14 {
		t.Errorf("got %d bits, want 14", len(bits))
	}
}

func TestFSCFlagPolarityAlternates(t *testing.T) {
	l1 := line.NewLine(100)
	l1.Reset(1, 1, 100)
	FSCFlag(l1, 0, 10, 1000, 0)

	l2 := line.NewLine(100)
	l2.Reset(1, 1, 100)
	FSCFlag(l2, 0, 10, 1000, 1)

	if l1.I(0) == l2.I(0) {
		t.Error("expected FSCFlag polarity to differ between even and odd field index")
	}
}

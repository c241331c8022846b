package audio

import (
	"math"
	"testing"

	"github.com/hacktv/hacktv/mode"
)

func TestFMOscillatorStaysNormalised(t *testing.T) {
	sc := mode.AudioSubcarrier{CarrierHz: 6000000, Deviation: 50000}
	osc := NewFMOscillator(sc, 14000000)
	for i := 0; i < 100000; i++ {
		audio := math.Sin(float64(i) * 0.01)
		ci, cq := osc.Next(audio)
		mag := math.Hypot(float64(ci), float64(cq))
		if mag > math.MaxInt16+2 {
			t.Fatalf("sample %d: magnitude %v exceeds full scale", i, mag)
		}
	}
}

// TestNICAMFrameIntegrity is testable property 5 of spec.md §8: encoding
// a block always produces a full, correctly sized frame.
func TestNICAMFrameIntegrity(t *testing.T) {
	left := make([]int16, 32)
	right := make([]int16, 32)
	for i := range left {
		left[i] = int16(i * 100)
		right[i] = int16(-i * 100)
	}
	f := EncodeNICAMFrame(left, right, 0)
	if len(f.Data) != BytesPerNICAMFrame-3 {
		t.Errorf("got %d data bytes, want %d", len(f.Data), BytesPerNICAMFrame-3)
	}
	allZero := true
	for _, b := range f.Data {
		if b != 0 {
			allZero = false
		}
	}
	if allZero {
		t.Error("expected non-trivial audio to produce a non-zero frame payload")
	}
}

func TestNICAMScramblerDeterministic(t *testing.T) {
	a := newNicamPRBS()
	b := newNicamPRBS()
	for i := 0; i < 50; i++ {
		if a.next() != b.next() {
			t.Fatalf("bit %d diverged between identically seeded scramblers", i)
		}
	}
}

func TestDANCEAFrameSync(t *testing.T) {
	f := EncodeDANCEAFrame([]int16{1000, -1000, 500})
	if f.Sync != 0xA5 {
		t.Errorf("got sync %02X, want A5", f.Sync)
	}
}

func TestPreemphasisNoneIsIdentity(t *testing.T) {
	if got := Preemphasis(mode.PreemphNone, 48000, 0.5, 0.1); got != 0.5 {
		t.Errorf("got %v, want 0.5 (identity)", got)
	}
}

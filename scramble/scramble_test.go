package scramble

import (
	"sort"
	"testing"

	"github.com/hacktv/hacktv/line"
)

// TestVideocryptCutIsMultisetPreserving is testable property 7 of
// spec.md §8 / Scenario E: rotating the active window must never change
// the multiset of samples it contains.
func TestVideocryptCutIsMultisetPreserving(t *testing.T) {
	vc := NewVideocrypt(FreeAccessControlWord, CutSingle)
	const width = 2000
	const left, activeWidth = 100, 1400

	for lineNo := 1; lineNo <= 50; lineNo++ {
		l := line.NewLine(width)
		l.Reset(1, lineNo, width)
		before := make([]int16, activeWidth)
		for i := 0; i < activeWidth; i++ {
			v := int16((i*7 + lineNo) % 30000)
			l.SetI(left+i, v)
			before[i] = v
		}
		vc.RenderLine(l, 1, lineNo, left, activeWidth)
		after := make([]int16, activeWidth)
		for i := 0; i < activeWidth; i++ {
			after[i] = l.I(left + i)
		}
		sort.Slice(before, func(i, j int) bool { return before[i] < before[j] })
		sort.Slice(after, func(i, j int) bool { return after[i] < after[j] })
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("line %d: multiset changed after render (free access should only rotate)", lineNo)
			}
		}
	}
}

func TestVideocryptSSlotDeterministic(t *testing.T) {
	vcs := NewVideocryptS(FreeAccessControlWord, 312)
	a := vcs.SlotFor(1, 10)
	b := vcs.SlotFor(1, 10)
	if a != b {
		t.Error("expected SlotFor to be deterministic for the same (frame,line)")
	}
	if vcs.DelayLines() < 156 {
		t.Errorf("DelayLines() = %d, want at least half a field", vcs.DelayLines())
	}
}

func TestSysterDelayWithinRange(t *testing.T) {
	s := NewSyster(FreeAccessControlWord)
	for lineNo := 1; lineNo <= 625; lineNo++ {
		d := s.DelayFor(1, lineNo)
		if d < 0 || d > 2 {
			t.Errorf("line %d: delay %d out of [0,2] range", lineNo, d)
		}
	}
}

func TestInvertAudioSpectrumAltersOddSamples(t *testing.T) {
	samples := []int16{10, 20, 30, 40}
	InvertAudioSpectrum(samples)
	want := []int16{10, -20, 30, -40}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, samples[i], want[i])
		}
	}
}

package pipeline

import (
	"testing"

	"github.com/hacktv/hacktv/mac"
	"github.com/hacktv/hacktv/mode"
	"github.com/hacktv/hacktv/scramble"
)

func TestIsTeletextLineField1Range(t *testing.T) {
	cfg := testConfig()
	for _, lineNo := range []int{1, 6, 7, 15, 22, 23, 312} {
		want := lineNo >= 7 && lineNo <= 22
		if got := isTeletextLine(cfg, lineNo); got != want {
			t.Errorf("line %d: got %v, want %v", lineNo, got, want)
		}
	}
}

func TestIsTeletextLineField2Range(t *testing.T) {
	cfg := testConfig()
	// Field two starts at HalfLine (313); its teletext rows are
	// HalfLine+6 .. HalfLine+21.
	for _, lineNo := range []int{313, 318, 319, 327, 334, 335, 336} {
		fieldLine := lineNo - cfg.Raster.HalfLine + 1
		want := fieldLine >= 7 && fieldLine <= 22
		if got := isTeletextLine(cfg, lineNo); got != want {
			t.Errorf("line %d: got %v, want %v", lineNo, got, want)
		}
	}
}

func TestIsTeletextLineOnlyFor625(t *testing.T) {
	cfg := testConfig()
	cfg.Raster.Lines = 525
	if isTeletextLine(cfg, 10) {
		t.Error("expected no teletext lines on a 525-line raster")
	}
}

func TestNewMACProcessorInitialisesState(t *testing.T) {
	cfg := testConfig()
	cfg.ColourMode = mode.ColourMAC
	cfg.MAC = mode.MACD2

	var mux mac.Multiplexer
	if err := mux.Register(1, [][91]byte{{}}, false); err != nil {
		t.Fatalf("Register: %v", err)
	}

	const width = 2000
	p := NewMACProcessor(cfg, width, 10000, &mux, scramble.FixedControlWord(0), mac.VSAMUnscrambled)
	if p.Name() != "mac" {
		t.Errorf("Name() = %q, want %q", p.Name(), "mac")
	}
	if p.duo == nil || p.scratch == nil {
		t.Fatal("NewMACProcessor left duo/scratch unset")
	}
	if cap(p.scratch.Samples) < width*2 {
		t.Error("scratch line not sized to width")
	}
}

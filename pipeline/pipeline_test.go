package pipeline

import (
	"math/big"
	"testing"

	"github.com/hacktv/hacktv/avsrc"
	"github.com/hacktv/hacktv/mode"
	"github.com/hacktv/hacktv/scramble"
)

// testConfig returns a small synthetic PAL-shaped Config, cheap enough to
// run the full engine over in a unit test.
func testConfig() *mode.Config {
	return &mode.Config{
		ID:         "test",
		Output:     mode.ComplexIQ,
		Modulation: mode.Modulation{Kind: mode.ModNone},
		Level:      1.0,
		VideoLevel: 1.0,
		Raster: mode.RasterGeometry{
			Lines: 625, ActiveLines: 576, HalfLine: 313,
			FrameRateNum: 25, FrameRateDen: 1,
			ActiveWidthSec: 0.00005195, ActiveLeftSec: 0.00001040,
			Interlaced: true,
		},
		Sync: mode.SyncGeometry{
			HSyncWidthSec: 0.00000470, VSyncShortWidthSec: 0.00000235,
			VSyncLongWidthSec: 0.00002730, SyncRiseSec: 0.00000020,
		},
		Levels:        mode.Levels{White: 0.7, Black: 0, Blanking: 0, Sync: -0.3},
		ColourMode:    mode.ColourPAL,
		Burst:         mode.BurstGeometry{WidthSec: 0.0000025, RiseSec: 0.0000003, LeftSec: 0.0000056, Level: 0.3},
		ColourCarrier: big.NewRat(17734475, 4),
		YIQ:           mode.YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114, EU: 0.493, EV: 0.877},
		Gamma:         1.0,
	}
}

func TestEngineProducesOneLinePerFrameLine(t *testing.T) {
	cfg := testConfig()
	src := avsrc.NewTestSource(nil, avsrc.ColourBars, 16, 16, 1)
	if err := src.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer src.Close()

	const pixelRate = 1000000
	e, err := NewEngine(nil, cfg, src, pixelRate, 48000, 4, true)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.Register(NewRasterProcessor())
	e.Register(NewFilterProcessor(0.95))

	var lines int
	for {
		l, err := e.NextLine()
		if err != nil {
			t.Fatalf("NextLine: %v", err)
		}
		if l == nil {
			break
		}
		lines++
		if l.Width != e.Width() {
			t.Errorf("line %d: width %d, want %d", lines, l.Width, e.Width())
		}
	}
	if lines != cfg.Raster.Lines {
		t.Errorf("got %d lines, want %d (source had exactly one frame)", lines, cfg.Raster.Lines)
	}
}

func TestEngineReportsEOFAsNilNil(t *testing.T) {
	cfg := testConfig()
	src := avsrc.NewTestSource(nil, avsrc.Mono, 4, 4, 0)
	src.Close() // closed sources report EOF immediately

	e, err := NewEngine(nil, cfg, src, 1000000, 48000, 2, true)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.Register(passthroughProcessor{name: "noop"})

	l, err := e.NextLine()
	if l != nil || err != nil {
		t.Fatalf("got (%v, %v), want (nil, nil) on immediate EOF", l, err)
	}
}

func TestScrambleProcessorRendersActiveWindow(t *testing.T) {
	cfg := testConfig()
	src := avsrc.NewTestSource(nil, avsrc.GreyRamp, 16, 16, 1)
	src.Start()
	defer src.Close()

	e, err := NewEngine(nil, cfg, src, 1000000, 48000, 2, true)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.Register(NewRasterProcessor())
	e.Register(NewScrambleProcessor(scramble.FreeAccessControlWord, scramble.CutSingle))

	left, width := e.ActiveWindow()
	for i := 0; i < cfg.Raster.ActiveLines/2+10; i++ {
		ln, err := e.NextLine()
		if err != nil {
			t.Fatalf("NextLine: %v", err)
		}
		if ln == nil {
			t.Fatal("unexpected EOF")
		}
		if e.Raster().IsActive(ln.LineNo) {
			before := make(map[int16]int)
			for x := left; x < left+width; x++ {
				before[ln.I(x)]++
			}
			// RenderLine already ran via the registered processor; just
			// check that the active window holds samples (the
			// multiset-preservation property is exercised directly in
			// package scramble).
			if len(before) == 0 {
				t.Fatal("active window produced no samples")
			}
			break
		}
	}
}

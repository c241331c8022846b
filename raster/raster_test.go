/*
NAME
  raster_test.go

DESCRIPTION
  raster_test.go exercises invariant 7 of spec.md §3 (burst phase is a
  pure function of line number) and that sync rendering writes every
  sample of the line.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package raster

import (
	"testing"

	"github.com/hacktv/hacktv/levels"
	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mode"
)

func setup(t *testing.T, id string) (*mode.Config, *Generator, int) {
	t.Helper()
	tbl := mode.NewTable()
	cfg, err := tbl.Lookup(id)
	if err != nil {
		t.Fatal(err)
	}
	const pixelRate = 14000000
	tables, err := levels.NewTables(nil, cfg, pixelRate, pixelRate, true)
	if err != nil {
		t.Fatal(err)
	}
	width, _ := cfg.LineWidth(pixelRate)
	return cfg, NewGenerator(cfg, tables, width), width
}

// TestPALSwitchIsPureFunctionOfLineNo is invariant 7: calling PALSwitch
// twice for the same line number, regardless of call order or frame
// context, must agree.
func TestPALSwitchIsPureFunctionOfLineNo(t *testing.T) {
	_, g, _ := setup(t, "b")
	for _, lineNo := range []int{1, 2, 7, 320, 321, 625} {
		first := g.PALSwitch(lineNo)
		second := g.PALSwitch(lineNo)
		if first != second {
			t.Errorf("line %d: PALSwitch not stable across calls", lineNo)
		}
	}
	// Adjacent lines must alternate.
	if g.PALSwitch(10) == g.PALSwitch(11) {
		t.Error("expected PALSwitch to alternate on adjacent lines")
	}
}

// TestRenderSyncFillsWidth checks that every sample of a rendered line is
// written, none left at its pre-render value.
func TestRenderSyncFillsWidth(t *testing.T) {
	_, g, width := setup(t, "b")
	l := line.NewLine(width)
	l.Reset(1, 1, width)
	for i := 0; i < width; i++ {
		l.SetI(i, 12345) // sentinel, must be overwritten
	}
	g.RenderSync(l, 1)
	for i := 0; i < width; i++ {
		if l.I(i) == 12345 {
			t.Fatalf("sample %d left unrendered", i)
		}
	}
}

func TestIsActiveExcludesVerticalInterval(t *testing.T) {
	_, g, _ := setup(t, "b")
	if g.IsActive(1) {
		t.Error("line 1 (equalising pulse) should not be active")
	}
}

func TestRenderActiveAddsLuma(t *testing.T) {
	_, g, width := setup(t, "b")
	l := line.NewLine(width)
	l.Reset(1, 100, width)
	row := make([]uint32, 10)
	for i := range row {
		row[i] = 0xFFFFFF
	}
	g.RenderActive(l, 1, 100, 50, row)
	nonzero := false
	for i := 50; i < 60; i++ {
		if l.I(i) != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		t.Error("expected active white samples to raise the composite channel")
	}
}

// TestRenderActivePALChromaOnCompositeChannel is the fixed form of
// invariant 5: a PAL config's chroma must land entirely on the composite
// (I) channel, never the quadrature channel, since PAL/NTSC chroma is
// not one of invariant 5's listed exceptions.
func TestRenderActivePALChromaOnCompositeChannel(t *testing.T) {
	_, g, width := setup(t, "pal")
	l := line.NewLine(width)
	l.Reset(1, 100, width)
	row := []uint32{0xFF0000} // saturated red: strong chroma content
	g.RenderActive(l, 1, 100, 50, row)
	if l.Q(50) != 0 {
		t.Errorf("Q(50) = %d, want 0: PAL chroma must not be written to the quadrature channel", l.Q(50))
	}
}

// TestRenderActiveSECAMAlternatesChannel is the SECAM counterpart:
// RenderActive must alternate which colour-difference component it
// writes to Q by line parity (frame*lines+line), per spec.md §4.2.
func TestRenderActiveSECAMAlternatesChannel(t *testing.T) {
	cfg, g, width := setup(t, "secam")
	l1 := line.NewLine(width)
	l1.Reset(1, 1, width) // frame*lines+line = cfg.Raster.Lines+1 = 626, even => D'b
	row := []uint32{0xFF0000}
	g.RenderActive(l1, 1, 1, 50, row)
	dbQ := l1.Q(50)

	l2 := line.NewLine(width)
	l2.Reset(1, 2, width) // 627, odd => D'r
	g.RenderActive(l2, 1, 2, 50, row)
	drQ := l2.Q(50)

	if (1*cfg.Raster.Lines+1)%2 == (1*cfg.Raster.Lines+2)%2 {
		t.Fatal("test setup error: expected adjacent lines to have opposite parity")
	}
	if drQ == dbQ {
		t.Error("expected SECAM's D'r and D'b lines to write different Q values for a saturated-red pixel")
	}
}

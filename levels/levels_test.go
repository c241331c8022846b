/*
NAME
  levels_test.go

DESCRIPTION
  levels_test.go exercises the RGB->YIQ round-trip property of spec.md
  §8.4 and the colour-subcarrier continuity invariant of spec.md §3.4.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package levels

import (
	"math"
	"testing"

	"github.com/hacktv/hacktv/mode"
)

func testConfig(t *testing.T, id string) *mode.Config {
	t.Helper()
	tbl := mode.NewTable()
	c, err := tbl.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", id, err)
	}
	return c
}

// TestRGBYRoundTrip is testable property 4 of spec.md §8: for the three
// primaries, the Y-only output equals the weighted white/black blend
// within one LSB.
func TestRGBYRoundTrip(t *testing.T) {
	cfg := testConfig(t, "pal")
	tables, err := NewTables(nil, cfg, 14000000, 14000000, true)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		rgb    uint32
		weight float64
	}{
		{0xFF0000, cfg.YIQ.RW},
		{0x00FF00, cfg.YIQ.GW},
		{0x0000FF, cfg.YIQ.BW},
	}
	white := cfg.Levels.White * math.MaxInt16
	black := cfg.Levels.Black * math.MaxInt16
	for _, c := range cases {
		want := black + c.weight*(white-black)
		got := float64(tables.At(c.rgb).Y)
		if diff := math.Abs(got - want); diff > 1.0 {
			t.Errorf("rgb=%06X: got Y=%v, want %v (diff %v)", c.rgb, got, want, diff)
		}
	}
}

// TestYIQClampedToInt16 is invariant 3 of spec.md §3.
func TestYIQClampedToInt16(t *testing.T) {
	cfg := testConfig(t, "pal")
	tables, err := NewTables(nil, cfg, 14000000, 14000000, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, rgb := range []uint32{0x000000, 0xFFFFFF, 0xFF00FF, 0x00FFFF, 0x123456} {
		e := tables.At(rgb)
		if e.Y < math.MinInt16 || e.Y > math.MaxInt16 {
			t.Errorf("rgb=%06X: Y=%v out of int16 range", rgb, e.Y)
		}
	}
}

// TestCarrierContinuous is invariant 4 of spec.md §3 at the wrap point:
// CarrierAt at offsets outside [0,L) must return the same pair as the
// offset reduced modulo L.
func TestCarrierContinuous(t *testing.T) {
	cfg := testConfig(t, "b")
	tables, err := NewTables(nil, cfg, 14000000, 14000000, true)
	if err != nil {
		t.Fatal(err)
	}
	if tables.CarrierLen() == 0 {
		t.Fatal("expected a non-empty carrier table for PAL")
	}
	l := tables.CarrierLen()
	for _, off := range []int{0, l - 1, l, l + 1, 2*l - 1, -1} {
		cos0, sin0 := tables.CarrierAt(off)
		cos1, sin1 := tables.CarrierAt(((off % l) + l) % l)
		if cos0 != cos1 || sin0 != sin1 {
			t.Errorf("offset %d not equal to its reduced form: (%v,%v) != (%v,%v)", off, cos0, sin0, cos1, sin1)
		}
	}
}

// TestCompactMatchesFullApproximately checks that the compact split table
// tracks the full 2^24 table closely enough to be a usable fallback.
func TestCompactMatchesFullApproximately(t *testing.T) {
	cfg := testConfig(t, "pal")
	full, err := NewTables(nil, cfg, 14000000, 14000000, false)
	if err != nil {
		t.Fatal(err)
	}
	compact, err := NewTables(nil, cfg, 14000000, 14000000, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, rgb := range []uint32{0x000000, 0xFFFFFF, 0x804020, 0x112233} {
		fe, ce := full.At(rgb), compact.At(rgb)
		if diff := math.Abs(float64(fe.Y) - float64(ce.Y)); diff > 2 {
			t.Errorf("rgb=%06X: full Y=%v compact Y=%v diverge by %v", rgb, fe.Y, ce.Y, diff)
		}
	}
}

func TestSyncPulsesRendered(t *testing.T) {
	cfg := testConfig(t, "b")
	tables, err := NewTables(nil, cfg, 14000000, 14000000, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables.HSync()) == 0 {
		t.Error("expected a non-empty hsync pulse")
	}
	if len(tables.Burst()) == 0 {
		t.Error("expected a non-empty colour burst for PAL")
	}
}

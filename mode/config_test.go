/*
NAME
  config_test.go

DESCRIPTION
  config_test.go exercises Config.Validate and Config.LineWidth across
  every bundled mode, the timing-exactness property of spec.md §8.1.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mode

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hacktv/hacktv"
)

var bigRatComparer = cmp.Comparer(func(a, b *big.Rat) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func TestTableLookup(t *testing.T) {
	tbl := NewTable()
	for _, id := range []string{"i", "b", "pal", "m", "d", "secam", "d2mac", "dmac", "a", "e", "30", "apollo-fsc", "cbs405"} {
		c, err := tbl.Lookup(id)
		if err != nil {
			t.Errorf("Lookup(%q): %v", id, err)
			continue
		}
		if c.ID != id {
			t.Errorf("Lookup(%q).ID = %q", id, c.ID)
		}
	}
}

func TestTableLookupUnknown(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.Lookup("not-a-mode")
	if !errors.Is(err, hacktv.ErrModeUnknown) {
		t.Errorf("got %v, want wrapping ErrModeUnknown", err)
	}
}

func TestValidateBundled(t *testing.T) {
	tbl := NewTable()
	for _, id := range tbl.IDs() {
		c, _ := tbl.Lookup(id)
		if err := c.Validate(); err != nil {
			t.Errorf("%s: Validate: %v", id, err)
		}
	}
}

// TestLineWidthExactness checks spec.md §8 testable property 1: for a
// pixel_rate that divides lines*frame_rate exactly, LineWidth reports
// exact and the rounded width matches the direct formula.
func TestLineWidthExactness(t *testing.T) {
	c := palBG()
	const pixelRate = 14000000 // multiple of 625*25 = 15625

	width, exact := c.LineWidth(pixelRate)
	if !exact {
		t.Fatalf("expected exact division for pixel_rate=%d", pixelRate)
	}
	want := int(pixelRate * c.Raster.FrameRateDen / (c.Raster.Lines * c.Raster.FrameRateNum))
	if width != want {
		t.Errorf("got width %d, want %d", width, want)
	}
}

func TestLineWidthInexact(t *testing.T) {
	c := palBG()
	_, exact := c.LineWidth(14000001)
	if exact {
		t.Error("expected inexact division to be reported")
	}
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	c := palBG()
	c.Raster.ActiveLines = c.Raster.Lines + 1
	if err := c.Validate(); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Errorf("got %v, want wrapping ErrConfigInvalid", err)
	}
}

// TestTableLookupIsDeterministic checks that NewTable's constructor
// functions are pure: two independent lookups of the same ID must
// produce field-for-field identical Configs, including the *big.Rat
// colour carrier and the Audio subcarrier slice.
func TestTableLookupIsDeterministic(t *testing.T) {
	for _, id := range NewTable().IDs() {
		a, err := NewTable().Lookup(id)
		if err != nil {
			t.Fatalf("%s: Lookup: %v", id, err)
		}
		b, err := NewTable().Lookup(id)
		if err != nil {
			t.Fatalf("%s: Lookup: %v", id, err)
		}
		if diff := cmp.Diff(a, b, bigRatComparer); diff != "" {
			t.Errorf("%s: repeated Lookup produced a different Config (-first +second):\n%s", id, diff)
		}
	}
}

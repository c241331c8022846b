/*
NAME
  line_test.go

DESCRIPTION
  line_test.go exercises invariants 5 and 6 of spec.md §3: Q starts
  zeroed and is only ever added to, and the ring never rewrites a slot
  still within the farthest processor's reach.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package line

import "testing"

func TestResetZeroesQ(t *testing.T) {
	l := NewLine(8)
	l.Reset(1, 1, 8)
	for x := 0; x < 8; x++ {
		if l.Q(x) != 0 {
			t.Errorf("Q(%d) = %d, want 0 after Reset", x, l.Q(x))
		}
	}
}

func TestAddQAccumulates(t *testing.T) {
	l := NewLine(4)
	l.Reset(1, 1, 4)
	l.AddQ(0, 100)
	l.AddQ(0, 50)
	if got := l.Q(0); got != 150 {
		t.Errorf("Q(0) = %d, want 150", got)
	}
}

func TestAddSaturates(t *testing.T) {
	l := NewLine(1)
	l.Reset(1, 1, 1)
	l.AddI(0, 1<<20)
	if got := l.I(0); got != 1<<15-1 {
		t.Errorf("I(0) = %d, want saturated max", got)
	}
	l.AddI(0, -(1 << 20))
	if got := l.I(0); got != -1<<15 {
		t.Errorf("I(0) = %d, want saturated min", got)
	}
}

func TestResetReusesCapacity(t *testing.T) {
	l := NewLine(8)
	l.Reset(1, 1, 8)
	l.SetI(3, 1234)
	before := cap(l.Samples)
	l.Reset(1, 2, 8)
	if cap(l.Samples) != before {
		t.Errorf("Reset reallocated: cap changed from %d to %d", before, cap(l.Samples))
	}
	if l.I(3) != 0 {
		t.Errorf("I(3) = %d after Reset, want 0", l.I(3))
	}
}

// TestRingAtTracksHistory is invariant 6 of spec.md §3: a processor that
// reads k lines behind the write head must see the line it wrote k
// Advance calls ago, for any k smaller than the ring size.
func TestRingAtTracksHistory(t *testing.T) {
	r, err := NewRing(4, 8)
	if err != nil {
		t.Fatal(err)
	}
	for n := 1; n <= 10; n++ {
		head := r.Advance()
		head.Reset(1, n, 8)
	}
	// head is now line 10; At(0) is line 10, At(1) is line 9, At(3) is line 7.
	for k, want := range map[int]int{0: 10, 1: 9, 2: 8, 3: 7} {
		if got := r.At(k).LineNo; got != want {
			t.Errorf("At(%d).LineNo = %d, want %d", k, got, want)
		}
	}
}

func TestRingAtWrapsNegativeAndOverflow(t *testing.T) {
	r, err := NewRing(4, 8)
	if err != nil {
		t.Fatal(err)
	}
	r.Advance().Reset(1, 1, 8)
	a := r.At(-4)
	b := r.At(0)
	if a != b {
		t.Errorf("At(-size) should alias At(0)")
	}
}

func TestNewRingRejectsZeroSize(t *testing.T) {
	if _, err := NewRing(0, 8); err == nil {
		t.Error("expected an error for size=0")
	}
}

/*
NAME
  line.go

DESCRIPTION
  line.go defines Line, the per-line interleaved I/Q sample buffer, and
  Ring, the fixed-size indexed ring of Lines the pipeline engine writes
  through (spec.md §3's "doubly linked cycle", rendered per spec.md §9's
  suggested indexed-array-with-modulo replacement).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package line holds the per-line sample buffer and the output ring the
// line-processor engine writes through.
package line

import "fmt"

// Line is a contiguous buffer of width interleaved (I,Q) 16-bit samples
// plus the metadata spec.md §3 lists. Samples[x*2] is the composite (I)
// channel, Samples[x*2+1] is Q; invariant 5 of spec.md §3 requires Q to
// start zeroed and only ever be added to.
type Line struct {
	FrameNo  int
	LineNo   int // 1-based; 0 means "not yet valid" (warm-up delay line)
	Width    int
	VBIAlloc bool // this line carries an allocated VBI slot
	Samples  []int16
}

// NewLine allocates a Line with capacity cap, ready to be reused via
// Reset.
func NewLine(capSamples int) *Line {
	return &Line{Samples: make([]int16, 0, capSamples*2)}
}

// Reset clears l to width zeroed samples for (frameNo, lineNo), enforcing
// invariant 5 (Q zeroed at allocation).
func (l *Line) Reset(frameNo, lineNo, width int) {
	l.FrameNo, l.LineNo, l.Width, l.VBIAlloc = frameNo, lineNo, width, false
	need := width * 2
	if cap(l.Samples) < need {
		l.Samples = make([]int16, need)
	} else {
		l.Samples = l.Samples[:need]
		for i := range l.Samples {
			l.Samples[i] = 0
		}
	}
}

// I returns the composite (real) channel sample at x.
func (l *Line) I(x int) int16 { return l.Samples[x*2] }

// Q returns the quadrature channel sample at x.
func (l *Line) Q(x int) int16 { return l.Samples[x*2+1] }

// SetI sets the composite channel sample at x.
func (l *Line) SetI(x int, v int16) { l.Samples[x*2] = v }

// SetQ sets the quadrature channel sample at x.
func (l *Line) SetQ(x int, v int16) { l.Samples[x*2+1] = v }

// AddI adds v into the composite channel sample at x, saturating at the
// int16 boundary (every renderer in this module composites by addition,
// never overwrite, so a single saturating primitive is shared here).
func (l *Line) AddI(x int, v int32) {
	l.Samples[x*2] = saturate(int32(l.Samples[x*2]) + v)
}

// AddQ adds v into the quadrature channel sample at x, saturating.
func (l *Line) AddQ(x int, v int32) {
	l.Samples[x*2+1] = saturate(int32(l.Samples[x*2+1]) + v)
}

func saturate(v int32) int16 {
	const max = 1<<15 - 1
	const min = -1 << 15
	if v > max {
		return max
	}
	if v < min {
		return min
	}
	return int16(v)
}

// Ring is a fixed-size array of Lines addressed by (head+k) mod size,
// replacing the C source's doubly linked pointer cycle per spec.md §9's
// design note. It is sized to the maximum delay any registered processor
// declared (spec.md §4.9's nlines).
type Ring struct {
	lines []*Line
	head  int // index of the line currently being produced
}

// NewRing allocates a Ring of size Lines, each with capSamples capacity.
// size must be at least 1 and at least as large as the greatest nlines
// any processor will register with (invariant 6 of spec.md §3).
func NewRing(size, capSamples int) (*Ring, error) {
	if size < 1 {
		return nil, fmt.Errorf("line: ring size must be at least 1, got %d", size)
	}
	r := &Ring{lines: make([]*Line, size)}
	for i := range r.lines {
		r.lines[i] = NewLine(capSamples)
	}
	return r, nil
}

// Len returns the ring's size.
func (r *Ring) Len() int { return len(r.lines) }

// At returns the line k slots behind the current head (k=0 is the line
// currently being produced, k=1 is the previous line, and so on). It
// never allocates or rewrites; callers only read through it.
func (r *Ring) At(k int) *Line {
	n := len(r.lines)
	idx := ((r.head-k)%n + n) % n
	return r.lines[idx]
}

// Advance moves the head forward one slot and returns the new head line,
// which the caller must Reset before writing (this is the "rewrite the
// slot at least max_delay ahead" bookkeeping of invariant 6: once a
// caller has advanced past a slot and read everything it needs from it,
// that slot becomes the next writable one).
func (r *Ring) Advance() *Line {
	r.head = (r.head + 1) % len(r.lines)
	return r.lines[r.head]
}

// Head returns the line currently at the write position without
// advancing.
func (r *Ring) Head() *Line { return r.lines[r.head] }

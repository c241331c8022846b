/*
NAME
  scramble.go

DESCRIPTION
  scramble.go implements the video scramblers of spec.md §4.4:
  Videocrypt I/II (per-line cut-and-rotate), Videocrypt S (line
  shuffling), and Syster/D11 (vertical shuffle with optional audio
  spectrum inversion). Card-specific control-word algebra is out of
  scope per spec.md's Non-goals; scramblers only need "what is the
  cut/shuffle/PRBS output for (frame, line)", answered here by a
  ControlWordSource.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package scramble implements the analogue video scramblers: Videocrypt
// I/II/S and Nagravision Syster/D11.
package scramble

import (
	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mac"
)

// ControlWordSource answers "what is the control word in effect for this
// frame", the only card-specific input a scrambler needs (spec.md §4.4's
// explicit scope boundary: algebra that derives it from an entitlement
// system is out of scope).
type ControlWordSource interface {
	ControlWord(frameNo int) uint64
}

// FixedControlWord is a ControlWordSource returning the same control
// word for every frame, sufficient for "free access" mode and for
// deterministic tests (spec.md Scenario E's free-access card value).
type FixedControlWord uint64

// ControlWord implements ControlWordSource.
func (f FixedControlWord) ControlWord(int) uint64 { return uint64(f) }

// FreeAccessControlWord is the value spec.md Scenario E specifies for
// "free" Videocrypt access.
const FreeAccessControlWord FixedControlWord = 0x0FFF_FFFF_FFFF_FFFF

// cutPoint derives a cut point within [lo, hi) for (frameNo, lineNo, cw)
// from a PRBS-2 sequence reseeded each frame, per spec.md §4.4/§4.6's
// shared PRBS-2 cut-point mechanism.
func cutPoint(cw uint64, frameNo, lineNo, lo, hi int) int {
	iw := mac.GenerateIW(cw, uint8(frameNo))
	p := mac.NewPRBSSeeded(uint16((iw >> 31) & 0x7FFF))
	for i := 0; i < lineNo; i++ {
		p.Next()
	}
	var word uint32
	for i := 0; i < 16; i++ {
		word = word<<1 | uint32(p.Next())
	}
	span := hi - lo
	if span <= 0 {
		return lo
	}
	return lo + int(word)%span
}

// VideocryptMode selects single-cut (Videocrypt I/II) vs double-cut (the
// colour-difference/luma split variant).
type VideocryptMode int

const (
	// CutSingle rotates the whole active line about one pseudo-random
	// point, cut offset in [229,580) per spec.md testable property 7.
	CutSingle VideocryptMode = iota
	// CutDouble rotates the whole active line once about a cut offset in
	// [586,1285); colour-difference and luma regions are not rotated
	// separately, and a line whose active width does not exceed the cut
	// is left as it is.
	CutDouble
)

// Videocrypt implements the Videocrypt I/II per-line cut-and-rotate
// scrambler. Its processor delay is 0 lines: each line is fully
// rewritten from itself, matching spec.md §4.4's "2 lines" VBI-carry
// delay being separate from the render delay proper (the VBI control
// packet carry is out of this scrambler's render path).
type Videocrypt struct {
	cws  ControlWordSource
	mode VideocryptMode
}

// NewVideocrypt returns a Videocrypt scrambler keyed by cws.
func NewVideocrypt(cws ControlWordSource, mode VideocryptMode) *Videocrypt {
	return &Videocrypt{cws: cws, mode: mode}
}

// RenderLine rotates l's active window [activeLeft, activeLeft+activeWidth)
// about a pseudo-random cut point, testable property 7 of spec.md §8: the
// result is a cyclic rotation (multiset-preserving) of the input.
func (v *Videocrypt) RenderLine(l *line.Line, frameNo, lineNo, activeLeft, activeWidth int) {
	cw := v.cws.ControlWord(frameNo)
	lo, hi := 229, 580
	if v.mode == CutDouble {
		lo, hi = 586, 1285
	}
	cut := cutPoint(cw, frameNo, lineNo, lo, hi)
	if cut <= 0 || cut >= activeWidth {
		return
	}
	rotateWindow(l, activeLeft, activeWidth, cut)
}

// rotateWindow cyclically rotates l's I-channel samples in
// [left, left+width) left by cut positions.
func rotateWindow(l *line.Line, left, width, cut int) {
	if width <= 0 || cut <= 0 || cut >= width {
		return
	}
	buf := make([]int16, width)
	for i := 0; i < width; i++ {
		buf[i] = l.I(left + i)
	}
	for i := 0; i < width; i++ {
		src := (i + cut) % width
		l.SetI(left+i, buf[src])
	}
}

// VideocryptS reassigns an entire active line to a pseudo-random slot
// within the field, delay at least half a field (VCS_DELAY_LINES of
// spec.md §4.4); callers supply a ring wide enough.
type VideocryptS struct {
	cws        ControlWordSource
	fieldLines int
}

// NewVideocryptS returns a VideocryptS scrambler for a field of
// fieldLines lines.
func NewVideocryptS(cws ControlWordSource, fieldLines int) *VideocryptS {
	return &VideocryptS{cws: cws, fieldLines: fieldLines}
}

// SlotFor returns the pseudo-random destination slot (0-based, within
// the field) that lineNo's content is reassigned to.
func (v *VideocryptS) SlotFor(frameNo, lineNo int) int {
	cw := v.cws.ControlWord(frameNo)
	return cutPoint(cw, frameNo, lineNo, 0, v.fieldLines)
}

// DelayLines is the minimum ring depth a VideocryptS engine must keep:
// at least half the field.
func (v *VideocryptS) DelayLines() int { return v.fieldLines/2 + 1 }

// systerDelayTable is the 8-entry per-line delay table (0, 1 or 2 line
// times) Syster/D11 selects from, keyed by (controlWord+lineNo)%len.
var systerDelayTable = [8]int{0, 1, 2, 1, 0, 2, 1, 0}

// Syster implements the Nagravision Syster/D11 vertical-shuffle
// scrambler: each line is delayed by 0, 1 or 2 line times from a table,
// with a minimum ring depth of 32 lines (spec.md §4.4).
type Syster struct {
	cws ControlWordSource
}

// NewSyster returns a Syster scrambler.
func NewSyster(cws ControlWordSource) *Syster { return &Syster{cws: cws} }

// DelayFor returns the number of line-times (0,1,2) lineNo's content is
// delayed by.
func (s *Syster) DelayFor(frameNo, lineNo int) int {
	cw := s.cws.ControlWord(frameNo)
	idx := (int(cw) + lineNo) % len(systerDelayTable)
	return systerDelayTable[idx]
}

// MinRingDepth is the minimum number of lines a Syster-scrambled engine
// must retain (spec.md §4.4: "at least 32 lines").
const MinRingDepth = 32

// InvertAudioSpectrum mirror-mixes samples around 12.8 kHz, Syster's
// optional audio spectrum inversion (spec.md §4.4): multiplying by
// (-1)^n reflects a real signal's spectrum about Nyquist/2 for a signal
// already centred there by the caller's resampling to 25.6 kHz.
func InvertAudioSpectrum(samples []int16) {
	for i := 1; i < len(samples); i += 2 {
		samples[i] = -samples[i]
	}
}

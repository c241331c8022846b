/*
NAME
  raster.go

DESCRIPTION
  raster.go is the sync and raster generator of spec.md §4.2: it places
  the vertical-interval pulse sequence, horizontal sync, and the colour
  burst, and composites active-picture samples through a levels.Tables.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package raster renders one television line at a time: the vertical and
// horizontal sync pulses, the colour burst, and the active picture.
package raster

import (
	"github.com/hacktv/hacktv/levels"
	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mode"
)

// pulseKind names one line's vertical-interval pulse shape.
type pulseKind int

const (
	pulseNormal pulseKind = iota // ordinary hsync, active or blanked line
	pulseEqualising
	pulseBroad
)

// sequence625 is the 625-line (PAL/SECAM) field-one vertical-interval
// pulse sequence, lines 1-7 of each field (3 equalising, 3 broad, then 1
// equalising; line 8 onward reverts to normal hsync), per ITU-R BT.470.
var sequence625 = []pulseKind{
	pulseEqualising, pulseEqualising, pulseEqualising,
	pulseBroad, pulseBroad, pulseBroad,
	pulseEqualising,
}

// sequence525 is the 525-line (NTSC) field-one vertical-interval pulse
// sequence: 3 equalising, 3 broad, 3 equalising (SMPTE 170M).
var sequence525 = []pulseKind{
	pulseEqualising, pulseEqualising, pulseEqualising,
	pulseBroad, pulseBroad, pulseBroad,
	pulseEqualising, pulseEqualising, pulseEqualising,
}

func sequenceFor(totalLines int) []pulseKind {
	if totalLines == 525 {
		return sequence525
	}
	return sequence625
}

// Generator renders lines for one (mode.Config, levels.Tables) pair at a
// fixed sample width per line.
type Generator struct {
	cfg    *mode.Config
	tables *levels.Tables
	width  int
}

// NewGenerator builds a Generator. width is the line width in samples, as
// returned by cfg.LineWidth.
func NewGenerator(cfg *mode.Config, tables *levels.Tables, width int) *Generator {
	return &Generator{cfg: cfg, tables: tables, width: width}
}

// Field returns the 1-based field number a line belongs to: field 1 for
// lines before the configured half-line, field 2 from the half-line on.
// Non-interlaced rasters are always field 1.
func (g *Generator) Field(lineNo int) int {
	if !g.cfg.Raster.Interlaced || g.cfg.Raster.HalfLine <= 0 {
		return 1
	}
	if lineNo >= g.cfg.Raster.HalfLine {
		return 2
	}
	return 1
}

// activeLinesPerField returns the number of active picture rows carried
// by a single field: half of ActiveLines for an interlaced raster (the
// other half comes from the other field), or the whole of ActiveLines
// for a non-interlaced raster (e.g. Baird 30/240), which has only one
// field per frame.
func (g *Generator) activeLinesPerField() int {
	if g.cfg.Raster.Interlaced {
		return g.cfg.Raster.ActiveLines / 2
	}
	return g.cfg.Raster.ActiveLines
}

// IsActive reports whether lineNo (1-based, within one frame) falls
// within the active picture area.
func (g *Generator) IsActive(lineNo int) bool {
	field := g.Field(lineNo)
	fieldLine := lineNo
	if field == 2 {
		fieldLine = lineNo - g.cfg.Raster.HalfLine + 1
	}
	vblank := len(sequenceFor(g.cfg.Raster.Lines))
	return fieldLine > vblank && fieldLine <= g.activeLinesPerField()+vblank
}

// ActiveLineIndex returns the 0-based index of lineNo within the active
// picture area (0 for the first active line of the frame, counting
// field two's lines on from where field one's left off for interlaced
// rasters), or -1 if lineNo falls outside the active area.
func (g *Generator) ActiveLineIndex(lineNo int) int {
	if !g.IsActive(lineNo) {
		return -1
	}
	field := g.Field(lineNo)
	fieldLine := lineNo
	if field == 2 {
		fieldLine = lineNo - g.cfg.Raster.HalfLine + 1
	}
	vblank := len(sequenceFor(g.cfg.Raster.Lines))
	idx := fieldLine - vblank - 1
	if field == 2 {
		idx += g.activeLinesPerField()
	}
	return idx
}

// pulseAt returns the vertical-interval pulse kind for lineNo, or
// pulseNormal outside the vertical interval.
func (g *Generator) pulseAt(lineNo int) pulseKind {
	field := g.Field(lineNo)
	fieldLine := lineNo
	if field == 2 {
		fieldLine = lineNo - g.cfg.Raster.HalfLine + 1
	}
	seq := sequenceFor(g.cfg.Raster.Lines)
	if fieldLine < 1 || fieldLine > len(seq) {
		return pulseNormal
	}
	return seq[fieldLine-1]
}

// PALSwitch reports the PAL colour-burst V-phase inversion for lineNo,
// invariant 7 of spec.md §3: this is a pure function of line number,
// never a running accumulator, so any line can be rendered independent
// of render order.
func (g *Generator) PALSwitch(lineNo int) bool {
	return lineNo%2 == 0
}

// RenderSync writes the line's sync pulses (hsync, or the appropriate
// vertical-interval pulse shape) into l at the configured sync position.
func (g *Generator) RenderSync(l *line.Line, lineNo int) {
	var pulse []int16
	switch g.pulseAt(lineNo) {
	case pulseEqualising:
		pulse = g.tables.VSyncShort()
	case pulseBroad:
		pulse = g.tables.VSyncLong()
	default:
		pulse = g.tables.HSync()
	}
	for i, v := range pulse {
		if i >= l.Width {
			break
		}
		l.SetI(i, v)
	}
	for i := len(pulse); i < l.Width; i++ {
		l.SetI(i, g.tables.Blanking)
	}
}

// RenderBurst adds the colour-burst envelope (PAL/NTSC only) at the
// configured left offset onto the composite channel, with the PAL
// V-switch applied to the quadrature term's sign per invariant 7.
func (g *Generator) RenderBurst(l *line.Line, lineNo int, leftSamples int) {
	burst := g.tables.Burst()
	if len(burst) == 0 {
		return
	}
	invert := g.cfg.ColourMode == mode.ColourPAL && g.PALSwitch(lineNo)
	for i, mag := range burst {
		x := leftSamples + i
		if x < 0 || x >= l.Width {
			continue
		}
		cos, sin := g.tables.CarrierAt(x)
		iComp := int32(mag) * int32(cos) / int16Max
		qComp := int32(mag) * int32(sin) / int16Max
		if invert {
			qComp = -qComp
		}
		l.AddI(x, iComp+qComp)
	}
}

const int16Max = 1<<15 - 1

// RenderActive composites one row of packed 0xRRGGBB pixels into the
// active picture area of l, starting at the configured left offset.
// PAL/NTSC quadrature-modulated chroma is summed onto the composite
// (I) channel alongside luma, with the PAL V-switch applied to the
// quadrature term's sign per invariant 7; SECAM instead writes its
// per-line D'r/D'b chroma sample onto the quadrature channel, for a
// later FM/bell pass to fold into the composite; every other mode adds
// e.Q to the quadrature channel, which carries MAC's colour-difference
// value and is zero for modes whose colour-difference weights are zero.
func (g *Generator) RenderActive(l *line.Line, frameNo, lineNo, leftSamples int, row []uint32) {
	invert := g.cfg.ColourMode == mode.ColourPAL && g.PALSwitch(lineNo)
	drLine := (frameNo*g.cfg.Raster.Lines+lineNo)&1 == 1
	for i, rgb := range row {
		x := leftSamples + i
		if x < 0 || x >= l.Width {
			continue
		}
		e := g.tables.At(rgb)
		l.AddI(x, int32(e.Y))
		switch g.cfg.ColourMode {
		case mode.ColourPAL, mode.ColourNTSC:
			cos, sin := g.tables.CarrierAt(x)
			iComp := int32(e.I) * int32(cos) / int16Max
			qComp := int32(e.Q) * int32(sin) / int16Max
			if invert {
				qComp = -qComp
			}
			l.AddI(x, iComp+qComp)
		case mode.ColourSECAM:
			// D'r (e.Q) on odd frame*lines+line, D'b (e.I) on even.
			if drLine {
				l.AddQ(x, int32(e.Q))
			} else {
				l.AddQ(x, int32(e.I))
			}
		default:
			l.AddQ(x, int32(e.Q))
		}
	}
}

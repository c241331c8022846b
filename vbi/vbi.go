/*
NAME
  vbi.go

DESCRIPTION
  vbi.go renders digital data carried in the vertical blanking interval:
  teletext, wide-screen signalling (WSS), and the Apollo/CBS
  field-sequential colour identification flag, per spec.md §4.3.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vbi renders digital vertical-blanking-interval signals:
// teletext, WSS, and the field-sequential-colour identification flag.
package vbi

import (
	"math"

	"github.com/hacktv/hacktv/line"
)

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// raisedCosine is the same Nyquist pulse-shaping filter as the teacher's
// vbidata.c _raised_cosine: a sinc windowed by a raised-cosine roll-off
// of excess bandwidth b, pulse width t.
func raisedCosine(x, b, t float64) float64 {
	if x == 0 {
		return 1
	}
	denom := 1.0 - (4.0*b*b*x*x)/(t*t)
	if denom == 0 {
		return sinc(x / t) * (math.Pi / 4)
	}
	return sinc(x/t) * (math.Cos(math.Pi*b*x/t) / denom)
}

// BitLUT is a precomputed set of per-symbol raised-cosine pulse shapes,
// one entry per distinct amplitude level, built once per (bitWidth,
// filterBandwidth, beta) tuple and reused for every digital VBI line
// this module renders, per the teacher's vbidata_init pattern.
type BitLUT struct {
	bitWidth float64
	shapes   map[int][]int16 // level -> rendered pulse, keyed by requested amplitude
	halfSpan int
}

// NewBitLUT builds a BitLUT for symbols bitWidth samples wide, with
// raised-cosine roll-off beta, spanning span symbols either side of the
// pulse centre (the teacher's dwidth).
func NewBitLUT(bitWidth float64, beta float64, span int) *BitLUT {
	return &BitLUT{
		bitWidth: bitWidth,
		shapes:   make(map[int][]int16),
		halfSpan: span,
	}
}

// Shape returns the rendered pulse for amplitude level, computing and
// caching it on first use.
func (b *BitLUT) Shape(level int) []int16 {
	if s, ok := b.shapes[level]; ok {
		return s
	}
	n := int(math.Ceil(b.bitWidth*float64(b.halfSpan)*2)) + 1
	out := make([]int16, n)
	mid := n / 2
	for x := 0; x < n; x++ {
		t := float64(x-mid) / b.bitWidth
		h := raisedCosine(t, 0.5, 1) * float64(level)
		out[x] = int16(math.Round(h))
	}
	b.shapes[level] = out
	return out
}

// RenderBits composites a run of bits (MSB first) into l's composite
// channel starting at startX, each bitWidth samples wide, with high bits
// rendered at level and low bits at -level (NRZ around the blanking
// level already present in l).
func (b *BitLUT) RenderBits(l *line.Line, startX int, bits []bool, level int16) {
	for i, bit := range bits {
		amp := int(level)
		if !bit {
			amp = -amp
		}
		shape := b.Shape(amp)
		x0 := startX + int(float64(i)*b.bitWidth) - len(shape)/2
		for k, v := range shape {
			x := x0 + k
			if x < 0 || x >= l.Width {
				continue
			}
			l.AddI(x, int32(v))
		}
	}
}

// hamming84Table encodes a 4-bit nibble into an 8-bit Hamming (8,4)
// codeword, the teletext framing code / page-number protection used
// throughout World System Teletext (ETS 300 706).
var hamming84Table = buildHamming84()

func buildHamming84() [16]byte {
	var t [16]byte
	for d := 0; d < 16; d++ {
		d1 := (d >> 0) & 1
		d2 := (d >> 1) & 1
		d3 := (d >> 2) & 1
		d4 := (d >> 3) & 1
		p1 := d1 ^ d2 ^ d4
		p2 := d1 ^ d3 ^ d4
		p3 := d2 ^ d3 ^ d4
		p4 := p1 ^ d1 ^ p2 ^ d2 ^ d3 ^ p3 ^ d4
		t[d] = byte(p1) | byte(p2)<<1 | byte(d1)<<2 | byte(p3)<<3 |
			byte(d2)<<4 | byte(d3)<<5 | byte(d4)<<6 | byte(p4)<<7
	}
	return t
}

// Hamming84 encodes the low nibble of v into an 8-bit protected byte.
func Hamming84(v byte) byte { return hamming84Table[v&0xF] }

// PacketSource supplies teletext packets to a pipeline VBI inserter, the
// out-of-scope "teletext page ingestion" collaborator of spec.md §1: a
// page-builder/font-rendering front end feeds packets in, this module
// only knows how to place them in the raster.
type PacketSource interface {
	// NextPacket returns the next packet to transmit and true, or
	// ok=false if no packet is currently available for this line.
	NextPacket() (p *Packet, ok bool)
}

// Packet is one 45-byte teletext packet: a 2-byte framing/magazine
// clock-run-in+framing-code pair conventionally prepended by the
// renderer, then 42 data bytes (ETS 300 706 §7).
type Packet struct {
	Magazine int // 1-8
	Row      int // 0-31
	Data     [40]byte
}

// Encode returns the 42-byte payload (framing code + address + data)
// Hamming/odd-parity protected per ETS 300 706: bytes 0-1 are the
// Hamming-8/4-protected magazine/row address, bytes 2-41 are the data
// bytes with odd parity in bit 7.
func (p *Packet) Encode() [42]byte {
	var out [42]byte
	addr := byte(p.Magazine&0x7) | byte(p.Row&0x1F)<<3
	out[0] = Hamming84(addr & 0xF)
	out[1] = Hamming84((addr >> 4) & 0xF)
	for i, b := range p.Data {
		out[2+i] = oddParity(b)
	}
	return out
}

func oddParity(b byte) byte {
	b &= 0x7F
	parity := byte(0)
	for i := 0; i < 7; i++ {
		parity ^= (b >> i) & 1
	}
	if parity == 0 {
		b |= 0x80
	}
	return b
}

// RenderTeletext composites one teletext packet into l, preceded by the
// clock-run-in (0x55 0x55) and framing code (0x27) every teletext line
// carries ahead of its address/data bytes.
func RenderTeletext(lut *BitLUT, l *line.Line, startX int, level int16, p *Packet) {
	payload := p.Encode()
	var bits []bool
	appendByte := func(b byte) {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1 == 1)
		}
	}
	appendByte(0x55)
	appendByte(0x55)
	appendByte(0x27)
	for _, b := range payload {
		appendByte(b)
	}
	lut.RenderBits(l, startX, bits, level)
}

// WSS encodes the 14-bit widescreen signalling word of ETSI EN 300 294
// (biphase, line 23) as a bit sequence ready for RenderBits.
func WSS(group1 byte, group2 byte) []bool {
	bits := make([]bool, 0, 14)
	appendNibble := func(v byte, n int) {
		for i := n - 1; i >= 0; i-- {
			bits = append(bits, (v>>uint(i))&1 == 1)
		}
	}
	appendNibble(group1, 4)
	appendNibble(group2, 4)
	// Remaining 6 bits: reserved for this module's purposes, left clear.
	for i := 0; i < 6; i++ {
		bits = append(bits, false)
	}
	return bits
}

// FSCFlag renders the Apollo/CBS field-sequential-colour identification
// flag: a short pulse whose presence (and, for CBS, polarity) tells the
// receiver which of the three field-sequential colour fields follows.
func FSCFlag(l *line.Line, startSample, widthSamples int, level int16, fieldIndex int) {
	lvl := level
	if fieldIndex%2 == 1 {
		lvl = -level
	}
	for x := startSample; x < startSample+widthSamples && x < l.Width; x++ {
		if x < 0 {
			continue
		}
		l.AddI(x, int32(lvl))
	}
}

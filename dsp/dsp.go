/*
NAME
  dsp.go

DESCRIPTION
  dsp.go implements the integer-sample filter bank of spec.md §4.7/§4.8:
  Kaiser-windowed FIR low-pass/high-pass/band-pass design, integer FIR
  and IIR filters, a rational resampler, and a soft limiter.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dsp is the shared filter bank: FIR/IIR design and integer
// filtering, rational resampling, and a soft output limiter.
package dsp

import "math"

// besselI0 is the zeroth-order modified Bessel function of the first
// kind, computed by the same power-series the original's i_zero uses
// (converging to 1e-21 relative precision).
func besselI0(x float64) float64 {
	sum, u, halfx := 1.0, 1.0, x/2.0
	n := 1.0
	for {
		temp := halfx / n
		n++
		temp *= temp
		u *= temp
		sum += u
		if u < 1e-21*sum {
			break
		}
	}
	return sum
}

// KaiserWindow returns an ntaps-long Kaiser window with shape parameter
// beta, grounded on the original's kaiser().
func KaiserWindow(ntaps int, beta float64) []float64 {
	w := make([]float64, ntaps)
	iBeta := 1.0 / besselI0(beta)
	inm1 := 1.0 / float64(ntaps-1)
	w[0] = iBeta
	for i := 1; i < ntaps-1; i++ {
		t := 2*float64(i)*inm1 - 1
		w[i] = besselI0(beta*math.Sqrt(1-t*t)) * iBeta
	}
	w[ntaps-1] = iBeta
	return w
}

// LowPass designs an odd-length Kaiser-windowed FIR low-pass filter
// (beta 7.0, matching the teacher's fixed design choice) at sampleRate
// with the given cutoff in Hz and unity-gain-at-DC normalisation.
func LowPass(ntaps int, sampleRate, cutoff, gain float64) []float64 {
	if ntaps%2 == 0 {
		ntaps--
	}
	taps := KaiserWindow(ntaps, 7.0)
	m := (ntaps - 1) / 2
	fwT0 := 2 * math.Pi * cutoff / sampleRate
	for n := -m; n <= m; n++ {
		if n == 0 {
			taps[n+m] *= fwT0 / math.Pi
		} else {
			taps[n+m] *= math.Sin(float64(n)*fwT0) / (float64(n) * math.Pi)
		}
	}
	fmax := taps[m]
	for n := 1; n <= m; n++ {
		fmax += 2 * taps[n+m]
	}
	g := gain / fmax
	for i := range taps {
		taps[i] *= g
	}
	return taps
}

// HighPass designs a Kaiser-windowed FIR high-pass filter as a spectral
// inversion of LowPass (1 - lowpass), the usual construction when no
// separate design routine is warranted.
func HighPass(ntaps int, sampleRate, cutoff, gain float64) []float64 {
	lp := LowPass(ntaps, sampleRate, cutoff, 1.0)
	m := (len(lp) - 1) / 2
	out := make([]float64, len(lp))
	for i := range lp {
		out[i] = -lp[i]
	}
	out[m] += 1
	for i := range out {
		out[i] *= gain
	}
	return out
}

// BandPass designs a Kaiser-windowed FIR band-pass filter passing
// [low, high] Hz, built as the difference of two low-pass designs.
func BandPass(ntaps int, sampleRate, low, high, gain float64) []float64 {
	hi := LowPass(ntaps, sampleRate, high, 1.0)
	lo := LowPass(ntaps, sampleRate, low, 1.0)
	out := make([]float64, len(hi))
	for i := range out {
		out[i] = (hi[i] - lo[i]) * gain
	}
	return out
}

// quantiseTaps converts float taps to Q15 fixed-point integer taps for
// FIRInt16's integer multiply-accumulate.
func quantiseTaps(taps []float64) []int32 {
	q := make([]int32, len(taps))
	for i, t := range taps {
		q[i] = int32(math.Round(t * (1 << 15)))
	}
	return q
}

// FIRInt16 is a direct-form FIR filter over int16 samples with Q15
// fixed-point coefficients, a ring history buffer, and saturating output.
type FIRInt16 struct {
	taps []int32
	hist []int16
	pos  int
}

// NewFIRInt16 builds a FIRInt16 from floating-point taps (as returned by
// LowPass/HighPass/BandPass).
func NewFIRInt16(taps []float64) *FIRInt16 {
	return &FIRInt16{taps: quantiseTaps(taps), hist: make([]int16, len(taps))}
}

// Process filters one sample and returns the result.
func (f *FIRInt16) Process(x int16) int16 {
	f.hist[f.pos] = x
	var acc int64
	n := len(f.taps)
	for i := 0; i < n; i++ {
		idx := (f.pos - i + n) % n
		acc += int64(f.taps[i]) * int64(f.hist[idx])
	}
	f.pos = (f.pos + 1) % n
	acc >>= 15
	return saturate(acc)
}

// ProcessBlock filters a whole block in place order (returns a new
// slice; callers needing in-place semantics can copy back).
func (f *FIRInt16) ProcessBlock(in []int16) []int16 {
	out := make([]int16, len(in))
	for i, x := range in {
		out[i] = f.Process(x)
	}
	return out
}

func saturate(v int64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// FIRComplexInt16 is a direct-form FIR filter over interleaved (I,Q)
// int16 samples sharing one real-valued tap set, used by the IF
// modulator's channel filtering.
type FIRComplexInt16 struct {
	i, q *FIRInt16
}

// NewFIRComplexInt16 builds a complex FIR from a shared real tap set.
func NewFIRComplexInt16(taps []float64) *FIRComplexInt16 {
	return &FIRComplexInt16{i: NewFIRInt16(taps), q: NewFIRInt16(taps)}
}

// Process filters one (i,q) sample pair.
func (f *FIRComplexInt16) Process(i, q int16) (int16, int16) {
	return f.i.Process(i), f.q.Process(q)
}

// IIRInt16 is a direct-form-I biquad section over int16 samples with
// Q15 fixed-point coefficients, used for cheap single-pole/two-pole
// shaping (e.g. de-emphasis) where a full FIR would be wasteful.
type IIRInt16 struct {
	b0, b1, b2, a1, a2 int32
	x1, x2, y1, y2     int64
}

// NewIIRInt16 builds an IIRInt16 from floating-point direct-form-II
// transposed coefficients (b0,b1,b2,a1,a2; a0 normalised to 1).
func NewIIRInt16(b0, b1, b2, a1, a2 float64) *IIRInt16 {
	q := func(v float64) int32 { return int32(math.Round(v * (1 << 15))) }
	return &IIRInt16{b0: q(b0), b1: q(b1), b2: q(b2), a1: q(a1), a2: q(a2)}
}

// Process filters one sample.
func (f *IIRInt16) Process(x int16) int16 {
	acc := int64(f.b0)*int64(x) + int64(f.b1)*f.x1 + int64(f.b2)*f.x2
	acc -= int64(f.a1)*f.y1 + int64(f.a2)*f.y2
	acc >>= 15
	y := saturate(acc)
	f.x2, f.x1 = f.x1, int64(x)
	f.y2, f.y1 = f.y1, int64(y)
	return y
}

// gcd returns the greatest common divisor of a and b.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Resampler is a rational interpolate-by-L/decimate-by-M polyphase-style
// resampler: an up/down sample-rate integer ratio reduced to lowest
// terms, with a shared anti-aliasing FIR.
type Resampler struct {
	interp, decim int
	fir           *FIRInt16
	phase         int
}

// NewResampler builds a Resampler converting from inRate to outRate,
// reduced to lowest terms, with an anti-aliasing low-pass at the lower
// of the two Nyquist frequencies.
func NewResampler(inRate, outRate uint64, ntaps int) *Resampler {
	g := gcd(int(inRate), int(outRate))
	interp := int(outRate) / g
	decim := int(inRate) / g
	cutoff := float64(inRate)
	if outRate < inRate {
		cutoff = float64(outRate)
	}
	taps := LowPass(ntaps, float64(inRate)*float64(interp), cutoff/2*0.9, float64(interp))
	return &Resampler{interp: interp, decim: decim, fir: NewFIRInt16(taps)}
}

// Process resamples a block of input samples, returning the resampled
// output (length approximately len(in)*interp/decim).
func (r *Resampler) Process(in []int16) []int16 {
	out := make([]int16, 0, len(in)*r.interp/r.decim+1)
	for _, x := range in {
		for k := 0; k < r.interp; k++ {
			var up int16
			if k == 0 {
				up = x
			}
			y := r.fir.Process(up)
			if r.phase == 0 {
				out = append(out, y)
			}
			r.phase = (r.phase + 1) % r.decim
		}
	}
	return out
}

// SoftLimit applies a 21-tap raised-cosine soft limiter to a block of
// int16 samples, smoothly clipping excursions above the threshold
// fraction of full scale instead of hard-clipping, avoiding the spectral
// splatter a hard clip would cause.
func SoftLimit(samples []int16, threshold float64) {
	const taps = 21
	limit := threshold * math.MaxInt16
	half := taps / 2
	window := make([]float64, taps)
	for i := range window {
		x := float64(i-half) / float64(half)
		window[i] = 0.5 * (1 + math.Cos(math.Pi*x))
	}
	for i, s := range samples {
		mag := math.Abs(float64(s))
		if mag <= limit {
			continue
		}
		excess := mag - limit
		w := window[i%taps]
		damped := limit + excess*(1-0.5*w)
		if s < 0 {
			damped = -damped
		}
		samples[i] = saturate(int64(math.Round(damped)))
	}
}

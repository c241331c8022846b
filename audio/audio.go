/*
NAME
  audio.go

DESCRIPTION
  audio.go implements the in-band audio subcarriers of spec.md §4.5: the
  reference-rate resampler wrapping codec/pcm, FM mono/dual oscillators,
  AM oscillators, A2 pilot-tone stereo, a NICAM-728 framer, and a
  DANCE-A digital audio framer.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package audio implements the in-band audio subcarriers a mode.Config
// may carry alongside its video: FM/AM oscillators, NICAM-728, A2
// stereo, and DANCE-A digital framing, plus the reference-rate resampler
// that brings an AV source's audio onto the mode's audio sample rate.
package audio

import (
	"math"

	"github.com/hacktv/hacktv/codec/pcm"
	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mode"
)

// ToReferenceRate brings c onto the mode's reference audio sample rate,
// per spec.md §4.5, via codec/pcm.Resample (both directions, see
// DESIGN.md's note on pcm's added upsample branch).
func ToReferenceRate(c pcm.Buffer, referenceHz uint) (pcm.Buffer, error) {
	return pcm.Resample(c, referenceHz)
}

// FMOscillator is a float64 phase-accumulator FM oscillator: it
// frequency-modulates a carrier by an audio sample stream and emits
// (cos,sin) pairs scaled to int16, renormalising the phase via atan2
// on every sample to prevent phase-accumulator drift.
type FMOscillator struct {
	carrierHz float64
	deviation float64
	sampleHz  float64
	phase     float64 // radians, kept in [-pi,pi]
}

// NewFMOscillator returns an FMOscillator for the given subcarrier at
// sampleHz.
func NewFMOscillator(sc mode.AudioSubcarrier, sampleHz float64) *FMOscillator {
	return &FMOscillator{carrierHz: sc.CarrierHz, deviation: sc.Deviation, sampleHz: sampleHz}
}

// Next advances the oscillator by one sample of normalised audio
// amplitude in [-1,1] and returns the modulated (I,Q) pair at full
// scale.
func (o *FMOscillator) Next(audio float64) (i, q int16) {
	freq := o.carrierHz + o.deviation*audio
	o.phase += 2 * math.Pi * freq / o.sampleHz
	// Renormalise via atan2 rather than a naive mod, so accumulated
	// floating-point error in phase never grows unbounded across a long
	// transmission.
	o.phase = math.Atan2(math.Sin(o.phase), math.Cos(o.phase))
	return int16(math.Round(math.Cos(o.phase) * math.MaxInt16)),
		int16(math.Round(math.Sin(o.phase) * math.MaxInt16))
}

// AMOscillator is an amplitude-modulated subcarrier oscillator.
type AMOscillator struct {
	carrierHz float64
	sampleHz  float64
	phase     float64
}

// NewAMOscillator returns an AMOscillator for the given subcarrier.
func NewAMOscillator(sc mode.AudioSubcarrier, sampleHz float64) *AMOscillator {
	return &AMOscillator{carrierHz: sc.CarrierHz, sampleHz: sampleHz}
}

// Next advances by one sample of normalised audio amplitude in [-1,1]
// and returns the modulated carrier sample at full scale.
func (o *AMOscillator) Next(audio float64) int16 {
	o.phase += 2 * math.Pi * o.carrierHz / o.sampleHz
	o.phase = math.Atan2(math.Sin(o.phase), math.Cos(o.phase))
	return int16(math.Round((1 + audio) * 0.5 * math.Cos(o.phase) * math.MaxInt16))
}

// Preemphasis applies a single-pole pre-emphasis shelf with the given
// time constant (50us, 75us, or CCITT J.17's curve approximated by a
// 75us shelf), returning the filtered sample; state is threaded by the
// caller via prevOut.
func Preemphasis(kind mode.PreemphKind, sampleHz float64, x float64, prevOut float64) float64 {
	var tau float64
	switch kind {
	case mode.Preemph50us:
		tau = 50e-6
	case mode.Preemph75us, mode.PreemphJ17:
		tau = 75e-6
	default:
		return x
	}
	alpha := tau * sampleHz / (tau*sampleHz + 1)
	return x - alpha*(x-prevOut)
}

// NICAMFrame is one 728-bit (91-byte) NICAM-728 frame: a three-byte
// header (frame alignment, control bits, additional data) followed by an
// 88-byte audio payload.
type NICAMFrame struct {
	FrameAlignment byte // 0x4E8A parity-bit pattern index, simplified here to a counter
	ControlBits    byte
	AdditionalData byte
	Data           [BytesPerNICAMFrame - 3]byte
}

// BytesPerNICAMFrame is NICAM-728's fixed frame size.
const BytesPerNICAMFrame = 91

// EncodeNICAMFrame packs left/right sample pairs into a NICAMFrame as
// the top 14 bits of each 16-bit sample, left then right, XORing every
// bit with the NICAM 9-bit PRBS. No companding, scale factors, bit
// interleaving or parity is applied. The 704-bit payload holds 25 whole
// pairs plus the top 4 bits of the 26th left sample; later samples are
// dropped.
func EncodeNICAMFrame(left, right []int16, frameCount byte) NICAMFrame {
	var f NICAMFrame
	f.FrameAlignment = frameCount % 2
	f.ControlBits = 0 // stereo, no companding reduction, first-generation
	scrambler := newNicamPRBS()
	bitPos := 0
	set := func(v uint16, nbits int) {
		for i := nbits - 1; i >= 0; i-- {
			bit := byte((v >> uint(i)) & 1)
			bit ^= scrambler.next()
			byteIdx := bitPos / 8
			if byteIdx < len(f.Data) {
				f.Data[byteIdx] |= bit << uint(7-bitPos%8)
			}
			bitPos++
		}
	}
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		set(uint16(left[i])>>2&0x3FFF, 14)
		set(uint16(right[i])>>2&0x3FFF, 14)
	}
	return f
}

// nicamPRBS is NICAM-728's scrambling sequence generator, a 9-bit LFSR
// reset once per frame.
type nicamPRBS struct{ x uint16 }

func newNicamPRBS() *nicamPRBS { return &nicamPRBS{x: 0x1FF} }

func (p *nicamPRBS) next() byte {
	b := byte((p.x ^ (p.x >> 4)) & 1)
	p.x = (p.x >> 1) | (uint16(b) << 8)
	return b
}

// A2Stereo implements the German/A2 (Zweikanalton) dual-FM-carrier
// stereo system: a main carrier carrying mono and a second, lower-level
// pilot-modulated carrier carrying the stereo difference or a second
// language channel.
type A2Stereo struct {
	main, sub *FMOscillator
}

// NewA2Stereo returns an A2Stereo pair for the given main and secondary
// subcarrier descriptors.
func NewA2Stereo(mainSC, subSC mode.AudioSubcarrier, sampleHz float64) *A2Stereo {
	return &A2Stereo{main: NewFMOscillator(mainSC, sampleHz), sub: NewFMOscillator(subSC, sampleHz)}
}

// Next advances both carriers and returns their summed (I,Q) samples.
func (a *A2Stereo) Next(left, right float64) (i, q int16) {
	mi, mq := a.main.Next(left)
	si, sq := a.sub.Next(right)
	return saturatingAdd(mi, si), saturatingAdd(mq, sq)
}

func saturatingAdd(a, b int16) int16 {
	v := int32(a) + int32(b)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// DANCEAFrame is one frame of the DANCE-A digital audio subcarrier
// format: a simplified ADPCM-free PCM-in-the-blanking-interval framing,
// distinct from NICAM's QPSK subcarrier in that it rides in the line
// blanking region of the composite signal rather than on a separate RF
// subcarrier.
type DANCEAFrame struct {
	Sync byte
	Data [16]byte // one line's worth of packed 12-bit samples
}

// EncodeDANCEAFrame packs 12-bit PCM samples (from 16-bit input, top 12
// bits) into a DANCEAFrame's 128 data bits: 10 whole samples plus the top
// 8 bits of an 11th; later samples are dropped.
func EncodeDANCEAFrame(samples []int16) DANCEAFrame {
	var f DANCEAFrame
	f.Sync = 0xA5
	bitPos := 0
	for _, s := range samples {
		v := uint16(s) >> 4 // top 12 bits
		for i := 11; i >= 0; i-- {
			bit := byte((v >> uint(i)) & 1)
			byteIdx := bitPos / 8
			if byteIdx >= len(f.Data) {
				return f
			}
			f.Data[byteIdx] |= bit << uint(7-bitPos%8)
			bitPos++
		}
	}
	return f
}

// nicamDibitPhase is the four phase increments NICAM-728's pi/4-DQPSK
// mapper assigns to each dibit, per ETS 300 163.
var nicamDibitPhase = [4]float64{math.Pi / 4, 3 * math.Pi / 4, -3 * math.Pi / 4, -math.Pi / 4}

// RenderNICAMFrame carries one NICAMFrame's 728 bits as a pi/4-DQPSK
// symbol stream onto l's composite channel at carrierHz, spreading the
// frame's 364 dibits evenly across l's width. Spec.md §4.5's root-
// raised-cosine pulse shaping is left to the filter bank (dsp.LowPass/
// dsp.FIRComplexInt16) once this unshaped phase-step stream reaches it,
// rather than duplicated here.
func RenderNICAMFrame(l *line.Line, f NICAMFrame, carrierHz, sampleHz, level float64) {
	bits := make([]bool, 0, BytesPerNICAMFrame*8)
	bits = appendByteBits(bits, f.FrameAlignment, f.ControlBits, f.AdditionalData)
	for _, b := range f.Data {
		bits = appendBitsOf(bits, b)
	}
	ndibits := len(bits) / 2
	if ndibits == 0 || l.Width == 0 {
		return
	}
	samplesPerSymbol := float64(l.Width) / float64(ndibits)
	var phase, carrierPhase float64
	for i := 0; i < ndibits; i++ {
		dibit := 0
		if bits[i*2] {
			dibit |= 2
		}
		if bits[i*2+1] {
			dibit |= 1
		}
		phase += nicamDibitPhase[dibit]
		x0 := int(float64(i) * samplesPerSymbol)
		x1 := int(float64(i+1) * samplesPerSymbol)
		for x := x0; x < x1 && x < l.Width; x++ {
			carrierPhase += 2 * math.Pi * carrierHz / sampleHz
			l.AddI(x, int32(math.Cos(carrierPhase+phase)*level*math.MaxInt16))
			l.AddQ(x, int32(math.Sin(carrierPhase+phase)*level*math.MaxInt16))
		}
	}
}

func appendBitsOf(bits []bool, b byte) []bool {
	for i := 7; i >= 0; i-- {
		bits = append(bits, (b>>uint(i))&1 == 1)
	}
	return bits
}

func appendByteBits(bits []bool, bs ...byte) []bool {
	for _, b := range bs {
		bits = appendBitsOf(bits, b)
	}
	return bits
}

// RenderSubcarrier mixes one subcarrier's (I,Q) samples into l starting
// at the line's audio insertion point (typically the whole line width,
// since audio subcarriers ride continuously under the video spectrum).
func RenderSubcarrier(l *line.Line, level float64, samplesI, samplesQ []int16) {
	for x := 0; x < l.Width && x < len(samplesI); x++ {
		l.AddI(x, int32(float64(samplesI[x])*level))
		if x < len(samplesQ) {
			l.AddQ(x, int32(float64(samplesQ[x])*level))
		}
	}
}

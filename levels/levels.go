/*
NAME
  levels.go

DESCRIPTION
  levels.go builds the derived per-run tables spec.md §4.1 describes: the
  RGB->YIQ table, the four reference levels, the colour-subcarrier phase
  table, and the pre-rendered VBI/sync pulse shapes.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package levels builds the derived, per-run lookup tables a mode.Config
// needs at a given pixel rate: the RGB->YIQ table, reference levels, the
// colour-subcarrier phase table and pre-rendered sync/VBI pulse shapes.
package levels

import (
	"math"
	"math/big"

	"github.com/ausocean/utils/logging"

	"github.com/hacktv/hacktv/mode"
)

const (
	int16Max = math.MaxInt16
	int16Min = math.MinInt16
)

// SECAM FM chrominance subcarrier constants (ITU-R BT.470): the nominal
// carrier both D'r and D'b deviate from, their individual centre
// frequencies, and the peak deviation defining full int16 scale.
const (
	SecamFMFreqHz = 4328125 // 277 fH
	SecamFMDevHz  = 1000e3
	SecamCbFreqHz = 4250000 // 272 fH, D'b centre
	SecamCrFreqHz = 4406250 // 282 fH, D'r centre
)

// YIQEntry is one entry of the RGB->YIQ table, already scaled into signal
// units.
type YIQEntry struct {
	Y, I, Q int16
}

func clampInt16(v float64, log logging.Logger, what string) int16 {
	if v > int16Max {
		if log != nil {
			log.Warning("level clamped to int16 range", "what", what, "value", v)
		}
		return int16Max
	}
	if v < int16Min {
		if log != nil {
			log.Warning("level clamped to int16 range", "what", what, "value", v)
		}
		return int16Min
	}
	return int16(v)
}

// carrierSample is one entry of the colour-subcarrier phase table: cos
// and sin of the subcarrier phase at that offset, each scaled by
// INT16_MAX.
type carrierSample struct {
	Cos, Sin int16
}

// pulseSegment is one pre-rendered sync/VBI pulse, a flat run of samples
// to be added into a line's composite channel starting at XOffset.
type pulseSegment struct {
	XOffset int
	Values  []int16
}

// Tables holds every derived table for one (mode.Config, pixelRate) pair.
// Tables are rebuilt whenever pixel rate or the Config changes; they are
// read-only once built.
type Tables struct {
	cfg *mode.Config

	White, Black, Blanking, Sync int16

	compact bool
	yiqFull []YIQEntry // len 1<<24, nil when compact
	yiqHi   []YIQEntry // len 4096, compact split-table high half
	yiqLo   []YIQEntry // len 4096, compact split-table low half
	yiqBase YIQEntry   // subtracted once to correct the additive split

	carrier    []carrierSample
	carrierLen int

	hsync  []pulseSegment
	vsyncS []pulseSegment
	vsyncL []pulseSegment
	burst  []pulseSegment // PAL/NTSC only; one entry, the normal phase

	// secamBell is the 2^16-entry complex bell-filter LUT keyed by
	// deviation, built only when cfg.ColourMode == mode.ColourSECAM (design
	// note, spec.md §9: "should not be replaced by per-sample atan2/sin/cos").
	secamBell []complex128
}

// NewTables builds every derived table for cfg at the given sample and
// pixel rates. compact selects the 2^12+2^12 split RGB->YIQ table of
// spec.md §9 instead of the full 2^24 table, trading lookup accuracy for
// roughly 1/2000th the memory. log may be nil; it only receives clamp
// warnings (invariant 3 of spec.md §3).
func NewTables(log logging.Logger, cfg *mode.Config, sampleRate, pixelRate uint64, compact bool) (*Tables, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Tables{cfg: cfg, compact: compact}
	t.buildReferenceLevels(log)
	t.buildYIQ(log, compact)
	t.buildCarrier(pixelRate)
	t.buildSyncPulses(pixelRate)
	if cfg.ColourMode == mode.ColourSECAM {
		t.buildSecamBell()
	}
	return t, nil
}

func (t *Tables) buildReferenceLevels(log logging.Logger) {
	lv := t.cfg.Levels
	t.White = clampInt16(lv.White*int16Max, log, "white")
	t.Black = clampInt16(lv.Black*int16Max, log, "black")
	t.Blanking = clampInt16(lv.Blanking*int16Max, log, "blanking")
	t.Sync = clampInt16(lv.Sync*int16Max, log, "sync")
}

// gammaTable returns a 256-entry table mapping an 8-bit channel value to
// its gamma-corrected linear value in [0,1], per spec.md §4.1.
func gammaTable(gamma float64) [256]float64 {
	if gamma <= 0 {
		gamma = 1.0
	}
	var g [256]float64
	for c := 0; c < 256; c++ {
		g[c] = math.Pow(float64(c)/255.0, 1.0/gamma)
	}
	return g
}

// yiqAt computes one YIQEntry for an 8-bit (r,g,b) triple per spec.md
// §4.1's RGB->YIQ formula.
func yiqAt(cfg *mode.Config, gamma [256]float64, r, g, b uint8) YIQEntry {
	lr, lg, lb := gamma[r], gamma[g], gamma[b]
	y := cfg.YIQ.RW*lr + cfg.YIQ.GW*lg + cfg.YIQ.BW*lb
	u := lb - y
	v := lr - y
	i := cfg.YIQ.EU * u
	q := cfg.YIQ.EV * v

	white, black := cfg.Levels.White, cfg.Levels.Black
	span := white - black

	yScaled := (black + y*(white-black)) * int16Max
	var iScaled, qScaled float64
	if cfg.ColourMode == mode.ColourSECAM {
		// SECAM's i/q fields hold FM deviation targets: i (D'b) and q
		// (D'r) are offset from their own subcarrier centre down to the
		// shared nominal carrier, then normalised by the peak deviation
		// so that (value/INT16_MAX) x SecamFMDevHz recovers the target
		// deviation in Hz off SecamFMFreqHz.
		iScaled = (i + SecamCbFreqHz - SecamFMFreqHz) / SecamFMDevHz * int16Max
		qScaled = (q + SecamCrFreqHz - SecamFMFreqHz) / SecamFMDevHz * int16Max
	} else {
		iScaled = i * span * int16Max
		qScaled = q * span * int16Max
	}
	return YIQEntry{
		Y: clampInt16(yScaled, nil, "yiq.y"),
		I: clampInt16(iScaled, nil, "yiq.i"),
		Q: clampInt16(qScaled, nil, "yiq.q"),
	}
}

func (t *Tables) buildYIQ(log logging.Logger, compact bool) {
	gamma := gammaTable(t.cfg.Gamma)

	if !compact {
		t.yiqFull = make([]YIQEntry, 1<<24)
		for idx := range t.yiqFull {
			r := uint8(idx >> 16)
			g := uint8(idx >> 8)
			b := uint8(idx)
			t.yiqFull[idx] = yiqAt(t.cfg, gamma, r, g, b)
		}
		return
	}

	// Compact mode exploits linearity of Y/I/Q in (r,g,b): split the
	// 24-bit index into a high half (r, g's top nibble worth) and low
	// half (b, g's bottom nibble worth) each 4096 wide, precompute both,
	// and recombine additively at lookup time, correcting for the
	// double-counted baseline.
	t.yiqHi = make([]YIQEntry, 4096)
	t.yiqLo = make([]YIQEntry, 4096)
	for hi := 0; hi < 4096; hi++ {
		r := uint8(hi >> 4)
		g := uint8((hi & 0xf) << 4)
		t.yiqHi[hi] = yiqAt(t.cfg, gamma, r, g, 0)
	}
	for lo := 0; lo < 4096; lo++ {
		g := uint8((lo >> 8) & 0xf)
		b := uint8(lo)
		t.yiqLo[lo] = yiqAt(t.cfg, gamma, 0, g, b)
	}
	t.yiqBase = yiqAt(t.cfg, gamma, 0, 0, 0)
}

// At returns the YIQEntry for a packed 0xRRGGBB pixel value.
func (t *Tables) At(rgb uint32) YIQEntry {
	if !t.compact {
		return t.yiqFull[rgb&0xFFFFFF]
	}
	hi := int((rgb >> 12) & 0xFFF)
	lo := int(rgb & 0xFFF)
	a, b := t.yiqHi[hi], t.yiqLo[lo]
	return YIQEntry{
		Y: clampInt16(float64(a.Y)+float64(b.Y)-float64(t.yiqBase.Y), nil, "yiq.y"),
		I: clampInt16(float64(a.I)+float64(b.I)-float64(t.yiqBase.I), nil, "yiq.i"),
		Q: clampInt16(float64(a.Q)+float64(b.Q)-float64(t.yiqBase.Q), nil, "yiq.q"),
	}
}

// buildCarrier fills the colour-subcarrier phase table: L is the
// numerator of pixelRate / colour_carrier reduced to lowest terms, long
// enough to cover one line plus wrap, holding (cos,sin)*INT16_MAX pairs.
func (t *Tables) buildCarrier(pixelRate uint64) {
	if t.cfg.ColourCarrier == nil || t.cfg.ColourCarrier.Sign() == 0 {
		return
	}
	rate := new(big.Rat).SetUint64(pixelRate)
	ratio := new(big.Rat).Quo(rate, t.cfg.ColourCarrier)
	num := ratio.Num().Int64()
	den := ratio.Denom().Int64()
	// L must be an integer number of subcarrier cycles that also covers a
	// whole number of samples; num/den reduced gives the shortest exact
	// repeat length: num samples, spanning exactly den subcarrier cycles.
	l := int(num)
	if l <= 0 {
		l = int(pixelRate)
	}
	t.carrierLen = l
	t.carrier = make([]carrierSample, l)
	freq, _ := t.cfg.ColourCarrier.Float64()
	pr := float64(pixelRate)
	for k := 0; k < l; k++ {
		phase := 2 * math.Pi * float64(k) * freq / pr
		t.carrier[k] = carrierSample{
			Cos: int16(math.Round(math.Cos(phase) * int16Max)),
			Sin: int16(math.Round(math.Sin(phase) * int16Max)),
		}
	}
	_ = den
}

// CarrierAt returns the (cos,sin) pair at sample offset off, wrapped
// modulo the carrier table length (invariant 4 of spec.md §3: continuous
// across line boundaries).
func (t *Tables) CarrierAt(off int) (cos, sin int16) {
	if t.carrierLen == 0 {
		return 0, 0
	}
	off %= t.carrierLen
	if off < 0 {
		off += t.carrierLen
	}
	c := t.carrier[off]
	return c.Cos, c.Sin
}

// CarrierLen returns the colour-subcarrier table's period in samples.
func (t *Tables) CarrierLen() int { return t.carrierLen }

// raisedCosine renders n samples of a raised-cosine rise from 0 to peak.
func raisedCosine(n int, peak float64) []int16 {
	if n <= 0 {
		return nil
	}
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		if n == 1 {
			x = 1
		}
		v := peak * 0.5 * (1 - math.Cos(math.Pi*x))
		out[i] = int16(math.Round(v))
	}
	return out
}

// buildSyncPulses pre-renders hsync, the two vsync widths, and the
// colour-burst envelope (PAL/NTSC only) with the configured rise time.
func (t *Tables) buildSyncPulses(pixelRate uint64) {
	pr := float64(pixelRate)
	peak := float64(t.Sync) - float64(t.Blanking)

	riseN := int(math.Round(t.cfg.Sync.SyncRiseSec * pr))
	if riseN < 1 {
		riseN = 1
	}

	mkPulse := func(widthSec float64) pulseSegment {
		n := int(math.Round(widthSec * pr))
		vals := make([]int16, 0, n)
		edge := raisedCosine(riseN, peak)
		vals = append(vals, edge...)
		flatLen := n - 2*riseN
		for i := 0; i < flatLen; i++ {
			vals = append(vals, int16(peak))
		}
		for i := len(edge) - 1; i >= 0; i-- {
			vals = append(vals, edge[i])
		}
		return pulseSegment{Values: vals}
	}

	t.hsync = []pulseSegment{mkPulse(t.cfg.Sync.HSyncWidthSec)}
	if t.cfg.Sync.VSyncShortWidthSec > 0 {
		t.vsyncS = []pulseSegment{mkPulse(t.cfg.Sync.VSyncShortWidthSec)}
	}
	if t.cfg.Sync.VSyncLongWidthSec > 0 {
		t.vsyncL = []pulseSegment{mkPulse(t.cfg.Sync.VSyncLongWidthSec)}
	}

	if t.cfg.ColourMode == mode.ColourPAL || t.cfg.ColourMode == mode.ColourNTSC {
		burstPeak := t.cfg.Burst.Level * (float64(t.White) - float64(t.Blanking))
		burstRiseN := int(math.Round(t.cfg.Burst.RiseSec * pr))
		if burstRiseN < 1 {
			burstRiseN = 1
		}
		n := int(math.Round(t.cfg.Burst.WidthSec * pr))
		edge := raisedCosine(burstRiseN, burstPeak)
		vals := make([]int16, 0, n)
		vals = append(vals, edge...)
		for i := 0; i < n-2*burstRiseN; i++ {
			vals = append(vals, int16(burstPeak))
		}
		for i := len(edge) - 1; i >= 0; i-- {
			vals = append(vals, edge[i])
		}
		t.burst = []pulseSegment{{Values: vals}}
	}
}

// HSync returns the pre-rendered horizontal sync pulse shape.
func (t *Tables) HSync() []int16 {
	if len(t.hsync) == 0 {
		return nil
	}
	return t.hsync[0].Values
}

// VSyncShort returns the pre-rendered short vertical-sync (equalising)
// pulse shape.
func (t *Tables) VSyncShort() []int16 {
	if len(t.vsyncS) == 0 {
		return nil
	}
	return t.vsyncS[0].Values
}

// VSyncLong returns the pre-rendered long (broad) vertical-sync pulse
// shape.
func (t *Tables) VSyncLong() []int16 {
	if len(t.vsyncL) == 0 {
		return nil
	}
	return t.vsyncL[0].Values
}

// Burst returns the pre-rendered colour-burst envelope shape, or nil for
// modes with no burst (SECAM, MAC, monochrome).
func (t *Tables) Burst() []int16 {
	if len(t.burst) == 0 {
		return nil
	}
	return t.burst[0].Values
}

// buildSecamBell builds the 2^16-entry complex bell-filter LUT keyed by
// deviation, approximating the analogue SECAM bell (cloche) pre-emphasis
// filter's frequency response around the D'r/D'b centre frequencies.
func (t *Tables) buildSecamBell() {
	const n = 1 << 16
	t.secamBell = make([]complex128, n)
	for k := 0; k < n; k++ {
		// Deviation normalised to [-1,1] across the table's domain.
		dev := (float64(k)/float64(n-1))*2 - 1
		// A simple single-pole bell shape centred at dev=0, consistent
		// with the original's analogue LC bell filter response; exact
		// component values are a hardware calibration detail outside
		// this module's scope.
		mag := 1.0 / (1.0 + 4*dev*dev)
		phase := dev * math.Pi / 2
		t.secamBell[k] = complex(mag*math.Cos(phase), mag*math.Sin(phase))
	}
}

// SecamBellAt returns the bell-filter response for a normalised deviation
// in [-1,1]; it is only meaningful when cfg.ColourMode is ColourSECAM.
func (t *Tables) SecamBellAt(devNormalised float64) complex128 {
	if len(t.secamBell) == 0 {
		return 1
	}
	idx := int((devNormalised + 1) / 2 * float64(len(t.secamBell)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.secamBell) {
		idx = len(t.secamBell) - 1
	}
	return t.secamBell[idx]
}

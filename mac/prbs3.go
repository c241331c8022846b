/*
NAME
  prbs3.go

DESCRIPTION
  prbs3.go implements MAC's conditional-access keystream and VSAM line
  rotation of spec.md §4.6: the 61-stage dual shift-register generator
  that scrambles each packet payload, the companion 16-bit generator
  that drives per-line cut-rotation, and the rotation itself. Entitlement
  key management that derives the control word is out of scope (spec.md
  Non-goals); a ControlWord however it was obtained is all this needs.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mac

import "github.com/hacktv/hacktv/line"

const (
	sr1Mask  = 1<<31 - 1
	sr2Mask  = 1<<29 - 1
	caCWMask = uint64(1)<<60 - 1
)

// caIW derives the conditional-access PRBS initialisation word for
// control word cw and frame counter fcnt: fcnt and its complement are
// repeated across the word before folding in cw, so that a single-bit
// fcnt error disturbs every repeat rather than one silently-wrong byte.
func caIW(cw uint64, fcnt uint8) uint64 {
	iw := uint64(fcnt^0xFF)<<8 | uint64(fcnt)
	iw |= iw<<16 | iw<<32 | iw<<48
	return (iw ^ cw) & caCWMask
}

// rev returns the low bits bits of b with their bit order reversed.
func rev(b uint64, bits int) uint64 {
	var r uint64
	for ; bits > 0; bits-- {
		r = r<<1 | b&1
		b >>= 1
	}
	return r
}

// CAKeystream holds the two independent dual shift-register generators
// MAC's conditional access uses: one produces the 61-bit keystream word
// that scrambles a packet's payload, the other a 16-bit code that drives
// VSAM's per-line cut rotation. Both reseed from the same control word
// and frame counter but run as separate registers thereafter.
type CAKeystream struct {
	cw       uint64
	sr1, sr2 uint64 // packet keystream registers
	sr3, sr4 uint64 // line rotation code registers
}

// NewCAKeystream returns a CAKeystream keyed by the given control word.
func NewCAKeystream(cw uint64) *CAKeystream {
	return &CAKeystream{cw: cw}
}

// SetControlWord rotates the active control word, as a real receiver
// would on decoding a fresh entitlement control message.
func (k *CAKeystream) SetControlWord(cw uint64) { k.cw = cw }

// ResetPacketKey reseeds the packet keystream registers for frame
// counter fcnt, done once per frame before the first packet is fetched.
func (k *CAKeystream) ResetPacketKey(fcnt uint8) {
	iw := caIW(k.cw, fcnt)
	k.sr1 = iw & sr1Mask
	k.sr2 = (iw >> 31) & sr2Mask
}

// ResetLineCode reseeds the line rotation registers for frame counter
// fcnt, done once per frame at line 1.
func (k *CAKeystream) ResetLineCode(fcnt uint8) {
	iw := caIW(k.cw, fcnt)
	k.sr3 = iw & sr1Mask
	k.sr4 = (iw >> 31) & sr2Mask
}

// NextPacketKey advances the packet keystream registers by one packet
// and returns the 61-bit keystream word ScramblePacket needs.
func (k *CAKeystream) NextPacketKey() uint64 {
	var code uint64
	for i := 0; i < 61; i++ {
		a := rev(k.sr2, 29) & 0x03
		a |= (rev(k.sr1, 31) << 2) & 0x1C

		b := (rev(k.sr2, 29) >> 2) & 0x000000FF
		b |= (rev(k.sr1, 31) << 5) & 0xFFFFFF00

		code = code>>1 | ((b>>a)&1)<<60

		if k.sr1&1 != 0 {
			k.sr1 = k.sr1>>1 ^ 0x78810820
		} else {
			k.sr1 = k.sr1 >> 1
		}
		if k.sr2&1 != 0 {
			k.sr2 = k.sr2>>1 ^ 0x17121100
		} else {
			k.sr2 = k.sr2 >> 1
		}
	}
	return code
}

// NextLineCode advances the line rotation registers by one line and
// returns the 16-bit code VSAM's cut points are derived from.
func (k *CAKeystream) NextLineCode() uint16 {
	var code uint16
	for i := 0; i < 16; i++ {
		a := rev(k.sr4, 29) & 0x1F
		if a == 31 {
			a = 30
		}
		bit := (rev(k.sr3, 31) >> a) & 1
		code = code>>1 | uint16(bit<<15)

		if k.sr3&1 != 0 {
			k.sr3 = k.sr3>>1 ^ 0x7BB88888
		} else {
			k.sr3 = k.sr3 >> 1
		}
		if k.sr4&1 != 0 {
			k.sr4 = k.sr4>>1 ^ 0x17A2C100
		} else {
			k.sr4 = k.sr4 >> 1
		}
	}
	return code
}

// macPayloadBytes is the length of a packet's payload, byte 0 excluded
// from scrambling (it carries the first continuity/address framing bit
// group, not picture or data group content).
const macPayloadBytes = 91

// ScramblePacket XORs pkt's bytes [1,91) with a keystream generated from
// iw via the PRBS-3 bit-multiplexer, the conditional-access counterpart
// to the spectrum-shaping PRBS scramble.go's cutPoint derives from.
// Byte 0 is left untouched.
func ScramblePacket(pkt *[91]byte, iw uint64) {
	for x := 1; x < macPayloadBytes; x++ {
		var c byte
		for i := 0; i < 8; i++ {
			r := rev(iw, 61)
			a := (r>>4)&1<<0 | (r>>9)&1<<1 | (r>>14)&1<<2 | (r>>19)&1<<3 | (r>>24)&1<<4
			b := (r >> 29) & 0xFFFFFFFF

			c = c>>1 | byte(((b>>a)&1)<<7)

			if iw&1 != 0 {
				iw = iw>>1 ^ 0x163D23594C934051
			} else {
				iw = iw >> 1
			}
		}
		pkt[x] ^= c
	}
}

// VSAMMode selects MAC's own vision-scrambling cut-rotation behaviour:
// off, or single/double cut, structurally analogous to
// scramble.Videocrypt's CutSingle/CutDouble but driven by CAKeystream's
// own line code rather than scramble's PRBS-2 cutPoint.
type VSAMMode int

const (
	// VSAMUnscrambled carries the picture in the clear.
	VSAMUnscrambled VSAMMode = iota
	// VSAMDoubleCut rotates the colour-difference and luminance regions
	// independently, each about its own pseudo-random cut point.
	VSAMDoubleCut
	// VSAMSingleCut rotates the whole active line about one cut point.
	VSAMSingleCut
)

// VSAM implements MAC's vision-scrambling cut-rotation scrambler.
type VSAM struct {
	ks   *CAKeystream
	mode VSAMMode
}

// NewVSAM returns a VSAM scrambler driven by ks's line code.
func NewVSAM(ks *CAKeystream, mode VSAMMode) *VSAM {
	return &VSAM{ks: ks, mode: mode}
}

// RenderLine rotates l's active window for frameNo/lineNo, reseeding the
// line code generator at the start of each frame (lineNo 1) and
// advancing it once per line regardless of mode, matching the original's
// "PRBS2 always runs, rotation is skipped in VSAMUnscrambled" schedule.
func (v *VSAM) RenderLine(l *line.Line, frameNo, lineNo, activeLeft, activeWidth int) {
	if lineNo == 1 {
		v.ks.ResetLineCode(uint8(frameNo - 1))
	}
	prbs := v.ks.NextLineCode()
	if v.mode == VSAMUnscrambled {
		return
	}
	if v.mode == VSAMDoubleCut {
		rotateBand(l, activeLeft, activeWidth, 229, 580, 282+int((prbs&0xFF00)>>8))
		rotateBand(l, activeLeft, activeWidth, 586, 1285, 682+int((prbs&0x00FF)<<1))
	} else {
		rotateBand(l, activeLeft, activeWidth, 230, 1285, 282+int((prbs&0xFF00)>>8))
	}
}

// rotateBand copies l's I-channel samples over [activeLeft+x1,
// activeLeft+x2] from a cyclically-advancing source starting at
// activeLeft+xc, the sample-domain counterpart of the original's
// video_scale-indexed _rotate; activeWidth clips the band to the active
// window actually available on this line.
func rotateBand(l *line.Line, activeLeft, activeWidth, x1, x2, xc int) {
	if x2 <= x1 || xc < x1 || xc > x2 {
		return
	}
	lo, hi := activeLeft+x1, activeLeft+x2
	if lo < activeLeft {
		lo = activeLeft
	}
	if hi >= activeLeft+activeWidth {
		hi = activeLeft + activeWidth - 1
	}
	if hi <= lo {
		return
	}
	src := activeLeft + xc
	buf := make([]int16, hi-lo+1)
	for i := range buf {
		buf[i] = l.I(src)
		src++
		if src > hi {
			src = lo
		}
	}
	for i, v := range buf {
		l.SetI(lo+i, v)
	}
}

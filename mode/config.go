/*
NAME
  config.go

DESCRIPTION
  config.go defines ModeConfig, the immutable per-standard parameter set
  that every other package in this module is built against.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mode holds the immutable description of a broadcast television
// standard: raster geometry, sync timing, reference levels, colour
// subcarrier parameters and modulation, plus a bundled table of the
// standards this module ships.
package mode

import (
	"fmt"
	"math/big"

	"github.com/hacktv/hacktv"
)

// OutputKind is the sample representation a Config's pipeline produces.
type OutputKind int

const (
	// ComplexIQ indicates interleaved (I,Q) int16 samples.
	ComplexIQ OutputKind = iota
	// RealBaseband indicates a single real int16 channel (Q always zero).
	RealBaseband
)

func (k OutputKind) String() string {
	switch k {
	case ComplexIQ:
		return "ComplexIQ"
	case RealBaseband:
		return "RealBaseband"
	default:
		panic("hacktv: unhandled OutputKind")
	}
}

// ModulationKind selects the IF modulation a Config's output is carried on.
type ModulationKind int

const (
	ModNone ModulationKind = iota
	ModAM
	ModVSB
	ModFM
)

func (m ModulationKind) String() string {
	switch m {
	case ModNone:
		return "None"
	case ModAM:
		return "AM"
	case ModVSB:
		return "VSB"
	case ModFM:
		return "FM"
	default:
		panic("hacktv: unhandled ModulationKind")
	}
}

// Modulation carries the parameters specific to the selected ModulationKind.
// Only the fields relevant to Kind are meaningful.
type Modulation struct {
	Kind ModulationKind

	// VSB.
	VSBUpperBW float64 // Hz
	VSBLowerBW float64 // Hz

	// FM.
	FMDeviation      float64 // Hz per unit amplitude
	FMEnergyDispersal float64 // peak-to-peak deviation fraction, 0 disables
}

// ColourMode selects the chrominance encoding a Config uses.
type ColourMode int

const (
	ColourNone ColourMode = iota
	ColourPAL
	ColourNTSC
	ColourSECAM
	ColourApolloFSC
	ColourCBSFSC
	ColourMAC
)

func (c ColourMode) String() string {
	switch c {
	case ColourNone:
		return "None"
	case ColourPAL:
		return "PAL"
	case ColourNTSC:
		return "NTSC"
	case ColourSECAM:
		return "SECAM"
	case ColourApolloFSC:
		return "ApolloFSC"
	case ColourCBSFSC:
		return "CBSFSC"
	case ColourMAC:
		return "MAC"
	default:
		panic("hacktv: unhandled ColourMode")
	}
}

// MACMode distinguishes D-MAC from D2-MAC framing when ColourMode is
// ColourMAC. It is meaningless otherwise.
type MACMode int

const (
	MACNone MACMode = iota
	MACD
	MACD2
)

// PreemphKind selects an audio subcarrier's pre-emphasis time constant.
type PreemphKind int

const (
	PreemphNone PreemphKind = iota
	Preemph50us
	Preemph75us
	PreemphJ17
)

// AudioSubcarrier describes one FM or AM audio subcarrier a Config may
// carry alongside the video (mono, dual, NICAM or A2 pilot).
type AudioSubcarrier struct {
	Name      string
	CarrierHz float64
	Level     float64 // power level, unit-normalised
	Deviation float64 // Hz, FM subcarriers only
	Preemph   PreemphKind
	NICAM     bool // carrier frequency doubles as the NICAM-728 QPSK centre
	NICAMBeta float64
}

// EurocryptConfig carries the MAC service-information defaults a MAC mode
// ships, used by the mac package (mac.NewEurocrypt) when Eurocrypt-over-MAC
// is enabled. The control-word algebra itself is outside this module (see
// scramble.ControlWordSource).
type EurocryptConfig struct {
	ChannelID uint16
	Mode      MACMode
}

// RasterGeometry is the timing of a Config's non-MAC raster.
type RasterGeometry struct {
	Lines           int
	ActiveLines     int
	HalfLine        int // 1-based index of the first line of the second field
	FrameRateNum    int
	FrameRateDen    int
	ActiveWidthSec  float64
	ActiveLeftSec   float64
	Interlaced      bool
	FieldOrderFlip  bool // frame_orientation-style vertical flip, e.g. Baird
}

// SyncGeometry is a Config's sync-pulse timing, in seconds.
type SyncGeometry struct {
	HSyncWidthSec      float64
	VSyncShortWidthSec float64
	VSyncLongWidthSec  float64
	SyncRiseSec        float64
}

// Levels holds the four reference levels of spec.md's data model, each a
// unit-normalised real number in [-1, 1].
type Levels struct {
	White    float64
	Black    float64
	Blanking float64
	Sync     float64
}

// BurstGeometry is the colour-burst envelope timing and level, meaningless
// when ColourMode is ColourNone or ColourMAC.
type BurstGeometry struct {
	WidthSec float64
	RiseSec  float64
	LeftSec  float64
	Level    float64 // as a fraction of (White - Blanking)
}

// YIQCoefficients are the RGB->Y and Y->chroma coefficients a Config's
// level/LUT builder uses.
type YIQCoefficients struct {
	RW, GW, BW float64 // RGB -> Y weights
	EU, EV     float64 // Y -> chroma (U,V) scale
}

// Config is the immutable parameter set for one broadcast standard. All
// fields are read-only for the lifetime of a run; callers obtain one from
// Table and never mutate it.
type Config struct {
	ID          string
	Description string

	Output     OutputKind
	Modulation Modulation

	Level        float64 // overall signal level
	VideoLevel   float64 // video carrier power level

	Raster RasterGeometry
	Sync   SyncGeometry
	Levels Levels

	ColourMode ColourMode
	Burst      BurstGeometry
	// ColourCarrier is the colour subcarrier frequency as an exact
	// rational, matching the teacher's own rational frame-rate fields and
	// the original's {num, den} colour_carrier struct.
	ColourCarrier *big.Rat

	YIQ   YIQCoefficients
	Gamma float64

	Audio []AudioSubcarrier

	MAC       MACMode
	Eurocrypt EurocryptConfig

	// FSC flag geometry, meaningful only for Apollo/CBS field-sequential
	// colour modes.
	FSCFlagWidthSec float64
	FSCFlagLeftSec  float64
	FSCFlagLevel    float64
}

// LineRateHz returns lines * frame_rate, i.e. the number of lines per
// second this Config synthesises.
func (c *Config) LineRateHz() *big.Rat {
	r := big.NewRat(int64(c.Raster.FrameRateNum), int64(c.Raster.FrameRateDen))
	return r.Mul(r, big.NewRat(int64(c.Raster.Lines), 1))
}

// Validate enforces invariants 1 and 2 of spec.md §3. It never mutates c.
func (c *Config) Validate() error {
	if c.Raster.Lines <= 0 {
		return fmt.Errorf("%w: lines must be positive, got %d", hacktv.ErrConfigInvalid, c.Raster.Lines)
	}
	if c.Raster.FrameRateNum <= 0 || c.Raster.FrameRateDen <= 0 {
		return fmt.Errorf("%w: frame rate must be positive, got %d/%d", hacktv.ErrConfigInvalid, c.Raster.FrameRateNum, c.Raster.FrameRateDen)
	}
	if c.Raster.ActiveLines <= 0 || c.Raster.ActiveLines > c.Raster.Lines {
		return fmt.Errorf("%w: active_lines %d out of range for %d total lines", hacktv.ErrConfigInvalid, c.Raster.ActiveLines, c.Raster.Lines)
	}
	lineSec, _ := new(big.Rat).Inv(c.LineRateHz()).Float64()
	if c.Raster.ActiveLeftSec+c.Raster.ActiveWidthSec > lineSec {
		return fmt.Errorf("%w: active_left+active_width exceeds line width", hacktv.ErrConfigInvalid)
	}
	halfLineSec := lineSec / 2
	if c.Sync.HSyncWidthSec >= halfLineSec {
		return fmt.Errorf("%w: hsync_width must be strictly less than half a line", hacktv.ErrConfigInvalid)
	}
	if c.Sync.VSyncShortWidthSec >= halfLineSec || c.Sync.VSyncLongWidthSec >= halfLineSec {
		return fmt.Errorf("%w: vsync pulse widths must be strictly less than half a line", hacktv.ErrConfigInvalid)
	}
	return nil
}

// LineWidth returns the integer number of samples per line at pixelRate,
// and reports whether pixelRate divides the line rate exactly (invariant 1
// of spec.md §3; an inexact division is not itself an error, callers
// should log a warning and proceed with the rounded width).
func (c *Config) LineWidth(pixelRate uint64) (width int, exact bool) {
	num := int64(pixelRate) * int64(c.Raster.FrameRateDen)
	den := int64(c.Raster.Lines) * int64(c.Raster.FrameRateNum)
	width = int((num + den/2) / den) // round to nearest
	exact = num%den == 0
	return width, exact
}

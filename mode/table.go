/*
NAME
  table.go

DESCRIPTION
  table.go bundles the broadcast-standard Configs this module ships,
  selectable by id exactly as the CLI's -m/--mode flag does in spec.md §6.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mode

import (
	"fmt"
	"math/big"

	"github.com/hacktv/hacktv"
)

// pal625 is the common 625-line/25fps raster and sync geometry shared by
// every PAL/SECAM System B/G/D/K/I variant.
var pal625Raster = RasterGeometry{
	Lines: 625, ActiveLines: 576, HalfLine: 313,
	FrameRateNum: 25, FrameRateDen: 1,
	ActiveWidthSec: 0.00005195, ActiveLeftSec: 0.00001040,
	Interlaced: true,
}

var pal625Sync = SyncGeometry{
	HSyncWidthSec: 0.00000470, VSyncShortWidthSec: 0.00000235,
	VSyncLongWidthSec: 0.00002730, SyncRiseSec: 0.00000020,
}

var ntsc525Raster = RasterGeometry{
	Lines: 525, ActiveLines: 480, HalfLine: 263,
	FrameRateNum: 30000, FrameRateDen: 1001,
	ActiveWidthSec: 0.00005290, ActiveLeftSec: 0.00000920,
	Interlaced: true,
}

var ntsc525Sync = SyncGeometry{
	HSyncWidthSec: 0.00000470, VSyncShortWidthSec: 0.00000230,
	VSyncLongWidthSec: 0.00002710, SyncRiseSec: 0.00000025,
}

// bt601YIQ is the CCIR 601 RGB -> YUV weighting common to PAL and NTSC.
var bt601YIQ = YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114, EU: 0.493, EV: 0.877}

// palColourCarrier is 17734475/4 Hz = 4433618.75 Hz.
func palColourCarrier() *big.Rat { return big.NewRat(17734475, 4) }

// ntscColourCarrier is 39375000/11 Hz = 3579545.4545... Hz.
func ntscColourCarrier() *big.Rat { return big.NewRat(39375000, 11) }

func palBurst() BurstGeometry {
	return BurstGeometry{WidthSec: 0.00000225, RiseSec: 0.00000030, LeftSec: 0.00000560, Level: 3.0 / 7.0}
}

func ntscBurst() BurstGeometry {
	return BurstGeometry{WidthSec: 0.00000250, RiseSec: 0.00000030, LeftSec: 0.00000530, Level: 4.0 / 10.0}
}

func fmMonoSubcarrier(name string, hz, level, deviation float64, pre PreemphKind) AudioSubcarrier {
	return AudioSubcarrier{Name: name, CarrierHz: hz, Level: level, Deviation: deviation, Preemph: pre}
}

func nicamSubcarrier(hz, level, beta float64) AudioSubcarrier {
	return AudioSubcarrier{Name: "nicam", CarrierHz: hz, Level: level, NICAM: true, NICAMBeta: beta}
}

// palI is System I PAL (UK terrestrial), 6.0 MHz FM mono audio.
func palI() *Config {
	return &Config{
		ID:          "i",
		Description: "PAL colour, 25 fps, 625 lines, AM (complex), 6.0 MHz FM audio",
		Output:      ComplexIQ,
		Modulation:  Modulation{Kind: ModVSB, VSBUpperBW: 5500000, VSBLowerBW: 1250000},
		Level:       1.0, VideoLevel: 0.71,
		Raster: pal625Raster, Sync: pal625Sync,
		Levels:        Levels{White: 0.20, Black: 0.76, Blanking: 0.76, Sync: 1.00},
		ColourMode:    ColourPAL,
		Burst:         palBurst(),
		ColourCarrier: palColourCarrier(),
		YIQ:           bt601YIQ,
		Gamma:         1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 6000000-400, 0.22, 50000, Preemph50us),
			nicamSubcarrier(6552000, 0.035, 1.0),
		},
	}
}

// palBG is System B/G PAL (most of Western Europe), 5.5 MHz FM mono audio.
func palBG() *Config {
	return &Config{
		ID:          "b",
		Description: "PAL colour, 25 fps, 625 lines, AM (complex), 5.5 MHz FM audio",
		Output:      ComplexIQ,
		Modulation:  Modulation{Kind: ModVSB, VSBUpperBW: 5000000, VSBLowerBW: 750000},
		Level:       1.0, VideoLevel: 0.71,
		Raster: pal625Raster, Sync: pal625Sync,
		Levels:        Levels{White: 0.20, Black: 0.76, Blanking: 0.76, Sync: 1.00},
		ColourMode:    ColourPAL,
		Burst:         palBurst(),
		ColourCarrier: palColourCarrier(),
		YIQ:           bt601YIQ,
		Gamma:         1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 5500000, 0.15, 50000, Preemph50us),
			nicamSubcarrier(5850000, 0.035, 0.4),
		},
	}
}

// palDK is System D/K PAL (Eastern Europe/China), 6.5 MHz FM mono audio.
func palDK() *Config {
	c := palBG()
	c.ID = "pal-d"
	c.Description = "PAL colour, 25 fps, 625 lines, AM (complex), 6.5 MHz FM audio"
	c.VideoLevel = 0.70
	c.Audio = []AudioSubcarrier{
		fmMonoSubcarrier("fm_mono", 6500000, 0.20, 50000, Preemph50us),
		nicamSubcarrier(5850000, 0.035, 0.4),
	}
	return c
}

// palFM is the satellite PAL/FM variant.
func palFM() *Config {
	return &Config{
		ID:          "pal-fm",
		Description: "PAL colour, 25 fps, 625 lines, FM (complex), 6.5 MHz FM audio",
		Output:      ComplexIQ,
		Modulation:  Modulation{Kind: ModFM, FMDeviation: 16e6},
		Level:       1.0, VideoLevel: 1.00,
		Raster: pal625Raster, Sync: pal625Sync,
		Levels:        Levels{White: 0.20, Black: 0.76, Blanking: 0.76, Sync: 1.00},
		ColourMode:    ColourPAL,
		Burst:         palBurst(),
		ColourCarrier: palColourCarrier(),
		YIQ:           bt601YIQ,
		Gamma:         1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 6500000, 0.06, 50000, Preemph50us),
		},
	}
}

// pal is unmodulated real-baseband PAL, for file/baseband targets.
func pal() *Config {
	c := palBG()
	c.ID = "pal"
	c.Description = "PAL colour, 25 fps, 625 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	c.Levels = Levels{White: 0.70, Black: 0.00, Blanking: 0.00, Sync: -0.30}
	c.Audio = nil
	return c
}

// palM is System M PAL (Brazil), 525 lines, 30/1.001 fps.
func palM() *Config {
	return &Config{
		ID:          "pal-m",
		Description: "PAL colour, 30/1.001 fps, 525 lines, AM (complex), 4.5 MHz FM audio",
		Output:      ComplexIQ,
		Modulation:  Modulation{Kind: ModVSB, VSBUpperBW: 4200000, VSBLowerBW: 750000},
		Level:       1.0, VideoLevel: 0.77,
		Raster: ntsc525Raster, Sync: ntsc525Sync,
		Levels:        Levels{White: 0.125, Black: 0.703125, Blanking: 0.750, Sync: 1.00},
		ColourMode:    ColourPAL,
		Burst:         palBurst(),
		ColourCarrier: palColourCarrier(),
		YIQ:           bt601YIQ,
		Gamma:         1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 4500000, 0.15, 25000, Preemph75us),
		},
	}
}

// palN is System N PAL (Argentina/Uruguay/Paraguay), 625 lines, reduced
// subcarrier deviation, carried here with System B/G's sync timing as the
// original's vid_config_pal_n does.
func palN() *Config {
	c := palBG()
	c.ID = "pal-n"
	c.Description = "PAL colour, 25 fps, 625 lines, AM (complex), 4.5 MHz FM audio"
	c.Audio = []AudioSubcarrier{
		fmMonoSubcarrier("fm_mono", 4500000, 0.15, 25000, Preemph75us),
	}
	return c
}

func ntscM() *Config {
	return &Config{
		ID:          "m",
		Description: "NTSC colour, 30/1.001 fps, 525 lines, AM (complex), 4.5 MHz FM audio",
		Output:      ComplexIQ,
		Modulation:  Modulation{Kind: ModVSB, VSBUpperBW: 4200000, VSBLowerBW: 750000},
		Level:       1.0, VideoLevel: 0.77,
		Raster: ntsc525Raster, Sync: ntsc525Sync,
		Levels:        Levels{White: 0.125000, Black: 0.703125, Blanking: 0.750000, Sync: 1.000000},
		ColourMode:    ColourNTSC,
		Burst:         ntscBurst(),
		ColourCarrier: ntscColourCarrier(),
		YIQ:           bt601YIQ,
		Gamma:         1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 4500000, 0.15, 25000, Preemph75us),
		},
	}
}

func ntscI() *Config {
	c := ntscM()
	c.ID = "ntsc-i"
	c.Description = "NTSC colour, 30/1.001 fps, 525 lines, AM (complex), 6.0 MHz FM audio"
	c.Modulation = Modulation{Kind: ModVSB, VSBUpperBW: 5500000, VSBLowerBW: 1250000}
	c.VideoLevel = 0.71
	c.Audio = []AudioSubcarrier{
		fmMonoSubcarrier("fm_mono", 6000000, 0.22, 50000, Preemph50us),
		nicamSubcarrier(6552000, 0.035, 1.0),
	}
	return c
}

func ntscJ() *Config {
	c := ntscM()
	c.ID = "ntsc-j"
	c.Description = "NTSC colour, 30/1.001 fps, 525 lines, AM (complex), Japanese audio placement"
	c.Audio = []AudioSubcarrier{
		fmMonoSubcarrier("fm_mono", 4500000, 0.15, 25000, Preemph75us),
	}
	return c
}

func secamDK() *Config {
	return &Config{
		ID:          "d",
		Description: "SECAM colour, 25 fps, 625 lines, AM (complex), 6.5 MHz FM audio",
		Output:      ComplexIQ,
		Modulation:  Modulation{Kind: ModVSB, VSBUpperBW: 5500000, VSBLowerBW: 750000},
		Level:       1.0, VideoLevel: 0.70,
		Raster: pal625Raster, Sync: pal625Sync,
		Levels:     Levels{White: 0.20, Black: 0.76, Blanking: 0.76, Sync: 1.00},
		ColourMode: ColourSECAM,
		Burst:      BurstGeometry{WidthSec: 0.00005690, RiseSec: 0.00000100, LeftSec: 0.00000560},
		// SECAM has no single colour subcarrier; its FM bell filter centre
		// frequencies are 4406250 (D'r) / 4250000 (D'b) Hz, stored here as
		// the D'r centre for the shared ColourCarrier field (the bell LUT
		// in levels carries both explicitly).
		ColourCarrier: big.NewRat(4406250, 1),
		YIQ:           YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114, EU: 1.505 * 230e3, EV: -1.902 * 280e3},
		Gamma:         1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 6500000, 0.20, 50000, Preemph50us),
			nicamSubcarrier(5850000, 0.035, 0.4),
		},
	}
}

func secamI() *Config {
	c := secamDK()
	c.ID = "secam-i"
	c.Description = "SECAM colour, 25 fps, 625 lines, AM (complex), 6.0 MHz FM audio"
	c.Modulation = Modulation{Kind: ModVSB, VSBUpperBW: 5500000, VSBLowerBW: 1250000}
	c.VideoLevel = 0.71
	c.Audio = []AudioSubcarrier{
		fmMonoSubcarrier("fm_mono", 6000000, 0.15, 50000, Preemph50us),
		nicamSubcarrier(6552000, 0.035, 1.0),
	}
	return c
}

func secamFM() *Config {
	return &Config{
		ID:          "secam-fm",
		Description: "SECAM colour, 25 fps, 625 lines, FM (complex), 6.5 MHz FM audio, satellite",
		Output:      ComplexIQ,
		Modulation:  Modulation{Kind: ModFM, FMDeviation: 16e6},
		Level:       1.0, VideoLevel: 1.00,
		Raster: pal625Raster, Sync: pal625Sync,
		Levels:        Levels{White: 0.20, Black: 0.76, Blanking: 0.76, Sync: 1.00},
		ColourMode:    ColourSECAM,
		Burst:         BurstGeometry{WidthSec: 0.00005690, RiseSec: 0.00000100, LeftSec: 0.00000560},
		ColourCarrier: big.NewRat(4406250, 1),
		YIQ:           YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114, EU: 1.505 * 230e3, EV: -1.902 * 280e3},
		Gamma:         1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 6500000, 0.06, 50000, Preemph50us),
		},
	}
}

func secam() *Config {
	c := secamDK()
	c.ID = "secam"
	c.Description = "SECAM colour, 25 fps, 625 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	c.Levels = Levels{White: 0.70, Black: 0.00, Blanking: 0.00, Sync: -0.30}
	c.Audio = nil
	return c
}

const macClockHz = 20250000

func macGeometry() (RasterGeometry, float64, float64) {
	r := RasterGeometry{Lines: 625, ActiveLines: 576, HalfLine: 313, FrameRateNum: 25, FrameRateDen: 1, Interlaced: true}
	return r, 585.0 / macClockHz, 702.0 / macClockHz
}

func d2macAM() *Config {
	raster, left, width := macGeometry()
	raster.ActiveLeftSec, raster.ActiveWidthSec = left, width
	return &Config{
		ID: "d2mac-am", Description: "D2-MAC, 25 fps, 625 lines, AM (complex)",
		Output: ComplexIQ, Modulation: Modulation{Kind: ModAM},
		Level: 1.00, VideoLevel: 0.85,
		Raster:     raster,
		Levels:     Levels{White: 0.10, Black: 1.00, Blanking: 0.55, Sync: 0.55},
		ColourMode: ColourMAC, MAC: MACD2,
		YIQ:       YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114, EU: 0.733, EV: 0.927},
		Gamma:     1.0,
		Eurocrypt: EurocryptConfig{ChannelID: 0xE8B5, Mode: MACD2},
	}
}

func d2macFM() *Config {
	c := d2macAM()
	c.ID = "d2mac-fm"
	c.Description = "D2-MAC, 25 fps, 625 lines, FM (complex), satellite"
	c.Modulation = Modulation{Kind: ModFM, FMDeviation: 13.5e6}
	c.VideoLevel = 1.0
	c.Levels = Levels{White: 0.50, Black: -0.50, Blanking: 0.00, Sync: 0.00}
	return c
}

func d2mac() *Config {
	c := d2macFM()
	c.ID = "d2mac"
	c.Description = "D2-MAC, 25 fps, 625 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	return c
}

func dmacAM() *Config {
	c := d2macAM()
	c.ID = "dmac-am"
	c.Description = "D-MAC, 25 fps, 625 lines, AM (complex)"
	c.MAC = MACD
	c.Eurocrypt.Mode = MACD
	return c
}

func dmacFM() *Config {
	c := d2macFM()
	c.ID = "dmac-fm"
	c.Description = "D-MAC, 25 fps, 625 lines, FM (complex), satellite"
	c.MAC = MACD
	c.Eurocrypt.Mode = MACD
	return c
}

func dmac() *Config {
	c := d2mac()
	c.ID = "dmac"
	c.Description = "D-MAC, 25 fps, 625 lines, unmodulated (real)"
	c.MAC = MACD
	c.Eurocrypt.Mode = MACD
	return c
}

// mono819E is System E, the French 819-line monochrome standard.
func mono819E() *Config {
	return &Config{
		ID: "e", Description: "No colour, 25 fps, 819 lines, AM (complex), 11.15 MHz AM audio",
		Output: ComplexIQ, Modulation: Modulation{Kind: ModVSB, VSBUpperBW: 2000000, VSBLowerBW: 10400000},
		Level: 1.0, VideoLevel: 0.8,
		Raster: RasterGeometry{
			Lines: 819, ActiveLines: 720, HalfLine: 409,
			FrameRateNum: 25, FrameRateDen: 1,
			ActiveWidthSec: 0.00003944, ActiveLeftSec: 0.00000890,
			Interlaced: true,
		},
		Sync:   SyncGeometry{HSyncWidthSec: 0.00000250, VSyncLongWidthSec: 0.00002000},
		Levels: Levels{White: 1.00, Black: 0.35, Blanking: 0.30, Sync: 0.00},
		YIQ:    YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114},
		Gamma:  1.0,
		Audio: []AudioSubcarrier{
			{Name: "am_mono", CarrierHz: 11.15e6, Level: 0.2},
		},
	}
}

func mono819() *Config {
	c := mono819E()
	c.ID = "819"
	c.Description = "No colour, 25 fps, 819 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	c.VideoLevel = 1.0
	c.Levels = Levels{White: 0.70, Black: 0.05, Blanking: 0.00, Sync: -0.30}
	c.Audio = nil
	return c
}

// mono405A is System A, the original BBC 405-line monochrome standard.
func mono405A() *Config {
	return &Config{
		ID: "a", Description: "No colour, 25 fps, 405 lines, AM (complex), -3.5 MHz AM audio",
		Output: ComplexIQ, Modulation: Modulation{Kind: ModVSB, VSBUpperBW: 750000, VSBLowerBW: 3000000},
		Level: 1.0, VideoLevel: 0.8,
		Raster: RasterGeometry{
			Lines: 405, ActiveLines: 376, HalfLine: 203,
			FrameRateNum: 25, FrameRateDen: 1,
			ActiveWidthSec: 0.00008030, ActiveLeftSec: 0.00001680,
			Interlaced: true,
		},
		Sync:   SyncGeometry{HSyncWidthSec: 0.00000900, VSyncLongWidthSec: 0.00004000, SyncRiseSec: 0.00000025},
		Levels: Levels{White: 1.00, Black: 0.30, Blanking: 0.30, Sync: 0.00},
		YIQ:    YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114},
		Gamma:  1.0,
		Audio: []AudioSubcarrier{
			{Name: "am_mono", CarrierHz: -3500000, Level: 0.2},
		},
	}
}

func mono405() *Config {
	c := mono405A()
	c.ID = "405"
	c.Description = "No colour, 25 fps, 405 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	c.VideoLevel = 1.0
	c.Audio = nil
	return c
}

// baird30AM is the Baird 30-line mechanical-television standard, 12.5 fps.
func baird30AM() *Config {
	return &Config{
		ID: "30-am", Description: "No colour, 12.5 fps, 30 lines, AM (complex)",
		Output: ComplexIQ, Modulation: Modulation{Kind: ModAM},
		Level: 1.0, VideoLevel: 1.0,
		Raster: RasterGeometry{
			Lines: 30, ActiveLines: 30,
			FrameRateNum: 25, FrameRateDen: 2, // 12.5 Hz
			ActiveWidthSec: 0.002666666, ActiveLeftSec: 0,
			FieldOrderFlip: true,
		},
		Levels: Levels{White: 1.00, Black: 0.00, Blanking: 0.00, Sync: 0.00},
		YIQ:    YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114},
		Gamma:  1.0,
	}
}

func baird30() *Config {
	c := baird30AM()
	c.ID = "30"
	c.Description = "No colour, 12.5 fps, 30 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	c.Levels = Levels{White: 1.00, Black: -1.00, Blanking: -1.00, Sync: -1.00}
	return c
}

func baird240AM() *Config {
	c := baird30AM()
	c.ID = "240-am"
	c.Description = "No colour, 25 fps, 240 lines, AM (complex)"
	c.Raster.Lines = 240
	c.Raster.ActiveLines = 240
	c.Raster.FrameRateNum, c.Raster.FrameRateDen = 25, 1
	c.Raster.ActiveWidthSec = 0.000166666
	return c
}

func baird240() *Config {
	c := baird30()
	c.ID = "240"
	c.Description = "No colour, 25 fps, 240 lines, unmodulated (real)"
	c.Raster.Lines = 240
	c.Raster.ActiveLines = 240
	c.Raster.FrameRateNum, c.Raster.FrameRateDen = 25, 1
	c.Raster.ActiveWidthSec = 0.000166666
	return c
}

// apolloFSCFM is the Apollo Lunar television field-sequential-colour
// standard used on the later Apollo missions.
func apolloFSCFM() *Config {
	return &Config{
		ID: "apollo-fsc-fm", Description: "Field sequential colour, 30/1.001 fps, 525 lines, FM (complex), 1.25 MHz FM audio",
		Output: ComplexIQ, Modulation: Modulation{Kind: ModFM, FMDeviation: 2e6},
		Level: 1.000, VideoLevel: 1.000,
		Raster: ntsc525Raster, Sync: ntsc525Sync,
		Levels:          Levels{White: 0.5000, Black: -0.1475, Blanking: -0.2000, Sync: -0.5000},
		ColourMode:      ColourApolloFSC,
		FSCFlagWidthSec: 0.00002000, FSCFlagLeftSec: 0.00001470, FSCFlagLevel: 0.5000,
		YIQ:   YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114},
		Gamma: 1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 1250000, 0.150, 25000, PreemphNone),
		},
	}
}

func apolloFSC() *Config {
	c := apolloFSCFM()
	c.ID = "apollo-fsc"
	c.Description = "Field sequential colour, 30/1.001 fps, 525 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	c.Audio = nil
	return c
}

// cbs405M is System M CBS 405-line field-sequential colour (the competing
// US colour standard CBS fielded in 1950-53), 72 fps.
func cbs405M() *Config {
	return &Config{
		ID: "m-cbs405", Description: "Field sequential colour, 72 fps, 405 lines, VSB (complex), 4.5MHz FM audio",
		Output: ComplexIQ, Modulation: Modulation{Kind: ModVSB, VSBUpperBW: 4200000, VSBLowerBW: 750000},
		Level: 1.0, VideoLevel: 0.77,
		Raster: RasterGeometry{
			Lines: 405, ActiveLines: 376, HalfLine: 203,
			FrameRateNum: 72, FrameRateDen: 1,
			ActiveWidthSec: 0.00002812, ActiveLeftSec: 0.00000480,
			Interlaced: true,
		},
		Sync: SyncGeometry{
			HSyncWidthSec: 0.000002743, VSyncShortWidthSec: 0.000001372,
			VSyncLongWidthSec: 0.000014746,
		},
		Levels:          Levels{White: 0.159, Black: 0.595, Blanking: 0.595, Sync: 1.000},
		ColourMode:      ColourCBSFSC,
		FSCFlagWidthSec: 0.000001372, FSCFlagLeftSec: 0.000008573, FSCFlagLevel: 1.000,
		YIQ:   YIQCoefficients{RW: 0.299, GW: 0.587, BW: 0.114},
		Gamma: 1.0,
		Audio: []AudioSubcarrier{
			fmMonoSubcarrier("fm_mono", 4500000, 0.15, 25000, Preemph75us),
		},
	}
}

func cbs405() *Config {
	c := cbs405M()
	c.ID = "cbs405"
	c.Description = "Field sequential colour, 72 fps, 405 lines, unmodulated (real)"
	c.Output = RealBaseband
	c.Modulation = Modulation{Kind: ModNone}
	c.Levels = Levels{White: 0.70, Black: 0.00, Blanking: 0.00, Sync: -0.30}
	c.FSCFlagLevel = -0.30
	c.Audio = nil
	return c
}

// Table maps a mode id to its Config.
type Table struct {
	byID map[string]*Config
}

// NewTable builds the bundled Table of every Config this module ships.
func NewTable() *Table {
	configs := []*Config{
		palI(), palBG(), palDK(), palFM(), pal(), palM(), palN(),
		ntscM(), ntscI(), ntscJ(),
		secamDK(), secamI(), secamFM(), secam(),
		d2macAM(), d2macFM(), d2mac(), dmacAM(), dmacFM(), dmac(),
		mono819E(), mono819(), mono405A(), mono405(),
		baird30AM(), baird30(), baird240AM(), baird240(),
		apolloFSCFM(), apolloFSC(), cbs405M(), cbs405(),
	}
	t := &Table{byID: make(map[string]*Config, len(configs))}
	for _, c := range configs {
		t.byID[c.ID] = c
	}
	return t
}

// Lookup returns the bundled Config for id, wrapping hacktv.ErrModeUnknown
// if no such id is registered.
func (t *Table) Lookup(id string) (*Config, error) {
	c, ok := t.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", hacktv.ErrModeUnknown, id)
	}
	return c, nil
}

// IDs returns every registered mode id, for CLI help text.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	return ids
}

/*
NAME
  config.go

DESCRIPTION
  config.go defines Config, the flat CLI-facing settings struct cmd/hacktv
  builds from flags, modelled on revid/config.Config: typed enums for
  input/output selection, a Validate method, and a bundled Logger.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the flat, CLI-facing settings hacktv's entry point
// builds from flags: input/output selection and the mode.Config lookup
// that picks the broadcast standard to synthesise, mirroring the shape
// (if not the breadth) of revid/config.Config.
package config

import (
	"fmt"

	hacktv "github.com/hacktv/hacktv"
	"github.com/ausocean/utils/logging"
)

// Input selects the AV source kind.
type Input int

const (
	InputNone Input = iota
	InputTest
	InputFile
	InputWAV
	InputALSA
)

// Output selects the radio-sink kind.
type Output int

const (
	OutputNone Output = iota
	OutputFile
	OutputStdout
)

// Config is the flat settings set cmd/hacktv assembles from flags and
// passes to the pipeline. Validate does not construct a default Logger;
// cmd/hacktv sets one before running so every component it wires up logs
// somewhere.
type Config struct {
	ModeID string // mode.Table key, e.g. "pal-d", "d2mac-am".

	Input     Input
	InputPath string // file/WAV path; unused for InputTest/InputALSA.

	InputWidth, InputHeight int // InputFile frame geometry.
	TestMaxFrames           int // InputTest EOF after this many frames, 0 = unlimited.

	Output     Output
	OutputPath string // file path; ignored for OutputStdout.

	PixelRate  uint64
	SampleRate uint64
	RingSize   int
	Compact    bool // use levels' compact split RGB->YIQ table.

	AMCarrierHz  float64
	FreqOffsetHz float64
	SwapIQ       bool

	// Verbosity is one of the logging package's level constants
	// (logging.Debug, .Info, .Warning, .Error, .Fatal), mirroring
	// revid/config.Config.LogLevel's int8 representation.
	Verbosity int8
	Logger    logging.Logger
}

// Validate checks Config for internal consistency, filling in the
// defaults (sample rate 48000, ring size 8) a caller left unset. Logger
// is the caller's responsibility to set; NewEngine and levels.NewTables
// accept a nil Logger and log nothing, but FileSource, ALSASource and
// sink.FileSink call theirs without a nil check.
func (c *Config) Validate() error {
	if c.ModeID == "" {
		return hacktv.Wrap(hacktv.ErrConfigInvalid, fmt.Errorf("mode id is required"))
	}
	if c.Input == InputNone {
		return hacktv.Wrap(hacktv.ErrConfigInvalid, fmt.Errorf("an input must be selected"))
	}
	if (c.Input == InputFile) && (c.InputWidth <= 0 || c.InputHeight <= 0) {
		return hacktv.Wrap(hacktv.ErrConfigInvalid, fmt.Errorf("file input requires width and height"))
	}
	if (c.Input == InputFile || c.Input == InputWAV) && c.InputPath == "" {
		return hacktv.Wrap(hacktv.ErrConfigInvalid, fmt.Errorf("input path is required for this input kind"))
	}
	if c.Output == OutputFile && c.OutputPath == "" {
		return hacktv.Wrap(hacktv.ErrConfigInvalid, fmt.Errorf("output path is required for file output"))
	}
	if c.PixelRate == 0 {
		return hacktv.Wrap(hacktv.ErrConfigInvalid, fmt.Errorf("pixel rate must be nonzero"))
	}
	if c.SampleRate == 0 {
		c.SampleRate = 48000
	}
	if c.RingSize <= 0 {
		c.RingSize = 8
	}
	return nil
}

/*
NAME
  pipeline.go

DESCRIPTION
  pipeline.go is the line-processor engine of spec.md §4.9: it owns the
  output-line ring, pulls frames and audio from an avsrc.Source, drives
  an ordered list of Processors once per next_line() call, and returns
  the fully rendered line.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline wires the mode/levels/raster/vbi/scramble/mac/audio/
// dsp/ifmod packages together into the sample-accurate line-at-a-time
// engine of spec.md §4.9: register a Processor chain, then call
// NextLine repeatedly until it reports EOF.
package pipeline

import (
	"fmt"

	hacktv "github.com/hacktv/hacktv"
	"github.com/hacktv/hacktv/avsrc"
	"github.com/hacktv/hacktv/levels"
	"github.com/hacktv/hacktv/line"
	"github.com/hacktv/hacktv/mode"
	"github.com/hacktv/hacktv/raster"

	"github.com/ausocean/utils/logging"
)

// Processor is one stage of the line pipeline: spec.md §9's "tagged
// variant with a single process capability" rendered as a Go interface,
// since Go has no function-pointer vtables to dispatch through. A
// Processor sees the whole Engine (not just the ring) because several
// stages — the raster generator picking a source row, the scrambler
// reaching back across frame boundaries, the VBI inserters gating on
// field/line number — need more context than the ring alone carries.
type Processor interface {
	// Process renders into, or transforms, e.Ring.Head() (the line
	// currently being produced) for the engine's current (frameNo,
	// lineNo).
	Process(e *Engine) error

	// Name identifies the processor for diagnostics.
	Name() string
}

// passthroughProcessor is a degenerate processor that does nothing.
// NewEngine does not register it; the package tests register it to run
// the engine through a stage that leaves lines untouched, mirroring
// filter.NoOp's shape in the teacher's pipeline (see DESIGN.md,
// "Kept-and-adapted teacher packages").
type passthroughProcessor struct{ name string }

func (p passthroughProcessor) Process(*Engine) error { return nil }
func (p passthroughProcessor) Name() string          { return p.name }

// Engine owns the output-line ring and the registered Processor chain
// for one run, per spec.md §4.9.
type Engine struct {
	log    logging.Logger
	cfg    *mode.Config
	tables *levels.Tables
	gen    *raster.Generator
	src    avsrc.Source

	Ring *line.Ring

	width      int
	pixelRate  uint64
	sampleRate uint64

	activeLeft  int
	activeWidth int

	processors []Processor

	frameNo int
	lineNo  int // 1-based; 0 before the first line is produced
	frame   avsrc.Frame
	haveFrame bool
	eof     bool
}

// NewEngine builds an Engine for cfg at the given sample/pixel rates,
// reading from src. ringSize must be at least as large as the greatest
// delay any processor Register'd afterwards will need (spec.md §4.9's
// per-processor nlines declaration, checked by the caller before
// registration since Go has no reflection-free way to ask a Processor
// its own delay).
func NewEngine(log logging.Logger, cfg *mode.Config, src avsrc.Source, pixelRate, sampleRate uint64, ringSize int, compactLevels bool) (*Engine, error) {
	tables, err := levels.NewTables(log, cfg, sampleRate, pixelRate, compactLevels)
	if err != nil {
		return nil, hacktv.Wrap(hacktv.ErrConfigInvalid, err)
	}
	width, exact := cfg.LineWidth(pixelRate)
	if !exact && log != nil {
		log.Warning("pixel rate does not divide line rate exactly", "pixel_rate", pixelRate)
	}
	if ringSize < 1 {
		ringSize = 1
	}
	ring, err := line.NewRing(ringSize, width)
	if err != nil {
		return nil, hacktv.Wrap(hacktv.ErrConfigInvalid, err)
	}

	activeLeft := int(cfg.Raster.ActiveLeftSec * float64(pixelRate))
	activeWidth := int(cfg.Raster.ActiveWidthSec * float64(pixelRate))

	e := &Engine{
		log:         log,
		cfg:         cfg,
		tables:      tables,
		gen:         raster.NewGenerator(cfg, tables, width),
		src:         src,
		Ring:        ring,
		width:       width,
		pixelRate:   pixelRate,
		sampleRate:  sampleRate,
		activeLeft:  activeLeft,
		activeWidth: activeWidth,
	}
	return e, nil
}

// Register appends p to the processor chain, run in registration order
// per line (spec.md §4.9 step 2).
func (e *Engine) Register(p Processor) { e.processors = append(e.processors, p) }

// Config returns the Engine's mode.Config.
func (e *Engine) Config() *mode.Config { return e.cfg }

// Tables returns the Engine's derived levels.Tables.
func (e *Engine) Tables() *levels.Tables { return e.tables }

// Raster returns the Engine's raster.Generator.
func (e *Engine) Raster() *raster.Generator { return e.gen }

// Width returns the configured line width in samples.
func (e *Engine) Width() int { return e.width }

// PixelRate returns the configured output sample rate.
func (e *Engine) PixelRate() uint64 { return e.pixelRate }

// SampleRate returns the configured audio reference comparison rate
// (the rate the AV source's audio is ultimately read at before any
// mixer-side resampling).
func (e *Engine) SampleRate() uint64 { return e.sampleRate }

// ActiveWindow returns the active-picture left offset and width, in
// samples, at the engine's pixel rate.
func (e *Engine) ActiveWindow() (left, width int) { return e.activeLeft, e.activeWidth }

// FrameNo returns the current 0-based frame counter.
func (e *Engine) FrameNo() int { return e.frameNo }

// LineNo returns the current 1-based line number within the frame.
func (e *Engine) LineNo() int { return e.lineNo }

// Frame returns the most recently pulled AV source frame, valid only
// for the lifetime of the frame it belongs to (spec.md §5's borrowed-
// pointer rule).
func (e *Engine) Frame() *avsrc.Frame { return &e.frame }

// ActiveRow returns the source frame row to composite for the engine's
// current line, and whether the current line is in the active picture
// area at all.
func (e *Engine) ActiveRow() (row []uint32, ok bool) {
	idx := e.gen.ActiveLineIndex(e.lineNo)
	if idx < 0 || !e.haveFrame || e.frame.Height == 0 {
		return nil, false
	}
	srcY := idx * e.frame.Height / e.cfg.Raster.ActiveLines
	if srcY >= e.frame.Height {
		srcY = e.frame.Height - 1
	}
	out := make([]uint32, e.frame.Width)
	for x := 0; x < e.frame.Width; x++ {
		out[x] = e.frame.At(x, srcY)
	}
	return out, true
}

// NextLine advances the pipeline by one line, per spec.md §4.9: it
// pulls a new frame when due, runs every registered processor in order,
// and returns the produced line. It returns (nil, nil) on clean EOF and
// (nil, err) on a read or configuration error, spec.md §7's "null
// pointer on EOF, null with error code" rendered as a Go error.
func (e *Engine) NextLine() (*line.Line, error) {
	if e.eof {
		return nil, nil
	}

	if e.lineNo == 0 || e.lineNo >= e.cfg.Raster.Lines {
		if err := e.pullFrame(); err != nil {
			if err == avsrc.ErrEOF {
				e.eof = true
				return nil, nil
			}
			return nil, hacktv.Wrap(hacktv.ErrSourceReadFailed, err)
		}
		e.lineNo = 0
		e.frameNo++
	}
	e.lineNo++

	l := e.Ring.Advance()
	l.Reset(e.frameNo, e.lineNo, e.width)

	for _, p := range e.processors {
		if err := p.Process(e); err != nil {
			return nil, fmt.Errorf("pipeline: processor %q: %w", p.Name(), err)
		}
	}

	return l, nil
}

// ReadAudio reads up to len(buf) audio samples from the underlying
// avsrc.Source, for an AudioProcessor's use.
func (e *Engine) ReadAudio(buf []int16) (int, error) {
	return e.src.ReadAudio(buf)
}

func (e *Engine) pullFrame() error {
	err := avsrc.ReadFullVideo(e.src, &e.frame)
	if err != nil {
		e.haveFrame = false
		return err
	}
	e.haveFrame = true
	return nil
}

/*
NAME
  test.go

DESCRIPTION
  test.go provides a synthetic AV source generating the "test:" family of
  patterns (colour bars, a grey ramp, and a flat mono field) used by the
  testable-property scenarios in spec.md §8.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsrc

import (
	"fmt"
	"sync"

	"github.com/ausocean/utils/logging"
)

// Standard 100% EBU colour bars, left to right.
var colourBars = []uint32{
	0xFFFFFF, // white
	0xFFFF00, // yellow
	0x00FFFF, // cyan
	0x00FF00, // green
	0xFF00FF, // magenta
	0xFF0000, // red
	0x0000FF, // blue
}

// Pattern selects which test pattern TestSource generates.
type Pattern int

const (
	// ColourBars renders vertical 100% colour bars.
	ColourBars Pattern = iota
	// GreyRamp renders a 0%-100% horizontal grey ramp.
	GreyRamp
	// Mono renders a flat field at a fixed luminance.
	Mono
)

// TestSource is a synthetic AVDevice-shaped source producing a fixed
// pattern at a configured raster size and running indefinitely until
// Stop/Close, mirroring device/file.go's lifecycle shape.
type TestSource struct {
	mu        sync.Mutex
	log       logging.Logger
	width     int
	height    int
	pattern   Pattern
	frameNo   int
	maxFrames int // 0 means unlimited.
	running   bool
	closed    bool
	silent    bool // if true, ReadAudio always yields silence.
}

// NewTestSource returns a TestSource rendering pattern at width x height.
// maxFrames limits the number of frames produced before EOF; 0 means the
// source never ends on its own.
func NewTestSource(l logging.Logger, pattern Pattern, width, height, maxFrames int) *TestSource {
	return &TestSource{
		log:       l,
		width:     width,
		height:    height,
		pattern:   pattern,
		maxFrames: maxFrames,
		silent:    true,
	}
}

// Name returns the name of the device.
func (s *TestSource) Name() string { return fmt.Sprintf("test:%s", patternName(s.pattern)) }

func patternName(p Pattern) string {
	switch p {
	case ColourBars:
		return "colourbars"
	case GreyRamp:
		return "greyramp"
	case Mono:
		return "mono"
	default:
		return "unknown"
	}
}

// Start marks the source as running.
func (s *TestSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	return nil
}

// Stop marks the source as stopped. ReadVideo does not check this flag:
// only Close or reaching maxFrames ends the stream.
func (s *TestSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

// Close ends the stream: afterwards EOF reports true and ReadVideo
// returns ErrEOF. TestSource holds no external resources to release.
func (s *TestSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// EOF reports whether the source has produced maxFrames frames already.
func (s *TestSource) EOF() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || (s.maxFrames > 0 && s.frameNo >= s.maxFrames)
}

// ReadVideo renders the next synthetic frame into f.
func (s *TestSource) ReadVideo(f *Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || (s.maxFrames > 0 && s.frameNo >= s.maxFrames) {
		return ErrEOF
	}

	if cap(f.Pix) < s.width*s.height {
		f.Pix = make([]uint32, s.width*s.height)
	} else {
		f.Pix = f.Pix[:s.width*s.height]
	}
	f.Width, f.Height = s.width, s.height
	f.PixStride, f.LineStride = 1, s.width
	f.PARNum, f.PARDen = 1, 1
	f.Interlace = None

	switch s.pattern {
	case ColourBars:
		renderColourBars(f)
	case GreyRamp:
		renderGreyRamp(f)
	case Mono:
		renderMono(f, 0xBF0000) // 75% red, as used by spec.md Scenario D.
	default:
		panic("avsrc: unhandled test pattern")
	}

	s.frameNo++
	return nil
}

func renderColourBars(f *Frame) {
	n := len(colourBars)
	barWidth := f.Width / n
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			bar := x / barWidth
			if bar >= n {
				bar = n - 1
			}
			f.Pix[y*f.LineStride+x*f.PixStride] = colourBars[bar]
		}
	}
}

func renderGreyRamp(f *Frame) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := uint32(x * 255 / maxInt(f.Width-1, 1))
			f.Pix[y*f.LineStride+x*f.PixStride] = v<<16 | v<<8 | v
		}
	}
}

func renderMono(f *Frame, rgb uint32) {
	for i := range f.Pix {
		f.Pix[i] = rgb
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ReadAudio yields silence unless overridden; TestSource has no intrinsic
// audio track.
func (s *TestSource) ReadAudio(buf []int16) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf), nil
}

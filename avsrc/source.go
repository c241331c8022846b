/*
NAME
  source.go

DESCRIPTION
  source.go defines the AV source contract consumed by the line pipeline:
  a collaborator that yields decoded video frames and reference-rate audio
  blocks on demand. Real demuxing/decoding (ffmpeg, camera drivers, codecs)
  is out of scope here; a Source only ever hands back already-decoded data.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package avsrc provides the AV source interface consumed by the hacktv
// line pipeline, and a handful of reference implementations (a synthetic
// test-pattern generator, a raw-frame file reader, a WAV audio reader and
// an optional live ALSA microphone input) sufficient to exercise it.
package avsrc

import (
	"errors"
	"io"
)

// Interlace describes the field order of a Frame.
type Interlace int

const (
	// None indicates the frame is progressive.
	None Interlace = iota
	// TopFirst indicates the top field is presented first.
	TopFirst
	// BottomFirst indicates the bottom field is presented first.
	BottomFirst
)

// Frame is a single decoded video frame, handed to the pipeline as a
// borrowed reference valid only until the next ReadVideo call.
type Frame struct {
	Width, Height int
	// Pix holds 0xAARRGGBB pixels (alpha ignored), Width*Height long when
	// PixStride == 1 and LineStride == Width.
	Pix                  []uint32
	PixStride, LineStride int
	PARNum, PARDen       int
	Interlace            Interlace
	// CC608 holds up to two bytes of CEA-608 closed-caption data for this
	// frame, or is nil/empty if none is present.
	CC608 []byte
}

// At returns the pixel at (x, y), honouring PixStride/LineStride.
func (f *Frame) At(x, y int) uint32 {
	return f.Pix[y*f.LineStride+x*f.PixStride]
}

// ErrEOF is returned by ReadVideo/ReadAudio when the source is exhausted.
var ErrEOF = errors.New("avsrc: end of input")

// Source is the AV source collaborator of spec.md §6: a configurable
// producer of decoded video frames and PCM audio blocks.
type Source interface {
	// ReadVideo fetches the next decoded frame into f. Returns ErrEOF (or
	// a wrapped io.EOF) when no more frames are available.
	ReadVideo(f *Frame) error

	// ReadAudio fetches up to len(buf) interleaved int16 stereo samples,
	// returning the number of samples (not bytes) written. A short read
	// that is not EOF is not an error: the caller treats it as underrun
	// and fills the remainder with silence.
	ReadAudio(buf []int16) (int, error)

	// EOF reports whether the source is known to be exhausted.
	EOF() bool

	// Close releases any resources held by the source.
	Close() error
}

// ReadFullVideo is a convenience that maps io.EOF onto ErrEOF so that
// callers only need to check one sentinel.
func ReadFullVideo(s Source, f *Frame) error {
	err := s.ReadVideo(f)
	if err == io.EOF {
		return ErrEOF
	}
	return err
}

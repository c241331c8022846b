/*
NAME
  wav.go

DESCRIPTION
  wav.go provides a Source whose audio arm is read from a WAV file, used
  both as a practical way to dub pre-recorded commentary over a silent
  video file and as the fixture loader for the NICAM testable property of
  spec.md §8 (a 1 kHz full-scale sine test tone).

AUTHORS
  David Sutton <davidsutton@ausocean.org>

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
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVSource decodes a WAV file's audio and hands it to ReadAudio callers
// as interleaved stereo int16, mono input being duplicated to both
// channels. Its ReadVideo is always ErrEOF: pair it with a TestSource or
// FileSource for a video track.
type WAVSource struct {
	mu      sync.Mutex
	path    string
	f       *os.File
	dec     *wav.Decoder
	chanIn  int
	samples []int16 // decoded mono/stereo samples not yet consumed.
	eof     bool
}

// NewWAVSource returns a WAVSource that will decode path once Start is
// called.
func NewWAVSource(path string) *WAVSource {
	return &WAVSource{path: path}
}

// Name returns the name of the source.
func (w *WAVSource) Name() string { return "WAV" }

// Start opens and validates the WAV file.
func (w *WAVSource) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("could not open wav file: %w", err)
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return fmt.Errorf("%s is not a valid wav file", w.path)
	}
	w.f = f
	w.dec = dec
	w.chanIn = int(dec.NumChans)
	return nil
}

// Stop closes the WAV file.
func (w *WAVSource) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// Close is an alias for Stop.
func (w *WAVSource) Close() error { return w.Stop() }

// EOF reports whether the decoder has consumed the whole file.
func (w *WAVSource) EOF() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.eof && len(w.samples) == 0
}

// ReadVideo always returns ErrEOF; WAVSource is an audio-only collaborator.
func (w *WAVSource) ReadVideo(f *Frame) error { return ErrEOF }

// ReadAudio decodes more of the WAV file as needed and fills buf with
// interleaved stereo int16 samples, duplicating a mono source to both
// channels. Once the file is exhausted, a read that cannot fill buf
// returns the samples still available together with ErrEOF.
func (w *WAVSource) ReadAudio(buf []int16) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := len(buf)
	for len(w.samples) < want && !w.eof {
		ib := &audio.IntBuffer{
			Format: &audio.Format{NumChannels: w.chanIn, SampleRate: int(w.dec.SampleRate)},
			Data:   make([]int, 4096*w.chanIn),
		}
		n, err := w.dec.PCMBuffer(ib)
		if n > 0 {
			w.appendSamples(ib.Data[:n])
		}
		if err != nil || n == 0 {
			w.eof = true
			break
		}
	}

	n := copy(buf, w.samples)
	w.samples = w.samples[n:]
	if n < want && w.eof {
		return n, ErrEOF
	}
	return n, nil
}

// appendSamples converts decoded int PCM samples (at the file's own
// channel count) into interleaved stereo int16.
func (w *WAVSource) appendSamples(data []int) {
	if w.chanIn == 2 {
		for _, v := range data {
			w.samples = append(w.samples, int16(v))
		}
		return
	}
	// Mono (or anything else): duplicate the first channel to stereo.
	for i := 0; i < len(data); i += w.chanIn {
		s := int16(data[i])
		w.samples = append(w.samples, s, s)
	}
}

/*
NAME
  file.go

DESCRIPTION
  file.go provides a Source implementation that reads raw, already-decoded
  32-bit RGBx frames of a fixed size from a file or pipe, optionally looping.

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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ausocean/utils/logging"
)

// FileSource reads a sequence of fixed-size raw RGBx frames from a file,
// one per ReadVideo call, mirroring device/file.go's Start/Stop/Read
// lifecycle but re-targeted at the frame-pull Source contract instead of
// a raw io.Reader byte stream.
type FileSource struct {
	mu     sync.Mutex
	log    logging.Logger
	path   string
	width  int
	height int
	loop   bool
	f      *os.File
}

// NewFileSource returns a FileSource that will read width x height RGBx
// frames from path once Start is called.
func NewFileSource(l logging.Logger, path string, width, height int, loop bool) *FileSource {
	return &FileSource{log: l, path: path, width: width, height: height, loop: loop}
}

// Name returns the name of the device.
func (m *FileSource) Name() string { return "File" }

// Start opens the backing file.
func (m *FileSource) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	m.f, err = os.Open(m.path)
	if err != nil {
		return fmt.Errorf("could not open media file: %w", err)
	}
	return nil
}

// Stop closes the backing file.
func (m *FileSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil
	}
	err := m.f.Close()
	m.f = nil
	return err
}

// Close is an alias for Stop, satisfying Source.
func (m *FileSource) Close() error { return m.Stop() }

// EOF reports whether the file has been closed (we don't distinguish a
// not-yet-started source from an exhausted one; ReadVideo is authoritative).
func (m *FileSource) EOF() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f == nil
}

// ReadVideo reads the next raw frame, looping from the start of the file
// if m.loop is set.
func (m *FileSource) ReadVideo(fr *Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.f == nil {
		return ErrEOF
	}

	n := m.width * m.height
	if cap(fr.Pix) < n {
		fr.Pix = make([]uint32, n)
	} else {
		fr.Pix = fr.Pix[:n]
	}

	buf := make([]byte, n*4)
	_, err := io.ReadFull(m.f, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		if !m.loop {
			return ErrEOF
		}
		m.log.Info("looping input file")
		if _, err := m.f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("could not seek to start of file for input loop: %w", err)
		}
		if _, err := io.ReadFull(m.f, buf); err != nil {
			return fmt.Errorf("could not read after start seek: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("could not read frame: %w", err)
	}

	for i := 0; i < n; i++ {
		fr.Pix[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	fr.Width, fr.Height = m.width, m.height
	fr.PixStride, fr.LineStride = 1, m.width
	fr.PARNum, fr.PARDen = 1, 1
	fr.Interlace = None
	return nil
}

// ReadAudio yields silence; FileSource carries no audio track of its own
// (pair it with WAVSource or ALSASource for dubbed audio).
func (m *FileSource) ReadAudio(buf []int16) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf), nil
}

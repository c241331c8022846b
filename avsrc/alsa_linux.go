//go:build linux

/*
NAME
  alsa_linux.go

DESCRIPTION
  alsa_linux.go provides a live microphone audio arm for a Source, used to
  dub commentary audio over a file's video in real time. Linux-only, as
  the underlying ALSA binding requires it.

AUTHORS
  Alan Noble <alan@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package avsrc

import (
	"errors"
	"fmt"
	"sync"
	"time"

	yalsa "github.com/yobert/alsa"

	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
)

const (
	rbLen          = 200
	rbNextTimeout  = 2 * time.Second
	alsaBufSeconds = 10
	alsaDefaultHz  = 48000
)

// ALSASource captures from the default (or named) ALSA recording device
// and serves it through ReadAudio, carrying no video of its own.
type ALSASource struct {
	mu      sync.Mutex
	log     logging.Logger
	title   string
	rate    uint
	dev     *yalsa.Device
	buf     *pool.Buffer
	running bool
	closed  bool
}

// NewALSASource returns an ALSASource that will record at rate Hz (48000
// if zero) from the named device, or the first recording device found if
// title is empty.
func NewALSASource(l logging.Logger, title string, rate uint) *ALSASource {
	if rate == 0 {
		rate = alsaDefaultHz
	}
	return &ALSASource{log: l, title: title, rate: rate}
}

// Name returns the name of the source.
func (a *ALSASource) Name() string { return "ALSA" }

// Start opens the ALSA device, negotiates stereo capture at the
// configured rate, and spawns the capture loop.
func (a *ALSASource) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.open(); err != nil {
		return fmt.Errorf("failed to open ALSA device: %w", err)
	}
	a.buf = pool.NewBuffer(rbLen, int(a.rate)*2*2*alsaBufSeconds/rbLen, 2*time.Second)
	a.running = true
	go a.capture()
	return nil
}

// Stop halts capture and closes the device.
func (a *ALSASource) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = false
	if a.dev != nil {
		a.dev.Close()
		a.dev = nil
	}
	if a.buf != nil {
		a.buf.Close()
	}
	return nil
}

// Close is an alias for Stop.
func (a *ALSASource) Close() error { return a.Stop() }

// EOF reports whether the source has been stopped.
func (a *ALSASource) EOF() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed || !a.running
}

// ReadVideo always returns ErrEOF; ALSASource is audio-only.
func (a *ALSASource) ReadVideo(f *Frame) error { return ErrEOF }

// ReadAudio drains the capture ring buffer into buf.
func (a *ALSASource) ReadAudio(buf []int16) (int, error) {
	chunk, err := a.buf.Next(rbNextTimeout)
	if err != nil {
		if errors.Is(err, pool.ErrTimeout) {
			for i := range buf {
				buf[i] = 0
			}
			return len(buf), nil
		}
		return 0, err
	}
	defer chunk.Close()

	b := chunk.Bytes()
	n := 0
	for i := 0; i+1 < len(b) && n < len(buf); i += 2 {
		buf[n] = int16(uint16(b[i]) | uint16(b[i+1])<<8)
		n++
	}
	return n, nil
}

// open negotiates the ALSA device for stereo 16-bit capture near a.rate,
// grounded on device/alsa.go's open(), trimmed of the multi-rate/
// multi-bitdepth/multi-codec negotiation this source doesn't need.
func (a *ALSASource) open() error {
	cards, err := yalsa.OpenCards()
	if err != nil {
		return err
	}
	defer yalsa.CloseCards(cards)

	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, dev := range devices {
			if dev.Type != yalsa.PCM || !dev.Record {
				continue
			}
			if dev.Title == a.title || a.title == "" {
				a.dev = dev
				break
			}
		}
		if a.dev != nil {
			break
		}
	}
	if a.dev == nil {
		return errors.New("no ALSA recording device found")
	}

	if err := a.dev.Open(); err != nil {
		return err
	}
	if _, err := a.dev.NegotiateChannels(2); err != nil {
		return fmt.Errorf("device cannot record in stereo: %w", err)
	}
	if _, err := a.dev.NegotiateRate(int(a.rate)); err != nil {
		return fmt.Errorf("device cannot record at %d Hz: %w", a.rate, err)
	}
	if _, err := a.dev.NegotiateFormat(yalsa.S16_LE); err != nil {
		return fmt.Errorf("device cannot record S16_LE: %w", err)
	}
	periodSize, err := a.dev.NegotiatePeriodSize(int(float64(a.rate) * 2 * 2 * 0.05))
	if err != nil {
		return err
	}
	if _, err := a.dev.NegotiateBufferSize(periodSize * 4); err != nil {
		return err
	}
	return a.dev.Prepare()
}

// capture continuously reads from the ALSA device into the ring buffer
// until Stop is called.
func (a *ALSASource) capture() {
	buf := a.dev.NewBufferDuration(time.Second)
	for {
		a.mu.Lock()
		running := a.running
		dev := a.dev
		b := a.buf
		a.mu.Unlock()
		if !running || dev == nil {
			return
		}

		if err := dev.Read(buf.Data); err != nil {
			a.log.Warning("alsa read failed", "error", err.Error())
			continue
		}
		if _, err := b.Write(buf.Data); err != nil && !errors.Is(err, pool.ErrDropped) {
			a.log.Error("unexpected ring buffer error", "error", err.Error())
		}
	}
}

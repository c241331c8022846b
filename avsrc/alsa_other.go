//go:build !linux

/*
NAME
  alsa_other.go

AUTHORS
  Alan Noble <alan@ausocean.org>

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

	"github.com/ausocean/utils/logging"
)

// ALSASource is unavailable outside Linux; NewALSASource still returns a
// value so callers don't need build tags of their own. Start fails; the
// other methods report an exhausted source (EOF true, ReadVideo ErrEOF,
// ReadAudio silence).
type ALSASource struct{}

// NewALSASource returns an ALSASource stub that errors on Start.
func NewALSASource(l logging.Logger, title string, rate uint) *ALSASource { return &ALSASource{} }

func (a *ALSASource) Name() string                     { return "ALSA" }
func (a *ALSASource) Start() error                     { return errors.New("ALSA input not implemented on this platform") }
func (a *ALSASource) Stop() error                      { return nil }
func (a *ALSASource) Close() error                     { return nil }
func (a *ALSASource) EOF() bool                        { return true }
func (a *ALSASource) ReadVideo(f *Frame) error         { return ErrEOF }
func (a *ALSASource) ReadAudio(buf []int16) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf), nil
}

/*
NAME
  eurocrypt.go

DESCRIPTION
  eurocrypt.go carries the Eurocrypt-over-MAC entitlement envelope of
  spec.md §4.4/§4.6: the EMM/ECM packet shapes a receiver needs to
  acquire its control word, without implementing the entitlement
  cryptography itself (spec.md's Non-goals exclude conditional-access key
  management). The keystream and line-rotation scramblers the control
  word drives are prbs3.go's CAKeystream and VSAM.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mac

import "github.com/hacktv/hacktv/mode"

// ControlWord is the 60-bit (here widened to 64) scrambling key Eurocrypt
// periodically rotates. Its derivation from an entitlement management
// message is outside this module's scope; a fixed or externally supplied
// ControlWord is sufficient to drive the PRBS schedule.
type ControlWord uint64

// EMMPacket is the entitlement management message envelope: just the
// channel identity and opaque payload bytes a real conditional-access
// system would populate with its own encrypted entitlement data.
type EMMPacket struct {
	ChannelID uint16
	Payload   [91]byte
}

// ECMPacket is the entitlement control message envelope carrying the
// (opaque) encrypted control word alongside the frame counter it applies
// from.
type ECMPacket struct {
	ChannelID  uint16
	FrameCount uint8
	Payload    [91]byte
}

// Eurocrypt bundles a channel's service configuration with the control
// word currently in force, the state a CAKeystream is reseeded from on
// each rotation.
type Eurocrypt struct {
	cfg mode.EurocryptConfig
	cw  ControlWord
}

// NewEurocrypt returns a Eurocrypt envelope for the given service
// configuration and initial control word.
func NewEurocrypt(cfg mode.EurocryptConfig, cw ControlWord) *Eurocrypt {
	return &Eurocrypt{cfg: cfg, cw: cw}
}

// SetControlWord rotates the active control word, as a real system would
// on decoding a fresh ECMPacket.
func (e *Eurocrypt) SetControlWord(cw ControlWord) { e.cw = cw }

/*
NAME
  mux.go

DESCRIPTION
  mux.go implements the MAC packet multiplex of spec.md §4.6: the
  751-bit Packet shape, a Multiplexer that round-robins registered data
  group channels into the packet slots a line budget allows, and the
  service-information packet builders (DG0, DG3, UDT).

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

import "github.com/pkg/errors"

// Packet is one 751-bit MAC data packet: a continuity index, a 10-bit
// address, and a 91-byte (728-bit) payload protected by the address's
// parity/Hamming framing (spec.md §4.6's sui generis multiplex format).
type Packet struct {
	ContinuityIndex byte
	Address         uint16 // 0-1023, 10 bits
	Data            [91]byte
	Scramble        bool // true if this packet's payload should be passed through ScramblePacket
}

// maxAddress is the largest representable 10-bit packet address.
const maxAddress = 0x3FF

// Multiplexer round-robins registered data-group channels into the
// packet slots a line budget allows, the teacher's revid/pipeline.go
// "build a stage chain off validated config, in order" shape applied to
// channel scheduling instead of processor wiring.
type Multiplexer struct {
	channels []channel
	next     int
}

type channel struct {
	address  uint16
	packets  [][91]byte
	pos      int
	ci       byte
	scramble bool
}

// Register adds a channel carrying the given packets in a repeating
// cycle at the given address, scrambled if scramble is set (service
// information such as DG0 is always carried in the clear so a receiver
// can acquire the channel before it has a control word). It rejects an
// out-of-range address or an empty packet cycle the way container/mts's
// PAT/PMT readers reject a malformed table, wrapping the underlying
// cause with the call that surfaced it.
func (m *Multiplexer) Register(address uint16, packets [][91]byte, scramble bool) error {
	if address > maxAddress {
		return errors.Wrapf(errInvalidAddress, "address %d", address)
	}
	if len(packets) == 0 {
		return errors.Wrap(errEmptyChannel, "register")
	}
	m.channels = append(m.channels, channel{address: address, packets: packets, scramble: scramble})
	return nil
}

var (
	errInvalidAddress = errors.New("packet address exceeds 10 bits")
	errEmptyChannel   = errors.New("channel has no packets to cycle")
)

// Next returns the next packet to transmit, round-robin across
// registered channels.
func (m *Multiplexer) Next() Packet {
	if len(m.channels) == 0 {
		return Packet{}
	}
	c := &m.channels[m.next]
	m.next = (m.next + 1) % len(m.channels)
	p := Packet{ContinuityIndex: c.ci, Address: c.address, Data: c.packets[c.pos], Scramble: c.scramble}
	c.ci++
	c.pos = (c.pos + 1) % len(c.packets)
	return p
}

// DG0 builds the data group 0 service-information packet: the
// transmission/service identification block every MAC receiver reads
// first to acquire the channel.
func DG0(serviceName string) [91]byte {
	var data [91]byte
	copy(data[:], serviceName)
	return data
}

// DG3 builds the data group 3 packet used for the extended service table
// listing the channels carried in this multiplex. It returns an error,
// rather than silently truncating, if more channel IDs are supplied than
// the 91-byte payload can hold.
func DG3(channelIDs []uint16) ([91]byte, error) {
	var data [91]byte
	if len(channelIDs)*2 > len(data) {
		return data, errors.Wrapf(errDG3Overflow, "%d channel ids", len(channelIDs))
	}
	for i, id := range channelIDs {
		data[i*2] = byte(id >> 8)
		data[i*2+1] = byte(id)
	}
	return data, nil
}

var errDG3Overflow = errors.New("too many channel ids for one DG3 packet")

// UDT builds the Unified Date and Time packet carried periodically in
// data group 4.
func UDT(mjd uint32, utcSecondsOfDay uint32) [91]byte {
	var data [91]byte
	data[0] = byte(mjd >> 16)
	data[1] = byte(mjd >> 8)
	data[2] = byte(mjd)
	data[3] = byte(utcSecondsOfDay >> 24)
	data[4] = byte(utcSecondsOfDay >> 16)
	data[5] = byte(utcSecondsOfDay >> 8)
	data[6] = byte(utcSecondsOfDay)
	return data
}

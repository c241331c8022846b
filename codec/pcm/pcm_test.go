/*
NAME
  pcm_test.go

DESCRIPTION
  pcm_test.go contains functions for testing the pcm package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pcm

import (
	"encoding/binary"
	"math"
	"testing"
)

// sineS16LE generates n mono samples of a sine wave at freqHz sampled at
// rateHz, encoded as S16_LE.
func sineS16LE(freqHz, rateHz float64, n int) []byte {
	buf := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := int16(0.8 * math.MaxInt16 * math.Sin(2*math.Pi*freqHz*float64(i)/rateHz))
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return buf
}

// TestResampleDownsample checks that 6:1 downsampling divides the sample
// count by six and leaves the format's rate field updated.
func TestResampleDownsample(t *testing.T) {
	const rateIn, rateOut = 48000, 8000
	const nSamples = 480

	buf := Buffer{
		Format: BufferFormat{Channels: 1, Rate: rateIn, SFormat: S16_LE},
		Data:   sineS16LE(400, rateIn, nSamples),
	}

	out, err := Resample(buf, rateOut)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if out.Format.Rate != rateOut {
		t.Errorf("got rate %v, want %v", out.Format.Rate, rateOut)
	}
	wantSamples := nSamples * rateOut / rateIn
	gotSamples := len(out.Data) / 2
	if gotSamples != wantSamples {
		t.Errorf("got %v samples, want %v", gotSamples, wantSamples)
	}
}

// TestResampleUpsample checks that upsampling by repetition scales the
// sample count up by the expected integer ratio.
func TestResampleUpsample(t *testing.T) {
	const rateIn, rateOut = 8000, 48000
	const nSamples = 80

	buf := Buffer{
		Format: BufferFormat{Channels: 1, Rate: rateIn, SFormat: S16_LE},
		Data:   sineS16LE(400, rateIn, nSamples),
	}

	out, err := Resample(buf, rateOut)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if out.Format.Rate != rateOut {
		t.Errorf("got rate %v, want %v", out.Format.Rate, rateOut)
	}
	wantSamples := nSamples * rateOut / rateIn
	gotSamples := len(out.Data) / 2
	if gotSamples != wantSamples {
		t.Errorf("got %v samples, want %v", gotSamples, wantSamples)
	}
}

// TestResampleSameRate checks that resampling to the same rate is a no-op.
func TestResampleSameRate(t *testing.T) {
	buf := Buffer{
		Format: BufferFormat{Channels: 1, Rate: 48000, SFormat: S16_LE},
		Data:   sineS16LE(400, 48000, 100),
	}
	out, err := Resample(buf, 48000)
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	if len(out.Data) != len(buf.Data) {
		t.Errorf("got %v bytes, want %v", len(out.Data), len(buf.Data))
	}
}

// TestStereoToMono checks that the left channel of an interleaved stereo
// buffer is extracted correctly.
func TestStereoToMono(t *testing.T) {
	const n = 10
	left := sineS16LE(440, 44100, n)
	right := sineS16LE(220, 44100, n)

	stereo := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		stereo = append(stereo, left[i*2], left[i*2+1], right[i*2], right[i*2+1])
	}

	buf := Buffer{
		Format: BufferFormat{Channels: 2, Rate: 44100, SFormat: S16_LE},
		Data:   stereo,
	}

	mono, err := StereoToMono(buf)
	if err != nil {
		t.Fatalf("StereoToMono: %v", err)
	}
	if mono.Format.Channels != 1 {
		t.Errorf("got %v channels, want 1", mono.Format.Channels)
	}
	for i := 0; i < len(left); i++ {
		if mono.Data[i] != left[i] {
			t.Fatalf("byte %v: got %v, want %v (left channel)", i, mono.Data[i], left[i])
		}
	}
}

// TestStereoToMonoPassthrough checks that a mono buffer is returned unchanged.
func TestStereoToMonoPassthrough(t *testing.T) {
	buf := Buffer{
		Format: BufferFormat{Channels: 1, Rate: 44100, SFormat: S16_LE},
		Data:   sineS16LE(440, 44100, 10),
	}
	out, err := StereoToMono(buf)
	if err != nil {
		t.Fatalf("StereoToMono: %v", err)
	}
	if len(out.Data) != len(buf.Data) {
		t.Errorf("got %v bytes, want %v", len(out.Data), len(buf.Data))
	}
}

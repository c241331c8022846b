package main

import (
	"errors"
	"testing"

	hacktv "github.com/hacktv/hacktv"
	"github.com/hacktv/hacktv/config"
)

func TestParseVerbosityKnownLevels(t *testing.T) {
	for _, s := range []string{"debug", "info", "warning", "error", "fatal"} {
		if _, err := parseVerbosity(s); err != nil {
			t.Errorf("parseVerbosity(%q): %v", s, err)
		}
	}
}

func TestParseVerbosityRejectsUnknown(t *testing.T) {
	if _, err := parseVerbosity("loud"); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid", err)
	}
}

func TestBuildConfigMapsInputAndOutputKinds(t *testing.T) {
	f := &flags{modeID: "pal-d", input: "file", inputPth: "x.raw", output: "file", outPth: "y.raw", pixelRate: 13500000}
	c, err := buildConfig(f)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if c.Input != config.InputFile || c.InputPath != "x.raw" {
		t.Errorf("got Input=%v InputPath=%q", c.Input, c.InputPath)
	}
	if c.Output != config.OutputFile || c.OutputPath != "y.raw" {
		t.Errorf("got Output=%v OutputPath=%q", c.Output, c.OutputPath)
	}
}

func TestBuildConfigRejectsUnknownInput(t *testing.T) {
	f := &flags{modeID: "pal-d", input: "carrier-pigeon", output: "stdout"}
	if _, err := buildConfig(f); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid", err)
	}
}

func TestBuildConfigRejectsUnknownOutput(t *testing.T) {
	f := &flags{modeID: "pal-d", input: "test", output: "tape"}
	if _, err := buildConfig(f); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid", err)
	}
}

func TestServiceIDPacketSourceCycles(t *testing.T) {
	s := newServiceIDPacketSource("hacktv")
	p1, ok := s.NextPacket()
	if !ok || p1 == nil {
		t.Fatal("expected a packet")
	}
	p2, ok := s.NextPacket()
	if !ok || p2 != p1 {
		t.Fatalf("expected the single packet to repeat, got a different pointer")
	}
}

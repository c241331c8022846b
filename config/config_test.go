package config

import (
	"errors"
	"testing"

	hacktv "github.com/hacktv/hacktv"
)

func validConfig() *Config {
	return &Config{
		ModeID:    "pal-d",
		Input:     InputTest,
		Output:    OutputStdout,
		PixelRate: 13500000,
	}
}

func TestValidateRejectsMissingModeID(t *testing.T) {
	c := validConfig()
	c.ModeID = ""
	if err := c.Validate(); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid", err)
	}
}

func TestValidateRejectsNoInput(t *testing.T) {
	c := validConfig()
	c.Input = InputNone
	if err := c.Validate(); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid", err)
	}
}

func TestValidateRequiresGeometryForFileInput(t *testing.T) {
	c := validConfig()
	c.Input = InputFile
	c.InputPath = "test.raw"
	if err := c.Validate(); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid for missing width/height", err)
	}
	c.InputWidth, c.InputHeight = 720, 576
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error once geometry is set: %v", err)
	}
}

func TestValidateRequiresPathForFileAndWAVInput(t *testing.T) {
	for _, in := range []Input{InputFile, InputWAV} {
		c := validConfig()
		c.Input = in
		c.InputWidth, c.InputHeight = 720, 576
		if err := c.Validate(); !errors.Is(err, hacktv.ErrConfigInvalid) {
			t.Fatalf("input %v: got %v, want ErrConfigInvalid for missing path", in, err)
		}
	}
}

func TestValidateRequiresOutputPathForFileOutput(t *testing.T) {
	c := validConfig()
	c.Output = OutputFile
	if err := c.Validate(); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid", err)
	}
	c.OutputPath = "out.raw"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error once output path is set: %v", err)
	}
}

func TestValidateRejectsZeroPixelRate(t *testing.T) {
	c := validConfig()
	c.PixelRate = 0
	if err := c.Validate(); !errors.Is(err, hacktv.ErrConfigInvalid) {
		t.Fatalf("got %v, want ErrConfigInvalid", err)
	}
}

func TestValidateDefaultsSampleRateAndRingSize(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", c.SampleRate)
	}
	if c.RingSize != 8 {
		t.Errorf("RingSize = %d, want 8", c.RingSize)
	}
}

func TestValidateLeavesExplicitSampleRateAndRingSizeAlone(t *testing.T) {
	c := validConfig()
	c.SampleRate = 44100
	c.RingSize = 16
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.SampleRate != 44100 || c.RingSize != 16 {
		t.Errorf("Validate overwrote explicit SampleRate/RingSize: got %d/%d", c.SampleRate, c.RingSize)
	}
}

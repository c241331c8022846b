/*
NAME
  main.go

DESCRIPTION
  main.go is hacktv's command line entry point: it parses flags into a
  config.Config, builds the mode.Config/avsrc.Source/pipeline.Engine/
  sink.Sink the flags describe, and runs the line pipeline to
  completion, mirroring cmd/rv/main.go's flag-to-struct-to-pipeline
  shape.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command hacktv synthesises a software-defined analogue television
// signal from a test pattern, still image/video file or microphone/WAV
// audio, writing interleaved baseband or IF samples to a file or stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/natefinch/lumberjack.v2"

	hacktv "github.com/hacktv/hacktv"
	"github.com/hacktv/hacktv/avsrc"
	"github.com/hacktv/hacktv/config"
	"github.com/hacktv/hacktv/mac"
	"github.com/hacktv/hacktv/mode"
	"github.com/hacktv/hacktv/pipeline"
	"github.com/hacktv/hacktv/scramble"
	"github.com/hacktv/hacktv/sink"
	"github.com/hacktv/hacktv/vbi"

	"github.com/ausocean/utils/logging"
)

const (
	logMaxSizeMB = 50
	logMaxBackup = 5
	logMaxAgeDay = 28
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hacktv:", err)
		os.Exit(1)
	}
}

// flags bundles main's command line surface before it is validated into
// a config.Config.
type flags struct {
	modeID   string
	list     bool
	input    string
	inputPth string
	wavPth   string
	width    int
	height   int
	maxFrame int

	output string
	outPth string

	pixelRate  uint64
	sampleRate uint64
	ringSize   int
	compact    bool

	amCarrier  float64
	freqOffset float64
	swapIQ     bool

	videocrypt  string
	controlWord uint64
	serviceName string
	teletext    bool

	logFile     string
	verbosity   string
	logSuppress bool
}

func parseFlags(args []string) (*flags, error) {
	fs := flag.NewFlagSet("hacktv", flag.ContinueOnError)
	f := &flags{}
	fs.StringVar(&f.modeID, "mode", "", "broadcast standard id (see -list)")
	fs.BoolVar(&f.list, "list", false, "list available mode ids and exit")
	fs.StringVar(&f.input, "input", "test", "input kind: test, file, wav, alsa")
	fs.StringVar(&f.inputPth, "input-file", "", "path to a raw video file (input=file)")
	fs.StringVar(&f.wavPth, "input-wav", "", "path to a WAV file (input=wav)")
	fs.IntVar(&f.width, "width", 384, "input frame width (input=file)")
	fs.IntVar(&f.height, "height", 288, "input frame height (input=file)")
	fs.IntVar(&f.maxFrame, "max-frames", 0, "stop after this many test frames, 0 = unlimited")
	fs.StringVar(&f.output, "output", "stdout", "output kind: stdout, file")
	fs.StringVar(&f.outPth, "output-file", "", "path to write output samples to (output=file)")
	fs.Uint64Var(&f.pixelRate, "pixel-rate", 13500000, "output sample rate in Hz")
	fs.Uint64Var(&f.sampleRate, "sample-rate", 48000, "audio source sample rate in Hz")
	fs.IntVar(&f.ringSize, "ring-size", 8, "output line ring depth")
	fs.BoolVar(&f.compact, "compact-levels", false, "use the compact (vs. linear) RGB->YIQ level table")
	fs.Float64Var(&f.amCarrier, "am-carrier", 0, "AM IF carrier frequency in Hz (0 = baseband)")
	fs.Float64Var(&f.freqOffset, "freq-offset", 0, "post-modulator frequency offset in Hz")
	fs.BoolVar(&f.swapIQ, "swap-iq", false, "swap I and Q after modulation")
	fs.StringVar(&f.videocrypt, "videocrypt", "off", "Videocrypt scrambling: off, single, double")
	fs.Uint64Var(&f.controlWord, "control-word", uint64(scramble.FreeAccessControlWord), "Videocrypt/Eurocrypt control word")
	fs.StringVar(&f.serviceName, "service-name", "hacktv", "MAC/teletext service identification name")
	fs.BoolVar(&f.teletext, "teletext", false, "insert a looping service-identification teletext page")
	fs.StringVar(&f.logFile, "log-file", "", "log file path (empty disables file logging)")
	fs.StringVar(&f.verbosity, "verbosity", "info", "log verbosity: debug, info, warning, error, fatal")
	fs.BoolVar(&f.logSuppress, "log-suppress", false, "suppress repeated identical log entries")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func run() error {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	table := mode.NewTable()
	if f.list {
		ids := table.IDs()
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	log, err := buildLogger(f)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(f)
	if err != nil {
		return err
	}
	cfg.Logger = log
	if err := cfg.Validate(); err != nil {
		return err
	}

	modeCfg, err := table.Lookup(cfg.ModeID)
	if err != nil {
		return err
	}

	src, err := buildSource(log, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := buildSink(log, cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	eng, err := pipeline.NewEngine(log, modeCfg, src, cfg.PixelRate, cfg.SampleRate, cfg.RingSize, cfg.Compact)
	if err != nil {
		return err
	}
	if err := registerProcessors(eng, modeCfg, f, cfg); err != nil {
		return err
	}

	return drive(eng, out, log)
}

// buildLogger constructs the bundled logger: lumberjack-rotated file
// output fanned out alongside stderr, the same pairing cmd/rv/main.go
// builds for its netlogger/file pair.
func buildLogger(f *flags) (logging.Logger, error) {
	level, err := parseVerbosity(f.verbosity)
	if err != nil {
		return nil, err
	}
	var w io.Writer = os.Stderr
	if f.logFile != "" {
		fileLog := &lumberjack.Logger{
			Filename:   f.logFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAgeDay,
		}
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	return logging.New(level, w, f.logSuppress), nil
}

func parseVerbosity(s string) (int8, error) {
	switch s {
	case "debug":
		return int8(logging.Debug), nil
	case "info":
		return int8(logging.Info), nil
	case "warning":
		return int8(logging.Warning), nil
	case "error":
		return int8(logging.Error), nil
	case "fatal":
		return int8(logging.Fatal), nil
	default:
		return 0, fmt.Errorf("%w: unknown verbosity %q", hacktv.ErrConfigInvalid, s)
	}
}

func buildConfig(f *flags) (*config.Config, error) {
	c := &config.Config{
		ModeID:        f.modeID,
		InputWidth:    f.width,
		InputHeight:   f.height,
		TestMaxFrames: f.maxFrame,
		PixelRate:     f.pixelRate,
		SampleRate:    f.sampleRate,
		RingSize:      f.ringSize,
		Compact:       f.compact,
		AMCarrierHz:   f.amCarrier,
		FreqOffsetHz:  f.freqOffset,
		SwapIQ:        f.swapIQ,
	}
	switch f.input {
	case "test":
		c.Input = config.InputTest
	case "file":
		c.Input = config.InputFile
		c.InputPath = f.inputPth
	case "wav":
		c.Input = config.InputWAV
		c.InputPath = f.wavPth
	case "alsa":
		c.Input = config.InputALSA
	default:
		return nil, fmt.Errorf("%w: unknown input %q", hacktv.ErrConfigInvalid, f.input)
	}
	switch f.output {
	case "stdout":
		c.Output = config.OutputStdout
	case "file":
		c.Output = config.OutputFile
		c.OutputPath = f.outPth
	default:
		return nil, fmt.Errorf("%w: unknown output %q", hacktv.ErrConfigInvalid, f.output)
	}
	return c, nil
}

// buildSource assembles the avsrc.Source the pipeline reads from.
// config.InputWAV pairs a WAVSource's audio with a silent colour-bars
// TestSource's video, since hacktv always transmits a picture even when
// the only real input is audio (WAVSource's own ReadVideo is always
// ErrEOF).
func buildSource(log logging.Logger, c *config.Config) (avsrc.Source, error) {
	type starter interface {
		Start() error
	}
	start := func(s starter) error {
		if err := s.Start(); err != nil {
			return hacktv.Wrap(hacktv.ErrSourceOpenFailed, err)
		}
		return nil
	}

	switch c.Input {
	case config.InputTest:
		s := avsrc.NewTestSource(log, avsrc.ColourBars, c.InputWidth, c.InputHeight, c.TestMaxFrames)
		if err := start(s); err != nil {
			return nil, err
		}
		return s, nil
	case config.InputFile:
		s := avsrc.NewFileSource(log, c.InputPath, c.InputWidth, c.InputHeight, true)
		if err := start(s); err != nil {
			return nil, err
		}
		return s, nil
	case config.InputALSA:
		s := avsrc.NewALSASource(log, "hacktv", uint(c.SampleRate))
		if err := start(s); err != nil {
			return nil, err
		}
		return s, nil
	case config.InputWAV:
		video := avsrc.NewTestSource(log, avsrc.ColourBars, c.InputWidth, c.InputHeight, c.TestMaxFrames)
		if err := start(video); err != nil {
			return nil, err
		}
		audioSrc := avsrc.NewWAVSource(c.InputPath)
		if err := start(audioSrc); err != nil {
			video.Close()
			return nil, err
		}
		return &wavVideoSource{video: video, audio: audioSrc}, nil
	default:
		return nil, fmt.Errorf("%w: input not configured", hacktv.ErrConfigInvalid)
	}
}

// wavVideoSource pairs a silent picture source with a WAV file's audio,
// satisfying avsrc.Source by delegating video to one collaborator and
// audio to the other.
type wavVideoSource struct {
	video avsrc.Source
	audio avsrc.Source
}

func (s *wavVideoSource) ReadVideo(f *avsrc.Frame) error     { return s.video.ReadVideo(f) }
func (s *wavVideoSource) ReadAudio(buf []int16) (int, error) { return s.audio.ReadAudio(buf) }
func (s *wavVideoSource) EOF() bool                          { return s.video.EOF() || s.audio.EOF() }
func (s *wavVideoSource) Close() error {
	err1 := s.video.Close()
	err2 := s.audio.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func buildSink(log logging.Logger, c *config.Config) (sink.Sink, error) {
	switch c.Output {
	case config.OutputStdout:
		return &stdoutSink{w: os.Stdout}, nil
	case config.OutputFile:
		return sink.NewFileSink(log, c.OutputPath)
	default:
		return nil, fmt.Errorf("%w: output not configured", hacktv.ErrConfigInvalid)
	}
}

// stdoutSink writes raw little-endian interleaved int16 samples to an
// io.Writer, for piping hacktv's output straight into an SDR tool.
type stdoutSink struct{ w io.Writer }

func (s *stdoutSink) Write(samples []int16) error {
	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}
	_, err := s.w.Write(buf)
	return err
}

func (s *stdoutSink) Close() error { return nil }

// staticPacketSource cycles a fixed set of teletext packets, sufficient
// for a service-identification page; a full teletext page-builder front
// end is out of scope (see package vbi's PacketSource doc comment).
type staticPacketSource struct {
	packets []*vbi.Packet
	pos     int
}

func newServiceIDPacketSource(name string) *staticPacketSource {
	var data [40]byte
	copy(data[:], name)
	return &staticPacketSource{packets: []*vbi.Packet{{Magazine: 1, Row: 0, Data: data}}}
}

func (s *staticPacketSource) NextPacket() (*vbi.Packet, bool) {
	if len(s.packets) == 0 {
		return nil, false
	}
	p := s.packets[s.pos]
	s.pos = (s.pos + 1) % len(s.packets)
	return p, true
}

func registerProcessors(eng *pipeline.Engine, modeCfg *mode.Config, f *flags, c *config.Config) error {
	cws := scramble.FixedControlWord(f.controlWord)

	if modeCfg.ColourMode == mode.ColourMAC {
		var mux mac.Multiplexer
		// DG0 carries the service ID a receiver needs before it can even
		// acquire a control word, so it is never scrambled.
		if err := mux.Register(0, [][91]byte{mac.DG0(f.serviceName)}, false); err != nil {
			return err
		}
		vsamMode := mac.VSAMUnscrambled
		switch f.videocrypt {
		case "single":
			vsamMode = mac.VSAMSingleCut
		case "double":
			vsamMode = mac.VSAMDoubleCut
		}
		// The digital multiplex's peak level tracks the mode's overall
		// signal level; there is no separate CLI knob for it.
		eng.Register(pipeline.NewMACProcessor(modeCfg, eng.Width(), modeCfg.Level, &mux, cws, vsamMode))
	} else {
		eng.Register(pipeline.NewRasterProcessor())
		var packets vbi.PacketSource
		if f.teletext {
			packets = newServiceIDPacketSource(f.serviceName)
		}
		eng.Register(pipeline.NewVBIProcessor(packets, eng.PixelRate(), eng.Tables().White, eng.Tables().White))
		if modeCfg.ColourMode == mode.ColourSECAM {
			eng.Register(pipeline.NewSECAMProcessor(eng.Tables(), float64(eng.PixelRate())))
		}
	}

	if f.videocrypt != "off" && modeCfg.ColourMode != mode.ColourMAC {
		vcMode := scramble.CutSingle
		if f.videocrypt == "double" {
			vcMode = scramble.CutDouble
		}
		eng.Register(pipeline.NewScrambleProcessor(cws, vcMode))
	}

	eng.Register(pipeline.NewAudioProcessor(modeCfg, float64(eng.PixelRate())))
	eng.Register(pipeline.NewFilterProcessor(0.98))
	eng.Register(pipeline.NewIFProcessor(modeCfg, float64(eng.PixelRate()), f.amCarrier, f.freqOffset, f.swapIQ))
	return nil
}

func drive(eng *pipeline.Engine, out sink.Sink, log logging.Logger) error {
	for {
		l, err := eng.NextLine()
		if err != nil {
			return err
		}
		if l == nil {
			if log != nil {
				log.Info("end of input")
			}
			return nil
		}
		if err := out.Write(l.Samples); err != nil {
			return hacktv.Wrap(hacktv.ErrSinkWriteFailed, err)
		}
	}
}

/*
NAME
  sink.go

DESCRIPTION
  sink.go defines Sink, the radio-sink collaborator consumed by the line
  pipeline's output (spec.md §6), and two reference implementations: a
  pooled buffered-write file sink, grounded on revid/senders.go's pooled
  file sender, and an in-memory sink for tests.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sink provides the radio-sink interface consumed by the hacktv
// line pipeline (spec.md §6's "write(samples, n)"/"close()" contract)
// and two reference implementations sufficient to exercise it: a pooled
// buffered-write file sink and an in-memory sink for tests. Concrete
// hardware back ends (HackRF, SoapySDR, FL2K) are out of scope per
// spec.md §1.
package sink

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ausocean/utils/ioext"
	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
)

// Sink is the radio-sink collaborator of spec.md §6: a consumer of
// interleaved int16 samples (I,Q,I,Q,... for complex modes; I,I,I,...
// with Q dropped for real modes) produced one line at a time by the
// pipeline engine.
type Sink interface {
	// Write consumes n interleaved samples (2*n int16 values for complex
	// output, n for real). It must not retain samples past the call.
	Write(samples []int16) error

	// Close releases any resources held by the sink.
	Close() error
}

const (
	sinkPoolLen     = 64
	sinkPoolTimeout = 2 * time.Second
)

// FileSink writes raw interleaved int16 samples to a file or pipe
// through a pooled buffered writer, the same pool.Buffer producer/
// consumer shape revid/senders.go's newFileSender uses for its upload
// queue, re-targeted here at a synchronous local write instead of a
// network upload.
type FileSink struct {
	mu   sync.Mutex
	log  logging.Logger
	f    *os.File
	buf  *pool.Buffer
	done chan struct{}
	wg   sync.WaitGroup
}

// NewFileSink opens path for writing (truncating any existing content)
// and starts the pooled writer goroutine.
func NewFileSink(l logging.Logger, path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create sink file: %w", err)
	}
	s := &FileSink{
		log:  l,
		f:    f,
		buf:  pool.NewBuffer(sinkPoolLen, 1<<20, sinkPoolTimeout),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.drain()
	return s, nil
}

// Write enqueues samples for the writer goroutine, draining them to the
// file in submission order. It never blocks on slow disk I/O beyond the
// pool's own backpressure.
func (s *FileSink) Write(samples []int16) error {
	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}
	_, err := s.buf.Write(buf)
	return err
}

// drain reads completed chunks off the pool and writes them to the
// backing file until Close stops it.
func (s *FileSink) drain() {
	defer s.wg.Done()
	for {
		chunk, err := s.buf.Next(sinkPoolTimeout)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		if _, err := s.f.Write(chunk.Bytes()); err != nil {
			s.log.Error("sink write failed", "error", err.Error())
		}
		chunk.Close()
		select {
		case <-s.done:
			return
		default:
		}
	}
}

// Close stops the writer goroutine, flushes outstanding samples and
// closes the file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.done)
	s.buf.Close()
	s.wg.Wait()
	return s.f.Close()
}

// MemSink accumulates every sample written to it in memory, for tests
// that need to inspect the pipeline's output directly rather than read
// it back off disk.
type MemSink struct {
	mu      sync.Mutex
	Samples []int16
	closed  bool
}

// NewMemSink returns an empty MemSink.
func NewMemSink() *MemSink { return &MemSink{} }

// Write appends samples to the sink's buffer.
func (m *MemSink) Write(samples []int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Samples = append(m.Samples, samples...)
	return nil
}

// Close marks the sink closed; further writes are still accepted (tests
// read Samples directly, so this is advisory bookkeeping only).
func (m *MemSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// sinkWriteCloser adapts a Sink to io.WriteCloser so it can be fanned out
// through ioext.MultiWriteCloser, which only knows about byte streams.
type sinkWriteCloser struct{ s Sink }

func (w sinkWriteCloser) Write(b []byte) (int, error) {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2:]))
	}
	if err := w.s.Write(samples); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (w sinkWriteCloser) Close() error { return w.s.Close() }

// multiSink fans one pipeline's output out to every wrapped Sink, ground
// on revid/pipeline.go's use of ioext.MultiWriteCloser to fan video out
// to its configured senders.
type multiSink struct {
	mw io.WriteCloser
}

// NewMultiSink returns a Sink that writes every sample to each of sinks
// in turn, failing the call if any of them does.
func NewMultiSink(sinks ...Sink) Sink {
	wcs := make([]io.WriteCloser, len(sinks))
	for i, s := range sinks {
		wcs[i] = sinkWriteCloser{s}
	}
	return &multiSink{mw: ioext.MultiWriteCloser(wcs...)}
}

func (m *multiSink) Write(samples []int16) error {
	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	_, err := m.mw.Write(buf)
	return err
}

func (m *multiSink) Close() error { return m.mw.Close() }

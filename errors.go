/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the error-kind sentinels of spec.md §7 and the Error
  type that wraps one of them with a cause, returned from every package's
  public entry points instead of a result code.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package hacktv is the root of a software-defined analogue television
// transmitter: it holds the shared error kinds every subpackage returns.
// The pipeline itself lives in the mode, levels, line, raster, vbi,
// scramble, mac, audio, dsp, ifmod, pipeline, avsrc, sink and config
// subpackages.
package hacktv

import "errors"

// Error kind sentinels, per spec.md §7. Compare against these with
// errors.Is; a function that fails for one of these reasons returns an
// *Error wrapping the matching sentinel as its Unwrap target.
var (
	ErrOutOfMemory      = errors.New("out of memory")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrModeUnknown      = errors.New("unknown mode")
	ErrSourceOpenFailed = errors.New("source open failed")
	ErrSourceReadFailed = errors.New("source read failed")
	ErrSourceEOF        = errors.New("source at EOF")
	ErrSinkWriteFailed  = errors.New("sink write failed")
)

// Error pairs one of the sentinels above with the underlying cause, if
// any. Callers use errors.Is(err, hacktv.ErrConfigInvalid) to classify it
// and errors.As with the address of a *hacktv.Error variable, or plain
// error formatting, to see the
// detail.
type Error struct {
	Kind  error
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Cause.Error()
}

// Unwrap exposes Kind first; errors.Is walks it to match the sentinel,
// then continues unwrapping Cause if the caller chains further.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Wrap returns a new Error of the given kind wrapping cause.
func Wrap(kind error, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

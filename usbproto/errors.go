package usbproto

import "errors"

// Frame parsing errors, all internal to the receive state machine: none of
// these are ever surfaced to a peer, which silently resyncs instead.
var (
	errBadSOF       = errors.New("usbproto: bad start-of-frame byte")
	errCRCMismatch  = errors.New("usbproto: CRC mismatch")
	errFrameTooLong = errors.New("usbproto: frame exceeds maximum length")
	errEmptyFrame   = errors.New("usbproto: frame has no command byte")
)

// ErrShortWrite is returned by a Transport write that could not place the
// whole encoded frame on the wire.
var ErrShortWrite = errors.New("usbproto: short write")

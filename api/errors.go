// Package api
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy of the send path.

package api

import (
	"errors"
	"fmt"
)

// Configuration and programming errors. These are never retried.
var (
	ErrUnsupportedSegment  = fmt.Errorf("segment cannot be exposed for I/O")
	ErrAlreadyArmed        = fmt.Errorf("completion already armed: concurrent send")
	ErrNotArmed            = fmt.Errorf("completion resolved while idle")
	ErrScatterListNotEmpty = fmt.Errorf("scatter list not drained before build")
	ErrSenderClosed        = fmt.Errorf("sender is closed")
	ErrSocketClosed        = fmt.Errorf("socket is closed")
	ErrInvalidArgument     = fmt.Errorf("invalid argument")
	ErrNotSupported        = fmt.Errorf("operation not supported")
)

// SocketErrorCode classifies an OS-reported send failure.
type SocketErrorCode int

const (
	SocketErrorUnknown SocketErrorCode = iota
	SocketErrorConnectionReset
	SocketErrorBrokenPipe
	SocketErrorConnectionAborted
	SocketErrorNotConnected
	SocketErrorShutdown
	SocketErrorTimedOut
)

func (c SocketErrorCode) String() string {
	switch c {
	case SocketErrorConnectionReset:
		return "connection reset"
	case SocketErrorBrokenPipe:
		return "broken pipe"
	case SocketErrorConnectionAborted:
		return "connection aborted"
	case SocketErrorNotConnected:
		return "not connected"
	case SocketErrorShutdown:
		return "shutdown"
	case SocketErrorTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// SocketError is a transport failure reported by the OS. It is fatal for
// the connection.
type SocketError struct {
	Code SocketErrorCode
	Op   string
	Err  error
}

// NewSocketError wraps err with its classification.
func NewSocketError(op string, code SocketErrorCode, err error) *SocketError {
	return &SocketError{Code: code, Op: op, Err: err}
}

// Error implements the error interface.
func (e *SocketError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *SocketError) Unwrap() error {
	return e.Err
}

// IsSocketError reports whether err carries a *SocketError.
func IsSocketError(err error) bool {
	var se *SocketError
	return errors.As(err, &se)
}

// SocketErrorCodeOf returns the classification carried by err, or
// SocketErrorUnknown.
func SocketErrorCodeOf(err error) SocketErrorCode {
	var se *SocketError
	if errors.As(err, &se) {
		return se.Code
	}
	return SocketErrorUnknown
}

// File: internal/transport/errno.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"io"
	"net"
	"os"
	"syscall"

	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/api"
)

// classify converts an OS-level failure into an *api.SocketError carrying a
// stack trace. nil stays nil.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(api.NewSocketError(op, codeOf(err), err))
}

func codeOf(err error) api.SocketErrorCode {
	switch {
	case errors.Is(err, net.ErrClosed),
		errors.Is(err, api.ErrSocketClosed),
		errors.Is(err, io.ErrClosedPipe):
		return api.SocketErrorShutdown
	case errors.Is(err, os.ErrDeadlineExceeded):
		return api.SocketErrorTimedOut
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errnoCode(errno)
	}
	return api.SocketErrorUnknown
}

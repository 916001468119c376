//go:build unix

// File: internal/transport/errno_unix.go
// Author: momentics <momentics@gmail.com>

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sock/api"
)

func errnoCode(errno syscall.Errno) api.SocketErrorCode {
	switch errno {
	case unix.ECONNRESET:
		return api.SocketErrorConnectionReset
	case unix.EPIPE:
		return api.SocketErrorBrokenPipe
	case unix.ECONNABORTED:
		return api.SocketErrorConnectionAborted
	case unix.ENOTCONN:
		return api.SocketErrorNotConnected
	case unix.ESHUTDOWN, unix.EBADF:
		return api.SocketErrorShutdown
	case unix.ETIMEDOUT:
		return api.SocketErrorTimedOut
	}
	return api.SocketErrorUnknown
}

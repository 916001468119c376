//go:build windows

// File: internal/transport/errno_windows.go
// Author: momentics <momentics@gmail.com>

package transport

import (
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/momentics/hioload-sock/api"
)

// Winsock codes without a named constant in x/sys/windows.
const (
	wsaENOTCONN  syscall.Errno = 10057
	wsaESHUTDOWN syscall.Errno = 10058
	wsaETIMEDOUT syscall.Errno = 10060
)

func errnoCode(errno syscall.Errno) api.SocketErrorCode {
	switch errno {
	case syscall.Errno(windows.WSAECONNRESET), syscall.Errno(windows.ERROR_NETNAME_DELETED):
		return api.SocketErrorConnectionReset
	case syscall.Errno(windows.ERROR_BROKEN_PIPE):
		return api.SocketErrorBrokenPipe
	case syscall.Errno(windows.WSAECONNABORTED):
		return api.SocketErrorConnectionAborted
	case wsaENOTCONN:
		return api.SocketErrorNotConnected
	case wsaESHUTDOWN:
		return api.SocketErrorShutdown
	case wsaETIMEDOUT:
		return api.SocketErrorTimedOut
	}
	return api.SocketErrorUnknown
}

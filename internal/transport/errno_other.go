//go:build !unix && !windows

package transport

import (
	"syscall"

	"github.com/momentics/hioload-sock/api"
)

func errnoCode(syscall.Errno) api.SocketErrorCode { return api.SocketErrorUnknown }

// File: internal/transport/feature_detect.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reports which completion backend drives a socket.

package transport

import (
	"runtime"

	"github.com/momentics/hioload-sock/api"
)

// Backend names.
const (
	BackendEpoll    = "epoll"
	BackendPortable = "portable"
)

// PreferredBackend returns the backend NewSocket tries first on this
// platform for connections exposing a file descriptor.
func PreferredBackend() string {
	if runtime.GOOS == "linux" {
		return BackendEpoll
	}
	return BackendPortable
}

// BackendOf returns the backend of a socket created by NewSocket, or the
// empty string for foreign implementations.
func BackendOf(sock api.AsyncSocket) string {
	if b, ok := sock.(interface{ backend() string }); ok {
		return b.backend()
	}
	return ""
}

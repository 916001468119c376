//go:build !linux
// +build !linux

package transport

import (
	"net"

	"github.com/momentics/hioload-sock/api"
)

func newPollSocket(conn net.Conn, o *options) (api.AsyncSocket, bool, error) {
	return nil, false, nil
}

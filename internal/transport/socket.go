// File: internal/transport/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"net"

	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/api"
)

// NewSocket wraps a connected stream conn in a completion socket. On Linux a
// conn exposing its descriptor gets the epoll socket; other conns, other
// platforms and WithPortable get the goroutine-driven socket. Closing the
// returned socket closes conn.
func NewSocket(conn net.Conn, opts ...Option) (api.AsyncSocket, error) {
	if conn == nil {
		return nil, errors.Wrap(api.ErrInvalidArgument, "nil conn")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	if !o.portable {
		sock, ok, err := newPollSocket(conn, &o)
		if err != nil {
			return nil, err
		}
		if ok {
			return sock, nil
		}
	}
	return newConnSocket(conn, &o), nil
}

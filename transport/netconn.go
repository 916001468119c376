// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package transport

import (
	"net"

	"github.com/pkg/errors"

	itransport "github.com/momentics/hioload-sock/internal/transport"
)

// NewConnSender wraps conn in the best completion socket for the platform
// and returns a sender that owns it: Close closes the socket and conn.
func NewConnSender(conn net.Conn, opts ...Option) (*SocketSender, error) {
	st := defaultSettings()
	for _, opt := range opts {
		opt(&st)
	}
	if err := st.cfg.Validate(); err != nil {
		return nil, err
	}

	sockOpts := []itransport.Option{
		itransport.WithConfig(st.cfg),
		itransport.WithLogger(st.logger),
	}
	if st.portable {
		sockOpts = append(sockOpts, itransport.WithPortable())
	}
	sock, err := itransport.NewSocket(conn, sockOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "new socket")
	}
	return newSocketSender(sock, true, st), nil
}

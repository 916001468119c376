// File: internal/transport/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"log/slog"

	"github.com/momentics/hioload-sock/control"
	"github.com/momentics/hioload-sock/logging"
)

// Option customizes socket construction.
type Option func(*options)

type options struct {
	cfg      control.Config
	log      *slog.Logger
	port     *Port
	portable bool
}

func defaultOptions() options {
	return options{cfg: control.DefaultConfig()}
}

func (o *options) logger() *slog.Logger {
	if o.log == nil {
		return logging.Default()
	}
	return o.log
}

// WithConfig sets the tunables of the socket and its completion port.
func WithConfig(cfg control.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the socket logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPort attaches the socket to p instead of the process-wide port.
// Ignored by the portable socket.
func WithPort(p *Port) Option {
	return func(o *options) { o.port = p }
}

// WithPortable forces the goroutine-driven socket.
func WithPortable() Option {
	return func(o *options) { o.portable = true }
}

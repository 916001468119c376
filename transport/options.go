// File: transport/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Functional options for SocketSender construction.

package transport

import (
	"log/slog"

	"github.com/momentics/hioload-sock/control"
)

// Option customizes sender initialization.
type Option func(*settings)

type settings struct {
	logger     *slog.Logger
	metrics    *control.MetricsRegistry
	probes     *control.DebugProbes
	id         string
	scatterCap int
	cfg        control.Config
	portable   bool
}

func defaultSettings() settings {
	return settings{
		scatterCap: defaultScatterCapacity,
		cfg:        control.DefaultConfig(),
	}
}

// WithLogger sets the logger; the process default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithMetrics records send counters into mr, which may be shared between
// senders.
func WithMetrics(mr *control.MetricsRegistry) Option {
	return func(s *settings) {
		s.metrics = mr
	}
}

// WithProbes registers the sender's state probes in dp under "<id>.<name>".
func WithProbes(dp *control.DebugProbes) Option {
	return func(s *settings) {
		s.probes = dp
	}
}

// WithID overrides the generated sender identifier.
func WithID(id string) Option {
	return func(s *settings) {
		s.id = id
	}
}

// WithScatterCapacity presizes the scatter list.
func WithScatterCapacity(n int) Option {
	return func(s *settings) {
		s.scatterCap = n
	}
}

// WithConfig tunes the OS socket created by NewConnSender.
func WithConfig(cfg control.Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithPortableSocket makes NewConnSender use the goroutine-driven socket
// even where an OS completion socket is available.
func WithPortableSocket() Option {
	return func(s *settings) {
		s.portable = true
	}
}

//go:build !linux
// +build !linux

// File: internal/transport/port_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"log/slog"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/control"
)

// Port is unavailable on this platform; sockets use the portable backend.
type Port struct{}

// NewPort returns api.ErrNotSupported on this platform.
func NewPort(cfg control.Config, log *slog.Logger) (*Port, error) {
	return nil, api.ErrNotSupported
}

// DefaultPort returns api.ErrNotSupported on this platform.
func DefaultPort() (*Port, error) { return nil, api.ErrNotSupported }

func (p *Port) Sockets() int { return 0 }
func (p *Port) Backlog() int { return 0 }
func (p *Port) Close() error { return nil }

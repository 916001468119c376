//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for platforms without an epoll reactor.

package reactor

import (
	"time"

	"github.com/momentics/hioload-sock/api"
)

// Reactor is unavailable on this platform.
type Reactor struct{}

// New returns api.ErrNotSupported on this platform.
func New(maxEvents int) (*Reactor, error) {
	return nil, api.ErrNotSupported
}

func (r *Reactor) ArmWrite(fd int, h Handler) error { return api.ErrNotSupported }
func (r *Reactor) Remove(fd int) error              { return nil }
func (r *Reactor) Len() int                         { return 0 }
func (r *Reactor) Run(timeout time.Duration) error  { return api.ErrNotSupported }
func (r *Reactor) Close() error                     { return nil }

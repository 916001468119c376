//go:build linux
// +build linux

// File: internal/transport/port_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Completion port: one epoll reactor goroutine detects writability and a
// dispatcher delivers the finished requests.

package transport

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/control"
	"github.com/momentics/hioload-sock/logging"
	"github.com/momentics/hioload-sock/reactor"
)

// Port drives deferred completions for any number of epoll sockets.
type Port struct {
	cfg     control.Config
	log     *slog.Logger
	reactor *reactor.Reactor
	disp    *dispatcher

	closeOnce sync.Once
	stopped   chan struct{}
}

// NewPort starts a completion port. A nil logger selects the default.
func NewPort(cfg control.Config, log *slog.Logger) (*Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Default()
	}
	r, err := reactor.New(cfg.MaxEvents)
	if err != nil {
		return nil, errors.Wrap(err, "new reactor")
	}
	p := &Port{
		cfg:     cfg,
		log:     log.With("component", "port"),
		reactor: r,
		disp:    newDispatcher(cfg.DispatchWorkers),
		stopped: make(chan struct{}),
	}
	go p.loop()
	return p, nil
}

func (p *Port) loop() {
	defer close(p.stopped)
	if err := p.reactor.Run(p.cfg.PollTimeout); err != nil {
		p.log.Error("reactor stopped", "err", err, logging.TraceAttr(err))
	}
}

// Sockets returns the number of descriptors registered with the reactor.
func (p *Port) Sockets() int { return p.reactor.Len() }

// Backlog returns the number of completions waiting for a dispatcher.
func (p *Port) Backlog() int { return p.disp.Len() }

func (p *Port) arm(fd int, h reactor.Handler) error {
	return p.reactor.ArmWrite(fd, h)
}

func (p *Port) forget(fd int) {
	if err := p.reactor.Remove(fd); err != nil {
		p.log.Debug("reactor remove", "fd", fd, "err", err)
	}
}

func (p *Port) post(t api.Ticket) {
	p.disp.Post(t)
}

// Close stops the reactor and flushes queued completions. Sockets still
// attached complete their next send with a shutdown error.
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.reactor.Close()
		<-p.stopped
		p.disp.Close()
	})
	return err
}

var (
	defaultPort     *Port
	defaultPortErr  error
	defaultPortOnce sync.Once
)

// DefaultPort returns the lazily started process-wide port.
func DefaultPort() (*Port, error) {
	defaultPortOnce.Do(func() {
		defaultPort, defaultPortErr = NewPort(control.DefaultConfig(), nil)
	})
	return defaultPort, defaultPortErr
}

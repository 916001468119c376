// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp provides a minimal TCP listener/acceptor running one handler
// goroutine per connection.

package tcp

import (
	"io"
	"log/slog"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/logging"
)

// ListenerConfig holds configuration for the TCP listener.
type ListenerConfig struct {
	Addr        string         // TCP address to bind, e.g. "127.0.0.1:0"
	AcceptCPU   int            // CPU to pin the accept loop to; negative disables
	ConnHandler func(net.Conn) // Runs per accepted connection; must close it
	Logger      *slog.Logger
}

// Listener accepts connections until Close.
type Listener struct {
	ln  net.Listener
	cfg ListenerConfig
	log *slog.Logger

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// Listen binds cfg.Addr. Serve must be called to accept connections.
func Listen(cfg ListenerConfig) (*Listener, error) {
	if cfg.ConnHandler == nil {
		cfg.ConnHandler = Echo
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, errors.Wrap(err, "tcp listen")
	}
	return &Listener{
		ln:    ln,
		cfg:   cfg,
		log:   cfg.Logger.With("listener", ln.Addr().String()),
		conns: make(map[net.Conn]struct{}),
	}, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve runs the accept loop. It returns nil after Close.
func (l *Listener) Serve() error {
	if l.cfg.AcceptCPU >= 0 {
		if err := setCPUAffinity(l.cfg.AcceptCPU); err != nil {
			l.log.Warn("accept loop not pinned", "err", err)
		}
	}
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return errors.Wrap(err, "accept")
		}
		if !l.track(conn) {
			conn.Close()
			return nil
		}
		l.wg.Add(1)
		go l.handle(conn)
	}
}

func (l *Listener) track(conn net.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.conns[conn] = struct{}{}
	return true
}

func (l *Listener) handle(conn net.Conn) {
	defer l.wg.Done()
	defer func() {
		l.mu.Lock()
		delete(l.conns, conn)
		l.mu.Unlock()
	}()
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("panic in connection handler", "panic", r)
			conn.Close()
		}
	}()
	l.cfg.ConnHandler(conn)
}

// Close stops accepting, closes live connections and waits for handlers.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	for c := range l.conns {
		c.Close()
	}
	l.mu.Unlock()

	err := l.ln.Close()
	l.wg.Wait()
	return err
}

// Echo writes back everything it reads until EOF.
func Echo(conn net.Conn) {
	defer conn.Close()
	_, _ = io.Copy(conn, conn)
}

// Collect returns a handler that delivers the full stream of each
// connection to out once the peer closes.
func Collect(out chan<- []byte) func(net.Conn) {
	return func(conn net.Conn) {
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		out <- b
	}
}

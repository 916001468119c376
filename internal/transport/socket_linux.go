//go:build linux
// +build linux

// File: internal/transport/socket_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Epoll completion socket. A send is attempted immediately with write(2) or
// writev(2); if the kernel buffer is full the request is parked, the
// descriptor is armed one-shot on the port reactor and the retry result is
// delivered through the port dispatcher.

package transport

import (
	"log/slog"
	"net"
	"sync"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/reactor"
)

// maxIovecs is IOV_MAX on Linux. Longer lists are sent short.
const maxIovecs = 1024

type pollSocket struct {
	conn net.Conn
	raw  syscall.RawConn
	fd   int
	port *Port
	log  *slog.Logger

	mu      sync.Mutex
	closed  bool
	pending api.Ticket
	iov     []unix.Iovec
}

func newPollSocket(conn net.Conn, o *options) (api.AsyncSocket, bool, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, false, nil
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return nil, false, errors.Wrap(err, "syscall conn")
	}
	fd := -1
	if err := raw.Control(func(f uintptr) { fd = int(f) }); err != nil {
		return nil, false, errors.Wrap(err, "raw control")
	}

	port := o.port
	if port == nil {
		if port, err = DefaultPort(); err != nil {
			o.logger().Warn("completion port unavailable, using portable socket", "err", err)
			return nil, false, nil
		}
	}
	return &pollSocket{
		conn: conn,
		raw:  raw,
		fd:   fd,
		port: port,
		log:  o.logger().With("backend", BackendEpoll, "fd", fd),
	}, true, nil
}

func (s *pollSocket) backend() string { return BackendEpoll }

// SendAsync implements api.AsyncSocket.
func (s *pollSocket) SendAsync(req *api.SendRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		req.SetResult(0, classify("write", api.ErrSocketClosed))
		return false
	}

	n, err := s.write(req)
	if err == unix.EAGAIN {
		s.pending = req.Ticket()
		if aerr := s.port.arm(s.fd, s.onWritable); aerr != nil {
			s.pending = api.Ticket{}
			req.SetResult(0, classify("arm", aerr))
			return false
		}
		return true
	}
	req.SetResult(n, classify("write", err))
	return false
}

// onWritable runs on the reactor goroutine.
func (s *pollSocket) onWritable(fd int, ev reactor.Events) {
	s.mu.Lock()
	t := s.pending
	if t.IsZero() {
		s.mu.Unlock()
		return
	}
	n, err := s.write(t.Req)
	if err == unix.EAGAIN {
		if err = s.port.arm(s.fd, s.onWritable); err == nil {
			s.mu.Unlock()
			return
		}
	}
	s.pending = api.Ticket{}
	s.mu.Unlock()

	if err != nil {
		s.log.Debug("deferred write failed", "err", err, "events", uint32(ev))
	}
	t.Req.SetResult(n, classify("write", err))
	s.port.post(t)
}

// write performs one non-blocking attempt under the runtime's fd lock.
func (s *pollSocket) write(req *api.SendRequest) (n int, err error) {
	rerr := s.raw.Write(func(fd uintptr) bool {
		for {
			if req.BufferList != nil {
				n, err = s.writev(int(fd), req.BufferList)
			} else {
				n, err = unix.Write(int(fd), req.Buffer.Bytes())
			}
			if err != unix.EINTR {
				return true
			}
		}
	})
	if rerr != nil {
		return 0, rerr
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

func (s *pollSocket) writev(fd int, list []api.ArraySegment) (int, error) {
	iov := s.iov[:0]
	for i := range list {
		if len(iov) == maxIovecs {
			break
		}
		b := list[i].Bytes()
		if len(b) == 0 {
			continue
		}
		v := unix.Iovec{Base: &b[0]}
		v.SetLen(len(b))
		iov = append(iov, v)
	}
	s.iov = iov
	if len(iov) == 0 {
		return 0, nil
	}

	r, _, e := unix.Syscall(unix.SYS_WRITEV, uintptr(fd), uintptr(unsafe.Pointer(&iov[0])), uintptr(len(iov)))
	clear(iov)
	if e != 0 {
		return 0, e
	}
	return int(r), nil
}

// Close deregisters the descriptor, closes the conn and fails a parked send
// with a shutdown error.
func (s *pollSocket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	t := s.pending
	s.pending = api.Ticket{}
	s.port.forget(s.fd)
	s.mu.Unlock()

	err := s.conn.Close()
	if !t.IsZero() {
		t.Req.SetResult(0, classify("write", api.ErrSocketClosed))
		s.port.post(t)
	}
	return errors.Wrap(err, "close conn")
}

// File: internal/transport/conn_socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable completion socket: a writer goroutine performs blocking writes on
// a net.Conn and reports every send as pending.

package transport

import (
	"log/slog"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/api"
)

type connSocket struct {
	conn net.Conn
	log  *slog.Logger

	mu     sync.Mutex
	closed bool
	reqs   chan api.Ticket
	done   chan struct{}
	wg     sync.WaitGroup

	// writer goroutine only
	bufs [][]byte
}

func newConnSocket(conn net.Conn, o *options) *connSocket {
	s := &connSocket{
		conn: conn,
		log:  o.logger().With("backend", BackendPortable),
		reqs: make(chan api.Ticket, o.cfg.WriterQueue),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.writer()
	return s
}

func (s *connSocket) backend() string { return BackendPortable }

// SendAsync queues req for the writer. It completes synchronously only when
// the socket is closed or the writer backlog is full.
func (s *connSocket) SendAsync(req *api.SendRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		req.SetResult(0, classify("write", api.ErrSocketClosed))
		return false
	}
	select {
	case s.reqs <- req.Ticket():
		return true
	default:
		req.SetResult(0, errors.Wrap(api.ErrInvalidArgument, "writer queue full"))
		return false
	}
}

func (s *connSocket) writer() {
	defer s.wg.Done()
	for {
		select {
		case t := <-s.reqs:
			s.write(t)
		case <-s.done:
			s.drain()
			return
		}
	}
}

func (s *connSocket) write(t api.Ticket) {
	req := t.Req
	var (
		n   int
		err error
	)
	if req.BufferList != nil {
		bufs := s.bufs[:0]
		for i := range req.BufferList {
			bufs = append(bufs, req.BufferList[i].Bytes())
		}
		s.bufs = bufs
		nb := net.Buffers(bufs)
		var n64 int64
		n64, err = nb.WriteTo(s.conn)
		n = int(n64)
		clear(s.bufs)
	} else {
		n, err = s.conn.Write(req.Buffer.Bytes())
	}
	if err != nil {
		s.log.Debug("write failed", "err", err, "bytes", n)
	}
	req.SetResult(n, classify("write", err))
	t.Complete()
}

// drain fails requests queued behind Close.
func (s *connSocket) drain() {
	for {
		select {
		case t := <-s.reqs:
			t.Req.SetResult(0, classify("write", api.ErrSocketClosed))
			t.Complete()
		default:
			return
		}
	}
}

// Close closes the conn, which unblocks an in-progress write, and waits for
// the writer to deliver every outstanding completion. It must not be called
// from a completion callback.
func (s *connSocket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	err := s.conn.Close()
	s.wg.Wait()
	return errors.Wrap(err, "close conn")
}

// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the socket contract.

package fake

import (
	"sync"

	"github.com/momentics/hioload-sock/api"
)

// Mode selects how Socket reports completions.
type Mode int

const (
	// Sync completes every send inline; Completed is never invoked.
	Sync Mode = iota
	// Deferred reports every send pending and invokes Completed once from
	// another goroutine, or from Release when manual release is enabled.
	Deferred
	// Duplicate reports every send pending and invokes Completed twice.
	Duplicate
	// SyncAndCallback completes inline and also invokes Completed before
	// SendAsync returns, as a misbehaving socket would.
	SyncAndCallback
)

// Socket is a fake implementation of api.AsyncSocket that records every
// byte it accepts.
type Socket struct {
	mu       sync.Mutex
	mode     Mode
	limit    int
	sendErr  error
	closeErr error
	manual   bool
	closed   bool

	held         []api.Ticket
	last         api.Ticket
	calls        int
	lastSegments int
	sent         []byte

	wg sync.WaitGroup
}

// NewSocket creates a fake socket in Sync mode with no byte limit.
func NewSocket() *Socket {
	return &Socket{}
}

// SendAsync implements api.AsyncSocket.SendAsync.
func (s *Socket) SendAsync(req *api.SendRequest) bool {
	s.mu.Lock()
	s.calls++
	if s.closed {
		s.mu.Unlock()
		req.SetResult(0, api.NewSocketError("write", api.SocketErrorShutdown, api.ErrSocketClosed))
		return false
	}

	regions := req.BufferList
	if regions == nil {
		regions = []api.ArraySegment{req.Buffer}
	}
	s.lastSegments = len(regions)

	n := 0
	if s.sendErr == nil {
		for _, r := range regions {
			b := r.Bytes()
			if s.limit > 0 && n+len(b) > s.limit {
				b = b[:s.limit-n]
			}
			s.sent = append(s.sent, b...)
			n += len(b)
			if s.limit > 0 && n == s.limit {
				break
			}
		}
	}
	req.SetResult(n, s.sendErr)

	t := req.Ticket()
	mode, manual := s.mode, s.manual
	if mode == Deferred && manual {
		s.held = append(s.held, t)
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	switch mode {
	case Deferred:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.deliver(t)
		}()
		return true
	case Duplicate:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.deliver(t)
			s.deliver(t)
		}()
		return true
	case SyncAndCallback:
		s.deliver(t)
		return false
	default:
		return false
	}
}

// Close implements api.AsyncSocket.Close. Held requests complete with a
// shutdown error.
func (s *Socket) Close() error {
	s.mu.Lock()
	s.closed = true
	held := s.held
	s.held = nil
	err := s.closeErr
	s.mu.Unlock()

	for _, t := range held {
		t.Req.SetResult(0, api.NewSocketError("write", api.SocketErrorShutdown, api.ErrSocketClosed))
		s.deliver(t)
	}
	return err
}

func (s *Socket) deliver(t api.Ticket) {
	s.mu.Lock()
	s.last = t
	s.mu.Unlock()
	t.Complete()
}

// SetMode changes the completion mode for later sends.
func (s *Socket) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// SetLimit caps the bytes accepted per send; 0 removes the cap.
func (s *Socket) SetLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = n
}

// SetSendError makes later sends fail with err after accepting no bytes.
func (s *Socket) SetSendError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

// SetCloseError configures the error returned by Close.
func (s *Socket) SetCloseError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeErr = err
}

// SetManualRelease holds Deferred completions until Release.
func (s *Socket) SetManualRelease(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = on
}

// Release delivers held completions on the calling goroutine and returns
// how many were delivered.
func (s *Socket) Release() int {
	s.mu.Lock()
	held := s.held
	s.held = nil
	s.mu.Unlock()
	for _, t := range held {
		s.deliver(t)
	}
	return len(held)
}

// Replay delivers the most recent completion again on the calling
// goroutine, as a late duplicate from a misbehaving socket would. It
// reports false when nothing was delivered yet.
func (s *Socket) Replay() bool {
	s.mu.Lock()
	t := s.last
	s.mu.Unlock()
	if t.IsZero() {
		return false
	}
	t.Complete()
	return true
}

// Wait blocks until every completion goroutine has returned.
func (s *Socket) Wait() {
	s.wg.Wait()
}

// Calls returns the number of SendAsync invocations.
func (s *Socket) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastSegments returns the region count of the last send.
func (s *Socket) LastSegments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSegments
}

// Sent returns a copy of every byte accepted so far.
func (s *Socket) Sent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.sent))
	copy(out, s.sent)
	return out
}

// Closed reports whether Close was called.
func (s *Socket) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

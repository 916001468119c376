//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor. Descriptors are armed one-shot for
// writability; every readiness report disarms them until the next ArmWrite.

package reactor

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sock/api"
)

// Reactor is an epoll event loop.
type Reactor struct {
	epfd   int
	wakefd int

	maxEvents int

	mu       sync.Mutex
	handlers map[int]Handler

	closed  atomic.Bool
	started atomic.Bool
	stopped chan struct{}
}

// New creates an epoll instance returning up to maxEvents per wait.
func New(maxEvents int) (*Reactor, error) {
	if maxEvents <= 0 {
		maxEvents = 128
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(err, "epoll create")
	}
	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, errors.Wrap(err, "eventfd")
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakefd)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakefd, &ev); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, errors.Wrap(err, "epoll ctl add eventfd")
	}
	return &Reactor{
		epfd:      epfd,
		wakefd:    wakefd,
		maxEvents: maxEvents,
		handlers:  make(map[int]Handler),
		stopped:   make(chan struct{}),
	}, nil
}

// ArmWrite asks for a single writability report on fd, delivered to h.
func (r *Reactor) ArmWrite(fd int, h Handler) error {
	if r.closed.Load() {
		return api.ErrSocketClosed
	}
	ev := unix.EpollEvent{
		Events: unix.EPOLLOUT | unix.EPOLLONESHOT,
		Fd:     int32(fd),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	op := unix.EPOLL_CTL_MOD
	if _, ok := r.handlers[fd]; !ok {
		op = unix.EPOLL_CTL_ADD
	}
	if err := unix.EpollCtl(r.epfd, op, fd, &ev); err != nil {
		return errors.Wrap(err, "epoll ctl arm")
	}
	r.handlers[fd] = h
	return nil
}

// Remove stops watching fd. It must be called before fd is closed.
func (r *Reactor) Remove(fd int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[fd]; !ok {
		return nil
	}
	delete(r.handlers, fd)
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return errors.Wrap(err, "epoll ctl del")
	}
	return nil
}

// Len returns the number of watched descriptors.
func (r *Reactor) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// Poll waits up to timeout for events and dispatches them.
func (r *Reactor) Poll(events []unix.EpollEvent, timeout time.Duration) error {
	n, err := unix.EpollWait(r.epfd, events, int(timeout/time.Millisecond))
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return errors.Wrap(err, "epoll wait")
	}
	for i := 0; i < n; i++ {
		fd := int(events[i].Fd)
		if fd == r.wakefd {
			var buf [8]byte
			_, _ = unix.Read(r.wakefd, buf[:])
			continue
		}
		r.mu.Lock()
		h := r.handlers[fd]
		r.mu.Unlock()
		if h != nil {
			h(fd, translate(events[i].Events))
		}
	}
	return nil
}

// Run polls until Close. It returns the first epoll failure.
func (r *Reactor) Run(timeout time.Duration) error {
	if !r.started.CompareAndSwap(false, true) {
		return errors.New("reactor already running")
	}
	defer close(r.stopped)
	events := make([]unix.EpollEvent, r.maxEvents)
	for !r.closed.Load() {
		if err := r.Poll(events, timeout); err != nil {
			return err
		}
	}
	return nil
}

// Close stops Run and releases the epoll instance.
func (r *Reactor) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	var one [8]byte
	binary.LittleEndian.PutUint64(one[:], 1)
	_, _ = unix.Write(r.wakefd, one[:])
	if r.started.Load() {
		<-r.stopped
	}
	unix.Close(r.wakefd)
	return unix.Close(r.epfd)
}

func translate(raw uint32) Events {
	var ev Events
	if raw&unix.EPOLLOUT != 0 {
		ev |= EventWrite
	}
	if raw&unix.EPOLLERR != 0 {
		ev |= EventError
	}
	if raw&unix.EPOLLHUP != 0 {
		ev |= EventHangup
	}
	return ev
}

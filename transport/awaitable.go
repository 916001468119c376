// File: transport/awaitable.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-slot completion bridge reused across sends.

package transport

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-sock/api"
)

// AwaitableState is the lifecycle position of an Awaitable.
type AwaitableState int32

const (
	StateIdle AwaitableState = iota
	StateArmed
	StateResolved
)

func (s AwaitableState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateResolved:
		return "resolved"
	default:
		return "invalid"
	}
}

// Awaitable carries the outcome of one send at a time: idle → armed →
// resolved → idle. It is armed by the sender, resolved exactly once by the
// completion routine and consumed by a single waiter.
type Awaitable struct {
	state atomic.Int32
	_     cpu.CacheLinePad

	n   int
	err error

	// wake holds at most one token, sent on resolve.
	wake chan struct{}
}

func newAwaitable() *Awaitable {
	return &Awaitable{wake: make(chan struct{}, 1)}
}

// State returns the current lifecycle position.
func (a *Awaitable) State() AwaitableState {
	return AwaitableState(a.state.Load())
}

// IsCompleted reports whether the result is ready to be consumed.
func (a *Awaitable) IsCompleted() bool {
	return a.State() == StateResolved
}

// Wait blocks until the send completes, returns the transferred byte count
// and status, and returns the bridge to idle. Waiting on an idle bridge
// returns api.ErrNotArmed.
func (a *Awaitable) Wait() (int, error) {
	if a.State() == StateIdle {
		return 0, api.ErrNotArmed
	}
	<-a.wake
	n, err := a.n, a.err
	a.n, a.err = 0, nil
	a.state.Store(int32(StateIdle))
	return n, err
}

// arm panics with api.ErrAlreadyArmed when a send is already outstanding or
// its result was never consumed.
func (a *Awaitable) arm() {
	if !a.state.CompareAndSwap(int32(StateIdle), int32(StateArmed)) {
		panic(api.ErrAlreadyArmed)
	}
}

// resolve records the outcome and wakes the waiter.
// The result is stored before the state flips to resolved.
func (a *Awaitable) resolve(n int, err error) {
	if a.State() != StateArmed {
		panic(api.ErrNotArmed)
	}
	a.n, a.err = n, err
	if !a.state.CompareAndSwap(int32(StateArmed), int32(StateResolved)) {
		panic(api.ErrNotArmed)
	}
	a.wake <- struct{}{}
}

// File: pool/ring.go
// Author: momentics <momentics@gmail.com>
//
// Bounded FIFO used as the per-size-class free list.

package pool

import "sync"

// ring is a fixed-capacity FIFO (power-of-two size).
type ring[T any] struct {
	mu   sync.Mutex
	data []T
	mask uint64
	head uint64
	tail uint64
}

// newRing allocates a ring with size slots (must be power of two).
func newRing[T any](size uint64) *ring[T] {
	if size == 0 || (size&(size-1)) != 0 {
		panic("ring size must be power of two")
	}
	return &ring[T]{
		data: make([]T, size),
		mask: size - 1,
	}
}

// push adds an item; returns false if full.
func (r *ring[T]) push(val T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tail-r.head == uint64(len(r.data)) {
		return false
	}
	r.data[r.tail&r.mask] = val
	r.tail++
	return true
}

// pop removes the oldest item; ok==false if empty.
func (r *ring[T]) pop() (res T, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.head == r.tail {
		return res, false
	}
	idx := r.head & r.mask
	res = r.data[idx]
	var zero T
	r.data[idx] = zero
	r.head++
	return res, true
}

func (r *ring[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.tail - r.head)
}

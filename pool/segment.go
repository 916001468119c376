// File: pool/segment.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-sock/api"
)

// Segment is a pooled region of memory with a reference count. It starts
// with one reference; the final Release hands the memory back to the pool
// and detaches it from the segment.
type Segment struct {
	data []byte
	refs atomic.Int32
	pool *SlabPool
}

var _ api.PooledSegment = (*Segment)(nil)

// Len returns the segment size, or 0 once released.
func (s *Segment) Len() int {
	if s.refs.Load() <= 0 {
		return 0
	}
	return len(s.data)
}

// TryGetArray exposes the region while the segment holds references.
func (s *Segment) TryGetArray() (api.ArraySegment, bool) {
	if s.refs.Load() <= 0 {
		return api.ArraySegment{}, false
	}
	return api.NewArraySegment(s.data), true
}

// Bytes returns the writable region, nil once released.
func (s *Segment) Bytes() []byte {
	if s.refs.Load() <= 0 {
		return nil
	}
	return s.data
}

// Retain adds a reference.
func (s *Segment) Retain() {
	if s.refs.Add(1) <= 1 {
		panic("pool: retain of released segment")
	}
}

// Release drops a reference.
func (s *Segment) Release() {
	switch n := s.refs.Add(-1); {
	case n > 0:
		return
	case n < 0:
		panic("pool: segment released too many times")
	}
	data := s.data
	s.data = nil
	s.pool.put(data)
}

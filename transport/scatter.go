// File: transport/scatter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reusable scatter/gather descriptor list.

package transport

import (
	"sync/atomic"

	"github.com/momentics/hioload-sock/api"
)

const defaultScatterCapacity = 16

// ScatterList is a scratch arena of segment descriptors. It is empty before
// every Build and must be drained after the send that used it completes.
// It is not thread-safe, except for Len.
type ScatterList struct {
	segs []api.ArraySegment
	n    atomic.Int32 // mirrors len(segs) for concurrent readers
}

// NewScatterList preallocates room for capacity descriptors.
func NewScatterList(capacity int) *ScatterList {
	if capacity <= 0 {
		capacity = defaultScatterCapacity
	}
	return &ScatterList{segs: make([]api.ArraySegment, 0, capacity)}
}

// Build resolves every segment of buf, in order, into the list and returns
// it. buf is expected to be multi-segment and non-empty.
//
// Build panics with api.ErrScatterListNotEmpty when the list still holds
// descriptors of a previous send. If any segment is unsupported the list is
// left empty and the error returned.
func (l *ScatterList) Build(buf api.LogicalBuffer) ([]api.ArraySegment, error) {
	if len(l.segs) != 0 {
		panic(api.ErrScatterListNotEmpty)
	}
	n := buf.SegmentCount()
	for i := 0; i < n; i++ {
		a, err := GetArraySegment(buf.Segment(i))
		if err != nil {
			l.Drain()
			return nil, err
		}
		l.segs = append(l.segs, a)
	}
	l.n.Store(int32(len(l.segs)))
	return l.segs, nil
}

// Drain empties the list and drops every array reference it held.
func (l *ScatterList) Drain() {
	clear(l.segs)
	l.segs = l.segs[:0]
	l.n.Store(0)
}

// Len returns the number of descriptors currently held. It is safe to call
// from any goroutine.
func (l *ScatterList) Len() int {
	return int(l.n.Load())
}

// Cap returns the preallocated capacity.
func (l *ScatterList) Cap() int {
	return cap(l.segs)
}

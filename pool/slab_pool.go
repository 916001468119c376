// File: pool/slab_pool.go
// Package pool implements slab allocation with power-of-two size classes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"math/bits"
	"sync/atomic"

	"github.com/momentics/hioload-sock/api"
)

const (
	minClassShift = 6  // 64 B
	maxClassShift = 20 // 1 MiB

	defaultClassCapacity = 256
)

// SlabPool recycles segment memory by size class. Requests above the
// largest class are allocated directly and left to the GC on release.
type SlabPool struct {
	classes [maxClassShift - minClassShift + 1]*ring[[]byte]

	totalAlloc atomic.Int64
	totalReuse atomic.Int64
	inUse      atomic.Int64
}

var _ api.SegmentPool = (*SlabPool)(nil)

// NewSlabPool creates a pool keeping up to perClass idle regions in each
// size class. perClass is rounded up to a power of two.
func NewSlabPool(perClass int) *SlabPool {
	if perClass <= 0 {
		perClass = defaultClassCapacity
	}
	size := uint64(1) << bits.Len64(uint64(perClass-1))
	p := &SlabPool{}
	for i := range p.classes {
		p.classes[i] = newRing[[]byte](size)
	}
	return p
}

// classOf returns the size-class index for size, or -1 when unpooled.
func classOf(size int) int {
	switch {
	case size <= 1<<minClassShift:
		return 0
	case size > 1<<maxClassShift:
		return -1
	}
	return bits.Len(uint(size-1)) - minClassShift
}

// Get returns a segment of exactly size bytes holding one reference.
func (p *SlabPool) Get(size int) api.PooledSegment {
	return p.GetSegment(size)
}

// GetSegment is Get returning the concrete type.
func (p *SlabPool) GetSegment(size int) *Segment {
	if size < 0 {
		panic("pool: negative segment size")
	}
	var data []byte
	if c := classOf(size); c >= 0 {
		if buf, ok := p.classes[c].pop(); ok {
			data = buf[:size]
			p.totalReuse.Add(1)
		} else {
			data = make([]byte, size, 1<<(c+minClassShift))
			p.totalAlloc.Add(1)
		}
	} else {
		data = make([]byte, size)
		p.totalAlloc.Add(1)
	}
	p.inUse.Add(1)

	s := &Segment{data: data, pool: p}
	s.refs.Store(1)
	return s
}

func (p *SlabPool) put(data []byte) {
	p.inUse.Add(-1)
	c := classOf(cap(data))
	if c < 0 || cap(data) != 1<<(c+minClassShift) {
		return
	}
	p.classes[c].push(data[:cap(data)])
}

// Idle returns the number of recycled regions waiting for reuse.
func (p *SlabPool) Idle() int {
	n := 0
	for _, r := range p.classes {
		n += r.len()
	}
	return n
}

// Stats implements api.SegmentPool.
func (p *SlabPool) Stats() api.SegmentPoolStats {
	return api.SegmentPoolStats{
		TotalAlloc: p.totalAlloc.Load(),
		TotalReuse: p.totalReuse.Load(),
		InUse:      p.inUse.Load(),
	}
}

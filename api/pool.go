// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs for send-path segments.

package api

// PooledSegment is a Segment backed by pooled, pinned memory.
type PooledSegment interface {
	Segment

	// Bytes returns the writable region of the segment.
	Bytes() []byte

	// Retain adds a reference; every Retain needs a matching Release.
	Retain()

	// Release drops a reference. The last release returns the memory to its
	// pool, after which TryGetArray fails.
	Release()
}

// SegmentPool hands out pooled segments.
type SegmentPool interface {
	// Get returns a segment of exactly size bytes.
	Get(size int) PooledSegment

	// Stats exposes allocation/reuse counters.
	Stats() SegmentPoolStats
}

// SegmentPoolStats aggregates segment allocation/reuse stats.
type SegmentPoolStats struct {
	TotalAlloc int64
	TotalReuse int64
	InUse      int64
}

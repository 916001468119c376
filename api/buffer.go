// Package api
// Author: momentics <momentics@gmail.com>
//
// Borrowed, possibly multi-segment buffers handed to the send path.
//
// The send path never owns these buffers. Memory exposed through a Segment
// must stay valid and unmoved until the send that references it completes.

package api

// ArraySegment references Count bytes of Array starting at Offset.
// It is the descriptor handed to the OS during an in-flight send.
type ArraySegment struct {
	Array  []byte
	Offset int
	Count  int
}

// NewArraySegment describes the whole of b.
func NewArraySegment(b []byte) ArraySegment {
	return ArraySegment{Array: b, Offset: 0, Count: len(b)}
}

// Bytes returns the described region.
func (s ArraySegment) Bytes() []byte {
	if s.Array == nil {
		return nil
	}
	return s.Array[s.Offset : s.Offset+s.Count]
}

// IsZero reports whether the descriptor references nothing.
func (s ArraySegment) IsZero() bool {
	return s.Array == nil && s.Offset == 0 && s.Count == 0
}

// Segment is one contiguous run of bytes inside a LogicalBuffer.
type Segment interface {
	// Len returns the number of bytes in the segment.
	Len() int

	// TryGetArray exposes the segment as an array-backed region the OS can
	// read directly. ok is false when the storage cannot be exposed.
	TryGetArray() (seg ArraySegment, ok bool)
}

// LogicalBuffer is an immutable, possibly chained view over bytes to send.
type LogicalBuffer interface {
	// Len returns the total number of bytes across all segments.
	Len() int

	// IsEmpty reports whether the buffer holds no bytes.
	IsEmpty() bool

	// IsSingleSegment reports whether the bytes form one contiguous run.
	IsSingleSegment() bool

	// First returns the first segment.
	First() Segment

	// SegmentCount returns the number of segments.
	SegmentCount() int

	// Segment returns the i-th segment in transmission order.
	Segment(i int) Segment

	// Slice returns the view starting offset bytes into the buffer.
	Slice(offset int) LogicalBuffer
}

// File: buffer/sequence.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sequence is the chained LogicalBuffer produced by upstream buffering.

package buffer

import (
	"github.com/momentics/hioload-sock/api"
)

// Sequence is an ordered chain of segments forming one logical payload.
// Zero-length segments are dropped on construction.
type Sequence struct {
	segs  []api.Segment
	first api.Segment
	size  int
}

var _ api.LogicalBuffer = (*Sequence)(nil)

// NewSequence chains segs in order.
func NewSequence(segs ...api.Segment) *Sequence {
	s := &Sequence{segs: make([]api.Segment, 0, len(segs))}
	for _, seg := range segs {
		s.Append(seg)
	}
	return s
}

// Of chains heap byte slices in order.
func Of(bufs ...[]byte) *Sequence {
	s := &Sequence{segs: make([]api.Segment, 0, len(bufs))}
	for _, b := range bufs {
		s.Append(Bytes(b))
	}
	return s
}

// Split cuts b into consecutive segments of the given sizes; the remainder,
// if any, becomes the last segment.
func Split(b []byte, sizes ...int) *Sequence {
	s := &Sequence{segs: make([]api.Segment, 0, len(sizes)+1)}
	for _, n := range sizes {
		if n > len(b) {
			n = len(b)
		}
		s.Append(Bytes(b[:n:n]))
		b = b[n:]
	}
	s.Append(Bytes(b))
	return s
}

// Append adds seg to the end of the chain.
func (s *Sequence) Append(seg api.Segment) {
	if seg == nil || seg.Len() == 0 {
		return
	}
	s.segs = append(s.segs, seg)
	if len(s.segs) == 1 {
		s.first = seg
	}
	s.size += seg.Len()
}

// Len returns the total number of bytes.
func (s *Sequence) Len() int { return s.size }

// IsEmpty reports whether the sequence holds no bytes.
func (s *Sequence) IsEmpty() bool { return s.size == 0 }

// IsSingleSegment reports whether the sequence is one contiguous run.
func (s *Sequence) IsSingleSegment() bool { return len(s.segs) <= 1 }

// First returns the first segment, or nil when empty.
func (s *Sequence) First() api.Segment { return s.first }

// SegmentCount returns the number of segments.
func (s *Sequence) SegmentCount() int { return len(s.segs) }

// Segment returns the i-th segment.
func (s *Sequence) Segment(i int) api.Segment {
	if i == 0 {
		return s.first
	}
	return s.segs[i]
}

// Slice returns the view starting offset bytes in. The result shares the
// underlying segments.
func (s *Sequence) Slice(offset int) api.LogicalBuffer {
	if offset <= 0 {
		return s
	}
	if offset >= s.size {
		return &Sequence{}
	}
	for i := 0; i < len(s.segs); i++ {
		seg := s.Segment(i)
		n := seg.Len()
		if offset >= n {
			offset -= n
			continue
		}
		rest := s.segs[i:len(s.segs):len(s.segs)]
		out := &Sequence{segs: rest, first: rest[0], size: 0}
		if i == 0 {
			out.first = s.first
		}
		if offset > 0 {
			base, skip := unwrap(out.first)
			out.first = subSegment{seg: base, skip: skip + offset}
		}
		for j := range out.segs {
			out.size += out.Segment(j).Len()
		}
		return out
	}
	return &Sequence{}
}

// Flatten copies every byte of buf into a new slice. Segments that are
// neither Copiers nor exposable contribute zeros.
func Flatten(buf api.LogicalBuffer) []byte {
	out := make([]byte, buf.Len())
	off := 0
	for i := 0; i < buf.SegmentCount(); i++ {
		seg := buf.Segment(i)
		if c, ok := seg.(Copier); ok {
			c.CopyTo(out[off:])
		} else if a, ok := seg.TryGetArray(); ok {
			copy(out[off:], a.Bytes())
		}
		off += seg.Len()
	}
	return out
}

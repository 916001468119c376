// File: buffer/segment.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Segment kinds understood by the send path.

package buffer

import (
	"github.com/momentics/hioload-sock/api"
)

// Copier is implemented by segments that can copy their bytes out without
// exposing the underlying storage.
type Copier interface {
	CopyTo(dst []byte) int
}

// Bytes is a heap-backed segment. It is always exposable.
type Bytes []byte

// Len returns the segment length.
func (b Bytes) Len() int { return len(b) }

// TryGetArray exposes the whole slice.
func (b Bytes) TryGetArray() (api.ArraySegment, bool) {
	return api.NewArraySegment(b), true
}

// CopyTo copies the segment into dst.
func (b Bytes) CopyTo(dst []byte) int { return copy(dst, b) }

// String is a segment backed by string storage. Strings are immutable and
// cannot be handed out as a byte array, so TryGetArray always fails; copy
// the bytes into a Bytes segment before sending.
type String string

// Len returns the segment length.
func (s String) Len() int { return len(s) }

// TryGetArray always fails for string storage.
func (s String) TryGetArray() (api.ArraySegment, bool) {
	return api.ArraySegment{}, false
}

// CopyTo copies the segment into dst.
func (s String) CopyTo(dst []byte) int { return copy(dst, s) }

// subSegment is seg with the first skip bytes removed.
type subSegment struct {
	seg  api.Segment
	skip int
}

func (s subSegment) Len() int { return s.seg.Len() - s.skip }

func (s subSegment) TryGetArray() (api.ArraySegment, bool) {
	a, ok := s.seg.TryGetArray()
	if !ok {
		return api.ArraySegment{}, false
	}
	a.Offset += s.skip
	a.Count -= s.skip
	return a, true
}

func (s subSegment) CopyTo(dst []byte) int {
	if a, ok := s.TryGetArray(); ok {
		return copy(dst, a.Bytes())
	}
	if c, ok := s.seg.(Copier); ok {
		tmp := make([]byte, s.seg.Len())
		c.CopyTo(tmp)
		return copy(dst, tmp[s.skip:])
	}
	return 0
}

// unwrap returns the base segment and how many of its bytes are skipped.
func unwrap(seg api.Segment) (api.Segment, int) {
	if s, ok := seg.(subSegment); ok {
		return s.seg, s.skip
	}
	return seg, 0
}

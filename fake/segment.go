// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import "github.com/momentics/hioload-sock/api"

// Segment holds bytes that it refuses to expose as an array, like memory
// owned by a foreign allocator.
type Segment struct {
	data []byte
}

// NewSegment creates an unexposable segment over a copy of data.
func NewSegment(data []byte) *Segment {
	return &Segment{data: append([]byte(nil), data...)}
}

func (s *Segment) Len() int { return len(s.data) }

func (s *Segment) TryGetArray() (api.ArraySegment, bool) {
	return api.ArraySegment{}, false
}

// CopyTo copies the contents into dst.
func (s *Segment) CopyTo(dst []byte) int { return copy(dst, s.data) }

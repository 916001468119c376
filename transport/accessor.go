// File: transport/accessor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/api"
)

// GetArraySegment resolves seg into a region the OS can read directly.
// It fails with api.ErrUnsupportedSegment when the storage cannot be
// exposed; the failure is permanent for that segment.
func GetArraySegment(seg api.Segment) (api.ArraySegment, error) {
	if seg == nil {
		return api.ArraySegment{}, errors.Wrap(api.ErrUnsupportedSegment, "nil segment")
	}
	a, ok := seg.TryGetArray()
	if !ok {
		return api.ArraySegment{}, errors.Wrapf(api.ErrUnsupportedSegment, "%T", seg)
	}
	return a, nil
}

// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral reactor types.

package reactor

// Events is a set of readiness conditions reported for a descriptor.
type Events uint32

const (
	EventWrite Events = 1 << iota
	EventError
	EventHangup
)

// Has reports whether all of want are set.
func (e Events) Has(want Events) bool {
	return e&want == want
}

// Handler is invoked on the reactor goroutine when an armed descriptor
// becomes ready. It must not block.
type Handler func(fd int, ev Events)

// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Tunables of the completion machinery behind the OS sockets.

package control

import (
	"time"

	"github.com/pkg/errors"

	"github.com/momentics/hioload-sock/api"
)

// Config tunes the completion port and the portable writer sockets.
type Config struct {
	// MaxEvents is the epoll batch size of one reactor wait.
	MaxEvents int

	// PollTimeout bounds a single reactor wait.
	PollTimeout time.Duration

	// DispatchWorkers is the number of goroutines running deferred
	// completion callbacks.
	DispatchWorkers int

	// WriterQueue is the request backlog of a portable socket writer.
	// One send is outstanding per sender, so 1 suffices.
	WriterQueue int
}

// DefaultConfig returns the tunables used when none are supplied.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       128,
		PollTimeout:     100 * time.Millisecond,
		DispatchWorkers: 1,
		WriterQueue:     1,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.MaxEvents <= 0:
		return errors.Wrapf(api.ErrInvalidArgument, "max events %d", c.MaxEvents)
	case c.PollTimeout <= 0:
		return errors.Wrapf(api.ErrInvalidArgument, "poll timeout %s", c.PollTimeout)
	case c.DispatchWorkers <= 0:
		return errors.Wrapf(api.ErrInvalidArgument, "dispatch workers %d", c.DispatchWorkers)
	case c.WriterQueue <= 0:
		return errors.Wrapf(api.ErrInvalidArgument, "writer queue %d", c.WriterQueue)
	}
	return nil
}

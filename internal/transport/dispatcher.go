// File: internal/transport/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FIFO hand-off of finished requests to completion goroutines, so that
// callbacks never run on the reactor loop.

package transport

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-sock/api"
)

type dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	q      *queue.Queue
	closed bool
	wg     sync.WaitGroup
}

func newDispatcher(workers int) *dispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &dispatcher{q: queue.New()}
	d.cond = sync.NewCond(&d.mu)
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.run()
	}
	return d
}

// Post queues t for completion. After Close the callback runs on the
// calling goroutine.
func (d *dispatcher) Post(t api.Ticket) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		t.Complete()
		return
	}
	d.q.Add(t)
	d.mu.Unlock()
	d.cond.Signal()
}

// Len returns the number of queued completions.
func (d *dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.q.Length()
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		for d.q.Length() == 0 && !d.closed {
			d.cond.Wait()
		}
		if d.q.Length() == 0 {
			d.mu.Unlock()
			return
		}
		t := d.q.Remove().(api.Ticket)
		d.mu.Unlock()
		t.Complete()
	}
}

// Close delivers the queued completions and stops the workers.
func (d *dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()
	d.cond.Broadcast()
	d.wg.Wait()
}

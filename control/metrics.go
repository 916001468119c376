// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime counters for the send path.
// Counters are registered lazily by name and updated without locks.

package control

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metric names recorded by the socket sender.
const (
	MetricSends               = "sends"
	MetricSendsSingle         = "sends_single"
	MetricSendsScatter        = "sends_scatter"
	MetricSendsEmpty          = "sends_empty"
	MetricCompletionsSync     = "completions_sync"
	MetricCompletionsDeferred = "completions_deferred"
	MetricCompletionsDup      = "completions_duplicate"
	MetricBytesSent           = "bytes_sent"
	MetricShortSends          = "short_sends"
	MetricErrorsSocket        = "errors_socket"
	MetricErrorsUnsupported   = "errors_unsupported"
)

// Probe names registered by the socket sender, each prefixed with
// "<sender id>.".
const (
	ProbeScatterListLen = "scatter_list_len"
	ProbeAwaitableState = "awaitable_state"
)

// MetricsRegistry holds named monotonic counters.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
	updated  atomic.Int64
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]*atomic.Int64),
	}
}

// Counter returns the counter registered under key, creating it on first use.
// Callers on hot paths keep the returned pointer.
func (mr *MetricsRegistry) Counter(key string) *atomic.Int64 {
	mr.mu.RLock()
	c, ok := mr.counters[key]
	mr.mu.RUnlock()
	if ok {
		return c
	}
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if c, ok = mr.counters[key]; ok {
		return c
	}
	c = new(atomic.Int64)
	mr.counters[key] = c
	return c
}

// Add increments key by delta.
func (mr *MetricsRegistry) Add(key string, delta int64) {
	mr.Counter(key).Add(delta)
	mr.updated.Store(time.Now().UnixNano())
}

// Get returns the current value of key.
func (mr *MetricsRegistry) Get(key string) int64 {
	mr.mu.RLock()
	c, ok := mr.counters[key]
	mr.mu.RUnlock()
	if !ok {
		return 0
	}
	return c.Load()
}

// Updated returns the time of the last Add.
func (mr *MetricsRegistry) Updated() time.Time {
	ns := mr.updated.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// GetSnapshot returns the latest values of all counters.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.counters))
	for k, c := range mr.counters {
		out[k] = c.Load()
	}
	return out
}

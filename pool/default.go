package pool

import "sync"

var (
	defaultOnce sync.Once
	defaultPool *SlabPool
)

// Default returns the process-wide segment pool.
func Default() *SlabPool {
	defaultOnce.Do(func() {
		defaultPool = NewSlabPool(defaultClassCapacity)
	})
	return defaultPool
}

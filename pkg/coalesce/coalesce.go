// Package coalesce rate-limits high-frequency per-key update streams.
// The Coalescer merges updates per key and flushes them in periodic
// batches; Throttle and Debounce are simpler companions that bound the
// call rate of a single function without merging state.
package coalesce

import (
	"fmt"
	"sync"
	"time"
)

// Coalescer batches per-key updates and delivers them at most once per
// interval. Within a batch window the last value recorded for a key
// wins; the flush deadline is fixed relative to the first record of the
// cycle, it is not extended by later records.
type Coalescer[V any] struct {
	mu       sync.Mutex
	interval time.Duration
	flush    func(batch map[string]V)
	pending  map[string]V
	timer    *time.Timer
	stopped  bool
}

// NewCoalescer returns a coalescer that invokes flush with the merged
// batch. The interval must be positive.
func NewCoalescer[V any](interval time.Duration, flush func(batch map[string]V)) (*Coalescer[V], error) {
	if interval <= 0 {
		return nil, fmt.Errorf("coalescer interval must be positive, got %v", interval)
	}
	if flush == nil {
		return nil, fmt.Errorf("coalescer flush callback must not be nil")
	}
	return &Coalescer[V]{
		interval: interval,
		flush:    flush,
		pending:  make(map[string]V),
	}, nil
}

// Record stores value as the latest update for key, overwriting any
// unflushed value. The first record while idle arms the flush timer.
// Never blocks.
func (c *Coalescer[V]) Record(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	c.pending[key] = value
	if c.timer == nil {
		c.timer = time.AfterFunc(c.interval, c.fire)
	}
}

func (c *Coalescer[V]) fire() {
	c.mu.Lock()
	c.timer = nil
	if c.stopped {
		c.mu.Unlock()
		return
	}
	batch := c.pending
	c.pending = make(map[string]V)
	c.mu.Unlock()

	// Guard against a spurious fire with nothing recorded.
	if len(batch) == 0 {
		return
	}
	c.flush(batch)
}

// Stop cancels any armed timer and discards pending updates without
// flushing. Idempotent and safe to call while idle.
func (c *Coalescer[V]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = make(map[string]V)
}

// PendingLen reports how many keys are waiting for the next flush.
func (c *Coalescer[V]) PendingLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

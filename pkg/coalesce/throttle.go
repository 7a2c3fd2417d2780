package coalesce

import (
	"fmt"
	"sync"
	"time"
)

// Throttle invokes fn at most once per interval. The first call in a
// quiet period runs immediately; calls arriving before the interval
// elapses are collapsed into exactly one trailing invocation carrying
// the arguments of the last such call. Unlike the Coalescer it forwards
// raw arguments and never merges per-key state.
type Throttle[A any] struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func(A)
	timer    *time.Timer
	pending  bool
	lastArgs A
	stopped  bool
}

// NewThrottle returns a throttle around fn. The interval must be positive.
func NewThrottle[A any](interval time.Duration, fn func(A)) (*Throttle[A], error) {
	if interval <= 0 {
		return nil, fmt.Errorf("throttle interval must be positive, got %v", interval)
	}
	if fn == nil {
		return nil, fmt.Errorf("throttle fn must not be nil")
	}
	return &Throttle[A]{interval: interval, fn: fn}, nil
}

// Call requests an invocation of fn with args.
func (t *Throttle[A]) Call(args A) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	if t.timer != nil {
		// Inside an active window: remember args for the trailing edge.
		t.pending = true
		t.lastArgs = args
		t.mu.Unlock()
		return
	}

	// Quiet period: invoke immediately and open a window.
	t.timer = time.AfterFunc(t.interval, t.windowEnd)
	t.mu.Unlock()
	t.fn(args)
}

func (t *Throttle[A]) windowEnd() {
	t.mu.Lock()
	if t.stopped {
		t.timer = nil
		t.mu.Unlock()
		return
	}
	if !t.pending {
		t.timer = nil
		t.mu.Unlock()
		return
	}
	args := t.lastArgs
	t.pending = false
	// Re-arm so the trailing invocation starts its own window,
	// preserving the one-per-interval bound under sustained load.
	t.timer = time.AfterFunc(t.interval, t.windowEnd)
	t.mu.Unlock()
	t.fn(args)
}

// Stop cancels any armed timer and discards the pending invocation.
// Idempotent.
func (t *Throttle[A]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Debounce delays fn until wait has elapsed with no further calls, then
// invokes it once with the arguments of the final call.
type Debounce[A any] struct {
	mu       sync.Mutex
	wait     time.Duration
	fn       func(A)
	timer    *time.Timer
	lastArgs A
	stopped  bool
}

// NewDebounce returns a debouncer around fn. The wait must be positive.
func NewDebounce[A any](wait time.Duration, fn func(A)) (*Debounce[A], error) {
	if wait <= 0 {
		return nil, fmt.Errorf("debounce wait must be positive, got %v", wait)
	}
	if fn == nil {
		return nil, fmt.Errorf("debounce fn must not be nil")
	}
	return &Debounce[A]{wait: wait, fn: fn}, nil
}

// Call records args and resets the deadline.
func (d *Debounce[A]) Call(args A) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.lastArgs = args
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.expire)
}

func (d *Debounce[A]) expire() {
	d.mu.Lock()
	d.timer = nil
	if d.stopped {
		d.mu.Unlock()
		return
	}
	args := d.lastArgs
	d.mu.Unlock()
	d.fn(args)
}

// Stop cancels the pending invocation, if any. Idempotent.
func (d *Debounce[A]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

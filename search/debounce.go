// Package search holds the sort and free-text search state of a table.
//
// Keystrokes are collapsed by a Debouncer: every new value cancels the
// pending timer and starts a new one, and only the value that survives the
// full delay is emitted.
package search

import (
	"sync"
	"time"
)

// DefaultDelay is the debounce delay used when none is configured.
const DefaultDelay = 500 * time.Millisecond

// Debouncer delays values until input has been quiet for a fixed delay.
// It is safe for concurrent use. Emission happens on the timer goroutine.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	emit    func(T)
	timer   *time.Timer
	gen     uint64
	pending bool
	value   T
	stopped bool
}

// NewDebouncer returns a Debouncer calling emit with each settled value.
// A non-positive delay uses DefaultDelay.
func NewDebouncer[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{delay: delay, emit: emit}
}

// Delay returns the configured delay.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Push replaces the pending value and restarts the timer. Values pushed
// after Stop are dropped.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.value = v
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

// Flush emits the pending value right away, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.fire(0)
}

// Pending reports whether a value is waiting for its timer.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels the pending timer and drops its value. The Debouncer emits
// nothing afterwards.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire emits the pending value when gen is still current. A timer that
// already fired while being replaced carries an old gen and is ignored.
// Gen 0 forces emission.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || d.stopped || (gen != 0 && gen != d.gen) {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	if d.emit != nil {
		d.emit(v)
	}
}

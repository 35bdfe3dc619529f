// Package debounce collapses bursts of calls into the last one.
package debounce

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet interval used by search inputs.
const DefaultWindow = 300 * time.Millisecond

// Timer is the subset of *time.Timer used by Debouncer.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer invokes fn with the latest value once no new value has arrived
// for the window. At most one call is pending at a time.
type Debouncer[T any] struct {
	window    time.Duration
	fn        func(T)
	afterFunc AfterFunc

	mu      sync.Mutex
	timer   Timer
	seq     uint64
	pending bool
	value   T
}

// New returns a Debouncer. A non-positive window uses DefaultWindow.
func New[T any](window time.Duration, fn func(T)) *Debouncer[T] {
	return NewWithClock(window, fn, realAfterFunc)
}

// NewWithClock is New with an injectable timer source.
func NewWithClock[T any](window time.Duration, fn func(T), afterFunc AfterFunc) *Debouncer[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer[T]{window: window, fn: fn, afterFunc: afterFunc}
}

// Window returns the quiet interval.
func (d *Debouncer[T]) Window() time.Duration {
	return d.window
}

// Call replaces any pending value with v and restarts the window.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.value = v
	d.pending = true
	d.timer = d.afterFunc(d.window, func() { d.fire(seq) })
}

// Pending reports whether a call is waiting for the window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop drops the pending call, if any.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
	var zero T
	d.value = zero
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// A timer that lost the race with Stop or a newer Call is stale.
	if seq != d.seq || !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.fn(v)
}

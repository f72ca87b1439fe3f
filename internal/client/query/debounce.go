package query

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc in production.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delivers the last pushed value once no new value has arrived for
// a full window. Earlier values in a burst are dropped.
type Debouncer[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	after   AfterFunc
	fire    func(T)
	timer   Timer
	seq     uint64
	pending T
	armed   bool
}

func NewDebouncer[T any](window time.Duration, fire func(T)) *Debouncer[T] {
	return &Debouncer[T]{window: window, after: realAfterFunc, fire: fire}
}

// Push replaces any pending value with v and restarts the window.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = v
	d.armed = true
	d.timer = d.after(d.window, func() { d.expire(seq) })
}

func (d *Debouncer[T]) expire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.armed {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.mu.Unlock()

	d.fire(v)
}

// take clears the pending value; d.mu must be held.
func (d *Debouncer[T]) take() T {
	v := d.pending
	var zero T
	d.pending = zero
	d.armed = false
	d.timer = nil
	return v
}

// Cancel drops the pending value, if any. It reports whether one was dropped.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.armed {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	d.take()
	return true
}

// Flush delivers the pending value now instead of waiting for the window.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	v := d.take()
	d.mu.Unlock()

	d.fire(v)
	return true
}

// Pending returns the value waiting to be delivered.
func (d *Debouncer[T]) Pending() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.armed
}

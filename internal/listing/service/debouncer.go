package service

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending value. Every Push replaces it and
// restarts the delay; when the delay runs out the latest value is handed to
// fire and anything pushed before it is gone.
type Debouncer[T any] struct {
	mu         sync.Mutex
	delay      time.Duration
	fire       func(T)
	timer      *time.Timer
	pending    T
	hasPending bool
	gen        uint64
}

func NewDebouncer[T any](delay time.Duration, fire func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fire: fire}
}

func (d *Debouncer[T]) Push(v T) {
	if d.delay <= 0 {
		d.Stop()
		d.fire(v)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = v
	d.hasPending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.expire(gen) })
}

// Flush fires the pending value now, if there is one.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	v, ok := d.take()
	d.mu.Unlock()
	if ok {
		d.fire(v)
	}
}

// Stop drops the pending value without firing it.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.take()
}

// Pending reports whether a value is waiting for its delay.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

func (d *Debouncer[T]) expire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		// a later Push, Flush or Stop already superseded this timer
		d.mu.Unlock()
		return
	}
	v, ok := d.take()
	d.mu.Unlock()
	if ok {
		d.fire(v)
	}
}

// take must be called with mu held.
func (d *Debouncer[T]) take() (T, bool) {
	var zero T
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	if !d.hasPending {
		return zero, false
	}
	v := d.pending
	d.pending = zero
	d.hasPending = false
	return v, true
}

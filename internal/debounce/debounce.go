// Package debounce delays a rapidly changing value until it has been
// stable for a quiet period.
package debounce

import (
	"sync"
	"time"
)

// DefaultWait is the quiet period used by the search box.
const DefaultWait = 500 * time.Millisecond

// Debouncer delivers the last value pushed once no newer value has arrived
// for the wait period. Every Push cancels the pending timer and starts a
// new one, so only the final value of a burst reaches C.
type Debouncer[T any] struct {
	wait time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	has     bool
	gen     uint64
	stopped bool
	out     chan T
}

// New returns a debouncer with the given quiet period.
func New[T any](wait time.Duration) *Debouncer[T] {
	if wait < 0 {
		wait = 0
	}
	return &Debouncer[T]{
		wait: wait,
		out:  make(chan T, 1),
	}
}

// C is where settled values arrive. It is closed by Stop.
func (d *Debouncer[T]) C() <-chan T { return d.out }

// Push schedules v, replacing anything still pending.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = v
	d.has = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Pending reports whether a value is waiting for its timer.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.has
}

// Flush delivers the pending value now, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || !d.has {
		return
	}
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.has = false
	d.deliver(d.pending)
}

// Stop drops the pending value and closes C. Push after Stop is ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
	}
	close(d.out)
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// A timer that lost the race with Stop/Push still runs; gen tells.
	if d.stopped || !d.has || gen != d.gen {
		return
	}
	d.has = false
	d.deliver(d.pending)
}

// deliver must hold mu. An unread older value is replaced.
func (d *Debouncer[T]) deliver(v T) {
	select {
	case d.out <- v:
	default:
		select {
		case <-d.out:
		default:
		}
		d.out <- v
	}
}

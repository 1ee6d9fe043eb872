package appshell

import "sync"

// sharedQueue is the storage behind an Enqueuer/Dequeuer pair.
// The mutex is held only for an append or a slice swap.
type sharedQueue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
}

// Enqueuer is the producer half of a deferred-callback queue.
// It is safe for concurrent use and may be shared freely between goroutines.
type Enqueuer[T any] struct {
	q *sharedQueue[T]
}

// Dequeuer is the consumer half of a deferred-callback queue.
// Drain must only be called from the UI thread.
type Dequeuer[T any] struct {
	q *sharedQueue[T]
}

// NewQueue creates a queue and returns its producer and consumer halves.
func NewQueue[T any]() (*Enqueuer[T], *Dequeuer[T]) {
	q := &sharedQueue[T]{}
	return &Enqueuer[T]{q: q}, &Dequeuer[T]{q: q}
}

// Enqueue appends v and reports whether the caller must request a wake.
// It returns true only for the first value enqueued after the queue was
// last drained; further values ride on the wake that is already pending.
// Values enqueued after Close are discarded and never need a wake.
func (e *Enqueuer[T]) Enqueue(v T) (needsWake bool) {
	e.q.mu.Lock()
	if e.q.closed {
		e.q.mu.Unlock()
		return false
	}
	needsWake = len(e.q.items) == 0
	e.q.items = append(e.q.items, v)
	e.q.mu.Unlock()
	return needsWake
}

// Drain removes and returns every queued value in FIFO order.
// Values enqueued after Drain returns are kept for the next drain.
func (d *Dequeuer[T]) Drain() []T {
	d.q.mu.Lock()
	items := d.q.items
	d.q.items = nil
	d.q.mu.Unlock()
	return items
}

// Len returns the number of values waiting to be drained.
func (d *Dequeuer[T]) Len() int {
	d.q.mu.Lock()
	defer d.q.mu.Unlock()
	return len(d.q.items)
}

// Close discards pending values and turns later enqueues into no-ops.
func (d *Dequeuer[T]) Close() {
	d.q.mu.Lock()
	d.q.closed = true
	d.q.items = nil
	d.q.mu.Unlock()
}

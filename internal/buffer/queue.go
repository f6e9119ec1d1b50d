package buffer

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Push once the consumer has closed the queue.
var ErrClosed = errors.New("queue closed")

// Queue is an unbounded FIFO with any number of producers and a single
// consumer. Producers never block; the consumer polls with TryPop and learns
// about new items through Ready.
//
// Usage:
//
//	q := buffer.NewQueue[string](16)
//	q.Push("hello")
//	<-q.Ready()
//	msg, ok := q.TryPop()
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

// NewQueue returns an empty queue. initialCap sizes the backing slice.
func NewQueue[T any](initialCap int) *Queue[T] {
	if initialCap < 0 {
		initialCap = 0
	}
	return &Queue[T]{
		items: make([]T, 0, initialCap),
		ready: make(chan struct{}, 1),
	}
}

// Push appends v. Items pushed by one goroutine are popped in the same order.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, v)
	q.mu.Unlock()
	q.signal()
	return nil
}

// TryPop removes the oldest item without blocking.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		// Let the backing array be collected after bursts.
		q.items = q.items[:0:0]
	}
	return v, true
}

// Ready fires at least once after every Push and after Close. Several pushes
// may coalesce into a single signal, so consumers drain with TryPop.
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}

// Len reports the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close rejects further pushes and hands back whatever was still queued so
// the consumer can settle it. Closing twice returns nil the second time.
func (q *Queue[T]) Close() []T {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	rest := q.items
	q.items = nil
	q.mu.Unlock()
	q.signal()
	return rest
}

func (q *Queue[T]) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

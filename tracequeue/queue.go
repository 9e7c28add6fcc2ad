// Package tracequeue provides the blocking queue that carries events
// from emitting goroutines to a single consumer.
package tracequeue

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrClosed is returned by Push, Pop, and Transfer once the queue is
// closed.  Pop and Transfer only fail after the queue is also empty.
var ErrClosed = errors.New("tracequeue: closed")

// Queue is a multi-producer/single-consumer FIFO.  Producers Push
// from any goroutine; the consumer drains with Pop or, preferably,
// Transfer.  FIFO order holds across all producers: if one Push
// happens-before another, it is observed first.
type Queue[T any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    []T
	closed   bool
}

func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

// Push enqueues v.  It fails with ErrClosed after Close.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items = append(q.items, v)
	if len(q.items) == 1 {
		q.nonEmpty.Signal()
	}
	return nil
}

// Pop blocks until an element is available and returns it.  Once the
// queue is closed, remaining elements are still returned in order;
// after that Pop fails with ErrClosed.
func (q *Queue[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.nonEmpty.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, ErrClosed
	}
	v := q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return v, nil
}

// Transfer blocks until at least one element is available, then moves
// the entire queue contents into dst (appending, FIFO order) in one
// critical section.  This amortizes lock traffic for the consumer:
// one acquisition per batch instead of one per event.
func (q *Queue[T]) Transfer(dst *[]T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.nonEmpty.Wait()
	}
	if len(q.items) == 0 {
		return ErrClosed
	}
	*dst = append(*dst, q.items...)
	q.items = q.items[:0]
	return nil
}

// Close marks the queue closed and wakes all waiters.  Idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.nonEmpty.Broadcast()
}

// Len reports the current queue depth.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Package event provides the tick-scoped event queue. A Queue is strictly
// single-consumer: the one handler passed at construction drains every
// buffered event on Flush. When several reactions to the same event are
// needed, fan them out inside that handler; attaching a second queue to the
// same producer would leave one of them observing nothing.
package event

// Queue buffers fire-and-forget events between systems within one tick. The
// runner flushes it once after all systems have run.
type Queue[T any] struct {
	handler func(T)
	buf     []T
}

// NewQueue creates a queue draining into handler.
func NewQueue[T any](handler func(T)) *Queue[T] {
	return &Queue[T]{
		handler: handler,
		buf:     make([]T, 0, 16),
	}
}

// Push appends an event. Events are held until the next Flush.
func (q *Queue[T]) Push(ev T) {
	q.buf = append(q.buf, ev)
}

// Flush invokes the handler once per buffered event in push order, then
// clears the buffer. Events pushed by the handler itself are delivered in the
// same flush, after everything already buffered.
func (q *Queue[T]) Flush() {
	// Index loop: the handler may push more events while we drain.
	for i := 0; i < len(q.buf); i++ {
		q.handler(q.buf[i])
	}
	q.buf = q.buf[:0]
}

// Len returns the number of buffered, not yet flushed events.
func (q *Queue[T]) Len() int { return len(q.buf) }

// Flusher is the type-erased face of a Queue, used by the runner to flush
// queues of different event types in attachment order.
type Flusher interface {
	Flush()
}

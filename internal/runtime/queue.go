package runtime

import (
	"sync"

	"synthgraph/internal/graph"
)

// EventQueue is the unbounded multi-producer/single-consumer queue of
// spec.md §4.7 and §5: any number of goroutines push messages, and the
// audio thread alone drains them once per callback. A mutex-protected
// slice gives FIFO order per producer without a fixed capacity;
// Drain's caller (the audio callback) is the sole consumer, so no lock
// is held while applying events.
type EventQueue struct {
	mu      sync.Mutex
	pending []*graph.Message
}

// NewEventQueue builds an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push enqueues msg. Never blocks (spec.md §5 "senders never block").
func (q *EventQueue) Push(msg *graph.Message) {
	q.mu.Lock()
	q.pending = append(q.pending, msg)
	q.mu.Unlock()
}

// Drain removes and returns every message queued so far, in FIFO send
// order per producer (spec.md §5 "Events sent from the same producer
// preserve their send order").
func (q *EventQueue) Drain() []*graph.Message {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return nil
	}
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}

package event

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultCapacity is the default number of pending events
const DefaultCapacity = 8

// Queue is a bounded FIFO of events. Any number of producers may push; a
// single consumer pops. Pushing never blocks: when the queue is full the
// event is dropped.
type Queue struct {
	ch      chan Event
	dropped atomic.Uint64
}

// NewQueue creates a queue holding up to capacity events. A non-positive
// capacity selects DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan Event, capacity)}
}

// TryPush enqueues a copy of e without waiting. It reports false if the
// queue was full and the event was dropped.
func (q *Queue) TryPush(e Event) bool {
	select {
	case q.ch <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// PushKey enqueues a key press. Other keys are dropped like any event when
// the queue is full, but the exit key is offered again every retry until it
// is accepted or ctx is done.
func (q *Queue) PushKey(ctx context.Context, in KeyInput, retry time.Duration) bool {
	e := Input(in.Key, in.Type)
	if !in.IsExit() {
		return q.TryPush(e)
	}

	t := time.NewTicker(retry)
	defer t.Stop()
	for !q.TryPush(e) {
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
	return true
}

// Next blocks until an event is available and returns it
func (q *Queue) Next() Event {
	return <-q.ch
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Dropped returns the number of events discarded because the queue was full
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

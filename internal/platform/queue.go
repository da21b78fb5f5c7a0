package platform

import "sync"

// Queue is a thread-safe FIFO of events for drivers that do not have a
// native event queue.
type Queue struct {
	mu     sync.Mutex
	events []Event
	ready  chan struct{}
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends an event and wakes a waiting reader.
// Events pushed after Close are dropped.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.events = append(q.events, ev)
	select {
	case q.ready <- struct{}{}:
	default:
	}
	q.mu.Unlock()
}

// Poll removes and returns the oldest event, if any.
func (q *Queue) Poll() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	return ev, true
}

// Wait blocks until an event is available or the queue is closed.
// Events queued before Close are still delivered.
func (q *Queue) Wait() (Event, error) {
	for {
		if ev, ok := q.Poll(); ok {
			return ev, nil
		}
		q.mu.Lock()
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return Event{}, ErrQueueClosed
		}
		<-q.ready
	}
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Clear drops all pending events and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.events)
	clear(q.events)
	q.events = q.events[:0]
	select {
	case <-q.ready:
	default:
	}
	return n
}

// Close wakes all waiters; subsequent waits on an empty queue fail.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ready)
}

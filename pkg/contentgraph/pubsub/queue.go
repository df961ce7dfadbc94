package pubsub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tendant/simple-graph/pkg/contentgraph"
)

// Queue adapts a synchronous listener into a bounded buffer drained by its
// own consumer. When the buffer is full the incoming event is dropped so the
// publisher never waits on a slow consumer.
type Queue struct {
	mu      sync.Mutex
	events  chan contentgraph.Event
	closed  bool
	dropped atomic.Uint64
}

// NewQueue creates a queue holding up to size undelivered events.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		events: make(chan contentgraph.Event, size),
	}
}

// Listener returns the function to subscribe with.
func (q *Queue) Listener() contentgraph.Listener {
	return func(ctx context.Context, event contentgraph.Event) {
		q.push(event)
	}
}

func (q *Queue) push(event contentgraph.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	select {
	case q.events <- event:
	default:
		q.dropped.Add(1)
	}
}

// Events returns the channel events are buffered on. It is closed by Close.
func (q *Queue) Events() <-chan contentgraph.Event {
	return q.events
}

// Dropped returns how many events were discarded because the buffer was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Close stops accepting events. Buffered events stay readable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.events)
}

// Run calls handle for each event until the queue is closed and drained,
// ctx is cancelled or handle returns an error.
func (q *Queue) Run(ctx context.Context, handle func(contentgraph.Event) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-q.events:
			if !ok {
				return nil
			}
			if err := handle(event); err != nil {
				return err
			}
		}
	}
}

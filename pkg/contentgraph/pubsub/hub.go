// Package pubsub provides the topic-keyed broker used to deliver content
// graph change events to listeners.
package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tendant/simple-graph/pkg/contentgraph"
)

// Hub is a synchronous topic-keyed publish/subscribe broker. Publish calls
// each listener on the exact topic in registration order before returning.
// The hub keeps no history: late subscribers never see earlier events.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string][]*subscription
	logger *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the logger used for delivery traces and recovered
// listener panics.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates an empty hub.
func New(opts ...HubOption) *Hub {
	h := &Hub{
		topics: make(map[string][]*subscription),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish delivers event to every listener registered on topic.
func (h *Hub) Publish(ctx context.Context, topic string, event contentgraph.Event) {
	subs := h.snapshot(topic)

	h.logger.DebugContext(ctx, "Publishing event",
		"topic", topic,
		"mutation", event.Mutation,
		"listeners", len(subs),
	)

	for _, sub := range subs {
		// A listener unsubscribed earlier in this fan-out is skipped.
		if !sub.active() {
			continue
		}
		if err := deliver(ctx, sub, event); err != nil {
			h.logger.ErrorContext(ctx, "Listener failed", "topic", topic, "subscription", sub.id, "error", err)
		}
	}
}

// Subscribe registers listener on topic and returns its handle.
func (h *Hub) Subscribe(topic string, listener contentgraph.Listener) contentgraph.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &subscription{
		id:       h.nextID,
		topic:    topic,
		listener: listener,
		hub:      h,
	}
	h.topics[topic] = append(h.topics[topic], sub)
	return sub
}

// Unsubscribe removes sub from the hub. Unknown or already removed
// subscriptions are ignored.
func (h *Hub) Unsubscribe(sub contentgraph.Subscription) {
	if s, ok := sub.(*subscription); ok && s.hub == h {
		s.Unsubscribe()
	}
}

// Listeners returns the number of listeners registered on topic.
func (h *Hub) Listeners(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// snapshot returns a stable copy of the listeners on topic so delivery runs
// without holding the lock.
func (h *Hub) snapshot(topic string) []*subscription {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := h.topics[topic]
	if len(subs) == 0 {
		return nil
	}
	return append([]*subscription(nil), subs...)
}

func (h *Hub) remove(sub *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.topics[sub.topic]
	for i, s := range subs {
		if s == sub {
			subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(h.topics, sub.topic)
		return
	}
	h.topics[sub.topic] = subs
}

// deliver runs one listener and converts a panic into an error.
func deliver(ctx context.Context, sub *subscription, event contentgraph.Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("subscription %d: panic recovered: %v", sub.id, recovered)
		}
	}()

	sub.listener(ctx, event)
	return nil
}

type subscription struct {
	id       uint64
	topic    string
	listener contentgraph.Listener
	hub      *Hub

	mu     sync.Mutex
	closed bool
}

func (s *subscription) Topic() string {
	return s.topic
}

func (s *subscription) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.hub.remove(s)
}

func (s *subscription) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

var _ contentgraph.Broker = (*Hub)(nil)

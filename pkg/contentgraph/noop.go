package contentgraph

import (
	"context"
)

// NoopBroker is a no-operation implementation of Broker.
// Useful when change notifications are not needed or for testing
type NoopBroker struct{}

// NewNoopBroker creates a new no-operation broker
func NewNoopBroker() Broker {
	return &NoopBroker{}
}

// Publish drops the event
func (n *NoopBroker) Publish(ctx context.Context, topic string, event Event) {}

// Subscribe returns a subscription that never receives events
func (n *NoopBroker) Subscribe(topic string, listener Listener) Subscription {
	return noopSubscription(topic)
}

type noopSubscription string

func (s noopSubscription) Topic() string { return string(s) }

func (s noopSubscription) Unsubscribe() {}

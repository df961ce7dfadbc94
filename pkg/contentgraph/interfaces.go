package contentgraph

import (
	"context"
)

// Repository defines the interface for entity persistence. Implementations
// keep insertion order, which is observable through the List methods, and
// return copies so callers never alias stored records. A nil match selects
// every record.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, match func(*User) bool) ([]*User, error)

	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context, match func(*Post) bool) ([]*Post, error)

	// Comment operations
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id string) (*Comment, error)
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, id string) (*Comment, error)
	ListComments(ctx context.Context, match func(*Comment) bool) ([]*Comment, error)
	// DeleteComments removes every comment selected by match and returns
	// the removed records in store order.
	DeleteComments(ctx context.Context, match func(*Comment) bool) ([]*Comment, error)
}

// Listener receives events published on a topic it subscribed to.
type Listener func(ctx context.Context, event Event)

// Subscription is the handle returned by Broker.Subscribe.
type Subscription interface {
	// Topic returns the topic the subscription listens on
	Topic() string

	// Unsubscribe removes the listener. Calling it more than once is a no-op.
	Unsubscribe()
}

// Broker defines the interface for topic-addressed event delivery
type Broker interface {
	// Publish delivers event to every listener currently subscribed to topic
	Publish(ctx context.Context, topic string, event Event)

	// Subscribe registers listener on topic
	Subscribe(topic string, listener Listener) Subscription
}

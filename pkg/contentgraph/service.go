package contentgraph

import (
	"context"
)

// Service defines the main interface for the content graph.
//
// Operations are serialized: at most one runs at a time. Events produced by
// a mutation are delivered before the mutation returns. Listeners may call
// any method while handling an event. A mutation called with the listener's
// context nests: it returns once committed and its events are delivered
// after the event being handled.
type Service interface {
	Resolver

	// Query operations. An empty query returns the whole collection in
	// store order; otherwise results are filtered by case-insensitive
	// substring match.
	ListUsers(ctx context.Context, query string) ([]*User, error)
	ListPosts(ctx context.Context, query string) ([]*Post, error)
	ListComments(ctx context.Context, query string) ([]*Comment, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	GetComment(ctx context.Context, id string) (*Comment, error)
	Me(ctx context.Context) Profile

	// User mutations
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error)
	DeleteUser(ctx context.Context, id string) (*User, error)

	// Post mutations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	UpdatePost(ctx context.Context, id string, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id string) (*Post, error)

	// Comment mutations
	CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error)
	UpdateComment(ctx context.Context, id string, req UpdateCommentRequest) (*Comment, error)
	DeleteComment(ctx context.Context, id string) (*Comment, error)

	// Subscription operations
	Subscribe(ctx context.Context, topic string, listener Listener) (Subscription, error)
	SubscribePosts(ctx context.Context, listener Listener) (Subscription, error)
	SubscribeComments(ctx context.Context, postID string, listener Listener) (Subscription, error)
}

// Resolver derives linked entities for nested fields. Results are computed
// on every call. A reference to a missing entity resolves to nil.
type Resolver interface {
	PostAuthor(ctx context.Context, post *Post) (*User, error)
	PostComments(ctx context.Context, post *Post) ([]*Comment, error)
	UserPosts(ctx context.Context, user *User) ([]*Post, error)
	UserComments(ctx context.Context, user *User) ([]*Comment, error)
	CommentAuthor(ctx context.Context, comment *Comment) (*User, error)
	CommentPost(ctx context.Context, comment *Comment) (*Post, error)
}

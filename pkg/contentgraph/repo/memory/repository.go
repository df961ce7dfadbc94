package memory

import (
	"context"
	"sync"

	"github.com/tendant/simple-graph/pkg/contentgraph"
)

// Repository implements contentgraph.Repository using in-memory storage.
// Records are kept in insertion order.
type Repository struct {
	mu       sync.RWMutex
	users    *collection[contentgraph.User]
	posts    *collection[contentgraph.Post]
	comments *collection[contentgraph.Comment]
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		users: newCollection(
			func(u *contentgraph.User) string { return u.ID },
			(*contentgraph.User).Clone,
		),
		posts: newCollection(
			func(p *contentgraph.Post) string { return p.ID },
			(*contentgraph.Post).Clone,
		),
		comments: newCollection(
			func(c *contentgraph.Comment) string { return c.ID },
			(*contentgraph.Comment).Clone,
		),
	}
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *contentgraph.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.users.insert(user) {
		return contentgraph.ErrDuplicateID
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (*contentgraph.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users.get(id)
	if !exists {
		return nil, contentgraph.ErrUserNotFound
	}
	return user, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *contentgraph.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.users.replace(user) {
		return contentgraph.ErrUserNotFound
	}
	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, id string) (*contentgraph.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.users.remove(id)
	if !exists {
		return nil, contentgraph.ErrUserNotFound
	}
	return user, nil
}

func (r *Repository) ListUsers(ctx context.Context, match func(*contentgraph.User) bool) ([]*contentgraph.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.users.list(match), nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *contentgraph.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.posts.insert(post) {
		return contentgraph.ErrDuplicateID
	}
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id string) (*contentgraph.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts.get(id)
	if !exists {
		return nil, contentgraph.ErrPostNotFound
	}
	return post, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *contentgraph.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.posts.replace(post) {
		return contentgraph.ErrPostNotFound
	}
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id string) (*contentgraph.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts.remove(id)
	if !exists {
		return nil, contentgraph.ErrPostNotFound
	}
	return post, nil
}

func (r *Repository) ListPosts(ctx context.Context, match func(*contentgraph.Post) bool) ([]*contentgraph.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.posts.list(match), nil
}

// Comment operations

func (r *Repository) CreateComment(ctx context.Context, comment *contentgraph.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.comments.insert(comment) {
		return contentgraph.ErrDuplicateID
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id string) (*contentgraph.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments.get(id)
	if !exists {
		return nil, contentgraph.ErrCommentNotFound
	}
	return comment, nil
}

func (r *Repository) UpdateComment(ctx context.Context, comment *contentgraph.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.comments.replace(comment) {
		return contentgraph.ErrCommentNotFound
	}
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, id string) (*contentgraph.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, exists := r.comments.remove(id)
	if !exists {
		return nil, contentgraph.ErrCommentNotFound
	}
	return comment, nil
}

func (r *Repository) ListComments(ctx context.Context, match func(*contentgraph.Comment) bool) ([]*contentgraph.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.comments.list(match), nil
}

func (r *Repository) DeleteComments(ctx context.Context, match func(*contentgraph.Comment) bool) ([]*contentgraph.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.comments.removeWhere(match), nil
}

var _ contentgraph.Repository = (*Repository)(nil)

package contentgraph

import (
	"context"
	"errors"
)

func (s *service) PostAuthor(ctx context.Context, post *Post) (*User, error) {
	return s.lookupUser(ctx, post.Author)
}

func (s *service) PostComments(ctx context.Context, post *Post) ([]*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repository.ListComments(ctx, func(c *Comment) bool {
		return c.Post == post.ID
	})
}

func (s *service) UserPosts(ctx context.Context, user *User) ([]*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repository.ListPosts(ctx, func(p *Post) bool {
		return p.Author == user.ID
	})
}

func (s *service) UserComments(ctx context.Context, user *User) ([]*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repository.ListComments(ctx, func(c *Comment) bool {
		return c.Author == user.ID
	})
}

func (s *service) CommentAuthor(ctx context.Context, comment *Comment) (*User, error) {
	return s.lookupUser(ctx, comment.Author)
}

func (s *service) CommentPost(ctx context.Context, comment *Comment) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.repository.GetPost(ctx, comment.Post)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return post, err
}

// lookupUser resolves a user reference; a dangling reference yields nil.
func (s *service) lookupUser(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.repository.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return user, err
}

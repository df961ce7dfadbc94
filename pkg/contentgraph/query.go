package contentgraph

import (
	"context"
)

// me is the fixed placeholder profile. It is not backed by the repository.
var me = Profile{
	ID:    "123098",
	Name:  "Roman",
	Email: "roman@example.com",
}

func (s *service) ListUsers(ctx context.Context, query string) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		return s.repository.ListUsers(ctx, nil)
	}
	return s.repository.ListUsers(ctx, func(u *User) bool {
		return ContainsFold(u.Name, query)
	})
}

func (s *service) ListPosts(ctx context.Context, query string) ([]*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		return s.repository.ListPosts(ctx, nil)
	}
	return s.repository.ListPosts(ctx, func(p *Post) bool {
		return ContainsFold(p.Title, query) || ContainsFold(p.Body, query)
	})
}

func (s *service) ListComments(ctx context.Context, query string) ([]*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		return s.repository.ListComments(ctx, nil)
	}
	return s.repository.ListComments(ctx, func(c *Comment) bool {
		return ContainsFold(c.Text, query)
	})
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repository.GetUser(ctx, id)
}

func (s *service) GetPost(ctx context.Context, id string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repository.GetPost(ctx, id)
}

func (s *service) GetComment(ctx context.Context, id string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repository.GetComment(ctx, id)
}

func (s *service) Me(ctx context.Context) Profile {
	return me
}

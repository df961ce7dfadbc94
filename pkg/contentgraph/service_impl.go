package contentgraph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	broker     Broker
	newID      func() string

	// mu serializes operations against the repository. outbox holds events
	// of committed mutations in commit order until they are flushed.
	mu     sync.Mutex
	outbox []Event

	// flushMu lets one goroutine at a time deliver the outbox. flushing is
	// guarded by mu and set while a flush has events in hand.
	flushMu  sync.Mutex
	flushing bool
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBroker sets the broker events are published on
func WithBroker(broker Broker) Option {
	return func(s *service) {
		s.broker = broker
	}
}

// WithIDGenerator replaces the default UUID id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *service) {
		s.newID = fn
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		newID: uuid.NewString,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.broker == nil {
		s.broker = NewNoopBroker()
	}
	if s.newID == nil {
		return nil, fmt.Errorf("id generator is required")
	}

	return s, nil
}

// changeSet collects the events of one mutation.
type changeSet struct {
	events []Event
}

// emit records an event. It is the only place events are built.
func (c *changeSet) emit(topic string, kind MutationKind, snapshot any) {
	c.events = append(c.events, Event{
		Topic:    topic,
		Mutation: kind,
		Data:     snapshot,
	})
}

// deliveryKey marks the context passed to listeners while s flushes.
type deliveryKey struct{}

// delivering reports whether ctx belongs to a listener called from s.flush.
func (s *service) delivering(ctx context.Context) bool {
	owner, _ := ctx.Value(deliveryKey{}).(*service)
	return owner == s
}

// mutate runs fn with exclusive access to the repository. When fn succeeds
// its events are queued and delivered before mutate returns. fn must check
// every precondition before writing so a failure leaves no partial writes.
//
// A mutation made by a listener with the context it was handed nests: its
// events join the outbox and the flush already running delivers them after
// the current event, in commit order.
func (s *service) mutate(ctx context.Context, fn func(cs *changeSet) error) error {
	var cs changeSet

	s.mu.Lock()
	err := fn(&cs)
	nested := false
	if err == nil {
		s.outbox = append(s.outbox, cs.events...)
		nested = s.flushing && s.delivering(ctx)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if !nested {
		s.flush(ctx)
	}
	return nil
}

// flush delivers queued events in commit order. The repository lock is not
// held while listeners run, so they can query the service.
func (s *service) flush(ctx context.Context) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	ctx = context.WithValue(ctx, deliveryKey{}, s)

	for {
		s.mu.Lock()
		pending := s.outbox
		s.outbox = nil
		s.flushing = len(pending) > 0
		s.mu.Unlock()

		if len(pending) == 0 {
			return
		}
		for _, event := range pending {
			s.broker.Publish(ctx, event.Topic, event)
		}
	}
}

// User operations

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user *User
	err := s.mutate(ctx, func(cs *changeSet) error {
		taken, err := s.emailTaken(ctx, req.Email)
		if err != nil {
			return userError("create", "", err)
		}
		if taken {
			return userError("create", "", ErrEmailTaken)
		}

		user = (&User{
			ID:    s.newID(),
			Name:  req.Name,
			Email: req.Email,
			Age:   req.Age,
		}).Clone()
		if err := s.repository.CreateUser(ctx, user); err != nil {
			return userError("create", user.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	var user *User
	err := s.mutate(ctx, func(cs *changeSet) error {
		var err error
		user, err = s.repository.GetUser(ctx, id)
		if err != nil {
			return userError("update", id, err)
		}

		if req.Email != nil {
			// Compared against every user, the one being updated included.
			taken, err := s.emailTaken(ctx, *req.Email)
			if err != nil {
				return userError("update", id, err)
			}
			if taken {
				return userError("update", id, ErrEmailTaken)
			}
			user.Email = *req.Email
		}
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Age != nil {
			age := *req.Age
			user.Age = &age
		}

		if err := s.repository.UpdateUser(ctx, user); err != nil {
			return userError("update", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id string) (*User, error) {
	var user *User
	err := s.mutate(ctx, func(cs *changeSet) error {
		var err error
		user, err = s.repository.DeleteUser(ctx, id)
		if err != nil {
			return userError("delete", id, err)
		}

		posts, err := s.repository.ListPosts(ctx, func(p *Post) bool {
			return p.Author == user.ID
		})
		if err != nil {
			return userError("delete", id, err)
		}
		for _, post := range posts {
			if err := s.removePost(ctx, cs, post.ID); err != nil {
				return userError("delete", id, err)
			}
		}

		// Comments the user left on other users' posts. Removed silently.
		if _, err := s.repository.DeleteComments(ctx, func(c *Comment) bool {
			return c.Author == user.ID
		}); err != nil {
			return userError("delete", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	var post *Post
	err := s.mutate(ctx, func(cs *changeSet) error {
		if _, err := s.repository.GetUser(ctx, req.Author); err != nil {
			return postError("create", "", err)
		}

		post = &Post{
			ID:        s.newID(),
			Title:     req.Title,
			Body:      req.Body,
			Published: req.Published,
			Author:    req.Author,
		}
		if err := s.repository.CreatePost(ctx, post); err != nil {
			return postError("create", post.ID, err)
		}

		if post.Published {
			cs.emit(PostTopic, MutationCreated, *post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, id string, req UpdatePostRequest) (*Post, error) {
	var post *Post
	err := s.mutate(ctx, func(cs *changeSet) error {
		var err error
		post, err = s.repository.GetPost(ctx, id)
		if err != nil {
			return postError("update", id, err)
		}
		before := *post

		if req.Title != nil {
			post.Title = *req.Title
		}
		if req.Body != nil {
			post.Body = *req.Body
		}
		if req.Published != nil {
			post.Published = *req.Published
		}

		if err := s.repository.UpdatePost(ctx, post); err != nil {
			return postError("update", id, err)
		}

		switch {
		case req.Published != nil && before.Published && !post.Published:
			cs.emit(PostTopic, MutationDeleted, before)
		case req.Published != nil && !before.Published && post.Published:
			cs.emit(PostTopic, MutationCreated, *post)
		case req.Published == nil && post.Published:
			cs.emit(PostTopic, MutationUpdated, *post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id string) (*Post, error) {
	var post *Post
	err := s.mutate(ctx, func(cs *changeSet) error {
		var err error
		post, err = s.repository.GetPost(ctx, id)
		if err != nil {
			return postError("delete", id, err)
		}
		if err := s.removePost(ctx, cs, id); err != nil {
			return postError("delete", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// removePost deletes a post and the comments on it. Only the post removal
// is announced, and only when the post was published.
func (s *service) removePost(ctx context.Context, cs *changeSet, id string) error {
	post, err := s.repository.DeletePost(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repository.DeleteComments(ctx, func(c *Comment) bool {
		return c.Post == post.ID
	}); err != nil {
		return err
	}
	if post.Published {
		cs.emit(PostTopic, MutationDeleted, *post)
	}
	return nil
}

// Comment operations

func (s *service) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	var comment *Comment
	err := s.mutate(ctx, func(cs *changeSet) error {
		if _, err := s.repository.GetUser(ctx, req.Author); err != nil {
			return commentError("create", "", err)
		}
		post, err := s.repository.GetPost(ctx, req.Post)
		if err != nil {
			return commentError("create", "", err)
		}
		if !post.Published {
			return commentError("create", "", ErrPostNotFound)
		}

		comment = &Comment{
			ID:     s.newID(),
			Text:   req.Text,
			Author: req.Author,
			Post:   req.Post,
		}
		if err := s.repository.CreateComment(ctx, comment); err != nil {
			return commentError("create", comment.ID, err)
		}

		cs.emit(CommentTopic(comment.Post), MutationCreated, *comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) UpdateComment(ctx context.Context, id string, req UpdateCommentRequest) (*Comment, error) {
	var comment *Comment
	err := s.mutate(ctx, func(cs *changeSet) error {
		var err error
		comment, err = s.repository.GetComment(ctx, id)
		if err != nil {
			return commentError("update", id, err)
		}

		if req.Text != nil {
			comment.Text = *req.Text
		}
		if err := s.repository.UpdateComment(ctx, comment); err != nil {
			return commentError("update", id, err)
		}

		cs.emit(CommentTopic(comment.Post), MutationUpdated, *comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) DeleteComment(ctx context.Context, id string) (*Comment, error) {
	var comment *Comment
	err := s.mutate(ctx, func(cs *changeSet) error {
		var err error
		comment, err = s.repository.DeleteComment(ctx, id)
		if err != nil {
			return commentError("delete", id, err)
		}

		cs.emit(CommentTopic(comment.Post), MutationDeleted, *comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Subscription operations

func (s *service) Subscribe(ctx context.Context, topic string, listener Listener) (Subscription, error) {
	if _, err := ParseTopic(topic); err != nil {
		return nil, err
	}
	if listener == nil {
		return nil, errors.New("listener is required")
	}
	return s.broker.Subscribe(topic, listener), nil
}

func (s *service) SubscribePosts(ctx context.Context, listener Listener) (Subscription, error) {
	return s.Subscribe(ctx, PostTopic, listener)
}

func (s *service) SubscribeComments(ctx context.Context, postID string, listener Listener) (Subscription, error) {
	s.mu.Lock()
	post, err := s.repository.GetPost(ctx, postID)
	s.mu.Unlock()
	if err != nil {
		return nil, postError("subscribe", postID, err)
	}
	if !post.Published {
		return nil, postError("subscribe", postID, ErrPostNotFound)
	}
	return s.Subscribe(ctx, CommentTopic(postID), listener)
}

// emailTaken reports whether any user already uses email, ignoring case.
func (s *service) emailTaken(ctx context.Context, email string) (bool, error) {
	folded := FoldCase(email)
	users, err := s.repository.ListUsers(ctx, func(u *User) bool {
		return FoldCase(u.Email) == folded
	})
	if err != nil {
		return false, err
	}
	return len(users) > 0, nil
}

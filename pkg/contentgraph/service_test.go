package contentgraph_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-graph/pkg/contentgraph"
	"github.com/tendant/simple-graph/pkg/contentgraph/pubsub"
	"github.com/tendant/simple-graph/pkg/contentgraph/repo/memory"
)

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int { return &v }

// recorder collects events delivered to a listener.
type recorder struct {
	mu     sync.Mutex
	events []contentgraph.Event
}

func (r *recorder) listen(ctx context.Context, e contentgraph.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []contentgraph.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contentgraph.Event(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []contentgraph.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []contentgraph.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []contentgraph.Option{
				contentgraph.WithRepository(memory.New()),
			},
		},
		{
			name: "with repository and broker should succeed",
			options: []contentgraph.Option{
				contentgraph.WithRepository(memory.New()),
				contentgraph.WithBroker(pubsub.New()),
			},
		},
		{
			name: "nil id generator should fail",
			options: []contentgraph.Option{
				contentgraph.WithRepository(memory.New()),
				contentgraph.WithIDGenerator(nil),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := contentgraph.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

// setupTestService returns a service over an empty repository with
// sequential ids ("id-1", "id-2", ...).
func setupTestService(t *testing.T) (contentgraph.Service, *memory.Repository, *pubsub.Hub) {
	t.Helper()

	repo := memory.New()
	hub := pubsub.New()
	var next int
	svc, err := contentgraph.New(
		contentgraph.WithRepository(repo),
		contentgraph.WithBroker(hub),
		contentgraph.WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("id-%d", next)
		}),
	)
	require.NoError(t, err)
	return svc, repo, hub
}

func mustCreateUser(t *testing.T, svc contentgraph.Service, name, email string) *contentgraph.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), contentgraph.CreateUserRequest{Name: name, Email: email})
	require.NoError(t, err)
	return user
}

func mustCreatePost(t *testing.T, svc contentgraph.Service, author string, published bool) *contentgraph.Post {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), contentgraph.CreatePostRequest{
		Title:     "Title by " + author,
		Body:      "Body",
		Published: published,
		Author:    author,
	})
	require.NoError(t, err)
	return post
}

func mustCreateComment(t *testing.T, svc contentgraph.Service, author, post string) *contentgraph.Comment {
	t.Helper()
	comment, err := svc.CreateComment(context.Background(), contentgraph.CreateCommentRequest{
		Text:   "comment by " + author,
		Author: author,
		Post:   post,
	})
	require.NoError(t, err)
	return comment
}

func TestUserOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateUser assigns id and copies fields", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		user, err := svc.CreateUser(ctx, contentgraph.CreateUserRequest{Name: "A", Email: "a@x.com", Age: intPtr(30)})
		require.NoError(t, err)
		assert.Equal(t, "id-1", user.ID)
		assert.Equal(t, "A", user.Name)
		assert.Equal(t, "a@x.com", user.Email)
		require.NotNil(t, user.Age)
		assert.Equal(t, 30, *user.Age)
	})

	t.Run("duplicate email differing in case conflicts", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		mustCreateUser(t, svc, "A", "a@x.com")

		_, err := svc.CreateUser(ctx, contentgraph.CreateUserRequest{Name: "B", Email: "A@X.com"})
		assert.ErrorIs(t, err, contentgraph.ErrEmailTaken)
		assert.ErrorIs(t, err, contentgraph.ErrConflict)

		var entityErr *contentgraph.EntityError
		require.True(t, errors.As(err, &entityErr))
		assert.Equal(t, "create", entityErr.Op)

		users, err := svc.ListUsers(ctx, "")
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("emails differing beyond case do not conflict", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		mustCreateUser(t, svc, "A", "straße@x.com")

		_, err := svc.CreateUser(ctx, contentgraph.CreateUserRequest{Name: "B", Email: "strasse@x.com"})
		assert.NoError(t, err)
	})

	t.Run("UpdateUser applies only present fields", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")

		updated, err := svc.UpdateUser(ctx, user.ID, contentgraph.UpdateUserRequest{Name: strPtr("Alice")})
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.Name)
		assert.Equal(t, "a@x.com", updated.Email)
		assert.Nil(t, updated.Age)

		updated, err = svc.UpdateUser(ctx, user.ID, contentgraph.UpdateUserRequest{Age: intPtr(0)})
		require.NoError(t, err)
		require.NotNil(t, updated.Age)
		assert.Equal(t, 0, *updated.Age)
		assert.Equal(t, "Alice", updated.Name)

		updated, err = svc.UpdateUser(ctx, user.ID, contentgraph.UpdateUserRequest{Email: strPtr("new@x.com")})
		require.NoError(t, err)
		assert.Equal(t, "new@x.com", updated.Email)

		stored, err := svc.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("UpdateUser email check includes the user itself", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")

		_, err := svc.UpdateUser(ctx, user.ID, contentgraph.UpdateUserRequest{
			Name:  strPtr("Changed"),
			Email: strPtr("A@x.com"),
		})
		assert.ErrorIs(t, err, contentgraph.ErrConflict)

		stored, err := svc.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "A", stored.Name, "a failed update must not write")
	})

	t.Run("UpdateUser missing user", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		_, err := svc.UpdateUser(ctx, "missing", contentgraph.UpdateUserRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, contentgraph.ErrUserNotFound)
	})

	t.Run("DeleteUser missing user", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		_, err := svc.DeleteUser(ctx, "missing")
		assert.ErrorIs(t, err, contentgraph.ErrNotFound)
	})
}

func TestDeleteUserCascade(t *testing.T) {
	svc, _, hub := setupTestService(t)
	ctx := context.Background()

	doomed := mustCreateUser(t, svc, "Doomed", "doomed@x.com")
	other := mustCreateUser(t, svc, "Other", "other@x.com")

	doomedPublished := mustCreatePost(t, svc, doomed.ID, true)
	doomedDraft := mustCreatePost(t, svc, doomed.ID, false)
	otherPost := mustCreatePost(t, svc, other.ID, true)

	mustCreateComment(t, svc, other.ID, doomedPublished.ID)
	mustCreateComment(t, svc, doomed.ID, doomedPublished.ID)
	mustCreateComment(t, svc, doomed.ID, otherPost.ID)
	survivor := mustCreateComment(t, svc, other.ID, otherPost.ID)

	var posts, comments recorder
	hub.Subscribe(contentgraph.PostTopic, posts.listen)
	hub.Subscribe(contentgraph.CommentTopic(doomedPublished.ID), comments.listen)
	hub.Subscribe(contentgraph.CommentTopic(otherPost.ID), comments.listen)

	removed, err := svc.DeleteUser(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, doomed, removed)

	remainingPosts, err := svc.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, remainingPosts, 1)
	assert.Equal(t, otherPost.ID, remainingPosts[0].ID)

	remainingComments, err := svc.ListComments(ctx, "")
	require.NoError(t, err)
	require.Len(t, remainingComments, 1)
	assert.Equal(t, survivor.ID, remainingComments[0].ID)

	for _, p := range remainingPosts {
		assert.NotEqual(t, doomed.ID, p.Author)
	}
	for _, c := range remainingComments {
		assert.NotEqual(t, doomed.ID, c.Author)
		assert.NotEqual(t, doomedPublished.ID, c.Post)
		assert.NotEqual(t, doomedDraft.ID, c.Post)
	}

	// Only the published post is announced; cascaded comments are silent.
	events := posts.all()
	require.Len(t, events, 1)
	assert.Equal(t, contentgraph.MutationDeleted, events[0].Mutation)
	snapshot, ok := events[0].Post()
	require.True(t, ok)
	assert.Equal(t, *doomedPublished, snapshot)
	assert.Empty(t, comments.all())
}

func TestPostOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatePost requires existing author", func(t *testing.T) {
		svc, _, hub := setupTestService(t)
		var rec recorder
		hub.Subscribe(contentgraph.PostTopic, rec.listen)

		_, err := svc.CreatePost(ctx, contentgraph.CreatePostRequest{Title: "T", Published: true, Author: "nobody"})
		assert.ErrorIs(t, err, contentgraph.ErrUserNotFound)

		posts, err := svc.ListPosts(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.Empty(t, rec.all())
	})

	t.Run("create then delete published post", func(t *testing.T) {
		svc, repo, hub := setupTestService(t)
		require.NoError(t, repo.CreateUser(ctx, &contentgraph.User{ID: "1", Email: "a@x.com"}))

		var rec recorder
		hub.Subscribe(contentgraph.PostTopic, rec.listen)

		post, err := svc.CreatePost(ctx, contentgraph.CreatePostRequest{Title: "T", Body: "B", Published: true, Author: "1"})
		require.NoError(t, err)
		assert.NotEmpty(t, post.ID)
		assert.Equal(t, "1", post.Author)

		events := rec.all()
		require.Len(t, events, 1)
		assert.Equal(t, contentgraph.PostTopic, events[0].Topic)
		assert.Equal(t, contentgraph.MutationCreated, events[0].Mutation)
		assert.Equal(t, *post, events[0].Data)

		rec.reset()
		deleted, err := svc.DeletePost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post, deleted)

		events = rec.all()
		require.Len(t, events, 1)
		assert.Equal(t, contentgraph.MutationDeleted, events[0].Mutation)
		assert.Equal(t, *post, events[0].Data)

		posts, err := svc.ListPosts(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("unpublished post is silent", func(t *testing.T) {
		svc, _, hub := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")
		var rec recorder
		hub.Subscribe(contentgraph.PostTopic, rec.listen)

		draft := mustCreatePost(t, svc, user.ID, false)
		_, err := svc.UpdatePost(ctx, draft.ID, contentgraph.UpdatePostRequest{Title: strPtr("still a draft")})
		require.NoError(t, err)
		_, err = svc.DeletePost(ctx, draft.ID)
		require.NoError(t, err)

		assert.Empty(t, rec.all())
	})

	t.Run("DeletePost removes its comments silently", func(t *testing.T) {
		svc, _, hub := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")
		post := mustCreatePost(t, svc, user.ID, true)
		keep := mustCreatePost(t, svc, user.ID, true)
		mustCreateComment(t, svc, user.ID, post.ID)
		kept := mustCreateComment(t, svc, user.ID, keep.ID)

		var rec recorder
		hub.Subscribe(contentgraph.CommentTopic(post.ID), rec.listen)

		_, err := svc.DeletePost(ctx, post.ID)
		require.NoError(t, err)

		comments, err := svc.ListComments(ctx, "")
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, kept.ID, comments[0].ID)
		assert.Empty(t, rec.all())
	})

	t.Run("DeletePost missing", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		_, err := svc.DeletePost(ctx, "missing")
		assert.ErrorIs(t, err, contentgraph.ErrPostNotFound)
	})
}

func TestUpdatePostTransitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		published    bool
		req          contentgraph.UpdatePostRequest
		wantMutation contentgraph.MutationKind
		wantBefore   bool // snapshot taken before the update
	}{
		{
			name:         "publish emits CREATED",
			published:    false,
			req:          contentgraph.UpdatePostRequest{Published: boolPtr(true)},
			wantMutation: contentgraph.MutationCreated,
		},
		{
			name:         "unpublish emits DELETED with previous snapshot",
			published:    true,
			req:          contentgraph.UpdatePostRequest{Title: strPtr("renamed"), Published: boolPtr(false)},
			wantMutation: contentgraph.MutationDeleted,
			wantBefore:   true,
		},
		{
			name:         "edit of published post emits UPDATED",
			published:    true,
			req:          contentgraph.UpdatePostRequest{Body: strPtr("new body")},
			wantMutation: contentgraph.MutationUpdated,
		},
		{
			name:      "published stays true emits nothing",
			published: true,
			req:       contentgraph.UpdatePostRequest{Title: strPtr("renamed"), Published: boolPtr(true)},
		},
		{
			name:      "draft stays draft emits nothing",
			published: false,
			req:       contentgraph.UpdatePostRequest{Published: boolPtr(false), Body: strPtr("x")},
		},
		{
			name:      "edit of draft emits nothing",
			published: false,
			req:       contentgraph.UpdatePostRequest{Title: strPtr("renamed")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, hub := setupTestService(t)
			user := mustCreateUser(t, svc, "A", "a@x.com")
			post := mustCreatePost(t, svc, user.ID, tt.published)

			var rec recorder
			hub.Subscribe(contentgraph.PostTopic, rec.listen)

			updated, err := svc.UpdatePost(ctx, post.ID, tt.req)
			require.NoError(t, err)
			if tt.req.Title != nil {
				assert.Equal(t, *tt.req.Title, updated.Title)
			}
			if tt.req.Published != nil {
				assert.Equal(t, *tt.req.Published, updated.Published)
			}

			events := rec.all()
			if tt.wantMutation == "" {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, tt.wantMutation, events[0].Mutation)
			if tt.wantBefore {
				assert.Equal(t, *post, events[0].Data)
			} else {
				assert.Equal(t, *updated, events[0].Data)
			}
		})
	}

	t.Run("missing post", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		_, err := svc.UpdatePost(ctx, "missing", contentgraph.UpdatePostRequest{Title: strPtr("x")})
		assert.ErrorIs(t, err, contentgraph.ErrPostNotFound)
	})
}

func TestCommentOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("comment on unpublished post fails", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")
		draft := mustCreatePost(t, svc, user.ID, false)

		_, err := svc.CreateComment(ctx, contentgraph.CreateCommentRequest{Text: "hi", Author: user.ID, Post: draft.ID})
		assert.ErrorIs(t, err, contentgraph.ErrPostNotFound)

		comments, err := svc.ListComments(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("comment requires author before post", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		_, err := svc.CreateComment(ctx, contentgraph.CreateCommentRequest{Text: "hi", Author: "nobody", Post: "nothing"})
		assert.ErrorIs(t, err, contentgraph.ErrUserNotFound)
	})

	t.Run("lifecycle events are scoped to the post", func(t *testing.T) {
		svc, _, hub := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")
		post := mustCreatePost(t, svc, user.ID, true)
		otherPost := mustCreatePost(t, svc, user.ID, true)

		var rec, other recorder
		hub.Subscribe(contentgraph.CommentTopic(post.ID), rec.listen)
		hub.Subscribe(contentgraph.CommentTopic(otherPost.ID), other.listen)

		comment := mustCreateComment(t, svc, user.ID, post.ID)

		// Text absent: nothing changes but UPDATED is still emitted.
		unchanged, err := svc.UpdateComment(ctx, comment.ID, contentgraph.UpdateCommentRequest{})
		require.NoError(t, err)
		assert.Equal(t, comment, unchanged)

		edited, err := svc.UpdateComment(ctx, comment.ID, contentgraph.UpdateCommentRequest{Text: strPtr("edited")})
		require.NoError(t, err)
		assert.Equal(t, "edited", edited.Text)

		deleted, err := svc.DeleteComment(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, edited, deleted)

		events := rec.all()
		require.Len(t, events, 4)
		assert.Equal(t, contentgraph.MutationCreated, events[0].Mutation)
		assert.Equal(t, contentgraph.MutationUpdated, events[1].Mutation)
		assert.Equal(t, contentgraph.MutationUpdated, events[2].Mutation)
		assert.Equal(t, contentgraph.MutationDeleted, events[3].Mutation)
		for _, e := range events {
			assert.Equal(t, contentgraph.CommentTopic(post.ID), e.Topic)
		}
		snapshot, ok := events[3].Comment()
		require.True(t, ok)
		assert.Equal(t, "edited", snapshot.Text)

		assert.Empty(t, other.all())
	})

	t.Run("missing comment", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		_, err := svc.UpdateComment(ctx, "missing", contentgraph.UpdateCommentRequest{Text: strPtr("x")})
		assert.ErrorIs(t, err, contentgraph.ErrCommentNotFound)
		_, err = svc.DeleteComment(ctx, "missing")
		assert.ErrorIs(t, err, contentgraph.ErrCommentNotFound)
	})
}

func TestSubscriptions(t *testing.T) {
	ctx := context.Background()

	t.Run("comment subscription sees only its post", func(t *testing.T) {
		svc, repo, _ := setupTestService(t)
		require.NoError(t, repo.CreateUser(ctx, &contentgraph.User{ID: "1", Email: "a@x.com"}))
		require.NoError(t, repo.CreatePost(ctx, &contentgraph.Post{ID: "10", Published: true, Author: "1"}))
		require.NoError(t, repo.CreatePost(ctx, &contentgraph.Post{ID: "11", Published: true, Author: "1"}))

		var rec recorder
		sub, err := svc.SubscribeComments(ctx, "10", rec.listen)
		require.NoError(t, err)
		assert.Equal(t, "comment:10", sub.Topic())

		mustCreateComment(t, svc, "1", "11")
		assert.Empty(t, rec.all())

		mustCreateComment(t, svc, "1", "10")
		require.Len(t, rec.all(), 1)

		sub.Unsubscribe()
		sub.Unsubscribe()
		mustCreateComment(t, svc, "1", "10")
		assert.Len(t, rec.all(), 1)
	})

	t.Run("comment subscription requires a published post", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")
		draft := mustCreatePost(t, svc, user.ID, false)

		var rec recorder
		_, err := svc.SubscribeComments(ctx, draft.ID, rec.listen)
		assert.ErrorIs(t, err, contentgraph.ErrPostNotFound)
		_, err = svc.SubscribeComments(ctx, "missing", rec.listen)
		assert.ErrorIs(t, err, contentgraph.ErrPostNotFound)
	})

	t.Run("Subscribe validates topic", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		var rec recorder
		for _, topic := range []string{"", "posts", "comment:", "comments:10"} {
			_, err := svc.Subscribe(ctx, topic, rec.listen)
			assert.ErrorIs(t, err, contentgraph.ErrInvalidTopic, topic)
		}
		_, err := svc.Subscribe(ctx, contentgraph.PostTopic, nil)
		assert.Error(t, err)
	})

	t.Run("listener observes a consistent store and may query", func(t *testing.T) {
		svc, _, _ := setupTestService(t)
		user := mustCreateUser(t, svc, "A", "a@x.com")

		var seen []int
		_, err := svc.SubscribePosts(ctx, func(ctx context.Context, e contentgraph.Event) {
			posts, err := svc.ListPosts(ctx, "")
			require.NoError(t, err)
			seen = append(seen, len(posts))
		})
		require.NoError(t, err)

		post := mustCreatePost(t, svc, user.ID, true)
		_, err = svc.DeletePost(ctx, post.ID)
		require.NoError(t, err)

		assert.Equal(t, []int{1, 0}, seen)
	})
}

func TestConcurrentMutationsKeepEventOrder(t *testing.T) {
	svc, _, hub := setupTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "A", "a@x.com")

	var rec recorder
	hub.Subscribe(contentgraph.PostTopic, rec.listen)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			post, err := svc.CreatePost(ctx, contentgraph.CreatePostRequest{Title: "T", Published: true, Author: user.ID})
			if !assert.NoError(t, err) {
				return
			}
			_, err = svc.DeletePost(ctx, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	events := rec.all()
	require.Len(t, events, 2*workers)
	created := map[string]bool{}
	for _, e := range events {
		p, ok := e.Post()
		require.True(t, ok)
		switch e.Mutation {
		case contentgraph.MutationCreated:
			created[p.ID] = true
		case contentgraph.MutationDeleted:
			assert.True(t, created[p.ID], "DELETED before CREATED for %s", p.ID)
		}
	}
}

func TestListenerMutationNests(t *testing.T) {
	svc, _, hub := setupTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "A", "a@x.com")

	var rec recorder
	var updateErr error
	hub.Subscribe(contentgraph.PostTopic, func(ctx context.Context, e contentgraph.Event) {
		rec.listen(ctx, e)
		p, ok := e.Post()
		if !ok || e.Mutation != contentgraph.MutationCreated {
			return
		}
		_, updateErr = svc.UpdatePost(ctx, p.ID, contentgraph.UpdatePostRequest{Title: strPtr("retitled")})
	})

	done := make(chan *contentgraph.Post, 1)
	go func() {
		post, err := svc.CreatePost(ctx, contentgraph.CreatePostRequest{Title: "T", Published: true, Author: user.ID})
		assert.NoError(t, err)
		done <- post
	}()

	var post *contentgraph.Post
	select {
	case post = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("CreatePost did not return while a listener mutated")
	}
	require.NoError(t, updateErr)
	require.NotNil(t, post)

	events := rec.all()
	require.Len(t, events, 2)
	assert.Equal(t, contentgraph.MutationCreated, events[0].Mutation)
	assert.Equal(t, contentgraph.MutationUpdated, events[1].Mutation)
	updated, ok := events[1].Post()
	require.True(t, ok)
	assert.Equal(t, "retitled", updated.Title)

	stored, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "retitled", stored.Title)

	// The service keeps working after the nested delivery.
	_, err = svc.DeletePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, rec.all(), 3)
}

func TestCommentListenerMutationNests(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	user := mustCreateUser(t, svc, "A", "a@x.com")
	post := mustCreatePost(t, svc, user.ID, true)

	var rec recorder
	_, err := svc.SubscribeComments(ctx, post.ID, func(ctx context.Context, e contentgraph.Event) {
		rec.listen(ctx, e)
		c, ok := e.Comment()
		if ok && e.Mutation == contentgraph.MutationCreated {
			_, err := svc.UpdateComment(ctx, c.ID, contentgraph.UpdateCommentRequest{Text: strPtr("edited")})
			assert.NoError(t, err)
		}
	})
	require.NoError(t, err)

	mustCreateComment(t, svc, user.ID, post.ID)

	events := rec.all()
	require.Len(t, events, 2)
	assert.Equal(t, contentgraph.MutationCreated, events[0].Mutation)
	assert.Equal(t, contentgraph.MutationUpdated, events[1].Mutation)
	edited, ok := events[1].Comment()
	require.True(t, ok)
	assert.Equal(t, "edited", edited.Text)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	svc, err := contentgraph.New(contentgraph.WithRepository(memory.New()))
	require.NoError(t, err)
	ctx := context.Background()

	a, err := svc.CreateUser(ctx, contentgraph.CreateUserRequest{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	b, err := svc.CreateUser(ctx, contentgraph.CreateUserRequest{Name: "B", Email: "b@x.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

// Package api exposes a content graph Service over HTTP. Queries and
// mutations are JSON routes; subscriptions are server-sent event streams.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-graph/pkg/contentgraph"
)

// DefaultStreamBuffer is the per-stream event buffer used when none is given.
const DefaultStreamBuffer = 64

// GraphHandler handles HTTP requests for the content graph
type GraphHandler struct {
	service      contentgraph.Service
	streamBuffer int
}

// NewGraphHandler creates a new graph handler. streamBuffer bounds how many
// events a subscription stream holds for a slow client before dropping.
func NewGraphHandler(service contentgraph.Service, streamBuffer int) *GraphHandler {
	if streamBuffer < 1 {
		streamBuffer = DefaultStreamBuffer
	}
	return &GraphHandler{
		service:      service,
		streamBuffer: streamBuffer,
	}
}

// Routes returns the routes for the graph
func (h *GraphHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/me", h.Me)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Patch("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Get("/{id}/posts", h.GetUserPosts)
		r.Get("/{id}/comments", h.GetUserComments)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/{id}", h.GetPost)
		r.Patch("/{id}", h.UpdatePost)
		r.Delete("/{id}", h.DeletePost)
		r.Get("/{id}/author", h.GetPostAuthor)
		r.Get("/{id}/comments", h.GetPostComments)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/", h.ListComments)
		r.Post("/", h.CreateComment)
		r.Get("/{id}", h.GetComment)
		r.Patch("/{id}", h.UpdateComment)
		r.Delete("/{id}", h.DeleteComment)
		r.Get("/{id}/author", h.GetCommentAuthor)
		r.Get("/{id}/post", h.GetCommentPost)
	})

	// Subscription streams
	r.Get("/subscriptions/posts", h.StreamPosts)
	r.Get("/subscriptions/posts/{id}/comments", h.StreamComments)

	return r
}

// Health reports that the server is up
func (h *GraphHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

// Me returns the placeholder profile
func (h *GraphHandler) Me(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Me(r.Context()))
}

// ErrorResponse is the response body for a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, contentgraph.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, contentgraph.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, contentgraph.ErrInvalidTopic), errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it as a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	status := statusFor(err)
	attrs = append(attrs, "error", err, "status", status)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, attrs...)
	} else {
		slog.Warn(msg, attrs...)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ListUsers lists users, filtered by name when ?query= is given
func (h *GraphHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, "Failed to list users", err)
		return
	}
	render.JSON(w, r, users)
}

// CreateUser creates a new user
func (h *GraphHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Invalid create user request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, "Invalid create user request", err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.toService())
	if err != nil {
		writeError(w, r, "Failed to create user", err)
		return
	}

	slog.Info("User created", "user_id", user.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// GetUser retrieves a user by ID
func (h *GraphHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get user", err, "user_id", id)
		return
	}
	render.JSON(w, r, user)
}

// UpdateUser applies a partial update to a user
func (h *GraphHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Invalid update user request", err, "user_id", id)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, "Invalid update user request", err, "user_id", id)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, req.toService())
	if err != nil {
		writeError(w, r, "Failed to update user", err, "user_id", id)
		return
	}

	slog.Info("User updated", "user_id", id)
	render.JSON(w, r, user)
}

// DeleteUser deletes a user with everything they authored and returns the
// removed user
func (h *GraphHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to delete user", err, "user_id", id)
		return
	}

	slog.Info("User deleted", "user_id", id)
	render.JSON(w, r, user)
}

// GetUserPosts lists the posts a user authored
func (h *GraphHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get user", err, "user_id", id)
		return
	}

	posts, err := h.service.UserPosts(r.Context(), user)
	if err != nil {
		writeError(w, r, "Failed to resolve user posts", err, "user_id", id)
		return
	}
	render.JSON(w, r, posts)
}

// GetUserComments lists the comments a user authored
func (h *GraphHandler) GetUserComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get user", err, "user_id", id)
		return
	}

	comments, err := h.service.UserComments(r.Context(), user)
	if err != nil {
		writeError(w, r, "Failed to resolve user comments", err, "user_id", id)
		return
	}
	render.JSON(w, r, comments)
}

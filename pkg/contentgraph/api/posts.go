package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ListPosts lists posts, filtered by title or body when ?query= is given
func (h *GraphHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, "Failed to list posts", err)
		return
	}
	render.JSON(w, r, posts)
}

// CreatePost creates a new post
func (h *GraphHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Invalid create post request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, "Invalid create post request", err)
		return
	}

	post, err := h.service.CreatePost(r.Context(), req.toService())
	if err != nil {
		writeError(w, r, "Failed to create post", err, "author_id", req.Author)
		return
	}

	slog.Info("Post created", "post_id", post.ID, "published", post.Published)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

// GetPost retrieves a post by ID
func (h *GraphHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get post", err, "post_id", id)
		return
	}
	render.JSON(w, r, post)
}

// UpdatePost applies a partial update to a post
func (h *GraphHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdatePostRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Invalid update post request", err, "post_id", id)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), id, req.toService())
	if err != nil {
		writeError(w, r, "Failed to update post", err, "post_id", id)
		return
	}

	slog.Info("Post updated", "post_id", id, "published", post.Published)
	render.JSON(w, r, post)
}

// DeletePost deletes a post and its comments and returns the removed post
func (h *GraphHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.service.DeletePost(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to delete post", err, "post_id", id)
		return
	}

	slog.Info("Post deleted", "post_id", id)
	render.JSON(w, r, post)
}

// GetPostAuthor resolves the author of a post. A missing author renders as null.
func (h *GraphHandler) GetPostAuthor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get post", err, "post_id", id)
		return
	}

	author, err := h.service.PostAuthor(r.Context(), post)
	if err != nil {
		writeError(w, r, "Failed to resolve post author", err, "post_id", id)
		return
	}
	render.JSON(w, r, author)
}

// GetPostComments lists the comments on a post
func (h *GraphHandler) GetPostComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get post", err, "post_id", id)
		return
	}

	comments, err := h.service.PostComments(r.Context(), post)
	if err != nil {
		writeError(w, r, "Failed to resolve post comments", err, "post_id", id)
		return
	}
	render.JSON(w, r, comments)
}

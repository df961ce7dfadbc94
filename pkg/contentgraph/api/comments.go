package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ListComments lists comments, filtered by text when ?query= is given
func (h *GraphHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, "Failed to list comments", err)
		return
	}
	render.JSON(w, r, comments)
}

// CreateComment creates a comment on a published post
func (h *GraphHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Invalid create comment request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, "Invalid create comment request", err)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), req.toService())
	if err != nil {
		writeError(w, r, "Failed to create comment", err, "post_id", req.Post, "author_id", req.Author)
		return
	}

	slog.Info("Comment created", "comment_id", comment.ID, "post_id", comment.Post)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, comment)
}

// GetComment retrieves a comment by ID
func (h *GraphHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	comment, err := h.service.GetComment(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get comment", err, "comment_id", id)
		return
	}
	render.JSON(w, r, comment)
}

// UpdateComment changes the text of a comment
func (h *GraphHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateCommentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, "Invalid update comment request", err, "comment_id", id)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), id, req.toService())
	if err != nil {
		writeError(w, r, "Failed to update comment", err, "comment_id", id)
		return
	}

	slog.Info("Comment updated", "comment_id", id)
	render.JSON(w, r, comment)
}

// DeleteComment deletes a comment and returns it
func (h *GraphHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	comment, err := h.service.DeleteComment(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to delete comment", err, "comment_id", id)
		return
	}

	slog.Info("Comment deleted", "comment_id", id)
	render.JSON(w, r, comment)
}

// GetCommentAuthor resolves the author of a comment
func (h *GraphHandler) GetCommentAuthor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	comment, err := h.service.GetComment(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get comment", err, "comment_id", id)
		return
	}

	author, err := h.service.CommentAuthor(r.Context(), comment)
	if err != nil {
		writeError(w, r, "Failed to resolve comment author", err, "comment_id", id)
		return
	}
	render.JSON(w, r, author)
}

// GetCommentPost resolves the post a comment belongs to
func (h *GraphHandler) GetCommentPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	comment, err := h.service.GetComment(r.Context(), id)
	if err != nil {
		writeError(w, r, "Failed to get comment", err, "comment_id", id)
		return
	}

	post, err := h.service.CommentPost(r.Context(), comment)
	if err != nil {
		writeError(w, r, "Failed to resolve comment post", err, "comment_id", id)
		return
	}
	render.JSON(w, r, post)
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/service"
)

// Path parameters addressing a comment under its ad.
const (
	adIDParam      = "id"
	commentIDParam = "commentID"
)

// CommentHandler handles comment HTTP requests.
type CommentHandler struct {
	comments service.CommentService
	logger   *slog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments service.CommentService, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CommentHandler")
	}

	return &CommentHandler{
		comments: comments,
		logger:   logger.With(slog.String("component", "comment_handler")),
	}
}

// ListComments handles GET /ads/{id}/comments.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	adID, ok := pathUUID(w, r, adIDParam)
	if !ok {
		return
	}

	comments, err := h.comments.ListComments(r.Context(), adID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list comments")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.NewListResponse(comments))
}

// AddComment handles POST /ads/{id}/comments.
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	adID, ok := pathUUID(w, r, adIDParam)
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.comments.AddComment(r.Context(), identity, adID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}

	log.Debug("comment added",
		slog.String("ad_id", adID.String()),
		slog.String("comment_id", comment.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}

// UpdateComment handles PATCH /ads/{id}/comments/{commentID}.
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	adID, ok := pathUUID(w, r, adIDParam)
	if !ok {
		return
	}
	commentID, ok := pathUUID(w, r, commentIDParam)
	if !ok {
		return
	}

	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.comments.UpdateComment(r.Context(), identity, adID, commentID, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update comment")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, comment)
}

// DeleteComment handles DELETE /ads/{id}/comments/{commentID}.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	adID, ok := pathUUID(w, r, adIDParam)
	if !ok {
		return
	}
	commentID, ok := pathUUID(w, r, commentIDParam)
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(r.Context(), identity, adID, commentID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete comment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

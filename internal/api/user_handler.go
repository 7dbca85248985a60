package api

import (
	"log/slog"
	"net/http"

	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/service"
)

// UserHandler handles profile, password and avatar requests.
type UserHandler struct {
	users          service.UserService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users service.UserService, maxUploadBytes int64, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		users:          users,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "user_handler")),
	}
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(r.Context(), identity)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdateMe handles PATCH /users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), identity, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// SetPassword handles POST /users/set_password.
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req SetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.SetPassword(r.Context(), identity, req.CurrentPassword, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "Failed to change password")
		return
	}

	log.Debug("password changed", slog.String("user_id", identity.UserID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// UpdateAvatar handles PATCH /users/me/image with a multipart "image" file.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	upload, err := readImagePart(r)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read image")
		return
	}

	path, err := h.users.UpdateAvatar(r.Context(), identity, upload)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update avatar")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ImageResponse{Image: path})
}

// GetAvatar handles GET /users/{id}/image. Users without an avatar get
// the default placeholder.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	avatar, err := h.users.GetAvatar(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get avatar")
		return
	}

	shared.RespondWithBytes(w, r, http.StatusOK, avatar.MediaType, avatar.Data)
}

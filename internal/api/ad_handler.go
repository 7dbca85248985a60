package api

import (
	"log/slog"
	"net/http"

	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/service"
)

// AdHandler handles ad HTTP requests.
type AdHandler struct {
	ads            service.AdService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewAdHandler creates a new AdHandler. maxUploadBytes bounds multipart bodies.
func NewAdHandler(ads service.AdService, maxUploadBytes int64, logger *slog.Logger) *AdHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AdHandler")
	}

	return &AdHandler{
		ads:            ads,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "ad_handler")),
	}
}

// ListAds handles GET /ads. The optional title query parameter filters by
// case-insensitive substring.
func (h *AdHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.ads.ListAds(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list ads")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.NewListResponse(ads))
}

// CreateAd handles POST /ads with a multipart body holding a "properties"
// JSON document and an "image" file.
func (h *AdHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req AdRequest
	if err := readPropertiesPart(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	upload, err := readImagePart(r)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read image")
		return
	}

	ad, err := h.ads.CreateAd(r.Context(), identity, req.input(), upload)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create ad")
		return
	}

	log.Debug("ad created", slog.String("ad_id", ad.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, ad)
}

// GetAd handles GET /ads/{id}.
func (h *AdHandler) GetAd(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	ad, err := h.ads.GetAd(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get ad")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ad)
}

// UpdateAd handles PATCH /ads/{id}.
func (h *AdHandler) UpdateAd(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AdRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ad, err := h.ads.UpdateAd(r.Context(), identity, id, req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update ad")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ad)
}

// DeleteAd handles DELETE /ads/{id}.
func (h *AdHandler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ads.DeleteAd(r.Context(), identity, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete ad")
		return
	}

	log.Debug("ad deleted", slog.String("ad_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ListMyAds handles GET /ads/me.
func (h *AdHandler) ListMyAds(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	ads, err := h.ads.ListMyAds(r.Context(), identity)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list ads")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.NewListResponse(ads))
}

// UpdateAdImage handles PATCH /ads/{id}/image with a multipart "image" file.
func (h *AdHandler) UpdateAdImage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, ok := pathUUID(w, r, "id")
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

	path, err := h.ads.UpdateAdImage(r.Context(), identity, id, upload)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update image")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ImageResponse{Image: path})
}

// GetAdImage handles GET /ads/{id}/image and serves the raw image bytes.
func (h *AdHandler) GetAdImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	image, err := h.ads.GetAdImage(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get image")
		return
	}

	shared.RespondWithBytes(w, r, http.StatusOK, image.MediaType, image.Data)
}

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/service"
)

// Multipart part names.
const (
	imagePart      = "image"
	propertiesPart = "properties"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before parts spill to temporary files.
const multipartMemory = 8 << 20

// requireIdentity returns the identity set by the auth middleware, writing a
// 401 response when it is missing.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, service.ErrUnauthenticated, "")
		return domain.Identity{}, false
	}
	return identity, true
}

// getPathUUID parses the chi path parameter paramName as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", nil)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// pathUUID is getPathUUID writing a 400 response on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into v and validates it, writing
// a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleAPIError(w, r, fmt.Errorf("%w: %w", ErrPayloadTooLarge, err), "")
			return false
		}
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, asValidationError(err), "")
		return false
	}
	return true
}

// parseMultipart limits the body to maxBytes and parses it as multipart form data.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
		}
		return domain.NewValidationError("body", "must be multipart/form-data", err)
	}
	return nil
}

// readImagePart reads the "image" file part of a parsed multipart form.
func readImagePart(r *http.Request) (service.ImageUpload, error) {
	file, header, err := r.FormFile(imagePart)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return service.ImageUpload{}, domain.NewValidationError(imagePart, "is required", nil)
		}
		return service.ImageUpload{}, domain.NewValidationError(imagePart, "could not be read", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.ImageUpload{}, fmt.Errorf("failed to read image part: %w", err)
	}

	return service.ImageUpload{Data: data, MediaType: partMediaType(header)}, nil
}

// readPropertiesPart decodes the "properties" part, sent either as a form
// field or as a file part, into v.
func readPropertiesPart(r *http.Request, v interface{}) error {
	if value := r.FormValue(propertiesPart); value != "" {
		return decodeProperties(strings.NewReader(value), v)
	}

	file, _, err := r.FormFile(propertiesPart)
	if err != nil {
		return domain.NewValidationError(propertiesPart, "is required", nil)
	}
	defer func() { _ = file.Close() }()

	return decodeProperties(file, v)
}

func decodeProperties(src io.Reader, v interface{}) error {
	if err := shared.DecodeJSONFrom(src, v); err != nil {
		return domain.NewValidationError(propertiesPart, "must be a JSON object", err)
	}
	if err := shared.ValidateRequest(v); err != nil {
		return asValidationError(err)
	}
	return nil
}

func partMediaType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}

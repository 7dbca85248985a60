package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/imaging"
	"github.com/adboard/adboard-api/internal/mocks"
	"github.com/adboard/adboard-api/internal/service"
	"github.com/adboard/adboard-api/internal/store"
)

const testMaxUpload = 1 << 20

func newTestAdHandler(ads *mocks.MockAdService) *AdHandler {
	return NewAdHandler(ads, testMaxUpload, testLogger())
}

func TestNewAdHandler_PanicsWithoutLogger(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewAdHandler(&mocks.MockAdService{}, testMaxUpload, nil) })
}

func TestAdHandler_ListAds(t *testing.T) {
	t.Parallel()

	var gotTitle string
	ads := &mocks.MockAdService{
		ListAdsFn: func(ctx context.Context, title string) ([]service.AdView, error) {
			gotTitle = title
			return []service.AdView{{ID: uuid.New(), Title: "Red bike", Price: 100}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newTestAdHandler(ads).ListAds(rec, newRequest(http.MethodGet, "/ads?title=bike", nil, domain.Identity{}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bike", gotTitle)

	resp := decodeResponse[shared.ListResponse[service.AdView]](t, rec)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Red bike", resp.Results[0].Title)
}

func TestAdHandler_ListAds_EmptyIsArray(t *testing.T) {
	t.Parallel()

	ads := &mocks.MockAdService{
		ListAdsFn: func(ctx context.Context, title string) ([]service.AdView, error) {
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newTestAdHandler(ads).ListAds(rec, newRequest(http.MethodGet, "/ads", nil, domain.Identity{}, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"results":[]}`, rec.Body.String())
}

func TestAdHandler_CreateAd(t *testing.T) {
	t.Parallel()

	png := imaging.Placeholder()
	identity := userIdentity()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var gotInput service.AdInput
		var gotUpload service.ImageUpload
		ads := &mocks.MockAdService{
			CreateAdFn: func(
				ctx context.Context,
				actor domain.Identity,
				input service.AdInput,
				upload service.ImageUpload,
			) (*service.AdView, error) {
				assert.Equal(t, identity, actor)
				gotInput = input
				gotUpload = upload
				return &service.AdView{ID: uuid.New(), Title: input.Title, Price: input.Price}, nil
			},
		}

		body, contentType := multipartBody(t,
			map[string]string{propertiesPart: `{"title":"Red bike","price":100,"description":"Barely used"}`},
			filePart{name: imagePart, contentType: "image/png", data: png})
		req := newRequest(http.MethodPost, "/ads", body, identity, nil)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		newTestAdHandler(ads).CreateAd(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, service.AdInput{Title: "Red bike", Price: 100, Description: "Barely used"}, gotInput)
		assert.Equal(t, png, gotUpload.Data)
		assert.Equal(t, "image/png", gotUpload.MediaType)
	})

	t.Run("properties sent as file part", func(t *testing.T) {
		t.Parallel()

		body, contentType := multipartBody(t, nil,
			filePart{name: propertiesPart, contentType: "application/json", data: []byte(`{"title":"Lamp","price":0}`)},
			filePart{name: imagePart, contentType: "image/png", data: png})
		req := newRequest(http.MethodPost, "/ads", body, identity, nil)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		newTestAdHandler(&mocks.MockAdService{}).CreateAd(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	tests := []struct {
		name        string
		fields      map[string]string
		files       []filePart
		wantMessage string
	}{
		{
			name:        "negative price",
			fields:      map[string]string{propertiesPart: `{"title":"Red bike","price":-1}`},
			files:       []filePart{{name: imagePart, contentType: "image/png", data: png}},
			wantMessage: "Invalid price: too small",
		},
		{
			name:        "price above column range",
			fields:      map[string]string{propertiesPart: `{"title":"Yacht","price":2147483648}`},
			files:       []filePart{{name: imagePart, contentType: "image/png", data: png}},
			wantMessage: "Invalid price: too large",
		},
		{
			name:        "missing price",
			fields:      map[string]string{propertiesPart: `{"title":"Red bike"}`},
			files:       []filePart{{name: imagePart, contentType: "image/png", data: png}},
			wantMessage: "Invalid price: required field",
		},
		{
			name:        "missing properties",
			files:       []filePart{{name: imagePart, contentType: "image/png", data: png}},
			wantMessage: "Invalid properties: is required",
		},
		{
			name:        "malformed properties",
			fields:      map[string]string{propertiesPart: `{"title":`},
			files:       []filePart{{name: imagePart, contentType: "image/png", data: png}},
			wantMessage: "Invalid properties: must be a JSON object",
		},
		{
			name:        "missing image",
			fields:      map[string]string{propertiesPart: `{"title":"Red bike","price":1}`},
			wantMessage: "Invalid image: is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ads := &mocks.MockAdService{
				CreateAdFn: func(
					context.Context, domain.Identity, service.AdInput, service.ImageUpload,
				) (*service.AdView, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}

			body, contentType := multipartBody(t, tc.fields, tc.files...)
			req := newRequest(http.MethodPost, "/ads", body, identity, nil)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			newTestAdHandler(ads).CreateAd(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantMessage, decodeError(t, rec).Error)
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		t.Parallel()

		req := newRequest(http.MethodPost, "/ads", strings.NewReader(`{"title":"x"}`), identity, nil)
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		newTestAdHandler(&mocks.MockAdService{}).CreateAd(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("payload too large", func(t *testing.T) {
		t.Parallel()

		body, contentType := multipartBody(t,
			map[string]string{propertiesPart: `{"title":"Red bike","price":1}`},
			filePart{name: imagePart, contentType: "image/png", data: make([]byte, 2*testMaxUpload)})
		req := newRequest(http.MethodPost, "/ads", body, identity, nil)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		newTestAdHandler(&mocks.MockAdService{}).CreateAd(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newTestAdHandler(&mocks.MockAdService{}).CreateAd(rec,
			newRequest(http.MethodPost, "/ads", nil, domain.Identity{}, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		ads := &mocks.MockAdService{
			CreateAdFn: func(
				context.Context, domain.Identity, service.AdInput, service.ImageUpload,
			) (*service.AdView, error) {
				return nil, errors.Join(service.ErrStorage, errors.New("bucket unreachable"))
			},
		}

		body, contentType := multipartBody(t,
			map[string]string{propertiesPart: `{"title":"Red bike","price":1}`},
			filePart{name: imagePart, contentType: "image/png", data: png})
		req := newRequest(http.MethodPost, "/ads", body, identity, nil)
		req.Header.Set("Content-Type", contentType)

		rec := httptest.NewRecorder()
		newTestAdHandler(ads).CreateAd(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to create ad", decodeError(t, rec).Error)
		assert.NotContains(t, rec.Body.String(), "bucket")
	})
}

func TestAdHandler_GetAd(t *testing.T) {
	t.Parallel()

	adID := uuid.New()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		ads := &mocks.MockAdService{
			GetAdFn: func(ctx context.Context, id uuid.UUID) (*service.AdDetailView, error) {
				return &service.AdDetailView{ID: id, Title: "Red bike", Email: "owner@example.com"}, nil
			},
		}

		rec := httptest.NewRecorder()
		newTestAdHandler(ads).GetAd(rec, newRequest(http.MethodGet, "/ads/"+adID.String(), nil,
			domain.Identity{}, map[string]string{"id": adID.String()}))

		require.Equal(t, http.StatusOK, rec.Code)
		ad := decodeResponse[service.AdDetailView](t, rec)
		assert.Equal(t, adID, ad.ID)
		assert.Equal(t, "owner@example.com", ad.Email)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		ads := &mocks.MockAdService{
			GetAdFn: func(ctx context.Context, id uuid.UUID) (*service.AdDetailView, error) {
				return nil, fmt.Errorf("get ad: %w", store.ErrAdNotFound)
			},
		}

		rec := httptest.NewRecorder()
		newTestAdHandler(ads).GetAd(rec, newRequest(http.MethodGet, "/ads/"+adID.String(), nil,
			domain.Identity{}, map[string]string{"id": adID.String()}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Ad not found", decodeError(t, rec).Error)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		newTestAdHandler(&mocks.MockAdService{}).GetAd(rec, newRequest(http.MethodGet, "/ads/nope", nil,
			domain.Identity{}, map[string]string{"id": "nope"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid id: has invalid format", decodeError(t, rec).Error)
	})
}

func TestAdHandler_UpdateAd(t *testing.T) {
	t.Parallel()

	adID := uuid.New()
	params := map[string]string{"id": adID.String()}

	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
	}{
		{
			name:       "owner updates",
			body:       map[string]interface{}{"title": "Blue bike", "price": 80},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not the owner",
			body:       map[string]interface{}{"title": "Blue bike", "price": 80},
			serviceErr: fmt.Errorf("update ad: %w", service.ErrNotOwned),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "ad missing",
			body:       map[string]interface{}{"title": "Blue bike", "price": 80},
			serviceErr: fmt.Errorf("update ad: %w", store.ErrAdNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "negative price",
			body:       map[string]interface{}{"title": "Blue bike", "price": -5},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       map[string]interface{}{"title": "Blue bike", "price": 5, "owner_id": uuid.New()},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ads := &mocks.MockAdService{
				UpdateAdFn: func(
					ctx context.Context,
					actor domain.Identity,
					id uuid.UUID,
					input service.AdInput,
				) (*service.AdView, error) {
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					return &service.AdView{ID: id, Title: input.Title, Price: input.Price}, nil
				},
			}

			rec := httptest.NewRecorder()
			newTestAdHandler(ads).UpdateAd(rec, newRequest(http.MethodPatch, "/ads/"+adID.String(),
				jsonBody(t, tc.body), userIdentity(), params))

			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestAdHandler_DeleteAd(t *testing.T) {
	t.Parallel()

	adID := uuid.New()
	params := map[string]string{"id": adID.String()}

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		var deleted uuid.UUID
		ads := &mocks.MockAdService{
			DeleteAdFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID) error {
				deleted = id
				return nil
			},
		}

		rec := httptest.NewRecorder()
		newTestAdHandler(ads).DeleteAd(rec, newRequest(http.MethodDelete, "/ads/"+adID.String(), nil,
			userIdentity(), params))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, adID, deleted)
	})

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()

		ads := &mocks.MockAdService{
			DeleteAdFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID) error {
				return service.ErrNotOwned
			},
		}

		rec := httptest.NewRecorder()
		newTestAdHandler(ads).DeleteAd(rec, newRequest(http.MethodDelete, "/ads/"+adID.String(), nil,
			userIdentity(), params))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAdHandler_ListMyAds(t *testing.T) {
	t.Parallel()

	identity := userIdentity()
	ads := &mocks.MockAdService{
		ListMyAdsFn: func(ctx context.Context, actor domain.Identity) ([]service.AdView, error) {
			return []service.AdView{{ID: uuid.New(), AuthorID: actor.UserID}}, nil
		},
	}

	rec := httptest.NewRecorder()
	newTestAdHandler(ads).ListMyAds(rec, newRequest(http.MethodGet, "/ads/me", nil, identity, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse[shared.ListResponse[service.AdView]](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, identity.UserID, resp.Results[0].AuthorID)
}

func TestAdHandler_UpdateAdImage(t *testing.T) {
	t.Parallel()

	adID := uuid.New()
	body, contentType := multipartBody(t, nil,
		filePart{name: imagePart, contentType: "image/png", data: imaging.Placeholder()})
	req := newRequest(http.MethodPatch, "/ads/"+adID.String()+"/image", body, userIdentity(),
		map[string]string{"id": adID.String()})
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	newTestAdHandler(&mocks.MockAdService{}).UpdateAdImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, service.AdImagePath(adID), decodeResponse[ImageResponse](t, rec).Image)
}

func TestAdHandler_GetAdImage(t *testing.T) {
	t.Parallel()

	adID := uuid.New()
	png := imaging.Placeholder()
	ads := &mocks.MockAdService{
		GetAdImageFn: func(ctx context.Context, id uuid.UUID) (*service.ImageContent, error) {
			return &service.ImageContent{Data: png, MediaType: "image/png"}, nil
		},
	}

	rec := httptest.NewRecorder()
	newTestAdHandler(ads).GetAdImage(rec, newRequest(http.MethodGet, "/ads/"+adID.String()+"/image", nil,
		domain.Identity{}, map[string]string{"id": adID.String()}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, png, rec.Body.Bytes())
}

package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/service"
)

// MockAdService implements service.AdService for testing
type MockAdService struct {
	ListAdsFn       func(ctx context.Context, title string) ([]service.AdView, error)
	CreateAdFn      func(ctx context.Context, actor domain.Identity, input service.AdInput, upload service.ImageUpload) (*service.AdView, error)
	GetAdFn         func(ctx context.Context, id uuid.UUID) (*service.AdDetailView, error)
	UpdateAdFn      func(ctx context.Context, actor domain.Identity, id uuid.UUID, input service.AdInput) (*service.AdView, error)
	DeleteAdFn      func(ctx context.Context, actor domain.Identity, id uuid.UUID) error
	ListMyAdsFn     func(ctx context.Context, actor domain.Identity) ([]service.AdView, error)
	UpdateAdImageFn func(ctx context.Context, actor domain.Identity, id uuid.UUID, upload service.ImageUpload) (string, error)
	GetAdImageFn    func(ctx context.Context, id uuid.UUID) (*service.ImageContent, error)
}

var _ service.AdService = (*MockAdService)(nil)

func (m *MockAdService) ListAds(ctx context.Context, title string) ([]service.AdView, error) {
	if m.ListAdsFn != nil {
		return m.ListAdsFn(ctx, title)
	}
	return []service.AdView{}, nil
}

func (m *MockAdService) CreateAd(
	ctx context.Context,
	actor domain.Identity,
	input service.AdInput,
	upload service.ImageUpload,
) (*service.AdView, error) {
	if m.CreateAdFn != nil {
		return m.CreateAdFn(ctx, actor, input, upload)
	}
	return &service.AdView{}, nil
}

func (m *MockAdService) GetAd(ctx context.Context, id uuid.UUID) (*service.AdDetailView, error) {
	if m.GetAdFn != nil {
		return m.GetAdFn(ctx, id)
	}
	return &service.AdDetailView{ID: id}, nil
}

func (m *MockAdService) UpdateAd(
	ctx context.Context,
	actor domain.Identity,
	id uuid.UUID,
	input service.AdInput,
) (*service.AdView, error) {
	if m.UpdateAdFn != nil {
		return m.UpdateAdFn(ctx, actor, id, input)
	}
	return &service.AdView{ID: id}, nil
}

func (m *MockAdService) DeleteAd(ctx context.Context, actor domain.Identity, id uuid.UUID) error {
	if m.DeleteAdFn != nil {
		return m.DeleteAdFn(ctx, actor, id)
	}
	return nil
}

func (m *MockAdService) ListMyAds(ctx context.Context, actor domain.Identity) ([]service.AdView, error) {
	if m.ListMyAdsFn != nil {
		return m.ListMyAdsFn(ctx, actor)
	}
	return []service.AdView{}, nil
}

func (m *MockAdService) UpdateAdImage(
	ctx context.Context,
	actor domain.Identity,
	id uuid.UUID,
	upload service.ImageUpload,
) (string, error) {
	if m.UpdateAdImageFn != nil {
		return m.UpdateAdImageFn(ctx, actor, id, upload)
	}
	return service.AdImagePath(id), nil
}

func (m *MockAdService) GetAdImage(ctx context.Context, id uuid.UUID) (*service.ImageContent, error) {
	if m.GetAdImageFn != nil {
		return m.GetAdImageFn(ctx, id)
	}
	return &service.ImageContent{}, nil
}

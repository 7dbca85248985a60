package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn      func(ctx context.Context, input service.RegisterInput) (*service.UserView, error)
	AuthenticateFn  func(ctx context.Context, email, password string) (*domain.User, error)
	IdentityFn      func(ctx context.Context, userID uuid.UUID) (domain.Identity, error)
	GetProfileFn    func(ctx context.Context, actor domain.Identity) (*service.UserView, error)
	UpdateProfileFn func(ctx context.Context, actor domain.Identity, input service.ProfileInput) (*service.UserView, error)
	SetPasswordFn   func(ctx context.Context, actor domain.Identity, current, next string) error
	UpdateAvatarFn  func(ctx context.Context, actor domain.Identity, upload service.ImageUpload) (string, error)
	GetAvatarFn     func(ctx context.Context, userID uuid.UUID) (*service.ImageContent, error)
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*service.UserView, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, input)
	}
	return &service.UserView{ID: uuid.New(), Email: input.Email, Role: domain.RoleUser}, nil
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *MockUserService) Identity(ctx context.Context, userID uuid.UUID) (domain.Identity, error) {
	if m.IdentityFn != nil {
		return m.IdentityFn(ctx, userID)
	}
	return domain.Identity{UserID: userID, Role: domain.RoleUser}, nil
}

func (m *MockUserService) GetProfile(ctx context.Context, actor domain.Identity) (*service.UserView, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, actor)
	}
	return &service.UserView{ID: actor.UserID, Role: actor.Role}, nil
}

func (m *MockUserService) UpdateProfile(
	ctx context.Context,
	actor domain.Identity,
	input service.ProfileInput,
) (*service.UserView, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, actor, input)
	}
	return &service.UserView{
		ID:        actor.UserID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      actor.Role,
	}, nil
}

func (m *MockUserService) SetPassword(ctx context.Context, actor domain.Identity, current, next string) error {
	if m.SetPasswordFn != nil {
		return m.SetPasswordFn(ctx, actor, current, next)
	}
	return nil
}

func (m *MockUserService) UpdateAvatar(
	ctx context.Context,
	actor domain.Identity,
	upload service.ImageUpload,
) (string, error) {
	if m.UpdateAvatarFn != nil {
		return m.UpdateAvatarFn(ctx, actor, upload)
	}
	return service.UserImagePath(actor.UserID), nil
}

func (m *MockUserService) GetAvatar(ctx context.Context, userID uuid.UUID) (*service.ImageContent, error) {
	if m.GetAvatarFn != nil {
		return m.GetAvatarFn(ctx, userID)
	}
	return &service.ImageContent{}, nil
}

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/service/auth"
	"github.com/adboard/adboard-api/internal/store"
	"github.com/google/uuid"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ProfileInput carries the editable profile fields of a user.
type ProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UserService provides account and profile operations.
type UserService interface {
	// Register creates a USER account. The role cannot be chosen by the caller.
	Register(ctx context.Context, input RegisterInput) (*UserView, error)

	// Authenticate returns the user matching email and password.
	// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// Identity resolves the current role of a user, used when refreshing tokens.
	Identity(ctx context.Context, userID uuid.UUID) (domain.Identity, error)

	// GetProfile returns the profile of the acting user.
	GetProfile(ctx context.Context, actor domain.Identity) (*UserView, error)

	// UpdateProfile replaces first name, last name and phone of the acting user.
	UpdateProfile(ctx context.Context, actor domain.Identity, input ProfileInput) (*UserView, error)

	// SetPassword changes the password after verifying the current one.
	SetPassword(ctx context.Context, actor domain.Identity, current, next string) error

	// UpdateAvatar replaces the avatar of the acting user and returns the path serving it.
	UpdateAvatar(ctx context.Context, actor domain.Identity, upload ImageUpload) (string, error)

	// GetAvatar returns the avatar of a user, or the default avatar if none is set.
	GetAvatar(ctx context.Context, userID uuid.UUID) (*ImageContent, error)
}

type userServiceImpl struct {
	db            *sql.DB
	users         store.UserStore
	images        store.ImageStore
	hasher        auth.PasswordHasher
	defaultAvatar ImageContent
	logger        *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	db *sql.DB,
	users store.UserStore,
	images store.ImageStore,
	hasher auth.PasswordHasher,
	defaultAvatar ImageContent,
	logger *slog.Logger,
) (UserService, error) {
	if err := requireDeps("user",
		dep{"db", db == nil},
		dep{"users", users == nil},
		dep{"images", images == nil},
		dep{"hasher", hasher == nil},
		dep{"default avatar", len(defaultAvatar.Data) == 0},
	); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		db:            db,
		users:         users,
		images:        images,
		hasher:        hasher,
		defaultAvatar: defaultAvatar,
		logger:        logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) fail(operation, message string, err error) error {
	return newOperationError("user", operation, message, err)
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, input RegisterInput) (*UserView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.Email, input.Password, domain.RoleUser)
	if err != nil {
		return nil, s.fail("register", "invalid user", err)
	}
	if err := user.SetProfile(input.FirstName, input.LastName, input.Phone); err != nil {
		return nil, s.fail("register", "invalid profile", err)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, s.fail("register", "failed to hash password", err)
	}
	user.HashedPassword = hashed

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with an existing email", slog.String("email", user.Email))
		} else {
			log.Error("failed to save user",
				slog.String("error", err.Error()),
				slog.String("email", user.Email))
		}
		return nil, s.fail("register", "failed to create user", err)
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email))

	view := ToUserView(user)
	return &view, nil
}

// Authenticate implements UserService.Authenticate
func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, s.fail("authenticate", "unknown email", ErrInvalidCredentials)
		}
		return nil, s.fail("authenticate", "failed to get user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return nil, s.fail("authenticate", "password mismatch", ErrInvalidCredentials)
	}

	return user, nil
}

// Identity implements UserService.Identity
func (s *userServiceImpl) Identity(ctx context.Context, userID uuid.UUID) (domain.Identity, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Identity{}, s.fail("identity", "failed to get user", err)
	}
	return domain.Identity{UserID: user.ID, Role: user.Role}, nil
}

// GetProfile implements UserService.GetProfile
func (s *userServiceImpl) GetProfile(ctx context.Context, actor domain.Identity) (*UserView, error) {
	if actor.IsZero() {
		return nil, s.fail("get_profile", "no acting identity", ErrUnauthenticated)
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, s.fail("get_profile", "failed to get user", err)
	}

	view := ToUserView(user)
	return &view, nil
}

// UpdateProfile implements UserService.UpdateProfile
func (s *userServiceImpl) UpdateProfile(
	ctx context.Context,
	actor domain.Identity,
	input ProfileInput,
) (*UserView, error) {
	if actor.IsZero() {
		return nil, s.fail("update_profile", "no acting identity", ErrUnauthenticated)
	}

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, actor.UserID)
		if err != nil {
			return s.fail("update_profile", "failed to get user", err)
		}
		if err := user.SetProfile(input.FirstName, input.LastName, input.Phone); err != nil {
			return s.fail("update_profile", "invalid profile", err)
		}
		if err := users.Update(ctx, user); err != nil {
			return s.fail("update_profile", "failed to save user", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("profile updated",
		slog.String("user_id", actor.UserID.String()))

	view := ToUserView(updated)
	return &view, nil
}

// SetPassword implements UserService.SetPassword
func (s *userServiceImpl) SetPassword(ctx context.Context, actor domain.Identity, current, next string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor.IsZero() {
		return s.fail("set_password", "no acting identity", ErrUnauthenticated)
	}
	if err := domain.ValidatePassword(next); err != nil {
		return s.fail("set_password", "invalid new password", err)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByID(ctx, actor.UserID)
		if err != nil {
			return s.fail("set_password", "failed to get user", err)
		}
		if err := s.hasher.Compare(user.HashedPassword, current); err != nil {
			return s.fail("set_password", "current password mismatch", ErrInvalidCredentials)
		}

		hashed, err := s.hasher.Hash(next)
		if err != nil {
			return s.fail("set_password", "failed to hash password", err)
		}
		user.HashedPassword = hashed

		if err := users.Update(ctx, user); err != nil {
			return s.fail("set_password", "failed to save user", err)
		}
		return nil
	})
	if err != nil {
		log.Debug("password change rejected",
			slog.String("user_id", actor.UserID.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("password changed", slog.String("user_id", actor.UserID.String()))
	return nil
}

// UpdateAvatar implements UserService.UpdateAvatar
func (s *userServiceImpl) UpdateAvatar(
	ctx context.Context,
	actor domain.Identity,
	upload ImageUpload,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor.IsZero() {
		return "", s.fail("update_avatar", "no acting identity", ErrUnauthenticated)
	}

	image, err := newImageFromUpload(upload)
	if err != nil {
		return "", s.fail("update_avatar", "invalid image", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		images := s.images.WithTx(tx)

		user, err := users.GetByID(ctx, actor.UserID)
		if err != nil {
			return s.fail("update_avatar", "failed to get user", err)
		}

		if err := images.Create(ctx, image); err != nil {
			return s.fail("update_avatar", "failed to store image", errors.Join(ErrStorage, err))
		}

		previous := user.ImageID
		user.ImageID = &image.ID
		if err := users.Update(ctx, user); err != nil {
			return s.fail("update_avatar", "failed to save user", err)
		}

		if previous != nil {
			err := images.Delete(ctx, *previous)
			if err != nil && !errors.Is(err, store.ErrImageNotFound) {
				return s.fail("update_avatar", "failed to delete previous avatar", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Debug("avatar update failed",
			slog.String("user_id", actor.UserID.String()),
			slog.String("error", err.Error()))
		return "", err
	}

	log.Info("avatar replaced",
		slog.String("user_id", actor.UserID.String()),
		slog.String("image_id", image.ID.String()))
	return UserImagePath(actor.UserID), nil
}

// GetAvatar implements UserService.GetAvatar
func (s *userServiceImpl) GetAvatar(ctx context.Context, userID uuid.UUID) (*ImageContent, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.fail("get_avatar", "failed to get user", err)
	}

	if user.ImageID == nil {
		return s.fallbackAvatar(), nil
	}

	image, err := s.images.GetByID(ctx, *user.ImageID)
	if err != nil {
		if errors.Is(err, store.ErrImageNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Warn("avatar image missing, serving default",
				slog.String("user_id", userID.String()),
				slog.String("image_id", user.ImageID.String()))
			return s.fallbackAvatar(), nil
		}
		return nil, s.fail("get_avatar", "failed to get image", err)
	}

	return &ImageContent{Data: image.Data, MediaType: image.MediaType}, nil
}

func (s *userServiceImpl) fallbackAvatar() *ImageContent {
	return &ImageContent{
		Data:      bytes.Clone(s.defaultAvatar.Data),
		MediaType: s.defaultAvatar.MediaType,
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/imaging"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/store"
)

var testDefaultAvatar = ImageContent{Data: []byte("default-avatar"), MediaType: "image/png"}

type userFixture struct {
	sql     sqlmock.Sqlmock
	users   *MockUserStore
	images  *MockImageStore
	hasher  *MockPasswordHasher
	service UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.NewTestLogger(t)
	f := &userFixture{
		sql:    sqlMock,
		users:  new(MockUserStore),
		images: new(MockImageStore),
		hasher: new(MockPasswordHasher),
	}

	f.service, err = NewUserService(db, f.users, f.images, f.hasher, testDefaultAvatar, log)
	require.NoError(t, err)
	return f
}

func (f *userFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.users.AssertExpectations(t)
	f.images.AssertExpectations(t)
	f.hasher.AssertExpectations(t)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func existingUser() *domain.User {
	now := time.Now().UTC().Add(-time.Hour)
	return &domain.User{
		ID:             uuid.New(),
		Email:          "user@example.com",
		FirstName:      "Dana",
		LastName:       "Park",
		Phone:          "+1 555 0100 22",
		Role:           domain.RoleUser,
		HashedPassword: "stored-hash",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestNewUserService_RequiresDefaultAvatar(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewUserService(db, new(MockUserStore), new(MockImageStore), new(MockPasswordHasher), ImageContent{}, nil)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "default avatar cannot be nil", opErr.Message)
}

func TestUserService_Register(t *testing.T) {
	t.Run("creates a USER with a hashed password", func(t *testing.T) {
		f := newUserFixture(t)

		f.hasher.On("Hash", "correct horse").Return("hashed", nil)
		f.sql.ExpectBegin()
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "new@example.com" &&
				u.Role == domain.RoleUser &&
				u.HashedPassword == "hashed" &&
				u.FirstName == "Eve"
		})).Return(nil)
		f.sql.ExpectCommit()

		view, err := f.service.Register(context.Background(), RegisterInput{
			Email:     "  New@Example.com ",
			Password:  "correct horse",
			FirstName: "Eve",
		})
		require.NoError(t, err)

		assert.Equal(t, "new@example.com", view.Email)
		assert.Equal(t, domain.RoleUser, view.Role)
		assert.Empty(t, view.Image)
		f.assertExpectations(t)
	})

	t.Run("existing email", func(t *testing.T) {
		f := newUserFixture(t)

		f.hasher.On("Hash", mock.Anything).Return("hashed", nil)
		f.sql.ExpectBegin()
		f.users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)
		f.sql.ExpectRollback()

		_, err := f.service.Register(context.Background(), RegisterInput{
			Email:    "taken@example.com",
			Password: "long enough",
		})

		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NotErrorIs(t, err, ErrStorage)
		f.assertExpectations(t)
	})

	t.Run("short password never reaches the hasher", func(t *testing.T) {
		f := newUserFixture(t)

		_, err := f.service.Register(context.Background(), RegisterInput{
			Email:    "a@example.com",
			Password: "short",
		})

		assert.ErrorIs(t, err, domain.ErrValidation)
		f.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	user := existingUser()

	tests := []struct {
		name     string
		setup    func(f *userFixture)
		password string
		wantErr  error
	}{
		{
			name: "valid credentials",
			setup: func(f *userFixture) {
				f.users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
				f.hasher.On("Compare", "stored-hash", "right password").Return(nil)
			},
			password: "right password",
		},
		{
			name: "wrong password",
			setup: func(f *userFixture) {
				f.users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
				f.hasher.On("Compare", "stored-hash", "wrong password").Return(errors.New("mismatch"))
			},
			password: "wrong password",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "unknown email",
			setup: func(f *userFixture) {
				f.users.On("GetByEmail", mock.Anything, user.Email).Return(nil, store.ErrUserNotFound)
			},
			password: "anything",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name: "store failure",
			setup: func(f *userFixture) {
				f.users.On("GetByEmail", mock.Anything, user.Email).Return(nil, errors.New("connection refused"))
			},
			password: "anything",
			wantErr:  ErrStorage,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newUserFixture(t)
			tc.setup(f)

			got, err := f.service.Authenticate(context.Background(), user.Email, tc.password)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user.ID, got.ID)
			}
			f.assertExpectations(t)
		})
	}
}

func TestUserService_Identity(t *testing.T) {
	f := newUserFixture(t)
	admin := existingUser()
	admin.Role = domain.RoleAdmin
	f.users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

	identity, err := f.service.Identity(context.Background(), admin.ID)
	require.NoError(t, err)

	assert.Equal(t, admin.ID, identity.UserID)
	assert.True(t, identity.IsAdmin())
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("replaces editable fields only", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()
		actor := domain.Identity{UserID: user.ID, Role: domain.RoleUser}

		f.sql.ExpectBegin()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.FirstName == "Dan" && u.LastName == "" && u.Phone == "" &&
				u.Email == "user@example.com" && u.HashedPassword == "stored-hash"
		})).Return(nil)
		f.sql.ExpectCommit()

		view, err := f.service.UpdateProfile(context.Background(), actor, ProfileInput{FirstName: " Dan "})
		require.NoError(t, err)

		assert.Equal(t, "Dan", view.FirstName)
		assert.Equal(t, "user@example.com", view.Email)
		f.assertExpectations(t)
	})

	t.Run("invalid phone", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()

		f.sql.ExpectBegin()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.sql.ExpectRollback()

		_, err := f.service.UpdateProfile(context.Background(),
			domain.Identity{UserID: user.ID, Role: domain.RoleUser},
			ProfileInput{Phone: "call me maybe"})

		assert.ErrorIs(t, err, domain.ErrValidation)
		f.assertExpectations(t)
	})
}

func TestUserService_SetPassword(t *testing.T) {
	t.Run("verifies current password and stores new hash", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()

		f.sql.ExpectBegin()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.hasher.On("Compare", "stored-hash", "old password").Return(nil)
		f.hasher.On("Hash", "new password").Return("new-hash", nil)
		f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.HashedPassword == "new-hash"
		})).Return(nil)
		f.sql.ExpectCommit()

		err := f.service.SetPassword(context.Background(),
			domain.Identity{UserID: user.ID, Role: domain.RoleUser}, "old password", "new password")

		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()

		f.sql.ExpectBegin()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.hasher.On("Compare", "stored-hash", "guess").Return(errors.New("mismatch"))
		f.sql.ExpectRollback()

		err := f.service.SetPassword(context.Background(),
			domain.Identity{UserID: user.ID, Role: domain.RoleUser}, "guess", "new password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("new password too short", func(t *testing.T) {
		f := newUserFixture(t)

		err := f.service.SetPassword(context.Background(), userIdentity(), "old password", "short")

		assert.ErrorIs(t, err, domain.ErrValidation)
		f.assertExpectations(t)
	})
}

func TestUserService_UpdateAvatar(t *testing.T) {
	t.Run("replaces and deletes the previous avatar", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()
		previous := uuid.New()
		user.ImageID = &previous

		f.sql.ExpectBegin()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.images.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.ImageID != nil && *u.ImageID != previous
		})).Return(nil)
		f.images.On("Delete", mock.Anything, previous).Return(nil)
		f.sql.ExpectCommit()

		path, err := f.service.UpdateAvatar(context.Background(),
			domain.Identity{UserID: user.ID, Role: domain.RoleUser}, pngUpload())
		require.NoError(t, err)

		assert.Equal(t, UserImagePath(user.ID), path)
		f.assertExpectations(t)
	})

	t.Run("first avatar deletes nothing", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()

		f.sql.ExpectBegin()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.images.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.sql.ExpectCommit()

		_, err := f.service.UpdateAvatar(context.Background(),
			domain.Identity{UserID: user.ID, Role: domain.RoleUser}, pngUpload())

		require.NoError(t, err)
		f.images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("failed user update rolls back", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()

		f.sql.ExpectBegin()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.images.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.users.On("Update", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		f.sql.ExpectRollback()

		_, err := f.service.UpdateAvatar(context.Background(),
			domain.Identity{UserID: user.ID, Role: domain.RoleUser}, pngUpload())

		assert.ErrorIs(t, err, ErrStorage)
		f.assertExpectations(t)
	})
}

func TestUserService_GetAvatar(t *testing.T) {
	t.Run("stored avatar", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()
		imageID := uuid.New()
		user.ImageID = &imageID
		img := &domain.Image{ID: imageID, MediaType: "image/png", Data: imaging.Placeholder()}

		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.images.On("GetByID", mock.Anything, imageID).Return(img, nil)

		content, err := f.service.GetAvatar(context.Background(), user.ID)
		require.NoError(t, err)

		assert.Equal(t, img.Data, content.Data)
		f.assertExpectations(t)
	})

	t.Run("no avatar serves the default", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		content, err := f.service.GetAvatar(context.Background(), user.ID)
		require.NoError(t, err)

		assert.Equal(t, testDefaultAvatar.Data, content.Data)
		assert.Equal(t, "image/png", content.MediaType)
	})

	t.Run("missing image serves the default", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()
		imageID := uuid.New()
		user.ImageID = &imageID

		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.images.On("GetByID", mock.Anything, imageID).Return(nil, store.ErrImageNotFound)

		content, err := f.service.GetAvatar(context.Background(), user.ID)
		require.NoError(t, err)

		assert.Equal(t, testDefaultAvatar.Data, content.Data)
	})

	t.Run("default avatar is a fresh copy per call", func(t *testing.T) {
		f := newUserFixture(t)
		user := existingUser()
		f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

		first, err := f.service.GetAvatar(context.Background(), user.ID)
		require.NoError(t, err)
		want := bytes.Clone(first.Data)
		for i := range first.Data {
			first.Data[i] = 0
		}

		second, err := f.service.GetAvatar(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, want, second.Data)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUserFixture(t)
		id := uuid.New()
		f.users.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)

		_, err := f.service.GetAvatar(context.Background(), id)

		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

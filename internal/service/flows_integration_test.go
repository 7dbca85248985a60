//go:build integration

package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/imaging"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/platform/postgres"
	"github.com/adboard/adboard-api/internal/service"
	"github.com/adboard/adboard-api/internal/service/auth"
	"github.com/adboard/adboard-api/internal/store"
	"github.com/adboard/adboard-api/internal/testdb"
)

type services struct {
	db       *sql.DB
	users    store.UserStore
	ads      service.AdService
	comments service.CommentService
	accounts service.UserService
}

func newServices(t *testing.T) services {
	t.Helper()

	db := testdb.GetTestDBWithT(t)
	log, _ := logger.NewTestLogger(t)

	users := postgres.NewPostgresUserStore(db, log)
	ads := postgres.NewPostgresAdStore(db, log)
	comments := postgres.NewPostgresCommentStore(db, log)
	images := postgres.NewPostgresImageStore(db, nil, "", log)

	commentService, err := service.NewCommentService(db, comments, ads, users,
		service.CommentPolicy{StrictAdLookup: true}, log)
	require.NoError(t, err)

	adService, err := service.NewAdService(db, ads, images, users, commentService, log)
	require.NoError(t, err)

	avatar, err := service.LoadDefaultAvatar("")
	require.NoError(t, err)
	userService, err := service.NewUserService(db, users, images, auth.NewBcryptHasher(4), avatar, log)
	require.NoError(t, err)

	return services{
		db:       db,
		users:    users,
		ads:      adService,
		comments: commentService,
		accounts: userService,
	}
}

// register creates a committed account with a unique email and removes it
// when the test ends.
func (s services) register(t *testing.T, name, password string) domain.Identity {
	t.Helper()

	view, err := s.accounts.Register(context.Background(), service.RegisterInput{
		Email:     fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()),
		Password:  password,
		FirstName: name,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(context.Background(), `DELETE FROM comments WHERE author_id = $1`, view.ID)
		_, _ = s.db.ExecContext(context.Background(), `DELETE FROM ads WHERE owner_id = $1`, view.ID)
		_, _ = s.db.ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, view.ID)
	})

	return domain.Identity{UserID: view.ID, Role: view.Role}
}

func TestAdLifecycleRemovesComments(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	seller := s.register(t, "seller", "password1234")
	buyer := s.register(t, "buyer", "password1234")

	ad, err := s.ads.CreateAd(ctx, seller,
		service.AdInput{Title: "Bike", Price: 100},
		service.ImageUpload{Data: imaging.Placeholder()})
	require.NoError(t, err)

	_, err = s.comments.AddComment(ctx, buyer, ad.ID, "Great!")
	require.NoError(t, err)

	comments, err := s.comments.ListComments(ctx, ad.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, buyer.UserID, comments[0].AuthorID)
	assert.Equal(t, "Great!", comments[0].Text)

	require.NoError(t, s.ads.DeleteAd(ctx, seller, ad.ID))

	_, err = s.comments.ListComments(ctx, ad.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.ads.GetAd(ctx, ad.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPasswordChange(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	const (
		oldPassword = "old-password-1"
		newPassword = "new-password-2"
	)

	user := s.register(t, "owner", oldPassword)
	before, err := s.users.GetByID(ctx, user.UserID)
	require.NoError(t, err)

	err = s.accounts.SetPassword(ctx, user, "wrong-password", newPassword)
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	unchanged, err := s.users.GetByID(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, before.HashedPassword, unchanged.HashedPassword)

	require.NoError(t, s.accounts.SetPassword(ctx, user, oldPassword, newPassword))

	authenticated, err := s.accounts.Authenticate(ctx, before.Email, newPassword)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, authenticated.ID)

	_, err = s.accounts.Authenticate(ctx, before.Email, oldPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/imaging"
)

func TestToUserView_OmitsPasswordMaterial(t *testing.T) {
	user := existingUser()
	user.Password = "plaintext"

	data, err := json.Marshal(ToUserView(user))
	require.NoError(t, err)

	assert.NotContains(t, string(data), "stored-hash")
	assert.NotContains(t, string(data), "plaintext")
	assert.NotContains(t, string(data), `"image"`)

	imageID := uuid.New()
	user.ImageID = &imageID
	assert.Equal(t, "/users/"+user.ID.String()+"/image", ToUserView(user).Image)
}

func TestToAdViews_NeverNil(t *testing.T) {
	views := ToAdViews(nil)
	require.NotNil(t, views)

	data, err := json.Marshal(views)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestToCommentView_WithoutAuthor(t *testing.T) {
	c := existingComment(uuid.New(), uuid.New(), "hi")

	view := ToCommentView(c, nil)

	assert.Equal(t, c.AuthorID, view.AuthorID)
	assert.Empty(t, view.AuthorFirstName)
	assert.Empty(t, view.AuthorImage)
}

func TestToAdDetailView(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), FirstName: "Ann", Email: "ann@example.com"}
	ad := existingAd(owner.ID)

	view := ToAdDetailView(ad, owner)

	assert.Equal(t, "/ads/"+ad.ID.String()+"/image", view.Image)
	assert.Equal(t, "ann@example.com", view.Email)
	assert.Equal(t, ad.Price, view.Price)
}

func TestLoadDefaultAvatar(t *testing.T) {
	t.Run("built-in placeholder", func(t *testing.T) {
		avatar, err := LoadDefaultAvatar("")
		require.NoError(t, err)
		assert.Equal(t, "image/png", avatar.MediaType)
		assert.NotEmpty(t, avatar.Data)
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "avatar.png")
		require.NoError(t, os.WriteFile(path, imaging.Placeholder(), 0o600))

		avatar, err := LoadDefaultAvatar(path)
		require.NoError(t, err)
		assert.Equal(t, "image/png", avatar.MediaType)
	})

	t.Run("file that is not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "avatar.txt")
		require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))

		_, err := LoadDefaultAvatar(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDefaultAvatar(filepath.Join(t.TempDir(), "missing.png"))
		assert.Error(t, err)
	})
}

package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Image validation errors
var (
	ErrImageIDEmpty          = errors.New("image ID cannot be empty")
	ErrImageDataEmpty        = errors.New("image data cannot be empty")
	ErrImageMediaTypeInvalid = errors.New("media type must be an image/* type")
)

// Image is a binary blob with a media type. It belongs to exactly one ad
// or one user avatar slot and is deleted together with that slot.
//
// Data is populated for reads and for writes; ObjectKey is set only when the
// payload is kept in an object bucket instead of the database row.
type Image struct {
	ID        uuid.UUID
	MediaType string
	Size      int64
	Data      []byte
	ObjectKey string
	CreatedAt time.Time
}

// NewImage creates an image from raw bytes.
func NewImage(mediaType string, data []byte) (*Image, error) {
	img := &Image{
		ID:        uuid.New(),
		MediaType: strings.ToLower(strings.TrimSpace(mediaType)),
		Size:      int64(len(data)),
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}

	if err := img.Validate(); err != nil {
		return nil, err
	}

	return img, nil
}

// Validate checks if the Image has valid data.
func (i *Image) Validate() error {
	if i.ID == uuid.Nil {
		return NewValidationError("id", "", ErrImageIDEmpty)
	}
	if len(i.Data) == 0 {
		return NewValidationError("image", "", ErrImageDataEmpty)
	}
	if !strings.HasPrefix(i.MediaType, "image/") || len(i.MediaType) == len("image/") {
		return NewValidationError("media_type", "", ErrImageMediaTypeInvalid)
	}
	return nil
}

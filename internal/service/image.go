package service

import (
	"fmt"
	"os"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/imaging"
)

// ImageUpload is an uploaded image as received from the client.
// MediaType is the declared type; the stored type is sniffed from Data.
type ImageUpload struct {
	Data      []byte
	MediaType string
}

// ImageContent is an image ready to be served.
type ImageContent struct {
	Data      []byte
	MediaType string
}

// newImageFromUpload sniffs the payload and builds a domain image with the
// detected media type.
func newImageFromUpload(upload ImageUpload) (*domain.Image, error) {
	info, err := imaging.Inspect(upload.Data)
	if err != nil {
		return nil, err
	}
	return domain.NewImage(info.MediaType, upload.Data)
}

// LoadDefaultAvatar reads the avatar served to users without one. An empty
// path selects the built-in placeholder.
func LoadDefaultAvatar(path string) (ImageContent, error) {
	if path == "" {
		return ImageContent{Data: imaging.Placeholder(), MediaType: "image/png"}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImageContent{}, fmt.Errorf("failed to read default avatar: %w", err)
	}

	info, err := imaging.Inspect(data)
	if err != nil {
		return ImageContent{}, fmt.Errorf("default avatar %s is not a usable image: %w", path, err)
	}

	return ImageContent{Data: data, MediaType: info.MediaType}, nil
}

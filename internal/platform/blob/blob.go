// Package blob stores image payloads in an object bucket (S3, S3-compatible
// services such as R2 or MinIO, or Google Cloud Storage) when the images
// backend is not the database.
package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/adboard/adboard-api/internal/config"
)

// ErrObjectNotFound is returned by Get and Delete when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Bucket is the minimal object storage surface the image store needs.
type Bucket interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the bucket selected by cfg.Backend.
// It returns nil, nil for the "database" backend.
func Open(ctx context.Context, cfg config.ImagesConfig) (Bucket, error) {
	switch cfg.Backend {
	case "database", "":
		return nil, nil
	case "s3":
		b, err := NewS3Bucket(ctx, S3Config{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	case "gcs":
		b, err := NewGCSBucket(ctx, cfg.Bucket, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown images backend %q", cfg.Backend)
	}
}

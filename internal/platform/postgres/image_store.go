package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/platform/blob"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/store"
	"github.com/google/uuid"
)

// PostgresImageStore implements the store.ImageStore interface.
// Without a bucket the payload lives in the data column. With a bucket
// only the object key is stored in the row.
type PostgresImageStore struct {
	db     store.DBTX
	bucket blob.Bucket
	prefix string
	logger *slog.Logger
}

// NewPostgresImageStore creates a new PostgreSQL implementation of the ImageStore interface.
// bucket may be nil, in which case payloads are stored inline.
// If logger is nil, a default logger will be used.
func NewPostgresImageStore(db store.DBTX, bucket blob.Bucket, prefix string, logger *slog.Logger) *PostgresImageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresImageStore{
		db:     db,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With(slog.String("component", "image_store")),
	}
}

// Ensure PostgresImageStore implements store.ImageStore interface
var _ store.ImageStore = (*PostgresImageStore)(nil)

// WithTx implements store.ImageStore.WithTx
func (s *PostgresImageStore) WithTx(tx *sql.Tx) store.ImageStore {
	return &PostgresImageStore{
		db:     tx,
		bucket: s.bucket,
		prefix: s.prefix,
		logger: s.logger,
	}
}

func (s *PostgresImageStore) objectKey(id uuid.UUID) string {
	return s.prefix + id.String()
}

// Create implements store.ImageStore.Create
func (s *PostgresImageStore) Create(ctx context.Context, image *domain.Image) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := image.Validate(); err != nil {
		log.Warn("image validation failed during create",
			slog.String("error", err.Error()),
			slog.String("image_id", image.ID.String()))
		return err
	}

	var (
		data      []byte
		objectKey sql.NullString
	)
	if s.bucket == nil {
		data = image.Data
	} else {
		key := s.objectKey(image.ID)
		if err := s.bucket.Put(ctx, key, image.MediaType, image.Data); err != nil {
			log.Error("failed to upload image",
				slog.String("error", err.Error()),
				slog.String("image_id", image.ID.String()))
			return fmt.Errorf("failed to store image payload: %w", err)
		}
		objectKey = sql.NullString{String: key, Valid: true}
		store.OnRollback(ctx, func(ctx context.Context) error {
			return s.deleteObject(ctx, key)
		})
	}

	query := `
		INSERT INTO images (id, media_type, size, data, object_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		image.ID,
		image.MediaType,
		image.Size,
		data,
		objectKey,
		image.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create image",
			slog.String("error", err.Error()),
			slog.String("image_id", image.ID.String()))
		if objectKey.Valid {
			if delErr := s.deleteObject(context.WithoutCancel(ctx), objectKey.String); delErr != nil {
				log.Error("failed to remove uploaded image after insert failure",
					slog.String("error", delErr.Error()),
					slog.String("object_key", objectKey.String))
			}
		}
		return store.NewStoreError("image", "create", "failed to insert image", MapError(err))
	}

	image.ObjectKey = objectKey.String

	log.Info("image created successfully",
		slog.String("image_id", image.ID.String()),
		slog.String("media_type", image.MediaType),
		slog.Int64("size", image.Size))
	return nil
}

// GetByID implements store.ImageStore.GetByID
func (s *PostgresImageStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Image, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, media_type, size, data, object_key, created_at FROM images WHERE id = $1`

	var (
		image     domain.Image
		objectKey sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&image.ID,
		&image.MediaType,
		&image.Size,
		&image.Data,
		&objectKey,
		&image.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("image not found", slog.String("image_id", id.String()))
			return nil, store.ErrImageNotFound
		}
		log.Error("failed to get image",
			slog.String("error", err.Error()),
			slog.String("image_id", id.String()))
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	if !objectKey.Valid {
		return &image, nil
	}

	image.ObjectKey = objectKey.String
	if s.bucket == nil {
		log.Error("image payload is in a bucket but no bucket is configured",
			slog.String("image_id", id.String()))
		return nil, fmt.Errorf("image %s is stored in a bucket but no bucket is configured", id)
	}

	data, err := s.bucket.Get(ctx, image.ObjectKey)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			log.Warn("image object missing from bucket",
				slog.String("image_id", id.String()),
				slog.String("object_key", image.ObjectKey))
			return nil, store.ErrImageNotFound
		}
		log.Error("failed to download image",
			slog.String("error", err.Error()),
			slog.String("image_id", id.String()))
		return nil, fmt.Errorf("failed to load image payload: %w", err)
	}
	image.Data = data

	return &image, nil
}

// Delete implements store.ImageStore.Delete
// Returns store.ErrDeleteFailed if an ad still references the image.
func (s *PostgresImageStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var objectKey sql.NullString
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM images WHERE id = $1 RETURNING object_key`, id,
	).Scan(&objectKey)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			log.Debug("image not found for delete", slog.String("image_id", id.String()))
			return store.ErrImageNotFound
		case IsForeignKeyViolation(err):
			log.Warn("image still referenced during delete", slog.String("image_id", id.String()))
			return fmt.Errorf("%w: image %s is still referenced", store.ErrDeleteFailed, id)
		}
		log.Error("failed to delete image",
			slog.String("error", err.Error()),
			slog.String("image_id", id.String()))
		return store.NewStoreError("image", "delete", "failed to delete image", MapError(err))
	}

	if objectKey.Valid && s.bucket != nil {
		key := objectKey.String
		if err := store.OnCommit(ctx, func(ctx context.Context) error {
			return s.deleteObject(ctx, key)
		}); err != nil {
			return fmt.Errorf("failed to delete image payload: %w", err)
		}
	}

	log.Info("image deleted successfully", slog.String("image_id", id.String()))
	return nil
}

// deleteObject removes key from the bucket. A missing object counts as removed.
func (s *PostgresImageStore) deleteObject(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && !errors.Is(err, blob.ErrObjectNotFound) {
		return err
	}
	return nil
}

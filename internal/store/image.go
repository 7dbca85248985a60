package store

import (
	"context"
	"database/sql"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/google/uuid"
)

// ImageStore defines the interface for image persistence.
//
// Implementations may keep the payload outside the database. In that case
// Create and Delete coordinate with the enclosing transaction through
// OnRollback and OnCommit so that a rolled back transaction never leaves
// an orphaned object behind and a committed one never points at a missing one.
type ImageStore interface {
	// Create stores image and its payload. Failure to store the payload is
	// reported as an error and no row is written.
	Create(ctx context.Context, image *domain.Image) error

	// GetByID retrieves an image with its payload.
	// Returns ErrImageNotFound if the image does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Image, error)

	// Delete removes an image.
	// Returns ErrImageNotFound if the image does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ImageStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ImageStore
}

package store

import (
	"context"
	"database/sql"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/google/uuid"
)

// AdStore defines the interface for ad persistence.
// List results are ordered by creation time, oldest first.
type AdStore interface {
	// Create saves a new ad. The referenced owner and image must exist.
	Create(ctx context.Context, ad *domain.Ad) error

	// GetByID retrieves an ad by ID.
	// Returns ErrAdNotFound if the ad does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ad, error)

	// List returns every ad, or only those whose title contains titleFilter
	// ignoring letter case when titleFilter is not empty. The filter is
	// matched literally: % and _ have no wildcard meaning.
	List(ctx context.Context, titleFilter string) ([]*domain.Ad, error)

	// ListByOwner returns the ads owned by ownerID.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Ad, error)

	// Update writes title, price, description, image reference and updated_at.
	// Owner is never changed. Returns ErrAdNotFound if the ad does not exist.
	Update(ctx context.Context, ad *domain.Ad) error

	// Delete removes the ad row only. Comments and image must be removed by
	// the caller in the same transaction (see service.AdService.DeleteAd).
	// Returns ErrAdNotFound if the ad does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new AdStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AdStore
}

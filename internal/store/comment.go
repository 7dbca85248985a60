package store

import (
	"context"
	"database/sql"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/google/uuid"
)

// CommentStore defines the interface for comment persistence.
// Comments are always addressed through their ad: a comment id that exists
// under a different ad is reported as ErrCommentNotFound.
type CommentStore interface {
	// Create saves a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// Get retrieves comment commentID on ad adID.
	Get(ctx context.Context, adID, commentID uuid.UUID) (*domain.Comment, error)

	// ListByAd returns the comments on an ad, oldest first.
	ListByAd(ctx context.Context, adID uuid.UUID) ([]*domain.Comment, error)

	// UpdateText writes the text and updated_at of an existing comment.
	UpdateText(ctx context.Context, comment *domain.Comment) error

	// Delete removes comment commentID from ad adID.
	Delete(ctx context.Context, adID, commentID uuid.UUID) error

	// DeleteByAd removes every comment on an ad and reports how many were
	// removed. An ad without comments is not an error.
	DeleteByAd(ctx context.Context, adID uuid.UUID) (int64, error)

	// WithTx returns a new CommentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CommentStore
}

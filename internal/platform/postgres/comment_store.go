package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/store"
	"github.com/google/uuid"
)

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the CommentStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

// Ensure PostgresCommentStore implements store.CommentStore interface
var _ store.CommentStore = (*PostgresCommentStore)(nil)

const commentColumns = `id, ad_id, author_id, text, created_at, updated_at`

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CommentStore.Create
// Returns store.ErrInvalidEntity if the ad or author does not exist.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return err
	}

	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.AdID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()),
			slog.String("ad_id", comment.AdID.String()))
		return store.NewStoreError("comment", "create", "failed to insert comment", MapError(err))
	}

	log.Info("comment created successfully",
		slog.String("comment_id", comment.ID.String()),
		slog.String("ad_id", comment.AdID.String()))
	return nil
}

// Get implements store.CommentStore.Get
func (s *PostgresCommentStore) Get(ctx context.Context, adID, commentID uuid.UUID) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 AND ad_id = $2`

	var c domain.Comment
	err := s.db.QueryRowContext(ctx, query, commentID, adID).Scan(
		&c.ID,
		&c.AdID,
		&c.AuthorID,
		&c.Text,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("comment not found",
				slog.String("comment_id", commentID.String()),
				slog.String("ad_id", adID.String()))
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to get comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", commentID.String()))
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &c, nil
}

// ListByAd implements store.CommentStore.ListByAd
func (s *PostgresCommentStore) ListByAd(ctx context.Context, adID uuid.UUID) ([]*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + commentColumns + ` FROM comments WHERE ad_id = $1 ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, adID)
	if err != nil {
		log.Error("failed to query comments",
			slog.String("error", err.Error()),
			slog.String("ad_id", adID.String()))
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	comments := []*domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.AdID,
			&c.AuthorID,
			&c.Text,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning comment rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// UpdateText implements store.CommentStore.UpdateText
func (s *PostgresCommentStore) UpdateText(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET text = $1, updated_at = $2 WHERE id = $3 AND ad_id = $4`,
		comment.Text,
		comment.UpdatedAt,
		comment.ID,
		comment.AdID,
	)
	if err != nil {
		log.Error("failed to update comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return store.NewStoreError("comment", "update", "failed to update comment", MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Info("comment updated successfully", slog.String("comment_id", comment.ID.String()))
	return nil
}

// Delete implements store.CommentStore.Delete
func (s *PostgresCommentStore) Delete(ctx context.Context, adID, commentID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1 AND ad_id = $2`,
		commentID,
		adID,
	)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", commentID.String()))
		return store.NewStoreError("comment", "delete", "failed to delete comment", MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Info("comment deleted successfully",
		slog.String("comment_id", commentID.String()),
		slog.String("ad_id", adID.String()))
	return nil
}

// DeleteByAd implements store.CommentStore.DeleteByAd
func (s *PostgresCommentStore) DeleteByAd(ctx context.Context, adID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE ad_id = $1`, adID)
	if err != nil {
		log.Error("failed to delete comments of ad",
			slog.String("error", err.Error()),
			slog.String("ad_id", adID.String()))
		return 0, store.NewStoreError("comment", "delete_by_ad", "failed to delete comments", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("deleted comments of ad",
		slog.String("ad_id", adID.String()),
		slog.Int64("count", n))
	return n, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/store"
	"github.com/google/uuid"
)

// PostgresAdStore implements the store.AdStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAdStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAdStore creates a new PostgreSQL implementation of the AdStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAdStore(db store.DBTX, logger *slog.Logger) *PostgresAdStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAdStore{
		db:     db,
		logger: logger.With(slog.String("component", "ad_store")),
	}
}

// Ensure PostgresAdStore implements store.AdStore interface
var _ store.AdStore = (*PostgresAdStore)(nil)

const adColumns = `id, owner_id, image_id, title, price, description, created_at, updated_at`

// WithTx implements store.AdStore.WithTx
func (s *PostgresAdStore) WithTx(tx *sql.Tx) store.AdStore {
	return &PostgresAdStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.AdStore.Create
// Returns store.ErrInvalidEntity if the owner or image does not exist.
func (s *PostgresAdStore) Create(ctx context.Context, ad *domain.Ad) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ad.Validate(); err != nil {
		log.Warn("ad validation failed during create",
			slog.String("error", err.Error()),
			slog.String("ad_id", ad.ID.String()))
		return err
	}

	query := `
		INSERT INTO ads (` + adColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		ad.ID,
		ad.OwnerID,
		ad.ImageID,
		ad.Title,
		ad.Price,
		ad.Description,
		ad.CreatedAt,
		ad.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create ad",
			slog.String("error", err.Error()),
			slog.String("ad_id", ad.ID.String()),
			slog.String("owner_id", ad.OwnerID.String()))
		return store.NewStoreError("ad", "create", "failed to insert ad", MapError(err))
	}

	log.Info("ad created successfully",
		slog.String("ad_id", ad.ID.String()),
		slog.String("owner_id", ad.OwnerID.String()))
	return nil
}

// GetByID implements store.AdStore.GetByID
func (s *PostgresAdStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ad, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + adColumns + ` FROM ads WHERE id = $1`

	var ad domain.Ad
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ad.ID,
		&ad.OwnerID,
		&ad.ImageID,
		&ad.Title,
		&ad.Price,
		&ad.Description,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("ad not found", slog.String("ad_id", id.String()))
			return nil, store.ErrAdNotFound
		}
		log.Error("failed to get ad by ID",
			slog.String("error", err.Error()),
			slog.String("ad_id", id.String()))
		return nil, fmt.Errorf("failed to get ad: %w", err)
	}

	return &ad, nil
}

// List implements store.AdStore.List
func (s *PostgresAdStore) List(ctx context.Context, titleFilter string) ([]*domain.Ad, error) {
	if titleFilter == "" {
		return s.query(ctx, `SELECT `+adColumns+` FROM ads ORDER BY created_at, id`)
	}

	return s.query(ctx,
		`SELECT `+adColumns+` FROM ads
		WHERE title ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY created_at, id`,
		escapeLike(titleFilter),
	)
}

// ListByOwner implements store.AdStore.ListByOwner
func (s *PostgresAdStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Ad, error) {
	return s.query(ctx,
		`SELECT `+adColumns+` FROM ads WHERE owner_id = $1 ORDER BY created_at, id`,
		ownerID,
	)
}

// Update implements store.AdStore.Update
func (s *PostgresAdStore) Update(ctx context.Context, ad *domain.Ad) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ad.Validate(); err != nil {
		log.Warn("ad validation failed during update",
			slog.String("error", err.Error()),
			slog.String("ad_id", ad.ID.String()))
		return err
	}

	query := `
		UPDATE ads
		SET title = $1, price = $2, description = $3, image_id = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		ad.Title,
		ad.Price,
		ad.Description,
		ad.ImageID,
		ad.UpdatedAt,
		ad.ID,
	)
	if err != nil {
		log.Error("failed to update ad",
			slog.String("error", err.Error()),
			slog.String("ad_id", ad.ID.String()))
		return store.NewStoreError("ad", "update", "failed to update ad", MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrAdNotFound); err != nil {
		return err
	}

	log.Info("ad updated successfully", slog.String("ad_id", ad.ID.String()))
	return nil
}

// Delete implements store.AdStore.Delete
// Returns store.ErrDeleteFailed if comments still reference the ad.
func (s *PostgresAdStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("ad still referenced during delete", slog.String("ad_id", id.String()))
			return fmt.Errorf("%w: ad %s is still referenced", store.ErrDeleteFailed, id)
		}
		log.Error("failed to delete ad",
			slog.String("error", err.Error()),
			slog.String("ad_id", id.String()))
		return store.NewStoreError("ad", "delete", "failed to delete ad", MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrAdNotFound); err != nil {
		return err
	}

	log.Info("ad deleted successfully", slog.String("ad_id", id.String()))
	return nil
}

func (s *PostgresAdStore) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Ad, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query ads", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query ads: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	ads := []*domain.Ad{}
	for rows.Next() {
		var ad domain.Ad
		if err := rows.Scan(
			&ad.ID,
			&ad.OwnerID,
			&ad.ImageID,
			&ad.Title,
			&ad.Price,
			&ad.Description,
			&ad.CreatedAt,
			&ad.UpdatedAt,
		); err != nil {
			log.Error("failed to scan ad row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ads = append(ads, &ad)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning ad rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to iterate ads: %w", err)
	}

	log.Debug("listed ads", slog.Int("count", len(ads)))
	return ads, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

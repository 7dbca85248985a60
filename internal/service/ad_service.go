package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/store"
	"github.com/google/uuid"
)

// AdInput carries the editable fields of an ad.
type AdInput struct {
	Title       string `json:"title"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// AdService provides ad operations.
type AdService interface {
	// ListAds returns every ad, or those whose title contains title ignoring case.
	ListAds(ctx context.Context, title string) ([]AdView, error)

	// CreateAd stores the image and an ad owned by actor in one transaction.
	CreateAd(ctx context.Context, actor domain.Identity, input AdInput, upload ImageUpload) (*AdView, error)

	// GetAd returns the ad with its owner's contact details.
	GetAd(ctx context.Context, id uuid.UUID) (*AdDetailView, error)

	// UpdateAd changes title, price and description.
	UpdateAd(ctx context.Context, actor domain.Identity, id uuid.UUID, input AdInput) (*AdView, error)

	// DeleteAd removes the ad with its comments and image.
	DeleteAd(ctx context.Context, actor domain.Identity, id uuid.UUID) error

	// ListMyAds returns the ads owned by actor.
	ListMyAds(ctx context.Context, actor domain.Identity) ([]AdView, error)

	// UpdateAdImage replaces the ad's image and returns the path serving it.
	UpdateAdImage(ctx context.Context, actor domain.Identity, id uuid.UUID, upload ImageUpload) (string, error)

	// GetAdImage returns the image of an ad.
	GetAdImage(ctx context.Context, id uuid.UUID) (*ImageContent, error)
}

// adCommentRemover removes the comments of an ad inside the caller's transaction.
type adCommentRemover interface {
	DeleteAllByAd(ctx context.Context, tx *sql.Tx, adID uuid.UUID) (int64, error)
}

type adServiceImpl struct {
	db       *sql.DB
	ads      store.AdStore
	images   store.ImageStore
	users    store.UserStore
	comments adCommentRemover
	logger   *slog.Logger
}

// NewAdService creates a new AdService.
// It returns an error if any of the required dependencies are nil.
func NewAdService(
	db *sql.DB,
	ads store.AdStore,
	images store.ImageStore,
	users store.UserStore,
	comments CommentService,
	logger *slog.Logger,
) (AdService, error) {
	if err := requireDeps("ad",
		dep{"db", db == nil},
		dep{"ads", ads == nil},
		dep{"images", images == nil},
		dep{"users", users == nil},
		dep{"comments", comments == nil},
	); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &adServiceImpl{
		db:       db,
		ads:      ads,
		images:   images,
		users:    users,
		comments: comments,
		logger:   logger.With(slog.String("component", "ad_service")),
	}, nil
}

func (s *adServiceImpl) fail(operation, message string, err error) error {
	return newOperationError("ad", operation, message, err)
}

// ListAds implements AdService.ListAds
func (s *adServiceImpl) ListAds(ctx context.Context, title string) ([]AdView, error) {
	ads, err := s.ads.List(ctx, title)
	if err != nil {
		return nil, s.fail("list", "failed to list ads", err)
	}
	return ToAdViews(ads), nil
}

// CreateAd implements AdService.CreateAd
func (s *adServiceImpl) CreateAd(
	ctx context.Context,
	actor domain.Identity,
	input AdInput,
	upload ImageUpload,
) (*AdView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor.IsZero() {
		return nil, s.fail("create", "no acting identity", ErrUnauthenticated)
	}
	if err := domain.ValidateAdFields(input.Title, input.Price, input.Description); err != nil {
		return nil, s.fail("create", "invalid ad", err)
	}

	image, err := newImageFromUpload(upload)
	if err != nil {
		return nil, s.fail("create", "invalid image", err)
	}

	ad, err := domain.NewAd(actor.UserID, image.ID, input.Title, input.Price, input.Description)
	if err != nil {
		return nil, s.fail("create", "invalid ad", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.images.WithTx(tx).Create(ctx, image); err != nil {
			// A failed image write is always a storage failure for the caller.
			return s.fail("create", "failed to store image", errors.Join(ErrStorage, err))
		}
		if err := s.ads.WithTx(tx).Create(ctx, ad); err != nil {
			return s.fail("create", "failed to save ad", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create ad",
			slog.String("error", err.Error()),
			slog.String("owner_id", actor.UserID.String()))
		return nil, err
	}

	log.Info("ad created",
		slog.String("ad_id", ad.ID.String()),
		slog.String("owner_id", actor.UserID.String()))

	view := ToAdView(ad)
	return &view, nil
}

// GetAd implements AdService.GetAd
func (s *adServiceImpl) GetAd(ctx context.Context, id uuid.UUID) (*AdDetailView, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("get", "failed to get ad", err)
	}

	owner, err := s.users.GetByID(ctx, ad.OwnerID)
	if err != nil {
		// The owner FK makes a missing owner a storage inconsistency, not a 404.
		if errors.Is(err, store.ErrNotFound) {
			err = errors.Join(ErrStorage, err)
		}
		return nil, s.fail("get", "failed to load ad owner", err)
	}

	view := ToAdDetailView(ad, owner)
	return &view, nil
}

// UpdateAd implements AdService.UpdateAd
func (s *adServiceImpl) UpdateAd(
	ctx context.Context,
	actor domain.Identity,
	id uuid.UUID,
	input AdInput,
) (*AdView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Ad
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		ads := s.ads.WithTx(tx)

		ad, err := ads.GetByID(ctx, id)
		if err != nil {
			return s.fail("update", "failed to get ad", err)
		}
		if err := domain.ValidateAdFields(input.Title, input.Price, input.Description); err != nil {
			return s.fail("update", "invalid ad", err)
		}
		if !domain.IsAuthorized(actor, ad.OwnerID) {
			return s.fail("update", "actor may not edit this ad", ErrNotOwned)
		}

		if err := ad.Edit(input.Title, input.Price, input.Description); err != nil {
			return s.fail("update", "invalid ad", err)
		}
		if err := ads.Update(ctx, ad); err != nil {
			return s.fail("update", "failed to save ad", err)
		}

		updated = ad
		return nil
	})
	if err != nil {
		log.Debug("ad update rejected",
			slog.String("ad_id", id.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("ad updated", slog.String("ad_id", id.String()))
	view := ToAdView(updated)
	return &view, nil
}

// DeleteAd implements AdService.DeleteAd
// Comments go first and the ad row before its image, which it references.
func (s *adServiceImpl) DeleteAd(ctx context.Context, actor domain.Identity, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removedComments int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		ads := s.ads.WithTx(tx)

		ad, err := ads.GetByID(ctx, id)
		if err != nil {
			return s.fail("delete", "failed to get ad", err)
		}
		if !domain.IsAuthorized(actor, ad.OwnerID) {
			return s.fail("delete", "actor may not delete this ad", ErrNotOwned)
		}

		removedComments, err = s.comments.DeleteAllByAd(ctx, tx, ad.ID)
		if err != nil {
			return s.fail("delete", "failed to delete comments", err)
		}
		if err := ads.Delete(ctx, ad.ID); err != nil {
			return s.fail("delete", "failed to delete ad", err)
		}
		if err := s.images.WithTx(tx).Delete(ctx, ad.ImageID); err != nil {
			return s.fail("delete", "failed to delete ad image", err)
		}
		return nil
	})
	if err != nil {
		log.Debug("ad deletion failed",
			slog.String("ad_id", id.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("ad deleted",
		slog.String("ad_id", id.String()),
		slog.Int64("comments_removed", removedComments))
	return nil
}

// ListMyAds implements AdService.ListMyAds
func (s *adServiceImpl) ListMyAds(ctx context.Context, actor domain.Identity) ([]AdView, error) {
	if actor.IsZero() {
		return nil, s.fail("list_mine", "no acting identity", ErrUnauthenticated)
	}

	ads, err := s.ads.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, s.fail("list_mine", "failed to list ads", err)
	}
	return ToAdViews(ads), nil
}

// UpdateAdImage implements AdService.UpdateAdImage
func (s *adServiceImpl) UpdateAdImage(
	ctx context.Context,
	actor domain.Identity,
	id uuid.UUID,
	upload ImageUpload,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The ad is checked before the payload so a missing ad reads as not found.
	var image *domain.Image
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		ads := s.ads.WithTx(tx)
		images := s.images.WithTx(tx)

		ad, err := ads.GetByID(ctx, id)
		if err != nil {
			return s.fail("update_image", "failed to get ad", err)
		}
		if !domain.IsAuthorized(actor, ad.OwnerID) {
			return s.fail("update_image", "actor may not edit this ad", ErrNotOwned)
		}

		image, err = newImageFromUpload(upload)
		if err != nil {
			return s.fail("update_image", "invalid image", err)
		}

		if err := images.Create(ctx, image); err != nil {
			return s.fail("update_image", "failed to store image", errors.Join(ErrStorage, err))
		}
		previous, err := ad.ReplaceImage(image.ID)
		if err != nil {
			return s.fail("update_image", "invalid image reference", err)
		}
		if err := ads.Update(ctx, ad); err != nil {
			return s.fail("update_image", "failed to save ad", err)
		}
		if err := images.Delete(ctx, previous); err != nil {
			return s.fail("update_image", "failed to delete previous image", err)
		}
		return nil
	})
	if err != nil {
		log.Debug("ad image update failed",
			slog.String("ad_id", id.String()),
			slog.String("error", err.Error()))
		return "", err
	}

	log.Info("ad image replaced",
		slog.String("ad_id", id.String()),
		slog.String("image_id", image.ID.String()))
	return AdImagePath(id), nil
}

// GetAdImage implements AdService.GetAdImage
func (s *adServiceImpl) GetAdImage(ctx context.Context, id uuid.UUID) (*ImageContent, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("get_image", "failed to get ad", err)
	}

	image, err := s.images.GetByID(ctx, ad.ImageID)
	if err != nil {
		return nil, s.fail("get_image", "failed to get image", err)
	}

	return &ImageContent{Data: image.Data, MediaType: image.MediaType}, nil
}

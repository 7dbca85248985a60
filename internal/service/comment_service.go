package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/store"
	"github.com/google/uuid"
)

// CommentService provides comment operations. Comments are always
// addressed through their ad.
type CommentService interface {
	// ListComments returns the comments of an ad, oldest first.
	ListComments(ctx context.Context, adID uuid.UUID) ([]CommentView, error)

	// AddComment creates a comment authored by actor.
	AddComment(ctx context.Context, actor domain.Identity, adID uuid.UUID, text string) (*CommentView, error)

	// UpdateComment changes the text of a comment.
	UpdateComment(ctx context.Context, actor domain.Identity, adID, commentID uuid.UUID, text string) (*CommentView, error)

	// DeleteComment removes a comment.
	DeleteComment(ctx context.Context, actor domain.Identity, adID, commentID uuid.UUID) error

	// DeleteAllByAd removes every comment of an ad inside tx. It performs no
	// authorization; the caller has already authorized deleting the ad.
	DeleteAllByAd(ctx context.Context, tx *sql.Tx, adID uuid.UUID) (int64, error)
}

// CommentPolicy tunes CommentService behavior.
type CommentPolicy struct {
	// StrictAdLookup makes ListComments fail with store.ErrAdNotFound for a
	// missing ad instead of returning an empty list.
	StrictAdLookup bool
}

type commentServiceImpl struct {
	db       *sql.DB
	comments store.CommentStore
	ads      store.AdStore
	users    store.UserStore
	policy   CommentPolicy
	logger   *slog.Logger
}

// NewCommentService creates a new CommentService.
// It returns an error if any of the required dependencies are nil.
func NewCommentService(
	db *sql.DB,
	comments store.CommentStore,
	ads store.AdStore,
	users store.UserStore,
	policy CommentPolicy,
	logger *slog.Logger,
) (CommentService, error) {
	if err := requireDeps("comment",
		dep{"db", db == nil},
		dep{"comments", comments == nil},
		dep{"ads", ads == nil},
		dep{"users", users == nil},
	); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &commentServiceImpl{
		db:       db,
		comments: comments,
		ads:      ads,
		users:    users,
		policy:   policy,
		logger:   logger.With(slog.String("component", "comment_service")),
	}, nil
}

func (s *commentServiceImpl) fail(operation, message string, err error) error {
	return newOperationError("comment", operation, message, err)
}

// ListComments implements CommentService.ListComments
func (s *commentServiceImpl) ListComments(ctx context.Context, adID uuid.UUID) ([]CommentView, error) {
	if s.policy.StrictAdLookup {
		if _, err := s.ads.GetByID(ctx, adID); err != nil {
			return nil, s.fail("list", "failed to get ad", err)
		}
	}

	comments, err := s.comments.ListByAd(ctx, adID)
	if err != nil {
		return nil, s.fail("list", "failed to list comments", err)
	}

	authors := make(map[uuid.UUID]*domain.User)
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.AuthorID]
		if !ok {
			author = s.loadAuthor(ctx, s.users, c.AuthorID)
			authors[c.AuthorID] = author
		}
		views = append(views, ToCommentView(c, author))
	}
	return views, nil
}

// AddComment implements CommentService.AddComment
func (s *commentServiceImpl) AddComment(
	ctx context.Context,
	actor domain.Identity,
	adID uuid.UUID,
	text string,
) (*CommentView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if actor.IsZero() {
		return nil, s.fail("add", "no acting identity", ErrUnauthenticated)
	}

	var view CommentView
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.ads.WithTx(tx).GetByID(ctx, adID); err != nil {
			return s.fail("add", "failed to get ad", err)
		}

		comment, err := domain.NewComment(adID, actor.UserID, text)
		if err != nil {
			return s.fail("add", "invalid comment", err)
		}
		if err := s.comments.WithTx(tx).Create(ctx, comment); err != nil {
			return s.fail("add", "failed to save comment", err)
		}

		view = ToCommentView(comment, s.loadAuthor(ctx, s.users.WithTx(tx), actor.UserID))
		return nil
	})
	if err != nil {
		log.Debug("comment not added",
			slog.String("ad_id", adID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("comment added",
		slog.String("comment_id", view.ID.String()),
		slog.String("ad_id", adID.String()))
	return &view, nil
}

// UpdateComment implements CommentService.UpdateComment
func (s *commentServiceImpl) UpdateComment(
	ctx context.Context,
	actor domain.Identity,
	adID, commentID uuid.UUID,
	text string,
) (*CommentView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var view CommentView
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		comments := s.comments.WithTx(tx)

		comment, err := comments.Get(ctx, adID, commentID)
		if err != nil {
			return s.fail("update", "failed to get comment", err)
		}
		if !domain.IsAuthorized(actor, comment.AuthorID) {
			return s.fail("update", "actor may not edit this comment", ErrNotOwned)
		}
		if err := comment.UpdateText(text); err != nil {
			return s.fail("update", "invalid comment", err)
		}
		if err := comments.UpdateText(ctx, comment); err != nil {
			return s.fail("update", "failed to save comment", err)
		}

		view = ToCommentView(comment, s.loadAuthor(ctx, s.users.WithTx(tx), comment.AuthorID))
		return nil
	})
	if err != nil {
		log.Debug("comment update rejected",
			slog.String("comment_id", commentID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("comment updated", slog.String("comment_id", commentID.String()))
	return &view, nil
}

// DeleteComment implements CommentService.DeleteComment
func (s *commentServiceImpl) DeleteComment(
	ctx context.Context,
	actor domain.Identity,
	adID, commentID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		comments := s.comments.WithTx(tx)

		comment, err := comments.Get(ctx, adID, commentID)
		if err != nil {
			return s.fail("delete", "failed to get comment", err)
		}
		if !domain.IsAuthorized(actor, comment.AuthorID) {
			return s.fail("delete", "actor may not delete this comment", ErrNotOwned)
		}
		if err := comments.Delete(ctx, adID, commentID); err != nil {
			return s.fail("delete", "failed to delete comment", err)
		}
		return nil
	})
	if err != nil {
		log.Debug("comment deletion rejected",
			slog.String("comment_id", commentID.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("comment deleted",
		slog.String("comment_id", commentID.String()),
		slog.String("ad_id", adID.String()))
	return nil
}

// DeleteAllByAd implements CommentService.DeleteAllByAd
func (s *commentServiceImpl) DeleteAllByAd(ctx context.Context, tx *sql.Tx, adID uuid.UUID) (int64, error) {
	n, err := s.comments.WithTx(tx).DeleteByAd(ctx, adID)
	if err != nil {
		return 0, s.fail("delete_all", "failed to delete comments of ad", err)
	}
	return n, nil
}

// loadAuthor returns the author of a comment, or nil when it cannot be
// loaded. A view without author details is preferable to failing the read.
func (s *commentServiceImpl) loadAuthor(ctx context.Context, users store.UserStore, id uuid.UUID) *domain.User {
	author, err := users.GetByID(ctx, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to load comment author",
			slog.String("author_id", id.String()),
			slog.String("error", err.Error()))
		return nil
	}
	return author
}

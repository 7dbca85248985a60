package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/service"
)

// MockCommentService implements service.CommentService for testing
type MockCommentService struct {
	ListCommentsFn  func(ctx context.Context, adID uuid.UUID) ([]service.CommentView, error)
	AddCommentFn    func(ctx context.Context, actor domain.Identity, adID uuid.UUID, text string) (*service.CommentView, error)
	UpdateCommentFn func(ctx context.Context, actor domain.Identity, adID, commentID uuid.UUID, text string) (*service.CommentView, error)
	DeleteCommentFn func(ctx context.Context, actor domain.Identity, adID, commentID uuid.UUID) error
	DeleteAllByAdFn func(ctx context.Context, tx *sql.Tx, adID uuid.UUID) (int64, error)
}

var _ service.CommentService = (*MockCommentService)(nil)

func (m *MockCommentService) ListComments(ctx context.Context, adID uuid.UUID) ([]service.CommentView, error) {
	if m.ListCommentsFn != nil {
		return m.ListCommentsFn(ctx, adID)
	}
	return []service.CommentView{}, nil
}

func (m *MockCommentService) AddComment(
	ctx context.Context,
	actor domain.Identity,
	adID uuid.UUID,
	text string,
) (*service.CommentView, error) {
	if m.AddCommentFn != nil {
		return m.AddCommentFn(ctx, actor, adID, text)
	}
	return &service.CommentView{AuthorID: actor.UserID, Text: text}, nil
}

func (m *MockCommentService) UpdateComment(
	ctx context.Context,
	actor domain.Identity,
	adID, commentID uuid.UUID,
	text string,
) (*service.CommentView, error) {
	if m.UpdateCommentFn != nil {
		return m.UpdateCommentFn(ctx, actor, adID, commentID, text)
	}
	return &service.CommentView{ID: commentID, Text: text}, nil
}

func (m *MockCommentService) DeleteComment(ctx context.Context, actor domain.Identity, adID, commentID uuid.UUID) error {
	if m.DeleteCommentFn != nil {
		return m.DeleteCommentFn(ctx, actor, adID, commentID)
	}
	return nil
}

func (m *MockCommentService) DeleteAllByAd(ctx context.Context, tx *sql.Tx, adID uuid.UUID) (int64, error) {
	if m.DeleteAllByAdFn != nil {
		return m.DeleteAllByAdFn(ctx, tx, adID)
	}
	return 0, nil
}

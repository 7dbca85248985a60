package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Comment-specific validation errors
var (
	ErrCommentIDEmpty       = errors.New("comment ID cannot be empty")
	ErrCommentAdIDEmpty     = errors.New("comment ad ID cannot be empty")
	ErrCommentAuthorIDEmpty = errors.New("comment author ID cannot be empty")
	ErrCommentTextEmpty     = errors.New("comment text cannot be empty")
	ErrCommentTextTooLong   = errors.New("comment text is too long")
)

// MaxCommentTextLength is counted in runes.
const MaxCommentTextLength = 2048

// Comment is a remark left by a user on an ad. AdID, AuthorID and CreatedAt
// are fixed at creation; only Text may change.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	AdID      uuid.UUID `json:"ad_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComment creates a comment on adID by authorID stamped with the current time.
func NewComment(adID, authorID uuid.UUID, text string) (*Comment, error) {
	now := time.Now().UTC()
	c := &Comment{
		ID:        uuid.New(),
		AdID:      adID,
		AuthorID:  authorID,
		Text:      strings.TrimSpace(text),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "", ErrCommentIDEmpty)
	}
	if c.AdID == uuid.Nil {
		return NewValidationError("ad_id", "", ErrCommentAdIDEmpty)
	}
	if c.AuthorID == uuid.Nil {
		return NewValidationError("author_id", "", ErrCommentAuthorIDEmpty)
	}
	return validateCommentText(c.Text)
}

// UpdateText replaces the comment text.
func (c *Comment) UpdateText(text string) error {
	text = strings.TrimSpace(text)
	if err := validateCommentText(text); err != nil {
		return err
	}

	c.Text = text
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError("text", "", ErrCommentTextEmpty)
	}
	if utf8.RuneCountInString(text) > MaxCommentTextLength {
		return NewValidationError("text", "", ErrCommentTextTooLong)
	}
	return nil
}

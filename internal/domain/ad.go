package domain

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Ad-specific validation errors
var (
	// ErrAdIDEmpty is returned when an ad ID is empty or nil.
	ErrAdIDEmpty = errors.New("ad ID cannot be empty")

	// ErrAdOwnerIDEmpty is returned when an ad has no owner.
	ErrAdOwnerIDEmpty = errors.New("ad owner ID cannot be empty")

	// ErrAdImageIDEmpty is returned when an ad has no image.
	ErrAdImageIDEmpty = errors.New("ad image ID cannot be empty")

	// ErrAdTitleEmpty is returned when an ad's title is blank.
	ErrAdTitleEmpty = errors.New("ad title cannot be empty")

	// ErrAdTitleTooLong is returned when an ad's title exceeds MaxAdTitleLength.
	ErrAdTitleTooLong = errors.New("ad title is too long")

	// ErrAdDescriptionTooLong is returned when an ad's description exceeds MaxAdDescriptionLength.
	ErrAdDescriptionTooLong = errors.New("ad description is too long")

	// ErrAdPriceNegative is returned when an ad's price is below zero.
	ErrAdPriceNegative = errors.New("ad price cannot be negative")

	// ErrAdPriceTooLarge is returned when an ad's price exceeds MaxAdPrice.
	ErrAdPriceTooLarge = errors.New("ad price is too large")
)

const (
	// MaxAdTitleLength is counted in runes.
	MaxAdTitleLength = 128
	// MaxAdDescriptionLength is counted in runes.
	MaxAdDescriptionLength = 4096
	// MaxAdPrice matches the INTEGER price column.
	MaxAdPrice = math.MaxInt32
)

// Ad represents a classified listing. OwnerID never changes after creation;
// ImageID is mandatory and replaced only through the image update flow.
type Ad struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	ImageID     uuid.UUID `json:"image_id"`
	Title       string    `json:"title"`
	Price       int       `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAd creates a new Ad owned by ownerID and showing imageID.
// Returns a *ValidationError if any field is invalid.
func NewAd(ownerID, imageID uuid.UUID, title string, price int, description string) (*Ad, error) {
	now := time.Now().UTC()
	ad := &Ad{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ImageID:     imageID,
		Title:       strings.TrimSpace(title),
		Price:       price,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := ad.Validate(); err != nil {
		return nil, err
	}

	return ad, nil
}

// Validate checks if the Ad has valid data.
func (a *Ad) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "", ErrAdIDEmpty)
	}
	if a.OwnerID == uuid.Nil {
		return NewValidationError("owner_id", "", ErrAdOwnerIDEmpty)
	}
	if a.ImageID == uuid.Nil {
		return NewValidationError("image_id", "", ErrAdImageIDEmpty)
	}
	return ValidateAdFields(a.Title, a.Price, a.Description)
}

// ValidateAdFields checks the user-editable fields of an ad.
// It is used before any image is stored, so a bad price never leaves
// an orphaned image behind.
func ValidateAdFields(title string, price int, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("title", "", ErrAdTitleEmpty)
	}
	if utf8.RuneCountInString(title) > MaxAdTitleLength {
		return NewValidationError("title", "", ErrAdTitleTooLong)
	}
	if price < 0 {
		return NewValidationError("price", "", ErrAdPriceNegative)
	}
	if price > MaxAdPrice {
		return NewValidationError("price", "", ErrAdPriceTooLarge)
	}
	if utf8.RuneCountInString(strings.TrimSpace(description)) > MaxAdDescriptionLength {
		return NewValidationError("description", "", ErrAdDescriptionTooLong)
	}
	return nil
}

// Edit replaces title, price and description. Owner and image stay untouched.
func (a *Ad) Edit(title string, price int, description string) error {
	if err := ValidateAdFields(title, price, description); err != nil {
		return err
	}

	a.Title = strings.TrimSpace(title)
	a.Price = price
	a.Description = strings.TrimSpace(description)
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// ReplaceImage points the ad at a new image and returns the previous one,
// which the caller must delete in the same transaction.
func (a *Ad) ReplaceImage(imageID uuid.UUID) (uuid.UUID, error) {
	if imageID == uuid.Nil {
		return uuid.Nil, NewValidationError("image_id", "", ErrAdImageIDEmpty)
	}

	previous := a.ImageID
	a.ImageID = imageID
	a.UpdatedAt = time.Now().UTC()
	return previous, nil
}

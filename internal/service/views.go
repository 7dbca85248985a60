package service

import (
	"time"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/google/uuid"
)

// AdView is the summary of an ad returned by list and mutation operations.
type AdView struct {
	ID       uuid.UUID `json:"id"`
	AuthorID uuid.UUID `json:"author_id"`
	Image    string    `json:"image"`
	Price    int       `json:"price"`
	Title    string    `json:"title"`
}

// AdDetailView is the full ad with the owner's contact details.
type AdDetailView struct {
	ID              uuid.UUID `json:"id"`
	AuthorFirstName string    `json:"author_first_name"`
	AuthorLastName  string    `json:"author_last_name"`
	Description     string    `json:"description"`
	Email           string    `json:"email"`
	Image           string    `json:"image"`
	Phone           string    `json:"phone"`
	Price           int       `json:"price"`
	Title           string    `json:"title"`
}

// CommentView is a comment with enough author data to render it.
type CommentView struct {
	ID              uuid.UUID `json:"id"`
	AuthorID        uuid.UUID `json:"author_id"`
	AuthorFirstName string    `json:"author_first_name"`
	AuthorImage     string    `json:"author_image,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Text            string    `json:"text"`
}

// UserView is the profile of a user. Password material is never included.
type UserView struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role"`
	Image     string      `json:"image,omitempty"`
}

// AdImagePath is the URL path serving the image of ad id.
func AdImagePath(id uuid.UUID) string {
	return "/ads/" + id.String() + "/image"
}

// UserImagePath is the URL path serving the avatar of user id.
func UserImagePath(id uuid.UUID) string {
	return "/users/" + id.String() + "/image"
}

// ToAdView converts an ad to its summary view.
func ToAdView(ad *domain.Ad) AdView {
	return AdView{
		ID:       ad.ID,
		AuthorID: ad.OwnerID,
		Image:    AdImagePath(ad.ID),
		Price:    ad.Price,
		Title:    ad.Title,
	}
}

// ToAdViews converts ads in order. The result is never nil.
func ToAdViews(ads []*domain.Ad) []AdView {
	views := make([]AdView, 0, len(ads))
	for _, ad := range ads {
		views = append(views, ToAdView(ad))
	}
	return views
}

// ToAdDetailView combines an ad with its owner.
func ToAdDetailView(ad *domain.Ad, owner *domain.User) AdDetailView {
	return AdDetailView{
		ID:              ad.ID,
		AuthorFirstName: owner.FirstName,
		AuthorLastName:  owner.LastName,
		Description:     ad.Description,
		Email:           owner.Email,
		Image:           AdImagePath(ad.ID),
		Phone:           owner.Phone,
		Price:           ad.Price,
		Title:           ad.Title,
	}
}

// ToCommentView combines a comment with its author. author may be nil when
// the author could not be loaded; the view then carries only the id.
func ToCommentView(c *domain.Comment, author *domain.User) CommentView {
	view := CommentView{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		Text:      c.Text,
	}
	if author != nil {
		view.AuthorFirstName = author.FirstName
		if author.ImageID != nil {
			view.AuthorImage = UserImagePath(author.ID)
		}
	}
	return view
}

// ToUserView converts a user to its profile view.
func ToUserView(u *domain.User) UserView {
	view := UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
	}
	if u.ImageID != nil {
		view.Image = UserImagePath(u.ID)
	}
	return view
}

package api

import (
	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=64"`
	LastName  string `json:"last_name"  validate:"max=64"`
	Phone     string `json:"phone"      validate:"max=32"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 time when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AdRequest is the JSON document carried by the "properties" part of an
// ad creation and the body of an ad update.
type AdRequest struct {
	Title       string `json:"title"       validate:"required,max=128"`
	Price       *int   `json:"price"       validate:"required,gte=0,lte=2147483647"`
	Description string `json:"description" validate:"max=4096"`
}

func (r AdRequest) input() service.AdInput {
	return service.AdInput{Title: r.Title, Price: *r.Price, Description: r.Description}
}

// CommentRequest is the body of comment creation and update.
type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2048"`
}

// ProfileRequest is the body of a profile update.
type ProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=64"`
	LastName  string `json:"last_name"  validate:"max=64"`
	Phone     string `json:"phone"      validate:"max=32"`
}

// SetPasswordRequest is the body of a password change.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

// ImageResponse reports where an uploaded image is served.
type ImageResponse struct {
	Image string `json:"image"`
}

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

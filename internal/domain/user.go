package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role grants capabilities to a user. Only ADMIN bypasses ownership checks.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrInvalidRole         = errors.New("role must be USER or ADMIN")
	ErrNameTooLong         = errors.New("name must be at most 64 characters long")
	ErrPhoneInvalid        = errors.New("phone must contain 7 to 20 digits, spaces, dashes, parentheses or a leading +")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

const (
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes.
	maxPasswordLength = 72
	maxNameLength     = 64
)

// User represents a registered user of the board.
// HashedPassword is owned by the user store and is never serialized.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Phone          string     `json:"phone"`
	Role           Role       `json:"role"`
	ImageID        *uuid.UUID `json:"-"`
	Password       string     `json:"-"` // Plaintext, only set while registering or changing password
	HashedPassword string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given email and plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string, role Role) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "", ErrEmptyUserID)
	}

	if u.Email == "" {
		return NewValidationError("email", "", ErrEmptyEmail)
	}
	if !validateEmailFormat(u.Email) {
		return NewValidationError("email", "", ErrInvalidEmail)
	}

	if !u.Role.Valid() {
		return NewValidationError("role", "", ErrInvalidRole)
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			return err
		}
	} else if u.HashedPassword == "" {
		return NewValidationError("password", "", ErrEmptyPassword)
	}

	return validateProfile(u.FirstName, u.LastName, u.Phone)
}

// SetProfile replaces the editable profile fields after validating them.
// Email, role and password are not touched.
func (u *User) SetProfile(firstName, lastName, phone string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phone = strings.TrimSpace(phone)

	if err := validateProfile(firstName, lastName, phone); err != nil {
		return err
	}

	u.FirstName = firstName
	u.LastName = lastName
	u.Phone = phone
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ValidatePassword checks plaintext password length bounds.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError("password", "", ErrEmptyPassword)
	case len(password) < minPasswordLength:
		return NewValidationError("password", "", ErrPasswordTooShort)
	case len(password) > maxPasswordLength:
		return NewValidationError("password", "", ErrPasswordTooLong)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email address. Emails are unique
// case-insensitively, so all lookups go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateProfile(firstName, lastName, phone string) error {
	if len(firstName) > maxNameLength {
		return NewValidationError("first_name", "", ErrNameTooLong)
	}
	if len(lastName) > maxNameLength {
		return NewValidationError("last_name", "", ErrNameTooLong)
	}
	if phone != "" && !validatePhoneFormat(phone) {
		return NewValidationError("phone", "", ErrPhoneInvalid)
	}
	return nil
}

// validateEmailFormat requires a non-empty local part and a dotted domain.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return false
	}

	domainPart := email[at+1:]
	if len(domainPart) < 3 { // "a.b"
		return false
	}

	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1 && !strings.HasSuffix(domainPart, ".")
}

func validatePhoneFormat(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 20
}

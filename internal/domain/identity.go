package domain

import "github.com/google/uuid"

// Identity is the acting principal of an operation. It is resolved by the
// transport layer and passed explicitly into every service call.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.UserID == uuid.Nil
}

// IsAuthorized reports whether actor may mutate a resource owned by ownerID:
// administrators may mutate anything, everyone else only what they own.
func IsAuthorized(actor Identity, ownerID uuid.UUID) bool {
	if actor.IsZero() {
		return false
	}
	return actor.IsAdmin() || actor.UserID == ownerID
}

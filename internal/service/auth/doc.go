// Package auth issues and validates the JWTs that carry a caller's
// identity, and hashes passwords with bcrypt.
package auth

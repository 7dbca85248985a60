package service

import (
	"errors"
	"fmt"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates an unknown email or a password mismatch.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated indicates an operation that needs an identity was
	// called without one.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrStorage marks unexpected store or bucket failures.
	// API layer should map this to HTTP 500.
	ErrStorage = errors.New("storage failure")
)

// OperationError wraps a failed service operation with context.
type OperationError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for OperationError.
func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// isExpected reports whether err is a condition the caller is meant to act on.
func isExpected(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		store.IsNotFoundError(err) ||
		store.IsDuplicateError(err) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnauthenticated)
}

// newOperationError wraps err in an *OperationError. Errors that are not an
// expected condition additionally match ErrStorage.
func newOperationError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}

	if !isExpected(err) {
		err = fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return &OperationError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// dep names a constructor dependency and whether it is missing.
type dep struct {
	name    string
	missing bool
}

// requireDeps reports the first missing constructor dependency.
func requireDeps(service string, deps ...dep) error {
	for _, d := range deps {
		if d.missing {
			return &OperationError{
				Service:   service,
				Operation: "create_service",
				Message:   d.name + " cannot be nil",
			}
		}
	}
	return nil
}

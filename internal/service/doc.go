// Package service contains the application use cases of the ad board.
// It orchestrates domain objects and the store interfaces defined in
// internal/store to fulfill ad, comment and user operations.
//
// Key components:
//
// 1. Service Interfaces:
//   - AdService, CommentService and UserService expose the operations
//     available to the HTTP layer
//   - Every operation takes the acting domain.Identity explicitly
//
// 2. Use Case Implementations:
//   - Each mutating operation is one store.RunInTransaction unit
//   - Ownership is checked with domain.IsAuthorized before mutating an
//     existing resource
//
// 3. Error Handling:
//   - Expected conditions surface as sentinels (ErrNotOwned,
//     ErrInvalidCredentials, store not-found errors, domain validation errors)
//   - Unexpected failures are wrapped in *OperationError and match ErrStorage
//
// 4. Views:
//   - Results are returned as view structs built by pure conversion
//     functions in views.go
package service

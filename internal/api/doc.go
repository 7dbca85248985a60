// Package api contains the HTTP handlers for ads, comments, users and
// authentication. Handlers decode and validate requests, pass the acting
// identity to the services explicitly, and translate service errors into
// status codes with sanitized messages.
package api

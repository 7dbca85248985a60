// Package domain contains the core business entities of the board (users,
// ads, comments and images), their validation rules, and the ownership
// check that gates every mutation. It has no dependency on storage or
// transport.
package domain

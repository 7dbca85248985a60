// Package store defines interfaces for data persistence operations on users,
// ads, comments and images, together with the transaction helper services use
// to group several store calls into one atomic unit.
//
// Every store exposes WithTx so a service can bind it to the *sql.Tx handed
// out by RunInTransaction. Implementations live in internal/platform/postgres.
package store

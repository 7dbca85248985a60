// Package testdb opens the integration test database, migrates it with the
// embedded schema and isolates each test in a transaction that is always
// rolled back.
package testdb

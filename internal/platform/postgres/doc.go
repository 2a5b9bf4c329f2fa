// Package postgres provides PostgreSQL implementations of the persistence
// interfaces defined in the store package. It uses database/sql with the
// pgx driver and maps PostgreSQL error codes onto store sentinel errors.
package postgres

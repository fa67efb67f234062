// Package postgres provides PostgreSQL implementations of the store
// interfaces, plus embedded goose migrations and driver error mapping.
package postgres

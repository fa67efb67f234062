// Package store defines the persistence capabilities the orchestration
// core depends on. It contains interfaces and sentinel errors only; the
// PostgreSQL implementations live in internal/platform/postgres. The
// core depends on these capability sets, never on a concrete store.
package store

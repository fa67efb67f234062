package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is the generic version of the entity-specific not
	// found errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrTaskStatusNotFound indicates that no task status record exists
	// for the requested task identifier.
	ErrTaskStatusNotFound = fmt.Errorf("%w: task status", ErrNotFound)

	// ErrVacationTemplateNotFound indicates that the named vacation
	// template does not exist.
	ErrVacationTemplateNotFound = fmt.Errorf("%w: vacation template", ErrNotFound)

	// ErrReferenceTemplateNotFound indicates that the named minimums
	// template does not exist.
	ErrReferenceTemplateNotFound = fmt.Errorf("%w: reference template", ErrNotFound)

	// ErrRuleSetNotFound indicates that the named rule set does not exist.
	ErrRuleSetNotFound = fmt.Errorf("%w: rule set", ErrNotFound)

	// ErrScheduleNotFound indicates that no schedule result exists with
	// the requested title.
	ErrScheduleNotFound = fmt.Errorf("%w: schedule", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	for _, err := range []error{
		ErrNotFound,
		ErrTaskStatusNotFound,
		ErrVacationTemplateNotFound,
		ErrReferenceTemplateNotFound,
		ErrRuleSetNotFound,
		ErrScheduleNotFound,
		fmt.Errorf("lookup failed: %w", ErrTaskStatusNotFound),
	} {
		assert.True(t, IsNotFoundError(err), "%v", err)
	}

	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("something else")))
	assert.False(t, IsNotFoundError(ErrDuplicate))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert failed: %w", ErrDuplicate)))

	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(ErrNotFound))
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/smartask/api/internal/store"
)

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestMapErrorNoRows(t *testing.T) {
	err := MapError(sql.ErrNoRows)
	assert.True(t, store.IsNotFoundError(err))
}

func TestMapErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "task_status_pkey"}
	err := MapError(fmt.Errorf("insert: %w", pgErr))
	assert.True(t, store.IsDuplicateError(err))
}

func TestMapErrorForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "fk_schedule_task"}
	err := MapError(pgErr)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), "fk_schedule_task")
}

func TestMapErrorCheckViolation(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: checkViolationCode})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestMapErrorPassthrough(t *testing.T) {
	original := errors.New("connection refused")
	assert.Equal(t, original, MapError(original))
}

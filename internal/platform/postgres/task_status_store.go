package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/platform/logger"
	"github.com/smartask/api/internal/store"
)

// TaskStatusStore implements store.TaskStatusStore using PostgreSQL.
// The request snapshot is held in a JSONB column so the duplicate check
// and the delete cascade can key on its title/algorithm fields.
type TaskStatusStore struct {
	db store.DBTX
}

// NewTaskStatusStore creates a new TaskStatusStore.
func NewTaskStatusStore(db store.DBTX) *TaskStatusStore {
	return &TaskStatusStore{db: db}
}

// WithTx returns a store instance bound to the provided transaction.
func (s *TaskStatusStore) WithTx(tx *sql.Tx) *TaskStatusStore {
	return &TaskStatusStore{db: tx}
}

// Create persists the initial record for a task. The task identifier is
// the idempotency key: an existing record makes this a no-op rather
// than an error, so a duplicate submit never creates a second row.
func (s *TaskStatusStore) Create(ctx context.Context, status *domain.TaskStatus) error {
	log := logger.FromContext(ctx)

	var request []byte
	if status.Request != nil {
		var err error
		request, err = json.Marshal(status.Request)
		if err != nil {
			return fmt.Errorf("failed to marshal request snapshot: %w", err)
		}
	}

	query := `
		INSERT INTO task_status (task_id, state, request, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (task_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query,
		status.TaskID,
		status.State,
		request,
		status.CreatedAt,
		status.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task status",
			"task_id", status.TaskID,
			"error", err)
		return MapError(err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		log.Debug("task status already exists, create skipped",
			"task_id", status.TaskID)
	}

	return nil
}

// terminalStates appears inline in upsert queries; a record already in
// one of these states is never overwritten.
const upsertQuery = `
	INSERT INTO task_status (task_id, state, request, created_at, updated_at)
	VALUES ($1, $2, NULL, $3, $3)
	ON CONFLICT (task_id) DO UPDATE
	SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	WHERE task_status.state NOT IN ('COMPLETED', 'FAILED')
`

// Upsert records a state transition. A missing record is created as a
// stub (nil request snapshot); a terminal record is left untouched.
// created_at is written once and never changed by the conflict branch.
func (s *TaskStatusStore) Upsert(ctx context.Context, taskID string, state domain.TaskState) error {
	log := logger.FromContext(ctx)

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, upsertQuery, taskID, state, now); err != nil {
		log.Error("failed to upsert task status",
			"task_id", taskID,
			"state", state,
			"error", err)
		return MapError(err)
	}

	return nil
}

const selectColumns = `task_id, state, request, created_at, updated_at`

// GetByTaskID retrieves the record for a task identifier.
func (s *TaskStatusStore) GetByTaskID(ctx context.Context, taskID string) (*domain.TaskStatus, error) {
	query := `SELECT ` + selectColumns + ` FROM task_status WHERE task_id = $1`

	status, err := scanTaskStatus(s.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskStatusNotFound
		}
		return nil, MapError(err)
	}
	return status, nil
}

// List retrieves all task status records, oldest first.
func (s *TaskStatusStore) List(ctx context.Context) ([]*domain.TaskStatus, error) {
	query := `SELECT ` + selectColumns + ` FROM task_status ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var statuses []*domain.TaskStatus
	for rows.Next() {
		status, err := scanTaskStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task status row: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return statuses, nil
}

// ExistsByTitleAndAlgorithm reports whether any record embeds a request
// with the given title and algorithm.
func (s *TaskStatusStore) ExistsByTitleAndAlgorithm(ctx context.Context, title, algorithm string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM task_status
			WHERE request->>'title' = $1 AND request->>'algorithm' = $2
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, title, algorithm).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// DeleteByRequestTitle removes every record whose embedded request title
// matches, returning the number of records removed.
func (s *TaskStatusStore) DeleteByRequestTitle(ctx context.Context, title string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM task_status WHERE request->>'title' = $1`, title)
	if err != nil {
		return 0, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return rows, nil
}

// ListPendingOlderThan retrieves PENDING records whose last update is
// older than the given age.
func (s *TaskStatusStore) ListPendingOlderThan(ctx context.Context, age time.Duration) ([]*domain.TaskStatus, error) {
	query := `SELECT ` + selectColumns + `
		FROM task_status
		WHERE state = $1 AND updated_at < $2
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query,
		domain.TaskStatePending, time.Now().UTC().Add(-age))
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var statuses []*domain.TaskStatus
	for rows.Next() {
		status, err := scanTaskStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task status row: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return statuses, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskStatus(row rowScanner) (*domain.TaskStatus, error) {
	var (
		status  domain.TaskStatus
		request []byte
	)
	if err := row.Scan(
		&status.TaskID,
		&status.State,
		&request,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(request) > 0 {
		var req domain.ScheduleRequest
		if err := json.Unmarshal(request, &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal request snapshot: %w", err)
		}
		status.Request = &req
	}

	return &status, nil
}

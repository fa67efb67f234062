package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/store"
)

// ScheduleStore implements store.ScheduleStore using PostgreSQL.
type ScheduleStore struct {
	db store.DBTX
}

// NewScheduleStore creates a new ScheduleStore.
func NewScheduleStore(db store.DBTX) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// WithTx returns a store instance bound to the provided transaction.
func (s *ScheduleStore) WithTx(tx *sql.Tx) *ScheduleStore {
	return &ScheduleStore{db: tx}
}

// FindByTitle retrieves a schedule result by title.
func (s *ScheduleStore) FindByTitle(ctx context.Context, title string) (*domain.Schedule, error) {
	var (
		schedule domain.Schedule
		data     []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, algorithm, data, created_at FROM schedules WHERE title = $1`, title,
	).Scan(&schedule.ID, &schedule.Title, &schedule.Algorithm, &data, &schedule.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScheduleNotFound
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(data, &schedule.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule data for %q: %w", title, err)
	}

	return &schedule, nil
}

// DeleteByTitle removes the schedule result with the given title,
// returning the number of rows removed.
func (s *ScheduleStore) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE title = $1`, title)
	if err != nil {
		return 0, MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return rows, nil
}

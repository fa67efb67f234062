package postgres

import (
	"context"
	"database/sql"

	"github.com/smartask/api/internal/store"
)

// ScheduleCascade implements the service.ResultCleanup capability:
// deleting a schedule result and the task records that produced it as
// one transaction.
type ScheduleCascade struct {
	db *sql.DB
}

// NewScheduleCascade creates a ScheduleCascade over the given database.
func NewScheduleCascade(db *sql.DB) *ScheduleCascade {
	return &ScheduleCascade{db: db}
}

// DeleteByTitle removes the schedule with the given title and every task
// status whose embedded request title matches, atomically.
func (c *ScheduleCascade) DeleteByTitle(ctx context.Context, title string) (schedules, statuses int64, err error) {
	err = store.RunInTransaction(ctx, c.db, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		schedules, txErr = NewScheduleStore(tx).DeleteByTitle(ctx, title)
		if txErr != nil {
			return txErr
		}
		statuses, txErr = NewTaskStatusStore(tx).DeleteByRequestTitle(ctx, title)
		return txErr
	})
	if err != nil {
		return 0, 0, err
	}
	return schedules, statuses, nil
}

package store

import (
	"context"
	"time"

	"github.com/smartask/api/internal/domain"
)

// TaskStatusStore persists TaskStatus records keyed by task identifier.
//
// The broker delivers at-least-once and without ordering guarantees, so
// every write here is idempotent: Create tolerates an existing record and
// Upsert tolerates a missing one. Implementations must be safe for
// concurrent use across consumers.
type TaskStatusStore interface {
	// Create persists the initial record for a task. If a record with
	// the same task identifier already exists the call is a no-op; the
	// task identifier is the idempotency key for submission.
	Create(ctx context.Context, status *domain.TaskStatus) error

	// Upsert records a state transition for a task. A missing record is
	// created as a stub (out-of-order delivery); a record already in a
	// terminal state is left untouched. updated_at is refreshed on every
	// accepted transition, created_at never changes after first write.
	Upsert(ctx context.Context, taskID string, state domain.TaskState) error

	// GetByTaskID retrieves the record for a task identifier.
	// Returns ErrTaskStatusNotFound if no record exists.
	GetByTaskID(ctx context.Context, taskID string) (*domain.TaskStatus, error)

	// List retrieves all task status records, oldest first.
	List(ctx context.Context) ([]*domain.TaskStatus, error)

	// ExistsByTitleAndAlgorithm reports whether a prior task embeds a
	// request with the given title and algorithm. Used by the validator
	// to reject resubmission of identical work.
	ExistsByTitleAndAlgorithm(ctx context.Context, title, algorithm string) (bool, error)

	// DeleteByRequestTitle removes every record whose embedded request
	// title matches. Returns the number of records removed. Used by the
	// schedule-result delete cascade.
	DeleteByRequestTitle(ctx context.Context, title string) (int64, error)

	// ListPendingOlderThan retrieves PENDING records whose last update is
	// older than the given age. These are candidates for the
	// orphaned-publish sweep.
	ListPendingOlderThan(ctx context.Context, age time.Duration) ([]*domain.TaskStatus, error)
}

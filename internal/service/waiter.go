package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/store"
)

// WaitOutcome is the result of waiting for a task to finish.
type WaitOutcome string

// Wait outcomes. A timeout is an outcome, not an error.
const (
	WaitCompleted WaitOutcome = "completed"
	WaitFailed    WaitOutcome = "failed"
	WaitTimedOut  WaitOutcome = "timed out"
)

// defaultPollInterval is used when the waiter is constructed without one.
const defaultPollInterval = 2 * time.Second

// CompletionWaiter polls the task status store until a task reaches a
// terminal state or the timeout elapses. It is a coarse helper for batch
// orchestration that submits jobs sequentially; interactive callers
// should query the status instead.
type CompletionWaiter struct {
	statuses store.TaskStatusStore
	interval time.Duration
	logger   *slog.Logger
}

// NewCompletionWaiter creates a CompletionWaiter polling at the given
// interval (the default is used when interval is not positive).
func NewCompletionWaiter(statuses store.TaskStatusStore, interval time.Duration, log *slog.Logger) *CompletionWaiter {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &CompletionWaiter{
		statuses: statuses,
		interval: interval,
		logger:   log.With("component", "completion_waiter"),
	}
}

// Wait blocks until the task reaches COMPLETED or FAILED, or the timeout
// elapses, whichever comes first. The timeout is a hard upper bound. A
// task with no record yet keeps being polled; only store failures
// unrelated to the deadline surface as errors.
func (w *CompletionWaiter) Wait(ctx context.Context, taskID string, timeout time.Duration) (WaitOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log := w.logger.With("task_id", taskID)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		status, err := w.statuses.GetByTaskID(ctx, taskID)
		switch {
		case err == nil:
			switch status.State {
			case domain.TaskStateCompleted:
				return WaitCompleted, nil
			case domain.TaskStateFailed:
				return WaitFailed, nil
			}
		case store.IsNotFoundError(err):
			// Not created yet; keep polling until the deadline.
		case ctx.Err() != nil:
			log.Debug("wait timed out", "timeout", timeout)
			return WaitTimedOut, nil
		default:
			return "", fmt.Errorf("failed to poll task status: %w", err)
		}

		select {
		case <-ctx.Done():
			log.Debug("wait timed out", "timeout", timeout)
			return WaitTimedOut, nil
		case <-ticker.C:
		}
	}
}

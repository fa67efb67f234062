package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/events"
	"github.com/smartask/api/internal/platform/logger"
	"github.com/smartask/api/internal/store"
)

// JobReceiptHandler processes deliveries from the task-request queue.
// The external worker does the actual computation; this handler only
// records that the job reached the queue by moving the task to RECEIVED.
//
// The upsert tolerates read-after-write lag: if the producer's PENDING
// write is not yet visible, a stub record is created instead of failing.
type JobReceiptHandler struct {
	statuses store.TaskStatusStore
	logger   *slog.Logger
}

// NewJobReceiptHandler creates a JobReceiptHandler.
func NewJobReceiptHandler(statuses store.TaskStatusStore, log *slog.Logger) *JobReceiptHandler {
	return &JobReceiptHandler{
		statuses: statuses,
		logger:   log.With("component", "job_receipt_handler"),
	}
}

// Handle records receipt of one task request message. Unparseable bodies
// are classified as malformed so the consumer rejects them to the
// dead-letter destination.
func (h *JobReceiptHandler) Handle(ctx context.Context, body []byte) error {
	var payload events.TaskRequestPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: task request body: %v", events.ErrMalformedMessage, err)
	}
	if payload.TaskID == "" {
		return fmt.Errorf("%w: task request missing taskId", events.ErrMalformedMessage)
	}

	log := logger.FromContext(ctx).With("task_id", payload.TaskID)

	if payload.Title == domain.ConnectivityProbeTitle {
		log.Debug("connectivity probe received")
		return nil
	}

	if err := h.statuses.Upsert(ctx, payload.TaskID, domain.TaskStateReceived); err != nil {
		return fmt.Errorf("failed to record task receipt: %w", err)
	}

	log.Info("task receipt recorded", "state", domain.TaskStateReceived)
	return nil
}

// StatusUpdateHandler processes lifecycle updates the worker publishes
// to the status queue, reconciling them into the task status store.
//
// Delivery is at-least-once and unordered, so the handler is an
// idempotent upsert: a duplicate terminal update is a tolerated no-op,
// and an update for a task with no record yet creates a stub record
// rather than dropping the transition.
type StatusUpdateHandler struct {
	statuses store.TaskStatusStore
	logger   *slog.Logger
}

// NewStatusUpdateHandler creates a StatusUpdateHandler.
func NewStatusUpdateHandler(statuses store.TaskStatusStore, log *slog.Logger) *StatusUpdateHandler {
	return &StatusUpdateHandler{
		statuses: statuses,
		logger:   log.With("component", "status_update_handler"),
	}
}

// Handle reconciles one status update into the store.
func (h *StatusUpdateHandler) Handle(ctx context.Context, body []byte) error {
	var update events.StatusUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("%w: status update body: %v", events.ErrMalformedMessage, err)
	}
	if update.TaskID == "" {
		return fmt.Errorf("%w: status update missing taskId", events.ErrMalformedMessage)
	}

	state, err := domain.ParseTaskState(update.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", events.ErrMalformedMessage, err)
	}

	log := logger.FromContext(ctx).With("task_id", update.TaskID, "state", state)

	if _, err := h.statuses.GetByTaskID(ctx, update.TaskID); err != nil {
		if store.IsNotFoundError(err) {
			// The create-record message may merely be delayed; keep the
			// update in a stub record instead of losing it.
			log.Warn("status update for unknown task, creating stub record")
		} else {
			return fmt.Errorf("failed to read task status: %w", err)
		}
	}

	if err := h.statuses.Upsert(ctx, update.TaskID, state); err != nil {
		return fmt.Errorf("failed to apply status update: %w", err)
	}

	log.Info("task status updated")
	return nil
}

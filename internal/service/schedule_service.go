package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/events"
	"github.com/smartask/api/internal/store"
)

// TaskPublisher publishes a serialized task request to the durable
// task-request queue under the fixed routing key.
type TaskPublisher interface {
	Publish(ctx context.Context, body []byte) error
}

// ResultCleanup removes a generated schedule result together with the
// task records that produced it.
type ResultCleanup interface {
	// DeleteByTitle removes the schedule with the given title and every
	// task status whose embedded request title matches. Returns the
	// number of schedules and task records removed.
	DeleteByTitle(ctx context.Context, title string) (schedules, statuses int64, err error)
}

// SubmitCode classifies the outcome of a Submit call.
type SubmitCode string

// Submit outcomes. Rejections and publish failures are results of the
// call, not panics or process failures.
const (
	SubmitAccepted           SubmitCode = "accepted"
	SubmitRejected           SubmitCode = "rejected"
	SubmitSerializationError SubmitCode = "serialization error"
	SubmitUnexpectedError    SubmitCode = "unexpected error"
)

// SubmitResult is the outcome of submitting a schedule request.
type SubmitResult struct {
	Code   SubmitCode
	TaskID string
	Detail string
}

// Accepted reports whether the request was queued.
func (r SubmitResult) Accepted() bool {
	return r.Code == SubmitAccepted
}

// ScheduleService is the message producer of the orchestration core: it
// validates a request, persists the initial status record, and publishes
// the job for the external worker. It also exposes the status queries
// and the result delete cascade.
type ScheduleService struct {
	validator *RequestValidator
	statuses  store.TaskStatusStore
	ruleSets  store.RuleSetStore
	publisher TaskPublisher
	cleanup   ResultCleanup
	logger    *slog.Logger
}

// NewScheduleService creates a ScheduleService.
func NewScheduleService(
	validator *RequestValidator,
	statuses store.TaskStatusStore,
	ruleSets store.RuleSetStore,
	publisher TaskPublisher,
	cleanup ResultCleanup,
	logger *slog.Logger,
) *ScheduleService {
	return &ScheduleService{
		validator: validator,
		statuses:  statuses,
		ruleSets:  ruleSets,
		publisher: publisher,
		cleanup:   cleanup,
		logger:    logger.With("component", "schedule_service"),
	}
}

// Submit validates the request and, on acceptance, persists a PENDING
// status record and publishes the job. Rejections and failures come back
// as the result, never as a panic. A duplicate submit with the same task
// identifier is idempotent: the store write is a no-op and no second
// record is created.
//
// There is no transaction spanning the status write and the publish: a
// publish failure after a successful write leaves a PENDING record with
// no in-flight message. The orphan monitor surfaces those for manual
// replay.
func (s *ScheduleService) Submit(ctx context.Context, req domain.ScheduleRequest) SubmitResult {
	if req.TaskID == "" {
		req.TaskID = uuid.New().String()
	}
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}

	log := s.logger.With("task_id", req.TaskID, "title", req.Title)

	resolved, err := s.validator.Validate(ctx, req)
	if err != nil {
		var rejection *RejectionError
		if errors.As(err, &rejection) {
			log.Info("schedule request rejected", "reason", rejection.Reason)
			return SubmitResult{Code: SubmitRejected, TaskID: req.TaskID, Detail: rejection.Reason}
		}
		log.Error("schedule request validation failed", "error", err)
		return SubmitResult{Code: SubmitUnexpectedError, TaskID: req.TaskID, Detail: err.Error()}
	}

	if req.IsConnectivityProbe() {
		log.Debug("connectivity probe, skipping status record")
	} else {
		if err := s.statuses.Create(ctx, domain.NewTaskStatus(req)); err != nil {
			log.Error("failed to persist task status", "error", err)
			return SubmitResult{Code: SubmitUnexpectedError, TaskID: req.TaskID, Detail: err.Error()}
		}
	}

	payload := events.NewTaskRequestPayload(req, resolved.Vacation, resolved.Minimums, s.resolveRules(ctx, req))

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to serialize task request payload", "error", err)
		return SubmitResult{
			Code:   SubmitSerializationError,
			TaskID: req.TaskID,
			Detail: "error converting schedule request to JSON: " + err.Error(),
		}
	}

	if err := s.publisher.Publish(ctx, body); err != nil {
		// The PENDING record persists with no in-flight message; the
		// orphan monitor will report it.
		log.Error("failed to publish task request", "error", err)
		return SubmitResult{Code: SubmitUnexpectedError, TaskID: req.TaskID, Detail: err.Error()}
	}

	log.Info("task request published", "algorithm", req.Algorithm, "shifts", req.Shifts)
	return SubmitResult{Code: SubmitAccepted, TaskID: req.TaskID, Detail: "task request sent"}
}

// resolveRules looks up the named rule set and returns its document for
// the payload. A request without a rule set, or one whose rule set
// cannot be resolved, gets the empty rules document; a missing rule set
// is not grounds for rejection.
func (s *ScheduleService) resolveRules(ctx context.Context, req domain.ScheduleRequest) json.RawMessage {
	if req.RuleSetName == "" {
		return events.EmptyRules
	}

	ruleSet, err := s.ruleSets.FindByName(ctx, req.RuleSetName)
	if err != nil {
		s.logger.Warn("rule set not resolved, falling back to empty rules",
			"task_id", req.TaskID,
			"rule_set", req.RuleSetName,
			"error", err)
		return events.EmptyRules
	}

	document, err := json.Marshal(ruleSet)
	if err != nil {
		s.logger.Warn("failed to serialize rule set, falling back to empty rules",
			"task_id", req.TaskID,
			"rule_set", req.RuleSetName,
			"error", err)
		return events.EmptyRules
	}

	return document
}

// GetTaskStatus retrieves the status record for a task identifier.
// Returns store.ErrTaskStatusNotFound when no record exists.
func (s *ScheduleService) GetTaskStatus(ctx context.Context, taskID string) (*domain.TaskStatus, error) {
	return s.statuses.GetByTaskID(ctx, taskID)
}

// ListTaskStatuses retrieves all task status records, oldest first.
func (s *ScheduleService) ListTaskStatuses(ctx context.Context) ([]*domain.TaskStatus, error) {
	return s.statuses.List(ctx)
}

// DeleteScheduleByTitle removes a generated schedule result and cascades
// to every task status whose embedded request produced it.
func (s *ScheduleService) DeleteScheduleByTitle(ctx context.Context, title string) error {
	schedules, statuses, err := s.cleanup.DeleteByTitle(ctx, title)
	if err != nil {
		return err
	}

	s.logger.Info("schedule result deleted",
		"title", title,
		"schedules_removed", schedules,
		"task_statuses_removed", statuses)
	return nil
}

package domain

import (
	"fmt"
	"time"
)

// TaskState represents the lifecycle state of a schedule-generation task.
// The string values match the wire format used on the status queue.
type TaskState string

// Possible task states. PENDING is set by the producer before publish,
// RECEIVED when the worker acknowledges pickup, IN_PROGRESS while the
// worker computes, and COMPLETED/FAILED are terminal.
const (
	TaskStatePending    TaskState = "PENDING"
	TaskStateReceived   TaskState = "RECEIVED"
	TaskStateInProgress TaskState = "IN_PROGRESS"
	TaskStateCompleted  TaskState = "COMPLETED"
	TaskStateFailed     TaskState = "FAILED"
)

// IsTerminal reports whether no further transitions are expected from
// this state. Updates against a terminal state are tolerated no-ops.
func (s TaskState) IsTerminal() bool {
	return s == TaskStateCompleted || s == TaskStateFailed
}

// IsValid reports whether s is one of the known task states.
func (s TaskState) IsValid() bool {
	switch s {
	case TaskStatePending, TaskStateReceived, TaskStateInProgress,
		TaskStateCompleted, TaskStateFailed:
		return true
	}
	return false
}

// ParseTaskState converts a wire status string into a TaskState.
// Returns an error for unknown values so consumers can classify the
// message as malformed instead of persisting garbage.
func ParseTaskState(s string) (TaskState, error) {
	state := TaskState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("unknown task state %q", s)
	}
	return state, nil
}

// TaskStatus is the durable record tracking one schedule-generation task.
// Exactly one record exists per task identifier. The producer creates it,
// the status consumer mutates it, readers never do.
//
// Request is the snapshot of the originating ScheduleRequest, retained
// for traceability and for reconstructing failed jobs. It is nil for stub
// records created when a status update arrives before the producer's
// write becomes visible.
type TaskStatus struct {
	TaskID    string           `json:"taskId"`
	State     TaskState        `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Request   *ScheduleRequest `json:"request,omitempty"`
}

// NewTaskStatus creates the initial PENDING record for a request.
func NewTaskStatus(req ScheduleRequest) *TaskStatus {
	now := time.Now().UTC()
	return &TaskStatus{
		TaskID:    req.TaskID,
		State:     TaskStatePending,
		CreatedAt: now,
		UpdatedAt: now,
		Request:   &req,
	}
}

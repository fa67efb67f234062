package events

import (
	"encoding/json"

	"github.com/smartask/api/internal/domain"
)

// EmptyRules is the rules document published when a request names no
// rule set (or the named one cannot be resolved).
var EmptyRules = json.RawMessage(`{"rules":[]}`)

// TaskRequestPayload is the message published to the task-request queue
// for the external worker. Field names are the wire contract, including
// the historical "minimuns" spelling.
type TaskRequestPayload struct {
	TaskID           string          `json:"taskId"`
	Title            string          `json:"title"`
	Algorithm        string          `json:"algorithm"`
	Year             string          `json:"year"`
	MaxTime          string          `json:"maxTime"`
	VacationTemplate string          `json:"vacationTemplate"`
	Minimuns         string          `json:"minimuns"`
	Shifts           int             `json:"shifts"`
	GroupName        string          `json:"groupName,omitempty"`
	Rules            json.RawMessage `json:"rules"`
}

// NewTaskRequestPayload builds the wire payload for a validated request.
// Template names come from the resolved documents rather than the raw
// request so the worker always sees names that exist. rules may be nil,
// in which case the empty rules document is used.
func NewTaskRequestPayload(
	req domain.ScheduleRequest,
	vacation *domain.VacationTemplate,
	minimums *domain.ReferenceTemplate,
	rules json.RawMessage,
) TaskRequestPayload {
	if rules == nil {
		rules = EmptyRules
	}
	return TaskRequestPayload{
		TaskID:           req.TaskID,
		Title:            req.Title,
		Algorithm:        req.Algorithm,
		Year:             req.Year,
		MaxTime:          req.MaxTime,
		VacationTemplate: vacation.Name,
		Minimuns:         minimums.Name,
		Shifts:           req.Shifts,
		GroupName:        req.GroupName,
		Rules:            rules,
	}
}

// StatusUpdate is the message the worker publishes to the status queue
// after each lifecycle transition.
type StatusUpdate struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

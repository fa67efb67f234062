package domain

import (
	"time"
)

// ConnectivityProbeTitle marks a request used only to exercise the broker
// path. The producer publishes it like any other job but never creates a
// status record for it.
const ConnectivityProbeTitle = "startconn"

// ScheduleRequest describes one schedule-generation job. It is immutable
// once queued; afterwards it exists only as the snapshot embedded in the
// TaskStatus record.
//
// JSON tags follow the wire contract with the worker, including the
// historical "minimuns" spelling, which the worker side still expects.
type ScheduleRequest struct {
	// TaskID uniquely identifies the task. Callers may assign it; the
	// service assigns one when it is empty.
	TaskID string `json:"taskId"    validate:"required"`

	// Title is the human-readable name of the schedule, also used for
	// de-duplication and for cascading deletes of generated results.
	Title string `json:"title"     validate:"required"`

	// Algorithm names the optimization algorithm the worker should run.
	Algorithm string `json:"algorithm" validate:"required"`

	// Year is the target year, kept as a string on the wire.
	Year string `json:"year"`

	// MaxTime is the free-form computation budget (expected HH:MM:SS).
	MaxTime string `json:"maxTime"`

	// RequestedAt is the submission timestamp.
	RequestedAt time.Time `json:"requestedAt"`

	// VacationTemplate names the vacation template the job constrains on.
	VacationTemplate string `json:"vacationTemplate" validate:"required"`

	// Minimuns names the minimum-staffing reference template.
	Minimuns string `json:"minimuns" validate:"required"`

	// Shifts is the declared number of shifts per day. For shift-keyed
	// minimums templates it must match the count inferred from the
	// template rows.
	Shifts int `json:"shifts" validate:"gte=0"`

	// RuleSetName optionally names a rule set to resolve into the
	// published payload.
	RuleSetName string `json:"ruleSetName,omitempty"`

	// GroupName optionally names a scenario/group for the run.
	GroupName string `json:"groupName,omitempty"`
}

// IsConnectivityProbe reports whether this request is the broker health
// probe rather than real work.
func (r *ScheduleRequest) IsConnectivityProbe() bool {
	return r.Title == ConnectivityProbeTitle
}

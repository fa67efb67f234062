package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartask/api/internal/domain"
)

func validRequest() domain.ScheduleRequest {
	return domain.ScheduleRequest{
		TaskID:           "t1",
		Title:            "CaseA",
		Algorithm:        "CSPv2",
		Year:             "2026",
		MaxTime:          "00:30:00",
		RequestedAt:      time.Now().UTC(),
		VacationTemplate: "V1",
		Minimuns:         "Min1",
		Shifts:           2,
	}
}

// shiftKeyedTemplate builds a minimums template with one row per label.
func shiftKeyedTemplate(name string, labels ...string) *domain.ReferenceTemplate {
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{"Equipa A", "min", label, "2", "2", "2"})
	}
	return &domain.ReferenceTemplate{Name: name, Minimums: rows}
}

func newValidatorFixture(roster []domain.Employee) (*RequestValidator, *fakeTaskStatusStore, *fakeVacationTemplateStore, *fakeReferenceTemplateStore) {
	statuses := newFakeTaskStatusStore()
	employees := &fakeEmployeeStore{employees: roster}
	vacations := &fakeVacationTemplateStore{templates: map[string]*domain.VacationTemplate{
		"V1": {Name: "V1", Vacations: vacationsFor(roster)},
	}}
	references := &fakeReferenceTemplateStore{templates: map[string]*domain.ReferenceTemplate{
		"Min1": shiftKeyedTemplate("Min1", "M", "T"),
	}}
	return NewRequestValidator(statuses, employees, vacations, references), statuses, vacations, references
}

func assertRejected(t *testing.T, err error) *RejectionError {
	t.Helper()
	require.Error(t, err)
	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection), "expected a rejection, got %v", err)
	return rejection
}

func TestValidateAccepts(t *testing.T) {
	validator, _, _, _ := newValidatorFixture(rosterOf(12))

	resolved, err := validator.Validate(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "V1", resolved.Vacation.Name)
	assert.Equal(t, "Min1", resolved.Minimums.Name)
}

func TestValidateRejectsMissingFields(t *testing.T) {
	validator, _, _, _ := newValidatorFixture(rosterOf(12))

	req := validRequest()
	req.Title = ""

	_, err := validator.Validate(context.Background(), req)
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, "invalid request")
}

func TestValidateRejectsDuplicate(t *testing.T) {
	validator, statuses, _, _ := newValidatorFixture(rosterOf(12))

	prior := validRequest()
	prior.TaskID = "t0"
	require.NoError(t, statuses.Create(context.Background(), domain.NewTaskStatus(prior)))

	_, err := validator.Validate(context.Background(), validRequest())
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, "CaseA")
	assert.Contains(t, rejection.Reason, "CSPv2")
	assert.Contains(t, rejection.Reason, "already requested")
}

func TestValidateRejectsMissingVacationTemplate(t *testing.T) {
	validator, _, _, _ := newValidatorFixture(rosterOf(12))

	req := validRequest()
	req.VacationTemplate = "nope"

	_, err := validator.Validate(context.Background(), req)
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, `vacation template "nope" not found`)
}

// Validation short-circuits in the documented order: with both templates
// missing, the vacation-template failure is the one reported.
func TestValidateOrderVacationBeforeMinimums(t *testing.T) {
	validator, _, _, _ := newValidatorFixture(rosterOf(12))

	req := validRequest()
	req.VacationTemplate = "missing-vacations"
	req.Minimuns = "missing-minimums"

	_, err := validator.Validate(context.Background(), req)
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, "vacation template")
	assert.NotContains(t, rejection.Reason, "minimums")
}

func TestValidateRejectsUnknownEmployee(t *testing.T) {
	roster := rosterOf(12)
	validator, _, vacations, _ := newValidatorFixture(roster)

	withStranger := vacationsFor(roster)
	withStranger["Employee 13"] = []int{1, 2, 3}
	vacations.templates["V1"].Vacations = withStranger

	_, err := validator.Validate(context.Background(), validRequest())
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, "missing from the roster")
	assert.Contains(t, rejection.Reason, "Employee 13")
}

func TestValidateRejectsUncoveredRoster(t *testing.T) {
	roster := rosterOf(12)
	validator, _, vacations, _ := newValidatorFixture(roster)

	partial := vacationsFor(roster)
	delete(partial, "Employee 7")
	vacations.templates["V1"].Vacations = partial

	_, err := validator.Validate(context.Background(), validRequest())
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, "not covered")
	assert.Contains(t, rejection.Reason, "Employee 7")
}

func TestValidateRejectsMissingMinimumsTemplate(t *testing.T) {
	validator, _, _, _ := newValidatorFixture(rosterOf(12))

	req := validRequest()
	req.Minimuns = "nope"

	_, err := validator.Validate(context.Background(), req)
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, `minimums template "nope" not found`)
}

// A template with M and T rows infers 2 shifts; declaring 3 is rejected
// with both values in the message.
func TestValidateRejectsShiftMismatch(t *testing.T) {
	validator, _, _, _ := newValidatorFixture(rosterOf(12))

	req := validRequest()
	req.Shifts = 3

	_, err := validator.Validate(context.Background(), req)
	rejection := assertRejected(t, err)
	assert.Contains(t, rejection.Reason, "2 shift(s)")
	assert.Contains(t, rejection.Reason, "declares 3")
}

// Hour-keyed templates are accepted regardless of the declared count.
func TestValidateAcceptsHourKeyedTemplate(t *testing.T) {
	validator, _, _, references := newValidatorFixture(rosterOf(12))
	references.templates["Min1"] = shiftKeyedTemplate("Min1", "09-10", "10-11", "11-12")

	req := validRequest()
	req.Shifts = 7

	_, err := validator.Validate(context.Background(), req)
	assert.NoError(t, err)
}

// Infrastructure failures are not rejections.
func TestValidateInfrastructureErrorIsNotRejection(t *testing.T) {
	validator, statuses, _, _ := newValidatorFixture(rosterOf(12))
	statuses.failExists = errors.New("connection refused")

	_, err := validator.Validate(context.Background(), validRequest())
	require.Error(t, err)
	var rejection *RejectionError
	assert.False(t, errors.As(err, &rejection))
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/store"
)

// ResolvedTemplates holds the template documents a validated request
// resolved to. The producer reuses them to build the wire payload
// without a second lookup.
type ResolvedTemplates struct {
	Vacation *domain.VacationTemplate
	Minimums *domain.ReferenceTemplate
}

// RequestValidator checks a ScheduleRequest against the reference data
// before anything is queued. Checks run in a fixed order and
// short-circuit on the first failure; a request is never partially
// validated.
type RequestValidator struct {
	statuses   store.TaskStatusStore
	employees  store.EmployeeStore
	vacations  store.VacationTemplateStore
	references store.ReferenceTemplateStore
	validate   *validator.Validate
}

// NewRequestValidator creates a RequestValidator over the given stores.
func NewRequestValidator(
	statuses store.TaskStatusStore,
	employees store.EmployeeStore,
	vacations store.VacationTemplateStore,
	references store.ReferenceTemplateStore,
) *RequestValidator {
	return &RequestValidator{
		statuses:   statuses,
		employees:  employees,
		vacations:  vacations,
		references: references,
		validate:   validator.New(),
	}
}

// Validate accepts or rejects a schedule request. On acceptance it
// returns the resolved templates and a nil error. A *RejectionError
// describes why the request was refused; any other error is an
// infrastructure failure, not a verdict on the request.
func (v *RequestValidator) Validate(ctx context.Context, req domain.ScheduleRequest) (*ResolvedTemplates, error) {
	if err := v.validate.Struct(&req); err != nil {
		return nil, reject("invalid request: %v", err)
	}

	duplicate, err := v.statuses.ExistsByTitleAndAlgorithm(ctx, req.Title, req.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate request: %w", err)
	}
	if duplicate {
		return nil, reject("a schedule with title %q and algorithm %q was already requested", req.Title, req.Algorithm)
	}

	vacation, err := v.vacations.FindByName(ctx, req.VacationTemplate)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, reject("vacation template %q not found", req.VacationTemplate)
		}
		return nil, fmt.Errorf("failed to look up vacation template: %w", err)
	}

	if rej, err := v.checkRoster(ctx, vacation); err != nil {
		return nil, err
	} else if rej != nil {
		return nil, rej
	}

	minimums, err := v.references.FindByName(ctx, req.Minimuns)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, reject("minimums template %q not found", req.Minimuns)
		}
		return nil, fmt.Errorf("failed to look up minimums template: %w", err)
	}

	if rej := checkShifts(req, minimums); rej != nil {
		return nil, rej
	}

	return &ResolvedTemplates{Vacation: vacation, Minimums: minimums}, nil
}

// checkRoster verifies that the vacation template's employee set exactly
// matches the current roster: no unknown names, no roster member left
// uncovered. Offending names are reported sorted.
func (v *RequestValidator) checkRoster(ctx context.Context, vacation *domain.VacationTemplate) (*RejectionError, error) {
	roster, err := v.employees.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee roster: %w", err)
	}

	rosterNames := make(map[string]struct{}, len(roster))
	for _, e := range roster {
		rosterNames[e.Name] = struct{}{}
	}

	var unknown []string
	for name := range vacation.Vacations {
		if _, ok := rosterNames[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return reject("vacation template %q references employees missing from the roster: %s",
			vacation.Name, strings.Join(unknown, ", ")), nil
	}

	var uncovered []string
	for name := range rosterNames {
		if _, ok := vacation.Vacations[name]; !ok {
			uncovered = append(uncovered, name)
		}
	}
	if len(uncovered) > 0 {
		sort.Strings(uncovered)
		return reject("vacation template %q covers %d employees but the roster has %d; not covered: %s",
			vacation.Name, len(vacation.Vacations), len(roster), strings.Join(uncovered, ", ")), nil
	}

	return nil, nil
}

// checkShifts cross-checks the declared shift count against the count
// inferred from the minimums template. Shift-keyed templates must match
// exactly; hour-keyed templates are accepted as long as at least one
// interval was found.
func checkShifts(req domain.ScheduleRequest, minimums *domain.ReferenceTemplate) *RejectionError {
	kind, count := minimums.InferShifts()

	if kind == domain.MinimumsHourKeyed {
		// Inference only reports hour-keyed when intervals exist.
		return nil
	}

	if count != req.Shifts {
		return reject("minimums template %q defines %d shift(s) but the request declares %d",
			minimums.Name, count, req.Shifts)
	}

	return nil
}

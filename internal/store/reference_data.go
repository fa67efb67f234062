package store

import (
	"context"

	"github.com/smartask/api/internal/domain"
)

// EmployeeStore exposes the current employee roster. Read-only from the
// orchestration core's perspective.
type EmployeeStore interface {
	// FindAll retrieves the full roster.
	FindAll(ctx context.Context) ([]domain.Employee, error)
}

// VacationTemplateStore looks up vacation templates by name.
type VacationTemplateStore interface {
	// FindByName retrieves a template by its unique name.
	// Returns ErrVacationTemplateNotFound if it does not exist.
	FindByName(ctx context.Context, name string) (*domain.VacationTemplate, error)
}

// ReferenceTemplateStore looks up minimum-staffing templates by name.
type ReferenceTemplateStore interface {
	// FindByName retrieves a template by its unique name.
	// Returns ErrReferenceTemplateNotFound if it does not exist.
	FindByName(ctx context.Context, name string) (*domain.ReferenceTemplate, error)
}

// RuleSetStore looks up rule sets by name.
type RuleSetStore interface {
	// FindByName retrieves a rule set by its unique name.
	// Returns ErrRuleSetNotFound if it does not exist.
	FindByName(ctx context.Context, name string) (*domain.RuleSet, error)
}

// ScheduleStore exposes the generated schedule results the cascade
// delete operates on. Full CRUD of schedules lives outside this core.
type ScheduleStore interface {
	// FindByTitle retrieves a schedule result by title.
	// Returns ErrScheduleNotFound if it does not exist.
	FindByTitle(ctx context.Context, title string) (*domain.Schedule, error)

	// DeleteByTitle removes the schedule result with the given title.
	// Returns the number of rows removed.
	DeleteByTitle(ctx context.Context, title string) (int64, error)
}

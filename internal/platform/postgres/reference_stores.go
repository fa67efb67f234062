package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/store"
)

// EmployeeStore implements store.EmployeeStore using PostgreSQL.
type EmployeeStore struct {
	db store.DBTX
}

// NewEmployeeStore creates a new EmployeeStore.
func NewEmployeeStore(db store.DBTX) *EmployeeStore {
	return &EmployeeStore{db: db}
}

// FindAll retrieves the full employee roster.
func (s *EmployeeStore) FindAll(ctx context.Context) ([]domain.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return employees, nil
}

// VacationTemplateStore implements store.VacationTemplateStore using
// PostgreSQL. The vacation mapping is held in a JSONB document.
type VacationTemplateStore struct {
	db store.DBTX
}

// NewVacationTemplateStore creates a new VacationTemplateStore.
func NewVacationTemplateStore(db store.DBTX) *VacationTemplateStore {
	return &VacationTemplateStore{db: db}
}

// FindByName retrieves a vacation template by its unique name.
func (s *VacationTemplateStore) FindByName(ctx context.Context, name string) (*domain.VacationTemplate, error) {
	var (
		template  domain.VacationTemplate
		vacations []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, vacations FROM vacation_templates WHERE name = $1`, name,
	).Scan(&template.ID, &template.Name, &vacations)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrVacationTemplateNotFound
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(vacations, &template.Vacations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vacations for template %q: %w", name, err)
	}

	return &template, nil
}

// ReferenceTemplateStore implements store.ReferenceTemplateStore using
// PostgreSQL.
type ReferenceTemplateStore struct {
	db store.DBTX
}

// NewReferenceTemplateStore creates a new ReferenceTemplateStore.
func NewReferenceTemplateStore(db store.DBTX) *ReferenceTemplateStore {
	return &ReferenceTemplateStore{db: db}
}

// FindByName retrieves a minimums template by its unique name.
func (s *ReferenceTemplateStore) FindByName(ctx context.Context, name string) (*domain.ReferenceTemplate, error) {
	var (
		template domain.ReferenceTemplate
		minimums []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, minimums FROM reference_templates WHERE name = $1`, name,
	).Scan(&template.ID, &template.Name, &minimums)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReferenceTemplateNotFound
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(minimums, &template.Minimums); err != nil {
		return nil, fmt.Errorf("failed to unmarshal minimums for template %q: %w", name, err)
	}

	return &template, nil
}

// RuleSetStore implements store.RuleSetStore using PostgreSQL. The whole
// rule-set document is held as JSONB so it can be embedded verbatim into
// the published payload.
type RuleSetStore struct {
	db store.DBTX
}

// NewRuleSetStore creates a new RuleSetStore.
func NewRuleSetStore(db store.DBTX) *RuleSetStore {
	return &RuleSetStore{db: db}
}

// FindByName retrieves a rule set by its unique name.
func (s *RuleSetStore) FindByName(ctx context.Context, name string) (*domain.RuleSet, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM rule_sets WHERE name = $1`, name,
	).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRuleSetNotFound
		}
		return nil, MapError(err)
	}

	var ruleSet domain.RuleSet
	if err := json.Unmarshal(document, &ruleSet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule set %q: %w", name, err)
	}

	return &ruleSet, nil
}

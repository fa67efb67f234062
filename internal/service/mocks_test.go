package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/store"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// fakeTaskStatusStore is an in-memory TaskStatusStore with the same
// idempotency semantics as the PostgreSQL implementation.
type fakeTaskStatusStore struct {
	mu      sync.Mutex
	records map[string]*domain.TaskStatus

	createCalls int

	failCreate error
	failUpsert error
	failGet    error
	failExists error
	failList   error
}

func newFakeTaskStatusStore() *fakeTaskStatusStore {
	return &fakeTaskStatusStore{records: make(map[string]*domain.TaskStatus)}
}

func (f *fakeTaskStatusStore) Create(ctx context.Context, status *domain.TaskStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return f.failCreate
	}

	f.createCalls++
	if _, exists := f.records[status.TaskID]; exists {
		return nil
	}

	copied := *status
	f.records[status.TaskID] = &copied
	return nil
}

func (f *fakeTaskStatusStore) Upsert(ctx context.Context, taskID string, state domain.TaskState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpsert != nil {
		return f.failUpsert
	}

	now := time.Now().UTC()
	record, exists := f.records[taskID]
	if !exists {
		f.records[taskID] = &domain.TaskStatus{
			TaskID:    taskID,
			State:     state,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	}

	if record.State.IsTerminal() {
		return nil
	}

	record.State = state
	record.UpdatedAt = now
	return nil
}

func (f *fakeTaskStatusStore) GetByTaskID(ctx context.Context, taskID string) (*domain.TaskStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failGet != nil {
		return nil, f.failGet
	}

	record, exists := f.records[taskID]
	if !exists {
		return nil, store.ErrTaskStatusNotFound
	}

	copied := *record
	return &copied, nil
}

func (f *fakeTaskStatusStore) List(ctx context.Context) ([]*domain.TaskStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failList != nil {
		return nil, f.failList
	}

	statuses := make([]*domain.TaskStatus, 0, len(f.records))
	for _, record := range f.records {
		copied := *record
		statuses = append(statuses, &copied)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].CreatedAt.Before(statuses[j].CreatedAt)
	})
	return statuses, nil
}

func (f *fakeTaskStatusStore) ExistsByTitleAndAlgorithm(ctx context.Context, title, algorithm string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failExists != nil {
		return false, f.failExists
	}

	for _, record := range f.records {
		if record.Request != nil && record.Request.Title == title && record.Request.Algorithm == algorithm {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskStatusStore) DeleteByRequestTitle(ctx context.Context, title string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	for taskID, record := range f.records {
		if record.Request != nil && record.Request.Title == title {
			delete(f.records, taskID)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeTaskStatusStore) ListPendingOlderThan(ctx context.Context, age time.Duration) ([]*domain.TaskStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failList != nil {
		return nil, f.failList
	}

	cutoff := time.Now().UTC().Add(-age)
	var orphans []*domain.TaskStatus
	for _, record := range f.records {
		if record.State == domain.TaskStatePending && record.UpdatedAt.Before(cutoff) {
			copied := *record
			orphans = append(orphans, &copied)
		}
	}
	return orphans, nil
}

// setState force-sets a record for test arrangement, bypassing the
// terminal-state guard.
func (f *fakeTaskStatusStore) setState(taskID string, state domain.TaskState, updatedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, exists := f.records[taskID]
	if !exists {
		record = &domain.TaskStatus{TaskID: taskID, CreatedAt: updatedAt}
		f.records[taskID] = record
	}
	record.State = state
	record.UpdatedAt = updatedAt
}

type fakeEmployeeStore struct {
	employees []domain.Employee
	failWith  error
}

func (f *fakeEmployeeStore) FindAll(ctx context.Context) ([]domain.Employee, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.employees, nil
}

type fakeVacationTemplateStore struct {
	templates map[string]*domain.VacationTemplate
}

func (f *fakeVacationTemplateStore) FindByName(ctx context.Context, name string) (*domain.VacationTemplate, error) {
	template, exists := f.templates[name]
	if !exists {
		return nil, store.ErrVacationTemplateNotFound
	}
	return template, nil
}

type fakeReferenceTemplateStore struct {
	templates map[string]*domain.ReferenceTemplate
}

func (f *fakeReferenceTemplateStore) FindByName(ctx context.Context, name string) (*domain.ReferenceTemplate, error) {
	template, exists := f.templates[name]
	if !exists {
		return nil, store.ErrReferenceTemplateNotFound
	}
	return template, nil
}

type fakeRuleSetStore struct {
	ruleSets map[string]*domain.RuleSet
}

func (f *fakeRuleSetStore) FindByName(ctx context.Context, name string) (*domain.RuleSet, error) {
	if f.ruleSets == nil {
		return nil, store.ErrRuleSetNotFound
	}
	ruleSet, exists := f.ruleSets[name]
	if !exists {
		return nil, store.ErrRuleSetNotFound
	}
	return ruleSet, nil
}

// fakePublisher records published bodies and can be made to fail.
type fakePublisher struct {
	mu       sync.Mutex
	bodies   [][]byte
	failWith error
}

func (f *fakePublisher) Publish(ctx context.Context, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakePublisher) published() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.bodies...)
}

type fakeCleanup struct {
	schedules int64
	statuses  int64
	failWith  error

	deletedTitles []string
}

func (f *fakeCleanup) DeleteByTitle(ctx context.Context, title string) (int64, int64, error) {
	if f.failWith != nil {
		return 0, 0, f.failWith
	}
	f.deletedTitles = append(f.deletedTitles, title)
	return f.schedules, f.statuses, nil
}

// rosterOf builds a roster of n employees named "Employee 1".."Employee n".
func rosterOf(n int) []domain.Employee {
	employees := make([]domain.Employee, 0, n)
	for i := 1; i <= n; i++ {
		employees = append(employees, domain.Employee{Name: employeeName(i)})
	}
	return employees
}

func employeeName(i int) string {
	return fmt.Sprintf("Employee %d", i)
}

// vacationsFor builds a vacation mapping covering the given employees.
func vacationsFor(employees []domain.Employee) map[string][]int {
	vacations := make(map[string][]int, len(employees))
	for _, e := range employees {
		vacations[e.Name] = []int{10, 11, 12}
	}
	return vacations
}

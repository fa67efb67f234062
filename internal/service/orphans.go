package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smartask/api/internal/domain"
	"github.com/smartask/api/internal/store"
)

// OrphanMonitorConfig holds configuration for the orphaned-PENDING sweep.
type OrphanMonitorConfig struct {
	// GracePeriod is how old a PENDING record must be before it is
	// reported. Zero defaults to 10 minutes.
	GracePeriod time.Duration

	// CheckInterval is how often the sweep runs. Zero defaults to
	// 5 minutes.
	CheckInterval time.Duration
}

// OrphanMonitor periodically finds PENDING task records older than the
// grace period. Those are the documented write-then-publish
// inconsistency: the status write succeeded but the publish did not, so
// no worker will ever pick the task up. The monitor only surfaces them
// for manual replay; it never republishes on its own.
type OrphanMonitor struct {
	statuses store.TaskStatusStore
	config   OrphanMonitorConfig
	logger   *slog.Logger
	notify   func(orphans []*domain.TaskStatus)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrphanMonitor creates an OrphanMonitor.
func NewOrphanMonitor(statuses store.TaskStatusStore, config OrphanMonitorConfig, log *slog.Logger) *OrphanMonitor {
	if config.GracePeriod <= 0 {
		config.GracePeriod = 10 * time.Minute
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = 5 * time.Minute
	}
	return &OrphanMonitor{
		statuses: statuses,
		config:   config,
		logger:   log.With("component", "orphan_monitor"),
	}
}

// SetNotifier registers a callback invoked with each sweep's findings,
// for operational hooks beyond the warning logs.
func (m *OrphanMonitor) SetNotifier(fn func(orphans []*domain.TaskStatus)) {
	m.notify = fn
}

// Start launches the periodic sweep.
func (m *OrphanMonitor) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.config.CheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Sweep(ctx); err != nil {
					m.logger.Error("orphan sweep failed", "error", err)
				}
			}
		}
	}()
}

// Stop halts the sweep and waits for an in-flight pass to finish.
func (m *OrphanMonitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// Sweep runs a single pass, reporting every PENDING record older than
// the grace period.
func (m *OrphanMonitor) Sweep(ctx context.Context) error {
	orphans, err := m.statuses.ListPendingOlderThan(ctx, m.config.GracePeriod)
	if err != nil {
		return fmt.Errorf("failed to list pending tasks: %w", err)
	}

	if len(orphans) == 0 {
		return nil
	}

	m.logger.Warn("found pending tasks with no observed pickup; the publish may have failed and manual replay is required",
		"count", len(orphans),
		"grace_period", m.config.GracePeriod)

	for _, orphan := range orphans {
		m.logger.Warn("orphaned pending task",
			"task_id", orphan.TaskID,
			"created_at", orphan.CreatedAt,
			"updated_at", orphan.UpdatedAt)
	}

	if m.notify != nil {
		m.notify(orphans)
	}

	return nil
}

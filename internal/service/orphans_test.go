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

func TestSweepReportsStalePendingTasks(t *testing.T) {
	statuses := newFakeTaskStatusStore()
	statuses.setState("stale", domain.TaskStatePending, time.Now().UTC().Add(-time.Hour))
	statuses.setState("fresh", domain.TaskStatePending, time.Now().UTC())
	statuses.setState("done", domain.TaskStateCompleted, time.Now().UTC().Add(-time.Hour))

	monitor := NewOrphanMonitor(statuses, OrphanMonitorConfig{GracePeriod: 10 * time.Minute}, setupTestLogger())

	var reported []*domain.TaskStatus
	monitor.SetNotifier(func(orphans []*domain.TaskStatus) {
		reported = orphans
	})

	require.NoError(t, monitor.Sweep(context.Background()))
	require.Len(t, reported, 1)
	assert.Equal(t, "stale", reported[0].TaskID)
}

func TestSweepNothingToReport(t *testing.T) {
	statuses := newFakeTaskStatusStore()
	statuses.setState("fresh", domain.TaskStatePending, time.Now().UTC())

	monitor := NewOrphanMonitor(statuses, OrphanMonitorConfig{GracePeriod: 10 * time.Minute}, setupTestLogger())

	notified := false
	monitor.SetNotifier(func([]*domain.TaskStatus) { notified = true })

	require.NoError(t, monitor.Sweep(context.Background()))
	assert.False(t, notified, "notifier should not fire on an empty sweep")
}

func TestSweepStoreFailure(t *testing.T) {
	statuses := newFakeTaskStatusStore()
	statuses.failList = errors.New("connection refused")

	monitor := NewOrphanMonitor(statuses, OrphanMonitorConfig{}, setupTestLogger())
	assert.Error(t, monitor.Sweep(context.Background()))
}

func TestMonitorStartStop(t *testing.T) {
	statuses := newFakeTaskStatusStore()

	monitor := NewOrphanMonitor(statuses, OrphanMonitorConfig{CheckInterval: 5 * time.Millisecond}, setupTestLogger())
	monitor.Start()
	time.Sleep(20 * time.Millisecond)
	monitor.Stop()
}

// FILE: internal/service/cleanup_service_test.go
package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-docchat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cleanupFixture struct {
	service   ICleanupService
	documents *store.DocumentStore
	activity  *store.ActivityTracker
	uploadDir string
}

func newCleanupFixture(t *testing.T, idleThreshold time.Duration) *cleanupFixture {
	t.Helper()
	documents := store.NewDocumentStore()
	activity := store.NewActivityTracker()
	uploadDir := t.TempDir()
	svc := NewCleanupService(documents, activity, nil, nopLogger{}, uploadDir, idleThreshold)
	t.Cleanup(svc.Stop)
	return &cleanupFixture{
		service:   svc,
		documents: documents,
		activity:  activity,
		uploadDir: uploadDir,
	}
}

func (f *cleanupFixture) seedSession(t *testing.T, sessionId string, files ...string) {
	t.Helper()
	f.documents.AddDocument(sessionId, &store.Document{ID: sessionId + "-doc", Filename: "a.txt", Chunks: []string{"x"}})
	f.activity.Touch(sessionId)
	for _, name := range files {
		path := filepath.Join(f.uploadDir, name)
		require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	}
}

func TestReclaimIdleSessions(t *testing.T) {
	f := newCleanupFixture(t, 5*time.Millisecond)
	f.seedSession(t, "stale", "stale__doc1.txt", "stale__doc2.md")
	time.Sleep(20 * time.Millisecond)
	f.seedSession(t, "fresh", "fresh__doc1.txt")

	report := f.service.ReclaimIdleSessions(context.Background())

	assert.Equal(t, 1, report.SessionsReclaimed)
	assert.Equal(t, 2, report.FilesRemoved)
	assert.False(t, report.Skipped)
	assert.Zero(t, report.Failures)

	assert.Empty(t, f.documents.ListDocuments("stale"))
	_, seen := f.activity.LastActivity("stale")
	assert.False(t, seen)

	assert.NoFileExists(t, filepath.Join(f.uploadDir, "stale__doc1.txt"))
	assert.NoFileExists(t, filepath.Join(f.uploadDir, "stale__doc2.md"))
	assert.FileExists(t, filepath.Join(f.uploadDir, "fresh__doc1.txt"))
	assert.Len(t, f.documents.ListDocuments("fresh"), 1)
}

func TestReclaimLeavesFreshSessionsAlone(t *testing.T) {
	f := newCleanupFixture(t, time.Hour)
	f.seedSession(t, "active", "active__doc1.txt")

	report := f.service.ReclaimIdleSessions(context.Background())

	assert.Zero(t, report.SessionsReclaimed)
	assert.Len(t, f.documents.ListDocuments("active"), 1)
}

func TestReclaimSweepsOrphanedFiles(t *testing.T) {
	f := newCleanupFixture(t, time.Hour)

	orphan := filepath.Join(f.uploadDir, "ghost__doc1.txt")
	require.NoError(t, os.WriteFile(orphan, []byte("stale"), 0644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(orphan, old, old))

	recent := filepath.Join(f.uploadDir, "ghost__doc2.txt")
	require.NoError(t, os.WriteFile(recent, []byte("new"), 0644))

	report := f.service.ReclaimIdleSessions(context.Background())

	assert.Equal(t, 1, report.OrphanedFilesRemoved)
	assert.NoFileExists(t, orphan)
	assert.FileExists(t, recent, "files younger than the orphan age must survive")
}

func TestClearSessionIgnoresIdleState(t *testing.T) {
	f := newCleanupFixture(t, time.Hour)
	f.seedSession(t, "current", "current__doc1.txt")
	f.seedSession(t, "bystander", "bystander__doc1.txt")

	report := f.service.ClearSession(context.Background(), "current")

	assert.Equal(t, 1, report.SessionsReclaimed)
	assert.Equal(t, 1, report.FilesRemoved)
	assert.Empty(t, f.documents.ListDocuments("current"))
	assert.NoFileExists(t, filepath.Join(f.uploadDir, "current__doc1.txt"))

	assert.Len(t, f.documents.ListDocuments("bystander"), 1)
	assert.FileExists(t, filepath.Join(f.uploadDir, "bystander__doc1.txt"))
}

func TestConcurrentSweepIsSkipped(t *testing.T) {
	f := newCleanupFixture(t, time.Hour)
	inner := f.service.(*cleanupService)

	inner.sweepMu.Lock()
	report := f.service.ReclaimIdleSessions(context.Background())
	inner.sweepMu.Unlock()

	assert.True(t, report.Skipped)
	assert.Zero(t, report.SessionsReclaimed)
}

func TestScheduleReplacesPreviousTimer(t *testing.T) {
	f := newCleanupFixture(t, time.Millisecond)
	f.seedSession(t, "stale", "stale__doc1.txt")
	time.Sleep(10 * time.Millisecond)

	f.service.Schedule(time.Hour)
	f.service.Schedule(10 * time.Millisecond)

	assert.Eventually(t, func() bool {
		return len(f.documents.ListDocuments("stale")) == 0
	}, time.Second, 5*time.Millisecond, "re-armed timer must fire on the new interval")

	interval, running := f.service.SchedulerState()
	assert.Equal(t, 10*time.Millisecond, interval)
	assert.True(t, running)
}

func TestStopDisarmsScheduler(t *testing.T) {
	f := newCleanupFixture(t, time.Millisecond)
	f.service.Schedule(10 * time.Millisecond)
	f.service.Stop()

	f.seedSession(t, "stale", "stale__doc1.txt")
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, f.documents.ListDocuments("stale"), 1, "no sweep may run after Stop")
	_, running := f.service.SchedulerState()
	assert.False(t, running)
}

// FILE: internal/service/cleanup_service.go
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/events"
	"ai-docchat-be/pkg/nats"
	"ai-docchat-be/pkg/store"
)

// orphanFileMaxAge bounds how long an upload may sit on disk without a store
// entry before the sweep deletes it. Covers crashes between upload and index.
const orphanFileMaxAge = time.Hour

type ICleanupService interface {
	// ReclaimIdleSessions sweeps every idle session plus orphaned upload
	// files. Partial failures are counted in the report, never returned.
	ReclaimIdleSessions(ctx context.Context) *dto.CleanupReport
	// ClearSession reclaims one session immediately, idle or not.
	ClearSession(ctx context.Context, sessionId string) *dto.CleanupReport
	// Schedule arms the periodic sweep, replacing any previous schedule.
	Schedule(interval time.Duration)
	Stop()
	SchedulerState() (interval time.Duration, running bool)
}

type cleanupService struct {
	documents      *store.DocumentStore
	activity       *store.ActivityTracker
	eventPublisher *nats.Publisher
	logger         logger.ILogger
	uploadDir      string
	idleThreshold  time.Duration

	sweepMu sync.Mutex // a sweep never overlaps itself

	schedMu   sync.Mutex
	schedStop context.CancelFunc
	interval  time.Duration
}

func NewCleanupService(
	documents *store.DocumentStore,
	activity *store.ActivityTracker,
	eventPublisher *nats.Publisher,
	appLogger logger.ILogger,
	uploadDir string,
	idleThreshold time.Duration,
) ICleanupService {
	return &cleanupService{
		documents:      documents,
		activity:       activity,
		eventPublisher: eventPublisher,
		logger:         appLogger,
		uploadDir:      uploadDir,
		idleThreshold:  idleThreshold,
	}
}

func (cs *cleanupService) ReclaimIdleSessions(ctx context.Context) *dto.CleanupReport {
	report := &dto.CleanupReport{}
	if !cs.sweepMu.TryLock() {
		report.Skipped = true
		return report
	}
	defer cs.sweepMu.Unlock()

	now := time.Now()
	for _, sessionId := range cs.activity.IdleSessions(now, cs.idleThreshold) {
		cs.reclaim(ctx, sessionId, "idle", report)
	}
	cs.sweepOrphans(now, report)
	return report
}

func (cs *cleanupService) ClearSession(ctx context.Context, sessionId string) *dto.CleanupReport {
	report := &dto.CleanupReport{}
	cs.reclaim(ctx, sessionId, "explicit", report)
	return report
}

func (cs *cleanupService) Schedule(interval time.Duration) {
	cs.schedMu.Lock()
	defer cs.schedMu.Unlock()

	if cs.schedStop != nil {
		cs.schedStop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cs.schedStop = cancel
	cs.interval = interval

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cs.ReclaimIdleSessions(ctx)
			}
		}
	}()

	cs.logger.Info("cleanup", "periodic sweep armed", map[string]interface{}{
		"interval": interval.String(),
	})
}

func (cs *cleanupService) Stop() {
	cs.schedMu.Lock()
	defer cs.schedMu.Unlock()
	if cs.schedStop != nil {
		cs.schedStop()
		cs.schedStop = nil
	}
}

func (cs *cleanupService) SchedulerState() (time.Duration, bool) {
	cs.schedMu.Lock()
	defer cs.schedMu.Unlock()
	return cs.interval, cs.schedStop != nil
}

func (cs *cleanupService) reclaim(ctx context.Context, sessionId, reason string, report *dto.CleanupReport) {
	filesRemoved := cs.removeSessionFiles(sessionId, report)
	cs.documents.DeleteSession(sessionId)
	cs.activity.Remove(sessionId)
	report.SessionsReclaimed++

	cs.logger.Info("cleanup", "session reclaimed", map[string]interface{}{
		"session_id":    sessionId,
		"reason":        reason,
		"files_removed": filesRemoved,
	})

	if cs.eventPublisher != nil {
		evt := events.NewSessionReclaimed(sessionId, reason, filesRemoved)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("cleanup", "failed to publish SESSION_RECLAIMED event", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}
}

func (cs *cleanupService) removeSessionFiles(sessionId string, report *dto.CleanupReport) int {
	entries, err := os.ReadDir(cs.uploadDir)
	if err != nil {
		if !os.IsNotExist(err) {
			cs.logger.Warn("cleanup", "cannot list upload dir", map[string]interface{}{"error": err.Error()})
			report.Failures++
		}
		return 0
	}

	prefix := sessionId + "__"
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(cs.uploadDir, entry.Name())); err != nil {
			cs.logger.Warn("cleanup", "cannot remove session file", map[string]interface{}{
				"file":  entry.Name(),
				"error": err.Error(),
			})
			report.Failures++
			continue
		}
		removed++
		report.FilesRemoved++
	}
	return removed
}

// sweepOrphans deletes uploads old enough that their session must be gone,
// whatever session name the file carries. Runs on every sweep.
func (cs *cleanupService) sweepOrphans(now time.Time, report *dto.CleanupReport) {
	entries, err := os.ReadDir(cs.uploadDir)
	if err != nil {
		if !os.IsNotExist(err) {
			cs.logger.Warn("cleanup", "cannot list upload dir", map[string]interface{}{"error": err.Error()})
			report.Failures++
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			report.Failures++
			continue
		}
		if now.Sub(info.ModTime()) <= orphanFileMaxAge {
			continue
		}
		if err := os.Remove(filepath.Join(cs.uploadDir, entry.Name())); err != nil {
			cs.logger.Warn("cleanup", "cannot remove orphaned file", map[string]interface{}{
				"file":  entry.Name(),
				"error": err.Error(),
			})
			report.Failures++
			continue
		}
		report.OrphanedFilesRemoved++
	}
}

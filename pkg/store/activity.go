package store

import (
	"sync"
	"time"
)

// ActivityTracker records the last time each session did anything (upload,
// chat turn, document access). The cleanup sweep reads it to find idle
// sessions. Safe for concurrent use.
type ActivityTracker struct {
	mu       sync.RWMutex
	lastSeen map[string]time.Time
}

func NewActivityTracker() *ActivityTracker {
	return &ActivityTracker{
		lastSeen: make(map[string]time.Time),
	}
}

// Touch marks the session as active now. Empty session ids are ignored so
// callers do not have to guard the cookie-less case.
func (t *ActivityTracker) Touch(sessionID string) {
	if sessionID == "" {
		return
	}
	t.mu.Lock()
	t.lastSeen[sessionID] = time.Now()
	t.mu.Unlock()
}

func (t *ActivityTracker) LastActivity(sessionID string) (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ts, ok := t.lastSeen[sessionID]
	return ts, ok
}

// IdleSessions returns every session whose last activity is strictly older
// than threshold relative to now. The caller supplies now so sweeps compare
// all sessions against one instant.
func (t *ActivityTracker) IdleSessions(now time.Time, threshold time.Duration) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var idle []string
	for sessionID, last := range t.lastSeen {
		if now.Sub(last) > threshold {
			idle = append(idle, sessionID)
		}
	}
	return idle
}

func (t *ActivityTracker) Remove(sessionID string) {
	t.mu.Lock()
	delete(t.lastSeen, sessionID)
	t.mu.Unlock()
}

// Len returns the number of sessions currently tracked.
func (t *ActivityTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.lastSeen)
}

package main

import (
	"context"
	"time"
)

// cleanupIdleSessions removes sessions idle for longer than maxAge. Sessions
// with a connected websocket are kept. It returns how many were removed.
func (app *App) cleanupIdleSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	app.SessionMutex.RLock()
	var idle []string
	for id, sess := range app.Sessions {
		sess.mu.Lock()
		expired := sess.lastAccess.Before(cutoff) && len(sess.watchers) == 0
		sess.mu.Unlock()
		if expired {
			idle = append(idle, id)
		}
	}
	app.SessionMutex.RUnlock()

	removed := 0
	for _, id := range idle {
		if app.removeSession(id) {
			removed++
		}
	}
	if removed > 0 {
		logInfo("Session cleanup completed: removed %d idle session%s, %d remaining", removed, plural(removed), app.sessionCount())
	}
	return removed
}

// runJanitor evicts idle sessions every CleanupInterval until ctx is done.
func (app *App) runJanitor(ctx context.Context) {
	interval := app.CleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.cleanupIdleSessions(app.SessionTimeout)
		}
	}
}

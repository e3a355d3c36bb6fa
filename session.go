package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/game"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < minSessionIDLen {
		sessionID = app.setSessionCookie(c)
		requestLogger(c.Request.Context()).Info().Str("session", sessionID).Msg("created new session")
	}
	return sessionID
}

// setSessionCookie issues a fresh session ID cookie and returns the ID.
func (app *App) setSessionCookie(c *gin.Context) string {
	sessionID := uuid.NewString()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
	return sessionID
}

// clearSessionCookie expires the session cookie.
func (app *App) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", app.IsProduction, true)
}

// lookupSession returns an existing session, touching its access time.
func (app *App) lookupSession(sessionID string) (*Session, bool) {
	app.SessionMutex.RLock()
	sess, exists := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if !exists {
		return nil, false
	}
	sess.touch()
	return sess, true
}

// getSession retrieves the session, registering it with a word-mode game
// if it is seen for the first time.
func (app *App) getSession(ctx context.Context, sessionID string) *Session {
	sess, created := app.ensureSession(sessionID, false)
	if created {
		requestLogger(ctx).Info().Str("session", sessionID).Msg("started default game for new session")
	}
	return sess
}

// ensureSession returns the session for sessionID. A missing session is
// registered with a running game in the given mode, so no caller ever sees
// a session without a game. created reports whether this call registered it.
func (app *App) ensureSession(sessionID string, phraseMode bool) (sess *Session, created bool) {
	if sess, ok := app.lookupSession(sessionID); ok {
		return sess, false
	}

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if sess, ok := app.Sessions[sessionID]; ok {
		return sess, false
	}
	sess = &Session{
		ID:         sessionID,
		watchers:   make(map[chan types.Snapshot]struct{}),
		lastAccess: time.Now(),
	}
	sess.mu.Lock()
	sess.game = game.New(app.Bank, phraseMode)
	app.restartRound(sess)
	sess.mu.Unlock()

	app.Sessions[sessionID] = sess
	return sess, true
}

// removeSession drops a session and stops its countdown.
func (app *App) removeSession(sessionID string) bool {
	app.SessionMutex.Lock()
	sess, exists := app.Sessions[sessionID]
	delete(app.Sessions, sessionID)
	app.SessionMutex.Unlock()
	if exists {
		sess.close()
	}
	return exists
}

// sessionCount reports how many sessions are held in memory.
func (app *App) sessionCount() int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.Sessions)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
}

// subscribe registers a channel that receives a snapshot after every state
// change. The returned func unregisters it.
func (s *Session) subscribe() (<-chan types.Snapshot, func()) {
	ch := make(chan types.Snapshot, 1)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()
	return ch, func() {
		s.mu.Lock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
}

// publish hands snap to every watcher, replacing any snapshot a slow watcher
// has not read yet. Callers hold s.mu.
func (s *Session) publish(snap types.Snapshot) {
	for ch := range s.watchers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// close stops the countdown and disconnects watchers.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRound()
	for ch := range s.watchers {
		delete(s.watchers, ch)
		close(ch)
	}
}

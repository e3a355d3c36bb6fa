package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/game"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
)

// homeHandler lists the API for clients probing the root path.
func (app *App) homeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "escritura-rapida",
		"endpoints": []string{
			"GET " + RouteGameState,
			"POST " + RouteNewGame,
			"POST " + RouteSubmit,
			"GET " + RouteSummary,
			"GET " + RouteWebSocket,
			"GET " + RouteHealthz,
		},
	})
}

// newGameHandler starts a new game for the session, optionally rotating the session ID.
func (app *App) newGameHandler(c *gin.Context) {
	ctx := c.Request.Context()
	phraseMode, ok := parseMode(c.DefaultPostForm("mode", c.Query("mode")))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorInvalidMode})
		return
	}

	sessionID := app.getOrCreateSession(c)
	if c.Query("reset") == "1" {
		app.removeSession(sessionID)
		app.clearSessionCookie(c)
		sessionID = app.setSessionCookie(c)
		requestLogger(ctx).Info().Str("session", sessionID).Msg("rotated session ID")
	}

	sess, created := app.ensureSession(sessionID, phraseMode)
	var snap types.Snapshot
	if created {
		snap = sess.snapshot()
		requestLogger(ctx).Info().
			Str("session", sessionID).
			Bool("phrases", phraseMode).
			Str("prompt", snap.Prompt).
			Msg("new game")
	} else {
		snap = app.newGame(ctx, sess, phraseMode)
	}
	c.JSON(http.StatusOK, gin.H{"game": snap})
}

// submitHandler plays the submitted input against the current prompt.
func (app *App) submitHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	sess := app.getSession(ctx, sessionID)

	out, snap, err := app.play(ctx, sess, c.PostForm("input"))
	if errors.Is(err, game.ErrGameOver) {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorGameOver, "game": snap})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matched":      out.Matched,
		"levelChanged": out.LevelChanged,
		"gameOver":     out.GameOver,
		"game":         snap,
	})
}

// gameStateHandler returns the current game state.
func (app *App) gameStateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	sess := app.getSession(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, gin.H{"game": sess.snapshot()})
}

// summaryHandler returns the final score and levels completed.
func (app *App) summaryHandler(c *gin.Context) {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoSession})
		return
	}
	sess, ok := app.lookupSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoSession})
		return
	}
	sum, over := sess.summary()
	c.JSON(http.StatusOK, gin.H{"summary": sum, "gameOver": over})
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"bank":            app.Bank.Size(),
		"active_sessions": app.sessionCount(),
		"uptime":          formatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

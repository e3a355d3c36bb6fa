package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/game"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
)

const wsWriteWait = 10 * time.Second

// newUpgrader allows any origin outside production; in production the
// default same-origin check applies.
func (app *App) newUpgrader() websocket.Upgrader {
	up := websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	if !app.IsProduction {
		up.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return up
}

// webSocketHandler streams a snapshot to the client after every change to
// the session (each countdown tick and each submission). Clients may also
// send {"action":"submit","input":...} or {"action":"new-game","mode":...}.
func (app *App) webSocketHandler(c *gin.Context) {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < minSessionIDLen {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrorNoSession})
		return
	}
	sess, ok := app.lookupSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrorNoSession})
		return
	}

	upgrader := app.newUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		requestLogger(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	updates, unsubscribe := sess.subscribe()
	defer unsubscribe()

	replies := make(chan wsOutbound, 4)
	go app.readWebSocket(ctx, cancel, conn, sess, replies)

	logger := requestLogger(ctx).With().Str("session", sessionID).Logger()
	logger.Info().Msg("websocket connected")
	defer logger.Info().Msg("websocket disconnected")

	initial := sess.snapshot()
	if err := writeWS(conn, wsOutbound{Type: wsTypeState, Game: &initial}); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case snap, open := <-updates:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := writeWS(conn, wsOutbound{Type: wsTypeState, Game: &snap}); err != nil {
				logger.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case reply := <-replies:
			if err := writeWS(conn, reply); err != nil {
				logger.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}

// readWebSocket handles client messages until the connection closes. Replies
// go through replies so only the handler goroutine writes to conn.
func (app *App) readWebSocket(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sess *Session, replies chan<- wsOutbound) {
	defer cancel()
	for {
		var msg wsInbound
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		sess.touch()

		var reply wsOutbound
		switch msg.Action {
		case wsActionSubmit:
			out, snap, err := app.play(ctx, sess, msg.Input)
			if errors.Is(err, game.ErrGameOver) {
				reply = wsOutbound{Type: wsTypeError, Error: ErrorGameOver, Game: &snap}
			} else {
				reply = wsOutbound{Type: wsTypeResult, Outcome: &out, Game: &snap}
			}
		case wsActionNewGame:
			phraseMode, ok := parseMode(msg.Mode)
			if !ok {
				reply = wsOutbound{Type: wsTypeError, Error: ErrorInvalidMode}
				break
			}
			snap := app.newGame(ctx, sess, phraseMode)
			reply = wsOutbound{Type: wsTypeResult, Outcome: &types.Outcome{}, Game: &snap}
		default:
			reply = wsOutbound{Type: wsTypeError, Error: ErrorUnknownAction}
		}

		select {
		case replies <- reply:
		case <-ctx.Done():
			return
		}
	}
}

func writeWS(conn *websocket.Conn, msg wsOutbound) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

package main

// Game mode form values
const (
	ModeWords   = "words"
	ModePhrases = "phrases"
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
	minSessionIDLen   = 10
)

// Route constants
const (
	RouteHome      = "/"
	RouteNewGame   = "/new-game"
	RouteSubmit    = "/submit"
	RouteGameState = "/game-state"
	RouteSummary   = "/summary"
	RouteWebSocket = "/ws"
	RouteHealthz   = "/healthz"
)

// Error message constants
const (
	ErrorGameOver        = "Game is over."
	ErrorInvalidMode     = "Mode must be words or phrases."
	ErrorNoSession       = "No active session."
	ErrorUnknownAction   = "Unknown action."
	ErrorTooManyRequests = "Too many requests. Please slow down."
)

// Websocket message types
const (
	wsTypeState  = "state"
	wsTypeResult = "result"
	wsTypeError  = "error"

	wsActionSubmit  = "submit"
	wsActionNewGame = "new-game"
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

type contextKey string

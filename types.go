package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/clock"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/game"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/wordbank"
)

// App holds server-wide configuration and the in-memory session table.
type App struct {
	Bank            *wordbank.Bank
	Clock           clock.Clock
	Sessions        map[string]*Session
	SessionMutex    sync.RWMutex
	LimiterMap      map[string]*rate.Limiter
	LimiterMutex    sync.Mutex
	IsProduction    bool
	CookieMaxAge    time.Duration
	SessionTimeout  time.Duration
	CleanupInterval time.Duration
	TickInterval    time.Duration
	RateLimitRPS    int
	RateLimitBurst  int
	StartTime       time.Time
}

// Session is one player's game plus the countdown driving it. All access to
// the game goes through mu, so timer ticks and submissions never overlap.
type Session struct {
	ID string

	mu         sync.Mutex
	game       *game.State
	round      uint64 // bumped on every countdown restart; stale ticks compare against it
	countdown  *clock.Countdown
	watchers   map[chan types.Snapshot]struct{}
	lastAccess time.Time
}

// wsInbound is a message sent by a websocket client.
type wsInbound struct {
	Action string `json:"action"`
	Input  string `json:"input,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// wsOutbound is a message pushed to a websocket client.
type wsOutbound struct {
	Type    string          `json:"type"`
	Game    *types.Snapshot `json:"game,omitempty"`
	Outcome *types.Outcome  `json:"outcome,omitempty"`
	Error   string          `json:"error,omitempty"`
}

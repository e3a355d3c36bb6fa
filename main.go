package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/clock"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/wordbank"
)

func main() {
	_ = godotenv.Load()

	isProduction := isProductionEnv()
	setupLogging(os.Getenv("LOG_LEVEL"), isProduction)
	logInfo("Starting Escritura Rápida in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	bank, err := loadBank(os.Getenv("WORDBANK_FILE"))
	if err != nil {
		logFatal("Failed to load word bank: %v", err)
	}
	size := bank.Size()
	logInfo("Loaded word bank: %d words, %d phrases", size[wordbank.Words.String()], size[wordbank.Phrases.String()])

	app := newAppFromEnv(bank, isProduction)
	if isProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := app.setupRouter()

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go app.runJanitor(janitorCtx)

	startServer(router)
	stopJanitor()
	app.shutdown()
}

// loadBank reads the bank from path, or the embedded default when path is empty.
func loadBank(path string) (*wordbank.Bank, error) {
	if path == "" {
		return wordbank.Default()
	}
	logInfo("Loading word bank from %s", path)
	return wordbank.LoadFile(path)
}

// newApp builds an App with default settings.
func newApp(bank *wordbank.Bank, clk clock.Clock) *App {
	return &App{
		Bank:            bank,
		Clock:           clk,
		Sessions:        make(map[string]*Session),
		LimiterMap:      make(map[string]*rate.Limiter),
		CookieMaxAge:    2 * time.Hour,
		SessionTimeout:  2 * time.Hour,
		CleanupInterval: 10 * time.Minute,
		TickInterval:    time.Second,
		RateLimitRPS:    5,
		RateLimitBurst:  10,
		StartTime:       time.Now(),
	}
}

// newAppFromEnv builds an App configured from environment variables.
func newAppFromEnv(bank *wordbank.Bank, isProduction bool) *App {
	app := newApp(bank, clock.Real)
	app.IsProduction = isProduction
	app.CookieMaxAge = getEnvDuration("COOKIE_MAX_AGE", app.CookieMaxAge)
	app.SessionTimeout = getEnvDuration("SESSION_TIMEOUT", app.SessionTimeout)
	app.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", app.CleanupInterval)
	app.TickInterval = getEnvDuration("TICK_INTERVAL", app.TickInterval)
	app.RateLimitRPS = getEnvInt("RATE_LIMIT_RPS", app.RateLimitRPS)
	app.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", app.RateLimitBurst)
	return app
}

// setupRouter installs middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), accessLogMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedPaths([]string{RouteWebSocket})))
	router.Use(noStoreMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteGameState, app.gameStateHandler)
	router.GET(RouteSummary, app.summaryHandler)
	router.POST(RouteNewGame, app.rateLimitMiddleware(), app.newGameHandler)
	router.POST(RouteSubmit, app.rateLimitMiddleware(), app.submitHandler)
	router.GET(RouteWebSocket, app.webSocketHandler)
	router.GET(RouteHealthz, app.healthzHandler)
	return router
}

// noStoreMiddleware marks every response uncacheable; all responses carry
// live game state.
func noStoreMiddleware() gin.HandlerFunc {
	return cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})
}

func startServer(router *gin.Engine) {
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}

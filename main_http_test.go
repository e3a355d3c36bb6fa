package main

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/game"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
)

type apiResponse struct {
	Game         types.Snapshot `json:"game"`
	Matched      bool           `json:"matched"`
	LevelChanged bool           `json:"levelChanged"`
	GameOver     bool           `json:"gameOver"`
	Summary      types.Summary  `json:"summary"`
	Error        string         `json:"error"`
}

// doRequest sends a request through the router, posting form as
// url-encoded data when it is non-nil.
func doRequest(router http.Handler, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge >= 0 && c.Value != "" {
			found = c
		}
	}
	return found
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

// startGame creates a session through the API and returns its cookie.
func startGame(t *testing.T, router http.Handler, mode string) *http.Cookie {
	t.Helper()
	w := doRequest(router, http.MethodPost, RouteNewGame, url.Values{"mode": {mode}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game returned %d: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookie(w)
	if cookie == nil {
		t.Fatal("POST /new-game did not set a session cookie")
	}
	return cookie
}

func TestHomeHandler(t *testing.T) {
	app, _ := testApp(t)
	w := doRequest(app.setupRouter(), http.MethodGet, RouteHome, nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET / returned status %d, want 200", w.Code)
	}
}

func TestGameStateHandler(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()
	w := doRequest(router, http.MethodGet, RouteGameState, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /game-state returned status %d, want 200", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Game.Level != 1 || resp.Game.Chances != game.InitialChances || resp.Game.Prompt != TestPromptEasyWord {
		t.Errorf("GET /game-state game = %+v", resp.Game)
	}
	if sessionCookie(w) == nil {
		t.Error("GET /game-state should issue a session cookie")
	}
}

func TestGameStateHandler_ConcurrentFreshSession(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()
	cookie := &http.Cookie{Name: SessionCookieName, Value: "fresh-session-dddddddd"}

	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = doRequest(router, http.MethodGet, RouteGameState, nil, cookie)
		}(i)
	}
	wg.Wait()

	for i, w := range results {
		resp := decodeResponse(t, w)
		if resp.Game.Level != 1 || resp.Game.Prompt == "" {
			t.Errorf("request %d returned game %+v, want a started game", i, resp.Game)
		}
	}
	if app.sessionCount() != 1 {
		t.Errorf("sessionCount = %d, want 1", app.sessionCount())
	}
}

func TestNewGameHandler_Phrases(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()
	w := doRequest(router, http.MethodPost, RouteNewGame, url.Values{"mode": {ModePhrases}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game returned status %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Game.PhraseMode || resp.Game.Prompt != TestPromptEasyPhrase {
		t.Errorf("phrase game = %+v", resp.Game)
	}
}

func TestNewGameHandler_InvalidMode(t *testing.T) {
	app, _ := testApp(t)
	w := doRequest(app.setupRouter(), http.MethodPost, RouteNewGame, url.Values{"mode": {"poems"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST /new-game with bad mode returned %d, want 400", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Error != ErrorInvalidMode {
		t.Errorf("error = %q, want %q", resp.Error, ErrorInvalidMode)
	}
}

func TestNewGameHandler_Reset(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()
	cookie := startGame(t, router, ModeWords)

	w := doRequest(router, http.MethodPost, RouteNewGame+"?reset=1", url.Values{"mode": {ModeWords}}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /new-game?reset=1 returned %d", w.Code)
	}
	rotated := sessionCookie(w)
	if rotated == nil || rotated.Value == cookie.Value {
		t.Fatalf("expected a new session cookie, got %v", rotated)
	}
	if _, ok := app.lookupSession(cookie.Value); ok {
		t.Error("old session should be removed on reset")
	}
	if _, ok := app.lookupSession(rotated.Value); !ok {
		t.Error("new session should exist after reset")
	}
}

func TestNewGameReplacesFinishedGame(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()
	cookie := startGame(t, router, ModeWords)
	for i := 0; i < game.InitialChances; i++ {
		doRequest(router, http.MethodPost, RouteSubmit, url.Values{"input": {TestWrongAnswer}}, cookie)
	}

	w := doRequest(router, http.MethodPost, RouteNewGame, url.Values{"mode": {ModeWords}}, cookie)
	resp := decodeResponse(t, w)
	if resp.Game.GameOver || resp.Game.Chances != game.InitialChances {
		t.Errorf("new game after game over = %+v", resp.Game)
	}
}

func TestSubmitHandler_Correct(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()
	cookie := startGame(t, router, ModeWords)

	w := doRequest(router, http.MethodPost, RouteSubmit, url.Values{"input": {"  CASA "}}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /submit returned %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.Matched || !resp.LevelChanged {
		t.Errorf("submit outcome = %+v", resp)
	}
	if resp.Game.Level != 2 || resp.Game.Score != 10 || resp.Game.TimeRemaining != 20 {
		t.Errorf("game after correct answer = %+v", resp.Game)
	}
}

func TestSubmitHandler_WrongUntilGameOver(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()
	cookie := startGame(t, router, ModeWords)

	var resp apiResponse
	for i := 0; i < game.InitialChances; i++ {
		w := doRequest(router, http.MethodPost, RouteSubmit, url.Values{"input": {TestWrongAnswer}}, cookie)
		if w.Code != http.StatusOK {
			t.Fatalf("POST /submit #%d returned %d", i+1, w.Code)
		}
		resp = decodeResponse(t, w)
		if resp.Matched {
			t.Fatalf("wrong answer matched on attempt %d", i+1)
		}
	}
	if !resp.GameOver || resp.Game.Chances != 0 {
		t.Errorf("after 4 mistakes: %+v", resp)
	}

	w := doRequest(router, http.MethodPost, RouteSubmit, url.Values{"input": {TestPromptEasyWord}}, cookie)
	if w.Code != http.StatusConflict {
		t.Errorf("POST /submit after game over returned %d, want 409", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Error != ErrorGameOver {
		t.Errorf("error = %q, want %q", resp.Error, ErrorGameOver)
	}
}

func TestSubmitHandler_InvalidMethod(t *testing.T) {
	app, _ := testApp(t)
	w := doRequest(app.setupRouter(), http.MethodGet, RouteSubmit, nil, nil)
	if w.Code != http.StatusMethodNotAllowed && w.Code != http.StatusNotFound {
		t.Errorf("GET /submit returned status %d, want 405 or 404", w.Code)
	}
}

func TestSummaryHandler(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()

	w := doRequest(router, http.MethodGet, RouteSummary, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /summary without session returned %d, want 404", w.Code)
	}

	cookie := startGame(t, router, ModeWords)
	doRequest(router, http.MethodPost, RouteSubmit, url.Values{"input": {TestPromptEasyWord}}, cookie)
	for i := 0; i < game.InitialChances; i++ {
		doRequest(router, http.MethodPost, RouteSubmit, url.Values{"input": {TestWrongAnswer}}, cookie)
	}

	w = doRequest(router, http.MethodGet, RouteSummary, nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /summary returned %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if !resp.GameOver || resp.Summary.FinalScore != 10 || resp.Summary.LevelsCompleted != 1 {
		t.Errorf("summary response = %+v", resp)
	}
	if resp.Summary.EndReason != types.EndNoChances {
		t.Errorf("end reason = %q, want %q", resp.Summary.EndReason, types.EndNoChances)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	app, _ := testApp(t)
	router := gin.New()
	router.Use(app.rateLimitMiddleware())
	router.GET("/limited", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < app.RateLimitBurst; i++ {
		w := doRequest(router, http.MethodGet, "/limited", nil, nil)
		if w.Code != http.StatusOK {
			t.Errorf("Request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	w := doRequest(router, http.MethodGet, "/limited", nil, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("request over burst: expected 429 Too Many Requests, got %d", w.Code)
	}
}

func TestHealthzHandlerFields(t *testing.T) {
	app, _ := testApp(t)
	w := doRequest(app.setupRouter(), http.MethodGet, RouteHealthz, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /healthz returned status %d, want 200", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal /healthz response: %v", err)
	}
	for _, field := range []string{"status", "env", "bank", "active_sessions", "uptime", "timestamp"} {
		if _, ok := resp[field]; !ok {
			t.Errorf("Expected '%s' field in /healthz response", field)
		}
	}
	if env, _ := resp["env"].(string); env != "development" {
		t.Errorf("env = %v, want development", resp["env"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	app, _ := testApp(t)
	router := app.setupRouter()

	w := doRequest(router, http.MethodGet, RouteHealthz, nil, nil)
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected generated X-Request-Id header")
	}

	req := httptest.NewRequest(http.MethodGet, RouteHealthz, nil)
	req.Header.Set("X-Request-Id", "client-supplied")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "client-supplied" {
		t.Errorf("X-Request-Id = %q, want client-supplied", got)
	}
}

func TestNoStoreHeaders(t *testing.T) {
	app, _ := testApp(t)
	w := doRequest(app.setupRouter(), http.MethodGet, RouteGameState, nil, nil)
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}

func TestGzipCompressesJSON(t *testing.T) {
	app, _ := testApp(t)
	req := httptest.NewRequest(http.MethodGet, RouteHealthz, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip Content-Encoding, got %q", w.Header().Get("Content-Encoding"))
	}
	r, err := gzip.NewReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("decompressed body = %q", body)
	}
}

package main

import (
	"context"

	"github.com/samber/lo"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/clock"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/game"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
)

// parseMode maps a mode form value to the phrase-mode flag.
func parseMode(mode string) (phraseMode bool, ok bool) {
	switch mode {
	case "", ModeWords, "palabras":
		return false, true
	case ModePhrases, "frases":
		return true, true
	default:
		return false, false
	}
}

// newGame replaces the session's game and starts its first round.
func (app *App) newGame(ctx context.Context, sess *Session, phraseMode bool) types.Snapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.game = game.New(app.Bank, phraseMode)
	app.restartRound(sess)
	snap := sess.game.Snapshot()
	sess.publish(snap)

	requestLogger(ctx).Info().
		Str("session", sess.ID).
		Bool("phrases", phraseMode).
		Str("prompt", snap.Prompt).
		Msg("new game")
	return snap
}

// restartRound cancels the running countdown and starts a new one tagged
// with the next round number. Callers hold sess.mu.
func (app *App) restartRound(sess *Session) {
	sess.stopRound()
	round := sess.round
	sess.countdown = clock.Start(app.Clock, app.TickInterval, func() {
		app.tick(sess, round)
	})
}

// stopRound cancels the countdown and invalidates any tick already in
// flight. Callers hold s.mu.
func (s *Session) stopRound() {
	s.countdown.Stop()
	s.countdown = nil
	s.round++
}

// tick applies one countdown tick to the session if round is still current.
// At zero the game is timed out and the countdown stops. It reports whether
// the tick was applied.
func (app *App) tick(sess *Session, round uint64) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.round != round || sess.game == nil || sess.game.IsGameOver() {
		return false
	}
	sess.game.TickTime()
	if sess.game.TimeRemaining() == 0 && sess.game.TimeOut() {
		sess.stopRound()
		sum := sess.game.Summary()
		logInfo("Session %s ran out of time at level %d (score %d)", sess.ID, sess.game.Level(), sum.FinalScore)
	}
	sess.publish(sess.game.Snapshot())
	return true
}

// play submits input to the session's game. A correct answer restarts the
// countdown for the new level; the end of the game stops it.
func (app *App) play(ctx context.Context, sess *Session, input string) (types.Outcome, types.Snapshot, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	logger := requestLogger(ctx).With().Str("session", sess.ID).Logger()

	level := sess.game.Level()
	out, err := sess.game.Play(input)
	if err != nil {
		logger.Warn().Err(err).Msg("submission on finished game")
		return out, sess.game.Snapshot(), err
	}

	switch {
	case out.LevelChanged:
		app.restartRound(sess)
		logger.Info().Int("from", level).Int("to", sess.game.Level()).Msg("level advanced")
	case out.GameOver:
		sess.stopRound()
		logger.Info().Int("score", sess.game.Score()).Int("levels", sess.game.Summary().LevelsCompleted).Msg("out of chances")
	default:
		logger.Info().Int("chances", sess.game.Chances()).Msg("wrong answer")
	}

	snap := sess.game.Snapshot()
	sess.publish(snap)
	return out, snap, nil
}

// snapshot returns the session's current state.
func (s *Session) snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return types.Snapshot{}
	}
	return s.game.Snapshot()
}

// summary returns the session's summary and whether the game has finished.
func (s *Session) summary() (types.Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return types.Summary{}, false
	}
	return s.game.Summary(), s.game.IsGameOver()
}

// currentRound exposes the round number for tests and diagnostics.
func (s *Session) currentRound() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// shutdown stops every session's countdown.
func (app *App) shutdown() {
	app.SessionMutex.RLock()
	sessions := lo.Values(app.Sessions)
	app.SessionMutex.RUnlock()
	for _, sess := range sessions {
		sess.close()
	}
}

// Package game holds the state of one typing session and the transitions
// that move it forward.
//
// A State is a passive record: hosts call its methods from their own event
// loop and poll IsGameOver afterwards. It is not safe for concurrent use.
package game

import (
	"errors"
	"strings"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
)

// Session rules.
const (
	InitialChances = 4
	InitialTime    = 20
	PointsPerLevel = 10
)

// ErrGameOver is returned when input is played on a finished session.
var ErrGameOver = errors.New("game is over")

// PromptSource supplies prompts for a level. *wordbank.Bank satisfies it.
type PromptSource interface {
	PromptForLevel(level int, phraseMode bool) string
}

// State is one session's mutable game state.
type State struct {
	prompts       PromptSource
	level         int
	score         int
	chances       int
	timeRemaining int
	prompt        string
	phraseMode    bool
	endReason     types.EndReason
}

// New starts a session at level 1 with a fresh prompt.
func New(prompts PromptSource, phraseMode bool) *State {
	s := &State{
		prompts:       prompts,
		level:         1,
		score:         0,
		chances:       InitialChances,
		timeRemaining: InitialTime,
		phraseMode:    phraseMode,
	}
	s.prompt = prompts.PromptForLevel(s.level, phraseMode)
	return s
}

// TimeForLevel returns the countdown length, in seconds, for a level.
func TimeForLevel(level int) int {
	switch {
	case level >= 21:
		return 12
	case level >= 16:
		return 14
	case level >= 11:
		return 16
	case level >= 6:
		return 18
	default:
		return InitialTime
	}
}

func (s *State) Level() int         { return s.level }
func (s *State) Score() int         { return s.score }
func (s *State) Chances() int       { return s.chances }
func (s *State) TimeRemaining() int { return s.timeRemaining }
func (s *State) Prompt() string     { return s.prompt }
func (s *State) PhraseMode() bool   { return s.phraseMode }

// EndReason is empty while the session is running.
func (s *State) EndReason() types.EndReason { return s.endReason }

// IsGameOver reports whether the chances are spent.
func (s *State) IsGameOver() bool {
	return s.chances <= 0
}

// AdvanceLevel awards points, moves to the next level, resets the countdown
// for that level and draws a new prompt.
func (s *State) AdvanceLevel() {
	if s.IsGameOver() {
		return
	}
	s.score += PointsPerLevel
	s.level++
	s.timeRemaining = TimeForLevel(s.level)
	s.prompt = s.prompts.PromptForLevel(s.level, s.phraseMode)
}

// LoseChance spends one chance. Chances never drop below zero.
func (s *State) LoseChance() {
	if s.IsGameOver() {
		return
	}
	s.chances--
	if s.chances <= 0 {
		s.chances = 0
		s.endReason = types.EndNoChances
	}
}

// TickTime takes one second off the countdown. It does not end the round;
// callers check TimeRemaining and call TimeOut at zero.
func (s *State) TickTime() {
	if s.IsGameOver() || s.timeRemaining <= 0 {
		return
	}
	s.timeRemaining--
}

// TimeOut ends the session once the countdown has reached zero. It reports
// whether it fired.
func (s *State) TimeOut() bool {
	if s.IsGameOver() || s.timeRemaining > 0 {
		return false
	}
	s.chances = 0
	s.endReason = types.EndTimeUp
	return true
}

// Submit reports whether input matches the prompt, ignoring surrounding
// whitespace and case. It does not change the state.
func (s *State) Submit(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), s.prompt)
}

// Play submits input and applies the matching transition.
func (s *State) Play(input string) (types.Outcome, error) {
	if s.IsGameOver() {
		return types.Outcome{GameOver: true}, ErrGameOver
	}
	if s.Submit(input) {
		s.AdvanceLevel()
		return types.Outcome{Matched: true, LevelChanged: true}, nil
	}
	s.LoseChance()
	return types.Outcome{GameOver: s.IsGameOver()}, nil
}

// Snapshot copies the state for rendering.
func (s *State) Snapshot() types.Snapshot {
	return types.Snapshot{
		Level:         s.level,
		Score:         s.score,
		Chances:       s.chances,
		TimeRemaining: s.timeRemaining,
		Prompt:        s.prompt,
		PhraseMode:    s.phraseMode,
		GameOver:      s.IsGameOver(),
		EndReason:     s.endReason,
	}
}

// Summary reports the final score and the number of levels cleared.
func (s *State) Summary() types.Summary {
	return types.Summary{
		FinalScore:      s.score,
		LevelsCompleted: s.level - 1,
		EndReason:       s.endReason,
	}
}

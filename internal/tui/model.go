// Package tui is the terminal front end: a mode menu, the playing screen
// with its countdown, and the end-of-game summary.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/game"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/types"
)

type screen int

const (
	screenMenu screen = iota
	screenPlaying
	screenOver
)

// lowTimeWarning is the remaining time at which the clock turns red.
const lowTimeWarning = 5

const noticeTryAgain = "Incorrecto, intenta de nuevo"

// inputCharLimit is comfortably above the longest bundled phrase.
const inputCharLimit = 120

// tickMsg is one countdown tick. Ticks carry the round they were scheduled
// for; a tick from an earlier round is dropped.
type tickMsg struct {
	round uint64
}

// Model is the bubbletea model for a single local player.
type Model struct {
	prompts  game.PromptSource
	interval time.Duration
	styles   styles

	screen screen
	game   *game.State
	round  uint64
	input  textinput.Model
	notice string

	width, height int
}

// NewModel returns a model showing the mode menu. interval is the countdown
// period; values <= 0 mean one second.
func NewModel(prompts game.PromptSource, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	ti := textinput.New()
	ti.Placeholder = "Escribe aquí y presiona Enter..."
	ti.CharLimit = inputCharLimit
	ti.Width = 60
	ti.Prompt = "> "
	return Model{
		prompts:  prompts,
		interval: interval,
		styles:   defaultStyles(),
		input:    ti,
		width:    80,
		height:   24,
	}
}

// Playing returns the model with a game already started, skipping the menu.
func (model Model) Playing(phraseMode bool) Model {
	model.startGame(phraseMode)
	return model
}

// Init schedules the first tick when a game is already running.
func (model Model) Init() tea.Cmd {
	if model.screen == screenPlaying {
		return tea.Batch(model.scheduleTick(), textinput.Blink)
	}
	return nil
}

// Update handles keys, window resizes and countdown ticks.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch message := msg.(type) {
	case tea.KeyMsg:
		return model.handleKeyPress(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case tickMsg:
		return model.handleTick(message)
	}

	// Cursor blink and other input messages.
	if model.screen == screenPlaying {
		var cmd tea.Cmd
		model.input, cmd = model.input.Update(msg)
		return model, cmd
	}
	return model, nil
}

func (model Model) handleKeyPress(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return model, tea.Quit
	}

	switch model.screen {
	case screenMenu:
		switch key.String() {
		case "1":
			cmd := model.startGame(false)
			return model, tea.Batch(model.scheduleTick(), cmd)
		case "2":
			cmd := model.startGame(true)
			return model, tea.Batch(model.scheduleTick(), cmd)
		case "q", "esc":
			return model, tea.Quit
		}

	case screenPlaying:
		switch key.Type {
		case tea.KeyEsc:
			model.toMenu()
		case tea.KeyEnter:
			return model.submit()
		default:
			var cmd tea.Cmd
			model.input, cmd = model.input.Update(key)
			return model, cmd
		}

	case screenOver:
		switch key.String() {
		case "enter":
			model.toMenu()
		case "q", "esc":
			return model, tea.Quit
		}
	}
	return model, nil
}

// handleTick applies one second of countdown to the current round.
func (model Model) handleTick(tick tickMsg) (tea.Model, tea.Cmd) {
	if model.screen != screenPlaying || tick.round != model.round {
		return model, nil
	}
	model.game.TickTime()
	if model.game.TimeRemaining() > 0 {
		return model, model.scheduleTick()
	}
	model.game.TimeOut()
	model.finish()
	return model, nil
}

func (model Model) submit() (tea.Model, tea.Cmd) {
	input := model.input.Value()
	model.input.Reset()
	out, err := model.game.Play(input)
	if err != nil {
		model.finish()
		return model, nil
	}

	switch {
	case out.LevelChanged:
		model.notice = ""
		model.round++
		log.Debug().Int("level", model.game.Level()).Msg("level completed")
		return model, model.scheduleTick()
	case out.GameOver:
		model.finish()
	default:
		model.notice = noticeTryAgain
	}
	return model, nil
}

// startGame begins a new game and returns the input's cursor blink command.
func (model *Model) startGame(phraseMode bool) tea.Cmd {
	model.game = game.New(model.prompts, phraseMode)
	model.round++
	model.screen = screenPlaying
	model.input.Reset()
	model.notice = ""
	log.Info().Bool("phrase_mode", phraseMode).Msg("new game")
	return model.input.Focus()
}

func (model *Model) finish() {
	model.round++
	model.screen = screenOver
	model.notice = ""
	model.input.Blur()
	sum := model.game.Summary()
	log.Info().
		Int("score", sum.FinalScore).
		Int("levels", sum.LevelsCompleted).
		Str("reason", string(sum.EndReason)).
		Msg("game over")
}

func (model *Model) toMenu() {
	model.round++
	model.screen = screenMenu
	model.game = nil
	model.input.Reset()
	model.input.Blur()
	model.notice = ""
}

func (model Model) scheduleTick() tea.Cmd {
	round := model.round
	return tea.Tick(model.interval, func(time.Time) tea.Msg {
		return tickMsg{round: round}
	})
}

// View renders the current screen.
func (model Model) View() string {
	var body string
	switch model.screen {
	case screenPlaying:
		body = model.viewPlaying()
	case screenOver:
		body = model.viewOver()
	default:
		body = model.viewMenu()
	}
	width := model.width - 4
	if width < 40 {
		width = 40
	}
	return model.styles.panel.Width(width).Render(body)
}

func (model Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(model.styles.title.Render("Escritura Rápida"))
	b.WriteString("\n")
	b.WriteString("Escribe cada palabra o frase antes de que se acabe el tiempo.\n\n")
	b.WriteString("  1  Palabras\n")
	b.WriteString("  2  Frases\n")
	b.WriteString("\n")
	b.WriteString(model.styles.help.Render("q: salir"))
	return b.String()
}

func (model Model) viewPlaying() string {
	g := model.game
	timeText := fmt.Sprintf("Tiempo %ds", g.TimeRemaining())
	if g.TimeRemaining() <= lowTimeWarning {
		timeText = model.styles.warning.Render(timeText)
	}

	var b strings.Builder
	b.WriteString(model.styles.title.Render("Escritura Rápida"))
	b.WriteString("\n")
	b.WriteString(model.styles.status.Render(fmt.Sprintf("Nivel %d   Puntaje %d   Vidas %s   ",
		g.Level(), g.Score(), chancesGauge(g.Chances()))))
	b.WriteString(timeText)
	b.WriteString("\n\n")
	b.WriteString(model.styles.prompt.Render(g.Prompt()))
	b.WriteString("\n\n")
	b.WriteString(model.styles.input.Render(model.input.View()))
	if model.notice != "" {
		b.WriteString("\n")
		b.WriteString(model.styles.notice.Render(model.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(model.styles.help.Render("enter: enviar   esc: menú   ctrl+c: salir"))
	return b.String()
}

// chancesGauge draws one filled sun per remaining chance and an eclipsed
// one per chance spent.
func chancesGauge(chances int) string {
	chances = max(0, min(chances, game.InitialChances))
	return strings.Repeat("●", chances) + strings.Repeat("○", game.InitialChances-chances)
}

func (model Model) viewOver() string {
	sum := model.game.Summary()
	reason := "Te quedaste sin vidas."
	if sum.EndReason == types.EndTimeUp {
		reason = "Se acabó el tiempo."
	}

	var b strings.Builder
	b.WriteString(model.styles.title.Render("Juego terminado"))
	b.WriteString("\n")
	b.WriteString(reason)
	b.WriteString("\n\n")
	b.WriteString(model.styles.finalText.Render(fmt.Sprintf("Puntaje final: %d", sum.FinalScore)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Niveles completados: %d", sum.LevelsCompleted)
	b.WriteString("\n\n")
	b.WriteString(model.styles.help.Render("enter: menú   q: salir"))
	return b.String()
}

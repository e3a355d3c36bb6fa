// Command terminal plays Escritura Rápida in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/tui"
	"github.com/Keviin-cell/escritura-rapida-kevin-david-mu-oz-fpoe/internal/wordbank"
)

func main() {
	phrases := flag.Bool("phrases", false, "start a phrase game immediately")
	words := flag.Bool("words", false, "start a word game immediately")
	bankPath := flag.String("bank", "", "path to a word bank JSON file (default: built-in bank)")
	tick := flag.Duration("tick", time.Second, "countdown tick interval")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	closeLog, err := setupLogging(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	var bank *wordbank.Bank
	if *bankPath != "" {
		bank, err = wordbank.LoadFile(*bankPath)
	} else {
		bank, err = wordbank.Default()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading word bank: %v\n", err)
		os.Exit(1)
	}

	model := initialModel(bank, *tick, *words, *phrases)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("terminal UI exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initialModel opens on the menu unless a mode flag asks to start playing
// straight away; -phrases wins over -words.
func initialModel(bank *wordbank.Bank, tick time.Duration, words, phrases bool) tui.Model {
	model := tui.NewModel(bank, tick)
	switch {
	case phrases:
		model = model.Playing(true)
	case words:
		model = model.Playing(false)
	}
	return model
}

// setupLogging sends logs to path, or discards them when path is empty; the
// UI owns stdout and stderr while it runs.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.Logger = zerolog.Nop()
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }, nil
}

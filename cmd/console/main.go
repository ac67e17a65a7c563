package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ecotrack/console/internal/api"
	"github.com/ecotrack/console/internal/auth"
	"github.com/ecotrack/console/internal/config"
	"github.com/ecotrack/console/internal/logger"
	"github.com/ecotrack/console/internal/tui"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// The TUI owns stdout, so logs go to a file when one is configured
	// and are dropped otherwise.
	logOutput := cfg.LogFile
	if logOutput == "" {
		logOutput = os.DevNull
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: logOutput,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.Get()
	log.Info().Str("api", cfg.APIBaseURL).Msg("Starting console")

	// A preconfigured token skips the login screen.
	session := auth.NewSession(cfg.APIToken)
	client := api.New(cfg, session)

	program := tea.NewProgram(tui.NewModel(cfg, client), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("Console exited with error")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/ritankar/legalaid/internal/api"
	"github.com/ritankar/legalaid/internal/config"
	"github.com/ritankar/legalaid/internal/logging"
	"github.com/ritankar/legalaid/internal/model/user"
	"github.com/ritankar/legalaid/internal/store"
	"github.com/ritankar/legalaid/internal/tui"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := store.OpenSQLite(filepath.Join(cfg.DataDir, "legalaid.db"))
	if err != nil {
		log.Fatalf("failed to open local database: %v", err)
	}
	defer db.Close()

	st, err := store.New(db)
	if err != nil {
		log.Fatalf("failed to initialize local store: %v", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.AuthURL, cfg.API.Timeout, logger)

	// A stored identity skips the login screen, like the web client's
	// localStorage behavior.
	var profile *user.Profile
	if stored, err := st.LoadProfile(context.Background()); err == nil {
		profile = &stored
	} else if !errors.Is(err, store.ErrNoProfile) {
		logger.Warn("stored profile unreadable, starting at login")
	}

	program := tea.NewProgram(tui.New(client, st, logger, profile), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("interface error: %v", err)
	}
}

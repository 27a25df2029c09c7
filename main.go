package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"strava-yearly/internal/auth"
	"strava-yearly/internal/config"
	"strava-yearly/internal/service"
	"strava-yearly/internal/store"
	"strava-yearly/internal/strava"
	"strava-yearly/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open the credential store
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	// The store keeps the current client identity; re-entered config
	// credentials replace it wholesale
	creds := &store.Credentials{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
	}
	if err := db.SaveCredentials(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	mgr := auth.NewManager(db, auth.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	// Connect if no tokens are stored, or the stored pair is dead
	if _, err := mgr.GetValidAccessToken(ctx); err != nil {
		if !errors.Is(err, auth.ErrNotAuthenticated) {
			return fmt.Errorf("checking auth: %w", err)
		}
		if err := connect(ctx, db, mgr); err != nil {
			if errors.Is(err, auth.ErrAccessDenied) {
				fmt.Println("You declined authorization. Nothing was stored.")
				return nil
			}
			return fmt.Errorf("connecting: %w", err)
		}
	}

	// Create the session and launch the TUI
	session := service.NewSession(mgr, strava.NewClient(), db)
	app := tui.NewApp(session, cfg.Display)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// connect runs the authorization-code flow and persists the resulting
// token pair
func connect(ctx context.Context, db *store.Store, mgr *auth.Manager) error {
	tokens, err := mgr.Authenticate(ctx)
	if err != nil {
		return err
	}

	if err := db.SaveTokens(tokens); err != nil {
		return fmt.Errorf("saving tokens: %w", err)
	}

	fmt.Println()
	fmt.Println("Successfully connected with Strava!")
	return nil
}

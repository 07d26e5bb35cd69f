package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application-level configuration.
type Config struct {
	StoreURL  string // Realtime store websocket endpoint
	TokenPath string // Path to file containing the session token
	StatePath string // Path to the persisted UI state
	LogPath   string // Structured log destination; empty disables logging
	Demo      bool   // Run against the seeded in-memory store
}

// Load reads configuration from environment variables.
//
//	OCEANTRIBE_STORE_URL — realtime store websocket URL
//	OCEANTRIBE_TOKEN     — path to token file (default: ~/.config/oceantribe/token)
//	OCEANTRIBE_STATE     — path to UI state file (default: ~/.config/oceantribe/ui_state.json)
//	OCEANTRIBE_LOG       — log file path (default: disabled)
//	OCEANTRIBE_DEMO      — "1" runs against the in-memory demo store
func Load() (Config, error) {
	storeURL := os.Getenv("OCEANTRIBE_STORE_URL")
	if storeURL == "" {
		storeURL = "wss://rtdb.oceantribe.app/ws"
	}
	parsed, err := url.Parse(storeURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("invalid OCEANTRIBE_STORE_URL: must be an absolute URL")
	}
	if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
		return Config{}, fmt.Errorf("invalid OCEANTRIBE_STORE_URL: scheme must be ws or wss")
	}
	storeURL = strings.TrimRight(parsed.String(), "/")

	configDir, err := defaultConfigDir()
	if err != nil {
		return Config{}, err
	}
	tokenPath := os.Getenv("OCEANTRIBE_TOKEN")
	if tokenPath == "" {
		tokenPath = filepath.Join(configDir, "token")
	}
	statePath := os.Getenv("OCEANTRIBE_STATE")
	if statePath == "" {
		statePath = filepath.Join(configDir, "ui_state.json")
	}

	return Config{
		StoreURL:  storeURL,
		TokenPath: tokenPath,
		StatePath: statePath,
		LogPath:   os.Getenv("OCEANTRIBE_LOG"),
		Demo:      os.Getenv("OCEANTRIBE_DEMO") == "1",
	}, nil
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "oceantribe"), nil
}

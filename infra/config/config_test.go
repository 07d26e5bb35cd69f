package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ParsesEnvAndDefaults(t *testing.T) {
	t.Setenv("OCEANTRIBE_STORE_URL", "wss://example.app/ws/")
	t.Setenv("OCEANTRIBE_TOKEN", "/tmp/tok")
	t.Setenv("OCEANTRIBE_DEMO", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.StoreURL != "wss://example.app/ws" {
		t.Fatalf("store url must be normalized: %q", cfg.StoreURL)
	}
	if cfg.TokenPath != "/tmp/tok" || !cfg.Demo {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestLoad_RejectsNonWebsocketScheme(t *testing.T) {
	t.Setenv("OCEANTRIBE_STORE_URL", "https://example.app")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-websocket scheme")
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{Tab: "events", Query: "shonan"}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	if _, err := LoadUIState(path); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Hara602/hidSentry/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSONConfig(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChatID, "")
	path := writeConfig(t, `{"bot_token": "123:abc", "chat_id": "-1001"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotToken != "123:abc" || cfg.ChatID != "-1001" {
		t.Fatalf("unexpected credentials: %+v", cfg)
	}
	if !cfg.AlertingEnabled() {
		t.Fatal("expected alerting enabled")
	}
	if cfg.Detection.ThresholdSpeed != 12 || cfg.Detection.Window.Std() != time.Second {
		t.Fatalf("expected default detection settings, got %+v", cfg.Detection)
	}
}

func TestLoadYAMLDetectionOverrides(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChatID, "")
	path := writeConfig(t, "detection:\n  threshold_speed: 20\n  window: 500ms\nblock_mode: deauthorize\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detection.ThresholdSpeed != 20 || cfg.Detection.Window.Std() != 500*time.Millisecond {
		t.Fatalf("detection overrides ignored: %+v", cfg.Detection)
	}
	if cfg.BlockMode != "deauthorize" {
		t.Fatalf("BlockMode = %q", cfg.BlockMode)
	}
	if cfg.AlertingEnabled() {
		t.Fatal("alerting must be disabled without credentials")
	}
}

func TestLoadMissingFileFailsOpen(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChatID, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, model.ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadCorruptFileFailsOpen(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChatID, "")
	path := writeConfig(t, `{"bot_token": [`)

	cfg, err := Load(path)
	if !errors.Is(err, model.ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
	if cfg.AlertingEnabled() {
		t.Fatal("corrupt config must not enable alerting")
	}
}

func TestEnvOverridesCredentials(t *testing.T) {
	t.Setenv(envBotToken, "env-token")
	t.Setenv(envChatID, "42")
	path := writeConfig(t, `{"bot_token": "file-token"}`)

	cfg, _ := Load(path)
	if cfg.BotToken != "env-token" || cfg.ChatID != "42" {
		t.Fatalf("env overlay not applied: %+v", cfg)
	}
	if strings.Contains(cfg.String(), "env-token") {
		t.Fatal("String() leaks the bot token")
	}
}

func TestInvalidDetectionFallsBack(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChatID, "")
	path := writeConfig(t, "detection:\n  threshold_speed: -1\n  window: 0s\n")

	cfg, _ := Load(path)
	if cfg.Detection != DefaultConfig().Detection {
		t.Fatalf("expected default detection, got %+v", cfg.Detection)
	}
}

func TestLoadNumericDurationsAsSeconds(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChatID, "")
	path := writeConfig(t, `{"bot_token": "123:abc", "chat_id": "-1001", "detection": {"window": 1.5}, "alert_timeout": 5}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detection.Window.Std() != 1500*time.Millisecond {
		t.Errorf("window = %s, want 1.5s", cfg.Detection.Window)
	}
	if cfg.AlertTimeout.Std() != 5*time.Second {
		t.Errorf("alert_timeout = %s, want 5s", cfg.AlertTimeout)
	}
	if !cfg.AlertingEnabled() {
		t.Fatal("credentials lost while parsing numeric durations")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv(envBotToken, "")
	t.Setenv(envChatID, "")
	path := writeConfig(t, "detection:\n  window: soon\n")

	if _, err := Load(path); !errors.Is(err, model.ErrConfigUnavailable) {
		t.Fatalf("expected ErrConfigUnavailable, got %v", err)
	}
}

package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"gigscout/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_CreatesAndRotates(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.LogConfig{
		Server:   config.LogSettings{Path: filepath.Join(dir, "server.log"), Level: "INFO"},
		Requests: config.LogSettings{Path: filepath.Join(dir, "requests.log"), Level: "INFO"},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	slog.Info("hello from test")
	cleanup()

	if _, err := os.Stat(cfg.Server.Path); err != nil {
		t.Errorf("server log not created: %v", err)
	}
	if RequestLogger == nil {
		t.Error("RequestLogger not initialized")
	}

	// Second init should rotate the first log away
	cleanup2, err := Init(cfg)
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	cleanup2()

	if _, err := os.Stat(cfg.Server.Path + ".old"); err != nil {
		t.Errorf("rotated server log not found: %v", err)
	}
}

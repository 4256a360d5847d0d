package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
		{"  Info  ", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInitWritesToLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DESK_DATA_DIR", dir)
	t.Cleanup(resetLogger)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	ctx := WithWorkspace(context.Background(), "feature-x")
	ctx = WithComponent(ctx, "switcher")
	Info(ctx, "test message", slog.String("branch", "main"))
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", logFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	content := string(data)

	for _, want := range []string{"test message", "feature-x", "switcher", "branch"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file should contain %q, got: %s", want, content)
		}
	}
}

func TestDebugSuppressedAtDefaultLevel(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DESK_DATA_DIR", dir)
	t.Setenv(LogLevelEnvVar, "info")
	t.Cleanup(resetLogger)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Debug(context.Background(), "hidden message")
	Close()

	data, _ := os.ReadFile(filepath.Join(dir, "logs", logFileName))
	if strings.Contains(string(data), "hidden message") {
		t.Error("debug message should be suppressed at info level")
	}
}

func TestContextExtraction(t *testing.T) {
	ctx := context.Background()
	if got := WorkspaceFromContext(ctx); got != "" {
		t.Errorf("WorkspaceFromContext(empty) = %q, want empty", got)
	}

	ctx = WithWorkspace(ctx, "ws1")
	if got := WorkspaceFromContext(ctx); got != "ws1" {
		t.Errorf("WorkspaceFromContext() = %q, want ws1", got)
	}

	ctx = WithComponent(ctx, "api")
	if got := ComponentFromContext(ctx); got != "api" {
		t.Errorf("ComponentFromContext() = %q, want api", got)
	}
}

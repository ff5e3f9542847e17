package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_DefaultFileFallbackForInteractiveAuto(t *testing.T) {
	stateRoot := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateRoot)

	cfg := &Config{
		Level:          "info",
		Format:         "json",
		LogFile:        "",
		StderrMode:     "auto",
		InteractiveTTY: true,
		SessionID:      "session-test",
		CommandPath:    "scriptrun run",
		Version:        "test",
		Commit:         "abc123",
	}

	logger, cleanup, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Info("hello from test")

	if cleanup != nil {
		if closeErr := cleanup(); closeErr != nil {
			t.Fatalf("cleanup() error = %v", closeErr)
		}
	}

	logPath := filepath.Join(stateRoot, "scriptrun", "logs", "scriptrun.log")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile(%q) error = %v", logPath, err)
	}

	if !strings.Contains(string(data), `"session.id":"session-test"`) {
		t.Fatalf("log file %q missing session attribute: %s", logPath, data)
	}
}

func TestNewLogger_ExplicitFileTextFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "run.log")

	logger, cleanup, err := NewLogger(&Config{
		Level:      "debug",
		Format:     "text",
		LogFile:    logPath,
		StderrMode: "off",
	})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Debug("script finished", slog.Int("exit.code", 7), slog.String("api_token", "hunter2"))

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	got := string(data)
	if !strings.Contains(got, "exit.code=7") {
		t.Errorf("log missing exit code attribute: %s", got)
	}

	if strings.Contains(got, "hunter2") {
		t.Errorf("log leaked a sensitive value: %s", got)
	}
}

func TestNewLogger_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad level", Config{Level: "loud", StderrMode: "on"}},
		{"bad format", Config{Format: "xml", StderrMode: "on"}},
		{"bad stderr mode", Config{StderrMode: "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := NewLogger(&tt.cfg); err == nil {
				t.Fatal("NewLogger() error = nil, want error")
			}
		})
	}
}

func TestShouldEnableStderr(t *testing.T) {
	tests := []struct {
		mode        string
		interactive bool
		want        bool
	}{
		{"auto", true, false},
		{"auto", false, true},
		{"", false, true},
		{"on", true, true},
		{"off", false, false},
	}

	for _, tt := range tests {
		got, err := shouldEnableStderr(tt.mode, tt.interactive)
		if err != nil {
			t.Fatalf("shouldEnableStderr(%q) error = %v", tt.mode, err)
		}

		if got != tt.want {
			t.Errorf("shouldEnableStderr(%q, %v) = %v, want %v", tt.mode, tt.interactive, got, tt.want)
		}
	}
}

func TestRedactAttr(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: redactAttr}))
	logger.Info("x", slog.String("Authorization", "Bearer abc"), slog.String("script.preview", "echo hi"))

	got := buf.String()
	if strings.Contains(got, "Bearer abc") {
		t.Errorf("authorization not redacted: %s", got)
	}

	if !strings.Contains(got, "echo hi") {
		t.Errorf("non-sensitive attribute redacted: %s", got)
	}
}

func TestOpenLogFile_Limits(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "scriptrun.log")

	sink, err := openLogFile("  " + logPath + "  ")
	if err != nil {
		t.Fatalf("openLogFile() error = %v", err)
	}
	defer sink.Close()

	if sink.Filename != logPath {
		t.Errorf("Filename = %q, want %q", sink.Filename, logPath)
	}

	if sink.MaxSize != maxLogFileMegabytes || sink.MaxBackups != maxLogBackups {
		t.Errorf("limits = (%d MB, %d backups), want (%d MB, %d backups)",
			sink.MaxSize, sink.MaxBackups, maxLogFileMegabytes, maxLogBackups)
	}

	if _, err := os.Stat(filepath.Dir(logPath)); err != nil {
		t.Errorf("log directory not created: %v", err)
	}
}

func TestOpenLogFile_EmptyPath(t *testing.T) {
	if _, err := openLogFile("   "); err == nil {
		t.Fatal("openLogFile() error = nil, want error for blank path")
	}
}

func TestOpenLogFile_RotateKeepsBackup(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "scriptrun.log")

	sink, err := openLogFile(logPath)
	if err != nil {
		t.Fatalf("openLogFile() error = %v", err)
	}
	defer sink.Close()

	if _, err := sink.Write([]byte("before\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := sink.Rotate(); err != nil {
		t.Fatalf("Rotate() error = %v", err)
	}

	if _, err := sink.Write([]byte("after\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	current, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read current log: %v", err)
	}

	if string(current) != "after\n" {
		t.Errorf("current log = %q, want only the post-rotation record", string(current))
	}

	backups, err := filepath.Glob(filepath.Join(dir, "scriptrun-*.log"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}

	if len(backups) != 1 {
		t.Fatalf("backups = %v, want exactly one rotated file", backups)
	}

	old, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}

	if string(old) != "before\n" {
		t.Errorf("backup = %q, want the pre-rotation record", string(old))
	}
}

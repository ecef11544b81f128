package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("colored", zap.Int("nodes", 3))
	_ = logger.Sync()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "colored" {
		t.Errorf("expected msg 'colored', got %v", entry["msg"])
	}
	if entry["nodes"] != float64(3) {
		t.Errorf("expected nodes=3, got %v", entry["nodes"])
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "console", &buf)

	logger.Debug("visible")
	_ = logger.Sync()

	if !bytes.Contains(buf.Bytes(), []byte("visible")) {
		t.Errorf("expected debug line in console output, got %q", buf.String())
	}
}

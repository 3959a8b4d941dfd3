package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "info", true)
	if err != nil {
		t.Fatalf("NewWithWriter failed: %v", err)
	}

	log.Debug("hidden")
	log.Info("classified", zap.Bool("distorted", true))
	_ = log.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON log line: %v", err)
	}
	if entry["msg"] != "classified" || entry["distorted"] != true {
		t.Errorf("Unexpected entry: %v", entry)
	}
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug", false)
	if err != nil {
		t.Fatalf("NewWithWriter failed: %v", err)
	}

	log.Debug("starting", zap.String("addr", "127.0.0.1:8000"))
	_ = log.Sync()

	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "starting") || !strings.Contains(out, "127.0.0.1:8000") {
		t.Errorf("Unexpected console output: %q", out)
	}
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	if _, err := NewWithWriter(&bytes.Buffer{}, "chatty", false); err == nil {
		t.Error("Expected error for invalid level")
	}
}

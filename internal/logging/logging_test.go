package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", "json", &buf)

	logger.Debug().Str("key", "value").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "hello" || entry["key"] != "value" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["service"] != "storyteller" {
		t.Errorf("expected service field, got %v", entry["service"])
	}
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		logger := New(tt.level, "json", &bytes.Buffer{})
		if got := logger.GetLevel(); got != tt.want {
			t.Errorf("New(%q) level = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", "console", &buf)

	logger.Info().Msg("readable")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("console format should not emit JSON, got %q", out)
	}
	if !strings.Contains(out, "readable") {
		t.Errorf("message missing from %q", out)
	}
}

func TestNew_DefaultContextLogger(t *testing.T) {
	var buf bytes.Buffer
	New("info", "json", &buf)

	zerolog.Ctx(context.Background()).Info().Msg("via context")

	if !strings.Contains(buf.String(), "via context") {
		t.Errorf("context logger did not fall back to the default, got %q", buf.String())
	}
}

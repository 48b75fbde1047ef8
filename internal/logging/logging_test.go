package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", FormatJSON, &buf)
	l.Debug().Str("post", "1").Msg("loaded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "debug" {
		t.Errorf("level: got %v, want %q", entry["level"], "debug")
	}
	if entry["post"] != "1" {
		t.Errorf("post: got %v, want %q", entry["post"], "1")
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected a time field")
	}
}

func TestNewLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		l := New(tt.level, FormatJSON, &bytes.Buffer{})
		if got := l.GetLevel(); got != tt.want {
			t.Errorf("New(%q).GetLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", FormatConsole, &buf)
	l.Info().Msg("serving")
	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("console output looks like JSON: %q", out)
	}
	if !strings.Contains(out, "serving") {
		t.Errorf("console output %q does not contain the message", out)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", FormatJSON, &buf)
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}
}

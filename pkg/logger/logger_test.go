package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)

	log.Info("operator selected", "seed", 3, "operator", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "operator selected" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["seed"] != float64(3) {
		t.Fatalf("unexpected seed attr: %v", entry["seed"])
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	log.Warn("loud")
	if buf.Len() == 0 {
		t.Fatal("warn should pass at warn level")
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewText("debug", &buf)

	log.Debug("generation complete", "seed", 0)
	out := buf.String()
	if !strings.Contains(out, "msg=\"generation complete\"") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

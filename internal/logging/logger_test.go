package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestNew_FormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["rows"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	Setup(&buf, "info", "text")
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	WithFields(ctx, "file", "a.csv").Info("import started")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") || !strings.Contains(out, "file=a.csv") {
		t.Errorf("log output missing fields: %q", out)
	}
}

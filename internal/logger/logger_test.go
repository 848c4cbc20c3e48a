package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/garyellow/casmate/internal/ctxutil"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		level string
		want  string
	}{
		{"Valid debug level", "debug", "debug"},
		{"Valid info level", "info", "info"},
		{"Valid warn level", "warn", "warning"},
		{"Upper case", "ERROR", "error"},
		{"Invalid level defaults to info", "invalid", "info"},
		{"Empty level defaults to info", "", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			log := New(tt.level)
			if got := log.Level(); got != tt.want {
				t.Errorf("New(%q) level = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewWithWriter("info", &buf).Warn("careful")

	entry := decode(t, &buf)
	for _, field := range []string{"timestamp", "level", "message"} {
		if _, ok := entry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want warning", entry["level"])
	}
	if entry["message"] != "careful" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("resolver").
		WithRequestID("req-123").
		WithSessionID("sess-1").
		WithError(errors.New("boom")).
		WithFields(map[string]any{"intent": "units"}).
		Info("turn handled")

	entry := decode(t, &buf)
	want := map[string]string{
		"module":     "resolver",
		"request_id": "req-123",
		"session_id": "sess-1",
		"error":      "boom",
		"intent":     "units",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)
	child := log.WithModule("child")

	child.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %s", buf.String())
	}

	if err := log.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug) error = %v", err)
	}
	child.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("derived logger should follow the parent level")
	}

	if err := log.SetLevel("verbose"); err == nil {
		t.Error("SetLevel(verbose) error = nil, want error")
	}
}

func TestLogger_ContextValues(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithRequestID(context.Background(), "req-abc")
	ctx = ctxutil.WithSessionID(ctx, "sess-xyz")
	log.InfoContext(ctx, "with context")

	entry := decode(t, &buf)
	if entry["request_id"] != "req-abc" || entry["session_id"] != "sess-xyz" {
		t.Errorf("context values missing: %v", entry)
	}
}

func TestContextHandler_EmptyContext(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(ctxutil.WithSessionID(context.Background(), ""), "plain")

	for _, field := range []string{"request_id", "session_id"} {
		if strings.Contains(buf.String(), `"`+field+`"`) {
			t.Errorf("unexpected %s in %s", field, buf.String())
		}
	}
}

func TestContextHandler_WithGroup(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)).WithGroup("turn"))

	logger.Info("grouped", "score", 90)

	if !strings.Contains(buf.String(), `"turn":{"score":90}`) {
		t.Errorf("group missing: %s", buf.String())
	}
}

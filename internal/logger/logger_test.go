package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlogLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	cfg := ParseConfig("debug", "json")
	cfg.Output = &buf
	l := NewSlogLogger(cfg)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithGeneration(ctx, 7)
	ctx = WithLogger(ctx, l)

	Ctx(ctx).Info("analysis completed", Int("days", 30), Err(errors.New("boom")))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	want := map[string]any{
		"msg":        "analysis completed",
		"request_id": "req-1",
		"user_id":    "user-1",
		"generation": float64(7),
		"days":       float64(30),
		"error":      "boom",
		"service":    "breathe-api",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
}

func TestSlogLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	cfg := ParseConfig("warn", "text")
	cfg.Output = &buf
	l := NewSlogLogger(cfg)

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
	if l.Level() != LevelWarn {
		t.Errorf("Level() = %v, want warn", l.Level())
	}
}

func TestWithRequestID_GeneratesWhenEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if RequestIDFromContext(ctx) == "" {
		t.Error("expected a generated request id")
	}
	if GenerationFromContext(context.Background()) != 0 {
		t.Error("expected zero generation on empty context")
	}
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"quorum/internal/services"
)

func TestPrettyHandlerFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	handler := newPrettyHandler(&buf, lvl)
	logger := slog.New(handler).With(String(FieldComponent, "workflow"))

	logger.Info("stage completed",
		String("stage", "merge"),
		Int("segments", 12),
		Duration("elapsed", 1500*time.Millisecond),
	)

	out := buf.String()
	for _, fragment := range []string{"INFO", "workflow: stage completed", "stage=merge", "segments=12", "elapsed=1.5s"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
}

func TestPrettyHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	logger.Warn("degraded", String("reason", "service unreachable"))
	if !strings.Contains(buf.String(), `reason="service unreachable"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	ctx := services.WithMeetingID(context.Background(), "mtg-7")
	ctx = services.WithStage(ctx, "summarize")
	WithContext(ctx, logger).Info("hello")

	out := buf.String()
	if !strings.Contains(out, "meeting_id=mtg-7") || !strings.Contains(out, "stage=summarize") {
		t.Fatalf("context fields missing: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

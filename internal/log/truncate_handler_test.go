package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestTruncateHandler tests attribute capping.
func TestTruncateHandler(t *testing.T) {
	t.Parallel()

	t.Run("long strings are capped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 10))

		logger.Info("fetched page", "html", strings.Repeat("x", 100))

		out := buf.String()
		if strings.Contains(out, strings.Repeat("x", 11)) {
			t.Error("expected value to be truncated")
		}
		if !strings.Contains(out, "90 more chars") {
			t.Errorf("expected dropped-character note, got %s", out)
		}
	})

	t.Run("short strings pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 10))

		logger.Info("fetched page", "title", "short")

		if !strings.Contains(buf.String(), "title=short") {
			t.Errorf("expected untouched value, got %s", buf.String())
		}
	})

	t.Run("non-string values pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 10))

		logger.Info("crawl done", "pages", 12345678901)

		if !strings.Contains(buf.String(), "pages=12345678901") {
			t.Errorf("expected untouched int value, got %s", buf.String())
		}
	})

	t.Run("groups are capped recursively", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewTruncateHandler(slog.NewTextHandler(&buf, nil), 10))

		logger.Info("fetched page", slog.Group("page",
			slog.String("body", strings.Repeat("y", 50)),
		))

		if strings.Contains(buf.String(), strings.Repeat("y", 11)) {
			t.Error("expected grouped value to be truncated")
		}
	})
}

// TestNewLogger tests the level wiring.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewLogger(&buf, false).Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %s", buf.String())
		}
	})

	t.Run("verbose level passes debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewLogger(&buf, true).Debug("visible")

		if !strings.Contains(buf.String(), "visible") {
			t.Errorf("expected debug output, got %s", buf.String())
		}
	})
}

package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleLoggerLevels(t *testing.T) {
	t.Run("info hides debug", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf})
		l.Debug("hidden")
		l.Info("shown", "key", "value")
		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Fatalf("debug message leaked: %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
			t.Fatalf("unexpected output: %q", out)
		}
	})

	t.Run("debug flag wins over level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf, Level: "error", Debug: true})
		l.Debug("visible")
		if !strings.Contains(buf.String(), "visible") {
			t.Fatalf("expected debug output, got %q", buf.String())
		}
	})

	t.Run("error level hides warn", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewConsoleLogger(ConsoleLoggerParams{Output: &buf, Level: "error"})
		l.Warn("quiet")
		l.Error("loud")
		out := buf.String()
		if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
			t.Fatalf("unexpected output: %q", out)
		}
	})
}

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, Options{Level: "warn"})

	logger.Info("should be suppressed")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be suppressed") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message should be logged at warn level")
	}
}

func TestNewDebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, Options{Level: "error", Debug: true})

	if !logger.IsDebug() {
		t.Error("debug option should force debug level")
	}

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message should be logged when debug is forced")
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithWriter(&buf, Options{Level: "loud"})

	logger.Info("info message")
	logger.Debug("debug message")

	out := buf.String()
	if !strings.Contains(out, "info message") {
		t.Error("info should be logged at fallback level")
	}
	if strings.Contains(out, "debug message") {
		t.Error("debug should be filtered at fallback level")
	}
}

func TestNewTestLogger(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Info("captured", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "captured") {
		t.Errorf("expected buffer to capture log output, got: %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected structured key-value output, got: %q", out)
	}
}

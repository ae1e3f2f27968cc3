package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(Config{Level: level, Output: buf, Prefix: "test"})
	l.now = func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return l
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{" error ", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug)

	l.Info("bound %d handlers", 3)

	expected := "2024-01-02T03:04:05.000 [INFO] test: bound 3 handlers\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelWarn)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	if strings.Contains(out, "debug") || strings.Contains(out, "info") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "[ERROR]") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug).
		WithComponent("vent").
		WithFields(map[string]any{"target": 2, "event": "click"})

	l.Debug("fired")

	if !strings.HasSuffix(buf.String(), "fired {component=vent, event=click, target=2}\n") {
		t.Errorf("unexpected field formatting: %q", buf.String())
	}
}

func TestLogger_ChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, LevelError)
	child := parent.WithComponent("script")

	child.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	parent.SetLevel(LevelInfo)
	child.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected child to follow parent level, got %q", buf.String())
	}
	if child.Level() != LevelInfo {
		t.Errorf("expected child level INFO, got %s", child.Level())
	}
}

func TestNull(t *testing.T) {
	// Must not panic.
	Null.Info("nothing")
	Null.WithComponent("x").Error("nothing")
	Null.SetLevel(LevelDebug)
}

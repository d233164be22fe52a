package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"ERROR", ErrorLevel},
		{"nonsense", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestJSONLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("should not appear")
	logger.Info("also should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	logger.Warn("this appears", Segment("StringBlock"))
	if buf.Len() == 0 {
		t.Fatal("expected output for Warn")
	}

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("bad JSON line: %v", err)
	}
	if entry.Level != "WARN" {
		t.Errorf("Level = %q, want WARN", entry.Level)
	}
	if entry.Fields["segment"] != "StringBlock" {
		t.Errorf("Fields[segment] = %v, want StringBlock", entry.Fields["segment"])
	}
}

func TestJSONLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSONLogger(&buf, DebugLevel)
	child := base.With(Component("dbc"))

	child.Info("opened file", Signature("WDC1"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("bad JSON line: %v", err)
	}
	if entry.Fields["component"] != "dbc" {
		t.Errorf("missing inherited field component, got %v", entry.Fields)
	}
	if entry.Fields["signature"] != "WDC1" {
		t.Errorf("missing call-site field signature, got %v", entry.Fields)
	}
}

func TestFieldConstructors(t *testing.T) {
	if f := String("k", "v"); f.Key != "k" || f.Value != "v" {
		t.Errorf("String() = %+v", f)
	}
	if f := RowID(42); f.Key != "row_id" || f.Value != uint64(42) {
		t.Errorf("RowID() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v, want nil value", f)
	}
	if f := Error(errors.New("boom")); f.Value != "boom" {
		t.Errorf("Error(err) = %+v", f)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	if l.GetLevel() != InfoLevel {
		t.Errorf("NopLogger.GetLevel() = %v", l.GetLevel())
	}
	if child := l.With(String("a", "b")); child == nil {
		t.Error("With() returned nil")
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartTimer(logger, "decode records")
	timer.End()

	if !strings.Contains(buf.String(), "decode records") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "latency") {
		t.Errorf("expected latency field, got %q", buf.String())
	}
}

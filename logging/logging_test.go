package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerTo(&buf)

	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[INFO] shown") {
		t.Fatalf("info line missing: %q", buf.String())
	}

	child := logger.WithFields(Fields{"component": "test"})
	logger.SetLevel(DebugLevel)
	child.Debug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG] now visible component=test") {
		t.Fatalf("child did not follow parent level: %q", buf.String())
	}
}

func TestDefaultLoggerFieldOrderIsStable(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerTo(&buf).WithFields(Fields{"b": 2, "a": 1})

	logger.Error(errors.New("boom"), "failed", Fields{"c": 3})

	if !strings.Contains(buf.String(), "[ERROR] failed: boom a=1 b=2 c=3") {
		t.Fatalf("unexpected line: %q", buf.String())
	}
}

func TestDefaultLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerTo(&buf)

	ctx := ContextWithFields(context.Background(), Fields{"job": "sigA"})
	logger.WithContext(ctx).Info("start")

	if !strings.Contains(buf.String(), "job=sigA") {
		t.Fatalf("context fields missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		" WARN ":  WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
		"verbose": InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLoggerFrom(zap.New(core)).WithFields(Fields{"component": "filter_bank"})

	logger.Warn("weights do not sum to one", Fields{"sum": 1.5})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["component"] != "filter_bank" {
		t.Errorf("component = %v", ctx["component"])
	}
	if ctx["sum"] != 1.5 {
		t.Errorf("sum = %v", ctx["sum"])
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v", entries[0].Level)
	}
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	if _, ok := GetGlobalLogger().(*NoOpLogger); !ok {
		t.Fatalf("nil logger should install NoOpLogger, got %T", GetGlobalLogger())
	}
	Info("discarded")
}

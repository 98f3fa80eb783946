package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shortsmith/internal/config"
	"shortsmith/internal/services"
)

func TestNewConsoleLoggerWritesComponentPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	NewComponentLogger(logger, "trim").Info("clip written", String("output", "/tmp/a b.mp4"), Int("width", 1280))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO trim: clip written") {
		t.Fatalf("expected level and component prefix, got %q", line)
	}
	if !strings.Contains(line, `output="/tmp/a b.mp4"`) {
		t.Fatalf("expected quoted value, got %q", line)
	}
	if !strings.Contains(line, "width=1280") {
		t.Fatalf("expected width attr, got %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("file output must not be colourised: %q", line)
	}
	if strings.Contains(line, "logger_test.go") {
		t.Fatalf("source location should be omitted at info level: %q", line)
	}
}

func TestNewConsoleLoggerIncludesSourceAtDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, err := New(Options{Level: "debug", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("probe")

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "logger_test.go:") {
		t.Fatalf("expected source location, got %q", string(data))
	}
}

func TestNewJSONLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "json.log")
	logger, err := New(Options{Level: "warn", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", String(FieldEventType, "cleanup_warning"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), string(data))
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("level = %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
	if payload[FieldEventType] != "cleanup_warning" {
		t.Fatalf("event_type = %v", payload[FieldEventType])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigCreatesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Error("boom")
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, "shortsmith.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := services.WithVideoID(context.Background(), 42)
	ctx = services.WithStage(ctx, "filter")
	ctx = services.WithRequestID(ctx, "req-1")
	WithContext(ctx, base).Info("hello")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[FieldVideoID] != float64(42) {
		t.Fatalf("video_id = %v", payload[FieldVideoID])
	}
	if payload[FieldStage] != "filter" {
		t.Fatalf("stage = %v", payload[FieldStage])
	}
	if payload[FieldCorrelationID] != "req-1" {
		t.Fatalf("correlation_id = %v", payload[FieldCorrelationID])
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WarnWithContext(logger, "could not remove temp file", "cleanup_warning", String(FieldImpact, "temp file left behind"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[FieldEventType] != "cleanup_warning" {
		t.Fatalf("event_type = %v", payload[FieldEventType])
	}
	if payload[FieldErrorHint] == nil {
		t.Fatal("expected default error_hint")
	}
	if payload[FieldImpact] != "temp file left behind" {
		t.Fatalf("impact overridden: %v", payload[FieldImpact])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
	WarnWithContext(nil, "ignored", "x")
}

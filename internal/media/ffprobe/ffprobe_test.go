package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"shortsmith/internal/services"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio"},
			{CodecType: "video", Width: 1920, Height: 1080, RFrameRate: "30000/1001"},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "123.45", Size: "1000"},
	}
	w, h, ok := result.VideoDimensions()
	if !ok || w != 1920 || h != 1080 {
		t.Fatalf("dimensions = %d x %d (%v)", w, h, ok)
	}
	fps, ok := result.FrameRate()
	if !ok || math.Abs(fps-29.97) > 0.01 {
		t.Fatalf("fps = %v (%v)", fps, ok)
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleMissingData(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if _, _, ok := result.VideoDimensions(); ok {
		t.Fatal("expected no dimensions without a video stream")
	}
	if _, ok := result.FrameRate(); ok {
		t.Fatal("expected no frame rate without a video stream")
	}
}

func TestFrameRateFallsBackToAverage(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", RFrameRate: "0/0", AvgFrameRate: "25/1"}}}
	fps, ok := result.FrameRate()
	if !ok || fps != 25 {
		t.Fatalf("fps = %v (%v)", fps, ok)
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"30/1", 30, true},
		{"24", 24, true},
		{"0/0", 0, false},
		{"", 0, false},
		{"x/y", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseRate(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRate(%q) = %v, %v", tc.in, got, ok)
		}
	}
}

func TestInspectDecodesStubOutput(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ffprobe")
	script := `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","width":1280,"height":720,"r_frame_rate":"30/1"}],"format":{"duration":"61.5"}}
JSON
`
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	result, err := Inspect(context.Background(), bin, "/tmp/in.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if w, h, _ := result.VideoDimensions(); w != 1280 || h != 720 {
		t.Fatalf("dimensions = %dx%d", w, h)
	}
	if result.DurationSeconds() != 61.5 {
		t.Fatalf("duration = %v", result.DurationSeconds())
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	_, err := Inspect(context.Background(), "ffprobe", "  ")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

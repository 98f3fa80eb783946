package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shortsmith/internal/config"
	"shortsmith/internal/services"
	"shortsmith/internal/services/whisperx"
	"shortsmith/internal/testsupport"
	"shortsmith/internal/workflow"
)

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(context.Context, string) ([]whisperx.Segment, error) {
	return []whisperx.Segment{{Start: 1, End: 3.5, Text: "hello there"}}, nil
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	source     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	scratch := t.TempDir()
	cfg := testsupport.NewConfig(t,
		testsupport.WithFFmpegScript(testsupport.MediaScript(filepath.Join(scratch, "calls.log"), filepath.Join(scratch, "fail"), []float64{1, 4, 9, 2})),
		testsupport.WithFFprobeScript(testsupport.ProbeScript(1280, 720, "1/1")),
	)
	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(scratch, "shortsmith.toml"),
		source:     filepath.Join(scratch, "talk.mp4"),
	}
	writeTestConfig(t, env.configPath, cfg)
	testsupport.WriteFile(t, env.source, 128)
	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
storage_root = %q
working_dir = %q
log_dir = %q

[ffmpeg]
ffmpeg_binary = %q
ffprobe_binary = %q
terminate_grace_seconds = 1

[logging]
level = "error"
`,
		cfg.Paths.StorageRoot,
		cfg.Paths.WorkingDir,
		cfg.Paths.LogDir,
		cfg.FFmpeg.FFmpegBinary,
		cfg.FFmpeg.FFprobeBinary,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(workflow.WithTranscriber(stubTranscriber{}))
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestCLIConvertFilterCaptionFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"convert", env.source, "--source-id", "abc"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Converted video 1 (reformatted): shorts/short_abc_1.mp4")

	out, _, err = runCLI(t, []string{"filter", "1", "sepia"}, env.configPath)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	requireContains(t, out, "shorts/short_abc_1_filter_sepia.mp4")

	out, _, err = runCLI(t, []string{"--json", "caption", "1", "--color", "#FFFFFF", "--weight", "700"}, env.configPath)
	if err != nil {
		t.Fatalf("caption: %v", err)
	}
	var video struct {
		State       string `json:"state"`
		CurrentPath string `json:"current_path"`
		BasePath    string `json:"base_path"`
		Captioned   bool   `json:"captioned"`
	}
	if err := json.Unmarshal([]byte(out), &video); err != nil {
		t.Fatalf("decode caption json: %v\n%s", err, out)
	}
	if video.State != "captioned" || !video.Captioned || video.CurrentPath != "shorts/short_abc_1_filter_sepia_subtitled.mp4" {
		t.Fatalf("unexpected caption result: %+v", video)
	}
	if video.BasePath != "shorts/short_abc_1.mp4" {
		t.Fatalf("base path = %q", video.BasePath)
	}

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "captioned")
	requireContains(t, out, "sepia")

	out, _, err = runCLI(t, []string{"show", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "== Video 1 ==")
	requireContains(t, out, "short_abc_1_filter_sepia_subtitled.mp4")
	if strings.Contains(out, "\x1b[") {
		t.Fatal("buffered output must not be colourised")
	}
}

func TestCLIFilterErrorsReportKind(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"convert", env.source}, env.configPath); err != nil {
		t.Fatalf("convert: %v", err)
	}

	out, _, err := runCLI(t, []string{"--json", "filter", "1", "nonexistent"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exitCode(err) != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode(err))
	}
	var payload struct {
		Kind      string `json:"kind"`
		Retryable bool   `json:"retryable"`
		Video     *videoJSON `json:"video"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode error json: %v\n%s", err, out)
	}
	if payload.Kind != "validation" || payload.Retryable || payload.Video != nil {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	_, _, err = runCLI(t, []string{"show", "99"}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) || exitCode(err) != 3 {
		t.Fatalf("expected not found with exit 3, got %v", err)
	}

	_, _, err = runCLI(t, []string{"filter", "abc", "sepia"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected invalid id error, got %v", err)
	}
}

func TestCLIHighlightJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"--json", "highlight", env.source}, env.configPath)
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	var result highlightJSON
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Speech covers seconds 1..3; second 2 has the most motion.
	if result.StartSecond != 0 || result.MotionSeconds != 4 || len(result.Speech) != 1 {
		t.Fatalf("unexpected highlight: %+v", result)
	}
	if result.Speech[0] != (intervalJSON{Start: 1, End: 3}) {
		t.Fatalf("speech = %+v", result.Speech)
	}
}

func TestCLIFiltersListsTable(t *testing.T) {
	out, _, err := runCLI(t, []string{"filters"}, "")
	if err != nil {
		t.Fatalf("filters: %v", err)
	}
	for _, want := range []string{"cinematic", "Technicolor", "graph", "simple"} {
		requireContains(t, out, want)
	}

	out, _, err = runCLI(t, []string{"--json", "filters"}, "")
	if err != nil {
		t.Fatalf("filters --json: %v", err)
	}
	var list []filterJSON
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 9 || list[0].Name != "cinematic" || !list[0].Complex {
		t.Fatalf("unexpected filters: %+v", list)
	}
}

func TestCLIDepsReportsBinaries(t *testing.T) {
	env := setupCLITestEnv(t)
	// ffmpeg and ffprobe are configured as absolute stub paths; uvx is
	// resolved through PATH and must come back missing but optional.
	t.Setenv("PATH", t.TempDir())

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "FFmpeg:")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "[WARN]")

	missing := filepath.Join(t.TempDir(), "missing.toml")
	cfg := *env.cfg
	cfg.FFmpeg.FFmpegBinary = "definitely-not-ffmpeg"
	writeTestConfig(t, missing, &cfg)
	out, _, err = runCLI(t, []string{"deps"}, missing)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.StorageRoot)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.Wrap(services.ErrValidation, "filter", "lookup", "bad", nil), 2},
		{services.Wrap(services.ErrConfiguration, "config", "load", "", nil), 2},
		{services.Wrap(services.ErrNotFound, "lookup", "video", "", nil), 3},
		{services.Wrap(services.ErrTimeout, "trim", "encode", "", nil), 4},
		{services.Wrap(services.ErrExternalTool, "trim", "encode", "", nil), 1},
		{errors.New("boom"), 1},
	}
	for _, tc := range tests {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestCLIPrune(t *testing.T) {
	env := setupCLITestEnv(t)
	stale := filepath.Join(env.cfg.Paths.WorkingDir, "captions-old.ass")
	testsupport.WriteFile(t, stale, 4)
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"prune", "--max-age", "1h"}, env.configPath)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	requireContains(t, out, "Pruned 1 entries")
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale subtitle track should be removed")
	}
}

package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shortsmith/internal/logging"
	"shortsmith/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestExecCapturesOutput(t *testing.T) {
	bin := writeScript(t, `echo "out:$1"; echo "err" >&2`)
	out, err := Exec(context.Background(), logging.NewNop(), Request{Binary: bin, Args: []string{"hello"}})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if strings.TrimSpace(string(out.Stdout)) != "out:hello" {
		t.Fatalf("stdout = %q", out.Stdout)
	}
	if strings.TrimSpace(string(out.Stderr)) != "err" {
		t.Fatalf("stderr = %q", out.Stderr)
	}
}

func TestExecNonZeroExitIsExternalTool(t *testing.T) {
	bin := writeScript(t, `echo "Invalid argument" >&2; exit 3`)
	out, err := Exec(context.Background(), nil, Request{Binary: bin, Stage: "filter", Operation: "encode"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) || errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if out.ExitCode != 3 {
		t.Fatalf("exit code = %d", out.ExitCode)
	}
	for _, want := range []string{"filter", "encode", "status 3", "Invalid argument"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestExecTimeoutIsClassified(t *testing.T) {
	bin := writeScript(t, `exec sleep 5`)
	started := time.Now()
	_, err := Exec(context.Background(), nil, Request{
		Binary:  bin,
		Timeout: 100 * time.Millisecond,
		Grace:   200 * time.Millisecond,
	})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if services.Kind(err) != "timeout" {
		t.Fatalf("kind = %q", services.Kind(err))
	}
	if time.Since(started) > 3*time.Second {
		t.Fatal("process was not terminated promptly")
	}
}

func TestExecParentCancellation(t *testing.T) {
	bin := writeScript(t, `exec sleep 5`)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := Exec(ctx, nil, Request{Binary: bin, Timeout: time.Minute, Grace: 200 * time.Millisecond})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if errors.Is(err, services.ErrTimeout) {
		t.Fatal("cancellation must not be reported as timeout")
	}
}

func TestExecCallerDeadlineIsTimeout(t *testing.T) {
	bin := writeScript(t, `exec sleep 5`)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := Exec(ctx, nil, Request{Binary: bin, Grace: 200 * time.Millisecond})
	if !errors.Is(err, services.ErrTimeout) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if services.Kind(err) != "timeout" || !services.Retryable(err) {
		t.Fatalf("kind = %q", services.Kind(err))
	}
}

func TestExecMissingBinary(t *testing.T) {
	_, err := Exec(context.Background(), nil, Request{Binary: " "})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	_, err = Exec(context.Background(), nil, Request{Binary: filepath.Join(t.TempDir(), "absent")})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestRunnerPrependsDefaults(t *testing.T) {
	bin := writeScript(t, `echo "$@"`)
	runner := &Runner{Binary: bin}
	out, err := runner.Run(context.Background(), "trim", "encode", "-i", "in.mp4")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(string(out.Stdout)); got != "-hide_banner -nostdin -i in.mp4" {
		t.Fatalf("args = %q", got)
	}
	if runner.WithTimeout(time.Second).Timeout != time.Second || runner.Timeout != 0 {
		t.Fatal("WithTimeout must not mutate the receiver")
	}
}

func TestEncodeArgs(t *testing.T) {
	enc := EncodeArgs{Preset: "fast", CRF: 23, AudioCodec: "aac", AudioBitrate: "128k"}
	if got := strings.Join(enc.Video(), " "); got != "-c:v libx264 -preset fast -crf 23" {
		t.Fatalf("video = %q", got)
	}
	if got := strings.Join(enc.Audio(), " "); got != "-c:a aac -b:a 128k" {
		t.Fatalf("audio = %q", got)
	}
	if got := strings.Join(EncodeArgs{CRF: 20}.Audio(), " "); got != "-c:a copy" {
		t.Fatalf("copy audio = %q", got)
	}
	if FormatSeconds(12) != "12" || FormatSeconds(1.5) != "1.5" {
		t.Fatal("FormatSeconds mismatch")
	}
}

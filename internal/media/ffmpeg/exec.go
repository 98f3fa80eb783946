package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"shortsmith/internal/logging"
	"shortsmith/internal/services"
)

// DefaultGrace is how long a process may run after SIGTERM before it is killed.
const DefaultGrace = 10 * time.Second

// stderrTail caps how much stderr is quoted back in error messages.
const stderrTail = 2048

// Request describes a single external process invocation.
type Request struct {
	Binary    string
	Args      []string
	Dir       string
	Env       []string
	Timeout   time.Duration
	Grace     time.Duration
	Stage     string
	Operation string
}

// Output captures what the process wrote.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	Elapsed  time.Duration
	ExitCode int
}

// Exec runs an external process with an optional timeout.
//
// Cancellation sends SIGTERM and escalates to SIGKILL after the grace period.
// Errors are tagged with services.ErrTimeout when the per-call or caller
// deadline expired and services.ErrExternalTool for every other failure.
func Exec(ctx context.Context, logger *slog.Logger, req Request) (Output, error) {
	binary := strings.TrimSpace(req.Binary)
	if binary == "" {
		return Output{}, services.Wrap(services.ErrConfiguration, req.Stage, req.Operation, "binary not configured", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	runCtx := ctx
	cancel := func() {}
	if req.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	grace := req.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}

	cmd := exec.CommandContext(runCtx, binary, req.Args...)
	cmd.Dir = req.Dir
	if len(req.Env) > 0 {
		cmd.Env = req.Env
	}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Signal(unix.SIGTERM)
	}
	cmd.WaitDelay = grace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("executing external process",
		logging.String("binary", binary),
		logging.String("args", strings.Join(req.Args, " ")),
		logging.Duration("timeout", req.Timeout),
	)

	started := time.Now()
	err := cmd.Run()
	out := Output{
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Elapsed: time.Since(started),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		logger.Debug("external process completed",
			logging.String("binary", binary),
			logging.Duration("elapsed", out.Elapsed),
		)
		return out, nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return out, services.Wrap(services.ErrTimeout, req.Stage, req.Operation,
			fmt.Sprintf("%s outlived the caller deadline", binary), ctx.Err())
	case ctx.Err() != nil:
		return out, services.Wrap(services.ErrExternalTool, req.Stage, req.Operation, "canceled", ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return out, services.Wrap(services.ErrTimeout, req.Stage, req.Operation,
			fmt.Sprintf("%s exceeded %s", binary, req.Timeout), runCtx.Err())
	}

	message := fmt.Sprintf("%s failed", binary)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			message = fmt.Sprintf("%s terminated by %s", binary, status.Signal())
		} else {
			message = fmt.Sprintf("%s exited with status %d", binary, exitErr.ExitCode())
		}
	}
	if tail := tailString(stderr.Bytes(), stderrTail); tail != "" {
		message += ": " + tail
	}
	return out, services.Wrap(services.ErrExternalTool, req.Stage, req.Operation, message, err)
}

func tailString(data []byte, limit int) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > limit {
		trimmed = trimmed[len(trimmed)-limit:]
	}
	return string(trimmed)
}

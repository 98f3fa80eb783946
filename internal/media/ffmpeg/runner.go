package ffmpeg

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"shortsmith/internal/config"
	"shortsmith/internal/logging"
)

// Runner invokes the ffmpeg binary for encodes and analysis passes.
type Runner struct {
	Binary  string
	Timeout time.Duration
	Grace   time.Duration
	Logger  *slog.Logger
}

// NewRunner builds a Runner from configuration using the encode timeout.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		Binary:  cfg.FFmpeg.FFmpegBinary,
		Timeout: cfg.EncodeTimeout(),
		Grace:   cfg.TerminateGrace(),
		Logger:  logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// WithTimeout returns a copy of the runner using a different per-call limit.
func (r *Runner) WithTimeout(timeout time.Duration) *Runner {
	clone := *r
	clone.Timeout = timeout
	return &clone
}

// Run executes ffmpeg with the given arguments. -hide_banner and -nostdin are
// always prepended.
func (r *Runner) Run(ctx context.Context, stage, operation string, args ...string) (Output, error) {
	full := make([]string, 0, len(args)+2)
	full = append(full, "-hide_banner", "-nostdin")
	full = append(full, args...)
	return Exec(ctx, logging.WithContext(ctx, r.Logger), Request{
		Binary:    r.Binary,
		Args:      full,
		Timeout:   r.Timeout,
		Grace:     r.Grace,
		Stage:     stage,
		Operation: operation,
	})
}

// EncodeArgs holds the x264 settings shared by every encode stage.
type EncodeArgs struct {
	Preset       string
	CRF          int
	AudioCodec   string
	AudioBitrate string
}

// Video returns the video codec arguments.
func (e EncodeArgs) Video() []string {
	preset := strings.TrimSpace(e.Preset)
	if preset == "" {
		preset = "medium"
	}
	return []string{"-c:v", "libx264", "-preset", preset, "-crf", strconv.Itoa(e.CRF)}
}

// Audio returns the audio codec arguments. An empty codec copies the stream.
func (e EncodeArgs) Audio() []string {
	codec := strings.TrimSpace(e.AudioCodec)
	if codec == "" || codec == "copy" {
		return []string{"-c:a", "copy"}
	}
	args := []string{"-c:a", codec}
	if bitrate := strings.TrimSpace(e.AudioBitrate); bitrate != "" {
		args = append(args, "-b:a", bitrate)
	}
	return args
}

// FormatSeconds renders a seek offset for -ss/-t.
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

// Package pipeline implements the four file-producing stages of a short:
// trim, vertical reformat, look filter and caption burn-in.
//
// Every stage encodes into a uniquely named temporary file beside its final
// destination and renames it into place only after ffmpeg succeeds, so a
// failed or interrupted encode never leaves a partial file under a
// canonical name. Inputs a stage supersedes are removed best-effort after
// the rename; removal failures are logged as cleanup warnings.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"shortsmith/internal/config"
	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/media/ffprobe"
	"shortsmith/internal/services"
	"shortsmith/internal/services/whisperx"
)

// Prober inspects a media file.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Transcriber returns timed speech segments for a media file.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string) ([]whisperx.Segment, error)
}

// Stages runs the pipeline stages against the configured storage layout.
type Stages struct {
	cfg         *config.Config
	runner      *ffmpeg.Runner
	prober      Prober
	transcriber Transcriber
	logger      *slog.Logger
}

// New wires the stages. runner carries the encode timeout.
func New(cfg *config.Config, runner *ffmpeg.Runner, prober Prober, transcriber Transcriber, logger *slog.Logger) *Stages {
	return &Stages{
		cfg:         cfg,
		runner:      runner,
		prober:      prober,
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

func (s *Stages) stageLogger(ctx context.Context, stage string) *slog.Logger {
	return logging.WithContext(services.WithStage(ctx, stage), s.logger)
}

func requireFile(stage, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrNotFound, stage, "input", fmt.Sprintf("%s does not exist", path), err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrNotFound, stage, "input", fmt.Sprintf("%s is not a regular file", path), nil)
	}
	return nil
}

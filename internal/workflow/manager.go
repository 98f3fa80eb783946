package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"shortsmith/internal/config"
	"shortsmith/internal/highlight"
	"shortsmith/internal/lineagelock"
	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/media/ffprobe"
	"shortsmith/internal/pipeline"
	"shortsmith/internal/services"
	"shortsmith/internal/services/whisperx"
	"shortsmith/internal/signals"
	"shortsmith/internal/store"
	"shortsmith/internal/subtitles"
)

// Manager runs lineage operations against a store.
type Manager struct {
	cfg       *config.Config
	store     *store.Store
	stages    *pipeline.Stages
	extractor *signals.Extractor
	locks     *lineagelock.Locker
	logger    *slog.Logger
}

// Option customizes collaborators, mainly for tests.
type Option func(*managerOptions)

type managerOptions struct {
	transcriber pipeline.Transcriber
	prober      pipeline.Prober
}

// WithTranscriber replaces the WhisperX service.
func WithTranscriber(t pipeline.Transcriber) Option {
	return func(o *managerOptions) {
		o.transcriber = t
	}
}

// WithProber replaces the ffprobe prober.
func WithProber(p pipeline.Prober) Option {
	return func(o *managerOptions) {
		o.prober = p
	}
}

// NewManager wires the stages, signal extractor and lineage locks from cfg.
func NewManager(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.prober == nil {
		options.prober = ffprobe.Prober{
			Binary:  cfg.FFmpeg.FFprobeBinary,
			Timeout: cfg.ProbeTimeout(),
			Grace:   cfg.TerminateGrace(),
			Logger:  logger,
		}
	}
	if options.transcriber == nil {
		options.transcriber = whisperx.NewService(TranscriberConfig(cfg), cfg.FFmpeg.FFmpegBinary, cfg.Paths.WorkingDir,
			whisperx.WithTimeout(cfg.TranscribeTimeout(), cfg.TerminateGrace()),
			whisperx.WithLogger(logger),
		)
	}

	runner := ffmpeg.NewRunner(cfg, logger)
	return &Manager{
		cfg:       cfg,
		store:     st,
		stages:    pipeline.New(cfg, runner, options.prober, options.transcriber, logger),
		extractor: signals.NewExtractor(options.transcriber, options.prober, runner.WithTimeout(cfg.MotionTimeout()), logger),
		locks:     lineagelock.New(cfg.LockDir()),
		logger:    logging.NewComponentLogger(logger, "workflow"),
	}
}

// TranscriberConfig maps the captions section onto WhisperX settings.
func TranscriberConfig(cfg *config.Config) whisperx.Config {
	return whisperx.Config{
		Model:       cfg.Captions.WhisperXModel,
		CUDAEnabled: cfg.Captions.WhisperXCUDAEnabled,
		VADMethod:   cfg.Captions.WhisperXVADMethod,
		HFToken:     cfg.Captions.WhisperXHuggingFace,
		Language:    cfg.Captions.Language,
	}
}

// DefaultStyle returns the configured caption style.
func DefaultStyle(cfg *config.Config) subtitles.Style {
	return subtitles.Style{
		Font:       cfg.Captions.Font,
		FontSize:   cfg.Captions.FontSize,
		BoldWeight: cfg.Captions.BoldWeight,
		Color:      cfg.Captions.Color,
	}
}

// HighlightResult is the outcome of a highlight analysis.
type HighlightResult struct {
	StartSecond int
	Speech      []signals.SpeechInterval
	Motion      signals.MotionSeries
	FPS         float64
}

// Highlight extracts signals from path and selects the clip start. It never
// touches the store.
func (m *Manager) Highlight(ctx context.Context, path string) (HighlightResult, error) {
	if err := requireSource("highlight", path); err != nil {
		return HighlightResult{}, err
	}
	ctx = services.WithStage(ctx, "highlight")
	sig, err := m.extractor.Extract(ctx, path)
	if err != nil {
		return HighlightResult{}, err
	}
	start := highlight.SelectStart(sig.Speech, sig.Motion)
	logging.WithContext(ctx, m.logger).Info("highlight selected",
		logging.String("source", path),
		logging.Int("start_second", start),
	)
	return HighlightResult{StartSecond: start, Speech: sig.Speech, Motion: sig.Motion, FPS: sig.FPS}, nil
}

// Video returns the record for id or a not-found error.
func (m *Manager) Video(ctx context.Context, id int64) (*store.Video, error) {
	video, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, services.Wrap(services.ErrNotFound, "lookup", "video", fmt.Sprintf("video %d does not exist", id), nil)
	}
	return video, nil
}

// Videos lists records, optionally limited to the given states.
func (m *Manager) Videos(ctx context.Context, states ...store.State) ([]*store.Video, error) {
	return m.store.List(ctx, states...)
}

func requireSource(stage, path string) error {
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, stage, "input", "source path is required", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrNotFound, stage, "input", fmt.Sprintf("%s does not exist", path), err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrNotFound, stage, "input", fmt.Sprintf("%s is not a regular file", path), nil)
	}
	return nil
}

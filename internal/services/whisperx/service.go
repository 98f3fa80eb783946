package whisperx

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"shortsmith/internal/fileutil"
	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/services"
)

// ExecFunc runs an external process. It matches ffmpeg.Exec so tests can
// substitute a fake.
type ExecFunc func(ctx context.Context, logger *slog.Logger, req ffmpeg.Request) (ffmpeg.Output, error)

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg          Config
	ffmpegBinary string
	workDir      string
	timeout      time.Duration
	grace        time.Duration
	logger       *slog.Logger
	exec         ExecFunc
}

// Option customizes a Service.
type Option func(*Service)

// WithExec overrides the process runner.
func WithExec(fn ExecFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.exec = fn
		}
	}
}

// WithTimeout bounds the transcription process; audio extraction shares it.
func WithTimeout(timeout, grace time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
		s.grace = grace
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logging.NewComponentLogger(logger, "whisperx")
	}
}

// NewService creates a WhisperX service. Intermediate audio and JSON output
// are written beneath workDir and removed after each call.
func NewService(cfg Config, ffmpegBinary, workDir string, opts ...Option) *Service {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	s := &Service{
		cfg:          cfg,
		ffmpegBinary: ffmpegBinary,
		workDir:      workDir,
		logger:       logging.NewNop(),
		exec:         ffmpeg.Exec,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// Word represents a single word with timing from WhisperX output.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

type payload struct {
	Segments []Segment `json:"segments"`
}

// Transcribe extracts the audio track of videoPath and returns the timed
// segments WhisperX produced, ordered by start time. Failures carry
// services.ErrTranscription (or ErrTimeout when the limit expired).
func (s *Service) Transcribe(ctx context.Context, videoPath string) ([]Segment, error) {
	if strings.TrimSpace(videoPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "input", "video path required", nil)
	}
	logger := logging.WithContext(ctx, s.logger)

	scratch := filepath.Join(s.workDir, "whisperx-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "workdir", "create scratch directory", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logging.WarnWithContext(logger, "failed to remove transcription scratch directory", "cleanup_warning",
				logging.String("path", scratch),
				logging.Error(err),
				logging.String(logging.FieldImpact, "intermediate audio left on disk"),
			)
		}
	}()

	wav := filepath.Join(scratch, "audio.wav")
	if _, err := s.exec(ctx, logger, ffmpeg.Request{
		Binary:    s.ffmpegBinary,
		Args:      ExtractArgs(videoPath, wav),
		Timeout:   s.timeout,
		Grace:     s.grace,
		Stage:     "transcribe",
		Operation: "extract audio",
	}); err != nil {
		return nil, tagTranscription(err)
	}

	started := time.Now()
	if _, err := s.exec(ctx, logger, ffmpeg.Request{
		Binary:    UVXCommand,
		Args:      s.buildArgs(wav, scratch),
		Env:       transcribeEnv(),
		Timeout:   s.timeout,
		Grace:     s.grace,
		Stage:     "transcribe",
		Operation: "whisperx",
	}); err != nil {
		return nil, tagTranscription(err)
	}

	segments, err := LoadSegments(filepath.Join(scratch, "audio.json"))
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "load", "read whisperx output", err)
	}
	logger.Info("transcription complete",
		logging.String("model", s.Model()),
		logging.Int("segments", len(segments)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return segments, nil
}

// tagTranscription keeps timeouts distinct and marks everything else as a
// transcription failure while preserving the original chain.
func tagTranscription(err error) error {
	if services.Kind(err) == "timeout" {
		return err
	}
	return fmt.Errorf("%w: %w", services.ErrTranscription, err)
}

// ExtractArgs builds the ffmpeg arguments that produce mono 16kHz PCM audio.
func ExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn", "-sn", "-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func transcribeEnv() []string {
	env := os.Environ()
	// Torch 2.6 defaults torch.load to weights_only, which breaks pyannote checkpoints.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	return env
}

func (s *Service) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 32)
	if s.cfg.CUDAEnabled {
		args = append(args, "--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := strings.ToLower(strings.TrimSpace(s.cfg.Language)); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

// LoadSegments loads segments from a WhisperX JSON file. Segments with empty
// text are dropped.
func LoadSegments(jsonPath string) ([]Segment, error) {
	if !fileutil.Exists(jsonPath) {
		return nil, fmt.Errorf("whisperx output %s: %w", jsonPath, os.ErrNotExist)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	segments := make([]Segment, 0, len(decoded.Segments))
	for _, seg := range decoded.Segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}
	slices.SortStableFunc(segments, func(a, b Segment) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return segments, nil
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the storage layout and log location.
type Paths struct {
	StorageRoot string `toml:"storage_root"`
	WorkingDir  string `toml:"working_dir"`
	LogDir      string `toml:"log_dir"`
}

// FFmpeg contains external binary names and per-invocation time limits.
type FFmpeg struct {
	FFmpegBinary          string `toml:"ffmpeg_binary"`
	FFprobeBinary         string `toml:"ffprobe_binary"`
	EncodeTimeoutSeconds  int    `toml:"encode_timeout_seconds"`
	ProbeTimeoutSeconds   int    `toml:"probe_timeout_seconds"`
	MotionTimeoutSeconds  int    `toml:"motion_timeout_seconds"`
	TerminateGraceSeconds int    `toml:"terminate_grace_seconds"`
}

// Trim contains settings for the fixed-window trim stage.
type Trim struct {
	DurationSeconds int    `toml:"duration_seconds"`
	Width           int    `toml:"width"`
	Preset          string `toml:"preset"`
	CRF             int    `toml:"crf"`
	AudioBitrate    string `toml:"audio_bitrate"`
}

// Reformat contains settings for the vertical reformat stage.
type Reformat struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	BlurRadius int    `toml:"blur_radius"`
	BlurPower  int    `toml:"blur_power"`
	Preset     string `toml:"preset"`
	CRF        int    `toml:"crf"`
}

// Filters contains encoder settings for the filter stage.
type Filters struct {
	Preset string `toml:"preset"`
	CRF    int    `toml:"crf"`
}

// Captions contains transcription and default subtitle styling settings.
type Captions struct {
	WhisperXModel           string `toml:"whisperx_model"`
	WhisperXCUDAEnabled     bool   `toml:"whisperx_cuda_enabled"`
	WhisperXVADMethod       string `toml:"whisperx_vad_method"`
	WhisperXHuggingFace     string `toml:"whisperx_hf_token"`
	Language                string `toml:"language"`
	TranscribeTimeoutSecond int    `toml:"transcribe_timeout_seconds"`
	Font                    string `toml:"font"`
	FontSize                int    `toml:"font_size"`
	BoldWeight              int    `toml:"bold_weight"`
	Color                   string `toml:"color"`
	Preset                  string `toml:"preset"`
	CRF                     int    `toml:"crf"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shortsmith.
//
// Configuration sections by subsystem:
//   - Paths: storage root (temp/ and shorts/ live beneath it), working dir, logs
//   - FFmpeg: binaries and timeouts for every external process
//   - Trim: highlight window length and encoder settings
//   - Reformat: vertical canvas and blur background settings
//   - Filters: encoder settings for look filters
//   - Captions: WhisperX transcription and default subtitle style
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Trim     Trim     `toml:"trim"`
	Reformat Reformat `toml:"reformat"`
	Filters  Filters  `toml:"filters"`
	Captions Captions `toml:"captions"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shortsmith.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// TempDir is where acquired source videos wait for the trim stage.
func (c *Config) TempDir() string {
	return filepath.Join(c.Paths.StorageRoot, "temp")
}

// ShortsDir is where every derived artifact is written.
func (c *Config) ShortsDir() string {
	return filepath.Join(c.Paths.StorageRoot, "shorts")
}

// LockDir holds the per-lineage lock files.
func (c *Config) LockDir() string {
	return filepath.Join(c.Paths.StorageRoot, "locks")
}

// DatabasePath returns the lineage store location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StorageRoot, "shortsmith.db")
}

// RelativePath maps an absolute artifact path to its storage-root relative form.
// Paths outside the storage root are returned unchanged.
func (c *Config) RelativePath(path string) string {
	rel, err := filepath.Rel(c.Paths.StorageRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// AbsolutePath resolves a storage-root relative artifact path.
func (c *Config) AbsolutePath(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Paths.StorageRoot, filepath.FromSlash(rel))
}

// EnsureDirectories creates the storage layout.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.TempDir(), c.ShortsDir(), c.LockDir(), c.Paths.WorkingDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EncodeTimeout bounds a single ffmpeg encode.
func (c *Config) EncodeTimeout() time.Duration {
	return time.Duration(c.FFmpeg.EncodeTimeoutSeconds) * time.Second
}

// ProbeTimeout bounds a single ffprobe inspection.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.FFmpeg.ProbeTimeoutSeconds) * time.Second
}

// MotionTimeout bounds the frame-difference scan over a full source.
func (c *Config) MotionTimeout() time.Duration {
	return time.Duration(c.FFmpeg.MotionTimeoutSeconds) * time.Second
}

// TerminateGrace is how long a cancelled process has between SIGTERM and SIGKILL.
func (c *Config) TerminateGrace() time.Duration {
	return time.Duration(c.FFmpeg.TerminateGraceSeconds) * time.Second
}

// TranscribeTimeout bounds a single WhisperX run.
func (c *Config) TranscribeTimeout() time.Duration {
	return time.Duration(c.Captions.TranscribeTimeoutSecond) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

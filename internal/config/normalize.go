package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeEncoders()
	c.normalizeCaptions()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("SHORTSMITH_STORAGE_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.StorageRoot = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StorageRoot) == "" {
		c.Paths.StorageRoot = defaultStorageRoot
	}
	var err error
	if c.Paths.StorageRoot, err = expandPath(c.Paths.StorageRoot); err != nil {
		return fmt.Errorf("paths.storage_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkingDir) == "" {
		c.Paths.WorkingDir = filepath.Join(c.Paths.StorageRoot, "working")
	}
	if c.Paths.WorkingDir, err = expandPath(c.Paths.WorkingDir); err != nil {
		return fmt.Errorf("paths.working_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	if c.FFmpeg.FFmpegBinary == "" {
		c.FFmpeg.FFmpegBinary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	if c.FFmpeg.EncodeTimeoutSeconds <= 0 {
		c.FFmpeg.EncodeTimeoutSeconds = defaultEncodeTimeoutSeconds
	}
	if c.FFmpeg.ProbeTimeoutSeconds <= 0 {
		c.FFmpeg.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}
	if c.FFmpeg.MotionTimeoutSeconds <= 0 {
		c.FFmpeg.MotionTimeoutSeconds = defaultMotionTimeoutSeconds
	}
	if c.FFmpeg.TerminateGraceSeconds <= 0 {
		c.FFmpeg.TerminateGraceSeconds = defaultTerminateGraceSeconds
	}
}

func (c *Config) normalizeEncoders() {
	c.Trim.Preset = strings.TrimSpace(c.Trim.Preset)
	if c.Trim.Preset == "" {
		c.Trim.Preset = defaultTrimPreset
	}
	c.Trim.AudioBitrate = strings.TrimSpace(c.Trim.AudioBitrate)
	if c.Trim.AudioBitrate == "" {
		c.Trim.AudioBitrate = defaultAudioBitrate
	}
	c.Reformat.Preset = strings.TrimSpace(c.Reformat.Preset)
	if c.Reformat.Preset == "" {
		c.Reformat.Preset = defaultReformatPreset
	}
	c.Filters.Preset = strings.TrimSpace(c.Filters.Preset)
	if c.Filters.Preset == "" {
		c.Filters.Preset = defaultFilterPreset
	}
	c.Captions.Preset = strings.TrimSpace(c.Captions.Preset)
	if c.Captions.Preset == "" {
		c.Captions.Preset = defaultFilterPreset
	}
}

func (c *Config) normalizeCaptions() {
	c.Captions.WhisperXModel = strings.TrimSpace(c.Captions.WhisperXModel)
	if c.Captions.WhisperXModel == "" {
		c.Captions.WhisperXModel = defaultWhisperXModel
	}
	c.Captions.WhisperXVADMethod = strings.ToLower(strings.TrimSpace(c.Captions.WhisperXVADMethod))
	if c.Captions.WhisperXVADMethod == "" {
		c.Captions.WhisperXVADMethod = defaultVADMethod
	}
	c.Captions.WhisperXHuggingFace = strings.TrimSpace(c.Captions.WhisperXHuggingFace)
	if c.Captions.WhisperXHuggingFace == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Captions.WhisperXHuggingFace = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Captions.WhisperXHuggingFace = strings.TrimSpace(value)
		}
	}
	c.Captions.Language = strings.ToLower(strings.TrimSpace(c.Captions.Language))
	if c.Captions.TranscribeTimeoutSecond <= 0 {
		c.Captions.TranscribeTimeoutSecond = defaultTranscribeTimeout
	}
	c.Captions.Font = strings.TrimSpace(c.Captions.Font)
	if c.Captions.Font == "" {
		c.Captions.Font = defaultCaptionFont
	}
	if c.Captions.FontSize <= 0 {
		c.Captions.FontSize = defaultCaptionFontSize
	}
	if c.Captions.BoldWeight == 0 {
		c.Captions.BoldWeight = defaultCaptionBoldWeight
	}
	c.Captions.Color = strings.TrimSpace(c.Captions.Color)
	if c.Captions.Color == "" {
		c.Captions.Color = defaultCaptionColor
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

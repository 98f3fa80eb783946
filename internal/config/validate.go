package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTrim(); err != nil {
		return err
	}
	if err := c.validateReformat(); err != nil {
		return err
	}
	if err := c.validateEncoderCRF(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StorageRoot == "" {
		return errors.New("paths.storage_root must be set")
	}
	if c.Paths.WorkingDir == c.ShortsDir() {
		return errors.New("paths.working_dir must differ from the shorts directory")
	}
	return nil
}

func (c *Config) validateTrim() error {
	if c.Trim.DurationSeconds <= 0 {
		return errors.New("trim.duration_seconds must be positive")
	}
	if c.Trim.Width <= 0 || c.Trim.Width%2 != 0 {
		return fmt.Errorf("trim.width must be a positive even number, got %d", c.Trim.Width)
	}
	return nil
}

func (c *Config) validateReformat() error {
	if c.Reformat.Width <= 0 || c.Reformat.Height <= 0 {
		return errors.New("reformat.width and reformat.height must be positive")
	}
	if c.Reformat.Width%2 != 0 || c.Reformat.Height%2 != 0 {
		return errors.New("reformat canvas dimensions must be even for yuv420p output")
	}
	if c.Reformat.BlurRadius < 0 || c.Reformat.BlurPower < 0 {
		return errors.New("reformat blur settings must not be negative")
	}
	return nil
}

func (c *Config) validateEncoderCRF() error {
	for name, crf := range map[string]int{
		"trim.crf":     c.Trim.CRF,
		"reformat.crf": c.Reformat.CRF,
		"filters.crf":  c.Filters.CRF,
		"captions.crf": c.Captions.CRF,
	} {
		if crf < 0 || crf > 51 {
			return fmt.Errorf("%s must be between 0 and 51, got %d", name, crf)
		}
	}
	return nil
}

func (c *Config) validateCaptions() error {
	switch c.Captions.WhisperXVADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("captions.whisperx_vad_method must be silero or pyannote, got %q", c.Captions.WhisperXVADMethod)
	}
	if c.Captions.BoldWeight < 100 || c.Captions.BoldWeight > 900 {
		return fmt.Errorf("captions.bold_weight must be between 100 and 900, got %d", c.Captions.BoldWeight)
	}
	return nil
}

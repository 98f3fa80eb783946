package config

const (
	defaultConfigPath            = "~/.config/shortsmith/config.toml"
	defaultStorageRoot           = "~/.local/share/shortsmith/media"
	defaultLogDir                = "~/.local/share/shortsmith/logs"
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultEncodeTimeoutSeconds  = 1800
	defaultProbeTimeoutSeconds   = 60
	defaultMotionTimeoutSeconds  = 3600
	defaultTerminateGraceSeconds = 10
	defaultTrimDurationSeconds   = 30
	defaultTrimWidth             = 1280
	defaultTrimPreset            = "fast"
	defaultCRF                   = 23
	defaultAudioBitrate          = "128k"
	defaultCanvasWidth           = 1080
	defaultCanvasHeight          = 1920
	defaultBlurRadius            = 50
	defaultBlurPower             = 5
	defaultReformatPreset        = "medium"
	defaultFilterPreset          = "fast"
	defaultWhisperXModel         = "base"
	defaultVADMethod             = "silero"
	defaultLanguage              = "en"
	defaultTranscribeTimeout     = 1800
	defaultCaptionFont           = "Impact"
	defaultCaptionFontSize       = 80
	defaultCaptionBoldWeight     = 400
	defaultCaptionColor          = "#FF0000"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageRoot: defaultStorageRoot,
			LogDir:      defaultLogDir,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:          defaultFFmpegBinary,
			FFprobeBinary:         defaultFFprobeBinary,
			EncodeTimeoutSeconds:  defaultEncodeTimeoutSeconds,
			ProbeTimeoutSeconds:   defaultProbeTimeoutSeconds,
			MotionTimeoutSeconds:  defaultMotionTimeoutSeconds,
			TerminateGraceSeconds: defaultTerminateGraceSeconds,
		},
		Trim: Trim{
			DurationSeconds: defaultTrimDurationSeconds,
			Width:           defaultTrimWidth,
			Preset:          defaultTrimPreset,
			CRF:             defaultCRF,
			AudioBitrate:    defaultAudioBitrate,
		},
		Reformat: Reformat{
			Width:      defaultCanvasWidth,
			Height:     defaultCanvasHeight,
			BlurRadius: defaultBlurRadius,
			BlurPower:  defaultBlurPower,
			Preset:     defaultReformatPreset,
			CRF:        defaultCRF,
		},
		Filters: Filters{
			Preset: defaultFilterPreset,
			CRF:    defaultCRF,
		},
		Captions: Captions{
			WhisperXModel:           defaultWhisperXModel,
			WhisperXVADMethod:       defaultVADMethod,
			Language:                defaultLanguage,
			TranscribeTimeoutSecond: defaultTranscribeTimeout,
			Font:                    defaultCaptionFont,
			FontSize:                defaultCaptionFontSize,
			BoldWeight:              defaultCaptionBoldWeight,
			Color:                   defaultCaptionColor,
			Preset:                  defaultFilterPreset,
			CRF:                     defaultCRF,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"shortsmith/internal/artifact"
	"shortsmith/internal/fileutil"
	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/services"
)

// Trim cuts duration seconds from sourcePath starting at startSecond into
// shorts/<stem>.mp4, where stem is the sanitized source name. A duration of
// zero uses the configured default. The source is deleted after success
// and preserved on failure.
func (s *Stages) Trim(ctx context.Context, sourcePath string, startSecond, duration int) (string, error) {
	logger := s.stageLogger(ctx, "trim")
	if startSecond < 0 {
		return "", services.Wrap(services.ErrValidation, "trim", "input", fmt.Sprintf("start second %d is negative", startSecond), nil)
	}
	if duration <= 0 {
		duration = s.cfg.Trim.DurationSeconds
	}
	if err := requireFile("trim", sourcePath); err != nil {
		return "", err
	}

	outDir := s.cfg.ShortsDir()
	stem := artifact.SanitizeStem(artifact.Parse(sourcePath).Stem)
	output := filepath.Join(outDir, artifact.Name{Stem: stem, Ext: artifact.DefaultExt}.String())
	tmp := fileutil.TempPath(outDir, ".trim-", artifact.DefaultExt)

	if _, err := s.runner.Run(ctx, "trim", "encode", TrimArgs(sourcePath, tmp, startSecond, duration, s.encodeTrim(), s.cfg.Trim.Width)...); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial trim output left in shorts directory")
		return "", err
	}
	if err := fileutil.ReplaceFile(tmp, output); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial trim output left in shorts directory")
		return "", services.Wrap(services.ErrExternalTool, "trim", "finalize", "move trimmed clip into place", err)
	}
	if filepath.Clean(sourcePath) != filepath.Clean(output) {
		fileutil.RemoveBestEffort(logger, sourcePath, "source copy remains in temp directory")
	}

	logger.Info("trim complete",
		logging.String("output", s.cfg.RelativePath(output)),
		logging.Int("start_second", startSecond),
		logging.Int("duration", duration),
	)
	return output, nil
}

func (s *Stages) encodeTrim() ffmpeg.EncodeArgs {
	return ffmpeg.EncodeArgs{
		Preset:       s.cfg.Trim.Preset,
		CRF:          s.cfg.Trim.CRF,
		AudioCodec:   "aac",
		AudioBitrate: s.cfg.Trim.AudioBitrate,
	}
}

// TrimArgs builds the ffmpeg arguments for a fixed window re-encode scaled to
// width with an even height.
func TrimArgs(source, dest string, startSecond, duration int, enc ffmpeg.EncodeArgs, width int) []string {
	args := []string{
		"-y",
		"-ss", ffmpeg.FormatSeconds(float64(startSecond)),
		"-i", source,
		"-t", ffmpeg.FormatSeconds(float64(duration)),
		"-vf", fmt.Sprintf("scale=%d:-2", width),
	}
	args = append(args, enc.Video()...)
	args = append(args, enc.Audio()...)
	return append(args, dest)
}

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"shortsmith/internal/artifact"
	"shortsmith/internal/fileutil"
	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/services"
	"shortsmith/internal/services/whisperx"
	"shortsmith/internal/subtitles"
)

// ApplyCaptions transcribes currentPath, renders the segments as an ASS
// track in the working directory and burns it into <stem>_subtitled<ext>.
// The ASS file is removed on every exit path; the input is kept.
func (s *Stages) ApplyCaptions(ctx context.Context, currentPath string, style subtitles.Style) (string, error) {
	logger := s.stageLogger(ctx, "caption")
	if err := style.Validate(); err != nil {
		return "", err
	}
	if err := requireFile("caption", currentPath); err != nil {
		return "", err
	}

	segments, err := s.transcriber.Transcribe(ctx, currentPath)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		logging.WarnWithContext(logger, "no speech detected; burning an empty caption track", "captions_empty",
			logging.String("input", s.cfg.RelativePath(currentPath)),
			logging.String(logging.FieldImpact, "captioned output will have no visible text"),
		)
	}

	assPath, lines, err := s.writeTrack(style, segments)
	if assPath != "" {
		defer fileutil.RemoveBestEffort(logger, assPath, "subtitle track left in working directory")
	}
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(currentPath)
	name := artifact.Parse(currentPath).WithSubtitles()
	output := filepath.Join(dir, name.String())
	tmp := fileutil.TempPath(dir, ".caption-", name.Ext)

	enc := ffmpeg.EncodeArgs{Preset: s.cfg.Captions.Preset, CRF: s.cfg.Captions.CRF}
	if _, err := s.runner.Run(ctx, "caption", "burn", CaptionArgs(currentPath, tmp, assPath, enc)...); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial captioned output left beside the input")
		return "", err
	}
	if err := fileutil.ReplaceFile(tmp, output); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial captioned output left beside the input")
		return "", services.Wrap(services.ErrExternalTool, "caption", "finalize", "move captioned clip into place", err)
	}

	logger.Info("captions burned",
		logging.String("output", s.cfg.RelativePath(output)),
		logging.Int("segments", lines),
		logging.String("font", style.Font),
		logging.Bool("bold", subtitles.IsBold(style.BoldWeight)),
	)
	return output, nil
}

func (s *Stages) writeTrack(style subtitles.Style, segments []whisperx.Segment) (string, int, error) {
	if err := os.MkdirAll(s.cfg.Paths.WorkingDir, 0o755); err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "caption", "track", "ensure working directory", err)
	}
	path := fileutil.TempPath(s.cfg.Paths.WorkingDir, "captions-", ".ass")
	file, err := os.Create(path)
	if err != nil {
		return "", 0, services.Wrap(services.ErrExternalTool, "caption", "track", "create subtitle track", err)
	}

	canvas := subtitles.Canvas{Width: s.cfg.Reformat.Width, Height: s.cfg.Reformat.Height}
	lines, renderErr := subtitles.RenderASS(file, style, canvas, captionSegments(segments))
	closeErr := file.Close()
	if renderErr != nil {
		return path, 0, renderErr
	}
	if closeErr != nil {
		return path, 0, services.Wrap(services.ErrExternalTool, "caption", "track", "write subtitle track", closeErr)
	}
	return path, lines, nil
}

func captionSegments(segments []whisperx.Segment) []subtitles.Segment {
	out := make([]subtitles.Segment, 0, len(segments))
	for _, seg := range segments {
		out = append(out, subtitles.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return out
}

// CaptionArgs builds the ffmpeg arguments that burn assPath into input.
func CaptionArgs(input, dest, assPath string, enc ffmpeg.EncodeArgs) []string {
	args := []string{"-y", "-i", input, "-vf", fmt.Sprintf("ass=%s", subtitles.FilterPath(assPath))}
	args = append(args, enc.Video()...)
	args = append(args, enc.Audio()...)
	return append(args, dest)
}

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"shortsmith/internal/artifact"
	"shortsmith/internal/fileutil"
	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/services"
)

// Composition is the reformat strategy chosen from the input's shape.
type Composition string

const (
	// CompositionBlurred overlays the letterboxed source on a blurred,
	// cropped copy of itself. Used when width >= height.
	CompositionBlurred Composition = "blurred_background"
	// CompositionScale scales an already tall source onto the canvas.
	CompositionScale Composition = "scale"
)

// Canvas describes the vertical output and its background blur.
type Canvas struct {
	Width      int
	Height     int
	BlurRadius int
	BlurPower  int
}

// ChooseComposition picks the strategy for a source of the given size.
func ChooseComposition(width, height int) Composition {
	if width >= height {
		return CompositionBlurred
	}
	return CompositionScale
}

// ReformatGraph returns the filter expression for the composition.
func ReformatGraph(c Composition, canvas Canvas) string {
	w, h := canvas.Width, canvas.Height
	if c == CompositionScale {
		return fmt.Sprintf("scale=%d:%d,format=yuv420p", w, h)
	}
	return fmt.Sprintf(
		"split=2[main][bg];"+
			"[bg]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,boxblur=%d:%d[bgb];"+
			"[main]scale=%d:%d:force_original_aspect_ratio=decrease[fg];"+
			"[bgb][fg]overlay=(W-w)/2:(H-h)/2,format=yuv420p",
		w, h, w, h, canvas.BlurRadius, canvas.BlurPower, w, h,
	)
}

// ReformatArgs builds the ffmpeg arguments for the vertical reformat.
func ReformatArgs(input, dest string, c Composition, canvas Canvas, enc ffmpeg.EncodeArgs) []string {
	args := []string{"-y", "-i", input}
	if c == CompositionBlurred {
		args = append(args, "-filter_complex", ReformatGraph(c, canvas))
	} else {
		args = append(args, "-vf", ReformatGraph(c, canvas))
	}
	args = append(args, enc.Video()...)
	args = append(args, enc.Audio()...)
	return append(args, dest)
}

// ReformatVertical re-encodes inputPath onto the vertical canvas and
// replaces it. The returned path is the input's slot with an .mp4 extension.
func (s *Stages) ReformatVertical(ctx context.Context, inputPath string) (string, error) {
	logger := s.stageLogger(ctx, "reformat")
	if err := requireFile("reformat", inputPath); err != nil {
		return "", err
	}

	probe, err := s.prober.Inspect(ctx, inputPath)
	if err != nil {
		return "", err
	}
	width, height, ok := probe.VideoDimensions()
	if !ok {
		return "", services.Wrap(services.ErrExternalTool, "reformat", "probe", fmt.Sprintf("no video stream dimensions in %s", inputPath), nil)
	}

	canvas := Canvas{
		Width:      s.cfg.Reformat.Width,
		Height:     s.cfg.Reformat.Height,
		BlurRadius: s.cfg.Reformat.BlurRadius,
		BlurPower:  s.cfg.Reformat.BlurPower,
	}
	composition := ChooseComposition(width, height)
	enc := ffmpeg.EncodeArgs{Preset: s.cfg.Reformat.Preset, CRF: s.cfg.Reformat.CRF}

	dir := filepath.Dir(inputPath)
	name := artifact.Parse(inputPath)
	name.Ext = artifact.DefaultExt
	canonical := filepath.Join(dir, name.String())
	tmp := filepath.Join(dir, "resized_temp_"+uuid.NewString()[:8]+artifact.DefaultExt)

	if _, err := s.runner.Run(ctx, "reformat", "encode", ReformatArgs(inputPath, tmp, composition, canvas, enc)...); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial reformat output left beside the input")
		return "", err
	}
	if err := fileutil.ReplaceFile(tmp, canonical); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial reformat output left beside the input")
		return "", services.Wrap(services.ErrExternalTool, "reformat", "finalize", "move reformatted clip into place", err)
	}
	if filepath.Clean(canonical) != filepath.Clean(inputPath) {
		fileutil.RemoveBestEffort(logger, inputPath, "pre-reformat clip remains beside the output")
	}

	logger.Info("reformat complete",
		logging.String("output", s.cfg.RelativePath(canonical)),
		logging.String("composition", string(composition)),
		logging.Int("source_width", width),
		logging.Int("source_height", height),
	)
	return canonical, nil
}

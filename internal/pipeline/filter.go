package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"shortsmith/internal/artifact"
	"shortsmith/internal/fileutil"
	"shortsmith/internal/filters"
	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/services"
)

// FilterRequest names the artifact to filter and, when known, the recorded
// unfiltered base it descends from.
type FilterRequest struct {
	Current string
	Base    string
	Filter  string
}

// ApplyFilter renders <base-stem>_filter_<name> next to the current
// artifact. Filters always start from the unfiltered base so they never
// stack, an existing output for the same filter is returned without
// re-encoding, and other filtered variants of the base are removed once the
// new one is ready.
func (s *Stages) ApplyFilter(ctx context.Context, req FilterRequest) (string, error) {
	entry, ok := filters.Lookup(req.Filter)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "filter", "lookup", fmt.Sprintf("unknown filter %q", req.Filter), nil)
	}
	logger := s.stageLogger(ctx, "filter").With(logging.String("filter", entry.Name))

	base, err := artifact.ResolveBase(req.Current, req.Base, s.cfg.Paths.WorkingDir)
	if err != nil {
		return "", err
	}

	outDir := filepath.Dir(req.Current)
	baseName := artifact.Parse(base).Base()
	output := filepath.Join(outDir, baseName.WithFilter(entry.Name).String())
	if fileutil.Exists(output) {
		removeStaleVariants(logger, outDir, baseName.Stem, output)
		logger.Info("filter output already present; skipping encode", logging.String("output", s.cfg.RelativePath(output)))
		return output, nil
	}

	tmp := fileutil.TempPath(outDir, ".filter-", baseName.Ext)
	enc := ffmpeg.EncodeArgs{Preset: s.cfg.Filters.Preset, CRF: s.cfg.Filters.CRF}
	if _, err := s.runner.Run(ctx, "filter", "encode", FilterArgs(base, tmp, entry.Graph, enc)...); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial filter output left in shorts directory")
		return "", err
	}

	removeStaleVariants(logger, outDir, baseName.Stem, output)
	if err := fileutil.ReplaceFile(tmp, output); err != nil {
		fileutil.RemoveBestEffort(logger, tmp, "partial filter output left in shorts directory")
		return "", services.Wrap(services.ErrExternalTool, "filter", "finalize", "move filtered clip into place", err)
	}

	logger.Info("filter applied",
		logging.String("base", s.cfg.RelativePath(base)),
		logging.String("output", s.cfg.RelativePath(output)),
		logging.Bool("filter_complex", entry.MultiNode()),
	)
	return output, nil
}

// removeStaleVariants deletes every filtered variant of stem in dir except keep.
func removeStaleVariants(logger *slog.Logger, dir, stem, keep string) {
	variants, err := artifact.FilteredVariants(dir, stem)
	if err != nil {
		logging.WarnWithContext(logger, "failed to list filtered variants", "cleanup_warning",
			logging.String("dir", dir),
			logging.Error(err),
			logging.String(logging.FieldImpact, "older filtered variants may remain"),
		)
		return
	}
	for _, variant := range variants {
		if variant == keep {
			continue
		}
		fileutil.RemoveBestEffort(logger, variant, "stale filtered variant remains beside the new output")
	}
}

// FilterArgs builds the ffmpeg arguments for a look filter. Multi-node
// graphs go through -filter_complex and map their [out] pad plus any audio.
func FilterArgs(input, dest, graph string, enc ffmpeg.EncodeArgs) []string {
	args := []string{"-y", "-i", input}
	if filters.IsGraph(graph) {
		args = append(args, "-filter_complex", graph, "-map", filters.GraphOutputLabel, "-map", "0:a?")
	} else {
		args = append(args, "-vf", graph)
	}
	args = append(args, enc.Video()...)
	args = append(args, enc.Audio()...)
	return append(args, dest)
}

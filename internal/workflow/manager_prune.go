package workflow

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"shortsmith/internal/artifact"
	"shortsmith/internal/logging"
	"shortsmith/internal/staging"
	"shortsmith/internal/store"
)

// MinPruneAge is the smallest age Prune accepts. Younger files may belong
// to a convert that has not recorded them yet.
const MinPruneAge = time.Minute

// Prune removes scratch files older than maxAge from the shorts, working
// and temp directories, plus temp/ sources that no video still waits on.
// maxAge is raised to MinPruneAge.
func (m *Manager) Prune(ctx context.Context, maxAge time.Duration) (staging.CleanResult, error) {
	maxAge = max(maxAge, MinPruneAge)
	pending, err := m.store.List(ctx, store.StateCreated)
	if err != nil {
		return staging.CleanResult{}, err
	}
	// Convert stages its copy as <stem><ext> before recording SourcePath, so
	// the stem derived from the record is protected too.
	active := make(map[string]struct{}, 2*len(pending))
	for _, video := range pending {
		active[artifact.NewStem(video.SourceID, video.ID)] = struct{}{}
		if video.SourcePath != "" {
			base := filepath.Base(video.SourcePath)
			active[strings.TrimSuffix(base, filepath.Ext(base))] = struct{}{}
		}
	}

	logger := logging.WithContext(ctx, m.logger).With(logging.String(logging.FieldStage, "prune"))
	var result staging.CleanResult
	for _, dir := range []string{m.cfg.ShortsDir(), m.cfg.Paths.WorkingDir, m.cfg.TempDir()} {
		result.Merge(staging.CleanStale(ctx, dir, maxAge, logger))
	}
	result.Merge(staging.CleanOrphaned(ctx, m.cfg.TempDir(), active, maxAge, logger))

	logger.Info("prune complete",
		logging.String(logging.FieldEventType, "prune_complete"),
		logging.Int("removed", len(result.Removed)),
		logging.Int("errors", len(result.Errors)),
	)
	return result, ctx.Err()
}

// Package staging reclaims scratch files left behind when a run is killed
// between an encode starting and its rename into place.
package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shortsmith/internal/logging"
)

// ScratchPatterns match the temporary names the stages and the
// transcriber create beside their outputs.
var ScratchPatterns = []string{
	".trim-*",
	".filter-*",
	".caption-*",
	"resized_temp_*",
	"captions-*.ass",
	"whisperx-*",
}

// CleanResult contains the outcome of a cleanup pass.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Merge appends other's entries to r.
func (r *CleanResult) Merge(other CleanResult) {
	r.Removed = append(r.Removed, other.Removed...)
	r.Errors = append(r.Errors, other.Errors...)
}

// CleanStale removes scratch entries in dir that match ScratchPatterns and
// are older than maxAge.
func CleanStale(ctx context.Context, dir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	return clean(ctx, dir, maxAge, logger, "stale scratch file", func(name string) bool {
		return IsScratch(name)
	})
}

// CleanOrphaned removes files in tempDir older than maxAge whose stem (name
// without extension) is not in active.
func CleanOrphaned(ctx context.Context, tempDir string, active map[string]struct{}, maxAge time.Duration, logger *slog.Logger) CleanResult {
	return clean(ctx, tempDir, maxAge, logger, "orphaned source copy", func(name string) bool {
		_, keep := active[strings.TrimSuffix(name, filepath.Ext(name))]
		return !keep
	})
}

// IsScratch reports whether name matches one of ScratchPatterns.
func IsScratch(name string) bool {
	for _, pattern := range ScratchPatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func clean(ctx context.Context, dir string, maxAge time.Duration, logger *slog.Logger, what string, match func(string) bool) CleanResult {
	result := CleanResult{}
	if logger == nil {
		logger = logging.NewNop()
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if !match(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logging.WarnWithContext(logger, "failed to remove "+what, "cleanup_warning",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check storage_root permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, path)
		logger.Info("removed "+what,
			logging.String("path", path),
			logging.Duration("age", time.Since(info.ModTime())),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}

	return result
}

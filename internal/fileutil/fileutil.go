// Package fileutil holds the small file moves shared by the pipeline stages:
// copying sources into the working area, atomic replacement of finished
// encodes, and best-effort removal of intermediates.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"shortsmith/internal/logging"
)

// CopyFile streams src to dst with 0o644 permissions, creating dst's parent directory.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("ensure directory for %s: %w", dst, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}

// TempPath returns a unique sibling path inside dir, e.g. ".trim-<uuid>.mp4".
func TempPath(dir, prefix, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s%s", prefix, uuid.NewString(), ext))
}

// ReplaceFile renames src over dst. Both paths must be on the same filesystem.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// Exists reports whether path names a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveBestEffort deletes path and logs a cleanup warning on failure.
// A missing file is not an error.
func RemoveBestEffort(logger *slog.Logger, path, impact string) bool {
	if path == "" {
		return true
	}
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return true
	}
	logging.WarnWithContext(logger, "failed to remove file", "cleanup_warning",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check file permissions and remove it manually"),
		logging.String(logging.FieldImpact, impact),
	)
	return false
}

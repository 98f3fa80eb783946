package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shortsmith/internal/logging"
)

func touch(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOnlyOldScratch(t *testing.T) {
	dir := t.TempDir()
	oldTrim := filepath.Join(dir, ".trim-1234.mp4")
	oldResize := filepath.Join(dir, "resized_temp_abcd1234.mp4")
	recent := filepath.Join(dir, ".filter-5678.mp4")
	output := filepath.Join(dir, "short_a_1.mp4")
	touch(t, oldTrim, 2*time.Hour)
	touch(t, oldResize, 2*time.Hour)
	touch(t, recent, time.Minute)
	touch(t, output, 48*time.Hour)

	oldScratchDir := filepath.Join(dir, "whisperx-0000")
	if err := os.Mkdir(oldScratchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(oldScratchDir, "audio.wav"), 2*time.Hour)
	stamp := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldScratchDir, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
	if len(result.Removed) != 3 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, gone := range []string{oldTrim, oldResize, oldScratchDir} {
		if _, err := os.Stat(gone); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", gone)
		}
	}
	for _, kept := range []string{recent, output} {
		if _, err := os.Stat(kept); err != nil {
			t.Errorf("%s should remain: %v", kept, err)
		}
	}
}

func TestCleanOrphanedKeepsActiveSources(t *testing.T) {
	dir := t.TempDir()
	active := filepath.Join(dir, "short_a_1.mp4")
	orphan := filepath.Join(dir, "short_b_2.mp4")
	fresh := filepath.Join(dir, "short_c_3.mp4")
	touch(t, active, 48*time.Hour)
	touch(t, orphan, 48*time.Hour)
	touch(t, fresh, time.Second)

	result := CleanOrphaned(context.Background(), dir, map[string]struct{}{"short_a_1": {}}, time.Hour, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != orphan {
		t.Fatalf("unexpected removals: %v", result.Removed)
	}
	if _, err := os.Stat(active); err != nil {
		t.Fatal("active source must be kept")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("recent files are never orphan candidates")
	}
}

func TestIsScratch(t *testing.T) {
	cases := map[string]bool{
		".trim-x.mp4":          true,
		".caption-x.mov":       true,
		"captions-abc.ass":     true,
		"captions-abc.srt":     false,
		"whisperx-1":           true,
		"short_a_1_filter.mp4": false,
	}
	for name, want := range cases {
		if got := IsScratch(name); got != want {
			t.Errorf("IsScratch(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCleanStaleStopsOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, ".trim-1.mp4"), 2*time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if result := CleanStale(ctx, dir, time.Hour, logging.NewNop()); len(result.Removed) != 0 {
		t.Fatalf("cancelled cleanup removed %v", result.Removed)
	}
}

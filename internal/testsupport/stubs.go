package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteScript writes an executable /bin/sh script and returns its path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

// EncoderScript returns an ffmpeg stub body that appends its arguments to
// logPath and writes them into the output file (the last argument). When
// failMarker exists on disk the stub exits 1 without producing output.
func EncoderScript(logPath, failMarker string) string {
	return fmt.Sprintf(`for last; do :; done
echo "$*" >> %q
if [ -e %q ]; then
  echo "stub encoder failure" >&2
  exit 1
fi
printf '%%s\n' "$*" > "$last"
`, logPath, failMarker)
}

// MediaScript extends EncoderScript for runs that write to stdout: when the
// last argument is "-" it prints one signalstats YAVG line per score instead
// of creating a file.
func MediaScript(logPath, failMarker string, frameScores []float64) string {
	var frames strings.Builder
	for i, score := range frameScores {
		fmt.Fprintf(&frames, "frame:%d pts:%d pts_time:%d\nlavfi.signalstats.YAVG=%g\n", i, i, i, score)
	}
	return fmt.Sprintf(`for last; do :; done
echo "$*" >> %q
if [ -e %q ]; then
  echo "stub encoder failure" >&2
  exit 1
fi
if [ "$last" = "-" ]; then
  cat <<'FRAMES'
%sFRAMES
  exit 0
fi
printf '%%s\n' "$*" > "$last"
`, logPath, failMarker, frames.String())
}

// ProbeScript returns an ffprobe stub body reporting a single video stream.
func ProbeScript(width, height int, rate string) string {
	return fmt.Sprintf(`cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","width":%d,"height":%d,"r_frame_rate":%q}],"format":{"duration":"120.0"}}
JSON
`, width, height, rate)
}

// ReadLines returns the non-empty lines of path, or nil when it does not exist.
func ReadLines(t testing.TB, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

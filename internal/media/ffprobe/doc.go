// Package ffprobe wraps ffprobe's JSON output with helpers for the values
// the pipeline needs: duration, canvas dimensions and frame rate.
package ffprobe

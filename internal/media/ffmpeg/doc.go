// Package ffmpeg runs external media processes.
//
// Exec is the single place where shortsmith starts a child process: ffmpeg
// encodes, ffprobe inspections and WhisperX transcription all pass through it
// so they share timeout handling, SIGTERM-first cancellation and error
// classification. Runner adds the ffmpeg-specific defaults on top.
package ffmpeg

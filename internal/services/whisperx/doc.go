// Package whisperx runs WhisperX through uvx and decodes its JSON segments.
//
// Transcribe is used twice in the pipeline: the highlight selector turns
// segment boundaries into speech intervals, and the caption stage renders
// the segment text into an ASS track.
package whisperx

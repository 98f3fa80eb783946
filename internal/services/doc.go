// Package services holds the shared error taxonomy and context annotations
// used by every pipeline stage.
//
// Stage code tags failures with one of the sentinel markers (validation,
// not found, external tool, timeout, transcription) through Wrap so callers
// can decide with errors.Is whether to fix the input or retry. Subpackages
// wrap the external tools the pipeline shells out to.
package services

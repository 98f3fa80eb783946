package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"shortsmith/internal/services"
	"shortsmith/internal/store"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type videoJSON struct {
	ID          int64  `json:"id"`
	SourceID    string `json:"source_id"`
	Title       string `json:"title,omitempty"`
	Stem        string `json:"stem,omitempty"`
	State       string `json:"state"`
	SourcePath  string `json:"source_path,omitempty"`
	BasePath    string `json:"base_path,omitempty"`
	CurrentPath string `json:"current_path,omitempty"`
	FilterName  string `json:"filter,omitempty"`
	Captioned   bool   `json:"captioned"`
	StartSecond int    `json:"start_second"`
	LastError   string `json:"last_error,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toVideoJSON(v *store.Video) videoJSON {
	return videoJSON{
		ID:          v.ID,
		SourceID:    v.SourceID,
		Title:       v.Title,
		Stem:        v.Stem,
		State:       string(v.State),
		SourcePath:  v.SourcePath,
		BasePath:    v.BasePath,
		CurrentPath: v.CurrentPath,
		FilterName:  v.FilterName,
		Captioned:   v.Captioned,
		StartSecond: v.StartSecond,
		LastError:   v.LastError,
		ErrorKind:   v.ErrorKind,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type errorJSON struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Retryable bool   `json:"retryable"`
}

// reportResult prints video as JSON or text, or the error as JSON when
// --json is set. The original error is always returned for the exit code.
func reportResult(cmd *cobra.Command, ctx *commandContext, video *store.Video, runErr error, text func()) error {
	if ctx.jsonOutput() {
		if runErr != nil {
			payload := struct {
				errorJSON
				Video *videoJSON `json:"video,omitempty"`
			}{errorJSON: errorJSON{Error: runErr.Error(), Kind: services.Kind(runErr), Retryable: services.Retryable(runErr)}}
			if video != nil {
				v := toVideoJSON(video)
				payload.Video = &v
			}
			if err := writeJSON(cmd, payload); err != nil {
				return err
			}
			return runErr
		}
		return writeJSON(cmd, toVideoJSON(video))
	}
	if runErr != nil {
		return runErr
	}
	text()
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortsmith/internal/deps"
	"shortsmith/internal/services"
)

type depJSON struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Optional  bool   `json:"optional"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that ffmpeg, ffprobe and uvx are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			missing := deps.Missing(statuses)

			if ctx.jsonOutput() {
				payload := make([]depJSON, 0, len(statuses))
				for _, s := range statuses {
					payload = append(payload, depJSON{
						Name:      s.Name,
						Command:   s.Command,
						Optional:  s.Optional,
						Available: s.Available,
						Path:      s.Path,
						Detail:    s.Detail,
					})
				}
				if err := writeJSON(cmd, payload); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Dependencies", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, s := range statuses {
					fmt.Fprintln(out, renderStatusLine(s.Name, depKind(s), depMessage(s), colorize))
				}
			}

			if len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "deps", "check", fmt.Sprintf("%d required binaries missing", len(missing)), nil)
			}
			return nil
		},
	}
}

func depKind(s deps.Status) statusKind {
	switch {
	case s.Available:
		return statusOK
	case s.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func depMessage(s deps.Status) string {
	if s.Available {
		return s.Path
	}
	if s.Optional {
		return s.Detail + " (optional: " + s.Description + ")"
	}
	return s.Detail
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shortsmith/internal/workflow"
)

type intervalJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type highlightJSON struct {
	Source        string         `json:"source"`
	StartSecond   int            `json:"start_second"`
	FPS           float64        `json:"fps"`
	MotionSeconds int            `json:"motion_seconds"`
	Speech        []intervalJSON `json:"speech"`
}

func newHighlightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "highlight <file>",
		Short: "Report where a short would start without converting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(cmd, func(runCtx context.Context, mgr *workflow.Manager) error {
				result, err := mgr.Highlight(runCtx, args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					payload := highlightJSON{
						Source:        args[0],
						StartSecond:   result.StartSecond,
						FPS:           result.FPS,
						MotionSeconds: len(result.Motion),
						Speech:        make([]intervalJSON, 0, len(result.Speech)),
					}
					for _, interval := range result.Speech {
						payload.Speech = append(payload.Speech, intervalJSON{Start: interval.Start, End: interval.End})
					}
					return writeJSON(cmd, payload)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Start second: %d\n", result.StartSecond)
				fmt.Fprintf(out, "Speech intervals: %d\n", len(result.Speech))
				fmt.Fprintf(out, "Motion seconds: %d (%.3g fps)\n", len(result.Motion), result.FPS)
				return nil
			})
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shortsmith/internal/store"
	"shortsmith/internal/workflow"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var req workflow.ConvertRequest

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Create a vertical short from a local video",
		Long: "Copies the video into temp/, picks the highlight window from speech and motion,\n" +
			"then trims and reformats it onto the vertical canvas under shorts/.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.SourcePath = args[0]
			return ctx.withManager(cmd, func(runCtx context.Context, mgr *workflow.Manager) error {
				video, err := mgr.Convert(runCtx, req)
				return reportResult(cmd, ctx, video, err, func() {
					printStageResult(cmd, "Converted", video)
					fmt.Fprintf(cmd.OutOrStdout(), "Start second: %d\n", video.StartSecond)
				})
			})
		},
	}

	cmd.Flags().StringVar(&req.SourceID, "source-id", "", "Identifier used in the output name (defaults to the file name)")
	cmd.Flags().StringVar(&req.Title, "title", "", "Human readable title")
	cmd.Flags().IntVar(&req.Duration, "duration", 0, "Clip length in seconds (defaults to trim.duration_seconds)")
	return cmd
}

func printStageResult(cmd *cobra.Command, verb string, video *store.Video) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s video %d (%s): %s\n", verb, video.ID, video.State, video.CurrentPath)
}

package main

import (
	"context"

	"github.com/spf13/cobra"

	"shortsmith/internal/workflow"
)

func newFilterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <id> <name>",
		Short: "Apply a look filter to a video's unfiltered base",
		Long: "Renders <stem>_filter_<name> from the video's base clip. Filters replace each\n" +
			"other rather than stacking; see `shortsmith filters` for names.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			return ctx.withManager(cmd, func(runCtx context.Context, mgr *workflow.Manager) error {
				video, err := mgr.ApplyFilter(runCtx, id, args[1])
				return reportResult(cmd, ctx, video, err, func() {
					printStageResult(cmd, "Filtered", video)
				})
			})
		},
	}
}

func newCaptionCommand(ctx *commandContext) *cobra.Command {
	var (
		font   string
		size   int
		weight int
		color  string
	)

	cmd := &cobra.Command{
		Use:   "caption <id>",
		Short: "Transcribe and burn captions into a video's current clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			style := workflow.DefaultStyle(cfg)
			flags := cmd.Flags()
			if flags.Changed("font") {
				style.Font = font
			}
			if flags.Changed("size") {
				style.FontSize = size
			}
			if flags.Changed("weight") {
				style.BoldWeight = weight
			}
			if flags.Changed("color") {
				style.Color = color
			}
			return ctx.withManager(cmd, func(runCtx context.Context, mgr *workflow.Manager) error {
				video, err := mgr.ApplyCaptions(runCtx, id, style)
				return reportResult(cmd, ctx, video, err, func() {
					printStageResult(cmd, "Captioned", video)
				})
			})
		},
	}

	cmd.Flags().StringVar(&font, "font", "", "Caption font family (defaults to captions.font)")
	cmd.Flags().IntVar(&size, "size", 0, "Font size in pixels (defaults to captions.font_size)")
	cmd.Flags().IntVar(&weight, "weight", 0, "Font weight 100-900; 700 and above renders bold")
	cmd.Flags().StringVar(&color, "color", "", "Text colour as #RRGGBB (defaults to captions.color)")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shortsmith/internal/workflow"
)

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove scratch files left by interrupted runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(cmd, func(runCtx context.Context, mgr *workflow.Manager) error {
				result, err := mgr.Prune(runCtx, maxAge)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					failed := make([]string, 0, len(result.Errors))
					for _, e := range result.Errors {
						failed = append(failed, fmt.Sprintf("%s: %v", e.Path, e.Error))
					}
					return writeJSON(cmd, map[string][]string{"removed": result.Removed, "errors": failed})
				}
				out := cmd.OutOrStdout()
				for _, path := range result.Removed {
					fmt.Fprintf(out, "removed %s\n", path)
				}
				for _, e := range result.Errors {
					fmt.Fprintf(out, "failed %s: %v\n", e.Path, e.Error)
				}
				fmt.Fprintf(out, "Pruned %d entries\n", len(result.Removed))
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Only remove entries older than this")
	return cmd
}

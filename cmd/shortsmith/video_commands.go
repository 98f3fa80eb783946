package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shortsmith/internal/services"
	"shortsmith/internal/store"
	"shortsmith/internal/workflow"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var stateFlags []string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List videos and their lineage state",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := parseStates(stateFlags)
			if err != nil {
				return err
			}
			return ctx.withManager(cmd, func(runCtx context.Context, mgr *workflow.Manager) error {
				videos, err := mgr.Videos(runCtx, states...)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					payload := make([]videoJSON, 0, len(videos))
					for _, v := range videos {
						payload = append(payload, toVideoJSON(v))
					}
					return writeJSON(cmd, payload)
				}
				out := cmd.OutOrStdout()
				if len(videos) == 0 {
					fmt.Fprintln(out, "No videos")
					return nil
				}
				rows := make([][]string, 0, len(videos))
				for _, v := range videos {
					rows = append(rows, []string{
						strconv.FormatInt(v.ID, 10),
						v.DisplayTitle(),
						string(v.State),
						valueOrDash(v.FilterName),
						yesNo(v.Captioned),
						valueOrDash(v.CurrentPath),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Title", "State", "Filter", "Captions", "Current"}, rows, 0))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&stateFlags, "state", "s", nil, "Only list videos in these states (repeatable)")
	return cmd
}

func parseStates(values []string) ([]store.State, error) {
	states := make([]store.State, 0, len(values))
	for _, value := range values {
		state := store.State(strings.ToLower(strings.TrimSpace(value)))
		if !state.Valid() {
			return nil, services.Wrap(services.ErrValidation, "cli", "args", fmt.Sprintf("unknown state %q", value), nil)
		}
		states = append(states, state)
	}
	return states, nil
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one video's lineage record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			return ctx.withManager(cmd, func(runCtx context.Context, mgr *workflow.Manager) error {
				video, err := mgr.Video(runCtx, id)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, toVideoJSON(video))
				}
				renderVideo(cmd, video, shouldColorize(cmd.OutOrStdout()))
				return nil
			})
		},
	}
}

func renderVideo(cmd *cobra.Command, v *store.Video, colorize bool) {
	out := cmd.OutOrStdout()
	for _, line := range renderSectionHeader(fmt.Sprintf("Video %d", v.ID), colorize) {
		fmt.Fprintln(out, line)
	}
	fields := []struct {
		label string
		value string
	}{
		{"Title", v.DisplayTitle()},
		{"Source ID", v.SourceID},
		{"Stem", valueOrDash(v.Stem)},
		{"State", string(v.State)},
		{"Start second", strconv.Itoa(v.StartSecond)},
		{"Base", valueOrDash(v.BasePath)},
		{"Current", valueOrDash(v.CurrentPath)},
		{"Filter", valueOrDash(v.FilterName)},
		{"Captioned", yesNo(v.Captioned)},
		{"Updated", v.UpdatedAt.Local().Format(time.DateTime)},
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, f.label+":", f.value)
	}
	if v.LastError != "" {
		fmt.Fprintln(out, renderStatusLine("Last error", statusError, fmt.Sprintf("%s (%s)", v.LastError, v.ErrorKind), colorize))
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shortsmith/internal/filters"
)

type filterJSON struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Graph       string `json:"graph"`
	Complex     bool   `json:"filter_complex"`
	Description string `json:"description"`
}

func newFiltersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "filters",
		Short:       "List available look filters",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			all := filters.All()
			if ctx.jsonOutput() {
				payload := make([]filterJSON, 0, len(all))
				for _, f := range all {
					payload = append(payload, filterJSON{
						Name:        f.Name,
						DisplayName: f.DisplayName(),
						Graph:       f.Graph,
						Complex:     f.MultiNode(),
						Description: f.Description,
					})
				}
				return writeJSON(cmd, payload)
			}

			rows := make([][]string, 0, len(all))
			for _, f := range all {
				kind := "simple"
				if f.MultiNode() {
					kind = "graph"
				}
				rows = append(rows, []string{f.Name, f.DisplayName(), kind, f.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Label", "Type", "Description"}, rows))
			return nil
		},
	}
}

package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/notekeeper/internal/server/services"
)

type statusOutput struct {
	UserID        string `json:"userId"`
	LastUpdatedAt int64  `json:"lastUpdatedAt"`
}

func newStatusCmd(d deps, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <userID>",
		Short: "Show the last sync activity of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), d, opts, func(svc *services.SyncService) error {
				at, err := svc.Status(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := statusOutput{UserID: args[0], LastUpdatedAt: at}
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), out)
				}

				t := newTable(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"User", "Last Updated At", "Epoch ms"})
				t.AppendRow(table.Row{out.UserID, formatMillis(at), at})
				t.Render()
				return nil
			})
		},
	}
}

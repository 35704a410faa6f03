package main

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/notekeeper/internal/server/services"
)

type tombstoneOutput struct {
	EntityType string `json:"entityType"`
	ClientID   string `json:"clientId"`
	DeletedAt  int64  `json:"deletedAt"`
}

func newTombstonesCmd(d deps, opts *globalOptions) *cobra.Command {
	var since int64

	cmd := &cobra.Command{
		Use:   "tombstones <userID>",
		Short: "List deletions recorded for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), d, opts, func(svc *services.SyncService) error {
				list, err := svc.Tombstones(cmd.Context(), args[0], time.UnixMilli(since))
				if err != nil {
					return err
				}

				out := make([]tombstoneOutput, 0, len(list))
				for _, ts := range list {
					out = append(out, tombstoneOutput{
						EntityType: string(ts.EntityType),
						ClientID:   ts.ClientID,
						DeletedAt:  ts.DeletedAt.UnixMilli(),
					})
				}
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), out)
				}

				t := newTable(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"Type", "Client ID", "Deleted At"})
				for _, o := range out {
					t.AppendRow(table.Row{o.EntityType, o.ClientID, formatMillis(o.DeletedAt)})
				}
				t.AppendFooter(table.Row{"", "Total", len(out)})
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&since, "since", 0, "Only list deletions after this epoch ms")

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukydev/autoservice/internal/shop"
)

func newPurgeCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "purge-history",
		Short: "Delete completed work older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.HistoryRetentionDays
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			n, err := shop.New(store, shop.WithLogger(a.log)).PurgeCompletedWork(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d completed work records older than %d days\n", n, days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", shop.DefaultRetentionDays, "age in days; defaults to history_retention_days")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFixManagersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fix-managers",
		Short: "Re-resolve manager links for appraisals with unknown managers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, pool, err := connectService(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			result, err := service.FixMissingManagers(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fixed %d appraisals, %d errors\n", result.Fixed, result.Errors)
			return nil
		},
	}
}

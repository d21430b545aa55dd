package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecalcRatingsCmd() *cobra.Command {
	var cycleID string

	cmd := &cobra.Command{
		Use:   "recalc-ratings",
		Short: "Recompute overall ratings from stored review responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			service, pool, err := connectService(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			result, err := service.RecalculateRatings(ctx, cycleID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d appraisals, %d errors\n", result.Updated, result.Errors)
			return nil
		},
	}

	cmd.Flags().StringVar(&cycleID, "cycle", "", "restrict to a single cycle (default: all cycles)")
	return cmd
}

package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

func newAnalyticsCmd() *cobra.Command {
	var cycleID string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print cycle analytics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cycleID == "" {
				return errors.New("--cycle is required")
			}
			ctx := cmd.Context()
			service, pool, err := connectService(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			analytics, err := service.AnalyzeCycle(ctx, cycleID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(analytics)
		},
	}

	cmd.Flags().StringVar(&cycleID, "cycle", "", "cycle to analyze")
	return cmd
}

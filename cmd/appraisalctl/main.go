package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"appraisals/internal/db"
	"appraisals/internal/domain/appraisal"
	"appraisals/internal/domain/directory"
	"appraisals/internal/domain/objectives"
	"appraisals/internal/platform/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appraisalctl",
		Short: "Maintenance tooling for the appraisal service",
		Long:  "appraisalctl runs data repair and recalculation jobs directly against the appraisal database.",
	}

	cmd.AddCommand(newFixManagersCmd())
	cmd.AddCommand(newRecalcRatingsCmd())
	cmd.AddCommand(newAnalyticsCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

// connectService builds an appraisal service against DATABASE_URL. The CLI
// runs without a notification sink; repair jobs never notify.
func connectService(ctx context.Context) (*appraisal.Service, *pgxpool.Pool, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	service := appraisal.NewService(
		appraisal.NewStore(pool),
		directory.NewStore(pool),
		objectives.NewStore(pool),
		nil,
	)
	return service, pool, nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}

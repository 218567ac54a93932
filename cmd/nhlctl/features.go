package main

import (
	"fmt"

	"nhl_v1/pipeline/internal/features"

	"github.com/spf13/cobra"
)

func newBuildFeaturesCmd() *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "build-features",
		Short: "Derive team-vs-opponent feature rows from ingested stats",
		Long: "Aggregates player and defense lines per final game, attaches opponent totals, " +
			"and computes trailing rolling features over strictly prior games. With --rebuild " +
			"the feature table is truncated first.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildFeatures(cmd, rebuild)
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "truncate the feature table before building")

	return cmd
}

func runBuildFeatures(cmd *cobra.Command, rebuild bool) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	pipeline := features.NewPipeline(a.db, a.cfg.RollingWindow)
	rows, err := pipeline.Run(ctx, rebuild)
	if err != nil {
		return fmt.Errorf("building features: %w", err)
	}

	fmt.Printf("Feature build complete: %d rows (window=%d)\n", rows, a.cfg.RollingWindow)
	return nil
}

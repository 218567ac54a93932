package main

import (
	"fmt"

	"nhl_v1/pipeline/internal/reconciler"

	"github.com/spf13/cobra"
)

func newIngestStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest-stats",
		Short: "Ingest box-score stats for all final games",
		Long: "Fetches the box score of every game in final status and upserts player and " +
			"defense stat lines. Fully idempotent; a failed game is skipped and logged.",
		Args: cobra.NoArgs,
		RunE: runIngestStats,
	}
}

func runIngestStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rec := reconciler.New(a.db, a.source)
	summary, err := rec.IngestStats(ctx)
	if err != nil {
		return fmt.Errorf("ingesting stats: %w", err)
	}

	fmt.Printf("Stat ingestion: %d games, %d player rows, %d defense rows, %d failed\n",
		summary.Games, summary.PlayerRows, summary.DefenseRows, summary.Failed)
	return nil
}

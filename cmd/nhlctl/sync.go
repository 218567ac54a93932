package main

import (
	"fmt"
	"time"

	"nhl_v1/pipeline/internal/reconciler"

	"github.com/spf13/cobra"
)

func newSyncScheduleCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "sync-schedule",
		Short: "Ingest the game schedule for a date range",
		Long: "Walks the upstream schedule from --start to --end, inserting new games and " +
			"advancing non-final ones. Final games are never modified. Defaults come from " +
			"SYNC_START_DATE/SYNC_END_DATE.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncSchedule(cmd, start, end)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first date to sync (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last date to sync (YYYY-MM-DD)")

	return cmd
}

func runSyncSchedule(cmd *cobra.Command, start, end string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if start == "" {
		start = a.cfg.SyncStartDate
	}
	if end == "" {
		end = a.cfg.SyncEndDate
	}
	if end == "" {
		end = time.Now().UTC().Format("2006-01-02")
	}
	if start == "" {
		return fmt.Errorf("no start date: pass --start or set SYNC_START_DATE")
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return fmt.Errorf("invalid start date %q: %w", start, err)
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return fmt.Errorf("invalid end date %q: %w", end, err)
	}

	rec := reconciler.New(a.db, a.source).WithSeasonFilter(a.cfg.SeasonFilter)
	summary, err := rec.SyncSchedule(ctx, start, end)
	if err != nil {
		return fmt.Errorf("syncing schedule: %w", err)
	}

	fmt.Printf("Schedule sync %s..%s: %d inserted, %d updated, %d skipped, %d failed\n",
		start, end, summary.Inserted, summary.Updated, summary.Skipped, summary.Failed)
	return nil
}

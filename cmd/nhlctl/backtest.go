package main

import (
	"fmt"
	"time"

	"nhl_v1/pipeline/internal/backtest"

	"github.com/spf13/cobra"
)

func newBacktestCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Walk-forward backtest over the feature table",
		Long: "Partitions feature rows by season, trains a ridge regressor on all earlier " +
			"seasons, and scores each held-out season. The first season is never evaluated.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBacktest(cmd, target)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "prediction target: goals or goal_diff (default from BACKTEST_TARGET)")

	return cmd
}

func runBacktest(cmd *cobra.Command, target string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if target == "" {
		target = a.cfg.BacktestTarget
	}

	rows, err := a.db.LoadFeatures(ctx)
	if err != nil {
		return fmt.Errorf("loading feature rows: %w", err)
	}

	scorer := backtest.NewRidgeScorer(a.cfg.RidgeAlpha)
	report, err := backtest.Run(rows, scorer, backtest.Config{
		Target:      target,
		CutoffMonth: time.Month(a.cfg.SeasonCutoffMonth),
	})
	if err != nil {
		return fmt.Errorf("running backtest: %w", err)
	}

	fmt.Printf("Backtest target=%s over %d held-out rows\n", report.Target, report.Rows)
	for _, s := range report.Seasons {
		fmt.Printf("  season %s: train=%d test=%d MAE=%.3f\n", s.Season, s.TrainRows, s.TestRows, s.MAE)
	}
	fmt.Printf("Aggregate MAE: %.3f\n", report.MAE)
	return nil
}

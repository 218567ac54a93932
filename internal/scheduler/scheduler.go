package scheduler

import (
	"context"
	"fmt"
	"time"

	"nhl_v1/pipeline/internal/config"
	"nhl_v1/pipeline/internal/features"
	"nhl_v1/pipeline/internal/reconciler"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs the nightly refresh: sync the trailing schedule window,
// ingest box scores for newly final games, then rebuild the feature table.
// There is no real-time polling; the pipeline is batch-oriented and a nightly
// pass is enough to keep the store one day behind at worst.
type Scheduler struct {
	cfg      *config.Config
	rec      *reconciler.Reconciler
	pipeline *features.Pipeline
	cron     *cron.Cron
}

// New creates a scheduler over the reconciler and feature pipeline
func New(cfg *config.Config, rec *reconciler.Reconciler, pipeline *features.Pipeline) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		rec:      rec,
		pipeline: pipeline,
		cron:     cron.New(),
	}
}

// Start schedules the nightly refresh
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.NightlyRefreshCron, func() {
		if err := s.RunRefresh(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly refresh failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyRefreshCron).
		Int("lookback_days", s.cfg.SyncLookbackDays).
		Msg("Nightly refresh scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Info().Msg("Scheduler stopped")
}

// RunRefresh executes one full refresh pass immediately
func (s *Scheduler) RunRefresh(ctx context.Context) error {
	started := time.Now()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -s.cfg.SyncLookbackDays)

	log.Info().
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Msg("Running nightly refresh")

	sync, err := s.rec.SyncSchedule(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("schedule sync failed: %w", err)
	}

	stats, err := s.rec.IngestStats(ctx)
	if err != nil {
		return fmt.Errorf("stat ingestion failed: %w", err)
	}

	rows, err := s.pipeline.Run(ctx, false)
	if err != nil {
		return fmt.Errorf("feature rebuild failed: %w", err)
	}

	log.Info().
		Int("games_inserted", sync.Inserted).
		Int("games_updated", sync.Updated).
		Int("stat_games", stats.Games).
		Int("feature_rows", rows).
		Dur("duration", time.Since(started)).
		Msg("Nightly refresh complete")

	return nil
}

package features

import (
	"context"
	"fmt"
	"time"

	"nhl_v1/pipeline/internal/metrics"
	"nhl_v1/pipeline/internal/models"

	"github.com/rs/zerolog/log"
)

// Store is the persistence surface the feature pipeline reads and writes
type Store interface {
	ListFinalGameMeta(ctx context.Context) ([]models.GameMeta, error)
	LoadTeamGameTotals(ctx context.Context) ([]models.TeamGameTotals, error)
	LoadDefenseTotals(ctx context.Context) ([]models.DefenseTotals, error)
	TruncateFeatures(ctx context.Context) error
	UpsertFeature(ctx context.Context, f *models.TeamVsOpponentFeature) error
}

// Pipeline loads final-game history, derives feature rows, and persists them
type Pipeline struct {
	store  Store
	window int
}

// NewPipeline creates a feature pipeline with the given rolling window
func NewPipeline(store Store, window int) *Pipeline {
	return &Pipeline{store: store, window: window}
}

// Run rebuilds the feature table from persisted history. With rebuild set the
// table is truncated first; otherwise existing rows are overwritten in place.
// Either way the output is identical, since every row is a pure function of
// game history.
func (p *Pipeline) Run(ctx context.Context, rebuild bool) (int, error) {
	started := time.Now()

	games, err := p.store.ListFinalGameMeta(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load final games: %w", err)
	}
	totals, err := p.store.LoadTeamGameTotals(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load team totals: %w", err)
	}
	defense, err := p.store.LoadDefenseTotals(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load defense totals: %w", err)
	}

	rows := Build(Input{Games: games, Totals: totals, Defense: defense}, p.window)

	log.Info().
		Int("final_games", len(games)).
		Int("feature_rows", len(rows)).
		Bool("rebuild", rebuild).
		Msg("Feature derivation complete, persisting")

	if rebuild {
		if err := p.store.TruncateFeatures(ctx); err != nil {
			return 0, err
		}
	}

	for i := range rows {
		if err := p.store.UpsertFeature(ctx, &rows[i]); err != nil {
			return 0, fmt.Errorf("failed to persist feature row game=%d team=%d: %w",
				rows[i].GameID, rows[i].TeamID, err)
		}
	}

	metrics.FeatureRowsBuilt.Set(float64(len(rows)))
	metrics.RecordSync("features", "success", time.Since(started).Seconds())

	return len(rows), nil
}

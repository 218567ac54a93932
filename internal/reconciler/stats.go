package reconciler

import (
	"context"
	"time"

	"nhl_v1/pipeline/internal/client"
	"nhl_v1/pipeline/internal/metrics"
	"nhl_v1/pipeline/internal/models"

	"github.com/rs/zerolog/log"
)

// StatSummary counts the outcomes of a box-score ingestion run
type StatSummary struct {
	Games       int
	PlayerRows  int
	DefenseRows int
	Failed      int
}

// IngestStats fetches box scores for every final game and upserts player and
// defense lines. Only final games are read, and every stat write is a full
// overwrite, so the pass is safe to re-run at any time.
func (r *Reconciler) IngestStats(ctx context.Context) (*StatSummary, error) {
	started := time.Now()
	summary := &StatSummary{}
	idents := NewIdentityCache()

	games, err := r.store.ListFinalGameMeta(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().Int("games", len(games)).Msg("Starting box-score ingestion")

	for _, meta := range games {
		box, err := r.source.FetchBoxscore(ctx, meta.ExternalID)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.Warn().Err(err).
				Int64("external_id", meta.ExternalID).
				Msg("Box-score fetch failed, skipping game")
			metrics.RecordError("reconciler", "boxscore_fetch")
			summary.Failed++
			continue
		}

		if err := r.ingestSide(ctx, idents, meta, box.Home, summary); err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.Error().Err(err).Int64("external_id", meta.ExternalID).Msg("Failed to ingest home side")
			summary.Failed++
			continue
		}
		if err := r.ingestSide(ctx, idents, meta, box.Away, summary); err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			log.Error().Err(err).Int64("external_id", meta.ExternalID).Msg("Failed to ingest away side")
			summary.Failed++
			continue
		}

		summary.Games++
	}

	status := "success"
	if summary.Failed > 0 {
		status = "partial"
	}
	metrics.RecordSync("stats", status, time.Since(started).Seconds())

	log.Info().
		Int("games", summary.Games).
		Int("player_rows", summary.PlayerRows).
		Int("defense_rows", summary.DefenseRows).
		Int("failed", summary.Failed).
		Dur("duration", time.Since(started)).
		Msg("Box-score ingestion complete")

	return summary, nil
}

// ingestSide upserts every player line for one side of a box score
func (r *Reconciler) ingestSide(ctx context.Context, idents *IdentityCache, meta models.GameMeta, side client.RawBoxscoreTeam, summary *StatSummary) error {
	teamID, err := idents.ResolveTeam(ctx, r.store, client.RawTeam{Abbrev: side.Abbrev, Name: side.Name})
	if err != nil {
		return err
	}

	for i := range side.Players {
		line := &side.Players[i]

		player := &models.Player{
			Name:     line.Name,
			TeamID:   teamID,
			Position: models.NullString(line.Position),
		}
		if err := r.store.UpsertPlayer(ctx, player); err != nil {
			return err
		}

		stat := &models.PlayerGameStat{
			PlayerID:      player.ID,
			GameID:        meta.GameID,
			TeamID:        teamID,
			Goals:         line.Goals,
			Assists:       line.Assists,
			Points:        line.Points,
			Shots:         line.Shots,
			Hits:          line.Hits,
			TimeOnIceSecs: line.TimeOnIceSecs,
		}
		if err := r.store.UpsertPlayerStat(ctx, stat); err != nil {
			return err
		}
		summary.PlayerRows++
		metrics.RecordOutcome("player_stat", "upserted")

		if line.Position == "D" {
			def := &models.TeamGameDefenseStat{
				GameID:        meta.GameID,
				PlayerID:      player.ID,
				TeamID:        teamID,
				Season:        meta.Season,
				Name:          line.Name,
				Position:      line.Position,
				Goals:         line.Goals,
				Assists:       line.Assists,
				Points:        line.Points,
				PlusMinus:     line.PlusMinus,
				PIM:           line.PIM,
				Hits:          line.Hits,
				BlockedShots:  line.BlockedShots,
				Shifts:        line.Shifts,
				Giveaways:     line.Giveaways,
				Takeaways:     line.Takeaways,
				TimeOnIceSecs: line.TimeOnIceSecs,
			}
			if err := r.store.UpsertDefenseStat(ctx, def); err != nil {
				return err
			}
			summary.DefenseRows++
			metrics.RecordOutcome("defense_stat", "upserted")
		}
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	"nhl_v1/pipeline/internal/models"

	"github.com/rs/zerolog/log"
)

// StatsRepository handles per-game player and defense stat operations
type StatsRepository struct {
	db *Database
}

// UpsertPlayerStat fully overwrites a player's line for a game. Re-running
// stat ingestion never accumulates duplicates.
func (r *StatsRepository) UpsertPlayerStat(ctx context.Context, stat *models.PlayerGameStat) error {
	query := `
		INSERT INTO player_game_stats (
			player_id, game_id, team_id,
			goals, assists, points, shots, hits, time_on_ice_secs
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			points = EXCLUDED.points,
			shots = EXCLUDED.shots,
			hits = EXCLUDED.hits,
			time_on_ice_secs = EXCLUDED.time_on_ice_secs,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		stat.PlayerID, stat.GameID, stat.TeamID,
		stat.Goals, stat.Assists, stat.Points, stat.Shots, stat.Hits, stat.TimeOnIceSecs,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player stat: %w", err)
	}

	return nil
}

// UpsertDefenseStat fully overwrites a defenseman's line for a game
func (r *StatsRepository) UpsertDefenseStat(ctx context.Context, stat *models.TeamGameDefenseStat) error {
	query := `
		INSERT INTO team_game_defense (
			game_id, player_id, team_id, season, name, position,
			goals, assists, points, plus_minus, pim, hits,
			blocked_shots, shifts, giveaways, takeaways, time_on_ice_secs
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			season = EXCLUDED.season,
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			points = EXCLUDED.points,
			plus_minus = EXCLUDED.plus_minus,
			pim = EXCLUDED.pim,
			hits = EXCLUDED.hits,
			blocked_shots = EXCLUDED.blocked_shots,
			shifts = EXCLUDED.shifts,
			giveaways = EXCLUDED.giveaways,
			takeaways = EXCLUDED.takeaways,
			time_on_ice_secs = EXCLUDED.time_on_ice_secs,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		stat.GameID, stat.PlayerID, stat.TeamID, stat.Season, stat.Name, stat.Position,
		stat.Goals, stat.Assists, stat.Points, stat.PlusMinus, stat.PIM, stat.Hits,
		stat.BlockedShots, stat.Shifts, stat.Giveaways, stat.Takeaways, stat.TimeOnIceSecs,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert defense stat: %w", err)
	}

	return nil
}

// TruncateDefense empties the derived defense table for a full rebuild
func (r *StatsRepository) TruncateDefense(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `TRUNCATE TABLE team_game_defense`); err != nil {
		return fmt.Errorf("failed to truncate team_game_defense: %w", err)
	}
	log.Info().Msg("team_game_defense truncated for rebuild")
	return nil
}

// LoadTeamGameTotals aggregates player lines per (game, team) for all final
// games. Skater lines (position <> G) sum into the "for" columns; goalie
// lines sum into goals/shots against.
func (r *StatsRepository) LoadTeamGameTotals(ctx context.Context) ([]models.TeamGameTotals, error) {
	query := `
		SELECT
			ps.game_id,
			ps.team_id,
			COALESCE(SUM(ps.goals) FILTER (WHERE p.position IS DISTINCT FROM 'G'), 0),
			COALESCE(SUM(ps.assists) FILTER (WHERE p.position IS DISTINCT FROM 'G'), 0),
			COALESCE(SUM(ps.points) FILTER (WHERE p.position IS DISTINCT FROM 'G'), 0),
			COALESCE(SUM(ps.shots) FILTER (WHERE p.position IS DISTINCT FROM 'G'), 0),
			COALESCE(SUM(ps.hits) FILTER (WHERE p.position IS DISTINCT FROM 'G'), 0),
			COALESCE(SUM(ps.time_on_ice_secs) FILTER (WHERE p.position IS DISTINCT FROM 'G'), 0) / 60.0,
			COALESCE(SUM(ps.goals) FILTER (WHERE p.position = 'G'), 0),
			COALESCE(SUM(ps.shots) FILTER (WHERE p.position = 'G'), 0),
			COALESCE(SUM(ps.time_on_ice_secs) FILTER (WHERE p.position = 'G'), 0) / 60.0
		FROM player_game_stats ps
		JOIN players p ON ps.player_id = p.id
		JOIN games g ON ps.game_id = g.id
		WHERE g.status = 'final'
		GROUP BY ps.game_id, ps.team_id
		ORDER BY ps.game_id, ps.team_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load team game totals: %w", err)
	}
	defer rows.Close()

	var totals []models.TeamGameTotals
	for rows.Next() {
		var t models.TeamGameTotals
		err := rows.Scan(
			&t.GameID, &t.TeamID,
			&t.Goals, &t.Assists, &t.Points, &t.Shots, &t.Hits, &t.TOIMinutes,
			&t.GoalsAgainst, &t.ShotsAgainst, &t.GoalieTOI,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team game totals: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team game totals: %w", err)
	}

	return totals, nil
}

// LoadDefenseTotals aggregates defense lines per (game, team)
func (r *StatsRepository) LoadDefenseTotals(ctx context.Context) ([]models.DefenseTotals, error) {
	query := `
		SELECT
			game_id,
			team_id,
			COALESCE(SUM(blocked_shots), 0),
			COALESCE(SUM(hits), 0),
			COALESCE(SUM(takeaways), 0),
			COALESCE(SUM(giveaways), 0),
			COALESCE(SUM(plus_minus), 0)
		FROM team_game_defense
		GROUP BY game_id, team_id
		ORDER BY game_id, team_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load defense totals: %w", err)
	}
	defer rows.Close()

	var totals []models.DefenseTotals
	for rows.Next() {
		var t models.DefenseTotals
		err := rows.Scan(&t.GameID, &t.TeamID, &t.BlockedShots, &t.Hits, &t.Takeaways, &t.Giveaways, &t.PlusMinus)
		if err != nil {
			return nil, fmt.Errorf("failed to scan defense totals: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating defense totals: %w", err)
	}

	return totals, nil
}

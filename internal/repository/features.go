package repository

import (
	"context"
	"fmt"

	"nhl_v1/pipeline/internal/models"

	"github.com/rs/zerolog/log"
)

// FeatureRepository handles the derived team_vs_opponent table. The table is
// a cache of the feature builder's output; truncate-and-rebuild is always safe.
type FeatureRepository struct {
	db *Database
}

// Upsert writes one feature row keyed (game_id, team_id)
func (r *FeatureRepository) Upsert(ctx context.Context, f *models.TeamVsOpponentFeature) error {
	query := `
		INSERT INTO team_vs_opponent (
			game_id, team_id, opp_team_id, home_away, season, game_date,
			goals, assists, points, shots, hits, toi_minutes, goals_against, shots_against,
			opp_goals, opp_shots, opp_hits, opp_points,
			goals_last5, goals_against_last5, shots_last5, hits_last5, points_last5,
			opp_shots_last5, opp_hits_last5, opp_points_last5,
			def_blocked_shots_last5, def_hits_last5, def_takeaways_last5,
			def_giveaways_last5, def_plus_minus_last5,
			opp_def_blocked_shots_last5, opp_def_hits_last5, opp_def_takeaways_last5,
			opp_def_giveaways_last5, opp_def_plus_minus_last5
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21, $22, $23,
			$24, $25, $26,
			$27, $28, $29, $30, $31,
			$32, $33, $34, $35, $36
		)
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			opp_team_id = EXCLUDED.opp_team_id,
			home_away = EXCLUDED.home_away,
			season = EXCLUDED.season,
			game_date = EXCLUDED.game_date,
			goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			points = EXCLUDED.points,
			shots = EXCLUDED.shots,
			hits = EXCLUDED.hits,
			toi_minutes = EXCLUDED.toi_minutes,
			goals_against = EXCLUDED.goals_against,
			shots_against = EXCLUDED.shots_against,
			opp_goals = EXCLUDED.opp_goals,
			opp_shots = EXCLUDED.opp_shots,
			opp_hits = EXCLUDED.opp_hits,
			opp_points = EXCLUDED.opp_points,
			goals_last5 = EXCLUDED.goals_last5,
			goals_against_last5 = EXCLUDED.goals_against_last5,
			shots_last5 = EXCLUDED.shots_last5,
			hits_last5 = EXCLUDED.hits_last5,
			points_last5 = EXCLUDED.points_last5,
			opp_shots_last5 = EXCLUDED.opp_shots_last5,
			opp_hits_last5 = EXCLUDED.opp_hits_last5,
			opp_points_last5 = EXCLUDED.opp_points_last5,
			def_blocked_shots_last5 = EXCLUDED.def_blocked_shots_last5,
			def_hits_last5 = EXCLUDED.def_hits_last5,
			def_takeaways_last5 = EXCLUDED.def_takeaways_last5,
			def_giveaways_last5 = EXCLUDED.def_giveaways_last5,
			def_plus_minus_last5 = EXCLUDED.def_plus_minus_last5,
			opp_def_blocked_shots_last5 = EXCLUDED.opp_def_blocked_shots_last5,
			opp_def_hits_last5 = EXCLUDED.opp_def_hits_last5,
			opp_def_takeaways_last5 = EXCLUDED.opp_def_takeaways_last5,
			opp_def_giveaways_last5 = EXCLUDED.opp_def_giveaways_last5,
			opp_def_plus_minus_last5 = EXCLUDED.opp_def_plus_minus_last5
	`

	_, err := r.db.Pool.Exec(
		ctx, query,
		f.GameID, f.TeamID, f.OppTeamID, f.HomeAway, f.Season, f.GameDate,
		f.Goals, f.Assists, f.Points, f.Shots, f.Hits, f.TOIMinutes, f.GoalsAgainst, f.ShotsAgainst,
		f.OppGoals, f.OppShots, f.OppHits, f.OppPoints,
		f.GoalsLast5, f.GoalsAgainstLast5, f.ShotsLast5, f.HitsLast5, f.PointsLast5,
		f.OppShotsLast5, f.OppHitsLast5, f.OppPointsLast5,
		f.DefBlockedShotsLast5, f.DefHitsLast5, f.DefTakeawaysLast5,
		f.DefGiveawaysLast5, f.DefPlusMinusLast5,
		f.OppDefBlockedShotsLast5, f.OppDefHitsLast5, f.OppDefTakeawaysLast5,
		f.OppDefGiveawaysLast5, f.OppDefPlusMinusLast5,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert feature row: %w", err)
	}

	return nil
}

// Truncate empties the feature table for a full rebuild
func (r *FeatureRepository) Truncate(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `TRUNCATE TABLE team_vs_opponent`); err != nil {
		return fmt.Errorf("failed to truncate team_vs_opponent: %w", err)
	}
	log.Info().Msg("team_vs_opponent truncated for rebuild")
	return nil
}

// LoadAll retrieves every feature row in chronological order
func (r *FeatureRepository) LoadAll(ctx context.Context) ([]models.TeamVsOpponentFeature, error) {
	query := `
		SELECT
			game_id, team_id, opp_team_id, home_away, season, game_date,
			goals, assists, points, shots, hits, toi_minutes, goals_against, shots_against,
			opp_goals, opp_shots, opp_hits, opp_points,
			goals_last5, goals_against_last5, shots_last5, hits_last5, points_last5,
			opp_shots_last5, opp_hits_last5, opp_points_last5,
			def_blocked_shots_last5, def_hits_last5, def_takeaways_last5,
			def_giveaways_last5, def_plus_minus_last5,
			opp_def_blocked_shots_last5, opp_def_hits_last5, opp_def_takeaways_last5,
			opp_def_giveaways_last5, opp_def_plus_minus_last5
		FROM team_vs_opponent
		ORDER BY game_date, game_id, team_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load feature rows: %w", err)
	}
	defer rows.Close()

	var features []models.TeamVsOpponentFeature
	for rows.Next() {
		var f models.TeamVsOpponentFeature
		err := rows.Scan(
			&f.GameID, &f.TeamID, &f.OppTeamID, &f.HomeAway, &f.Season, &f.GameDate,
			&f.Goals, &f.Assists, &f.Points, &f.Shots, &f.Hits, &f.TOIMinutes, &f.GoalsAgainst, &f.ShotsAgainst,
			&f.OppGoals, &f.OppShots, &f.OppHits, &f.OppPoints,
			&f.GoalsLast5, &f.GoalsAgainstLast5, &f.ShotsLast5, &f.HitsLast5, &f.PointsLast5,
			&f.OppShotsLast5, &f.OppHitsLast5, &f.OppPointsLast5,
			&f.DefBlockedShotsLast5, &f.DefHitsLast5, &f.DefTakeawaysLast5,
			&f.DefGiveawaysLast5, &f.DefPlusMinusLast5,
			&f.OppDefBlockedShotsLast5, &f.OppDefHitsLast5, &f.OppDefTakeawaysLast5,
			&f.OppDefGiveawaysLast5, &f.OppDefPlusMinusLast5,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		features = append(features, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feature rows: %w", err)
	}

	return features, nil
}

// Count returns the total number of feature rows
func (r *FeatureRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM team_vs_opponent`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feature rows: %w", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"nhl_v1/pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `id, external_id, season, game_date, home_team_id, away_team_id,
	       home_score, away_score, status, venue, game_type, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.ExternalID, &game.Season, &game.GameDate,
		&game.HomeTeamID, &game.AwayTeamID,
		&game.HomeScore, &game.AwayScore, &game.Status,
		&game.Venue, &game.GameType,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Insert inserts a new game. The whole row lands in one statement, so a
// partial payload can never commit an inconsistent game.
func (r *GameRepository) Insert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			external_id, season, game_date, home_team_id, away_team_id,
			home_score, away_score, status, venue, game_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.ExternalID, game.Season, game.GameDate, game.HomeTeamID, game.AwayTeamID,
		game.HomeScore, game.AwayScore, game.Status, game.Venue, game.GameType,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	log.Debug().
		Int("id", game.ID).
		Int64("external_id", game.ExternalID).
		Str("status", game.Status).
		Msg("Game created")

	return nil
}

// UpdateProgress advances a non-final game. The WHERE clause re-checks the
// persisted status so a final game can never be touched, even by a racing
// second run.
func (r *GameRepository) UpdateProgress(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games SET
			season = $1,
			status = $2,
			home_score = $3,
			away_score = $4,
			venue = $5,
			game_type = $6,
			updated_at = NOW()
		WHERE external_id = $7 AND status <> 'final'
	`

	result, err := r.db.Pool.Exec(
		ctx, query,
		game.Season, game.Status, game.HomeScore, game.AwayScore,
		game.Venue, game.GameType, game.ExternalID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game external_id=%d: %w", game.ExternalID, ErrNotFound)
	}

	return nil
}

// GetByExternalID retrieves a game by its upstream game id
func (r *GameRepository) GetByExternalID(ctx context.Context, externalID int64) (*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE external_id = $1`, gameColumns)

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game external_id=%d: %w", externalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListByStatus retrieves games by lifecycle status, oldest first
func (r *GameRepository) ListByStatus(ctx context.Context, status string) ([]*models.Game, error) {
	query := fmt.Sprintf(`SELECT %s FROM games WHERE status = $1 ORDER BY game_date, external_id`, gameColumns)

	rows, err := r.db.Pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list games by status: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return games, nil
}

// ListFinalMeta retrieves the metadata slice of all final games, in
// chronological order (date, then external id as tie-break).
func (r *GameRepository) ListFinalMeta(ctx context.Context) ([]models.GameMeta, error) {
	query := `
		SELECT id, external_id, season, game_date, home_team_id, away_team_id
		FROM games
		WHERE status = 'final'
		ORDER BY game_date, external_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list final games: %w", err)
	}
	defer rows.Close()

	var metas []models.GameMeta
	for rows.Next() {
		var m models.GameMeta
		if err := rows.Scan(&m.GameID, &m.ExternalID, &m.Season, &m.GameDate, &m.HomeTeamID, &m.AwayTeamID); err != nil {
			return nil, fmt.Errorf("failed to scan game meta: %w", err)
		}
		metas = append(metas, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game metas: %w", err)
	}

	return metas, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

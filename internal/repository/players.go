package repository

import (
	"context"
	"fmt"

	"nhl_v1/pipeline/internal/models"
)

// PlayerRepository handles player database operations.
//
// Player identity is (name, team_id): the upstream payloads do not carry a
// reliably stable global player id, so a player seen under a new team gets a
// new identity and a fresh history. Accepted limitation.
type PlayerRepository struct {
	db *Database
}

// Upsert inserts a player or fills a still-null position. Position is
// fill-once: a non-null persisted value is never overwritten.
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (name, team_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, team_id) DO UPDATE SET
			position = COALESCE(players.position, EXCLUDED.position),
			updated_at = NOW()
		RETURNING id, position, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, player.Name, player.TeamID, player.Position).
		Scan(&player.ID, &player.Position, &player.CreatedAt, &player.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}

	return nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

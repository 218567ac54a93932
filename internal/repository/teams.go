package repository

import (
	"context"
	"errors"
	"fmt"

	"nhl_v1/pipeline/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Upsert inserts a team or corrects its display name in place. The
// abbreviation is the identity key and never changes on conflict.
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (abbreviation, name)
		VALUES ($1, $2)
		ON CONFLICT (abbreviation) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, team.Abbreviation, team.Name).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Str("abbrev", team.Abbreviation).
		Msg("Team upserted")

	return nil
}

// GetByAbbreviation retrieves a team by its abbreviation
func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbrev string) (*models.Team, error) {
	query := `
		SELECT id, abbreviation, name, created_at, updated_at
		FROM teams
		WHERE abbreviation = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, abbrev).Scan(
		&team.ID, &team.Abbreviation, &team.Name, &team.CreatedAt, &team.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team %q: %w", abbrev, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams
func (r *TeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `
		SELECT id, abbreviation, name, created_at, updated_at
		FROM teams
		ORDER BY abbreviation
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.Abbreviation, &team.Name, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
